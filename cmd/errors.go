package cmd

import "fmt"

// ExitError ends the process with Code after the command already reported
// the problem to the user.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}
