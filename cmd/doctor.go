package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-materials/pkg/indexer"
)

func NewDoctorCmd(svc **indexer.Service) *cobra.Command {
	var doctorFix bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the generated index for problems",
		Long: `The doctor command reads the generated index and reports:
- a file that does not parse as JSON
- a malformed meta.generated_at timestamp
- items that are out of order
- ids shared by more than one item
- items whose file no longer exists

With --fix the index is regenerated from the materials folder.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			out := cmd.OutOrStdout()
			path := s.Config.OutputFile()

			fmt.Fprintln(out, "🏥 Running index doctor...")
			fmt.Fprintln(out)

			doc, err := indexer.ReadDocument(path)
			if errors.Is(err, indexer.ErrInvalidOutput) && !doctorFix {
				fmt.Fprintf(out, "❗ %s is not valid JSON: %v\n", path, err)
				return &ExitError{Code: 1}
			}
			if err != nil && !doctorFix {
				return err
			}

			var issues []indexer.Issue
			if err == nil {
				issues, err = indexer.Diagnose(doc, s.Config.ProjectRoot)
				if err != nil {
					return err
				}
				for _, issue := range issues {
					fmt.Fprintf(out, "❗ [%s] %s\n", issue.Kind, issue.Message)
				}
			}

			if doctorFix && (doc == nil || len(issues) > 0) {
				res, err := s.Run(cmd.Context())
				if err != nil {
					return fmt.Errorf("regenerate index: %w", err)
				}
				fmt.Fprintln(out)
				fmt.Fprintf(out, "✅ Regenerated %s with %d items\n", res.OutputPath, res.Items())
				return nil
			}

			fmt.Fprintln(out)
			if len(issues) == 0 {
				fmt.Fprintf(out, "✅ %s looks healthy (%d items)\n", path, len(doc.Items))
			} else {
				fmt.Fprintf(out, "Found %d issue(s). Run with --fix to regenerate the index.\n", len(issues))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&doctorFix, "fix", false, "Regenerate the index when problems are found")

	return cmd
}
