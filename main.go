package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-materials/cmd"
	"github.com/mattsolo1/grove-materials/cmd/config"
	"github.com/mattsolo1/grove-materials/pkg/indexer"
)

var svc *indexer.Service

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "materials",
		Short:         "Index lecture materials into a static JSON catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	config.AddGlobalFlags(rootCmd)

	rootCmd.PersistentPreRunE = func(c *cobra.Command, args []string) error {
		// This runs once before any subcommand
		if err := config.BindFlags(c); err != nil {
			return fmt.Errorf("bind flags: %w", err)
		}
		if err := config.InitConfig(); err != nil {
			return err
		}

		logger := config.NewLogger()
		svc = indexer.New(config.IndexerConfig(), logrus.NewEntry(logger))
		return nil
	}

	rootCmd.AddCommand(cmd.NewIndexCmd(&svc))
	rootCmd.AddCommand(cmd.NewListCmd(&svc))
	rootCmd.AddCommand(cmd.NewSearchCmd(&svc))
	rootCmd.AddCommand(cmd.NewWatchCmd(&svc))
	rootCmd.AddCommand(cmd.NewDoctorCmd(&svc))
	rootCmd.AddCommand(cmd.NewVersionCmd())

	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	if err == nil {
		return
	}

	stop()
	var exitErr *cmd.ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.Code)
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
