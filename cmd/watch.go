package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-materials/cmd/config"
	"github.com/mattsolo1/grove-materials/pkg/catalog"
	"github.com/mattsolo1/grove-materials/pkg/indexer"
	"github.com/mattsolo1/grove-materials/pkg/metrics"
	"github.com/mattsolo1/grove-materials/pkg/watch"
)

func NewWatchCmd(svc **indexer.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the index whenever the materials folder changes",
		Long: `Index once, then watch the materials folder and rebuild the whole
index after each burst of changes. The output file is only rewritten when the
set of materials actually changed.

Examples:
  materials watch
  materials watch --debounce 2s --catalog data/materials.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			ctx := cmd.Context()

			catalogPath := config.CatalogPath()
			if catalogPath != "" {
				cat, err := catalog.Open(catalogPath)
				if err != nil {
					return fmt.Errorf("open catalog: %w", err)
				}
				defer cat.Close()
				s.Catalog = cat
			}

			textfile := config.MetricsTextfile()
			if textfile != "" {
				s.Metrics = metrics.New()
			}

			run := newIndexRunner(cmd, s, textfile)
			if err := run(ctx); err != nil {
				return err
			}

			ignore := []string{s.Config.OutputFile()}
			if catalogPath != "" {
				ignore = append(ignore, catalogPath, catalogPath+"-journal", catalogPath+"-wal")
			}
			if textfile != "" {
				ignore = append(ignore, textfile)
			}

			w := watch.New(s.Config.SourcePath(), config.WatchDebounce(), run, s.Logger, ignore...)
			s.Logger.WithFields(logrus.Fields{"source": s.Config.SourcePath()}).Info("Starting watch mode")
			fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for changes (Ctrl+C to stop)\n", s.Config.SourcePath())
			return w.Run(ctx)
		},
	}

	config.AddIndexFlags(cmd)
	cmd.Flags().Duration("debounce", watch.DefaultDebounce, "Quiet period before a change triggers a rebuild")

	return cmd
}

// newIndexRunner returns the run performed on every batch of changes. It
// rebuilds the whole index but only publishes it when the item fingerprint
// differs from the last published one.
func newIndexRunner(cmd *cobra.Command, s *indexer.Service, textfile string) watch.RunFunc {
	var (
		last    uint64
		hasLast bool
	)
	return func(ctx context.Context) error {
		res, err := s.Build(ctx)
		if err != nil {
			return err
		}

		fp := watch.Fingerprint(res.Document.Items)
		if hasLast && fp == last {
			s.Logger.WithField("items", res.Items()).Info("Materials unchanged, index not rewritten")
			return nil
		}

		err = s.Publish(ctx, res)
		if textfile != "" {
			if werr := s.Metrics.WriteTextfile(textfile); werr != nil {
				s.Logger.WithError(werr).WithField("path", textfile).Warn("Failed to write metrics textfile")
			}
		}
		if err != nil {
			if errors.Is(err, indexer.ErrInvalidOutput) {
				fmt.Fprintln(cmd.ErrOrStderr(), "ERROR: Generated JSON is invalid!")
			}
			return err
		}

		last, hasLast = fp, true
		printRunSummary(cmd, s, res)
		return nil
	}
}
