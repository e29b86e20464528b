package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-materials/cmd/config"
	"github.com/mattsolo1/grove-materials/pkg/catalog"
	"github.com/mattsolo1/grove-materials/pkg/indexer"
	"github.com/mattsolo1/grove-materials/pkg/metrics"
)

func NewIndexCmd(svc **indexer.Service) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Scan the materials folder and write the JSON index",
		Long: `Scan the materials folder and regenerate the JSON index from scratch.

Dates are read from filename prefixes (YYYY-MM-DD_ or YYYYMMDD_), tags from
subfolder names. The written file is read back and must parse as JSON.

Examples:
  materials index                          # wyklady/ -> data/materials.json
  materials index --source notes -o out.json
  materials index --exclude '**/szkice/**' --catalog data/materials.db
  materials index --dry-run                # print the index instead of writing it`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			ctx := cmd.Context()

			if dryRun {
				res, err := s.Build(ctx)
				if err != nil {
					return err
				}
				data, err := indexer.Encode(res.Document)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			if path := config.CatalogPath(); path != "" {
				cat, err := catalog.Open(path)
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

			res, err := s.Run(ctx)

			if textfile != "" {
				if werr := s.Metrics.WriteTextfile(textfile); werr != nil {
					s.Logger.WithError(werr).WithField("path", textfile).Warn("Failed to write metrics textfile")
				}
			}

			if errors.Is(err, indexer.ErrInvalidOutput) {
				fmt.Fprintln(cmd.ErrOrStderr(), "ERROR: Generated JSON is invalid!")
				return &ExitError{Code: 1}
			}
			if err != nil {
				return err
			}

			printRunSummary(cmd, s, res)
			return nil
		},
	}

	config.AddIndexFlags(cmd)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the index to stdout without writing files")

	return cmd
}

func printRunSummary(cmd *cobra.Command, s *indexer.Service, res *indexer.Result) {
	if res.Empty {
		fmt.Fprintf(cmd.OutOrStdout(), "No %s/ folder found. Generated empty index.\n", s.Config.SourceDir)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Generated %s with %d items.\n", res.OutputPath, res.Items())
}
