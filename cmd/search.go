package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-materials/cmd/config"
	"github.com/mattsolo1/grove-materials/pkg/catalog"
	"github.com/mattsolo1/grove-materials/pkg/indexer"
)

func NewSearchCmd(svc **indexer.Service) *cobra.Command {
	var opts catalog.Options

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search in the materials catalog",
		Long: `Search the SQLite catalog written by "materials index --catalog PATH".

Examples:
  materials search grafy --catalog data/materials.db
  materials search "wstep algorytmy" --year 2024
  materials search macierze --tag "Algebra liniowa" -t pdf`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			path := config.CatalogPath()
			if path == "" {
				return fmt.Errorf("no catalog configured; run 'materials index --catalog PATH' first")
			}

			cat, err := catalog.Open(path)
			if err != nil {
				return fmt.Errorf("open catalog: %w", err)
			}
			defer cat.Close()

			query := strings.Join(args, " ")
			results, err := cat.Search(cmd.Context(), query, &opts)
			if err != nil {
				return err
			}
			s.Logger.WithField("query", query).WithField("results", len(results)).Debug("Catalog search finished")

			out := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintln(out, "No results found")
				return nil
			}

			fmt.Fprintf(out, "Found %d results:\n\n", len(results))
			for i, item := range results {
				fmt.Fprintf(out, "%d. %s\n", i+1, item.Title)
				fmt.Fprintf(out, "   %s", item.URL)
				if item.Date != "" {
					fmt.Fprintf(out, " (%s)", item.Date)
				}
				fmt.Fprintln(out)
				if len(item.Tags) > 0 {
					fmt.Fprintf(out, "   Tags: %s\n", strings.Join(item.Tags, ", "))
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Tag, "tag", "", "Filter by tag")
	cmd.Flags().StringVar(&opts.Year, "year", "", "Filter by year")
	cmd.Flags().StringVarP(&opts.Type, "type", "t", "", "Filter by file type")
	cmd.Flags().IntVar(&opts.Limit, "limit", 50, "Maximum results")

	return cmd
}
