package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mattsolo1/grove-materials/pkg/indexer"
	"github.com/mattsolo1/grove-materials/pkg/models"
)

func NewListCmd(svc **indexer.Service) *cobra.Command {
	var (
		filter indexer.Filter
		format string
		limit  int
	)

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List materials from the generated index",
		Aliases: []string{"ls"},
		Long: `List materials from the generated index file.

Filters behave like the website: --tag, --year and --type must match exactly
(type ignores case), --query is a case-insensitive substring search over
title, description, type, year, date and tags.

Examples:
  materials list                       # everything, newest first
  materials list --tag "Semestr 1"     # one folder
  materials list --year 2024 -t pdf    # PDFs from 2024
  materials list -q graf --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			doc, err := indexer.ReadDocument(s.Config.OutputFile())
			if err != nil {
				return err
			}

			items := indexer.FilterItems(doc.Items, filter)
			if limit > 0 && len(items) > limit {
				items = items[:limit]
			}

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				return outputJSON(out, items)
			case "yaml":
				return outputYAML(out, items)
			case "table", "":
				if len(items) == 0 {
					fmt.Fprintln(out, "No materials found")
					return nil
				}
				printItemsTable(out, items)
				return nil
			default:
				return fmt.Errorf("unknown format %q (use table, json or yaml)", format)
			}
		},
	}

	cmd.Flags().StringVar(&filter.Tag, "tag", "", "Only items with this tag")
	cmd.Flags().StringVar(&filter.Year, "year", "", "Only items from this year")
	cmd.Flags().StringVarP(&filter.Type, "type", "t", "", "Only items of this file type (pdf, pptx, ...)")
	cmd.Flags().StringVarP(&filter.Query, "query", "q", "", "Substring search")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table, json or yaml")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum items to show (0 for all)")

	return cmd
}

func printItemsTable(out io.Writer, items []models.MaterialItem) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "DATE\tTYPE\tTITLE\tTAGS")
	fmt.Fprintln(w, "----------\t----\t-----------------------------\t--------------------")

	for _, item := range items {
		date := item.Date
		if date == "" {
			date = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", date, item.Type, truncateString(item.Title, 29), truncateString(strings.Join(item.Tags, ", "), 40))
	}

	w.Flush()
}

func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

func outputJSON(out io.Writer, items []models.MaterialItem) error {
	encoder := json.NewEncoder(out)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	return encoder.Encode(items)
}

func outputYAML(out io.Writer, items []models.MaterialItem) error {
	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(2)
	if err := encoder.Encode(items); err != nil {
		return err
	}
	return encoder.Close()
}
