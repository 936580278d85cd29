package main

import (
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/archport/pkg/archport"
)

func newListCommand() *cobra.Command {
	var (
		filter string
		depth  int
	)

	cmd := &cobra.Command{
		Use:   "list [archive-or-directory]",
		Short: "List the entries of an archive or directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := archport.List(cmd.Context(), args[0], depth)
			if err != nil {
				return err
			}
			rows = filterRows(rows, filter)

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Path", "Kind", "Size", "Modified"})
			table.SetBorder(false)
			table.SetAutoWrapText(false)
			for _, r := range rows {
				table.Append(formatRow(r))
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "fuzzy filter applied to entry paths")
	cmd.Flags().IntVar(&depth, "depth", 0, "maximum depth to list, 0 for no limit")

	return cmd
}

// filterRows keeps the rows whose path fuzzy-matches query, in listing order.
func filterRows(rows []archport.Listing, query string) []archport.Listing {
	if strings.TrimSpace(query) == "" {
		return rows
	}
	paths := make([]string, len(rows))
	for i, r := range rows {
		paths[i] = r.Path
	}

	matches := fuzzy.Find(query, paths)
	indexes := make([]int, 0, len(matches))
	for _, m := range matches {
		indexes = append(indexes, m.Index)
	}
	sort.Ints(indexes)

	result := make([]archport.Listing, 0, len(indexes))
	for _, i := range indexes {
		result = append(result, rows[i])
	}
	return result
}

func formatRow(r archport.Listing) []string {
	kind, size := "file", humanize.Bytes(uint64(r.Size))
	if r.Dir {
		kind, size = "dir", "-"
	}
	modified := "-"
	if !r.ModTime.IsZero() {
		modified = humanize.Time(r.ModTime)
	}
	return []string{r.Path, kind, size, modified}
}
