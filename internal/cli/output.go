package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/noah-isme/clinic-admin-api/internal/dataview"
	"github.com/noah-isme/clinic-admin-api/pkg/export"
)

const maxCell = 32

func printTable(w io.Writer, data export.Dataset) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(data.Headers, "\t"))
	for _, row := range data.Rows {
		cells := make([]string, len(data.Headers))
		for i, header := range data.Headers {
			cells[i] = clip(row[header])
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	_ = tw.Flush()
}

func clip(value string) string {
	value = strings.ReplaceAll(value, "\t", " ")
	if r := []rune(value); len(r) > maxCell {
		return string(r[:maxCell-1]) + "…"
	}
	return value
}

func printStats(w io.Writer, stats dataview.Stats) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "total\t%d\n", stats.Total)
	for _, key := range sortedKeys(stats.ByStatus) {
		fmt.Fprintf(tw, "status: %s\t%d\n", key, stats.ByStatus[key])
	}
	for _, key := range sortedKeys(stats.Counters) {
		fmt.Fprintf(tw, "%s\t%d\n", key, stats.Counters[key])
	}
	_ = tw.Flush()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
