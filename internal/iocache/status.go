package iocache

import (
	"fmt"
	"io"
	"slices"

	"github.com/huangsam/newsline/schema"
)

const statusTimeFormat = "2006-01-02 15:04:05"

// PrintMetricsStatus prints metrics store status information.
func PrintMetricsStatus(w io.Writer, status schema.MetricsStatus) {
	_, _ = fmt.Fprintf(w, "Metrics Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns > 0 {
		_, _ = fmt.Fprintf(w, "Last Run ID: %s\n", status.LastRunID)
		_, _ = fmt.Fprintf(w, "Last Run: %s\n", status.LastRunTime.Format(statusTimeFormat))
		_, _ = fmt.Fprintf(w, "Oldest Run: %s\n", status.OldestRunTime.Format(statusTimeFormat))
		_, _ = fmt.Fprintf(w, "Total Items Returned: %d\n", status.TotalReturned)
		_, _ = fmt.Fprintf(w, "Mean Freshness: %.1fh\n", status.MeanFreshnessHours)
	}
	_, _ = fmt.Fprintln(w, "Table Sizes:")
	tables := make([]string, 0, len(status.TableSizes))
	for table := range status.TableSizes {
		tables = append(tables, table)
	}
	slices.Sort(tables)
	for _, table := range tables {
		_, _ = fmt.Fprintf(w, "  %s: %d rows\n", table, status.TableSizes[table])
	}
}

// PrintGraphStatus prints graph store status information.
func PrintGraphStatus(w io.Writer, status schema.GraphStatus) {
	_, _ = fmt.Fprintf(w, "Graph Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Entities: %d\n", status.Entities)
	_, _ = fmt.Fprintf(w, "Edges: %d\n", status.Edges)
}
