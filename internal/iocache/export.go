package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/newsline/internal/contract"
	"github.com/huangsam/newsline/internal/parquet"
)

// ExecuteMetricsExport writes every stored retrieval run to outputFile as Parquet.
func ExecuteMetricsExport(store contract.MetricsStore, outputFile string, out io.Writer) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("metrics store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get metrics status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no retrieval runs found to export")
	}

	_, _ = fmt.Fprintf(out, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(out, "Total retrieval runs: %d\n", status.TotalRuns)

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}

	rows := parquet.ConvertRetrievalRunRecords(runs)
	if err := parquet.WriteRetrievalRunsParquet(rows, outputFile); err != nil {
		return fmt.Errorf("failed to write retrieval runs: %w", err)
	}
	_, _ = fmt.Fprintf(out, "Exported %d retrieval runs to: %s\n", len(rows), outputFile)

	return nil
}
