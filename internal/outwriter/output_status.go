package outwriter

import (
	"fmt"
	"io"

	"github.com/huangsam/newsline/internal/contract"
	"github.com/huangsam/newsline/internal/iocache"
	"github.com/huangsam/newsline/schema"
)

// WriteMetricsStatus outputs the metrics store status as text or JSON.
func WriteMetricsStatus(status schema.MetricsStatus, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, status)
		}, "Wrote JSON status")
	case schema.TextOut, "":
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			iocache.PrintMetricsStatus(w, status)
			return nil
		}, "Wrote status")
	default:
		return fmt.Errorf("%s output is not available for status", cfg.Output)
	}
}

// WriteGraphStatus outputs the graph store status as text or JSON.
func WriteGraphStatus(status schema.GraphStatus, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, status)
		}, "Wrote JSON status")
	case schema.TextOut, "":
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			iocache.PrintGraphStatus(w, status)
			return nil
		}, "Wrote status")
	default:
		return fmt.Errorf("%s output is not available for status", cfg.Output)
	}
}
