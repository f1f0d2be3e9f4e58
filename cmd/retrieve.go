package cmd

import (
	"errors"
	"strings"
	"time"

	"github.com/huangsam/newsline/core"
	"github.com/huangsam/newsline/internal/contract"
	"github.com/huangsam/newsline/internal/iocache"
	"github.com/huangsam/newsline/internal/outwriter"
	"github.com/spf13/cobra"
)

// retrieveCmd runs one temporal retrieval against the configured document dataset.
var retrieveCmd = &cobra.Command{
	Use:   "retrieve <query>",
	Short: "Show a ranked, explained timeline for a query.",
	Long: `Run a temporal retrieval over the configured document dataset.

The query is parsed for intent, entities and a time window. Long windows are
split into a boosted recent slice and a damped baseline. Each document is gated
by scope, time and a primary relevance threshold, then fused over seven signals,
reranked newest-first, deduplicated by normalized title and explained.

Examples:
  # Latest week for one company across all countries
  newsline retrieve "Gazprom exports last 7 days" --docs events.json --scope entity --graph graph.yaml

  # Country scope with an explicit window
  newsline retrieve "grain corridor" --docs events.json --countries UA,TR --from 2026-01-01 --to 2026-03-01

  # Export for analysis
  newsline retrieve "sanctions" --docs events.json --output parquet --output-file timeline.parquet`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := executeRetrieve(strings.Join(args, " ")); err != nil {
			contract.LogFatal("Cannot run retrieval", err)
		}
	},
}

// executeRetrieve runs the service call and writes the timeline.
func executeRetrieve(query string) error {
	deps, err := buildDeps(cfg, iocache.Manager)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := core.Retrieve(rootCtx, deps, requestFromConfig(cfg, query))
	if errors.Is(err, core.ErrNoDocumentSource) {
		return errNoDocuments
	}
	if err != nil {
		return err
	}
	duration := time.Since(start)

	summary := sessionMetrics.Summary()
	contract.Logger().Debug("session metrics",
		"retrievals", summary.Retrievals,
		"candidates", summary.Candidates,
		"returned", summary.Returned)

	report := outwriter.TimelineReport{RequestID: resp.RequestID.String(), RetrievalResult: resp.Result}
	return outwriter.NewOutWriter().WriteTimeline(report, cfg, duration)
}
