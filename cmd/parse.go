package cmd

import (
	"strings"

	"github.com/huangsam/newsline/core"
	"github.com/huangsam/newsline/internal/contract"
	"github.com/huangsam/newsline/internal/iocache"
	"github.com/huangsam/newsline/internal/outwriter"
	"github.com/spf13/cobra"
)

// parseCmd previews how a query is understood without scoring any document.
var parseCmd = &cobra.Command{
	Use:   "parse <query>",
	Short: "Show how a query is parsed and decomposed.",
	Long: `Parse a query and print its structured form and subqueries.

Shows the normalized terms, detected intent, graph entities, resolved time
window and the weighted subqueries a retrieval would run. No documents are
read, so --docs is not required. Pass --graph or --graph-backend to see entity
matches.

Examples:
  newsline parse "why did Gazprom exports fall last month"
  newsline parse "сравни Газпром и Роснефть 2026-01-01 - 2026-02-01" --scope entity --output json`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := executeParse(strings.Join(args, " ")); err != nil {
			contract.LogFatal("Cannot parse query", err)
		}
	},
}

func executeParse(query string) error {
	previewCfg := cfg.Clone()
	previewCfg.DocsPath = ""
	deps, err := buildDeps(previewCfg, iocache.Manager)
	if err != nil {
		return err
	}
	resp, err := core.Preview(rootCtx, deps, requestFromConfig(cfg, query))
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteQueryPlan(outwriter.QueryPlan(resp), cfg)
}
