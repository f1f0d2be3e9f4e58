package cmd

import (
	"github.com/huangsam/newsline/internal/iocache"
	"github.com/huangsam/newsline/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Newsline MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents run temporal retrievals
and parse previews through the temporal_retrieve and parse_query tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		deps, err := buildDeps(cfg, iocache.Manager)
		if err != nil {
			return err
		}
		return mcp.StartMCPServer(rootCtx, cfg, deps)
	},
}
