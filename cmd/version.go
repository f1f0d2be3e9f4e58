package cmd

import (
	"runtime"

	"github.com/huangsam/newsline/schema"
	"github.com/spf13/cobra"
)

// versionCmd prints build details and the engine defaults compiled into this binary.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of newsline.",
	Long: `Display version information including build details and engine defaults.

The engine line shows the built-in tuning a run starts from before any
weights.*, thresholds.* or windows.* overrides are applied.`,
	Run: func(cmd *cobra.Command, _ []string) {
		engine := schema.DefaultEngineConfig()
		cmd.Printf("newsline CLI\n")
		cmd.Printf("  Version: %s\n", version)
		cmd.Printf("  Commit:  %s\n", commit)
		cmd.Printf("  Built:   %s\n", date)
		cmd.Printf("  Runtime: %s\n", runtime.Version())
		cmd.Printf("  Engine:  %d signals, %d-dim hashed vectors, gate %.2f, limit %d\n",
			len(schema.AllSignals), engine.VectorDims, engine.PrimaryGate, engine.DefaultLimit)
	},
}
