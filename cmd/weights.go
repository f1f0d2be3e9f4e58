package cmd

import (
	"github.com/huangsam/newsline/internal/contract"
	"github.com/huangsam/newsline/internal/outwriter"
	"github.com/spf13/cobra"
)

// weightsCmd displays the fusion formula and the active signal weights.
var weightsCmd = &cobra.Command{
	Use:   "weights",
	Short: "Display the fusion formula and signal weights",
	Long: `Show the weighted sum used to rank candidates and the weight of every signal.

Custom weights from .newsline.yaml are marked next to their defaults.
No retrieval is performed - this is purely informational.

Examples:
  # Show default weights
  newsline weights

  # View with custom weights from config file
  newsline weights --config .newsline.yaml`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := outwriter.NewOutWriter().WriteWeights(cfg); err != nil {
			contract.LogFatal("Cannot display weights", err)
		}
	},
}
