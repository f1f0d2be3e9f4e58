package outwriter

import (
	"os"

	"github.com/huangsam/newsline/internal/contract"
	"golang.org/x/term"
)

// terminalWidth returns the configured width, the detected terminal width, or 80.
func terminalWidth(cfg *contract.Config) int {
	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		return 80 // Conservative default for narrow terminals and CI
	}
	return detectedWidth
}

// getMaxTableTitleWidth calculates how many runes of a title fit in the timeline table.
func getMaxTableTitleWidth(cfg *contract.Config) int {
	// Rank + Published + Source + Stance + Relevance + Conf with borders/padding
	baseWidth := 75

	available := terminalWidth(cfg) - baseWidth
	if available < 20 {
		return 20
	}
	if available > 90 {
		return 90
	}
	return available
}
