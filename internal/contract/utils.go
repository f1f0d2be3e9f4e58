package contract

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/huangsam/newsline/schema"
)

// Relevance label constants.
const (
	StrongValue   = "Strong"   // Strong value
	HighValue     = "High"     // High value
	ModerateValue = "Moderate" // Moderate value
	LowValue      = "Low"      // Low value
)

// Color variables for console output.
var (
	StrongColor   = color.New(color.FgGreen, color.Bold)
	HighColor     = color.New(color.FgCyan, color.Bold)
	ModerateColor = color.New(color.FgYellow)
	LowColor      = color.New(color.FgWhite)

	ProColor     = color.New(color.FgGreen)
	AntiColor    = color.New(color.FgRed)
	NeutralColor = color.New(color.FgHiBlack)
)

// logger is the process-wide structured logger. It writes to stderr so stdout stays free for
// results and the MCP protocol.
var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	TimeFormat:      time.RFC3339,
	Level:           log.InfoLevel,
	Prefix:          "newsline",
})

// Logger returns the process-wide logger.
func Logger() *log.Logger {
	return logger
}

// SetLogLevel sets the logger level from a name such as "debug" or "warn".
func SetLogLevel(level string) error {
	if level == "" {
		return nil
	}
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger.SetLevel(lvl)
	return nil
}

// SetLogOutput redirects the logger.
func SetLogOutput(w io.Writer) {
	logger.SetOutput(w)
}

// GetPlainLabel returns a plain text label for a 1-5 relevance score.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(relevance int) string {
	switch {
	case relevance >= 5:
		return StrongValue
	case relevance == 4:
		return HighValue
	case relevance == 3:
		return ModerateValue
	default:
		return LowValue
	}
}

// GetColorLabel returns a colored relevance label for console output (table).
func GetColorLabel(relevance int) string {
	text := GetPlainLabel(relevance)

	switch text {
	case StrongValue:
		return StrongColor.Sprint(text)
	case HighValue:
		return HighColor.Sprint(text)
	case ModerateValue:
		return ModerateColor.Sprint(text)
	default:
		return LowColor.Sprint(text)
	}
}

// GetStanceLabel returns the stance, colored when useColors is set.
func GetStanceLabel(stance schema.Stance, useColors bool) string {
	if !useColors {
		return string(stance)
	}
	switch stance {
	case schema.StancePro:
		return ProColor.Sprint(stance)
	case schema.StanceAnti:
		return AntiColor.Sprint(stance)
	default:
		return NeutralColor.Sprint(stance)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	logger.Error(msg, "err", err)
	os.Exit(1)
}

// LogWarn logs a warning with its cause.
func LogWarn(msg string, err error) {
	logger.Warn(msg, "err", err)
}

// GetMetricsDBFilePath returns the path to the SQLite DB file for retrieval metrics.
func GetMetricsDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".newsline_metrics.db"
	}
	return filepath.Join(homeDir, ".newsline_metrics.db")
}

// GetGraphDBFilePath returns the path to the SQLite DB file for the graph snapshot.
func GetGraphDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".newsline_graph.db"
	}
	return filepath.Join(homeDir, ".newsline_graph.db")
}

// TruncateText shortens text to maxWidth runes with a trailing ellipsis.
// Requires maxWidth > 3 so there is room for the ellipsis and at least one character.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// SplitList splits a comma-separated list, trimming blanks.
func SplitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
