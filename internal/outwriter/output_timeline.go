package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/newsline/internal/contract"
	"github.com/huangsam/newsline/internal/parquet"
	"github.com/huangsam/newsline/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// TimelineReport is a retrieval result with the id of the request that produced it.
type TimelineReport struct {
	RequestID string `json:"requestId"`
	schema.RetrievalResult
}

// WriteTimelineResults outputs a timeline, dispatching based on the output format configured.
func WriteTimelineResults(report TimelineReport, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := floatFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONTimeline(w, report)
		}, "Wrote JSON timeline"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVTimeline(w, report.Timeline, fmtFloat)
		}, "Wrote CSV timeline"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return errors.New("--output-file is required for parquet output")
		}
		if err := parquet.WriteTimelineParquet(parquet.ConvertTimeline(report.Timeline), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTimelineTable(w, report, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
	return nil
}

// writeJSONTimeline writes the full report, parsed query and subqueries included.
func writeJSONTimeline(w io.Writer, report TimelineReport) error {
	if report.Timeline == nil {
		report.Timeline = []schema.TimelineItem{}
	}
	return writeJSON(w, report)
}

// writeCSVTimeline writes one row per timeline item.
func writeCSVTimeline(w io.Writer, items []schema.TimelineItem, fmtFloat func(float64) string) error {
	header := []string{
		"rank",
		"article_id",
		"published_at",
		"source",
		"title",
		"sentiment",
		"stance",
		"relevance",
		"label",
		"confidence",
		"why_included",
		"evidence",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, item := range items {
			rec := []string{
				strconv.Itoa(i + 1),
				strconv.Itoa(item.ArticleID),
				item.PublishedAt,
				item.Source,
				item.Title,
				fmtFloat(item.Sentiment),
				string(item.Stance),
				strconv.Itoa(item.RelevanceScore),
				contract.GetPlainLabel(item.RelevanceScore),
				fmtFloat(item.Confidence),
				item.WhyIncluded,
				strings.Join(item.Evidence, "|"),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeTimelineTable generates and writes the human-readable table.
func writeTimelineTable(w io.Writer, report TimelineReport, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Published", "Source", "Title", "Stance", "Relevance", "Conf"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	titleWidth := getMaxTableTitleWidth(cfg)
	var data [][]string
	for i, item := range report.Timeline {
		label := contract.GetPlainLabel(item.RelevanceScore)
		if cfg.UseColors {
			label = contract.GetColorLabel(item.RelevanceScore)
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			formatPublished(item.PublishedAt),
			contract.TruncateText(item.Source, 16),
			contract.TruncateText(item.Title, titleWidth),
			contract.GetStanceLabel(item.Stance, cfg.UseColors),
			fmt.Sprintf("%d %s", item.RelevanceScore, label),
			fmtFloat(item.Confidence),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	parsed := report.Parsed
	window := string(parsed.Time.Preset)
	if parsed.Time.From != "" || parsed.Time.To != "" {
		window = fmt.Sprintf("%s [%s .. %s]", window, orOpen(parsed.Time.From), orOpen(parsed.Time.To))
	}
	if _, err := fmt.Fprintf(w, "Showing %d items for %q (intent: %s, scope: %s, window: %s)\n",
		len(report.Timeline), parsed.Raw, parsed.Intent, parsed.Scope, window); err != nil {
		return err
	}
	if len(parsed.Entities) > 0 {
		if _, err := fmt.Fprintf(w, "Entities: %s\n", strings.Join(parsed.Entities, ", ")); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Retrieval %s completed in %v over %d subqueries. Metrics backend: %s\n",
		report.RequestID, duration, len(report.Subqueries), cfg.MetricsBackend); err != nil {
		return err
	}
	return nil
}

// formatPublished shortens an ISO-8601 timestamp for table display.
func formatPublished(publishedAt string) string {
	t, ok := schema.ParseTimestamp(publishedAt)
	if !ok {
		return publishedAt
	}
	return t.UTC().Format("2006-01-02 15:04")
}

func orOpen(bound string) string {
	if bound == "" {
		return "open"
	}
	return bound
}
