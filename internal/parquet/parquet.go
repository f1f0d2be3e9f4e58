// Package parquet provides data structures and functions for exporting newsline
// timelines and retrieval runs to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/newsline/schema"
	"github.com/parquet-go/parquet-go"
)

// RetrievalRun represents one recorded retrieval.
// This struct maps to the newsline_retrieval_runs database table.
type RetrievalRun struct {
	// RunID is the uuid assigned when the run was recorded
	RunID string `parquet:"run_id,snappy"`

	// RecordedAt is when the run was recorded (millisecond precision)
	RecordedAt time.Time `parquet:"recorded_at,snappy"`

	Scope          string  `parquet:"scope,snappy,dict"`
	Query          string  `parquet:"query,snappy"`
	Candidates     int32   `parquet:"candidates,snappy"`
	Returned       int32   `parquet:"returned,snappy"`
	FreshnessHours float64 `parquet:"freshness_hours,snappy"`
}

// TimelineRow is one timeline item in output order.
type TimelineRow struct {
	// Position is the zero-based rank within the timeline
	Position int32 `parquet:"position,snappy"`

	ArticleID int64  `parquet:"article_id,snappy"`
	Title     string `parquet:"title,snappy"`
	Source    string `parquet:"source,snappy,dict"`

	// PublishedAt keeps the upstream ISO-8601 text as delivered
	PublishedAt string `parquet:"published_at,snappy"`

	Sentiment      float64  `parquet:"sentiment,snappy"`
	Stance         string   `parquet:"stance,snappy,dict"`
	RelevanceScore int32    `parquet:"relevance_score,snappy"`
	WhyIncluded    string   `parquet:"why_included,snappy"`
	Confidence     float64  `parquet:"confidence,snappy"`
	Evidence       []string `parquet:"evidence,list"`
}

// writeRows writes all rows to w with a schema inferred from T.
func writeRows[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// writeFile creates outputPath and writes rows into it.
func writeFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := writeRows(file, rows); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteRetrievalRunsParquet writes retrieval runs to a Parquet file.
func WriteRetrievalRunsParquet(data []RetrievalRun, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteTimelineParquet writes timeline rows to a Parquet file.
func WriteTimelineParquet(data []TimelineRow, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteTimeline writes timeline rows to an arbitrary writer.
func WriteTimeline(w io.Writer, data []TimelineRow) error {
	return writeRows(w, data)
}

// ConvertRetrievalRunRecords converts schema.RetrievalRunRecord to RetrievalRun for Parquet export.
func ConvertRetrievalRunRecords(records []schema.RetrievalRunRecord) []RetrievalRun {
	result := make([]RetrievalRun, len(records))
	for i, record := range records {
		result[i] = RetrievalRun{
			RunID:          record.RunID,
			RecordedAt:     record.RecordedAt,
			Scope:          record.Scope,
			Query:          record.Query,
			Candidates:     record.Candidates,
			Returned:       record.Returned,
			FreshnessHours: record.FreshnessHours,
		}
	}
	return result
}

// ConvertTimeline converts timeline items to TimelineRow for Parquet export.
func ConvertTimeline(items []schema.TimelineItem) []TimelineRow {
	result := make([]TimelineRow, len(items))
	for i, item := range items {
		evidence := make([]string, len(item.Evidence))
		copy(evidence, item.Evidence)
		result[i] = TimelineRow{
			Position:       int32(i),
			ArticleID:      int64(item.ArticleID),
			Title:          item.Title,
			Source:         item.Source,
			PublishedAt:    item.PublishedAt,
			Sentiment:      item.Sentiment,
			Stance:         string(item.Stance),
			RelevanceScore: int32(item.RelevanceScore),
			WhyIncluded:    item.WhyIncluded,
			Confidence:     item.Confidence,
			Evidence:       evidence,
		}
	}
	return result
}
