package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/newsline/internal/contract"
	"github.com/huangsam/newsline/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() TimelineReport {
	return TimelineReport{
		RequestID: "4f1c2d7e-0000-4000-8000-000000000001",
		RetrievalResult: schema.RetrievalResult{
			Parsed: schema.ParsedQuery{
				Raw:      "Gazprom exports last 7 days",
				Intent:   schema.IntentMonitor,
				Scope:    schema.EntityScopeKind,
				Entities: []string{"Gazprom"},
				Time:     schema.TimeRange{From: "2026-03-08T12:00:00Z", To: "2026-03-15T12:00:00Z", Preset: schema.Preset7d},
			},
			Subqueries: []schema.Subquery{
				{ID: "sq-1", Label: "recent", Weight: 0.65},
				{ID: "sq-2", Label: "baseline", Weight: 0.35},
			},
			Timeline: []schema.TimelineItem{
				{
					ArticleID: 7, Title: "Gazprom raises export forecast", Source: "Interfax",
					PublishedAt: "2026-03-15T10:00:00Z", Sentiment: 0.3, Stance: schema.StancePro,
					RelevanceScore: 4, WhyIncluded: "matches query terms", Confidence: 0.81,
					Evidence: []string{"entity:Gazprom (degree 3)", "source:Interfax"},
				},
				{
					ArticleID: 9, Title: "Transit talks stall", Source: "TASS",
					PublishedAt: "2026-03-14T08:30:00Z", Sentiment: -0.1, Stance: schema.StanceNeutral,
					RelevanceScore: 2, WhyIncluded: "temporal fit", Confidence: 0.42,
				},
			},
		},
	}
}

func TestWriteTimelineTable(t *testing.T) {
	cfg := &contract.Config{Precision: 2, Width: 120, MetricsBackend: schema.SQLiteBackend}

	var buf bytes.Buffer
	fmtFloat := floatFormatter(cfg.Precision)
	require.NoError(t, writeTimelineTable(&buf, sampleReport(), cfg, fmtFloat, 42*time.Millisecond))

	output := buf.String()
	assert.Contains(t, output, "Gazprom raises export forecast")
	assert.Contains(t, output, "2026-03-15 10:00")
	assert.Contains(t, output, "4 "+contract.HighValue)
	assert.Contains(t, output, "0.81")
	assert.Contains(t, output, `Showing 2 items for "Gazprom exports last 7 days"`)
	assert.Contains(t, output, "intent: monitor")
	assert.Contains(t, output, "Entities: Gazprom")
	assert.Contains(t, output, "over 2 subqueries")
	assert.Contains(t, output, "Metrics backend: sqlite")
}

func TestWriteTimelineTableEmpty(t *testing.T) {
	report := sampleReport()
	report.Timeline = nil
	report.Parsed.Entities = nil
	report.Parsed.Time = schema.TimeRange{Preset: schema.PresetAll}

	var buf bytes.Buffer
	fmtFloat := floatFormatter(2)
	require.NoError(t, writeTimelineTable(&buf, report, &contract.Config{Width: 80}, fmtFloat, time.Millisecond))

	output := buf.String()
	assert.Contains(t, output, "Showing 0 items")
	assert.Contains(t, output, "window: all)")
	assert.NotContains(t, output, "Entities:")
}

func TestWriteCSVTimeline(t *testing.T) {
	var buf bytes.Buffer
	fmtFloat := floatFormatter(2)
	require.NoError(t, writeCSVTimeline(&buf, sampleReport().Timeline, fmtFloat))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "rank", records[0][0])
	assert.Equal(t, "evidence", records[0][len(records[0])-1])
	assert.Equal(t, []string{
		"1", "7", "2026-03-15T10:00:00Z", "Interfax", "Gazprom raises export forecast",
		"0.30", "pro", "4", contract.HighValue, "0.81", "matches query terms",
		"entity:Gazprom (degree 3)|source:Interfax",
	}, records[1])
	assert.Equal(t, "", records[2][11])
}

func TestWriteJSONTimeline(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSONTimeline(&buf, sampleReport()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "4f1c2d7e-0000-4000-8000-000000000001", decoded["requestId"])
	assert.Contains(t, decoded, "parsed")
	assert.Len(t, decoded["subqueries"], 2)
	assert.Len(t, decoded["timeline"], 2)

	empty := sampleReport()
	empty.Timeline = nil
	buf.Reset()
	require.NoError(t, writeJSONTimeline(&buf, empty))
	assert.Contains(t, buf.String(), `"timeline": []`)
}

func TestWriteTimelineResultsParquetNeedsFile(t *testing.T) {
	cfg := &contract.Config{Output: schema.ParquetOut}
	err := WriteTimelineResults(sampleReport(), cfg, time.Second)
	assert.ErrorContains(t, err, "--output-file")
}

func TestWriteTimelineResultsToFile(t *testing.T) {
	tests := []struct {
		name   string
		output schema.OutputMode
		check  func(t *testing.T, data []byte)
	}{
		{
			name:   "json",
			output: schema.JSONOut,
			check: func(t *testing.T, data []byte) {
				assert.True(t, json.Valid(data))
			},
		},
		{
			name:   "csv",
			output: schema.CSVOut,
			check: func(t *testing.T, data []byte) {
				assert.True(t, strings.HasPrefix(string(data), "rank,article_id"))
			},
		},
		{
			name:   "parquet",
			output: schema.ParquetOut,
			check: func(t *testing.T, data []byte) {
				assert.Equal(t, "PAR1", string(data[:4]))
			},
		},
		{
			name:   "text",
			output: schema.TextOut,
			check: func(t *testing.T, data []byte) {
				assert.Contains(t, string(data), "Transit talks stall")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "timeline."+tt.name)
			cfg := &contract.Config{Output: tt.output, OutputFile: path, Precision: 2, Width: 120}
			require.NoError(t, NewOutWriter().WriteTimeline(sampleReport(), cfg, time.Second))

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			tt.check(t, data)
		})
	}
}

func TestFormatPublished(t *testing.T) {
	assert.Equal(t, "2026-03-15 10:00", formatPublished("2026-03-15T13:00:00+03:00"))
	assert.Equal(t, "not a date", formatPublished("not a date"))
}

func samplePlan() QueryPlan {
	narrative := 12
	return QueryPlan{
		Parsed: schema.ParsedQuery{
			Raw:         "compare Ukraine grain deals",
			Normalized:  "compare ukraine grain deals",
			Terms:       []string{"compare", "ukraine", "grain", "deals"},
			Intent:      schema.IntentCompare,
			Scope:       schema.CountryScopeKind,
			Countries:   []string{"UA"},
			NarrativeID: &narrative,
			Time:        schema.TimeRange{Preset: schema.PresetAll},
		},
		Subqueries: []schema.Subquery{
			{ID: "sq-1", Label: "full-range", Terms: []string{"ukraine", "grain"}, Weight: 1},
		},
	}
}

func TestWriteQueryPlanText(t *testing.T) {
	var buf bytes.Buffer
	fmtFloat := floatFormatter(2)
	require.NoError(t, writeQueryPlanText(&buf, samplePlan(), fmtFloat))

	output := buf.String()
	assert.Contains(t, output, "Intent:     compare")
	assert.Contains(t, output, "Scope:      country")
	assert.Contains(t, output, "Countries:  UA")
	assert.Contains(t, output, "Narrative:  12")
	assert.Contains(t, output, "all [open .. open]")
	assert.Contains(t, output, "full-range")
}

func TestWriteCSVQueryPlan(t *testing.T) {
	var buf bytes.Buffer
	fmtFloat := floatFormatter(2)
	require.NoError(t, writeCSVQueryPlan(&buf, samplePlan(), fmtFloat))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"sq-1", "full-range", "", "", "1.00", "ukraine|grain", "compare", "country", ""}, records[1])
}

func TestWriteQueryPlanRejectsParquet(t *testing.T) {
	err := NewOutWriter().WriteQueryPlan(samplePlan(), &contract.Config{Output: schema.ParquetOut})
	assert.Error(t, err)
}

func TestBuildWeightsModel(t *testing.T) {
	weights := schema.GetDefaultWeights()
	weights[schema.SignalTrust] = 0
	weights[schema.SignalLexical] = 0.31
	cfg := &contract.Config{
		Engine:        schema.EngineConfig{Weights: weights},
		CustomWeights: map[schema.SignalKey]float64{schema.SignalTrust: 0, schema.SignalLexical: 0.31},
	}

	model := buildWeightsModel(cfg)
	require.Len(t, model.Signals, len(schema.AllSignals))
	assert.Equal(t, schema.SignalLexical, model.Signals[0].Signal)
	assert.True(t, model.Signals[0].Customized)
	assert.InDelta(t, 0.26, model.Signals[0].Default, 1e-9)
	assert.False(t, model.Signals[1].Customized)
	assert.True(t, strings.HasPrefix(model.Formula, "score = 0.31*lexical + 0.22*vector"))
	assert.NotContains(t, model.Formula, "trust")

	var buf bytes.Buffer
	require.NoError(t, writeWeightsText(&buf, model))
	assert.Contains(t, buf.String(), "Newsline Fusion Weights")
	assert.Contains(t, buf.String(), "(default 0.26)")
}

func TestBuildWeightsModelDefaults(t *testing.T) {
	model := buildWeightsModel(&contract.Config{})
	for _, row := range model.Signals {
		assert.Equal(t, row.Default, row.Weight, string(row.Signal))
		assert.NotEmpty(t, row.Description, string(row.Signal))
	}

	var buf bytes.Buffer
	require.NoError(t, writeCSVWeights(&buf, model))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, len(schema.AllSignals)+1)
}

func TestWriteStatusJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")
	cfg := &contract.Config{Output: schema.JSONOut, OutputFile: path}
	status := schema.GraphStatus{Backend: "sqlite", Connected: true, Entities: 3, Edges: 2}
	require.NoError(t, NewOutWriter().WriteGraphStatus(status, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded schema.GraphStatus
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, status, decoded)

	err = NewOutWriter().WriteMetricsStatus(schema.MetricsStatus{}, &contract.Config{Output: schema.CSVOut})
	assert.Error(t, err)
}
