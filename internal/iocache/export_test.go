package iocache

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/newsline/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteMetricsExport(t *testing.T) {
	t.Run("writes parquet", func(t *testing.T) {
		store := newTestMetricsStore(t)
		store.now = steppedClock(time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC))
		store.RecordRetrievalMetric(schema.RetrievalMetric{Scope: schema.CountryScopeKind, Query: "oil", Returned: 2, FreshnessHours: 1})
		store.RecordRetrievalMetric(schema.RetrievalMetric{Scope: schema.EntityScopeKind, Query: "gas", Returned: 0})

		outputFile := filepath.Join(t.TempDir(), "runs.parquet")
		var out bytes.Buffer
		require.NoError(t, ExecuteMetricsExport(store, outputFile, &out))

		info, err := os.Stat(outputFile)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
		assert.Contains(t, out.String(), "Exported 2 retrieval runs")
	})

	t.Run("requires output file", func(t *testing.T) {
		assert.Error(t, ExecuteMetricsExport(&MockMetricsStore{}, "", &bytes.Buffer{}))
	})

	t.Run("requires store", func(t *testing.T) {
		assert.Error(t, ExecuteMetricsExport(nil, "out.parquet", &bytes.Buffer{}))
	})

	t.Run("no runs", func(t *testing.T) {
		store := &MockMetricsStore{}
		store.On("GetStatus").Return(schema.MetricsStatus{Backend: "sqlite", Connected: true}, nil)
		err := ExecuteMetricsExport(store, "out.parquet", &bytes.Buffer{})
		assert.ErrorContains(t, err, "no retrieval runs")
		store.AssertNotCalled(t, "GetAllRuns")
	})

	t.Run("status failure", func(t *testing.T) {
		store := &MockMetricsStore{}
		store.On("GetStatus").Return(schema.MetricsStatus{}, errors.New("db gone"))
		assert.ErrorContains(t, ExecuteMetricsExport(store, "out.parquet", &bytes.Buffer{}), "db gone")
	})
}

func TestPrintStatus(t *testing.T) {
	t.Run("metrics", func(t *testing.T) {
		var buf bytes.Buffer
		PrintMetricsStatus(&buf, schema.MetricsStatus{
			Backend:            "sqlite",
			Connected:          true,
			TotalRuns:          2,
			LastRunID:          "abc",
			LastRunTime:        time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
			OldestRunTime:      time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
			TotalReturned:      9,
			MeanFreshnessHours: 3.26,
			TableSizes:         map[string]int64{"b_table": 2, "a_table": 1},
		})
		got := buf.String()
		assert.Contains(t, got, "Metrics Backend: sqlite")
		assert.Contains(t, got, "Last Run: 2026-03-15 12:00:00")
		assert.Contains(t, got, "Mean Freshness: 3.3h")
		assert.Less(t, bytes.Index(buf.Bytes(), []byte("a_table")), bytes.Index(buf.Bytes(), []byte("b_table")))
	})

	t.Run("disconnected", func(t *testing.T) {
		var buf bytes.Buffer
		PrintMetricsStatus(&buf, schema.MetricsStatus{Backend: "none"})
		assert.Equal(t, "Metrics Backend: none\nConnected: false\n", buf.String())
	})

	t.Run("graph", func(t *testing.T) {
		var buf bytes.Buffer
		PrintGraphStatus(&buf, schema.GraphStatus{Backend: "sqlite", Connected: true, Entities: 4, Edges: 5})
		assert.Equal(t, "Graph Backend: sqlite\nConnected: true\nEntities: 4\nEdges: 5\n", buf.String())
	})
}
