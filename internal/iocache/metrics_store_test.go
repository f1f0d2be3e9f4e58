package iocache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/newsline/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetricsStore(t *testing.T) *MetricsStoreImpl {
	t.Helper()
	store, err := NewMetricsStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "metrics.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// steppedClock returns a clock that advances one second per call.
func steppedClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		now := current
		current = current.Add(time.Second)
		return now
	}
}

func TestMetricsStore_NoneBackend(t *testing.T) {
	store, err := NewMetricsStore(schema.NoneBackend, "")
	require.NoError(t, err)

	store.RecordRetrievalMetric(schema.RetrievalMetric{Scope: schema.CountryScopeKind, Returned: 1})

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "none", status.Backend)
	assert.False(t, status.Connected)

	runs, err := store.GetAllRuns()
	assert.NoError(t, err)
	assert.Nil(t, runs)
	assert.NoError(t, store.Close())
}

func TestMetricsStore_SQLite(t *testing.T) {
	store := newTestMetricsStore(t)
	start := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	store.now = steppedClock(start)

	t.Run("empty status", func(t *testing.T) {
		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.True(t, status.Connected)
		assert.Zero(t, status.TotalRuns)
		assert.Equal(t, int64(0), status.TableSizes[retrievalRunsTable])
	})

	store.RecordRetrievalMetric(schema.RetrievalMetric{
		Scope: schema.CountryScopeKind, Query: "oil exports", Candidates: 12, Returned: 5, FreshnessHours: 4,
	})
	store.RecordRetrievalMetric(schema.RetrievalMetric{
		Scope: schema.EntityScopeKind, Query: "газпром", Candidates: 0, Returned: 0,
	})
	store.RecordRetrievalMetric(schema.RetrievalMetric{
		Scope: schema.NarrativeScopeKind, Query: "transit", Candidates: 3, Returned: 2, FreshnessHours: 10,
	})

	t.Run("runs in recording order", func(t *testing.T) {
		runs, err := store.GetAllRuns()
		require.NoError(t, err)
		require.Len(t, runs, 3)

		assert.Equal(t, "country", runs[0].Scope)
		assert.Equal(t, "oil exports", runs[0].Query)
		assert.Equal(t, int32(12), runs[0].Candidates)
		assert.Equal(t, int32(5), runs[0].Returned)
		assert.True(t, runs[0].RecordedAt.Equal(start))
		assert.Len(t, runs[0].RunID, 36)

		assert.Equal(t, "газпром", runs[1].Query)
		assert.Equal(t, "narrative", runs[2].Scope)
		assert.True(t, runs[2].RecordedAt.Equal(start.Add(2*time.Second)))
	})

	t.Run("status aggregates", func(t *testing.T) {
		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.Equal(t, 3, status.TotalRuns)
		assert.Equal(t, int64(7), status.TotalReturned)
		assert.InDelta(t, 7.0, status.MeanFreshnessHours, 1e-9)
		assert.True(t, status.LastRunTime.Equal(start.Add(2*time.Second)))
		assert.True(t, status.OldestRunTime.Equal(start))
		assert.Equal(t, int64(3), status.TableSizes[retrievalRunsTable])
	})
}

func TestMetricsStore_RecordAfterCloseDoesNotPanic(t *testing.T) {
	store, err := NewMetricsStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "metrics.db"))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	assert.NotPanics(t, func() {
		store.RecordRetrievalMetric(schema.RetrievalMetric{Scope: schema.CountryScopeKind})
	})
}

func TestMetricsStore_UnsupportedBackend(t *testing.T) {
	_, err := NewMetricsStore("oracle", "")
	assert.Error(t, err)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "?, ?, ?", placeholders(schema.SQLiteBackend, 3))
	assert.Equal(t, "?, ?", placeholders(schema.MySQLBackend, 2))
	assert.Equal(t, "$1, $2, $3", placeholders(schema.PostgreSQLBackend, 3))
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, "`newsline_retrieval_runs`", quoteTableName(retrievalRunsTable, schema.MySQLBackend))
	assert.Equal(t, `"newsline_retrieval_runs"`, quoteTableName(retrievalRunsTable, schema.PostgreSQLBackend))
	assert.Equal(t, `"newsline_retrieval_runs"`, quoteTableName(retrievalRunsTable, schema.SQLiteBackend))
}

func TestValidateTableName(t *testing.T) {
	assert.NoError(t, validateTableName("newsline_graph_edges"))
	assert.Error(t, validateTableName(""))
	assert.Error(t, validateTableName("runs; DROP TABLE x"))
	assert.Error(t, validateTableName("1runs"))
}
