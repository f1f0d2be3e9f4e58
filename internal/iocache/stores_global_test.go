package iocache

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/huangsam/newsline/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetManager restores the package globals between tests.
func resetManager(t *testing.T) {
	t.Helper()
	Manager = &StoreManagerImpl{}
	initOnce = sync.Once{}
	closeOnce = sync.Once{}
	t.Cleanup(CloseStores)
}

func TestInitStores(t *testing.T) {
	t.Run("both stores", func(t *testing.T) {
		resetManager(t)
		dir := t.TempDir()
		metricsPath := filepath.Join(dir, "metrics.db")
		graphPath := filepath.Join(dir, "graph.db")

		require.NoError(t, InitStores(schema.SQLiteBackend, metricsPath, schema.SQLiteBackend, graphPath))
		assert.NotNil(t, Manager.GetMetricsStore())
		assert.NotNil(t, Manager.GetGraphStore())

		_, err := os.Stat(metricsPath)
		assert.NoError(t, err)
		_, err = os.Stat(graphPath)
		assert.NoError(t, err)
	})

	t.Run("idempotent setup", func(t *testing.T) {
		resetManager(t)
		path := filepath.Join(t.TempDir(), "metrics.db")

		assert.NoError(t, InitStores(schema.SQLiteBackend, path, "", ""))
		assert.NoError(t, InitStores(schema.SQLiteBackend, path, "", ""))
		assert.Nil(t, Manager.GetGraphStore())

		// Multiple closes should be safe (sync.Once)
		CloseStores()
		CloseStores()
	})

	t.Run("none backend", func(t *testing.T) {
		resetManager(t)
		require.NoError(t, InitStores(schema.NoneBackend, "", schema.NoneBackend, ""))

		status, err := Manager.GetMetricsStore().GetStatus()
		require.NoError(t, err)
		assert.False(t, status.Connected)
	})

	t.Run("bad backend", func(t *testing.T) {
		resetManager(t)
		err := InitStores(schema.SQLiteBackend, filepath.Join(t.TempDir(), "m.db"), "oracle", "")
		assert.Error(t, err)
		assert.Nil(t, Manager.GetMetricsStore())
	})
}

func TestClearMetrics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.db")
	store, err := NewMetricsStore(schema.SQLiteBackend, path)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	require.NoError(t, ClearMetrics(schema.SQLiteBackend, path, ""))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Missing file is fine
	assert.NoError(t, ClearMetrics(schema.SQLiteBackend, path, ""))
	assert.NoError(t, ClearMetrics(schema.NoneBackend, "", ""))
	assert.NoError(t, ClearGraph(schema.NoneBackend, "", ""))
	assert.Error(t, ClearMetrics(schema.SQLiteBackend, "", ""))
	assert.Error(t, ClearGraph("oracle", "", ""))
}
