package cmd

import (
	"testing"
	"time"

	"github.com/huangsam/newsline/internal/contract"
	"github.com/huangsam/newsline/internal/iocache"
	"github.com/huangsam/newsline/schema"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withMemFs(t *testing.T) afero.Fs {
	t.Helper()
	previous := appFs
	fs := afero.NewMemMapFs()
	appFs = fs
	t.Cleanup(func() { appFs = previous })
	return fs
}

func TestBuildDeps(t *testing.T) {
	fs := withMemFs(t)
	require.NoError(t, afero.WriteFile(fs, "docs.json", []byte(`[{"articleId": 1, "title": "Oil", "countryCode": "RU"}]`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "graph.yaml", []byte("entities:\n  - id: a\n    label: A\n"), 0o644))

	store := &iocache.MockMetricsStore{}
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetMetricsStore").Return(store)

	cfg := &contract.Config{
		Engine:       schema.DefaultEngineConfig(),
		DocsPath:     "docs.json",
		GraphPath:    "graph.yaml",
		GraphBackend: schema.SQLiteBackend,
		FetchTimeout: 3 * time.Second,
		FetchRate:    5,
	}
	deps, err := buildDeps(cfg, mgr)
	require.NoError(t, err)

	assert.NotNil(t, deps.Engine)
	assert.NotNil(t, deps.Retriever)
	assert.IsType(t, &iocache.FileGraphProvider{}, deps.Graph)
	assert.Equal(t, 3*time.Second, deps.FanOut.Timeout)
	require.NotNil(t, deps.FanOut.Limiter)
	mgr.AssertNotCalled(t, "GetGraphStore")
}

func TestBuildDepsGraphStore(t *testing.T) {
	withMemFs(t)
	graphStore := &iocache.MockGraphStore{}
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetMetricsStore").Return(nil)
	mgr.On("GetGraphStore").Return(graphStore)

	cfg := &contract.Config{Engine: schema.DefaultEngineConfig(), GraphBackend: schema.PostgreSQLBackend}
	deps, err := buildDeps(cfg, mgr)
	require.NoError(t, err)
	assert.Same(t, graphStore, deps.Graph)
	assert.Nil(t, deps.Retriever)
	assert.Nil(t, deps.FanOut.Limiter)
}

func TestBuildDepsMissingFiles(t *testing.T) {
	withMemFs(t)
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetMetricsStore").Return(nil)

	_, err := buildDeps(&contract.Config{DocsPath: "missing.json"}, mgr)
	assert.Error(t, err)

	_, err = buildDeps(&contract.Config{GraphPath: "missing.yaml"}, mgr)
	assert.Error(t, err)
}

func TestRequestFromConfig(t *testing.T) {
	narrative := 4
	cfg := &contract.Config{
		Scope:       schema.NarrativeScope{NarrativeID: &narrative},
		Countries:   []string{"RU"},
		NarrativeID: &narrative,
		TimeFrom:    "2026-01-01",
		ResultLimit: 10,
	}
	req := requestFromConfig(cfg, "oil exports")
	assert.Equal(t, "oil exports", req.Query)
	assert.Equal(t, schema.NarrativeScopeKind, req.Scope)
	assert.Equal(t, []string{"RU"}, req.Countries)
	assert.Equal(t, &narrative, req.NarrativeID)
	assert.Equal(t, "2026-01-01", req.TimeFrom)
	assert.Equal(t, 10, req.Limit)
}

func TestSQLitePath(t *testing.T) {
	assert.Equal(t, "custom.db", sqlitePath("custom.db", "default.db"))
	assert.Equal(t, "default.db", sqlitePath("", "default.db"))
}
