package cmd

import (
	"errors"

	"github.com/huangsam/newsline/core"
	"github.com/huangsam/newsline/internal/contract"
	"github.com/huangsam/newsline/internal/iocache"
	"github.com/huangsam/newsline/internal/upstream"
	"github.com/huangsam/newsline/schema"
	"github.com/spf13/afero"
	"golang.org/x/time/rate"
)

// appFs is the filesystem that documents and graph files are read from.
var appFs = afero.NewOsFs()

// sessionMetrics aggregates the retrievals of this process.
var sessionMetrics = iocache.NewMemoryMetrics()

// buildDeps wires the engine and its collaborators from the validated config.
// A missing document path is allowed; requests must then carry their own documents.
func buildDeps(cfg *contract.Config, mgr contract.StoreManager) (core.Deps, error) {
	recorder := iocache.TeeRecorder{sessionMetrics}
	if store := mgr.GetMetricsStore(); store != nil {
		recorder = append(recorder, store)
	}

	deps := core.Deps{
		Engine: core.NewEngine(cfg.Engine, recorder),
		FanOut: upstream.FanOutOptions{Timeout: cfg.FetchTimeout},
	}
	if cfg.FetchRate > 0 {
		deps.FanOut.Limiter = rate.NewLimiter(rate.Limit(cfg.FetchRate), 1)
	}

	if cfg.DocsPath != "" {
		retriever, err := upstream.NewFileRetriever(appFs, cfg.DocsPath)
		if err != nil {
			return deps, err
		}
		contract.Logger().Debug("loaded documents", "path", cfg.DocsPath, "count", retriever.Len())
		deps.Retriever = retriever
	}

	switch {
	case cfg.GraphPath != "":
		provider, err := iocache.NewFileGraphProvider(appFs, cfg.GraphPath)
		if err != nil {
			return deps, err
		}
		deps.Graph = provider
	case cfg.GraphBackend != schema.NoneBackend:
		if store := mgr.GetGraphStore(); store != nil {
			deps.Graph = store
		}
	}
	return deps, nil
}

// requestFromConfig builds a service request for query from the configured scope and window.
func requestFromConfig(cfg *contract.Config, query string) core.RetrieveRequest {
	req := core.RetrieveRequest{
		Query:       query,
		Countries:   cfg.Countries,
		NarrativeID: cfg.NarrativeID,
		TimeFrom:    cfg.TimeFrom,
		TimeTo:      cfg.TimeTo,
		Limit:       cfg.ResultLimit,
	}
	if cfg.Scope != nil {
		req.Scope = cfg.Scope.Kind()
	}
	return req
}

// errNoDocuments explains how to point the CLI at a dataset.
var errNoDocuments = errors.New("no documents to search: pass --docs <file.json> or set NEWSLINE_DOCS")
