package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/huangsam/newsline/internal/contract"
	"github.com/huangsam/newsline/internal/upstream"
	"github.com/huangsam/newsline/schema"
)

// validate is shared because validator caches struct metadata.
var validate = validator.New(validator.WithRequiredStructEnabled())

// ErrNoDocumentSource is returned when a request carries no documents and no retriever is set.
var ErrNoDocumentSource = errors.New("no documents given and no retriever configured")

// RetrieveRequest is the caller-facing input of Retrieve.
type RetrieveRequest struct {
	Query       string            `json:"query" validate:"required"`
	Scope       schema.ScopeKind  `json:"scope" validate:"required,oneof=country narrative entity"`
	Countries   []string          `json:"countries,omitempty" validate:"omitempty,dive,alpha,min=2,max=3"`
	NarrativeID *int              `json:"narrativeId,omitempty" validate:"omitempty,gt=0"`
	TimeFrom    string            `json:"timeFrom,omitempty"`
	TimeTo      string            `json:"timeTo,omitempty"`
	Limit       int               `json:"limit,omitempty" validate:"gte=0,lte=1000"`
	Documents   []schema.Document `json:"documents,omitempty"`
	Now         time.Time         `json:"-"`
}

// RetrieveResponse pairs a retrieval result with the id of the request that produced it.
type RetrieveResponse struct {
	RequestID uuid.UUID              `json:"requestId"`
	Result    schema.RetrievalResult `json:"result"`
}

// Deps are the collaborators of Retrieve. Graph and Retriever may be nil.
type Deps struct {
	Engine    *Engine
	Graph     contract.GraphProvider
	Retriever contract.Retriever
	FanOut    upstream.FanOutOptions
}

// Retrieve validates a request, gathers its documents, loads one graph snapshot and runs the engine.
// Collaborator failures degrade to empty inputs; only invalid requests return an error.
func Retrieve(ctx context.Context, deps Deps, req RetrieveRequest) (RetrieveResponse, error) {
	if deps.Engine == nil {
		return RetrieveResponse{}, errors.New("retrieve: engine is required")
	}
	if err := validate.Struct(req); err != nil {
		return RetrieveResponse{}, fmt.Errorf("invalid retrieve request: %w", err)
	}
	scope, err := schema.NewScope(req.Scope, req.Countries, req.NarrativeID)
	if err != nil {
		return RetrieveResponse{}, err
	}

	id := uuid.New()
	ctx = WithRequestID(ctx, id)
	logger := contract.Logger().With("request_id", id.String())

	docs, err := gatherDocuments(ctx, deps, req, schema.ScopeCountries(scope))
	if err != nil {
		return RetrieveResponse{}, err
	}
	graph := loadGraph(ctx, deps.Graph)

	result := deps.Engine.TemporalRetrieve(TemporalRequest{
		Query:     req.Query,
		Scope:     scope,
		Documents: docs,
		TimeFrom:  req.TimeFrom,
		TimeTo:    req.TimeTo,
		Now:       req.Now,
		Limit:     req.Limit,
		Graph:     graph,
	})
	logger.Debug("retrieval complete",
		"scope", scope.Kind(),
		"documents", len(docs),
		"entities", graph.Len(),
		"returned", len(result.Timeline))

	return RetrieveResponse{RequestID: id, Result: result}, nil
}

// gatherDocuments returns the explicit documents or fans out over the country codes.
func gatherDocuments(ctx context.Context, deps Deps, req RetrieveRequest, countries []string) ([]schema.Document, error) {
	if req.Documents != nil {
		return req.Documents, nil
	}
	if deps.Retriever == nil {
		return nil, ErrNoDocumentSource
	}
	codes := countries
	if len(codes) == 0 {
		codes = []string{""}
	}
	return upstream.FanOut(ctx, deps.Retriever, codes, deps.FanOut), nil
}

// loadGraph fetches one snapshot for the whole call. Failures yield an empty index.
func loadGraph(ctx context.Context, provider contract.GraphProvider) *GraphIndex {
	if provider == nil {
		return NewGraphIndex(schema.GraphSnapshot{})
	}
	snapshot, err := provider.Snapshot(ctx)
	if err != nil {
		contract.LogWarn("Graph snapshot unavailable, scoring without entities", err)
		return NewGraphIndex(schema.GraphSnapshot{})
	}
	return NewGraphIndex(snapshot)
}

// PreviewResponse is the parse preview of a query.
type PreviewResponse struct {
	Parsed     schema.ParsedQuery `json:"parsed"`
	Subqueries []schema.Subquery  `json:"subqueries"`
}

// Preview validates a request, loads the graph snapshot and returns the parse and decomposition
// without fetching or scoring documents.
func Preview(ctx context.Context, deps Deps, req RetrieveRequest) (PreviewResponse, error) {
	if deps.Engine == nil {
		return PreviewResponse{}, errors.New("preview: engine is required")
	}
	if err := validate.Struct(req); err != nil {
		return PreviewResponse{}, fmt.Errorf("invalid preview request: %w", err)
	}
	scope, err := schema.NewScope(req.Scope, req.Countries, req.NarrativeID)
	if err != nil {
		return PreviewResponse{}, err
	}

	parsed := ParseTemporalQuery(TemporalQuery{
		Query:    req.Query,
		Scope:    scope,
		TimeFrom: req.TimeFrom,
		TimeTo:   req.TimeTo,
		Now:      req.Now,
	}, loadGraph(ctx, deps.Graph))
	return PreviewResponse{
		Parsed:     parsed,
		Subqueries: DecomposeTemporalQuery(parsed, deps.Engine.cfg),
	}, nil
}
