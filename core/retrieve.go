package core

import (
	"math"
	"time"

	"github.com/huangsam/newsline/internal/contract"
	"github.com/huangsam/newsline/schema"
)

// TemporalRequest is the input of one temporal retrieval.
type TemporalRequest struct {
	Query     string
	Scope     schema.Scope
	Documents []schema.Document
	TimeFrom  string
	TimeTo    string
	Now       time.Time
	Limit     int
	Graph     *GraphIndex
}

// Engine runs temporal retrievals with a fixed configuration. It is safe for concurrent use:
// every call builds its own candidate slices and only shares the metrics recorder.
type Engine struct {
	cfg     schema.EngineConfig
	metrics contract.MetricsRecorder
}

// NewEngine creates an Engine. A nil recorder discards metrics.
func NewEngine(cfg schema.EngineConfig, metrics contract.MetricsRecorder) *Engine {
	if metrics == nil {
		metrics = discardMetrics{}
	}
	return &Engine{cfg: cfg.Clone(), metrics: metrics}
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() schema.EngineConfig {
	return e.cfg.Clone()
}

// TemporalRetrieve parses, decomposes, scores, ranks, deduplicates and explains. It never fails;
// an empty timeline is a valid outcome. The metrics recorder is called exactly once.
func (e *Engine) TemporalRetrieve(req TemporalRequest) schema.RetrievalResult {
	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}
	limit := req.Limit
	if limit <= 0 {
		limit = e.cfg.DefaultLimit
	}

	parsed := ParseTemporalQuery(TemporalQuery{
		Query:    req.Query,
		Scope:    req.Scope,
		TimeFrom: req.TimeFrom,
		TimeTo:   req.TimeTo,
		Now:      now,
	}, req.Graph)
	subqueries := DecomposeTemporalQuery(parsed, e.cfg)
	scorer := NewScorer(e.cfg, parsed, req.Graph, now)

	var pool []schema.Candidate
	for _, sq := range subqueries {
		for _, doc := range req.Documents {
			if c, ok := scorer.Score(doc, sq); ok {
				pool = append(pool, c)
			}
		}
	}

	ranked := Dedupe(Rerank(pool, e.cfg))
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	timeline := make([]schema.TimelineItem, 0, len(ranked))
	var freshnessHours float64
	for _, c := range ranked {
		timeline = append(timeline, e.toTimelineItem(c, parsed))
		freshnessHours += now.Sub(c.Published).Hours()
	}
	if len(ranked) > 0 {
		freshnessHours /= float64(len(ranked))
	}

	e.metrics.RecordRetrievalMetric(schema.RetrievalMetric{
		Scope:          parsed.Scope,
		Query:          parsed.Normalized,
		Candidates:     len(pool),
		Returned:       len(timeline),
		FreshnessHours: freshnessHours,
	})

	return schema.RetrievalResult{
		Parsed:     parsed,
		Subqueries: subqueries,
		Timeline:   timeline,
	}
}

// toTimelineItem projects a ranked candidate onto the output contract.
func (e *Engine) toTimelineItem(c schema.Candidate, parsed schema.ParsedQuery) schema.TimelineItem {
	evidence := append([]string(nil), c.Why...)
	if len(evidence) == 0 {
		evidence = []string{"source:" + c.Source}
	}
	return schema.TimelineItem{
		ArticleID:      c.ArticleID,
		Title:          c.Title,
		Source:         c.Source,
		PublishedAt:    c.PublishedAt,
		Sentiment:      c.Sentiment,
		Stance:         schema.StanceFor(c.Sentiment, e.cfg.StanceThreshold),
		RelevanceScore: relevanceOf(c.RerankScore),
		WhyIncluded:    BuildWhy(c, parsed, e.cfg),
		Confidence:     clampScore(c.RerankScore, e.cfg.ConfidenceFloor, e.cfg.ConfidenceCeiling),
		Evidence:       evidence,
	}
}

// relevanceOf maps a fused score to a 1-5 relevance.
func relevanceOf(score float64) int {
	return int(clampScore(math.Round(score*5), 1, 5))
}

// clampScore bounds v to [lo, hi]. NaN maps to lo.
func clampScore(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// discardMetrics is the recorder used when none is configured.
type discardMetrics struct{}

func (discardMetrics) RecordRetrievalMetric(schema.RetrievalMetric) {}
