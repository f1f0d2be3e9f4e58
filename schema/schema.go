// Package schema holds the domain types and constants shared by the retrieval engine and its collaborators.
package schema

import "time"

// Document is one news event handed to the engine for a single retrieval call.
type Document struct {
	ArticleID   int     `json:"articleId" yaml:"articleId"`
	Title       string  `json:"title" yaml:"title"`
	Source      string  `json:"source" yaml:"source"`
	PublishedAt string  `json:"publishedAt" yaml:"publishedAt"` // ISO-8601
	Sentiment   float64 `json:"sentiment" yaml:"sentiment"`     // conventionally in [-1, 1]
	CountryCode string  `json:"countryCode" yaml:"countryCode"`
	NarrativeID *int    `json:"narrativeId,omitempty" yaml:"narrativeId,omitempty"`
}

// TimeRange is a resolved time window. Empty bounds are open.
// Preset is PresetAll exactly when both bounds are empty.
type TimeRange struct {
	From   string     `json:"from,omitempty"`
	To     string     `json:"to,omitempty"`
	Preset TimePreset `json:"preset"`
}

// ParsedQuery is the structured form of a raw query.
type ParsedQuery struct {
	Raw         string    `json:"raw"`
	Normalized  string    `json:"normalized"`
	Terms       []string  `json:"terms"`
	Intent      Intent    `json:"intent"`
	Scope       ScopeKind `json:"scope"`
	Entities    []string  `json:"entities"`
	Time        TimeRange `json:"time"`
	Countries   []string  `json:"countries"`
	NarrativeID *int      `json:"narrativeId,omitempty"`

	// Filter is the typed scope used by the scope gate.
	Filter Scope `json:"-"`
}

// Subquery is a time-bounded, weighted slice of a parsed query.
type Subquery struct {
	ID     string   `json:"id"`
	Label  string   `json:"label"`
	From   string   `json:"from,omitempty"`
	To     string   `json:"to,omitempty"`
	Terms  []string `json:"terms"`
	Weight float64  `json:"weight"`
}

// Signals holds the per-candidate signal scores, each conventionally in [0, 1].
type Signals struct {
	Lexical     float64 `json:"lexicalScore"`
	Vector      float64 `json:"vectorScore"`
	Graph       float64 `json:"graphScore"`
	Temporal    float64 `json:"temporalScore"`
	Consistency float64 `json:"consistencyScore"`
	Centrality  float64 `json:"centralityScore"`
	Trust       float64 `json:"trustScore"`
}

// Get returns the signal value for a key.
func (s Signals) Get(key SignalKey) float64 {
	switch key {
	case SignalLexical:
		return s.Lexical
	case SignalVector:
		return s.Vector
	case SignalGraph:
		return s.Graph
	case SignalTemporal:
		return s.Temporal
	case SignalConsistency:
		return s.Consistency
	case SignalCentrality:
		return s.Centrality
	case SignalTrust:
		return s.Trust
	default:
		return 0
	}
}

// Candidate is a Document that passed every gate for one subquery.
type Candidate struct {
	Document
	Signals
	RerankScore float64  `json:"rerankScore"`
	Why         []string `json:"why"`
	SubqueryID  string   `json:"subqueryId"`

	// Published is the parsed PublishedAt, used for ordering.
	Published time.Time `json:"-"`
}

// TimelineItem is one entry of the ranked timeline returned to callers.
type TimelineItem struct {
	ArticleID      int      `json:"articleId"`
	Title          string   `json:"title"`
	Source         string   `json:"source"`
	PublishedAt    string   `json:"publishedAt"`
	Sentiment      float64  `json:"sentiment"`
	Stance         Stance   `json:"stance"`
	RelevanceScore int      `json:"relevanceScore"`
	WhyIncluded    string   `json:"whyIncluded"`
	Confidence     float64  `json:"confidence"`
	Evidence       []string `json:"evidence"`
}

// RetrievalResult is the output of one temporal retrieval.
type RetrievalResult struct {
	Parsed     ParsedQuery    `json:"parsed"`
	Subqueries []Subquery     `json:"subqueries"`
	Timeline   []TimelineItem `json:"timeline"`
}

// RetrievalMetric is the aggregate telemetry reported once per retrieval.
type RetrievalMetric struct {
	Scope          ScopeKind `json:"scope"`
	Query          string    `json:"query"`
	Candidates     int       `json:"candidates"`
	Returned       int       `json:"returned"`
	FreshnessHours float64   `json:"freshnessHours"`
}
