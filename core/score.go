package core

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/huangsam/newsline/schema"
)

// Scorer gates documents and computes their raw signals for one retrieval call.
// It holds no state that outlives the call.
type Scorer struct {
	cfg      schema.EngineConfig
	parsed   schema.ParsedQuery
	graph    *GraphIndex
	now      time.Time
	queryVec []float64
	trust    map[string]float64
	direct   map[string]struct{}
}

// NewScorer prepares a scorer for a parsed query. The query vector is built once here.
func NewScorer(cfg schema.EngineConfig, parsed schema.ParsedQuery, graph *GraphIndex, now time.Time) *Scorer {
	trust := make(map[string]float64, len(cfg.Trust))
	for source, value := range cfg.Trust {
		trust[Normalize(source)] = value
	}
	direct := make(map[string]struct{}, len(parsed.Entities))
	for _, label := range parsed.Entities {
		direct[label] = struct{}{}
	}
	return &Scorer{
		cfg:      cfg,
		parsed:   parsed,
		graph:    graph,
		now:      now,
		queryVec: HashedVector(parsed.Normalized, cfg.VectorDims),
		trust:    trust,
		direct:   direct,
	}
}

// Score runs the scope gate, time gate and primary gate for one (subquery, document) pair.
// It reports false when the document is discarded. Malformed fields count as gate failures.
func (s *Scorer) Score(doc schema.Document, sq schema.Subquery) (schema.Candidate, bool) {
	if !passesScope(s.parsed.Filter, doc) {
		return schema.Candidate{}, false
	}
	published, ok := schema.ParseTimestamp(doc.PublishedAt)
	if !ok || !withinBounds(published, sq.From, sq.To) {
		return schema.Candidate{}, false
	}

	text := doc.Title + " " + doc.Source
	lexical := s.lexicalScore(Normalize(text), sq.Terms)
	vector := Cosine(s.queryVec, HashedVector(text, s.cfg.VectorDims))
	graphScore, centrality, reasons := s.graphScore(doc.Title)

	if math.Max(lexical, math.Max(vector, graphScore)) <= s.cfg.PrimaryGate {
		return schema.Candidate{}, false
	}

	return schema.Candidate{
		Document: doc,
		Signals: schema.Signals{
			Lexical:    lexical * sq.Weight,
			Vector:     vector * sq.Weight,
			Graph:      graphScore,
			Temporal:   s.temporalScore(published),
			Centrality: centrality,
			Trust:      s.trustScore(doc.Source),
		},
		Why:        reasons,
		SubqueryID: sq.ID,
		Published:  published,
	}, true
}

// passesScope is the scope gate.
func passesScope(scope schema.Scope, doc schema.Document) bool {
	switch sc := scope.(type) {
	case schema.CountryScope:
		return countryAllowed(sc.Countries, doc.CountryCode)
	case schema.NarrativeScope:
		if sc.NarrativeID != nil && (doc.NarrativeID == nil || *doc.NarrativeID != *sc.NarrativeID) {
			return false
		}
		return countryAllowed(sc.Countries, doc.CountryCode)
	case schema.EntityScope:
		return countryAllowed(sc.Countries, doc.CountryCode)
	default:
		return false
	}
}

func countryAllowed(countries []string, code string) bool {
	if len(countries) == 0 {
		return true
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range countries {
		if c == code {
			return true
		}
	}
	return false
}

// withinBounds is the inclusive time gate. Empty or unparsable bounds are open.
func withinBounds(t time.Time, from, to string) bool {
	if lo, ok := schema.ParseTimestamp(from); ok && t.Before(lo) {
		return false
	}
	if hi, ok := schema.ParseTimestamp(to); ok && t.After(hi) {
		return false
	}
	return true
}

// lexicalScore adds a long or short weight for each term found in text, then normalizes by term count.
func (s *Scorer) lexicalScore(text string, terms []string) float64 {
	if len(terms) == 0 || text == "" {
		return 0
	}
	var hits float64
	for _, term := range terms {
		if term == "" || !strings.Contains(text, term) {
			continue
		}
		if utf8.RuneCountInString(term) >= s.cfg.LexicalLongTermLen {
			hits += s.cfg.LexicalLongWeight
		} else {
			hits += s.cfg.LexicalShortWeight
		}
	}
	norm := math.Max(s.cfg.LexicalNormFloor, float64(len(terms))*s.cfg.LexicalNormFactor)
	if norm <= 0 {
		return 0
	}
	return clamp01(hits / norm)
}

// graphScore matches title aliases against the graph. It returns the mention score, the mean
// capped-degree centrality and the evidence strings for matched entities.
func (s *Scorer) graphScore(title string) (score, centrality float64, reasons []string) {
	matched := s.graph.Match(Normalize(title))
	if len(matched) == 0 {
		return 0, 0, nil
	}

	capDegree := max(s.cfg.DegreeCap, 1)
	var total float64
	for _, ent := range matched {
		total += float64(min(ent.Degree, capDegree)) / float64(capDegree)
		reasons = append(reasons, fmt.Sprintf("entity:%s (degree %d)", ent.Label, ent.Degree))
		if _, ok := s.direct[ent.Label]; ok {
			reasons = append(reasons, "direct mention:"+ent.Label)
		}
	}

	saturation := s.cfg.GraphSaturation
	if saturation <= 0 {
		saturation = 1
	}
	score = math.Min(1, float64(len(matched))/saturation)
	centrality = total / float64(len(matched))
	return score, centrality, reasons
}

// temporalScore is a step function of document age in days.
func (s *Scorer) temporalScore(published time.Time) float64 {
	ageDays := s.now.Sub(published).Hours() / 24
	bands := s.cfg.Freshness
	switch {
	case ageDays <= 1:
		return bands.Day
	case ageDays <= 7:
		return bands.Week
	case ageDays <= 30:
		return bands.Month
	default:
		return bands.Older
	}
}

// trustScore looks up the normalized source name in the trust table.
func (s *Scorer) trustScore(source string) float64 {
	if v, ok := s.trust[Normalize(source)]; ok {
		return v
	}
	return s.cfg.DefaultTrust
}

// clamp01 bounds v to [0, 1].
func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
