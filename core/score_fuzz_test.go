package core

import (
	"testing"
	"unicode/utf8"

	"github.com/huangsam/newsline/schema"
)

// FuzzNormalize checks that Normalize is idempotent and never emits padding.
func FuzzNormalize(f *testing.F) {
	for _, seed := range []string{"Газпром: transit talks", "  ЁЖ  ", "2026-01-05..2026-01-10", "", "東京 tokyo"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, text string) {
		if !utf8.ValidString(text) {
			return
		}
		once := Normalize(text)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent: %q -> %q -> %q", text, once, twice)
		}
	})
}

// FuzzScore fuzzes the scorer with arbitrary document fields. Scoring must never panic and
// every signal of an admitted candidate stays in range.
func FuzzScore(f *testing.F) {
	f.Add("Gazprom exports", "Gazprom raises export forecast", "Interfax", "2026-03-15T10:00:00Z", 0.3)
	f.Add("новости за 24 часа", "Газпром: transit talks resume", "ТАСС", "not a date", -2.0)
	f.Add("", "", "", "", 0.0)

	graph := NewGraphIndex(testSnapshot())
	cfg := schema.DefaultEngineConfig()

	f.Fuzz(func(t *testing.T, query, title, source, published string, sentiment float64) {
		parsed := ParseTemporalQuery(TemporalQuery{Query: query, Now: testNow}, graph)
		scorer := NewScorer(cfg, parsed, graph, testNow)
		doc := schema.Document{Title: title, Source: source, PublishedAt: published, Sentiment: sentiment}
		for _, sq := range DecomposeTemporalQuery(parsed, cfg) {
			c, ok := scorer.Score(doc, sq)
			if !ok {
				continue
			}
			if c.Graph < 0 || c.Graph > 1 || c.Centrality < 0 || c.Centrality > 1 || c.Trust < 0 || c.Trust > 1 {
				t.Fatalf("signal out of range: %+v", c.Signals)
			}
			if c.Lexical > sq.Weight+1e-9 || c.Vector > sq.Weight+1e-9 {
				t.Fatalf("weighted signal above subquery weight %v: %+v", sq.Weight, c.Signals)
			}
		}
	})
}
