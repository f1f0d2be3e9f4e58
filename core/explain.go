package core

import (
	"fmt"
	"strings"

	"github.com/huangsam/newsline/schema"
)

// BuildWhy assembles the "why included" explanation. Clauses appear in a fixed order, with the
// numeric summary always last.
func BuildWhy(c schema.Candidate, parsed schema.ParsedQuery, cfg schema.EngineConfig) string {
	var clauses []string
	if c.Lexical >= cfg.LexicalClause {
		clauses = append(clauses, "matches query terms")
	}
	if c.Vector >= cfg.VectorClause {
		clauses = append(clauses, "semantically close to the query")
	}
	if c.Graph > 0 {
		clauses = append(clauses, "supported by knowledge-graph entities")
	}
	if parsed.Time.Preset != schema.PresetAll {
		clauses = append(clauses, fmt.Sprintf("inside the %s time window", parsed.Time.Preset))
	}
	clauses = append(clauses, fmt.Sprintf("score %.2f, consistency %.2f, centrality %.2f, trust %.2f",
		c.RerankScore, c.Consistency, c.Centrality, c.Trust))
	return strings.Join(clauses, " | ")
}
