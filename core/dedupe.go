package core

import "github.com/huangsam/newsline/schema"

// Dedupe keeps the first candidate for each normalized (title, source) pair and preserves order.
// Run it on ranked candidates so the highest-ranked duplicate is the one kept.
func Dedupe(candidates []schema.Candidate) []schema.Candidate {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]schema.Candidate, 0, len(candidates))
	for _, c := range candidates {
		key := dedupeKey(c.Title, c.Source)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}

func dedupeKey(title, source string) string {
	return Normalize(title) + "\x00" + Normalize(source)
}
