package core

import (
	"strings"
	"unicode/utf8"

	"github.com/huangsam/newsline/schema"
)

// minAliasLen is the shortest normalized alias that may match.
const minAliasLen = 2

// IndexedEntity is a graph entity with its aliases normalized and its degree counted.
type IndexedEntity struct {
	ID      string
	Label   string
	aliases []string
	Degree  int
}

// GraphIndex is a read-only view over one graph snapshot, built once per retrieval call.
type GraphIndex struct {
	entities []IndexedEntity
}

// NewGraphIndex normalizes entity aliases and counts the edges touching each entity.
// Entity order follows the snapshot so matches are reproducible.
func NewGraphIndex(snapshot schema.GraphSnapshot) *GraphIndex {
	degree := make(map[string]int, len(snapshot.Entities))
	for _, e := range snapshot.Edges {
		degree[e.Source]++
		if e.Target != e.Source {
			degree[e.Target]++
		}
	}

	entities := make([]IndexedEntity, 0, len(snapshot.Entities))
	for _, ent := range snapshot.Entities {
		seen := make(map[string]struct{}, len(ent.Aliases))
		var aliases []string
		for _, alias := range ent.Aliases {
			norm := Normalize(alias)
			if utf8.RuneCountInString(norm) < minAliasLen {
				continue
			}
			if _, dup := seen[norm]; dup {
				continue
			}
			seen[norm] = struct{}{}
			aliases = append(aliases, norm)
		}
		entities = append(entities, IndexedEntity{
			ID:      ent.ID,
			Label:   ent.Label,
			aliases: aliases,
			Degree:  degree[ent.ID],
		})
	}
	return &GraphIndex{entities: entities}
}

// Len returns the number of indexed entities.
func (g *GraphIndex) Len() int {
	if g == nil {
		return 0
	}
	return len(g.entities)
}

// Match returns every entity with at least one alias contained in normalizedText.
// Each entity appears at most once regardless of how many aliases match.
func (g *GraphIndex) Match(normalizedText string) []IndexedEntity {
	if g == nil || normalizedText == "" {
		return nil
	}
	var matched []IndexedEntity
	for _, ent := range g.entities {
		for _, alias := range ent.aliases {
			if strings.Contains(normalizedText, alias) {
				matched = append(matched, ent)
				break
			}
		}
	}
	return matched
}
