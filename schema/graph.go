package schema

// GraphEntity is a known person, organization or place in the knowledge graph snapshot.
type GraphEntity struct {
	ID      string   `json:"id" yaml:"id"`
	Label   string   `json:"label" yaml:"label"`
	Kind    string   `json:"kind,omitempty" yaml:"kind,omitempty"`
	Aliases []string `json:"aliases" yaml:"aliases"`
}

// GraphEdge is a relation between two entities.
type GraphEdge struct {
	Source     string  `json:"source" yaml:"source"`
	Target     string  `json:"target" yaml:"target"`
	Relation   string  `json:"relation,omitempty" yaml:"relation,omitempty"`
	Confidence float64 `json:"confidence,omitempty" yaml:"confidence,omitempty"`
}

// GraphSnapshot is a read-only view of the knowledge graph, consistent for one retrieval call.
type GraphSnapshot struct {
	Entities []GraphEntity `json:"entities" yaml:"entities"`
	Edges    []GraphEdge   `json:"edges" yaml:"edges"`
}
