package schema

import "time"

// RetrievalRunRecord represents a row from the newsline_retrieval_runs table.
type RetrievalRunRecord struct {
	RunID          string
	RecordedAt     time.Time
	Scope          string
	Query          string
	Candidates     int32
	Returned       int32
	FreshnessHours float64
}
