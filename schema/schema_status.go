package schema

import "time"

// MetricsStatus represents the status of the retrieval metrics store.
type MetricsStatus struct {
	Backend            string           `json:"backend"`
	Connected          bool             `json:"connected"`
	TotalRuns          int              `json:"total_runs"`
	LastRunID          string           `json:"last_run_id"`
	LastRunTime        time.Time        `json:"last_run_time"`
	OldestRunTime      time.Time        `json:"oldest_run_time"`
	TotalReturned      int64            `json:"total_returned"`
	MeanFreshnessHours float64          `json:"mean_freshness_hours"`
	TableSizes         map[string]int64 `json:"table_sizes"`
}

// GraphStatus represents the status of the graph snapshot store.
type GraphStatus struct {
	Backend   string `json:"backend"`
	Connected bool   `json:"connected"`
	Entities  int    `json:"entities"`
	Edges     int    `json:"edges"`
}

// MetricsSummary is an in-process aggregate of retrieval metrics.
type MetricsSummary struct {
	Retrievals         int64               `json:"retrievals"`
	Candidates         int64               `json:"candidates"`
	Returned           int64               `json:"returned"`
	Empty              int64               `json:"empty"`
	MeanFreshnessHours float64             `json:"mean_freshness_hours"`
	ByScope            map[ScopeKind]int64 `json:"by_scope"`
}
