// Package contract holds the runtime configuration and the collaborator interfaces of newsline.
package contract

import (
	"context"

	"github.com/huangsam/newsline/schema"
)

// MetricsRecorder receives one aggregate metric per retrieval. Implementations must be safe
// for concurrent use and must not block the caller on failure.
type MetricsRecorder interface {
	RecordRetrievalMetric(metric schema.RetrievalMetric)
}

// MetricsStore is a persistent MetricsRecorder.
type MetricsStore interface {
	MetricsRecorder
	GetStatus() (schema.MetricsStatus, error)
	GetAllRuns() ([]schema.RetrievalRunRecord, error)
	Close() error
}

// GraphProvider exposes a read-only knowledge graph snapshot.
type GraphProvider interface {
	Snapshot(ctx context.Context) (schema.GraphSnapshot, error)
}

// GraphStore is a persistent GraphProvider that can be reloaded.
type GraphStore interface {
	GraphProvider
	ReplaceSnapshot(ctx context.Context, snapshot schema.GraphSnapshot) error
	GetStatus() (schema.GraphStatus, error)
	Close() error
}

// Retriever delivers raw documents for a country code. An empty code asks for every document.
type Retriever interface {
	Fetch(ctx context.Context, countryCode string) ([]schema.Document, error)
}

// StoreManager gives access to the process-wide stores.
type StoreManager interface {
	GetMetricsStore() MetricsStore
	GetGraphStore() GraphStore
}
