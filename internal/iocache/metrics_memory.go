package iocache

import (
	"math"
	"sync/atomic"

	"github.com/huangsam/newsline/internal/contract"
	"github.com/huangsam/newsline/schema"
)

// MemoryMetrics aggregates retrieval metrics in process. It is safe for concurrent use.
type MemoryMetrics struct {
	retrievals atomic.Int64
	candidates atomic.Int64
	returned   atomic.Int64
	empty      atomic.Int64

	// freshnessBits holds the float64 sum of freshness hours over non-empty retrievals.
	freshnessBits atomic.Uint64

	// byScope is built once and only its counters change afterwards.
	byScope map[schema.ScopeKind]*atomic.Int64
}

var _ contract.MetricsRecorder = &MemoryMetrics{} // Compile-time check

// NewMemoryMetrics creates an empty aggregator.
func NewMemoryMetrics() *MemoryMetrics {
	m := &MemoryMetrics{byScope: make(map[schema.ScopeKind]*atomic.Int64, len(schema.ValidScopes))}
	for kind := range schema.ValidScopes {
		m.byScope[kind] = &atomic.Int64{}
	}
	return m
}

// RecordRetrievalMetric folds one metric into the aggregate.
func (m *MemoryMetrics) RecordRetrievalMetric(metric schema.RetrievalMetric) {
	m.retrievals.Add(1)
	m.candidates.Add(int64(metric.Candidates))
	m.returned.Add(int64(metric.Returned))
	if metric.Returned == 0 {
		m.empty.Add(1)
	} else {
		m.addFreshness(metric.FreshnessHours)
	}
	if counter, ok := m.byScope[metric.Scope]; ok {
		counter.Add(1)
	}
}

func (m *MemoryMetrics) addFreshness(hours float64) {
	for {
		old := m.freshnessBits.Load()
		next := math.Float64bits(math.Float64frombits(old) + hours)
		if m.freshnessBits.CompareAndSwap(old, next) {
			return
		}
	}
}

// Summary returns a point-in-time copy of the aggregate.
func (m *MemoryMetrics) Summary() schema.MetricsSummary {
	summary := schema.MetricsSummary{
		Retrievals: m.retrievals.Load(),
		Candidates: m.candidates.Load(),
		Returned:   m.returned.Load(),
		Empty:      m.empty.Load(),
		ByScope:    make(map[schema.ScopeKind]int64, len(m.byScope)),
	}
	if nonEmpty := summary.Retrievals - summary.Empty; nonEmpty > 0 {
		summary.MeanFreshnessHours = math.Float64frombits(m.freshnessBits.Load()) / float64(nonEmpty)
	}
	for kind, counter := range m.byScope {
		if n := counter.Load(); n > 0 {
			summary.ByScope[kind] = n
		}
	}
	return summary
}

// TeeRecorder forwards every metric to each of its recorders in order.
type TeeRecorder []contract.MetricsRecorder

var _ contract.MetricsRecorder = TeeRecorder{} // Compile-time check

// RecordRetrievalMetric implements the MetricsRecorder interface.
func (t TeeRecorder) RecordRetrievalMetric(metric schema.RetrievalMetric) {
	for _, r := range t {
		if r != nil {
			r.RecordRetrievalMetric(metric)
		}
	}
}
