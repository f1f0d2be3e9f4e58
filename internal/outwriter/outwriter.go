// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/newsline/internal/contract"
	"github.com/huangsam/newsline/schema"
)

// OutWriter provides a unified interface for all output operations.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteTimeline prints a retrieval timeline using the configured output format.
func (ow *OutWriter) WriteTimeline(report TimelineReport, cfg *contract.Config, duration time.Duration) error {
	return WriteTimelineResults(report, cfg, duration)
}

// WriteQueryPlan prints a parse preview using the configured output format.
func (ow *OutWriter) WriteQueryPlan(plan QueryPlan, cfg *contract.Config) error {
	return WriteQueryPlan(plan, cfg)
}

// WriteWeights prints the active fusion weights using the configured output format.
func (ow *OutWriter) WriteWeights(cfg *contract.Config) error {
	return WriteWeights(cfg)
}

// WriteMetricsStatus prints the metrics store status.
func (ow *OutWriter) WriteMetricsStatus(status schema.MetricsStatus, cfg *contract.Config) error {
	return WriteMetricsStatus(status, cfg)
}

// WriteGraphStatus prints the graph store status.
func (ow *OutWriter) WriteGraphStatus(status schema.GraphStatus, cfg *contract.Config) error {
	return WriteGraphStatus(status, cfg)
}
