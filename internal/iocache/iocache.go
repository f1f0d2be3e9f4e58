// Package iocache persists retrieval metrics and knowledge graph snapshots.
package iocache

import (
	"sync"

	"github.com/huangsam/newsline/internal/contract"
)

// StoreManagerImpl holds the process-wide metrics and graph stores.
type StoreManagerImpl struct {
	sync.RWMutex // Protects the store pointers during initialization
	metrics      contract.MetricsStore
	graph        contract.GraphStore
}

var _ contract.StoreManager = &StoreManagerImpl{} // Compile-time check

// GetMetricsStore returns the metrics store, or nil when none was initialized.
func (mgr *StoreManagerImpl) GetMetricsStore() contract.MetricsStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.metrics
}

// GetGraphStore returns the graph store, or nil when none was initialized.
func (mgr *StoreManagerImpl) GetGraphStore() contract.GraphStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.graph
}
