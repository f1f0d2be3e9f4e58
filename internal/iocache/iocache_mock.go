package iocache

import (
	"context"

	"github.com/huangsam/newsline/internal/contract"
	"github.com/huangsam/newsline/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetMetricsStore implements the StoreManager interface.
func (m *MockStoreManager) GetMetricsStore() contract.MetricsStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.MetricsStore)
	return store
}

// GetGraphStore implements the StoreManager interface.
func (m *MockStoreManager) GetGraphStore() contract.GraphStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.GraphStore)
	return store
}

// MockMetricsStore is a mock implementation of MetricsStore for testing.
type MockMetricsStore struct {
	mock.Mock
}

var _ contract.MetricsStore = &MockMetricsStore{} // Compile-time check

// RecordRetrievalMetric implements the MetricsRecorder interface.
func (m *MockMetricsStore) RecordRetrievalMetric(metric schema.RetrievalMetric) {
	m.Called(metric)
}

// GetStatus implements the MetricsStore interface.
func (m *MockMetricsStore) GetStatus() (schema.MetricsStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.MetricsStatus), args.Error(1)
}

// GetAllRuns implements the MetricsStore interface.
func (m *MockMetricsStore) GetAllRuns() ([]schema.RetrievalRunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.RetrievalRunRecord)
	return runs, args.Error(1)
}

// Close implements the MetricsStore interface.
func (m *MockMetricsStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockGraphStore is a mock implementation of GraphStore for testing.
type MockGraphStore struct {
	mock.Mock
}

var _ contract.GraphStore = &MockGraphStore{} // Compile-time check

// Snapshot implements the GraphProvider interface.
func (m *MockGraphStore) Snapshot(ctx context.Context) (schema.GraphSnapshot, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.GraphSnapshot), args.Error(1)
}

// ReplaceSnapshot implements the GraphStore interface.
func (m *MockGraphStore) ReplaceSnapshot(ctx context.Context, snapshot schema.GraphSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

// GetStatus implements the GraphStore interface.
func (m *MockGraphStore) GetStatus() (schema.GraphStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.GraphStatus), args.Error(1)
}

// Close implements the GraphStore interface.
func (m *MockGraphStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
