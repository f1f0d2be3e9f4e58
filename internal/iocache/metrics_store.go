package iocache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/newsline/internal/contract"
	"github.com/huangsam/newsline/schema"
)

// retrievalRunsTable holds one row per retrieval call.
const retrievalRunsTable = "newsline_retrieval_runs"

// MetricsStoreImpl implements the MetricsStore interface.
type MetricsStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	now     func() time.Time
}

var _ contract.MetricsStore = &MetricsStoreImpl{} // Compile-time check

// NewMetricsStore creates a new MetricsStore with the specified backend.
func NewMetricsStore(backend schema.DatabaseBackend, connStr string) (*MetricsStoreImpl, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &MetricsStoreImpl{backend: backend, now: time.Now}, nil
	}

	db, err := openDatabase(backend, connStr, contract.GetMetricsDBFilePath())
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(getCreateRetrievalRunsQuery(backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", retrievalRunsTable, err)
	}

	return &MetricsStoreImpl{db: db, backend: backend, now: time.Now}, nil
}

// getCreateRetrievalRunsQuery returns the CREATE TABLE query for newsline_retrieval_runs.
func getCreateRetrievalRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(retrievalRunsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id VARCHAR(36) PRIMARY KEY,
				recorded_at_ms BIGINT NOT NULL,
				scope VARCHAR(16) NOT NULL,
				query TEXT NOT NULL,
				candidates INT NOT NULL,
				returned INT NOT NULL,
				freshness_hours DOUBLE NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id VARCHAR(36) PRIMARY KEY,
				recorded_at_ms BIGINT NOT NULL,
				scope VARCHAR(16) NOT NULL,
				query TEXT NOT NULL,
				candidates INT NOT NULL,
				returned INT NOT NULL,
				freshness_hours DOUBLE PRECISION NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT PRIMARY KEY,
				recorded_at_ms INTEGER NOT NULL,
				scope TEXT NOT NULL,
				query TEXT NOT NULL,
				candidates INTEGER NOT NULL,
				returned INTEGER NOT NULL,
				freshness_hours REAL NOT NULL
			);
		`, quotedTableName)
	}
}

// RecordRetrievalMetric stores one retrieval row. Failures are logged and never
// reach the retrieval caller.
func (ms *MetricsStoreImpl) RecordRetrievalMetric(metric schema.RetrievalMetric) {
	if err := ms.insertRun(uuid.NewString(), metric); err != nil {
		contract.LogWarn("Failed to record retrieval metric", err)
	}
}

// insertRun writes a single row to newsline_retrieval_runs.
func (ms *MetricsStoreImpl) insertRun(runID string, metric schema.RetrievalMetric) error {
	// Skip for NoneBackend
	if ms.backend == schema.NoneBackend || ms.db == nil {
		return nil
	}

	query := fmt.Sprintf(
		`INSERT INTO %s (run_id, recorded_at_ms, scope, query, candidates, returned, freshness_hours) VALUES (%s)`,
		quoteTableName(retrievalRunsTable, ms.backend), placeholders(ms.backend, 7))

	_, err := ms.db.Exec(query,
		runID, ms.now().UnixMilli(), string(metric.Scope), metric.Query,
		metric.Candidates, metric.Returned, metric.FreshnessHours)
	if err != nil {
		return fmt.Errorf("failed to insert retrieval run: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (ms *MetricsStoreImpl) Close() error {
	if ms.db != nil {
		return ms.db.Close()
	}
	return nil
}

// GetStatus returns status information about the metrics store.
func (ms *MetricsStoreImpl) GetStatus() (schema.MetricsStatus, error) {
	status := schema.MetricsStatus{
		Backend:    string(ms.backend),
		Connected:  ms.db != nil,
		TableSizes: make(map[string]int64),
	}

	if ms.backend == schema.NoneBackend || ms.db == nil {
		return status, nil
	}

	quotedTableName := quoteTableName(retrievalRunsTable, ms.backend)

	total, err := countRows(ms.db, retrievalRunsTable, ms.backend)
	if err != nil {
		return status, err
	}
	status.TotalRuns = int(total)
	status.TableSizes[retrievalRunsTable] = total

	if total == 0 {
		return status, nil
	}

	var lastMs int64
	lastQuery := fmt.Sprintf("SELECT run_id, recorded_at_ms FROM %s ORDER BY recorded_at_ms DESC, run_id DESC LIMIT 1", quotedTableName)
	if err := ms.db.QueryRow(lastQuery).Scan(&status.LastRunID, &lastMs); err != nil {
		return status, fmt.Errorf("failed to get last run info: %w", err)
	}
	status.LastRunTime = time.UnixMilli(lastMs).UTC()

	var oldestMs int64
	oldestQuery := fmt.Sprintf("SELECT MIN(recorded_at_ms) FROM %s", quotedTableName)
	if err := ms.db.QueryRow(oldestQuery).Scan(&oldestMs); err != nil {
		return status, fmt.Errorf("failed to get oldest run time: %w", err)
	}
	status.OldestRunTime = time.UnixMilli(oldestMs).UTC()

	returnedQuery := fmt.Sprintf("SELECT COALESCE(SUM(returned), 0) FROM %s", quotedTableName)
	if err := ms.db.QueryRow(returnedQuery).Scan(&status.TotalReturned); err != nil {
		return status, fmt.Errorf("failed to get total returned: %w", err)
	}

	// Runs that returned nothing carry no freshness
	var mean sql.NullFloat64
	freshQuery := fmt.Sprintf("SELECT AVG(freshness_hours) FROM %s WHERE returned > 0", quotedTableName)
	if err := ms.db.QueryRow(freshQuery).Scan(&mean); err != nil {
		return status, fmt.Errorf("failed to get mean freshness: %w", err)
	}
	if mean.Valid {
		status.MeanFreshnessHours = mean.Float64
	}

	return status, nil
}

// GetAllRuns retrieves all retrieval runs in recording order.
func (ms *MetricsStoreImpl) GetAllRuns() ([]schema.RetrievalRunRecord, error) {
	// Skip for NoneBackend
	if ms.backend == schema.NoneBackend || ms.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(
		"SELECT run_id, recorded_at_ms, scope, query, candidates, returned, freshness_hours FROM %s ORDER BY recorded_at_ms, run_id",
		quoteTableName(retrievalRunsTable, ms.backend))

	rows, err := ms.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query retrieval runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RetrievalRunRecord
	for rows.Next() {
		var record schema.RetrievalRunRecord
		var recordedMs int64
		if err := rows.Scan(&record.RunID, &recordedMs, &record.Scope, &record.Query,
			&record.Candidates, &record.Returned, &record.FreshnessHours); err != nil {
			return nil, fmt.Errorf("failed to scan retrieval run: %w", err)
		}
		record.RecordedAt = time.UnixMilli(recordedMs).UTC()
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating retrieval runs: %w", err)
	}

	return results, nil
}
