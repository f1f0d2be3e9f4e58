package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/newsline/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &StoreManagerImpl{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitStores initializes the global manager. An empty backend leaves that store unset.
func InitStores(metricsBackend schema.DatabaseBackend, metricsConnStr string, graphBackend schema.DatabaseBackend, graphConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		var metricsStore *MetricsStoreImpl
		if metricsBackend != "" {
			store, err := NewMetricsStore(metricsBackend, metricsConnStr)
			if err != nil {
				initErr = fmt.Errorf("failed to initialize metrics store: %w", err)
				return
			}
			metricsStore = store
		}

		var graphStore *GraphStoreImpl
		if graphBackend != "" {
			store, err := NewGraphStore(graphBackend, graphConnStr)
			if err != nil {
				if metricsStore != nil {
					_ = metricsStore.Close()
				}
				initErr = fmt.Errorf("failed to initialize graph store: %w", err)
				return
			}
			graphStore = store
		}

		Manager.Lock()
		defer Manager.Unlock()
		if metricsStore != nil {
			Manager.metrics = metricsStore
		}
		if graphStore != nil {
			Manager.graph = graphStore
		}
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() {
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.metrics != nil {
			_ = Manager.metrics.Close()
		}
		if Manager.graph != nil {
			_ = Manager.graph.Close()
		}
	})
}

// ClearMetrics removes stored retrieval runs.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the runs table.
// For NoneBackend, it does nothing.
func ClearMetrics(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearStore(backend, dbFilePath, connStr, retrievalRunsTable)
}

// ClearGraph removes the stored graph snapshot.
func ClearGraph(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearStore(backend, dbFilePath, connStr, graphEntitiesTable, graphEdgesTable)
}

func clearStore(backend schema.DatabaseBackend, dbFilePath, connStr string, tables ...string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		driverName, err := driverFor(backend)
		if err != nil {
			return err
		}
		for _, table := range tables {
			if err := clearSQLTable(driverName, connStr, table, backend); err != nil {
				return err
			}
		}
		return nil

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported backend for clearing: %s", backend)
	}
}

// clearSQLTable connects to the SQL database and drops the table if it exists.
func clearSQLTable(driverName, connStr, tableName string, backend schema.DatabaseBackend) error {
	if err := validateTableName(tableName); err != nil {
		return err
	}

	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(tableName, backend))
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}

	return nil
}
