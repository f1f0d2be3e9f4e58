package iocache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/huangsam/newsline/internal/contract"
	"github.com/huangsam/newsline/schema"
)

// Table names for the knowledge graph snapshot.
const (
	graphEntitiesTable = "newsline_graph_entities"
	graphEdgesTable    = "newsline_graph_edges"
)

// GraphStoreImpl implements the GraphStore interface.
type GraphStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.GraphStore = &GraphStoreImpl{} // Compile-time check

// NewGraphStore creates a new GraphStore with the specified backend.
func NewGraphStore(backend schema.DatabaseBackend, connStr string) (*GraphStoreImpl, error) {
	if backend == schema.NoneBackend {
		return &GraphStoreImpl{backend: backend}, nil
	}

	db, err := openDatabase(backend, connStr, contract.GetGraphDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createGraphTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create graph tables: %w", err)
	}

	return &GraphStoreImpl{db: db, backend: backend}, nil
}

// createGraphTables creates the entity and edge tables.
func createGraphTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{graphEntitiesTable, getCreateGraphEntitiesQuery(backend)},
		{graphEdgesTable, getCreateGraphEdgesQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}

	return nil
}

// getCreateGraphEntitiesQuery returns the CREATE TABLE query for newsline_graph_entities.
func getCreateGraphEntitiesQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(graphEntitiesTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				entity_id VARCHAR(255) PRIMARY KEY,
				seq INT NOT NULL,
				label TEXT NOT NULL,
				kind VARCHAR(64) NOT NULL,
				aliases TEXT NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				entity_id VARCHAR(255) PRIMARY KEY,
				seq INT NOT NULL,
				label TEXT NOT NULL,
				kind VARCHAR(64) NOT NULL,
				aliases TEXT NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				entity_id TEXT PRIMARY KEY,
				seq INTEGER NOT NULL,
				label TEXT NOT NULL,
				kind TEXT NOT NULL,
				aliases TEXT NOT NULL
			);
		`, quotedTableName)
	}
}

// getCreateGraphEdgesQuery returns the CREATE TABLE query for newsline_graph_edges.
func getCreateGraphEdgesQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(graphEdgesTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				seq INT PRIMARY KEY,
				source_id VARCHAR(255) NOT NULL,
				target_id VARCHAR(255) NOT NULL,
				relation VARCHAR(255) NOT NULL,
				confidence DOUBLE NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				seq INT PRIMARY KEY,
				source_id VARCHAR(255) NOT NULL,
				target_id VARCHAR(255) NOT NULL,
				relation VARCHAR(255) NOT NULL,
				confidence DOUBLE PRECISION NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				seq INTEGER PRIMARY KEY,
				source_id TEXT NOT NULL,
				target_id TEXT NOT NULL,
				relation TEXT NOT NULL,
				confidence REAL NOT NULL
			);
		`, quotedTableName)
	}
}

// ReplaceSnapshot swaps the stored graph for the given snapshot in one transaction.
func (gs *GraphStoreImpl) ReplaceSnapshot(ctx context.Context, snapshot schema.GraphSnapshot) error {
	if gs.backend == schema.NoneBackend || gs.db == nil {
		return nil
	}
	if err := ValidateSnapshot(snapshot); err != nil {
		return err
	}

	tx, err := gs.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin graph transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	entities := quoteTableName(graphEntitiesTable, gs.backend)
	edges := quoteTableName(graphEdgesTable, gs.backend)

	for _, table := range []string{entities, edges} {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	insertEntity := fmt.Sprintf("INSERT INTO %s (entity_id, seq, label, kind, aliases) VALUES (%s)",
		entities, placeholders(gs.backend, 5))
	for i, e := range snapshot.Entities {
		aliases, err := json.Marshal(e.Aliases)
		if err != nil {
			return fmt.Errorf("failed to encode aliases for %s: %w", e.ID, err)
		}
		if _, err := tx.ExecContext(ctx, insertEntity, e.ID, i, e.Label, e.Kind, string(aliases)); err != nil {
			return fmt.Errorf("failed to insert entity %s: %w", e.ID, err)
		}
	}

	insertEdge := fmt.Sprintf("INSERT INTO %s (seq, source_id, target_id, relation, confidence) VALUES (%s)",
		edges, placeholders(gs.backend, 5))
	for i, e := range snapshot.Edges {
		if _, err := tx.ExecContext(ctx, insertEdge, i, e.Source, e.Target, e.Relation, e.Confidence); err != nil {
			return fmt.Errorf("failed to insert edge %s -> %s: %w", e.Source, e.Target, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit graph snapshot: %w", err)
	}
	return nil
}

// Snapshot reads the stored graph in its original order.
func (gs *GraphStoreImpl) Snapshot(ctx context.Context) (schema.GraphSnapshot, error) {
	var snapshot schema.GraphSnapshot
	if gs.backend == schema.NoneBackend || gs.db == nil {
		return snapshot, nil
	}

	// Each query drains and closes its rows before the next one; SQLite runs on a single connection.
	entities, err := gs.readEntities(ctx)
	if err != nil {
		return snapshot, err
	}
	edges, err := gs.readEdges(ctx)
	if err != nil {
		return snapshot, err
	}
	snapshot.Entities = entities
	snapshot.Edges = edges
	return snapshot, nil
}

func (gs *GraphStoreImpl) readEntities(ctx context.Context) ([]schema.GraphEntity, error) {
	rows, err := gs.db.QueryContext(ctx, fmt.Sprintf(
		"SELECT entity_id, label, kind, aliases FROM %s ORDER BY seq",
		quoteTableName(graphEntitiesTable, gs.backend)))
	if err != nil {
		return nil, fmt.Errorf("failed to query graph entities: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.GraphEntity
	for rows.Next() {
		var e schema.GraphEntity
		var aliases string
		if err := rows.Scan(&e.ID, &e.Label, &e.Kind, &aliases); err != nil {
			return nil, fmt.Errorf("failed to scan graph entity: %w", err)
		}
		if err := json.Unmarshal([]byte(aliases), &e.Aliases); err != nil {
			return nil, fmt.Errorf("failed to decode aliases for %s: %w", e.ID, err)
		}
		results = append(results, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating graph entities: %w", err)
	}
	return results, nil
}

func (gs *GraphStoreImpl) readEdges(ctx context.Context) ([]schema.GraphEdge, error) {
	rows, err := gs.db.QueryContext(ctx, fmt.Sprintf(
		"SELECT source_id, target_id, relation, confidence FROM %s ORDER BY seq",
		quoteTableName(graphEdgesTable, gs.backend)))
	if err != nil {
		return nil, fmt.Errorf("failed to query graph edges: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.GraphEdge
	for rows.Next() {
		var e schema.GraphEdge
		if err := rows.Scan(&e.Source, &e.Target, &e.Relation, &e.Confidence); err != nil {
			return nil, fmt.Errorf("failed to scan graph edge: %w", err)
		}
		results = append(results, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating graph edges: %w", err)
	}
	return results, nil
}

// GetStatus returns entity and edge counts.
func (gs *GraphStoreImpl) GetStatus() (schema.GraphStatus, error) {
	status := schema.GraphStatus{
		Backend:   string(gs.backend),
		Connected: gs.db != nil,
	}
	if gs.backend == schema.NoneBackend || gs.db == nil {
		return status, nil
	}

	entities, err := countRows(gs.db, graphEntitiesTable, gs.backend)
	if err != nil {
		return status, err
	}
	edges, err := countRows(gs.db, graphEdgesTable, gs.backend)
	if err != nil {
		return status, err
	}
	status.Entities = int(entities)
	status.Edges = int(edges)
	return status, nil
}

// Close closes the underlying connection.
func (gs *GraphStoreImpl) Close() error {
	if gs.db != nil {
		return gs.db.Close()
	}
	return nil
}
