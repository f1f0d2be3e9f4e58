package cmd

import (
	"fmt"

	"github.com/huangsam/newsline/internal/contract"
	"github.com/huangsam/newsline/internal/iocache"
	"github.com/huangsam/newsline/internal/outwriter"
	"github.com/huangsam/newsline/schema"
	"github.com/spf13/cobra"
)

// graphSetup loads minimal configuration needed for graph store operations.
func graphSetup() error {
	backend, connStr, err := backendSetup("graph-backend", "graph-db-connect")
	if err != nil {
		return err
	}
	if backend == schema.NoneBackend {
		return fmt.Errorf("graph commands need --graph-backend sqlite, mysql or postgresql")
	}

	// Initialize stores with the loaded config (no metrics store for graph commands)
	if err := iocache.InitStores("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize graph store: %w", err)
	}

	cfg.GraphBackend = backend
	cfg.GraphDBConnect = connStr
	return nil
}

// graphSetupWrapper wraps graphSetup to provide PreRunE for graph commands.
func graphSetupWrapper(_ *cobra.Command, _ []string) error {
	return graphSetup()
}

// graphCmd focused on knowledge graph management.
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Manage the stored knowledge graph snapshot",
	Long: `Manage the knowledge graph used for entity matching and centrality.

A snapshot is a list of entities (id, label, kind, aliases) and edges
(source, target, relation, confidence). Retrievals read it from --graph
<file> or, when no file is given, from the configured graph backend.

Subcommands:
  import - Replace the stored snapshot with a YAML or JSON file
  status - Show entity and edge counts
  clear  - Remove the stored snapshot

Examples:
  newsline graph import graph.yaml --graph-backend sqlite
  newsline graph status --graph-backend sqlite`,
}

// graphImportCmd loads a snapshot file into the graph store.
var graphImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the stored snapshot with a YAML or JSON file",
	Long: `Validate a snapshot file and replace the stored graph with it in one transaction.

Entity ids must be present and unique, and every edge must name both ends.

Examples:
  newsline graph import graph.yaml --graph-backend sqlite
  NEWSLINE_GRAPH_BACKEND=postgresql NEWSLINE_GRAPH_DB_CONNECT="..." newsline graph import graph.json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: graphSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		snapshot, err := iocache.LoadGraphFile(appFs, args[0])
		if err != nil {
			contract.LogFatal("Failed to load graph file", err)
		}
		if err := iocache.Manager.GetGraphStore().ReplaceSnapshot(rootCtx, snapshot); err != nil {
			contract.LogFatal("Failed to import graph", err)
		}
		fmt.Printf("Imported %d entities and %d edges from %s\n", len(snapshot.Entities), len(snapshot.Edges), args[0])
	},
}

// graphStatusCmd shows graph store status.
var graphStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display graph store counts and connection details",
	Long: `Show the backend, connection status and the number of stored entities and edges.

Examples:
  newsline graph status --graph-backend sqlite --output json`,
	PreRunE: graphSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetGraphStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get graph status", err)
		}
		if err := outwriter.NewOutWriter().WriteGraphStatus(status, cfg); err != nil {
			contract.LogFatal("Failed to print graph status", err)
		}
	},
}

// graphClearCmd removes the stored snapshot.
var graphClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored knowledge graph",
	Long: `Delete the stored graph snapshot.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the entity and edge tables`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		backend, connStr, err := backendSetup("graph-backend", "graph-db-connect")
		cfg.GraphBackend = backend
		cfg.GraphDBConnect = connStr
		return err
	},
	Run: func(_ *cobra.Command, _ []string) {
		path := sqlitePath(cfg.GraphDBConnect, contract.GetGraphDBFilePath())
		if err := iocache.ClearGraph(cfg.GraphBackend, path, cfg.GraphDBConnect); err != nil {
			contract.LogFatal("Failed to clear graph", err)
		}
		fmt.Println("Graph cleared successfully.")
	},
}
