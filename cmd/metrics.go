package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/newsline/internal/contract"
	"github.com/huangsam/newsline/internal/iocache"
	"github.com/huangsam/newsline/internal/outwriter"
	"github.com/huangsam/newsline/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// metricsSetup loads minimal configuration needed for metrics operations.
// This is used by commands that need the run store without full shared setup.
func metricsSetup() error {
	backend, connStr, err := backendSetup("metrics-backend", "metrics-db-connect")
	if err != nil {
		return err
	}

	// Initialize stores with the loaded config (no graph store for metrics commands)
	if err := iocache.InitStores(backend, connStr, "", ""); err != nil {
		return fmt.Errorf("failed to initialize metrics store: %w", err)
	}

	cfg.MetricsBackend = backend
	cfg.MetricsDBConnect = connStr
	return nil
}

// metricsSetupWrapper wraps metricsSetup to provide PreRunE for metrics commands.
func metricsSetupWrapper(_ *cobra.Command, _ []string) error {
	return metricsSetup()
}

// metricsMigrateSetup loads minimal configuration needed for migrate operations.
// It does NOT initialize stores or create tables, so migrations can run on a fresh database.
func metricsMigrateSetup() error {
	backend, connStr, err := backendSetup("metrics-backend", "metrics-db-connect")
	if err != nil {
		return err
	}
	cfg.MetricsBackend = backend
	cfg.MetricsDBConnect = connStr
	return nil
}

// metricsMigrateSetupWrapper wraps metricsMigrateSetup to provide PreRunE for migrate command.
func metricsMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return metricsMigrateSetup()
}

// sqlitePath returns the database file of a SQLite store.
func sqlitePath(connStr, defaultPath string) string {
	if connStr != "" {
		return connStr
	}
	return defaultPath
}

// metricsCmd focused on retrieval run tracking.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Manage retrieval run tracking and exports",
	Long: `Manage the retrieval runs recorded by the metrics store.

When enabled, Newsline stores one row per retrieval:
- Run id and timestamp
- Scope and query text
- Candidate pool size and returned item count
- Mean freshness of the returned items in hours

Supported backends: SQLite, MySQL, PostgreSQL, or None (default, disabled)

Subcommands:
  status  - Show run tracking statistics
  export  - Export runs to Parquet for analytics
  clear   - Remove all recorded runs
  migrate - Run database schema migrations

Examples:
  # Check tracking status
  newsline metrics status --metrics-backend sqlite

  # Export for analysis in pandas/DuckDB
  newsline metrics export --metrics-backend sqlite --output-file runs.parquet`,
}

// metricsStatusCmd shows metrics store status.
var metricsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run tracking statistics and connection details",
	Long: `Show detailed information about the metrics store.

Displays:
- Backend type and connection status
- Total number of recorded retrievals
- Last and oldest run timestamps
- Total returned items and mean freshness
- Database table sizes

Examples:
  newsline metrics status --metrics-backend sqlite
  newsline metrics status --metrics-backend sqlite --output json`,
	PreRunE: metricsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetMetricsStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get metrics status", err)
		}
		if err := outwriter.NewOutWriter().WriteMetricsStatus(status, cfg); err != nil {
			contract.LogFatal("Failed to print metrics status", err)
		}
	},
}

// metricsExportCmd exports retrieval runs to a Parquet file.
var metricsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export retrieval runs to Parquet for BI tools and analytics",
	Long: `Export every recorded retrieval run to a Parquet file.

Requires: --output-file parameter

Examples:
  newsline metrics export --metrics-backend sqlite --output-file runs.parquet
  duckdb -c "SELECT scope, avg(returned) FROM read_parquet('runs.parquet') GROUP BY scope"`,
	PreRunE: metricsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteMetricsExport(iocache.Manager.GetMetricsStore(), cfg.OutputFile, os.Stdout); err != nil {
			contract.LogFatal("Failed to export metrics", err)
		}
	},
}

// metricsClearCmd clears the metrics store.
var metricsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded retrieval runs",
	Long: `Delete all recorded retrieval runs.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the runs table

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  newsline metrics export --metrics-backend sqlite --output-file backup.parquet
  newsline metrics clear --metrics-backend sqlite`,
	PreRunE: metricsMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		path := sqlitePath(cfg.MetricsDBConnect, contract.GetMetricsDBFilePath())
		if err := iocache.ClearMetrics(cfg.MetricsBackend, path, cfg.MetricsDBConnect); err != nil {
			contract.LogFatal("Failed to clear metrics", err)
		}
		fmt.Println("Metrics cleared successfully.")
	},
}

// metricsMigrateCmd runs database migrations for the metrics store.
var metricsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the metrics store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  newsline metrics migrate --metrics-backend sqlite

  # Migrate to specific version
  newsline metrics migrate --metrics-backend sqlite --target-version 1

  # Rollback everything
  newsline metrics migrate --metrics-backend sqlite --target-version 0`,
	PreRunE: metricsMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if cfg.MetricsBackend == schema.SQLiteBackend {
			cfg.MetricsDBConnect = sqlitePath(cfg.MetricsDBConnect, contract.GetMetricsDBFilePath())
		}
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateMetrics(cfg.MetricsBackend, cfg.MetricsDBConnect, targetVersion, os.Stdout); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
