// Package cmd defines the command-line interface for newsline.
package cmd

import (
	"github.com/huangsam/newsline/internal/contract"
	"github.com/huangsam/newsline/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(retrieveCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(weightsCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the metrics subcommands to the parent metrics command
	metricsCmd.AddCommand(metricsStatusCmd)
	metricsCmd.AddCommand(metricsExportCmd)
	metricsCmd.AddCommand(metricsClearCmd)
	metricsCmd.AddCommand(metricsMigrateCmd)

	// Add the graph subcommands to the parent graph command
	graphCmd.AddCommand(graphImportCmd)
	graphCmd.AddCommand(graphStatusCmd)
	graphCmd.AddCommand(graphClearCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Maximum number of timeline items")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns (1 or 2)")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("docs", "", "Path to a JSON array of documents to search")
	rootCmd.PersistentFlags().String("graph", "", "Path to a knowledge graph snapshot (.yaml, .yml or .json)")
	rootCmd.PersistentFlags().String("graph-backend", string(schema.NoneBackend), "Graph store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("graph-db-connect", "", "Database connection string for the graph store")
	rootCmd.PersistentFlags().String("metrics-backend", string(schema.NoneBackend), "Run tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("metrics-db-connect", "", "Database connection string for run tracking (must differ from graph-db-connect)")
	rootCmd.PersistentFlags().String("fetch-timeout", contract.DefaultFetchTimeout.String(), "Timeout of each per-country document fetch")
	rootCmd.PersistentFlags().Float64("fetch-rate", 0, "Maximum document fetches per second (0 = unlimited)")
	rootCmd.PersistentFlags().String("scope", string(schema.CountryScopeKind), "Scope: country or narrative or entity")
	rootCmd.PersistentFlags().String("countries", "", "Comma-separated ISO country codes")
	rootCmd.PersistentFlags().Int("narrative-id", 0, "Narrative id for narrative scope")
	rootCmd.PersistentFlags().String("from", "", "Start of the time window (ISO-8601)")
	rootCmd.PersistentFlags().String("to", "", "End of the time window (ISO-8601)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of metricsMigrateCmd to Viper
	metricsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(metricsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding metrics migrate flags", err)
	}
}
