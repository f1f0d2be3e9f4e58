package contract

import (
	"fmt"
	"maps"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/huangsam/newsline/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit  = 120
	MaxResultLimit      = 1000
	DefaultPrecision    = 2
	DefaultFetchTimeout = 7 * time.Second
	weightSumTolerance  = 0.001
)

// WeightsRawInput holds custom fusion weights from the YAML config file.
// Use float64 pointers so absent keys keep their defaults.
type WeightsRawInput struct {
	Lexical     *float64 `mapstructure:"lexical"`
	Vector      *float64 `mapstructure:"vector"`
	Graph       *float64 `mapstructure:"graph"`
	Temporal    *float64 `mapstructure:"temporal"`
	Consistency *float64 `mapstructure:"consistency"`
	Centrality  *float64 `mapstructure:"centrality"`
	Trust       *float64 `mapstructure:"trust"`
}

// ConsistencyRawInput holds the blend of the consistency signal.
type ConsistencyRawInput struct {
	Sentiment *float64 `mapstructure:"sentiment"`
	Source    *float64 `mapstructure:"source"`
}

// ThresholdsRawInput holds gate and explanation thresholds.
type ThresholdsRawInput struct {
	PrimaryGate   *float64 `mapstructure:"primary-gate"`
	LexicalClause *float64 `mapstructure:"lexical-clause"`
	VectorClause  *float64 `mapstructure:"vector-clause"`
}

// WindowsRawInput holds the decomposition settings.
type WindowsRawInput struct {
	ShortRangeDays  *int     `mapstructure:"short-range-days"`
	RecentSliceDays *int     `mapstructure:"recent-slice-days"`
	RecentWeight    *float64 `mapstructure:"recent-weight"`
	BaselineWeight  *float64 `mapstructure:"baseline-weight"`
}

// FreshnessRawInput holds the temporal score bands.
type FreshnessRawInput struct {
	Day   *float64 `mapstructure:"day"`
	Week  *float64 `mapstructure:"week"`
	Month *float64 `mapstructure:"month"`
	Older *float64 `mapstructure:"older"`
}

// ConfidenceRawInput holds the confidence clamp.
type ConfidenceRawInput struct {
	Floor   *float64 `mapstructure:"floor"`
	Ceiling *float64 `mapstructure:"ceiling"`
}

// Config holds the runtime configuration of newsline.
// This struct remains the "final, validated" config.
type Config struct {
	// Engine is passed by value into the retrieval engine.
	Engine schema.EngineConfig

	ResultLimit int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)
	UseColors   bool
	LogLevel    log.Level

	Scope       schema.Scope
	Countries   []string
	NarrativeID *int
	TimeFrom    string
	TimeTo      string

	DocsPath  string
	GraphPath string

	GraphBackend   schema.DatabaseBackend
	GraphDBConnect string // Please use env var as this is plaintext

	MetricsBackend   schema.DatabaseBackend
	MetricsDBConnect string // Please use env var as this is plaintext

	FetchTimeout time.Duration
	FetchRate    float64 // requests per second; 0 = unlimited

	// CustomWeights holds only the fusion weights overridden by the user.
	CustomWeights map[schema.SignalKey]float64
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Limit            int     `mapstructure:"limit"`
	Precision        int     `mapstructure:"precision"`
	Output           string  `mapstructure:"output"`
	OutputFile       string  `mapstructure:"output-file"`
	Width            int     `mapstructure:"width"`
	Color            string  `mapstructure:"color"`
	LogLevel         string  `mapstructure:"log-level"`
	Docs             string  `mapstructure:"docs"`
	Graph            string  `mapstructure:"graph"`
	GraphBackend     string  `mapstructure:"graph-backend"`
	GraphDBConnect   string  `mapstructure:"graph-db-connect"`
	MetricsBackend   string  `mapstructure:"metrics-backend"`
	MetricsDBConnect string  `mapstructure:"metrics-db-connect"`
	FetchTimeout     string  `mapstructure:"fetch-timeout"`
	FetchRate        float64 `mapstructure:"fetch-rate"`

	// --- Scope and window fields, also from rootCmd.PersistentFlags() ---
	Scope       string `mapstructure:"scope"`
	Countries   string `mapstructure:"countries"`
	NarrativeID int    `mapstructure:"narrative-id"`
	From        string `mapstructure:"from"`
	To          string `mapstructure:"to"`

	// --- Engine tuning from config file ---
	Weights      WeightsRawInput     `mapstructure:"weights"`
	Consistency  ConsistencyRawInput `mapstructure:"consistency"`
	Thresholds   ThresholdsRawInput  `mapstructure:"thresholds"`
	Windows      WindowsRawInput     `mapstructure:"windows"`
	Freshness    FreshnessRawInput   `mapstructure:"freshness"`
	Confidence   ConfidenceRawInput  `mapstructure:"confidence"`
	VectorDims   int                 `mapstructure:"vector-dims"`
	DegreeCap    int                 `mapstructure:"degree-cap"`
	Trust        map[string]float64  `mapstructure:"trust"`
	DefaultTrust *float64            `mapstructure:"default-trust"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Engine = c.Engine.Clone()
	if c.Countries != nil {
		clone.Countries = append([]string(nil), c.Countries...)
	}
	if c.NarrativeID != nil {
		id := *c.NarrativeID
		clone.NarrativeID = &id
	}
	if c.CustomWeights != nil {
		clone.CustomWeights = make(map[schema.SignalKey]float64, len(c.CustomWeights))
		maps.Copy(clone.CustomWeights, c.CustomWeights)
	}
	return &clone
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and populates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	// All validation functions read from 'input' and populate 'cfg'.
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processScope(cfg, input); err != nil {
		return err
	}
	if err := processEngineConfig(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates output and runtime fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.DocsPath = input.Docs
	cfg.GraphPath = input.Graph
	cfg.TimeFrom = strings.TrimSpace(input.From)
	cfg.TimeTo = strings.TrimSpace(input.To)

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}

	cfg.LogLevel = log.InfoLevel
	if input.LogLevel != "" {
		lvl, err := log.ParseLevel(strings.ToLower(input.LogLevel))
		if err != nil {
			return fmt.Errorf("invalid log level '%s': %w", input.LogLevel, err)
		}
		cfg.LogLevel = lvl
	}

	cfg.FetchTimeout = DefaultFetchTimeout
	if input.FetchTimeout != "" {
		d, err := time.ParseDuration(input.FetchTimeout)
		if err != nil {
			return fmt.Errorf("invalid fetch timeout '%s': %w", input.FetchTimeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("fetch timeout must be positive (received %s)", d)
		}
		cfg.FetchTimeout = d
	}

	if input.FetchRate < 0 {
		return fmt.Errorf("fetch rate cannot be negative (received %g)", input.FetchRate)
	}
	cfg.FetchRate = input.FetchRate
	return nil
}

// validateBackendConfigs validates metrics and graph backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.MetricsBackend = schema.DatabaseBackend(strings.ToLower(input.MetricsBackend))
	if cfg.MetricsBackend == "" {
		cfg.MetricsBackend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.MetricsBackend]; !ok {
		return fmt.Errorf("invalid metrics backend '%s'. must be sqlite, mysql, postgresql, none", input.MetricsBackend)
	}
	cfg.MetricsDBConnect = input.MetricsDBConnect
	if err := ValidateDatabaseConnectionString(cfg.MetricsBackend, cfg.MetricsDBConnect); err != nil {
		return fmt.Errorf("metrics backend: %w", err)
	}

	cfg.GraphBackend = schema.DatabaseBackend(strings.ToLower(input.GraphBackend))
	if cfg.GraphBackend == "" {
		cfg.GraphBackend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.GraphBackend]; !ok {
		return fmt.Errorf("invalid graph backend '%s'. must be sqlite, mysql, postgresql, none", input.GraphBackend)
	}
	cfg.GraphDBConnect = input.GraphDBConnect
	if err := ValidateDatabaseConnectionString(cfg.GraphBackend, cfg.GraphDBConnect); err != nil {
		return fmt.Errorf("graph backend: %w", err)
	}

	// For SQLite, resolve to actual file paths to catch default path conflicts
	if cfg.MetricsBackend == schema.SQLiteBackend && cfg.GraphBackend == schema.SQLiteBackend {
		metricsPath := cfg.MetricsDBConnect
		if metricsPath == "" {
			metricsPath = GetMetricsDBFilePath()
		}
		graphPath := cfg.GraphDBConnect
		if graphPath == "" {
			graphPath = GetGraphDBFilePath()
		}
		if metricsPath == graphPath {
			return fmt.Errorf("metrics and graph storage must use different SQLite database files. Both resolve to %q", metricsPath)
		}
	}
	return nil
}

// processScope resolves the scope variant and its filters.
func processScope(cfg *Config, input *ConfigRawInput) error {
	cfg.Countries = schema.NormalizeCountryCodes(SplitList(input.Countries))

	if input.NarrativeID < 0 {
		return fmt.Errorf("narrative id must be positive (received %d)", input.NarrativeID)
	}
	cfg.NarrativeID = nil
	if input.NarrativeID > 0 {
		id := input.NarrativeID
		cfg.NarrativeID = &id
	}

	kind := schema.ScopeKind(strings.ToLower(strings.TrimSpace(input.Scope)))
	if kind == "" {
		kind = schema.CountryScopeKind
	}
	scope, err := schema.NewScope(kind, cfg.Countries, cfg.NarrativeID)
	if err != nil {
		return err
	}
	cfg.Scope = scope
	return nil
}

// ProcessWeightsRawInput converts WeightsRawInput into a map holding only the given overrides.
func ProcessWeightsRawInput(weights WeightsRawInput) map[schema.SignalKey]float64 {
	result := make(map[schema.SignalKey]float64)
	set := func(key schema.SignalKey, v *float64) {
		if v != nil {
			result[key] = *v
		}
	}
	set(schema.SignalLexical, weights.Lexical)
	set(schema.SignalVector, weights.Vector)
	set(schema.SignalGraph, weights.Graph)
	set(schema.SignalTemporal, weights.Temporal)
	set(schema.SignalConsistency, weights.Consistency)
	set(schema.SignalCentrality, weights.Centrality)
	set(schema.SignalTrust, weights.Trust)
	return result
}

// MergeWeights overlays custom weights on the defaults and checks that the merged table
// sums to 1.0 whenever an override is present.
func MergeWeights(custom map[schema.SignalKey]float64) (map[schema.SignalKey]float64, error) {
	merged := schema.GetDefaultWeights()
	if len(custom) == 0 {
		return merged, nil
	}
	for key, v := range custom {
		if v < 0 {
			return nil, fmt.Errorf("weight %s cannot be negative (received %g)", key, v)
		}
	}
	maps.Copy(merged, custom)

	sum := 0.0
	for _, key := range schema.AllSignals {
		sum += merged[key]
	}
	if math.Abs(sum-1) > weightSumTolerance {
		return nil, fmt.Errorf("fusion weights must sum to 1.0, got %.3f", sum)
	}
	return merged, nil
}

// processEngineConfig overlays every engine override on DefaultEngineConfig.
func processEngineConfig(cfg *Config, input *ConfigRawInput) error {
	engine := schema.DefaultEngineConfig()
	engine.DefaultLimit = cfg.ResultLimit

	cfg.CustomWeights = ProcessWeightsRawInput(input.Weights)
	weights, err := MergeWeights(cfg.CustomWeights)
	if err != nil {
		return err
	}
	engine.Weights = weights

	if err := processConsistency(&engine, input.Consistency); err != nil {
		return err
	}
	if err := processThresholds(&engine, input.Thresholds); err != nil {
		return err
	}
	if err := processWindows(&engine, input.Windows); err != nil {
		return err
	}
	if err := processFreshness(&engine, input.Freshness); err != nil {
		return err
	}
	if err := processConfidence(&engine, input.Confidence); err != nil {
		return err
	}
	if err := processTrust(&engine, input); err != nil {
		return err
	}

	if input.VectorDims < 0 {
		return fmt.Errorf("vector dims must be positive (received %d)", input.VectorDims)
	}
	if input.VectorDims > 0 {
		engine.VectorDims = input.VectorDims
	}
	if input.DegreeCap < 0 {
		return fmt.Errorf("degree cap must be positive (received %d)", input.DegreeCap)
	}
	if input.DegreeCap > 0 {
		engine.DegreeCap = input.DegreeCap
	}

	cfg.Engine = engine
	return nil
}

func processConsistency(engine *schema.EngineConfig, raw ConsistencyRawInput) error {
	if raw.Sentiment == nil && raw.Source == nil {
		return nil
	}
	if raw.Sentiment != nil {
		engine.ConsistencySentimentWeight = *raw.Sentiment
	}
	if raw.Source != nil {
		engine.ConsistencySourceWeight = *raw.Source
	}
	if err := checkUnit("consistency.sentiment", engine.ConsistencySentimentWeight); err != nil {
		return err
	}
	if err := checkUnit("consistency.source", engine.ConsistencySourceWeight); err != nil {
		return err
	}
	sum := engine.ConsistencySentimentWeight + engine.ConsistencySourceWeight
	if math.Abs(sum-1) > weightSumTolerance {
		return fmt.Errorf("consistency weights must sum to 1.0, got %.3f", sum)
	}
	return nil
}

func processThresholds(engine *schema.EngineConfig, raw ThresholdsRawInput) error {
	fields := []struct {
		name string
		in   *float64
		out  *float64
	}{
		{"thresholds.primary-gate", raw.PrimaryGate, &engine.PrimaryGate},
		{"thresholds.lexical-clause", raw.LexicalClause, &engine.LexicalClause},
		{"thresholds.vector-clause", raw.VectorClause, &engine.VectorClause},
	}
	for _, f := range fields {
		if f.in == nil {
			continue
		}
		if err := checkUnit(f.name, *f.in); err != nil {
			return err
		}
		*f.out = *f.in
	}
	return nil
}

func processWindows(engine *schema.EngineConfig, raw WindowsRawInput) error {
	if raw.ShortRangeDays != nil {
		if *raw.ShortRangeDays <= 0 {
			return fmt.Errorf("windows.short-range-days must be positive (received %d)", *raw.ShortRangeDays)
		}
		engine.ShortRangeDays = *raw.ShortRangeDays
	}
	if raw.RecentSliceDays != nil {
		if *raw.RecentSliceDays <= 0 {
			return fmt.Errorf("windows.recent-slice-days must be positive (received %d)", *raw.RecentSliceDays)
		}
		engine.RecentSliceDays = *raw.RecentSliceDays
	}
	if raw.RecentWeight != nil {
		if *raw.RecentWeight <= 1 {
			return fmt.Errorf("windows.recent-weight must be greater than 1 (received %g)", *raw.RecentWeight)
		}
		engine.RecentWeight = *raw.RecentWeight
	}
	if raw.BaselineWeight != nil {
		if *raw.BaselineWeight <= 0 || *raw.BaselineWeight >= 1 {
			return fmt.Errorf("windows.baseline-weight must be between 0 and 1 (received %g)", *raw.BaselineWeight)
		}
		engine.BaselineWeight = *raw.BaselineWeight
	}
	return nil
}

func processFreshness(engine *schema.EngineConfig, raw FreshnessRawInput) error {
	fields := []struct {
		name string
		in   *float64
		out  *float64
	}{
		{"freshness.day", raw.Day, &engine.Freshness.Day},
		{"freshness.week", raw.Week, &engine.Freshness.Week},
		{"freshness.month", raw.Month, &engine.Freshness.Month},
		{"freshness.older", raw.Older, &engine.Freshness.Older},
	}
	for _, f := range fields {
		if f.in == nil {
			continue
		}
		if err := checkUnit(f.name, *f.in); err != nil {
			return err
		}
		*f.out = *f.in
	}
	return nil
}

func processConfidence(engine *schema.EngineConfig, raw ConfidenceRawInput) error {
	if raw.Floor != nil {
		if err := checkUnit("confidence.floor", *raw.Floor); err != nil {
			return err
		}
		engine.ConfidenceFloor = *raw.Floor
	}
	if raw.Ceiling != nil {
		if err := checkUnit("confidence.ceiling", *raw.Ceiling); err != nil {
			return err
		}
		engine.ConfidenceCeiling = *raw.Ceiling
	}
	if engine.ConfidenceFloor > engine.ConfidenceCeiling {
		return fmt.Errorf("confidence floor %.2f exceeds ceiling %.2f", engine.ConfidenceFloor, engine.ConfidenceCeiling)
	}
	return nil
}

func processTrust(engine *schema.EngineConfig, input *ConfigRawInput) error {
	for source, v := range input.Trust {
		if err := checkUnit("trust."+source, v); err != nil {
			return err
		}
		engine.Trust[strings.ToLower(strings.TrimSpace(source))] = v
	}
	if input.DefaultTrust != nil {
		if err := checkUnit("default-trust", *input.DefaultTrust); err != nil {
			return err
		}
		engine.DefaultTrust = *input.DefaultTrust
	}
	return nil
}

// checkUnit reports an error when v is outside [0, 1].
func checkUnit(name string, v float64) error {
	if v < 0 || v > 1 || math.IsNaN(v) {
		return fmt.Errorf("%s must be between 0 and 1 (received %g)", name, v)
	}
	return nil
}
