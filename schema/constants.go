package schema

// Custom string types for type safety.
type (
	// SignalKey represents keys used in fusion weights and score breakdowns.
	SignalKey string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for metrics and graph storage.
	DatabaseBackend string

	// Intent represents the detected analyst intent of a query.
	Intent string

	// ScopeKind represents the retrieval scope a query runs under.
	ScopeKind string

	// TimePreset represents how a query's time window was resolved.
	TimePreset string

	// Stance represents the sentiment-derived label of a timeline item.
	Stance string
)

// Signal keys used in the fusion logic.
const (
	SignalLexical     SignalKey = "lexical"
	SignalVector      SignalKey = "vector"
	SignalGraph       SignalKey = "graph"
	SignalTemporal    SignalKey = "temporal"
	SignalConsistency SignalKey = "consistency"
	SignalCentrality  SignalKey = "centrality"
	SignalTrust       SignalKey = "trust"
)

// AllSignals lists every fused signal in a fixed order so weighted sums are reproducible.
var AllSignals = []SignalKey{
	SignalLexical,
	SignalVector,
	SignalGraph,
	SignalTemporal,
	SignalConsistency,
	SignalCentrality,
	SignalTrust,
}

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All intents supported.
const (
	IntentMonitor     Intent = "monitor"
	IntentInvestigate Intent = "investigate"
	IntentCompare     Intent = "compare"
	IntentEntity      Intent = "entity_focus"
	IntentUnknown     Intent = "unknown"
)

// All scopes supported.
const (
	CountryScopeKind   ScopeKind = "country"
	NarrativeScopeKind ScopeKind = "narrative"
	EntityScopeKind    ScopeKind = "entity"
)

// All time presets supported.
const (
	Preset24h    TimePreset = "24h"
	Preset7d     TimePreset = "7d"
	Preset30d    TimePreset = "30d"
	PresetCustom TimePreset = "custom"
	PresetAll    TimePreset = "all"
)

// All stances supported.
const (
	StancePro     Stance = "pro"
	StanceAnti    Stance = "anti"
	StanceNeutral Stance = "neutral"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidScopes lists all valid scopes.
var ValidScopes = map[ScopeKind]struct{}{
	CountryScopeKind:   {},
	NarrativeScopeKind: {},
	EntityScopeKind:    {},
}

// GetDefaultWeights returns the default fusion weight table.
func GetDefaultWeights() map[SignalKey]float64 {
	return map[SignalKey]float64{
		SignalLexical:     0.26,
		SignalVector:      0.22,
		SignalGraph:       0.18,
		SignalTemporal:    0.12,
		SignalConsistency: 0.10,
		SignalCentrality:  0.07,
		SignalTrust:       0.05,
	}
}
