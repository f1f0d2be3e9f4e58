package schema

import "maps"

// FreshnessBands are the temporal scores for a document's age.
type FreshnessBands struct {
	Day   float64 `json:"day"`   // age <= 1 day
	Week  float64 `json:"week"`  // age <= 7 days
	Month float64 `json:"month"` // age <= 30 days
	Older float64 `json:"older"`
}

// EngineConfig is the tuning surface of the retrieval engine. It is built once at startup and
// passed by value to the scorer, reranker and explainer.
type EngineConfig struct {
	// Weights is the fusion weight table over AllSignals. Values sum to 1.
	Weights map[SignalKey]float64 `json:"weights"`

	// Consistency blends sentiment agreement with source frequency.
	ConsistencySentimentWeight float64 `json:"consistencySentimentWeight"`
	ConsistencySourceWeight    float64 `json:"consistencySourceWeight"`
	SourceSaturation           float64 `json:"sourceSaturation"`

	// Gates and explanation thresholds.
	PrimaryGate   float64 `json:"primaryGate"`
	LexicalClause float64 `json:"lexicalClause"`
	VectorClause  float64 `json:"vectorClause"`

	// Decomposition windows.
	ShortRangeDays  int      `json:"shortRangeDays"`
	RecentSliceDays int      `json:"recentSliceDays"`
	RecentWeight    float64  `json:"recentWeight"`
	BaselineWeight  float64  `json:"baselineWeight"`
	FreshnessTerms  []string `json:"freshnessTerms"`

	// Lexical scoring.
	LexicalLongTermLen int     `json:"lexicalLongTermLen"`
	LexicalLongWeight  float64 `json:"lexicalLongWeight"`
	LexicalShortWeight float64 `json:"lexicalShortWeight"`
	LexicalNormFloor   float64 `json:"lexicalNormFloor"`
	LexicalNormFactor  float64 `json:"lexicalNormFactor"`

	// Graph scoring.
	GraphSaturation float64 `json:"graphSaturation"`
	DegreeCap       int     `json:"degreeCap"`

	Freshness  FreshnessBands `json:"freshness"`
	VectorDims int            `json:"vectorDims"`

	ConfidenceFloor   float64 `json:"confidenceFloor"`
	ConfidenceCeiling float64 `json:"confidenceCeiling"`

	// Trust maps a source name to its reliability. Unknown sources get DefaultTrust.
	Trust        map[string]float64 `json:"trust"`
	DefaultTrust float64            `json:"defaultTrust"`

	StanceThreshold float64 `json:"stanceThreshold"`
	DefaultLimit    int     `json:"defaultLimit"`
}

// GetDefaultTrust returns the default per-source trust table.
func GetDefaultTrust() map[string]float64 {
	return map[string]float64{
		"reuters":     0.95,
		"ap":          0.93,
		"bloomberg":   0.92,
		"bbc":         0.90,
		"interfax":    0.82,
		"vedomosti":   0.82,
		"kommersant":  0.80,
		"rbc":         0.78,
		"kazinform":   0.72,
		"tass":        0.62,
		"ria novosti": 0.60,
	}
}

// DefaultEngineConfig returns the engine configuration used when nothing is overridden.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Weights:                    GetDefaultWeights(),
		ConsistencySentimentWeight: 0.7,
		ConsistencySourceWeight:    0.3,
		SourceSaturation:           4,
		PrimaryGate:                0.18,
		LexicalClause:              0.35,
		VectorClause:               0.35,
		ShortRangeDays:             10,
		RecentSliceDays:            7,
		RecentWeight:               1.2,
		BaselineWeight:             0.85,
		FreshnessTerms:             []string{"latest", "последние"},
		LexicalLongTermLen:         6,
		LexicalLongWeight:          1.0,
		LexicalShortWeight:         0.6,
		LexicalNormFloor:           1.0,
		LexicalNormFactor:          0.6,
		GraphSaturation:            3,
		DegreeCap:                  10,
		Freshness: FreshnessBands{
			Day:   1.0,
			Week:  0.75,
			Month: 0.45,
			Older: 0.2,
		},
		VectorDims:        64,
		ConfidenceFloor:   0.35,
		ConfidenceCeiling: 0.99,
		Trust:             GetDefaultTrust(),
		DefaultTrust:      0.6,
		StanceThreshold:   0.2,
		DefaultLimit:      120,
	}
}

// Clone returns a deep copy of the EngineConfig.
func (c EngineConfig) Clone() EngineConfig {
	clone := c
	if c.Weights != nil {
		clone.Weights = make(map[SignalKey]float64, len(c.Weights))
		maps.Copy(clone.Weights, c.Weights)
	}
	if c.Trust != nil {
		clone.Trust = make(map[string]float64, len(c.Trust))
		maps.Copy(clone.Trust, c.Trust)
	}
	if c.FreshnessTerms != nil {
		clone.FreshnessTerms = append([]string(nil), c.FreshnessTerms...)
	}
	return clone
}
