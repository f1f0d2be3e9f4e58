package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		ok    bool
	}{
		{"RFC3339 with zone", "2026-03-15T10:00:00+03:00", time.Date(2026, 3, 15, 7, 0, 0, 0, time.UTC), true},
		{"RFC3339 nano", "2026-03-15T10:00:00.250Z", time.Date(2026, 3, 15, 10, 0, 0, 250_000_000, time.UTC), true},
		{"No zone is UTC", "2026-03-15T10:00:00", time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC), true},
		{"Minutes only", "2026-03-15T10:00", time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC), true},
		{"Space separated", "2026-03-15 10:00:00", time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC), true},
		{"Date only", "2026-03-15", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"Surrounding whitespace", "  2026-03-15  ", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"Empty", "", time.Time{}, false},
		{"Garbage", "yesterday", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	moscow := time.FixedZone("MSK", 3*60*60)
	ts := time.Date(2026, 3, 15, 13, 4, 5, 678_900_000, moscow)
	assert.Equal(t, "2026-03-15T10:04:05.678Z", FormatTimestamp(ts))

	parsed, ok := ParseTimestamp(FormatTimestamp(ts))
	require.True(t, ok)
	assert.True(t, ts.Truncate(time.Millisecond).Equal(parsed))
}

func TestStanceFor(t *testing.T) {
	tests := []struct {
		sentiment float64
		want      Stance
	}{
		{0.9, StancePro},
		{0.2, StancePro},
		{0.19, StanceNeutral},
		{0, StanceNeutral},
		{-0.19, StanceNeutral},
		{-0.2, StanceAnti},
		{-1, StanceAnti},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StanceFor(tt.sentiment, 0.2), "sentiment %v", tt.sentiment)
	}
}

func TestDefaultEngineConfig(t *testing.T) {
	cfg := DefaultEngineConfig()

	var sum float64
	for _, key := range AllSignals {
		w, ok := cfg.Weights[key]
		assert.True(t, ok, "missing weight for %s", key)
		assert.GreaterOrEqual(t, w, 0.0)
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.Equal(t, 0.18, cfg.PrimaryGate)
	assert.Equal(t, 120, cfg.DefaultLimit)
}

func TestEngineConfigClone(t *testing.T) {
	cfg := DefaultEngineConfig()
	clone := cfg.Clone()

	clone.Weights[SignalLexical] = 0.99
	clone.Trust["reuters"] = 0.1
	clone.FreshnessTerms[0] = "newest"

	assert.Equal(t, 0.26, cfg.Weights[SignalLexical])
	assert.Equal(t, 0.95, cfg.Trust["reuters"])
	assert.Equal(t, "latest", cfg.FreshnessTerms[0])
}
