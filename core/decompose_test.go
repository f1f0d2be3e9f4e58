package core

import (
	"testing"

	"github.com/huangsam/newsline/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parsedWithRange(from, to string) schema.ParsedQuery {
	preset := schema.PresetCustom
	if from == "" && to == "" {
		preset = schema.PresetAll
	}
	return schema.ParsedQuery{
		Terms: []string{"gazprom", "exports"},
		Time:  schema.TimeRange{From: from, To: to, Preset: preset},
	}
}

func TestDecomposeTemporalQuery(t *testing.T) {
	cfg := schema.DefaultEngineConfig()

	t.Run("forty day range splits in two", func(t *testing.T) {
		subs := DecomposeTemporalQuery(parsedWithRange("2026-01-01T00:00:00Z", "2026-02-10T00:00:00Z"), cfg)
		require.Len(t, subs, 2)

		recent, baseline := subs[0], subs[1]
		assert.Equal(t, SubqueryRecent, recent.ID)
		assert.Equal(t, "2026-02-03T00:00:00.000Z", recent.From)
		assert.Equal(t, "2026-02-10T00:00:00.000Z", recent.To)
		assert.InDelta(t, 1.2, recent.Weight, 1e-9)
		assert.Equal(t, []string{"gazprom", "exports", "latest", "последние"}, recent.Terms)

		assert.Equal(t, SubqueryBaseline, baseline.ID)
		assert.Equal(t, "2026-01-01T00:00:00.000Z", baseline.From)
		assert.Equal(t, "2026-02-02T23:59:59.999Z", baseline.To)
		assert.InDelta(t, 0.85, baseline.Weight, 1e-9)
		assert.Equal(t, []string{"gazprom", "exports"}, baseline.Terms)
	})

	t.Run("five day range stays whole", func(t *testing.T) {
		subs := DecomposeTemporalQuery(parsedWithRange("2026-01-01", "2026-01-06"), cfg)
		require.Len(t, subs, 1)
		assert.Equal(t, SubqueryPrimary, subs[0].ID)
		assert.Equal(t, "requested range", subs[0].Label)
		assert.Equal(t, "2026-01-01", subs[0].From)
		assert.Equal(t, "2026-01-06", subs[0].To)
		assert.InDelta(t, 1.0, subs[0].Weight, 1e-9)
	})

	t.Run("exactly the short range stays whole", func(t *testing.T) {
		subs := DecomposeTemporalQuery(parsedWithRange("2026-01-01", "2026-01-11"), cfg)
		assert.Len(t, subs, 1)
	})

	t.Run("open range", func(t *testing.T) {
		subs := DecomposeTemporalQuery(parsedWithRange("", ""), cfg)
		require.Len(t, subs, 1)
		assert.Equal(t, "all time", subs[0].Label)
		assert.Empty(t, subs[0].From)
		assert.Empty(t, subs[0].To)
	})

	t.Run("half open range", func(t *testing.T) {
		subs := DecomposeTemporalQuery(parsedWithRange("2025-01-01", ""), cfg)
		require.Len(t, subs, 1)
		assert.Equal(t, "2025-01-01", subs[0].From)
	})

	t.Run("unparsable bound", func(t *testing.T) {
		subs := DecomposeTemporalQuery(parsedWithRange("yesterday", "2026-02-10"), cfg)
		require.Len(t, subs, 1)
		assert.Equal(t, "yesterday", subs[0].From)
	})

	t.Run("terms are copied", func(t *testing.T) {
		parsed := parsedWithRange("", "")
		subs := DecomposeTemporalQuery(parsed, cfg)
		subs[0].Terms[0] = "changed"
		assert.Equal(t, "gazprom", parsed.Terms[0])
	})
}
