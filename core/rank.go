package core

import (
	"cmp"
	"math"
	"slices"

	"github.com/huangsam/newsline/schema"
)

// Rerank returns a new slice where each candidate carries its consistency and fused scores,
// ordered by publish time descending with the fused score breaking exact ties.
// The input slice is left untouched.
func Rerank(candidates []schema.Candidate, cfg schema.EngineConfig) []schema.Candidate {
	if len(candidates) == 0 {
		return []schema.Candidate{}
	}

	median := medianSentiment(candidates)
	sourceCounts := make(map[string]int)
	for _, c := range candidates {
		sourceCounts[c.Source]++
	}

	saturation := cfg.SourceSaturation
	if saturation <= 0 {
		saturation = 1
	}

	ranked := make([]schema.Candidate, len(candidates))
	for i, c := range candidates {
		bySentiment := math.Max(0, 1-math.Abs(finiteSentiment(c.Sentiment)-median))
		bySource := math.Min(1, float64(sourceCounts[c.Source])/saturation)

		scored := c
		scored.Why = append([]string(nil), c.Why...)
		scored.Consistency = cfg.ConsistencySentimentWeight*bySentiment + cfg.ConsistencySourceWeight*bySource
		scored.RerankScore = fuse(scored.Signals, cfg.Weights)
		ranked[i] = scored
	}

	slices.SortStableFunc(ranked, func(a, b schema.Candidate) int {
		if c := b.Published.Compare(a.Published); c != 0 {
			return c
		}
		return cmp.Compare(b.RerankScore, a.RerankScore)
	})
	return ranked
}

// fuse is the weighted sum of all signals, summed in AllSignals order.
func fuse(signals schema.Signals, weights map[schema.SignalKey]float64) float64 {
	var total float64
	for _, key := range schema.AllSignals {
		total += weights[key] * signals.Get(key)
	}
	return total
}

// medianSentiment returns the median sentiment of the candidate pool.
func medianSentiment(candidates []schema.Candidate) float64 {
	values := make([]float64, len(candidates))
	for i, c := range candidates {
		values[i] = finiteSentiment(c.Sentiment)
	}
	slices.Sort(values)
	mid := len(values) / 2
	if len(values)%2 == 0 {
		return (values[mid-1] + values[mid]) / 2
	}
	return values[mid]
}

// finiteSentiment reads NaN and infinite sentiment as neutral.
func finiteSentiment(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
