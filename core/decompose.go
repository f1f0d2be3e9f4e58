package core

import (
	"time"

	"github.com/huangsam/newsline/schema"
)

// Subquery identifiers.
const (
	SubqueryPrimary  = "primary"
	SubqueryRecent   = "recent"
	SubqueryBaseline = "baseline"
)

const day = 24 * time.Hour

// DecomposeTemporalQuery splits the parsed time range into weighted subqueries.
// Ranges longer than ShortRangeDays split into a boosted recent slice and a damped baseline.
func DecomposeTemporalQuery(parsed schema.ParsedQuery, cfg schema.EngineConfig) []schema.Subquery {
	single := func(label string) []schema.Subquery {
		return []schema.Subquery{{
			ID:     SubqueryPrimary,
			Label:  label,
			From:   parsed.Time.From,
			To:     parsed.Time.To,
			Terms:  append([]string(nil), parsed.Terms...),
			Weight: 1,
		}}
	}

	if parsed.Time.From == "" && parsed.Time.To == "" {
		return single("all time")
	}

	from, okFrom := schema.ParseTimestamp(parsed.Time.From)
	to, okTo := schema.ParseTimestamp(parsed.Time.To)
	if !okFrom || !okTo {
		return single("requested range")
	}

	span := to.Sub(from)
	if span <= time.Duration(cfg.ShortRangeDays)*day {
		return single("requested range")
	}

	split := to.Add(-time.Duration(cfg.RecentSliceDays) * day)

	recentFrom := split
	if recentFrom.Before(from) {
		recentFrom = from
	}
	baselineTo := split.Add(-time.Millisecond)
	if baselineTo.Before(from) {
		baselineTo = from
	}

	recentTerms := append([]string(nil), parsed.Terms...)
	for _, term := range cfg.FreshnessTerms {
		if norm := Normalize(term); norm != "" {
			recentTerms = append(recentTerms, norm)
		}
	}

	return []schema.Subquery{
		{
			ID:     SubqueryRecent,
			Label:  "recent window",
			From:   schema.FormatTimestamp(recentFrom),
			To:     schema.FormatTimestamp(to),
			Terms:  recentTerms,
			Weight: cfg.RecentWeight,
		},
		{
			ID:     SubqueryBaseline,
			Label:  "baseline window",
			From:   schema.FormatTimestamp(from),
			To:     schema.FormatTimestamp(baselineTo),
			Terms:  append([]string(nil), parsed.Terms...),
			Weight: cfg.BaselineWeight,
		},
	}
}
