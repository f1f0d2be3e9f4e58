package core

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/huangsam/newsline/schema"
)

// TemporalQuery is the raw input of a parse.
type TemporalQuery struct {
	Query    string
	Scope    schema.Scope
	TimeFrom string
	TimeTo   string
	Now      time.Time
}

// intentRule maps keyword stems to an intent. Rules are checked in order and the first hit wins.
type intentRule struct {
	intent   schema.Intent
	keywords []string
}

// intentRules are ordered compare, investigate, entity, monitor.
var intentRules = []intentRule{
	{schema.IntentCompare, []string{"compar", "versus", "vs", "сравн", "разниц", "отлич"}},
	{schema.IntentInvestigate, []string{"investigat", "why", "cause", "расслед", "почему", "причин", "выясн"}},
	{schema.IntentEntity, []string{"who", "profile", "кто", "профил", "персон", "связи"}},
	{schema.IntentMonitor, []string{"monitor", "track", "latest", "update", "монитор", "отслеж", "следи", "новост", "последн"}},
}

// shortKeywordLen is the length below which a keyword must equal a whole token.
const shortKeywordLen = 4

// recencyRule maps phrases in normalized text to a trailing window. Phrases match whole
// words except the last, which is a stem.
type recencyRule struct {
	preset  schema.TimePreset
	window  time.Duration
	phrases []string
}

// recencyRules are ordered 24h, 7d, 30d and the first hit wins.
var recencyRules = []recencyRule{
	{schema.Preset24h, 24 * time.Hour, []string{"24 час", "24h", "24 hours", "сутк", "сегодня", "today", "last day", "past day"}},
	{schema.Preset7d, 7 * 24 * time.Hour, []string{"7 дней", "7d", "7 days", "недел", "last week", "past week"}},
	{schema.Preset30d, 30 * 24 * time.Hour, []string{"30 дней", "30d", "30 days", "месяц", "last month", "past month"}},
}

// numeralWords qualify a following unit word, as in "три недели".
var numeralWords = map[string]struct{}{
	"два": {}, "две": {}, "три": {}, "четыре": {}, "пять": {}, "шесть": {}, "семь": {}, "восемь": {},
	"девять": {}, "десять": {}, "несколько": {}, "пару": {},
	"two": {}, "three": {}, "four": {}, "five": {}, "six": {}, "seven": {}, "eight": {}, "nine": {},
	"ten": {}, "several": {}, "few": {},
}

// isoPairPattern finds two ISO dates at most ten characters apart.
var isoPairPattern = regexp.MustCompile(`(\d{4}-\d{2}-\d{2}).{0,10}?(\d{4}-\d{2}-\d{2})`)

// ParseTemporalQuery turns a raw query into a ParsedQuery. The graph index may be nil.
// The result depends only on the input, so a pinned Now gives a reproducible parse.
func ParseTemporalQuery(q TemporalQuery, graph *GraphIndex) schema.ParsedQuery {
	now := q.Now
	if now.IsZero() {
		now = time.Now()
	}
	scope := q.Scope
	if scope == nil {
		scope = schema.CountryScope{}
	}

	normalized := Normalize(q.Query)
	terms := Tokenize(q.Query)

	parsed := schema.ParsedQuery{
		Raw:        q.Query,
		Normalized: normalized,
		Terms:      terms,
		Intent:     detectIntent(terms, scope),
		Scope:      scope.Kind(),
		Entities:   extractEntities(normalized, graph),
		Time:       resolveTimeRange(q, normalized, now),
		Countries:  schema.ScopeCountries(scope),
		Filter:     scope,
	}
	if ns, ok := scope.(schema.NarrativeScope); ok {
		parsed.NarrativeID = ns.NarrativeID
	}
	if parsed.Countries == nil {
		parsed.Countries = []string{}
	}
	return parsed
}

// detectIntent applies intentRules in order. Entity scope selects entity focus before the
// monitor rule is considered.
func detectIntent(terms []string, scope schema.Scope) schema.Intent {
	for _, rule := range intentRules {
		if rule.intent == schema.IntentEntity && scope.Kind() == schema.EntityScopeKind {
			return schema.IntentEntity
		}
		if matchesAnyKeyword(terms, rule.keywords) {
			return rule.intent
		}
	}
	return schema.IntentUnknown
}

// matchesAnyKeyword reports whether a token starts with a keyword. Short keywords must equal a token.
func matchesAnyKeyword(terms, keywords []string) bool {
	for _, kw := range keywords {
		short := utf8.RuneCountInString(kw) < shortKeywordLen
		for _, term := range terms {
			if term == kw || (!short && strings.HasPrefix(term, kw)) {
				return true
			}
		}
	}
	return false
}

// resolveTimeRange picks explicit bounds, then recency phrases, then an ISO date pair.
func resolveTimeRange(q TemporalQuery, normalized string, now time.Time) schema.TimeRange {
	from := strings.TrimSpace(q.TimeFrom)
	to := strings.TrimSpace(q.TimeTo)
	if from != "" || to != "" {
		return schema.TimeRange{From: from, To: to, Preset: schema.PresetCustom}
	}

	words := strings.Fields(normalized)
	for _, rule := range recencyRules {
		for _, phrase := range rule.phrases {
			if containsPhrase(words, strings.Fields(phrase)) {
				return schema.TimeRange{
					From:   schema.FormatTimestamp(now.Add(-rule.window)),
					To:     schema.FormatTimestamp(now),
					Preset: rule.preset,
				}
			}
		}
	}

	if tr, ok := isoDatePair(q.Query); ok {
		return tr
	}
	return schema.TimeRange{Preset: schema.PresetAll}
}

// containsPhrase reports whether phrase occurs in words. All phrase words but the last must
// equal a word and the last is a prefix. A phrase led by a unit word is skipped when a numeral
// precedes it, so "2 недели" never reads as one week.
func containsPhrase(words, phrase []string) bool {
	n := len(phrase)
	if n == 0 {
		return false
	}
	for i := 0; i+n <= len(words); i++ {
		if !phraseAt(words[i:i+n], phrase) {
			continue
		}
		if i > 0 && isNumeral(words[i-1]) && !isNumeral(phrase[0]) {
			continue
		}
		return true
	}
	return false
}

func phraseAt(words, phrase []string) bool {
	last := len(phrase) - 1
	for j, part := range phrase {
		if j == last {
			return strings.HasPrefix(words[j], part)
		}
		if words[j] != part {
			return false
		}
	}
	return true
}

// isNumeral reports whether word is all digits or a number word.
func isNumeral(word string) bool {
	if _, ok := numeralWords[word]; ok {
		return true
	}
	for _, r := range word {
		if r < '0' || r > '9' {
			return false
		}
	}
	return word != ""
}

// isoDatePair reads the first pair of valid ISO dates in raw text. The dates are kept as
// written, the same as explicit bounds.
func isoDatePair(raw string) (schema.TimeRange, bool) {
	for _, m := range isoPairPattern.FindAllStringSubmatch(raw, -1) {
		if _, err := time.Parse(time.DateOnly, m[1]); err != nil {
			continue
		}
		if _, err := time.Parse(time.DateOnly, m[2]); err != nil {
			continue
		}
		return schema.TimeRange{From: m[1], To: m[2], Preset: schema.PresetCustom}, true
	}
	return schema.TimeRange{}, false
}

// extractEntities returns the labels of entities mentioned in the normalized query, once each.
func extractEntities(normalized string, graph *GraphIndex) []string {
	labels := []string{}
	seen := make(map[string]struct{})
	for _, ent := range graph.Match(normalized) {
		if _, dup := seen[ent.Label]; dup {
			continue
		}
		seen[ent.Label] = struct{}{}
		labels = append(labels, ent.Label)
	}
	return labels
}
