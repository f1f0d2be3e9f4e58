package schema

import (
	"fmt"
	"strings"
)

// Scope is the retrieval scope of a query. It is one of CountryScope, NarrativeScope or EntityScope,
// each carrying only the filters that apply to it.
type Scope interface {
	Kind() ScopeKind
	isScope()
}

// CountryScope restricts documents to a set of country codes. An empty set admits every country.
type CountryScope struct {
	Countries []string
}

// NarrativeScope restricts documents to one narrative and, optionally, a set of country codes.
type NarrativeScope struct {
	NarrativeID *int
	Countries   []string
}

// EntityScope focuses on graph entities and optionally restricts documents by country code.
type EntityScope struct {
	Countries []string
}

// Kind implements the Scope interface.
func (CountryScope) Kind() ScopeKind { return CountryScopeKind }

// Kind implements the Scope interface.
func (NarrativeScope) Kind() ScopeKind { return NarrativeScopeKind }

// Kind implements the Scope interface.
func (EntityScope) Kind() ScopeKind { return EntityScopeKind }

func (CountryScope) isScope()   {}
func (NarrativeScope) isScope() {}
func (EntityScope) isScope()    {}

// NewScope builds the Scope for a scope name. Country codes are trimmed and uppercased.
func NewScope(kind ScopeKind, countries []string, narrativeID *int) (Scope, error) {
	codes := NormalizeCountryCodes(countries)
	switch ScopeKind(strings.ToLower(string(kind))) {
	case CountryScopeKind:
		return CountryScope{Countries: codes}, nil
	case NarrativeScopeKind:
		return NarrativeScope{NarrativeID: narrativeID, Countries: codes}, nil
	case EntityScopeKind:
		return EntityScope{Countries: codes}, nil
	default:
		return nil, fmt.Errorf("invalid scope '%s'. must be country, narrative, entity", kind)
	}
}

// ScopeCountries returns the country filter carried by a scope.
func ScopeCountries(scope Scope) []string {
	switch s := scope.(type) {
	case CountryScope:
		return s.Countries
	case NarrativeScope:
		return s.Countries
	case EntityScope:
		return s.Countries
	default:
		return nil
	}
}

// NormalizeCountryCodes trims, uppercases and drops empty country codes, keeping input order.
func NormalizeCountryCodes(countries []string) []string {
	out := make([]string, 0, len(countries))
	for _, c := range countries {
		code := strings.ToUpper(strings.TrimSpace(c))
		if code != "" {
			out = append(out, code)
		}
	}
	return out
}
