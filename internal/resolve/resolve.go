// Package resolve implements the Resolver & Classifier (C5): normalizing
// a record's (suburb, state) and assigning it a gcc region, or rejecting
// it.
package resolve

import (
	"strings"

	"github.com/LOOP115/social-media-analytics/internal/record"
	"github.com/LOOP115/social-media-analytics/internal/refindex"
)

// abbrToState maps a state abbreviation (periods stripped) to its full
// name, per spec §4.5.
var abbrToState = map[string]string{
	"nsw": "new south wales",
	"vic": "victoria",
	"qld": "queensland",
	"sa":  "south australia",
	"wa":  "western australia",
	"tas": "tasmania",
	"nt":  "northern territory",
	"act": "australian capital territory",
}

// capitalCityToState maps a capital city name directly to its state,
// used when the state component of a record is itself a city name.
var capitalCityToState = map[string]string{
	"sydney":    "new south wales",
	"melbourne": "victoria",
	"brisbane":  "queensland",
	"adelaide":  "south australia",
	"perth":     "western australia",
	"hobart":    "tasmania",
	"darwin":    "northern territory",
	"canberra":  "australian capital territory",
}

// Result is the outcome of classifying one record.
type Result struct {
	AuthorID string
	GCC      string
	OK       bool
}

// stripParenQualifier removes a trailing " (...)" qualifier, trims, and
// lowercases s. Used for both the suburb component of a record and (by
// internal/refindex, independently) reference-file keys.
func stripParenQualifier(s string) string {
	if idx := strings.Index(s, " ("); idx >= 0 {
		s = s[:idx]
	}
	return strings.ToLower(strings.TrimSpace(s))
}

// parenContent extracts the text inside the first "(...)" in s, and
// reports ok=false if s has no parenthesized segment.
func parenContent(s string) (string, bool) {
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return "", false
	}
	close := strings.IndexByte(s[open:], ')')
	if close < 0 {
		return "", false
	}
	return strings.TrimSpace(s[open+1 : open+close]), true
}

// normalizeState resolves the state component of a record's full_name to
// a candidate state full name, per spec §4.5's three-way rule: an
// "X (ABBR)" form, a bare capital-city name, or an already-full state
// name.
func normalizeState(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))

	// Bare abbreviation, e.g. "NSW" or "Vic.".
	if full, ok := abbrToState[strings.TrimSuffix(s, ".")]; ok {
		return full
	}
	// "City (ABBR)" form, e.g. "Sydney (NSW)": the parenthesized part is
	// the abbreviation to map, the city name outside it is discarded.
	if inner, ok := parenContent(s); ok {
		abbr := strings.TrimSuffix(strings.TrimSpace(inner), ".")
		if full, ok := abbrToState[abbr]; ok {
			return full
		}
	}
	// Bare capital-city name standing in for its state.
	if full, ok := capitalCityToState[s]; ok {
		return full
	}
	// Already a full state name.
	return s
}

// Classify normalizes p's full_name and looks it up in idx. ok is false
// when the record's location does not resolve to one of the eight
// canonical Greater Capital City regions (spec §4.5's acceptance test) —
// including when FullName or AuthorID is missing, which spec §7 treats
// as a silent reject rather than a FieldMissingError.
func Classify(idx *refindex.ReferenceIndex, p record.Post) Result {
	if p.AuthorID == "" || p.FullName == "" {
		return Result{AuthorID: p.AuthorID, OK: false}
	}

	parts := strings.SplitN(p.FullName, ", ", 2)
	if len(parts) < 2 {
		return Result{AuthorID: p.AuthorID, OK: false}
	}

	suburb := stripParenQualifier(parts[0])
	state := normalizeState(parts[1])

	gcc, ok := idx.GCC(state)
	if !ok {
		return Result{AuthorID: p.AuthorID, OK: false}
	}
	if !idx.HasSuburb(state, suburb) {
		return Result{AuthorID: p.AuthorID, OK: false}
	}

	return Result{AuthorID: p.AuthorID, GCC: gcc, OK: true}
}
