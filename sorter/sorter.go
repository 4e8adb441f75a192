// Package sorter provides utilities for parsing and working with sorting options.
// It supports parsing sorting strings (e.g., "name:asc,created_at:desc") into structured
// sorting options and converting them into SQL-compatible order clauses.
package sorter

import (
	"slices"
	"strings"
)

type (
	SortOpts []Opt

	SortDirection string
)

const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"

	// expectedPartsCount is the expected number of parts in a sort option (field:direction).
	expectedPartsCount = 2
)

// Opt represents a single sorting option, consisting of a field and a direction.
type Opt struct {
	F string        // F is the field to sort by.
	D SortDirection // D is the sorting direction (asc or desc).
}

// ToSQL converts an Opt into an SQL-compatible clause (e.g., "name asc").
func (o Opt) ToSQL() string {
	return o.F + " " + string(o.D)
}

// MakeFromStr parses a sorting string (e.g., "name:asc,created_at:desc")
// into a slice of Opt. Pairs with unknown fields, bad directions or a
// malformed shape are silently dropped rather than rejected, so a sloppy
// sort parameter degrades to fewer sorters instead of an error.
func MakeFromStr(sortString string, allowedFields ...string) SortOpts {
	if sortString == "" {
		return nil
	}

	var options []Opt
	for pair := range strings.SplitSeq(sortString, ",") {
		if opt, ok := parseOpt(pair, allowedFields); ok {
			options = append(options, opt)
		}
	}

	return options
}

// parseOpt parses a single "field:direction" pair.
func parseOpt(pair string, allowedFields []string) (Opt, bool) {
	parts := strings.Split(pair, ":")
	if len(parts) != expectedPartsCount {
		return Opt{}, false
	}

	field := strings.TrimSpace(parts[0])
	if !slices.Contains(allowedFields, field) {
		return Opt{}, false
	}

	direction := SortDirection(strings.ToLower(strings.TrimSpace(parts[1])))
	if direction != Asc && direction != Desc {
		return Opt{}, false
	}

	return Opt{F: field, D: direction}, true
}

// Make creates a slice of Opt from a variadic list of Opt.
func Make(sortOptions ...Opt) SortOpts {
	return sortOptions
}

// First returns the first sorting option, or nil when none were parsed.
// Useful for callers that support ordering by a single key only.
func (s SortOpts) First() *Opt {
	if len(s) == 0 {
		return nil
	}
	return &s[0]
}
