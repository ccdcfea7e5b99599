package rules

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"cslayout/internal/diag"
)

// ErrUnknownRule is returned for an ID or name missing from the catalog.
var ErrUnknownRule = errors.New("unknown rule")

// Set is an immutable selection of rules with their severities. Methods
// return new sets.
type Set struct {
	rules    []Rule
	severity map[string]diag.Severity
}

// All returns every catalog rule at warning severity.
func All() *Set {
	return &Set{rules: Catalog(), severity: map[string]diag.Severity{}}
}

// NewSet builds a set from explicit rules, ordered by ID. Scanning with a
// custom rule goes through here.
func NewSet(rs ...Rule) *Set {
	sorted := slices.Clone(rs)
	slices.SortFunc(sorted, func(a, b Rule) int { return strings.Compare(a.ID(), b.ID()) })
	return &Set{rules: sorted, severity: map[string]diag.Severity{}}
}

func resolve(keys []string) (map[string]bool, error) {
	ids := make(map[string]bool, len(keys))
	for _, k := range keys {
		r, ok := Lookup(k)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownRule, k)
		}
		ids[r.ID()] = true
	}
	return ids, nil
}

func (s *Set) filter(keep func(Rule) bool) *Set {
	out := &Set{severity: maps.Clone(s.severity)}
	for _, r := range s.rules {
		if keep(r) {
			out.rules = append(out.rules, r)
		}
	}
	return out
}

// Only keeps the listed rules.
func (s *Set) Only(keys ...string) (*Set, error) {
	ids, err := resolve(keys)
	if err != nil {
		return nil, err
	}
	return s.filter(func(r Rule) bool { return ids[r.ID()] }), nil
}

// Without drops the listed rules.
func (s *Set) Without(keys ...string) (*Set, error) {
	ids, err := resolve(keys)
	if err != nil {
		return nil, err
	}
	return s.filter(func(r Rule) bool { return !ids[r.ID()] }), nil
}

// WithSeverity overrides the severity of one rule.
func (s *Set) WithSeverity(key string, sev diag.Severity) (*Set, error) {
	r, ok := Lookup(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRule, key)
	}
	out := s.filter(func(Rule) bool { return true })
	out.severity[r.ID()] = sev
	return out, nil
}

// Rules returns the selected rules ordered by ID.
func (s *Set) Rules() []Rule { return s.rules }

func (s *Set) Len() int { return len(s.rules) }

func (s *Set) Has(id string) bool {
	for _, r := range s.rules {
		if r.ID() == id {
			return true
		}
	}
	return false
}

// Severity returns the configured severity, warning by default.
func (s *Set) Severity(id string) diag.Severity {
	if sev, ok := s.severity[id]; ok {
		return sev
	}
	return diag.SevWarning
}

// String lists the rules with their severities, e.g. "LY1001=warning LY1003=error".
// It is stable and feeds the cache key.
func (s *Set) String() string {
	var b strings.Builder
	for i, r := range s.rules {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s=%s", r.ID(), s.Severity(r.ID()).Label())
	}
	return b.String()
}
