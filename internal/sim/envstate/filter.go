package envstate

import (
	"sort"
	"strings"
)

// Filter matches object or facility names. The zero value matches anything.
// The literal name "Nothing" matches an empty cell (no object, or no facility).
type Filter struct {
	names map[string]struct{}
}

// Any matches every name.
func Any() Filter { return Filter{} }

// Is matches any of the given names.
func Is(names ...string) Filter {
	f := Filter{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		f.names[n] = struct{}{}
	}
	return f
}

func (f Filter) IsAny() bool { return f.names == nil }

// Match reports whether any of names passes the filter.
func (f Filter) Match(names ...string) bool {
	if f.IsAny() {
		return true
	}
	for _, n := range names {
		if _, ok := f.names[n]; ok {
			return true
		}
	}
	return false
}

// Narrow replaces f with sub when sub shares at least one name with f.
// An Any sub leaves f unchanged.
func (f Filter) Narrow(sub Filter) (Filter, bool) {
	if sub.IsAny() {
		return f, true
	}
	if !f.Match(sub.Names()...) {
		return f, false
	}
	return sub, true
}

// Names returns the accepted names in sorted order, or nil for Any.
func (f Filter) Names() []string {
	if f.IsAny() {
		return nil
	}
	out := make([]string, 0, len(f.names))
	for n := range f.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func (f Filter) String() string {
	if f.IsAny() {
		return "*"
	}
	return strings.Join(f.Names(), "|")
}

// Query selects cells by resident object and facility. With Contents set the
// object filter also sees the atom names inside the resident object.
type Query struct {
	Object   Filter
	Facility Filter
	Contents bool
}

func (q Query) String() string {
	s := q.Object.String() + " on " + q.Facility.String()
	if q.Contents {
		s += " (contents)"
	}
	return s
}
