// Package query filters the country set by free-text search and region.
package query

import (
	"strings"
	"sync"

	"tableflip.dev/wherein/pkg/country"
)

// Query is the transient (search text, region) pair owned by a caller.
type Query struct {
	Search string
	Region string
}

// Matches reports whether c passes both predicates of q.
func (q Query) Matches(c country.Country) bool {
	return matchesSearch(c, normalizeSearch(q.Search)) && matchesRegion(c, q.Region)
}

// Filter returns the countries whose display name contains search
// (case-insensitive, search trimmed) and whose region equals region (exact,
// empty matches all). Order is preserved and the result is always a new
// slice.
func Filter(countries []country.Country, search, region string) []country.Country {
	needle := normalizeSearch(search)
	out := make([]country.Country, 0, len(countries))
	for _, c := range countries {
		if matchesSearch(c, needle) && matchesRegion(c, region) {
			out = append(out, c.Clone())
		}
	}
	return out
}

func normalizeSearch(search string) string {
	return strings.ToLower(strings.TrimSpace(search))
}

func matchesSearch(c country.Country, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Name.Common), needle)
}

func matchesRegion(c country.Country, region string) bool {
	return region == "" || strings.TrimSpace(c.Region) == region
}

// View memoizes Filter for one caller. It recomputes only when the country
// set or the query changes; otherwise it hands back a fresh copy of the last
// result.
type View struct {
	mu sync.Mutex

	data  []country.Country
	query Query
	last  []country.Country
	valid bool

	recomputed int
}

// Filter is the memoized form of the package-level Filter.
func (v *View) Filter(countries []country.Country, search, region string) []country.Country {
	v.mu.Lock()
	defer v.mu.Unlock()

	q := Query{Search: search, Region: region}
	if !v.valid || q != v.query || !sameSet(v.data, countries) {
		v.data = countries
		v.query = q
		v.last = Filter(countries, search, region)
		v.valid = true
		v.recomputed++
	}
	return country.CloneAll(v.last)
}

// Recomputations returns how many times the view actually filtered.
func (v *View) Recomputations() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.recomputed
}

// Reset drops the memoized result.
func (v *View) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.data, v.last, v.valid = nil, nil, false
}

// sameSet compares slice identity, not contents: the country set is never
// mutated in place, so a new set always arrives as a new slice.
func sameSet(a, b []country.Country) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return &a[0] == &b[0]
}
