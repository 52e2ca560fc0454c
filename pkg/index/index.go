// Package index derives read-only lookup structures from a country set:
// lookups by code and by display name, the region list, neighbor
// resolution and the saved-name join.
package index

import (
	"sort"
	"strings"

	"tableflip.dev/wherein/pkg/country"
)

// Index is built once per country set and never mutated. A new country set
// needs a new Index.
type Index struct {
	countries []country.Country
	byCode    map[string]int
	byName    map[string]int
	regions   []string
}

// Build derives an Index from the country set. When two records share a
// display name the first one wins the name lookup; codes are assumed unique.
// Regions are stored trimmed, so Regions and the records agree.
func Build(countries []country.Country) *Index {
	idx := &Index{
		countries: country.CloneAll(countries),
		byCode:    make(map[string]int, len(countries)),
		byName:    make(map[string]int, len(countries)),
	}
	seenRegion := make(map[string]struct{})
	for i := range idx.countries {
		idx.countries[i].Region = strings.TrimSpace(idx.countries[i].Region)
		c := idx.countries[i]
		if _, ok := idx.byCode[c.Code]; !ok {
			idx.byCode[c.Code] = i
		}
		if _, ok := idx.byName[c.Name.Common]; !ok {
			idx.byName[c.Name.Common] = i
		}
		region := c.Region
		if region == "" {
			continue
		}
		if _, ok := seenRegion[region]; !ok {
			seenRegion[region] = struct{}{}
			idx.regions = append(idx.regions, region)
		}
	}
	sort.Strings(idx.regions)
	return idx
}

// Len returns the number of countries indexed.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.countries)
}

// Countries returns a copy of the country set in dataset order.
func (x *Index) Countries() []country.Country {
	if x == nil {
		return nil
	}
	return country.CloneAll(x.countries)
}

// ByCode looks a country up by its three-letter code.
func (x *Index) ByCode(code string) (country.Country, bool) {
	if x == nil {
		return country.Country{}, false
	}
	i, ok := x.byCode[code]
	if !ok {
		return country.Country{}, false
	}
	return x.countries[i].Clone(), true
}

// ByName looks a country up by its common display name.
func (x *Index) ByName(name string) (country.Country, bool) {
	if x == nil {
		return country.Country{}, false
	}
	i, ok := x.byName[name]
	if !ok {
		return country.Country{}, false
	}
	return x.countries[i].Clone(), true
}

// Has reports whether name resolves in the index.
func (x *Index) Has(name string) bool {
	if x == nil {
		return false
	}
	_, ok := x.byName[name]
	return ok
}

// Regions returns the sorted, de-duplicated non-empty regions.
func (x *Index) Regions() []string {
	if x == nil || len(x.regions) == 0 {
		return []string{}
	}
	return append([]string(nil), x.regions...)
}
