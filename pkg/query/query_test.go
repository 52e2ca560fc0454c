package query

import (
	"reflect"
	"testing"

	"tableflip.dev/wherein/pkg/country"
)

func mk(code, name, region string) country.Country {
	return country.Country{Code: code, Name: country.Name{Common: name}, Region: region}
}

func data() []country.Country {
	return []country.Country{
		mk("FRA", "France", "Europe"),
		mk("CAN", "Canada", "Americas"),
		mk("FJI", "Fiji", "Oceania"),
		mk("DEU", "Germany", "Europe"),
		mk("ATA", "Antarctica", ""),
	}
}

func codes(list []country.Country) []string {
	out := make([]string, 0, len(list))
	for _, c := range list {
		out = append(out, c.Code)
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name   string
		search string
		region string
		want   []string
	}{
		{name: "empty returns all", want: []string{"FRA", "CAN", "FJI", "DEU", "ATA"}},
		{name: "whitespace only returns all", search: "   ", want: []string{"FRA", "CAN", "FJI", "DEU", "ATA"}},
		{name: "substring", search: "an", want: []string{"FRA", "CAN", "DEU", "ATA"}},
		{name: "case insensitive", search: "FRANCE", want: []string{"FRA"}},
		{name: "trimmed", search: "  fiji ", want: []string{"FJI"}},
		{name: "region exact", region: "Europe", want: []string{"FRA", "DEU"}},
		{name: "region case sensitive", region: "europe", want: []string{}},
		{name: "search and region", search: "germ", region: "Europe", want: []string{"DEU"}},
		{name: "search and region disjoint", search: "canada", region: "Europe", want: []string{}},
		{name: "no match", search: "xyz", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := codes(Filter(data(), tt.search, tt.region))
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Filter(%q, %q) = %v, want %v", tt.search, tt.region, got, tt.want)
			}
		})
	}
}

func TestFilterRegionIgnoresPadding(t *testing.T) {
	in := append(data(), mk("BEL", "Belgium", " Europe "))
	if got := codes(Filter(in, "", "Europe")); !reflect.DeepEqual(got, []string{"FRA", "DEU", "BEL"}) {
		t.Fatalf("expected padded region to match, got %v", got)
	}
}

func TestFilterCaseVariantsIdentical(t *testing.T) {
	upper := Filter(data(), "FRANCE", "")
	lower := Filter(data(), "france", "")
	if !reflect.DeepEqual(upper, lower) {
		t.Fatalf("expected identical results, got %v and %v", upper, lower)
	}
}

func TestFilterIsOrderedSubset(t *testing.T) {
	in := data()
	for _, search := range []string{"", "a", "n", "ia", "zz"} {
		for _, region := range []string{"", "Europe", "Americas", "Oceania"} {
			out := Filter(in, search, region)
			j := 0
			for _, c := range out {
				for j < len(in) && in[j].Code != c.Code {
					j++
				}
				if j == len(in) {
					t.Fatalf("Filter(%q,%q) added or reordered %s", search, region, c.Code)
				}
				j++
			}
		}
	}
}

func TestFilterReturnsFreshSlice(t *testing.T) {
	in := data()
	a := Filter(in, "", "")
	b := Filter(in, "", "")
	a[0].Name.Common = "Changed"
	if b[0].Name.Common != "France" || in[0].Name.Common != "France" {
		t.Fatalf("results must not share storage")
	}
}

func TestQueryMatches(t *testing.T) {
	q := Query{Search: " fr", Region: "Europe"}
	if !q.Matches(mk("FRA", "France", "Europe")) {
		t.Fatalf("expected France to match")
	}
	if q.Matches(mk("FRA", "France", "europe")) {
		t.Fatalf("region must match exactly")
	}
}

func TestViewRecomputesOnlyOnChange(t *testing.T) {
	in := data()
	var v View
	first := v.Filter(in, "a", "")
	second := v.Filter(in, "a", "")
	if v.Recomputations() != 1 {
		t.Fatalf("expected 1 recomputation, got %d", v.Recomputations())
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("memoized result differs")
	}
	first[0].Name.Common = "Mutated"
	if third := v.Filter(in, "a", ""); third[0].Name.Common == "Mutated" {
		t.Fatalf("memoized result leaked shared storage")
	}

	v.Filter(in, "a", "Europe")
	if v.Recomputations() != 2 {
		t.Fatalf("expected recompute on region change, got %d", v.Recomputations())
	}

	replaced := data()
	v.Filter(replaced, "a", "Europe")
	if v.Recomputations() != 3 {
		t.Fatalf("expected recompute on new country set, got %d", v.Recomputations())
	}

	v.Reset()
	v.Filter(replaced, "a", "Europe")
	if v.Recomputations() != 4 {
		t.Fatalf("expected recompute after reset, got %d", v.Recomputations())
	}
}
