package index

import (
	"reflect"
	"testing"

	"tableflip.dev/wherein/pkg/country"
)

func mk(code, name, region string, borders ...string) country.Country {
	return country.Country{Code: code, Name: country.Name{Common: name}, Region: region, Borders: borders}
}

func sample() []country.Country {
	return []country.Country{
		mk("AAA", "Aland", "Europe", "ZZZ"),
		mk("BBB", "Borduria", "Europe"),
		mk("CCC", "Carpania", "Asia", "AAA", "ZZZ", "BBB"),
		mk("DDD", "Drakonia", ""),
		mk("EEE", "Elbonia", "Africa"),
	}
}

func TestLookups(t *testing.T) {
	idx := Build(sample())
	if idx.Len() != 5 {
		t.Fatalf("expected 5 countries, got %d", idx.Len())
	}
	c, ok := idx.ByCode("CCC")
	if !ok || c.Name.Common != "Carpania" {
		t.Fatalf("expected Carpania by code, got %+v ok=%v", c, ok)
	}
	c, ok = idx.ByName("Borduria")
	if !ok || c.Code != "BBB" {
		t.Fatalf("expected BBB by name, got %+v ok=%v", c, ok)
	}
	if _, ok := idx.ByCode("ZZZ"); ok {
		t.Fatalf("expected ZZZ to be absent")
	}
	if _, ok := idx.ByName("borduria"); ok {
		t.Fatalf("name lookup must be exact")
	}
}

func TestRegionsSortedUniqueNonEmpty(t *testing.T) {
	idx := Build(sample())
	want := []string{"Africa", "Asia", "Europe"}
	if got := idx.Regions(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	got := idx.Regions()
	got[0] = "Mutated"
	if idx.Regions()[0] != "Africa" {
		t.Fatalf("regions must be returned as a copy")
	}
}

func TestEmptyIndex(t *testing.T) {
	idx := Build(nil)
	if len(idx.Regions()) != 0 || idx.Len() != 0 {
		t.Fatalf("expected empty index")
	}
	var nilIdx *Index
	if nilIdx.Has("x") || len(nilIdx.Neighbors(mk("A", "A", "", "B"))) != 0 {
		t.Fatalf("nil index must resolve nothing")
	}
}

func TestNeighborsOrderPreservingAndDropsUnknown(t *testing.T) {
	idx := Build(sample())
	c, _ := idx.ByCode("CCC")
	got := idx.Neighbors(c)
	if len(got) != 2 || got[0].Code != "AAA" || got[1].Code != "BBB" {
		t.Fatalf("expected [AAA BBB], got %+v", got)
	}
}

func TestNeighborsEmpty(t *testing.T) {
	idx := Build(sample())
	for _, code := range []string{"BBB", "AAA"} {
		c, _ := idx.ByCode(code)
		got := idx.Neighbors(c)
		if got == nil || len(got) != 0 {
			t.Fatalf("%s: expected empty non-nil neighbors, got %#v", code, got)
		}
	}
}

func TestResolveNamesToleratesMisses(t *testing.T) {
	idx := Build(sample())
	got := idx.ResolveNames([]string{"Elbonia", "Atlantis", "Aland"})
	if len(got) != 2 || got[0].Code != "EEE" || got[1].Code != "AAA" {
		t.Fatalf("unexpected resolution %+v", got)
	}
	if codes := idx.CodesForNames([]string{"Atlantis"}); len(codes) != 0 {
		t.Fatalf("expected no codes, got %v", codes)
	}
}

func TestDuplicateNameFirstWins(t *testing.T) {
	idx := Build([]country.Country{mk("AAA", "Twin", "X"), mk("BBB", "Twin", "Y")})
	c, _ := idx.ByName("Twin")
	if c.Code != "AAA" {
		t.Fatalf("expected first record to win, got %s", c.Code)
	}
	if _, ok := idx.ByCode("BBB"); !ok {
		t.Fatalf("both records must remain reachable by code")
	}
}

func TestBuildDoesNotAliasInput(t *testing.T) {
	in := sample()
	idx := Build(in)
	in[0].Name.Common = "Changed"
	if c, _ := idx.ByCode("AAA"); c.Name.Common != "Aland" {
		t.Fatalf("index aliased its input")
	}
}

func TestRegionsTrimmedOnRecords(t *testing.T) {
	idx := Build([]country.Country{mk("AAA", "Aland", " Europe "), mk("BBB", "Borduria", "Europe")})
	if got := idx.Regions(); !reflect.DeepEqual(got, []string{"Europe"}) {
		t.Fatalf("expected [Europe], got %v", got)
	}
	if c, _ := idx.ByCode("AAA"); c.Region != "Europe" {
		t.Fatalf("expected record region Europe, got %q", c.Region)
	}
}
