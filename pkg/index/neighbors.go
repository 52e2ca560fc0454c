package index

import "tableflip.dev/wherein/pkg/country"

// Neighbors resolves c's border codes to records in the order they are
// listed. Codes with no match are skipped. The result is never nil so an
// empty result reads as "no neighbors".
func (x *Index) Neighbors(c country.Country) []country.Country {
	out := make([]country.Country, 0, len(c.Borders))
	if x == nil {
		return out
	}
	for _, code := range c.Borders {
		if n, ok := x.ByCode(code); ok {
			out = append(out, n)
		}
	}
	return out
}

// ResolveNames joins display names against the index, keeping the order of
// names and dropping names that do not resolve.
func (x *Index) ResolveNames(names []string) []country.Country {
	out := make([]country.Country, 0, len(names))
	if x == nil {
		return out
	}
	for _, name := range names {
		if c, ok := x.ByName(name); ok {
			out = append(out, c)
		}
	}
	return out
}

// CodesForNames maps display names to codes, dropping names that do not
// resolve.
func (x *Index) CodesForNames(names []string) []string {
	resolved := x.ResolveNames(names)
	codes := make([]string, 0, len(resolved))
	for _, c := range resolved {
		codes = append(codes, c.Code)
	}
	return codes
}
