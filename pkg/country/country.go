// Package country defines the country record shared by every layer of the
// directory: the dataset source, the indexes, the query engine and the
// remote-backed saved and view-count state.
package country

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Fields is the restricted field set requested from the dataset endpoint.
const Fields = "name,flags,population,capital,region,cca3,borders"

// Name holds the display names of a country.
type Name struct {
	Common   string `json:"common"`
	Official string `json:"official,omitempty"`
}

// Flags holds references to the flag images of a country.
type Flags struct {
	PNG string `json:"png,omitempty"`
	SVG string `json:"svg,omitempty"`
	Alt string `json:"alt,omitempty"`
}

// Country is one immutable record of the working dataset. Code is the
// primary key.
type Country struct {
	Name       Name     `json:"name"`
	Flags      Flags    `json:"flags"`
	Population int64    `json:"population"`
	Capital    []string `json:"capital,omitempty"`
	Region     string   `json:"region,omitempty"`
	Code       string   `json:"cca3"`
	Borders    []string `json:"borders,omitempty"`
}

var (
	// ErrMissingCode is returned by Validate for records without a code.
	ErrMissingCode = errors.New("country: missing code")
	// ErrMissingName is returned by Validate for records without a common name.
	ErrMissingName = errors.New("country: missing common name")
)

// Validate reports whether the record carries what the directory needs to
// index it.
func (c Country) Validate() error {
	if strings.TrimSpace(c.Code) == "" {
		return ErrMissingCode
	}
	if strings.TrimSpace(c.Name.Common) == "" {
		return fmt.Errorf("%w (code %s)", ErrMissingName, c.Code)
	}
	if c.Population < 0 {
		return fmt.Errorf("country: negative population for %s", c.Code)
	}
	return nil
}

// CommonName returns the display name.
func (c Country) CommonName() string {
	return c.Name.Common
}

// CapitalName returns the first capital, or "" when there is none.
func (c Country) CapitalName() string {
	if len(c.Capital) == 0 {
		return ""
	}
	return c.Capital[0]
}

// DisplayCapital returns the capital or "N/A".
func (c Country) DisplayCapital() string {
	if name := c.CapitalName(); name != "" {
		return name
	}
	return "N/A"
}

// DisplayRegion returns the region or "N/A".
func (c Country) DisplayRegion() string {
	if c.Region == "" {
		return "N/A"
	}
	return c.Region
}

// FlagRef returns the best flag reference available.
func (c Country) FlagRef() string {
	if c.Flags.PNG != "" {
		return c.Flags.PNG
	}
	return c.Flags.SVG
}

// DisplayPopulation renders the population with thousands separators.
func (c Country) DisplayPopulation() string {
	return GroupDigits(c.Population)
}

// Clone returns a deep copy so callers cannot alias the dataset slices.
func (c Country) Clone() Country {
	out := c
	if c.Capital != nil {
		out.Capital = append([]string(nil), c.Capital...)
	}
	if c.Borders != nil {
		out.Borders = append([]string(nil), c.Borders...)
	}
	return out
}

// CloneAll deep copies a list of records.
func CloneAll(list []Country) []Country {
	if list == nil {
		return nil
	}
	out := make([]Country, len(list))
	for i := range list {
		out[i] = list[i].Clone()
	}
	return out
}

// GroupDigits formats n with comma thousands separators.
func GroupDigits(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
