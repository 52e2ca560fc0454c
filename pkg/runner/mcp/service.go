// Package mcp exposes the country directory over the Model Context Protocol.
package mcp

import (
	"context"
	"errors"
	"strings"

	"tableflip.dev/wherein/pkg/country"
	"tableflip.dev/wherein/pkg/printers"
	"tableflip.dev/wherein/pkg/saved"
	"tableflip.dev/wherein/pkg/viewcount"
)

// Directory is the session surface the MCP server reads and mutates.
type Directory interface {
	Search(search, region string) []country.Country
	Regions() []string
	Country(name string) (country.Country, error)
	Neighbors(name string) ([]country.Country, error)
	Refresh(ctx context.Context) error
	Saved() []country.Country
	SavedState(name string) saved.Membership
	Toggle(ctx context.Context, name string) (saved.Membership, error)
	Activate(ctx context.Context, name string) (viewcount.Display, error)
}

// Service adapts a Directory to transport-friendly values.
type Service struct {
	Directory Directory
}

// CountryDTO is a transport-friendly projection of a country.
type CountryDTO struct {
	Name         string `json:"name"`
	OfficialName string `json:"officialName,omitempty"`
	Code         string `json:"code"`
	Capital      string `json:"capital"`
	Region       string `json:"region"`
	Population   int64  `json:"population"`
	Flag         string `json:"flag,omitempty"`
	Saved        string `json:"saved"`
}

// CountryDetailDTO adds borders and the view count.
type CountryDetailDTO struct {
	CountryDTO
	Borders     []string `json:"borders"`
	BorderText  string   `json:"borderText"`
	Views       *int     `json:"views,omitempty"`
	ViewsStatus string   `json:"viewsStatus,omitempty"`
}

// NewService builds a service over d.
func NewService(d Directory) *Service {
	return &Service{Directory: d}
}

func (s *Service) check() error {
	if s == nil || s.Directory == nil {
		return errors.New("directory is not configured")
	}
	return nil
}

// SearchCountries filters by name substring and region. A limit of zero or
// less returns every match.
func (s *Service) SearchCountries(ctx context.Context, search, region string, limit int) ([]CountryDTO, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	s.refresh(ctx)
	list := s.Directory.Search(search, strings.TrimSpace(region))
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	out := make([]CountryDTO, 0, len(list))
	for _, c := range list {
		out = append(out, s.dto(c))
	}
	return out, nil
}

// Country returns the detail of one country. When countView is set the
// call records one view and reports the new count.
func (s *Service) Country(ctx context.Context, name string, countView bool) (CountryDetailDTO, error) {
	if err := s.check(); err != nil {
		return CountryDetailDTO{}, err
	}
	c, err := s.Directory.Country(name)
	if err != nil {
		return CountryDetailDTO{}, err
	}
	neighbors, err := s.Directory.Neighbors(name)
	if err != nil {
		return CountryDetailDTO{}, err
	}
	s.refresh(ctx)

	out := CountryDetailDTO{
		CountryDTO: s.dto(c),
		Borders:    make([]string, 0, len(neighbors)),
		BorderText: printers.BorderList(neighbors),
	}
	for _, n := range neighbors {
		out.Borders = append(out.Borders, n.CommonName())
	}
	if countView {
		d, _ := s.Directory.Activate(ctx, c.CommonName())
		out.ViewsStatus = d.String()
		if d.State == viewcount.Known {
			count := d.Count
			out.Views = &count
		}
	}
	return out, nil
}

// Regions returns the distinct regions.
func (s *Service) Regions() ([]string, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	return s.Directory.Regions(), nil
}

// ListSaved refreshes and returns the saved countries.
func (s *Service) ListSaved(ctx context.Context) ([]CountryDTO, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	if err := s.Directory.Refresh(ctx); err != nil {
		return nil, err
	}
	list := s.Directory.Saved()
	out := make([]CountryDTO, 0, len(list))
	for _, c := range list {
		out = append(out, s.dto(c))
	}
	return out, nil
}

// ToggleSaved flips the saved state of name and returns the confirmed
// state.
func (s *Service) ToggleSaved(ctx context.Context, name string) (string, error) {
	if err := s.check(); err != nil {
		return "", err
	}
	state, err := s.Directory.Toggle(ctx, name)
	if err != nil {
		return state.String(), err
	}
	return state.String(), nil
}

// refresh is best effort; a failure leaves the saved column at its last
// known value.
func (s *Service) refresh(ctx context.Context) {
	_ = s.Directory.Refresh(ctx)
}

func (s *Service) dto(c country.Country) CountryDTO {
	return CountryDTO{
		Name:         c.CommonName(),
		OfficialName: c.Name.Official,
		Code:         c.Code,
		Capital:      c.DisplayCapital(),
		Region:       c.DisplayRegion(),
		Population:   c.Population,
		Flag:         c.FlagRef(),
		Saved:        s.Directory.SavedState(c.CommonName()).String(),
	}
}
