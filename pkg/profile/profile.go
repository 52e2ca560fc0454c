// Package profile reads and submits the user profile kept by the remote
// store and remembers unsubmitted form values between runs.
package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/mail"
	"strings"

	"tableflip.dev/wherein/pkg/remote"
)

// DraftKey is the draft store key for the profile form.
const DraftKey = "profile"

var (
	// ErrIncomplete is returned when a required form field is blank.
	ErrIncomplete = errors.New("profile: required field missing")
	// ErrInvalidEmail is returned when the email does not parse.
	ErrInvalidEmail = errors.New("profile: invalid email")
	// ErrRefetch is returned when the profile was stored but reading it back
	// failed.
	ErrRefetch = errors.New("profile: stored but could not reload newest profile")
)

// Profile is a stored user profile.
type Profile struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Country string `json:"country"`
	Bio     string `json:"bio,omitempty"`
}

// Greeting renders the welcome line for p.
func Greeting(p *Profile) string {
	if p == nil || strings.TrimSpace(p.Name) == "" {
		return "Welcome back, User!"
	}
	return fmt.Sprintf("Welcome back, %s!", p.Name)
}

// Form holds the editable profile fields.
type Form struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Country string `json:"country"`
	Bio     string `json:"bio"`
}

// IsZero reports whether no field has been filled in.
func (f Form) IsZero() bool {
	return f == Form{}
}

// Merge returns f with every non-blank field of o applied on top.
func (f Form) Merge(o Form) Form {
	if o.Name != "" {
		f.Name = o.Name
	}
	if o.Email != "" {
		f.Email = o.Email
	}
	if o.Country != "" {
		f.Country = o.Country
	}
	if o.Bio != "" {
		f.Bio = o.Bio
	}
	return f
}

// Validate checks the required fields. Bio is optional.
func (f Form) Validate() error {
	var missing []string
	if strings.TrimSpace(f.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(f.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(f.Country) == "" {
		missing = append(missing, "country")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrIncomplete, strings.Join(missing, ", "))
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(f.Email)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, f.Email)
	}
	return nil
}

func (f Form) user() remote.User {
	return remote.User{
		Name:        strings.TrimSpace(f.Name),
		Email:       strings.TrimSpace(f.Email),
		CountryName: strings.TrimSpace(f.Country),
		Bio:         strings.TrimSpace(f.Bio),
	}
}

// Store is the remote surface for profiles.
type Store interface {
	NewestUser(ctx context.Context) (*remote.User, error)
	AddUser(ctx context.Context, u remote.User) error
}

// Drafts persists form values.
type Drafts interface {
	Load(key string, v any) (bool, error)
	Save(key string, v any) error
	Erase(key string) error
}

// Service reads and submits profiles.
type Service struct {
	store  Store
	drafts Drafts
	log    *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithDrafts persists unsubmitted forms in d.
func WithDrafts(d Drafts) Option {
	return func(s *Service) {
		s.drafts = d
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// New builds a Service over store.
func New(store Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Newest returns the most recent profile, or nil when none exists.
func (s *Service) Newest(ctx context.Context) (*Profile, error) {
	u, err := s.store.NewestUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("profile: fetch newest: %w", err)
	}
	if u == nil || strings.TrimSpace(u.Name) == "" {
		return nil, nil
	}
	return &Profile{Name: u.Name, Email: u.Email, Country: u.CountryName, Bio: u.Bio}, nil
}

// Draft returns the saved form, if any.
func (s *Service) Draft() (Form, bool, error) {
	var f Form
	if s.drafts == nil {
		return f, false, nil
	}
	ok, err := s.drafts.Load(DraftKey, &f)
	if err != nil {
		return Form{}, false, err
	}
	return f, ok, nil
}

// SaveDraft stores f for a later Submit.
func (s *Service) SaveDraft(f Form) error {
	if s.drafts == nil || f.IsZero() {
		return nil
	}
	return s.drafts.Save(DraftKey, f)
}

// ClearDraft discards the saved form.
func (s *Service) ClearDraft() error {
	if s.drafts == nil {
		return nil
	}
	return s.drafts.Erase(DraftKey)
}

// Submit validates and stores f, then reloads the newest profile. The
// submission is confirmed once the store accepts it, and only then is the
// draft cleared. On any earlier failure f is kept as the draft and the
// error is returned.
func (s *Service) Submit(ctx context.Context, f Form) (*Profile, error) {
	if err := f.Validate(); err != nil {
		s.keep(f)
		return nil, err
	}
	if err := s.store.AddUser(ctx, f.user()); err != nil {
		s.keep(f)
		return nil, fmt.Errorf("profile: submit: %w", err)
	}
	if err := s.ClearDraft(); err != nil {
		s.log.Warn("could not clear profile draft", "err", err)
	}

	p, err := s.Newest(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRefetch, err)
	}
	return p, nil
}

func (s *Service) keep(f Form) {
	if err := s.SaveDraft(f); err != nil {
		s.log.Warn("could not save profile draft", "err", err)
	}
}
