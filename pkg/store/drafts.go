package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

const draftsDir = "drafts"

// ErrBadKey is returned for draft keys that cannot be used as file names.
var ErrBadKey = errors.New("store: invalid draft key")

// Drafts persists unsubmitted form state between runs. Each key holds one
// JSON document.
type Drafts struct {
	d        *diskv.Diskv
	basePath string
}

// OpenDrafts opens the draft store under cfg.StatePath().
func OpenDrafts(cfg Config) (*Drafts, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	basePath := cfg.StatePath()
	if basePath == "" {
		return nil, errors.New("store: state path unknown")
	}
	return &Drafts{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      64 * 1024,
	}), basePath: basePath}, nil
}

// Dir is the directory holding draft files.
func (s *Drafts) Dir() string {
	return filepath.Join(s.basePath, draftsDir)
}

// Load decodes the draft stored at key into v. It reports false when there
// is no draft.
func (s *Drafts) Load(key string, v any) (bool, error) {
	if err := checkKey(key); err != nil {
		return false, err
	}
	if !s.d.Has(key) {
		return false, nil
	}
	data, err := s.d.Read(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("store: read draft %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("store: decode draft %s: %w", key, err)
	}
	return true, nil
}

// Save replaces the draft at key with v.
func (s *Drafts) Save(key string, v any) error {
	if err := checkKey(key); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encode draft %s: %w", key, err)
	}
	if err := s.d.Write(key, data); err != nil {
		return fmt.Errorf("store: write draft %s: %w", key, err)
	}
	return nil
}

// Erase removes the draft at key. A missing draft is not an error.
func (s *Drafts) Erase(key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if !s.d.Has(key) {
		return nil
	}
	if err := s.d.Erase(key); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("store: erase draft %s: %w", key, err)
	}
	return nil
}

// Has reports whether a draft exists at key.
func (s *Drafts) Has(key string) bool {
	if checkKey(key) != nil {
		return false
	}
	return s.d.Has(key)
}

// Keys lists stored draft keys in order.
func (s *Drafts) Keys(ctx context.Context) []string {
	keys := make([]string, 0)
	for key := range s.d.Keys(ctx.Done()) {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func checkKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("%w: %q", ErrBadKey, key)
	}
	return nil
}

func keyToPathTransform(key string) *diskv.PathKey {
	return &diskv.PathKey{
		Path:     []string{draftsDir},
		FileName: key,
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return pathKey.FileName
}
