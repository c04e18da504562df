package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"estate-mail-scraper/models"
)

// JSONStore persists the listing set as a flat JSON array on disk.
type JSONStore struct {
	path string
}

// NewJSONStore prepares a store at the given path, creating intermediate
// directories. The file itself is only touched by Save.
func NewJSONStore(path string) (*JSONStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("json: create output dir: %w", err)
	}
	return &JSONStore{path: path}, nil
}

// Load reads the previously persisted set. A missing file is an empty set,
// not an error.
func (s *JSONStore) Load() ([]*models.Listing, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("json: read %q: %w", s.path, err)
	}

	var listings []*models.Listing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, fmt.Errorf("json: decode %q: %w", s.path, err)
	}
	return listings, nil
}

// Save replaces the stored set. The data goes to a temp file in the same
// directory first and is renamed over the target, so a failed write never
// leaves a truncated file where a valid prior set used to be.
func (s *JSONStore) Save(listings []*models.Listing) error {
	if listings == nil {
		listings = []*models.Listing{}
	}

	data, err := json.MarshalIndent(listings, "", "  ")
	if err != nil {
		return fmt.Errorf("json: encode: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".listings-*.json")
	if err != nil {
		return fmt.Errorf("json: create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("json: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("json: close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("json: replace %q: %w", s.path, err)
	}
	return nil
}

func (s *JSONStore) Close() error { return nil }
