// Package localstore persists the guest cart as one named JSON record on the
// local filesystem. The record is always read and rewritten as a whole; there
// are no partial-field updates.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/savemymealng-tech/smm-app-sub000/internal/domain"
)

const schemaVersion = 1

type record struct {
	SchemaVersion int               `json:"schema_version"`
	Items         []domain.CartItem `json:"items"`
}

// Store is the file-backed guest cart. Safe for concurrent use.
type Store struct {
	mu   sync.Mutex
	path string
}

// New builds a Store persisting to path. The file is created lazily on the
// first write; a missing file reads as an empty cart.
func New(path string) *Store {
	return &Store{path: path}
}

// Items returns the stored guest cart in insertion order.
func (s *Store) Items() ([]domain.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Replace overwrites the whole record with items.
func (s *Store) Replace(items []domain.CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(items)
}

// Mutate applies fn to the current item list and persists the result. The
// read-modify-write runs under the store lock; if fn errors nothing is
// written.
func (s *Store) Mutate(fn func(items []domain.CartItem) ([]domain.CartItem, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.load()
	if err != nil {
		return err
	}
	next, err := fn(items)
	if err != nil {
		return err
	}
	return s.save(next)
}

// Clear empties the guest cart.
func (s *Store) Clear() error {
	return s.Replace(nil)
}

func (s *Store) load() ([]domain.CartItem, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read cart record: %w", err)
	}

	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode cart record: %w", err)
	}
	return rec.Items, nil
}

func (s *Store) save(items []domain.CartItem) error {
	if items == nil {
		items = []domain.CartItem{}
	}
	raw, err := json.Marshal(record{SchemaVersion: schemaVersion, Items: items})
	if err != nil {
		return fmt.Errorf("encode cart record: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create cart dir: %w", err)
		}
	}

	// Write-then-rename so a crash mid-write cannot corrupt the record.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write cart record: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace cart record: %w", err)
	}
	return nil
}
