// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/jeranaias/meetcost/internal/util"
)

// JSONStore keeps the whole list in one JSON array file. Every write
// replaces the file atomically.
type JSONStore struct {
	mu    sync.Mutex
	path  string
	limit int
}

// NewJSONStore returns a store backed by path. The file is created on the
// first Save.
func NewJSONStore(path string, limit int) *JSONStore {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &JSONStore{path: path, limit: limit}
}

// Path returns the backing file.
func (s *JSONStore) Path() string { return s.path }

// List implements Store.
func (s *JSONStore) List() ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Save implements Store.
func (s *JSONStore) Save(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.read()
	if err != nil {
		return err
	}
	return s.write(Prepend(list, rec, s.limit))
}

// Get implements Store.
func (s *JSONStore) Get(id string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.read()
	if err != nil {
		return Record{}, err
	}
	for _, r := range list {
		if r.ID == id {
			return r, nil
		}
	}
	return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Delete implements Store.
func (s *JSONStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.read()
	if err != nil {
		return err
	}
	out := list[:0]
	for _, r := range list {
		if r.ID != id {
			out = append(out, r)
		}
	}
	if len(out) == len(list) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.write(out)
}

// Clear implements Store.
func (s *JSONStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *JSONStore) Close() error { return nil }

func (s *JSONStore) read() ([]Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Record{}, nil
		}
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	if len(data) == 0 {
		return []Record{}, nil
	}

	var list []Record
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse history %s: %w", s.path, err)
	}
	if len(list) > s.limit {
		list = list[:s.limit]
	}
	return list, nil
}

func (s *JSONStore) write(list []Record) error {
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := util.AtomicWriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}
