// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when no record has the requested ID.
var ErrNotFound = errors.New("meeting not found")

// Store persists the meeting list.
type Store interface {
	// List returns records newest first.
	List() ([]Record, error)
	// Save puts rec at the head of the list and drops the oldest beyond the limit.
	Save(rec Record) error
	Get(id string) (Record, error)
	Delete(id string) error
	Clear() error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config selects and locates a store.
type Config struct {
	Backend string // "json" (default) or "sqlite"
	Dir     string // directory holding history.json or history.db
	Limit   int    // 0 = DefaultLimit
}

// Open creates the directory if needed and opens the configured backend.
func Open(cfg Config) (Store, error) {
	if cfg.Dir == "" {
		return nil, errors.New("history directory not set")
	}
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	switch strings.ToLower(cfg.Backend) {
	case "", BackendJSON:
		return NewJSONStore(filepath.Join(cfg.Dir, "history.json"), cfg.Limit), nil
	case BackendSQLite:
		return OpenSQLite(filepath.Join(cfg.Dir, "history.db"), cfg.Limit)
	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.Backend)
	}
}

// FindPrefix resolves a possibly-abbreviated ID against the store. It fails
// with ErrNotFound when nothing matches and with an error when the prefix is
// ambiguous.
func FindPrefix(s Store, prefix string) (Record, error) {
	if prefix == "" {
		return Record{}, ErrNotFound
	}
	recs, err := s.List()
	if err != nil {
		return Record{}, err
	}

	var match []Record
	for _, r := range recs {
		if r.ID == prefix {
			return r, nil
		}
		if strings.HasPrefix(r.ID, prefix) {
			match = append(match, r)
		}
	}
	switch len(match) {
	case 0:
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, prefix)
	case 1:
		return match[0], nil
	default:
		return Record{}, fmt.Errorf("id prefix %q matches %d meetings", prefix, len(match))
	}
}

// Total sums cost and duration over recs.
func Total(recs []Record) (cost float64, seconds int64) {
	for _, r := range recs {
		cost += r.Cost
		seconds += r.Duration
	}
	return cost, seconds
}
