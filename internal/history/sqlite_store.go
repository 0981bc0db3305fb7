// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS meetings (
	seq       INTEGER PRIMARY KEY AUTOINCREMENT,
	id        TEXT NOT NULL UNIQUE,
	name      TEXT NOT NULL,
	outcome   TEXT NOT NULL DEFAULT '',
	date      TEXT NOT NULL,
	duration  INTEGER NOT NULL,
	cost      REAL NOT NULL,
	attendees INTEGER NOT NULL,
	roles     TEXT NOT NULL DEFAULT ''
);
`

// SQLiteStore keeps meetings in a SQLite table. Insertion order, not the
// meeting date, decides what "newest" means.
type SQLiteStore struct {
	db    *sql.DB
	limit int
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string, limit int) (*SQLiteStore, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db, limit: limit}, nil
}

// List implements Store.
func (s *SQLiteStore) List() ([]Record, error) {
	rows, err := s.db.Query(`
		SELECT id, name, outcome, date, duration, cost, attendees, roles
		FROM meetings ORDER BY seq DESC LIMIT ?`, s.limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query meetings: %w", err)
	}
	defer rows.Close()

	list := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read meetings: %w", err)
	}
	return list, nil
}

// Save implements Store. Saving an existing ID moves it to the head.
func (s *SQLiteStore) Save(rec Record) error {
	roles, err := encodeRoles(rec.Roles)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT OR REPLACE INTO meetings (id, name, outcome, date, duration, cost, attendees, roles)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, string(rec.Outcome), rec.Date.UTC().Format(time.RFC3339Nano),
		rec.Duration, rec.Cost, rec.Attendees, roles)
	if err != nil {
		return fmt.Errorf("failed to insert meeting: %w", err)
	}

	_, err = tx.Exec(`
		DELETE FROM meetings
		WHERE seq NOT IN (SELECT seq FROM meetings ORDER BY seq DESC LIMIT ?)`, s.limit)
	if err != nil {
		return fmt.Errorf("failed to prune meetings: %w", err)
	}

	return tx.Commit()
}

// Get implements Store.
func (s *SQLiteStore) Get(id string) (Record, error) {
	row := s.db.QueryRow(`
		SELECT id, name, outcome, date, duration, cost, attendees, roles
		FROM meetings WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, err
}

// Delete implements Store.
func (s *SQLiteStore) Delete(id string) error {
	res, err := s.db.Exec("DELETE FROM meetings WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete meeting: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Clear implements Store.
func (s *SQLiteStore) Clear() error {
	if _, err := s.db.Exec("DELETE FROM meetings"); err != nil {
		return fmt.Errorf("failed to clear meetings: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (Record, error) {
	var (
		rec     Record
		outcome string
		date    string
		roles   string
	)
	err := sc.Scan(&rec.ID, &rec.Name, &outcome, &date, &rec.Duration, &rec.Cost, &rec.Attendees, &roles)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("failed to scan meeting: %w", err)
	}

	rec.Outcome = Outcome(outcome)
	rec.Date, err = time.Parse(time.RFC3339Nano, date)
	if err != nil {
		return Record{}, fmt.Errorf("bad date for meeting %s: %w", rec.ID, err)
	}
	if roles != "" {
		if err := json.Unmarshal([]byte(roles), &rec.Roles); err != nil {
			return Record{}, fmt.Errorf("bad roles for meeting %s: %w", rec.ID, err)
		}
	}
	return rec, nil
}

func encodeRoles(roles map[string]int) (string, error) {
	if len(roles) == 0 {
		return "", nil
	}
	data, err := json.Marshal(roles)
	if err != nil {
		return "", fmt.Errorf("failed to encode roles: %w", err)
	}
	return string(data), nil
}
