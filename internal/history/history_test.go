// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseDate = time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)

func makeRecord(i int) Record {
	return NewRecord(fmt.Sprintf("Standup %d", i), OutcomeDecision, baseDate.Add(time.Duration(i)*time.Hour),
		time.Duration(i+1)*time.Minute, float64(i)*12.5, 4, map[string]int{"SR": 2, "JR": 2})
}

// =============================================================================
// PURE LIST OPERATIONS
// =============================================================================

func TestPrepend_KeepsNewestTen(t *testing.T) {
	var list []Record
	var all []Record
	for i := 0; i < 11; i++ {
		rec := makeRecord(i)
		all = append(all, rec)
		list = Prepend(list, rec, 10)
	}

	require.Len(t, list, 10)
	for i, rec := range list {
		want := all[10-i]
		if diff := cmp.Diff(want, rec); diff != "" {
			t.Errorf("position %d mismatch (-want +got):\n%s", i, diff)
		}
	}
	for _, rec := range list {
		assert.NotEqual(t, all[0].ID, rec.ID, "oldest record should have been dropped")
	}
}

func TestPrepend_DoesNotModifyInput(t *testing.T) {
	a, b := makeRecord(1), makeRecord(2)
	list := []Record{a}
	out := Prepend(list, b, 10)

	assert.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)
	assert.Equal(t, []string{b.ID, a.ID}, []string{out[0].ID, out[1].ID})
}

func TestPrepend_ReplacesSameID(t *testing.T) {
	a, b := makeRecord(1), makeRecord(2)
	list := Prepend(Prepend(nil, a, 10), b, 10)
	list = Prepend(list, a, 10)

	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID)
	assert.Equal(t, b.ID, list[1].ID)
}

func TestPrepend_DefaultLimit(t *testing.T) {
	var list []Record
	for i := 0; i < 15; i++ {
		list = Prepend(list, makeRecord(i), 0)
	}
	assert.Len(t, list, DefaultLimit)
}

func TestNewRecord(t *testing.T) {
	rec := NewRecord("  ", OutcomeNone, baseDate, 90*time.Second+500*time.Millisecond, 12.34, 3, map[string]int{"VP": 0, "SR": 3})

	assert.Equal(t, DefaultName, rec.Name)
	assert.Equal(t, int64(90), rec.Duration)
	assert.Equal(t, map[string]int{"SR": 3}, rec.Roles)
	assert.Len(t, rec.ID, 36)
	assert.NotEqual(t, rec.ID, NewRecord("x", "", baseDate, 0, 0, 0, nil).ID)
	assert.Nil(t, NewRecord("x", "", baseDate, 0, 0, 0, nil).Roles)
}

func TestOutcome(t *testing.T) {
	o, err := ParseOutcome("Action-Items")
	require.NoError(t, err)
	assert.Equal(t, OutcomeActionItems, o)

	_, err = ParseOutcome("maybe")
	assert.Error(t, err)

	seen := map[Outcome]bool{}
	o = OutcomeNone
	for i := 0; i < 5; i++ {
		seen[o] = true
		o = o.Next()
	}
	assert.Equal(t, OutcomeNone, o, "cycle wraps back to empty")
	assert.Len(t, seen, 5)
}

// =============================================================================
// STORES
// =============================================================================

type openFunc func(t *testing.T, dir string) Store

func storeBackends() map[string]openFunc {
	open := func(backend string) openFunc {
		return func(t *testing.T, dir string) Store {
			t.Helper()
			s, err := Open(Config{Backend: backend, Dir: dir})
			require.NoError(t, err)
			return s
		}
	}
	return map[string]openFunc{
		BackendJSON:   open(BackendJSON),
		BackendSQLite: open(BackendSQLite),
	}
}

func TestStore_SaveListBounded(t *testing.T) {
	for name, open := range storeBackends() {
		t.Run(name, func(t *testing.T) {
			s := open(t, t.TempDir())
			defer s.Close()

			var saved []Record
			for i := 0; i < 11; i++ {
				rec := makeRecord(i)
				saved = append(saved, rec)
				require.NoError(t, s.Save(rec))
			}

			list, err := s.List()
			require.NoError(t, err)
			require.Len(t, list, 10)

			want := make([]Record, 0, 10)
			for i := 10; i >= 1; i-- {
				want = append(want, saved[i])
			}
			if diff := cmp.Diff(want, list, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("list mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStore_GetDeleteClear(t *testing.T) {
	for name, open := range storeBackends() {
		t.Run(name, func(t *testing.T) {
			s := open(t, t.TempDir())
			defer s.Close()

			a, b := makeRecord(1), makeRecord(2)
			require.NoError(t, s.Save(a))
			require.NoError(t, s.Save(b))

			got, err := s.Get(a.ID)
			require.NoError(t, err)
			if diff := cmp.Diff(a, got); diff != "" {
				t.Errorf("Get mismatch (-want +got):\n%s", diff)
			}

			_, err = s.Get("missing")
			assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)

			require.NoError(t, s.Delete(a.ID))
			assert.True(t, errors.Is(s.Delete(a.ID), ErrNotFound))

			list, err := s.List()
			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.Equal(t, b.ID, list[0].ID)

			require.NoError(t, s.Clear())
			list, err = s.List()
			require.NoError(t, err)
			assert.Empty(t, list)
		})
	}
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	for name, open := range storeBackends() {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			s := open(t, dir)
			rec := makeRecord(3)
			rec.Roles = nil
			require.NoError(t, s.Save(rec))
			require.NoError(t, s.Close())

			s = open(t, dir)
			defer s.Close()
			got, err := s.Get(rec.ID)
			require.NoError(t, err)
			if diff := cmp.Diff(rec, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("reopened record mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFindPrefix(t *testing.T) {
	s := NewJSONStore(filepath.Join(t.TempDir(), "history.json"), 10)
	rec := makeRecord(1)
	require.NoError(t, s.Save(rec))

	got, err := FindPrefix(s, rec.ID[:8])
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)

	_, err = FindPrefix(s, "zzzz")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestJSONStore_FileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	s := NewJSONStore(path, 10)
	require.NoError(t, s.Save(makeRecord(1)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	for _, key := range []string{`"id"`, `"name"`, `"outcome"`, `"date"`, `"duration"`, `"cost"`, `"attendees"`, `"roles"`} {
		assert.Contains(t, string(data), key)
	}
}

func TestJSONStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := NewJSONStore(path, 10).List()
	assert.Error(t, err)
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(Config{Backend: "postgres", Dir: t.TempDir()})
	assert.Error(t, err)

	_, err = Open(Config{})
	assert.Error(t, err)
}

func TestTotal(t *testing.T) {
	cost, secs := Total([]Record{{Cost: 10, Duration: 60}, {Cost: 2.5, Duration: 30}})
	assert.Equal(t, 12.5, cost)
	assert.Equal(t, int64(90), secs)
}
