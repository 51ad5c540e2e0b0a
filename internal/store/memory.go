package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// uniqueKeys mirrors the unique indexes of the SQL schema.
var uniqueKeys = map[Table][][]string{
	TableCourses:         {{"id"}, {"registration_code"}},
	TableCategories:      {{"id"}},
	TableGroups:          {{"id"}},
	TableActivities:      {{"id"}},
	TableAssessments:     {{"id"}},
	TablePeerEvaluations: {{"id"}, {"assessment_id", "evaluator_id", "evaluatee_id"}},
}

// MemoryStore is an in-process RecordStore used for development and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[Table][]Record
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[Table][]Record)}
}

func (s *MemoryStore) Read(_ context.Context, table Table, field string, value any) ([]Record, error) {
	if _, err := Columns(table); err != nil {
		return nil, err
	}
	if field != "" {
		if err := checkColumn(table, field); err != nil {
			return nil, err
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Record{}
	want := scalar(value)
	for _, rec := range s.tables[table] {
		if field == "" || scalar(rec[field]) == want {
			c, err := clone(rec)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", table, err)
			}
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *MemoryStore) Insert(_ context.Context, table Table, records ...Record) error {
	normalized := make([]Record, 0, len(records))
	for _, rec := range records {
		if _, err := knownFields(table, rec); err != nil {
			return err
		}
		c, err := clone(rec)
		if err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
		normalized = append(normalized, c)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.tables[table]
	for _, rec := range normalized {
		if s.violates(table, rows, rec, -1) {
			return fmt.Errorf("insert %s: %w", table, ErrConflict)
		}
		rows = append(rows, rec)
	}
	s.tables[table] = rows
	return nil
}

func (s *MemoryStore) Update(_ context.Context, table Table, idColumn string, idValue any, fields Record) error {
	if err := checkColumn(table, idColumn); err != nil {
		return err
	}
	if _, err := knownFields(table, fields); err != nil {
		return err
	}
	patch, err := clone(fields)
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.tables[table]
	want := scalar(idValue)
	matched := false
	for i, rec := range rows {
		if scalar(rec[idColumn]) != want {
			continue
		}
		next, err := clone(rec)
		if err != nil {
			return fmt.Errorf("update %s: %w", table, err)
		}
		for k, v := range patch {
			next[k] = v
		}
		if s.violates(table, rows, next, i) {
			return fmt.Errorf("update %s: %w", table, ErrConflict)
		}
		rows[i] = next
		matched = true
	}
	if !matched {
		return ErrNotFound
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, table Table, idColumn string, idValue any) error {
	if err := checkColumn(table, idColumn); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.tables[table]
	want := scalar(idValue)
	kept := rows[:0]
	for _, rec := range rows {
		if scalar(rec[idColumn]) != want {
			kept = append(kept, rec)
		}
	}
	if len(kept) == len(rows) {
		return ErrNotFound
	}
	s.tables[table] = kept
	return nil
}

func (s *MemoryStore) violates(table Table, rows []Record, rec Record, skip int) bool {
	for _, key := range uniqueKeys[table] {
		k := compositeKey(rec, key)
		if k == "" {
			continue
		}
		for i, other := range rows {
			if i != skip && compositeKey(other, key) == k {
				return true
			}
		}
	}
	return false
}

func compositeKey(rec Record, cols []string) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		v, ok := rec[c]
		if !ok || v == nil {
			return ""
		}
		parts[i] = scalar(v)
	}
	return strings.Join(parts, "\x00")
}

func scalar(v any) string {
	return fmt.Sprint(v)
}

// clone deep-copies a record through JSON so stored values have the same
// shapes a network round trip would produce.
func clone(rec Record) (Record, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	out := Record{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return out, nil
}
