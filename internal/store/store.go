package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a lookup by id or an update by key
	// matched nothing.
	ErrNotFound = errors.New("record not found")
	// ErrUnauthorized is returned when the backend rejected the credential
	// even after one refresh.
	ErrUnauthorized = errors.New("record store unauthorized")
	// ErrConflict is returned when a write violates a uniqueness rule.
	ErrConflict = errors.New("record conflict")
	// ErrUnknownTable / ErrUnknownColumn guard identifiers reaching SQL.
	ErrUnknownTable  = errors.New("unknown table")
	ErrUnknownColumn = errors.New("unknown column")
)

// RemoteError is any other non-success answer from the backend. Status is
// zero when the request never got an answer; Err then holds the cause.
type RemoteError struct {
	Status  int
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	switch {
	case e.Status == 0 && e.Err != nil:
		return fmt.Sprintf("record store error: %s: %v", e.Message, e.Err)
	case e.Message == "":
		return fmt.Sprintf("record store error: status %d", e.Status)
	default:
		return fmt.Sprintf("record store error: status %d: %s", e.Status, e.Message)
	}
}

func (e *RemoteError) Unwrap() error { return e.Err }

// Record is one row keyed by column name.
type Record map[string]any

// RecordStore is the generic CRUD collaborator every repository goes through.
type RecordStore interface {
	// Read returns every record of table whose field equals value. An empty
	// field returns the whole table.
	Read(ctx context.Context, table Table, field string, value any) ([]Record, error)
	Insert(ctx context.Context, table Table, records ...Record) error
	Update(ctx context.Context, table Table, idColumn string, idValue any, fields Record) error
	Delete(ctx context.Context, table Table, idColumn string, idValue any) error
}

// ToRecord converts a JSON-tagged struct to a Record.
func ToRecord(v any) (Record, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	return rec, nil
}

// Decode converts records into dst, usually a pointer to a slice of models.
func Decode(records []Record, dst any) error {
	b, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("decode records: %w", err)
	}
	return nil
}
