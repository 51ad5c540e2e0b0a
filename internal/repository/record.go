package repository

import (
	"context"

	"github.com/stemsi/coeval-backend/internal/store"
)

// listBy reads every record of table where field = value and decodes it.
func listBy[T any](ctx context.Context, s store.RecordStore, table store.Table, field string, value any) ([]T, error) {
	recs, err := s.Read(ctx, table, field, value)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(recs))
	if err := store.Decode(recs, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// getByID returns the single record with the given id or store.ErrNotFound.
func getByID[T any](ctx context.Context, s store.RecordStore, table store.Table, id string) (*T, error) {
	items, err := listBy[T](ctx, s, table, "id", id)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, store.ErrNotFound
	}
	return &items[0], nil
}

// insert converts v to a record and writes it.
func insert(ctx context.Context, s store.RecordStore, table store.Table, v any) error {
	rec, err := store.ToRecord(v)
	if err != nil {
		return err
	}
	return s.Insert(ctx, table, rec)
}
