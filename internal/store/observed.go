package store

import (
	"context"
	"time"
)

// Observer is notified after every store call.
type Observer interface {
	ObserveStoreCall(table Table, op string, err error, elapsed time.Duration)
}

// Observed wraps a RecordStore and reports every call to obs.
type Observed struct {
	next RecordStore
	obs  Observer
}

// NewObserved creates an Observed store.
func NewObserved(next RecordStore, obs Observer) *Observed {
	return &Observed{next: next, obs: obs}
}

func (o *Observed) Read(ctx context.Context, table Table, field string, value any) ([]Record, error) {
	start := time.Now()
	recs, err := o.next.Read(ctx, table, field, value)
	o.obs.ObserveStoreCall(table, "read", err, time.Since(start))
	return recs, err
}

func (o *Observed) Insert(ctx context.Context, table Table, records ...Record) error {
	start := time.Now()
	err := o.next.Insert(ctx, table, records...)
	o.obs.ObserveStoreCall(table, "insert", err, time.Since(start))
	return err
}

func (o *Observed) Update(ctx context.Context, table Table, idColumn string, idValue any, fields Record) error {
	start := time.Now()
	err := o.next.Update(ctx, table, idColumn, idValue, fields)
	o.obs.ObserveStoreCall(table, "update", err, time.Since(start))
	return err
}

func (o *Observed) Delete(ctx context.Context, table Table, idColumn string, idValue any) error {
	start := time.Now()
	err := o.next.Delete(ctx, table, idColumn, idValue)
	o.obs.ObserveStoreCall(table, "delete", err, time.Since(start))
	return err
}
