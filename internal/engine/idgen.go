package engine

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator mints identifiers for new entities.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator produces random version 4 UUIDs in their canonical
// 36-character textual form.
type UUIDGenerator struct{}

// NewID returns a fresh random UUID.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// SequenceGenerator yields "<prefix>-1", "<prefix>-2", ... and is meant for
// tests and seed tooling where reproducible ids matter.
type SequenceGenerator struct {
	Prefix string
	n      atomic.Int64
}

// NewID returns the next id in the sequence.
func (g *SequenceGenerator) NewID() string {
	return fmt.Sprintf("%s-%d", g.Prefix, g.n.Add(1))
}
