// Package ids hands out identifiers for entities kept by the in-memory engine.
package ids

import "sync/atomic"

// Generator produces positive, strictly increasing identifiers. It is safe for
// concurrent use. Values are not persisted and restart from 1 with the process.
type Generator struct {
	last atomic.Int64
}

// NewGenerator returns a generator whose first identifier is 1.
func NewGenerator() *Generator {
	return &Generator{}
}

// Next returns an identifier that has not been returned before.
func (g *Generator) Next() int64 {
	return g.last.Add(1)
}
