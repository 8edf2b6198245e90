package session

import (
	"fmt"

	"github.com/google/uuid"
)

// IDGenerator hands out message ids. Each id must sort strictly after the
// previous one.
type IDGenerator interface {
	NewID() MessageID
}

const maxIDAttempts = 4

// uuidGenerator issues UUIDv7 strings. uuid.NewV7 is already monotonic within
// a process; the check against last covers clock steps backwards.
type uuidGenerator struct {
	newV7 func() (uuid.UUID, error)
	last  uuid.UUID
	has   bool
}

// NewUUIDGenerator returns the default id generator.
func NewUUIDGenerator() IDGenerator {
	return &uuidGenerator{newV7: uuid.NewV7}
}

func (g *uuidGenerator) NewID() MessageID {
	for i := 0; i < maxIDAttempts; i++ {
		u, err := g.newV7()
		if err != nil {
			continue
		}
		if !g.has || u.String() > g.last.String() {
			g.last, g.has = u, true
			return MessageID(u.String())
		}
	}
	// Still behind: step past the last id in its random bits.
	g.last = successor(g.last)
	g.has = true
	return MessageID(g.last.String())
}

// successor increments the 62 random bits of a v7 UUID (rand_b), leaving
// the version and variant bits alone. On overflow it carries into rand_a.
func successor(u uuid.UUID) uuid.UUID {
	for i := 15; i >= 9; i-- {
		u[i]++
		if u[i] != 0 {
			return u
		}
	}
	u[8] = (u[8] & 0xc0) | ((u[8] + 1) & 0x3f)
	if u[8]&0x3f != 0 {
		return u
	}
	u[7]++
	if u[7] == 0 {
		u[6] = (u[6] & 0xf0) | ((u[6] + 1) & 0x0f)
	}
	return u
}

// sequenceGenerator issues ids like "m-00000000000000000001". The counter
// is zero-padded to the full width of a uint64 so ids sort in issue order.
type sequenceGenerator struct {
	prefix string
	n      uint64
}

// NewSequenceGenerator returns a deterministic generator for tests and
// scripted runs.
func NewSequenceGenerator(prefix string) IDGenerator {
	return &sequenceGenerator{prefix: prefix}
}

func (g *sequenceGenerator) NewID() MessageID {
	g.n++
	return MessageID(fmt.Sprintf("%s-%020d", g.prefix, g.n))
}
