package idgen

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// Generator produces identifiers for stored documents and requests
type Generator interface {
	// ULID returns a lexicographically sortable ID for the given time
	ULID(t time.Time) string

	// UUID returns a random v4 UUID
	UUID() string
}

// Default generates ULIDs from a monotonic crypto-random source
type Default struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// New creates a new Default generator
func New() *Default {
	return &Default{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// ULID returns a ULID for t; IDs generated within the same millisecond
// still sort in creation order.
func (g *Default) ULID(t time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), g.entropy).String()
}

// UUID returns a random UUID string
func (g *Default) UUID() string {
	return uuid.NewString()
}
