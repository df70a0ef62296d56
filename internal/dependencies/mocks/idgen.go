package mocks

import (
	"fmt"
	"sync"
	"time"

	"github.com/mcoot/staffapi/internal/dependencies/idgen"
)

// MockIDGenerator hands out predictable, increasing IDs
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int
}

// Ensure MockIDGenerator implements Generator
var _ idgen.Generator = (*MockIDGenerator)(nil)

// NewMockIDGenerator creates a new MockIDGenerator
func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

// ULID returns "id-0001", "id-0002", ... so lexical order matches call order
func (g *MockIDGenerator) ULID(_ time.Time) string {
	return fmt.Sprintf("id-%04d", g.next())
}

// UUID returns "user-0001", "user-0002", ...
func (g *MockIDGenerator) UUID() string {
	return fmt.Sprintf("user-%04d", g.next())
}

func (g *MockIDGenerator) next() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return g.counter
}
