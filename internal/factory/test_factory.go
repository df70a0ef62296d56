package factory

import (
	"time"

	"gocloud.dev/blob/memblob"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/staffapi/internal/dependencies/mocks"
	"github.com/mcoot/staffapi/internal/services/users"
	"github.com/mcoot/staffapi/internal/storage/avatars"
	"github.com/mcoot/staffapi/internal/storage/memory"
	"github.com/mcoot/staffapi/internal/testutil"
)

// TestJWTSecret signs tokens in a TestApp
const TestJWTSecret = "test-secret"

// TestBaseURL prefixes the links a TestApp hands out
const TestBaseURL = "http://localhost:8000"

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	MockIDs    *mocks.MockIDGenerator
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	avatarStore := avatars.NewWithBucket(memblob.OpenBucket(nil))
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	mockIDs := mocks.NewMockIDGenerator()

	app := newWithDependencies(store, avatarStore, mockClock, mockRandom, mockIDs, TestJWTSecret, users.Config{
		PublicBaseURL: TestBaseURL,
		BcryptCost:    bcrypt.MinCost,
	}, testutil.NopLogger())
	app.closers = append(app.closers, avatarStore)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		MockIDs:    mockIDs,
	}
}

// LoadEmployees seeds the directory from a JSON file
func (t *TestApp) LoadEmployees(path string) error {
	return t.Directory.LoadFromFile(path)
}
