package factory

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/nightshift/internal/dependencies/mocks"
	"github.com/mcoot/nightshift/internal/services/moderation"
	"github.com/mcoot/nightshift/internal/services/profile"
	"github.com/mcoot/nightshift/internal/storage"
	"github.com/mcoot/nightshift/internal/storage/memory"
	"github.com/mcoot/nightshift/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock   *mocks.MockClock
	MockRandom  *mocks.MockRandom
	MemoryStore *memory.Storage
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	backend := memory.New()
	app := NewTestAppWithStorage(backend)
	app.MemoryStore = backend
	return app
}

// NewTestAppWithStorage wires a test app over an existing backend, so tests
// can simulate a restart against the same data
func NewTestAppWithStorage(backend storage.Storage) *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app, err := newWithDependencies(backend, mockClock, mockRandom, dependencyConfig{
		moderation: moderation.DefaultConfig(),
		profile:    profile.Config{BcryptCost: bcrypt.MinCost},
	}, testutil.NopLogger())
	if err != nil {
		// embedded schemas are fixed at build time
		panic(err)
	}

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
