package mocks

import (
	"fmt"
	"sync"

	"github.com/mcoot/nightshift/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing.
// Queued values are returned first; once exhausted, IDs fall back to
// a deterministic counter so generated ids stay unique.
type MockRandom struct {
	mu sync.Mutex

	stringResults []string
	idResults     []string
	idCounter     int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// String returns the next queued result, or empty string if none remaining
func (r *MockRandom) String(length int, alphabet string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.stringResults) == 0 {
		return ""
	}
	result := r.stringResults[0]
	r.stringResults = r.stringResults[1:]
	return result
}

// ID returns the next queued id, or id-000001, id-000002, ...
func (r *MockRandom) ID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.idResults) > 0 {
		result := r.idResults[0]
		r.idResults = r.idResults[1:]
		return result
	}
	r.idCounter++
	return fmt.Sprintf("id-%06d", r.idCounter)
}

// QueueString adds values to the String result queue
func (r *MockRandom) QueueString(values ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stringResults = append(r.stringResults, values...)
}

// QueueID adds values to the ID result queue
func (r *MockRandom) QueueID(values ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.idResults = append(r.idResults, values...)
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stringResults = nil
	r.idResults = nil
	r.idCounter = 0
}
