package mocks

import (
	"sync"

	"github.com/akehlen/buzzquiz/internal/model"
)

// MockPublisher records published events for assertions in tests
type MockPublisher struct {
	mu     sync.Mutex
	events []model.Event
}

// NewMockPublisher creates a new mock publisher
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// Publish records the event
func (p *MockPublisher) Publish(event model.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

// Events returns a copy of all recorded events
func (p *MockPublisher) Events() []model.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.Event(nil), p.events...)
}

// EventsOfType returns the recorded events with the given type
func (p *MockPublisher) EventsOfType(t model.EventType) []model.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var matched []model.Event
	for _, e := range p.events {
		if e.Type == t {
			matched = append(matched, e)
		}
	}
	return matched
}

// Reset clears all recorded events
func (p *MockPublisher) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}
