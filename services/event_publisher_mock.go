package services

import "sync"

// PublishedEvent is one captured event for test assertions
type PublishedEvent struct {
	Kind    string // "created" or "status_changed"
	OrderID uint
	Code    string
	From    string
	To      string
}

// MockEventPublisher is an in-memory EventPublisher for tests
type MockEventPublisher struct {
	mu     sync.Mutex
	events []PublishedEvent
}

// NewMockEventPublisher creates a new mock event publisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// SetAsMockForTesting sets this mock as the global event publisher for testing
func (m *MockEventPublisher) SetAsMockForTesting() {
	SetEventPublisher(m)
}

// OrderCreated captures a creation event
func (m *MockEventPublisher) OrderCreated(orderID uint, code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, PublishedEvent{Kind: "created", OrderID: orderID, Code: code})
}

// OrderStatusChanged captures a status change event
func (m *MockEventPublisher) OrderStatusChanged(orderID uint, from, to string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, PublishedEvent{Kind: "status_changed", OrderID: orderID, From: from, To: to})
}

// Events returns a copy of all captured events
func (m *MockEventPublisher) Events() []PublishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PublishedEvent, len(m.events))
	copy(out, m.events)
	return out
}

// Clear removes all captured events
func (m *MockEventPublisher) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}
