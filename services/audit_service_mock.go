package services

import "sync"

// AuditEvent is one recorded call captured by the mock logger
type AuditEvent struct {
	ActorID uint
	Action  string
	Detail  string
	IP      string
}

// MockAuditLogger is an in-memory AuditLogger for tests
type MockAuditLogger struct {
	mu     sync.Mutex
	events []AuditEvent
}

// NewMockAuditLogger creates a new mock audit logger
func NewMockAuditLogger() *MockAuditLogger {
	return &MockAuditLogger{}
}

// SetAsMockForTesting sets this mock as the global audit logger instance for testing
func (m *MockAuditLogger) SetAsMockForTesting() {
	SetAuditLogger(m)
}

// Record captures the event in memory
func (m *MockAuditLogger) Record(actorID uint, action, detail, ip string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, AuditEvent{ActorID: actorID, Action: action, Detail: detail, IP: ip})
}

// Events returns a copy of all recorded events (for testing assertions)
func (m *MockAuditLogger) Events() []AuditEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]AuditEvent, len(m.events))
	copy(out, m.events)
	return out
}

// EventsByAction returns recorded events matching an action
func (m *MockAuditLogger) EventsByAction(action string) []AuditEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []AuditEvent
	for _, e := range m.events {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

// Clear removes all recorded events
func (m *MockAuditLogger) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}
