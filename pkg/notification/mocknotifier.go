package notification

import (
	"log/slog"
	"sync"
)

// MockNotifier records notifications instead of delivering them. Used in
// tests and by the quick-start entrypoint.
type MockNotifier struct {
	mu   sync.Mutex
	sent []Notification

	// FailWith, when set, is returned from every Send call.
	FailWith error
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) Send(notification Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWith != nil {
		return m.FailWith
	}
	slog.Info("Mock notification", "to", notification.To, "subject", notification.Subject)
	m.sent = append(m.sent, notification)
	return nil
}

// Sent returns a copy of everything sent so far.
func (m *MockNotifier) Sent() []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Notification, len(m.sent))
	copy(out, m.sent)
	return out
}
