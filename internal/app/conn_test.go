package app

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"wordduel/internal/domain"
)

// fakeConn captures outbound events in place of a real WebSocket client.
type fakeConn struct {
	id string

	mu     sync.Mutex
	events []*domain.GameEvent
	closed bool
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id}
}

func (c *fakeConn) Send(message interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if event, ok := message.(*domain.GameEvent); ok {
		c.events = append(c.events, event)
	}
	return nil
}

func (c *fakeConn) PlayerID() string { return c.id }

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// countType counts the captured events of one type.
func (c *fakeConn) countType(eventType domain.EventType) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, event := range c.events {
		if event.Type == eventType {
			count++
		}
	}
	return count
}

// lastOfType returns the most recent captured event of one type.
func (c *fakeConn) lastOfType(eventType domain.EventType) *domain.GameEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.events) - 1; i >= 0; i-- {
		if c.events[i].Type == eventType {
			return c.events[i]
		}
	}
	return nil
}

// waitForEvent blocks until an event of the given type has been delivered.
// Delivery runs on the room's event loop goroutine, so tests must wait.
func (c *fakeConn) waitForEvent(t *testing.T, eventType domain.EventType) *domain.GameEvent {
	t.Helper()
	require.Eventually(t, func() bool {
		return c.countType(eventType) > 0
	}, 2*time.Second, 5*time.Millisecond, "expected event %q", eventType)
	return c.lastOfType(eventType)
}

// waitForEventCount blocks until at least n events of the given type
// arrived.
func (c *fakeConn) waitForEventCount(t *testing.T, eventType domain.EventType, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return c.countType(eventType) >= n
	}, 2*time.Second, 5*time.Millisecond, "expected %d events %q", n, eventType)
}
