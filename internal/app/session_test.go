package app

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"wordduel/internal/domain"
)

func TestRoomCloseDeliversPendingEvents(t *testing.T) {
	r := newRoom("ROOM", zerolog.Nop())
	conn := newFakeConn("p1")
	r.RegisterClient("p1", conn)

	for i := 0; i < 10; i++ {
		r.queueEvent(domain.NewPlayerEvent(domain.EventLobbyMessage, "ROOM", "p1", fmt.Sprintf("msg %d", i)))
	}
	r.queueEvent(domain.NewPlayerEvent(domain.EventOpponentDisconnected, "ROOM", "p1", "Your opponent left the game."))

	// closeRoom must drain the queue before it tears the clients down, so
	// every queued notification is already delivered when it returns.
	r.closeRoom()

	assert.Equal(t, 10, conn.countType(domain.EventLobbyMessage))
	assert.Equal(t, 1, conn.countType(domain.EventOpponentDisconnected))

	conn.mu.Lock()
	closed := conn.closed
	conn.mu.Unlock()
	assert.True(t, closed, "clients are closed once delivery is done")
}

func TestRoomCloseIsIdempotent(t *testing.T) {
	r := newRoom("ROOM", zerolog.Nop())
	r.RegisterClient("p1", newFakeConn("p1"))

	r.closeRoom()
	r.closeRoom()
}
