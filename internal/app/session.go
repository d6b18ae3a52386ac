package app

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"wordduel/internal/domain"
)

// Room modes, as selected by the create intent.
const (
	ModeClassic = "classic"
	ModeDuello  = "duello"
)

// ClientConn is a connected client as seen from the app layer. The ws
// transport implements it.
type ClientConn interface {
	Send(message interface{}) error
	PlayerID() string
	Close() error
}

// Session is a live room of either variant, as seen by the registry and the
// HTTP surface.
type Session interface {
	Code() string
	Mode() string
	Phase() domain.Phase
	PlayerCount() int
	CreatedAt() time.Time
	CanJoin() bool
	RegisterClient(playerID string, client ClientConn)
	UnregisterClient(playerID string)
	HandleDisconnect(playerID string)
	Close()
}

// room carries the plumbing both variants share: the connected clients and
// the serialized outbound event queue. Events are queued while holding the
// room lock and delivered by a single goroutine, so notifications reach
// clients in the order the state machine produced them.
type room struct {
	code    string
	clients map[string]ClientConn

	clientsMu sync.RWMutex
	events    chan *domain.GameEvent
	done      chan struct{}
	loopDone  chan struct{}
	closeOnce sync.Once
	logger    zerolog.Logger
}

const eventQueueSize = 64

func newRoom(code string, logger zerolog.Logger) *room {
	r := &room{
		code:     code,
		clients:  make(map[string]ClientConn),
		events:   make(chan *domain.GameEvent, eventQueueSize),
		done:     make(chan struct{}),
		loopDone: make(chan struct{}),
		logger:   logger,
	}
	go r.eventLoop()
	return r
}

// Code returns the room code.
func (r *room) Code() string {
	return r.code
}

// RegisterClient attaches a client connection for a player.
func (r *room) RegisterClient(playerID string, client ClientConn) {
	r.clientsMu.Lock()
	defer r.clientsMu.Unlock()
	r.clients[playerID] = client
}

// UnregisterClient removes a client connection.
func (r *room) UnregisterClient(playerID string) {
	r.clientsMu.Lock()
	defer r.clientsMu.Unlock()
	delete(r.clients, playerID)
}

// queueEvent adds an event to the outbound queue.
func (r *room) queueEvent(event *domain.GameEvent) {
	select {
	case r.events <- event:
	default:
		r.logger.Warn().Str("type", string(event.Type)).Msg("event queue full, dropping event")
	}
}

// eventLoop delivers queued events until the room closes, then drains
// whatever is still pending so terminal notifications are not lost.
func (r *room) eventLoop() {
	defer close(r.loopDone)
	for {
		select {
		case event := <-r.events:
			r.broadcastEvent(event)
		case <-r.done:
			for {
				select {
				case event := <-r.events:
					r.broadcastEvent(event)
				default:
					return
				}
			}
		}
	}
}

// broadcastEvent sends an event to its target player, or to both when no
// target is set.
func (r *room) broadcastEvent(event *domain.GameEvent) {
	r.clientsMu.RLock()
	defer r.clientsMu.RUnlock()

	if event.PlayerID != "" {
		if client, ok := r.clients[event.PlayerID]; ok {
			if err := client.Send(event); err != nil {
				r.logger.Debug().Err(err).Str("playerID", event.PlayerID).Msg("failed to send to client")
			}
		}
		return
	}

	for playerID, client := range r.clients {
		if err := client.Send(event); err != nil {
			r.logger.Debug().Err(err).Str("playerID", playerID).Msg("failed to send to client")
		}
	}
}

// closeRoom shuts the event loop down and closes all client connections.
// Connections are torn down only after the loop has drained its queue, so
// notifications sent just before removal (opponent disconnected, game over)
// still reach the clients. Safe to call more than once.
func (r *room) closeRoom() {
	r.closeOnce.Do(func() {
		close(r.done)
		<-r.loopDone

		r.clientsMu.Lock()
		for _, client := range r.clients {
			client.Close()
		}
		r.clients = make(map[string]ClientConn)
		r.clientsMu.Unlock()
	})
}

// snapshotGrid copies an attempt list so outbound payloads never alias the
// live grid.
func snapshotGrid(grid []domain.Attempt) []domain.Attempt {
	return append([]domain.Attempt(nil), grid...)
}
