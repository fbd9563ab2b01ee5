package relay

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"codesync/pkg/metrics"
)

// Hub is the session relay: it owns the room table and fans inbound events
// out to the other members of the sender's room. The table is process-scoped
// state, created empty at startup and gone at exit. Broadcast is best-effort
// at-most-once with no replay: a participant who joins after an event was
// relayed never receives it.
type Hub struct {
	log *slog.Logger
	bus *RedisBus // nil unless cross-instance fanout is configured
	id  string    // instance tag so bus subscriptions skip our own publishes

	mu    sync.RWMutex
	rooms map[string]*Room // active rooms by session ID
}

// NewHub sets up the relay. bus may be nil for single-instance deployments.
func NewHub(logger *slog.Logger, bus *RedisBus) *Hub {
	return &Hub{log: logger, bus: bus, id: uuid.NewString(), rooms: map[string]*Room{}}
}

// Run forwards bus publications from other instances into local rooms.
// Blocks until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	if h.bus != nil {
		go h.bus.Subscribe(ctx, func(m BusMessage) {
			if m.Origin == h.id {
				return
			}
			h.mu.RLock()
			if rm := h.rooms[m.SessionID]; rm != nil {
				rm.broadcast(nil, m.Frame)
			}
			h.mu.RUnlock()
		})
	}
	<-ctx.Done()
}

// ServeWS handles a new /ws connection. One goroutine reads frames to
// completion in order; writes go through the connection's writeLoop.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ws, err := accept(w, r)
	if err != nil {
		h.log.Error("ws.accept", "err", err)
		return
	}

	c := newConn(ws)
	metrics.Connections.Inc()
	defer metrics.Connections.Dec()

	go c.writeLoop(ctx)

	for {
		raw, ok := c.read(ctx)
		if !ok {
			break
		}
		h.handle(ctx, c, raw)
	}

	// Transport disconnect counts as an implicit leave.
	h.disconnect(ctx, c)
	_ = c.close()
}

// handle dispatches one inbound frame. Invalid frames are dropped here;
// the relay never surfaces an error to the peer.
func (h *Hub) handle(ctx context.Context, c *Conn, raw []byte) {
	t, payload, err := decodeFrame(raw)
	if err != nil {
		h.log.Debug("relay.frame.dropped", "type", t, "err", err)
		return
	}
	metrics.EventsRelayed.WithLabelValues(string(t)).Inc()

	switch p := payload.(type) {
	case *joinSession:
		h.join(ctx, c, p)
	case *leaveSession:
		h.leave(ctx, c, p)
	case *codeChange:
		h.relay(ctx, p.SessionID, c, EvtCodeUpdate, codeUpdate{Code: p.Code, Language: p.Language})
	case *cursorPosition:
		h.relay(ctx, p.SessionID, c, EvtCursorMoved, cursorMoved{Position: p.Position, UserID: p.UserID})
	case *whiteboardChange:
		h.relay(ctx, p.SessionID, c, EvtWhiteboardUpdate, whiteboardUpdate{DrawingData: p.DrawingData})
	case *chatMessage:
		// Every client renders from this single server-stamped echo,
		// the sender included.
		h.relay(ctx, p.SessionID, nil, EvtChatMessage, chatDelivery{
			Message:   p.Message,
			UserID:    p.UserID,
			UserName:  p.UserName,
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		})
	case *timerStart:
		h.relay(ctx, p.SessionID, nil, EvtTimerStarted, timerStarted{
			Duration:  p.Duration,
			StartTime: time.Now().UnixMilli(),
		})
	case *sessionOnly:
		switch t {
		case EvtTimerPause:
			h.relay(ctx, p.SessionID, nil, EvtTimerPaused, timerPaused{PauseTime: time.Now().UnixMilli()})
		case EvtTimerReset:
			h.relay(ctx, p.SessionID, nil, EvtTimerReset, nil)
		case EvtEndSession:
			// Persisting the completed status is the client's separate
			// HTTP call; the relay only announces it.
			h.relay(ctx, p.SessionID, nil, EvtSessionEnded, nil)
			h.log.Info("relay.session.ended", "session", p.SessionID)
		}
	case *changeProblem:
		h.relay(ctx, p.SessionID, c, EvtProblemChanged, problemChanged{Problem: p.Problem})
	}
}

// join adds the connection to the session's room and announces it. A
// connection belongs to at most one room: rejoining a different session
// first evicts it from the old room with full leave semantics.
func (h *Hub) join(ctx context.Context, c *Conn, p *joinSession) {
	h.mu.Lock()
	if c.sessionID != "" && c.sessionID != p.SessionID {
		h.removeLocked(ctx, c, c.sessionID)
	}

	rm := h.rooms[p.SessionID]
	if rm == nil {
		rm = newRoom(p.SessionID)
		h.rooms[p.SessionID] = rm
	}

	c.sessionID, c.userID, c.userName = p.SessionID, p.UserID, p.UserName
	rm.add(c, Participant{UserID: p.UserID, UserName: p.UserName})

	frame := marshalFrame(EvtUserJoined, userJoined{UserID: p.UserID, UserName: p.UserName})
	rm.broadcast(c, frame)
	h.mu.Unlock()

	h.publish(ctx, p.SessionID, frame)
	h.log.Debug("relay.joined", "session", p.SessionID, "user", p.UserID)
}

func (h *Hub) leave(ctx context.Context, c *Conn, p *leaveSession) {
	h.mu.Lock()
	h.removeLocked(ctx, c, p.SessionID)
	h.mu.Unlock()
}

func (h *Hub) disconnect(ctx context.Context, c *Conn) {
	h.mu.Lock()
	if c.sessionID != "" {
		h.removeLocked(ctx, c, c.sessionID)
	}
	h.mu.Unlock()
}

// removeLocked takes the connection out of a room and tells the remaining
// members. No-op for unknown sessions or non-members. Emptied rooms are
// dropped from the table. Caller holds h.mu.
func (h *Hub) removeLocked(ctx context.Context, c *Conn, sessionID string) {
	rm := h.rooms[sessionID]
	if rm == nil {
		return
	}
	p, ok := rm.remove(c)
	if !ok {
		return
	}
	if c.sessionID == sessionID {
		c.sessionID = ""
	}

	frame := marshalFrame(EvtUserLeft, userLeft{UserID: p.UserID})
	rm.broadcast(nil, frame)
	if rm.empty() {
		delete(h.rooms, sessionID)
	}

	go h.publish(ctx, sessionID, frame)
	h.log.Debug("relay.left", "session", sessionID, "user", p.UserID)
}

// relay fans one event into a room. A nil except delivers to everyone,
// sender included. An unknown session is a valid empty room: the broadcast
// silently reaches nobody.
func (h *Hub) relay(ctx context.Context, sessionID string, except *Conn, t EventType, payload any) {
	frame := marshalFrame(t, payload)

	h.mu.RLock()
	if rm := h.rooms[sessionID]; rm != nil {
		rm.broadcast(except, frame)
	}
	h.mu.RUnlock()

	h.publish(ctx, sessionID, frame)
}

func (h *Hub) publish(ctx context.Context, sessionID string, frame []byte) {
	if h.bus == nil {
		return
	}
	// Leave broadcasts happen as the request context dies; the publish
	// must still go out.
	ctx = context.WithoutCancel(ctx)
	if err := h.bus.Publish(ctx, BusMessage{SessionID: sessionID, Origin: h.id, Frame: frame}); err != nil {
		h.log.Warn("relay.bus.publish", "session", sessionID, "err", err)
	}
}
