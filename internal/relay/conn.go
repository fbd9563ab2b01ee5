package relay

import (
	"context"
	"net/http"
	"time"

	"codesync/pkg/metrics"
	"nhooyr.io/websocket"
)

// Conn wraps one client websocket. Delivery is best-effort, at-most-once:
// frames queue on a bounded channel and are dropped when the peer can't
// keep up.
type Conn struct {
	ws  *websocket.Conn
	out chan []byte

	// Membership fields, guarded by the hub mutex.
	sessionID string
	userID    string
	userName  string
}

// accept upgrades HTTP to websocket (allow all origins)
func accept(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns:  []string{"*"},
		CompressionMode: websocket.CompressionDisabled,
	})
}

func newConn(ws *websocket.Conn) *Conn {
	return &Conn{
		ws:  ws,
		out: make(chan []byte, 256),
	}
}

// read blocks until it receives a text/binary message.
// Returns false if the connection is closed.
func (c *Conn) read(ctx context.Context) ([]byte, bool) {
	for {
		typ, data, err := c.ws.Read(ctx)
		if err != nil {
			return nil, false
		}
		if typ == websocket.MessageText || typ == websocket.MessageBinary {
			return data, true
		}
	}
}

// send queues a frame without blocking. Returns false if the buffer is
// full and the frame was dropped.
func (c *Conn) send(b []byte) bool {
	select {
	case c.out <- b:
		return true
	default:
		metrics.FramesDropped.Inc()
		return false
	}
}

// writeLoop sends outbound frames + periodic pings.
// Exits when ctx is cancelled.
func (c *Conn) writeLoop(ctx context.Context) {
	t := time.NewTicker(20 * time.Second)
	defer t.Stop()

	for {
		select {
		case b := <-c.out:
			_ = c.ws.Write(ctx, websocket.MessageText, b)
		case <-t.C:
			_ = c.ws.Ping(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// close closes the websocket normally
func (c *Conn) close() error { return c.ws.Close(websocket.StatusNormalClosure, "bye") }
