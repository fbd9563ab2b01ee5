package relay

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"codesync/internal/app"
)

// BusMessage is one relayed frame crossing instance boundaries. Origin tags
// the publishing hub so it can skip its own messages on the subscribe side.
type BusMessage struct {
	SessionID string `json:"sessionId"`
	Origin    string `json:"origin"`
	Frame     []byte `json:"frame"`
}

// RedisBus mirrors room broadcasts across relay instances. Single-instance
// deployments run without it; the room table itself never leaves the
// process either way.
type RedisBus struct {
	rdb *redis.Client
	log *slog.Logger
}

// NewRedisBus connects to redis and verifies connectivity
func NewRedisBus(ctx context.Context, cfg app.Config, log *slog.Logger) (*RedisBus, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &RedisBus{rdb: rdb, log: log}, nil
}

// Publish sends a message to the redis channel for a session
func (b *RedisBus) Publish(ctx context.Context, m BusMessage) error {
	raw, _ := json.Marshal(m)
	return b.rdb.Publish(ctx, channel(m.SessionID), raw).Err()
}

// Subscribe listens to all session channels and invokes fn for each message
func (b *RedisBus) Subscribe(ctx context.Context, fn func(BusMessage)) {
	pubsub := b.rdb.PSubscribe(ctx, channel("*"))
	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			_ = pubsub.Close()
			return
		case msg := <-ch:
			var bm BusMessage
			if err := json.Unmarshal([]byte(msg.Payload), &bm); err != nil {
				b.log.Warn("relay.bus.decode", "err", err)
				continue
			}
			if bm.SessionID != "" {
				fn(bm)
			}
		}
	}
}

// Close shuts down the redis connection
func (b *RedisBus) Close() { _ = b.rdb.Close() }

// channel namespacing for session pub/sub
func channel(sessionID string) string { return "session:" + sessionID }
