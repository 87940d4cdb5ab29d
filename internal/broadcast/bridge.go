package broadcast

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	platformredis "matadan/internal/platform/redis"
)

// channelName is the Redis pub/sub channel shared by all instances.
const channelName = "matadan:results"

// bridgeMessage wraps a snapshot with its origin so an instance ignores its
// own republished messages.
type bridgeMessage struct {
	Origin   string   `json:"origin"`
	Snapshot Snapshot `json:"snapshot"`
}

// Bridge fans snapshots out across instances through Redis pub/sub. Each
// Publish reaches local subscribers directly and remote instances through
// the channel. Publish failures are logged, never propagated: the mutation
// that triggered the broadcast has already committed.
type Bridge struct {
	hub      *Hub
	client   *platformredis.Client
	logger   *slog.Logger
	instance string
}

func NewBridge(hub *Hub, client *platformredis.Client, logger *slog.Logger) *Bridge {
	return &Bridge{
		hub:      hub,
		client:   client,
		logger:   logger,
		instance: uuid.NewString(),
	}
}

// Publish delivers locally and relays to other instances.
func (b *Bridge) Publish(snapshot Snapshot) {
	b.hub.Publish(snapshot)

	payload, err := json.Marshal(bridgeMessage{Origin: b.instance, Snapshot: snapshot})
	if err != nil {
		b.logger.Error("encode bridge message", "error", err)
		return
	}
	if err := b.client.Publish(context.Background(), channelName, payload).Err(); err != nil {
		b.logger.Error("relay snapshot to redis", "error", err)
	}
}

// Run consumes the channel and republishes remote snapshots to the local
// hub until the context is cancelled.
func (b *Bridge) Run(ctx context.Context) error {
	sub := b.client.Subscribe(ctx, channelName)
	defer func() { _ = sub.Close() }()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, open := <-ch:
			if !open {
				return nil
			}
			var bm bridgeMessage
			if err := json.Unmarshal([]byte(msg.Payload), &bm); err != nil {
				b.logger.Warn("discard malformed bridge message", "error", err)
				continue
			}
			if bm.Origin == b.instance {
				continue
			}
			b.hub.Publish(bm.Snapshot)
		}
	}
}
