package broadcast

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub() *Hub {
	return NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
}

func TestHubDeliversToSubscribers(t *testing.T) {
	hub := newTestHub()

	ch1, cancel1 := hub.Subscribe()
	defer cancel1()
	ch2, cancel2 := hub.Subscribe()
	defer cancel2()

	require.Equal(t, 2, hub.SubscriberCount())

	hub.Publish(Snapshot{TotalVotes: 7})

	for _, ch := range []<-chan Snapshot{ch1, ch2} {
		select {
		case got := <-ch:
			assert.Equal(t, 7, got.TotalVotes)
		default:
			t.Fatal("expected a buffered snapshot")
		}
	}
}

func TestHubCancelRemovesSubscriber(t *testing.T) {
	hub := newTestHub()

	ch, cancel := hub.Subscribe()
	cancel()
	assert.Equal(t, 0, hub.SubscriberCount())

	_, open := <-ch
	assert.False(t, open, "cancel must close the channel")

	// A second cancel is a no-op.
	cancel()
}

func TestHubDropsWhenSubscriberLags(t *testing.T) {
	hub := newTestHub()

	ch, cancel := hub.Subscribe()
	defer cancel()

	// Fill the buffer and then some; extra publishes must not block.
	for i := 0; i < subscriberBuffer+5; i++ {
		hub.Publish(Snapshot{TotalVotes: i})
	}

	received := 0
drain:
	for {
		select {
		case <-ch:
			received++
		default:
			break drain
		}
	}
	assert.Equal(t, subscriberBuffer, received, "lagging subscriber keeps only the buffered snapshots")
}
