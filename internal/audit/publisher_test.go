package audit

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEmitFillsIDAndTimestamp(t *testing.T) {
	p := NewPublisher(discardLogger())

	p.Emit(Event{Action: ActionBallotCast, Actor: "V-1"})

	select {
	case event := <-p.Inbox():
		assert.NotEmpty(t, event.ID)
		assert.False(t, event.Timestamp.IsZero())
		assert.Equal(t, ActionBallotCast, event.Action)
	default:
		t.Fatal("expected a queued event")
	}
}

func TestEmitDropsWhenBufferFull(t *testing.T) {
	p := NewPublisher(discardLogger())

	// Nothing consumes the inbox, so eventually Emit must drop instead of
	// blocking. Overfill by a margin and assert the call returns.
	for i := 0; i < defaultBufferSize+10; i++ {
		p.Emit(Event{Action: ActionBallotCast})
	}
	assert.Len(t, p.Inbox(), defaultBufferSize)
}

func TestWorkerPersistsAndDrains(t *testing.T) {
	store := NewMemoryStore()
	p := NewPublisher(discardLogger())
	w := NewWorker(store, p.Inbox(), discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	for i := 0; i < 5; i++ {
		p.Emit(Event{Action: ActionVoterRegistered})
	}

	require.Eventually(t, func() bool {
		events, err := store.ListRecent(context.Background(), 10)
		return err == nil && len(events) == 5
	}, 2*time.Second, 10*time.Millisecond)

	// Queue more, then cancel: the worker drains before returning.
	p.Emit(Event{Action: ActionBallotCast})
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	events, err := store.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, events, 6)
	assert.Equal(t, ActionBallotCast, events[0].Action, "newest first")
}
