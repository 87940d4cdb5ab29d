package audit

import (
	"context"
	"log/slog"
)

// Worker consumes events from the publisher and persists them. Store
// failures are logged and the worker keeps going; losing one audit entry is
// better than losing the trail.
type Worker struct {
	store  Store
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(store Store, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{store: store, inbox: inbox, logger: logger}
}

// Run processes events until the context is cancelled. It drains whatever
// is already buffered before returning so shutdown does not discard events.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return ctx.Err()
		case event := <-w.inbox:
			w.append(ctx, event)
		}
	}
}

func (w *Worker) append(ctx context.Context, event Event) {
	if err := w.store.Append(context.WithoutCancel(ctx), event); err != nil {
		w.logger.Error("append audit event", "error", err, "action", event.Action)
	}
}

func (w *Worker) drain() {
	for {
		select {
		case event := <-w.inbox:
			w.append(context.Background(), event)
		default:
			return
		}
	}
}
