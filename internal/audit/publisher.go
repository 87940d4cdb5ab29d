package audit

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Publisher hands events to the worker through a buffered channel. Emit
// never blocks: when the buffer is full the event is dropped and logged,
// because no request should stall on the audit trail.
type Publisher struct {
	inbox  chan Event
	logger *slog.Logger
}

const defaultBufferSize = 256

func NewPublisher(logger *slog.Logger) *Publisher {
	return &Publisher{
		inbox:  make(chan Event, defaultBufferSize),
		logger: logger,
	}
}

// Inbox exposes the channel the worker consumes.
func (p *Publisher) Inbox() <-chan Event { return p.inbox }

// Emit queues an event, filling in ID and timestamp when absent.
func (p *Publisher) Emit(event Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	select {
	case p.inbox <- event:
	default:
		p.logger.Warn("audit buffer full, event dropped", "action", event.Action)
	}
}
