// Package service holds the election business logic: participant and voter
// management, the ballot state transition, and result aggregation. Transport
// concerns stay in the handler package, persistence in the store package.
package service

import (
	"context"
	"log/slog"

	"matadan/internal/audit"
	"matadan/internal/broadcast"
	"matadan/internal/election/store"
	"matadan/internal/platform/metrics"
)

// Broadcaster pushes a result snapshot to connected observers. Delivery is
// best-effort and never fails the triggering request.
type Broadcaster interface {
	Publish(snapshot broadcast.Snapshot)
}

// AuditPublisher queues an audit event without blocking.
type AuditPublisher interface {
	Emit(event audit.Event)
}

// Service implements the election operations over the store bundle.
type Service struct {
	stores      store.Stores
	tx          store.Tx
	broadcaster Broadcaster
	auditor     AuditPublisher
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

func New(
	stores store.Stores,
	tx store.Tx,
	broadcaster Broadcaster,
	auditor AuditPublisher,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		stores:      stores,
		tx:          tx,
		broadcaster: broadcaster,
		auditor:     auditor,
		logger:      logger,
		metrics:     m,
	}
}

// broadcastResults pushes the current standings to the live channel. Errors
// are logged, not returned: the mutation that triggered the broadcast has
// already committed and must not be rolled back for a failed push.
func (s *Service) broadcastResults(ctx context.Context) {
	participants, err := s.stores.Participants.ListByVotes(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "broadcast: list participants", "error", err)
		return
	}
	totalVotes, err := s.stores.Voters.CountVoted(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "broadcast: count votes", "error", err)
		return
	}
	if s.broadcaster != nil {
		s.broadcaster.Publish(broadcast.Snapshot{
			Participants: participants,
			TotalVotes:   totalVotes,
		})
	}
}

func (s *Service) emitAudit(event audit.Event) {
	if s.auditor != nil {
		s.auditor.Emit(event)
	}
}
