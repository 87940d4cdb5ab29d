package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"matadan/internal/audit"
	"matadan/internal/election/models"
	"matadan/internal/election/store"
	"matadan/internal/platform/middleware"
	dErrors "matadan/pkg/domain-errors"
	"matadan/pkg/platform/sentinel"
)

// ParticipantInput carries the admin-editable participant fields.
type ParticipantInput struct {
	PartyName         string
	PartyNameNepali   string
	ParticipantName   string
	PartySymbol       string
	PartyLogo         string
	Description       string
	DirectSeats       int
	ProportionalSeats int
}

func (in ParticipantInput) apply(p *models.Participant) {
	p.PartyName = in.PartyName
	p.PartyNameNepali = in.PartyNameNepali
	p.ParticipantName = in.ParticipantName
	p.PartySymbol = in.PartySymbol
	p.PartyLogo = in.PartyLogo
	p.Description = in.Description
	p.DirectSeats = in.DirectSeats
	p.ProportionalSeats = in.ProportionalSeats
}

// CreateParticipant registers a new party. The party name must be unique.
func (s *Service) CreateParticipant(ctx context.Context, in ParticipantInput) (*models.Participant, error) {
	p := models.Participant{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
	}
	in.apply(&p)

	if verrs := models.ValidateParticipant(p); len(verrs) > 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, verrs.Error())
	}

	if err := s.stores.Participants.Create(ctx, &p); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "party name already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create participant")
	}

	s.emitAudit(audit.Event{
		Action:  audit.ActionParticipantCreated,
		Actor:   middleware.GetAdminUsername(ctx),
		Subject: p.ID,
		Detail:  p.PartyName,
	})
	s.broadcastResults(ctx)
	return &p, nil
}

// ListParticipants returns all parties, newest first.
func (s *Service) ListParticipants(ctx context.Context) ([]models.Participant, error) {
	participants, err := s.stores.Participants.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list participants")
	}
	return participants, nil
}

// GetParticipant fetches one party by id.
func (s *Service) GetParticipant(ctx context.Context, id string) (*models.Participant, error) {
	p, err := s.stores.Participants.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "participant not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to fetch participant")
	}
	return p, nil
}

// UpdateParticipant rewrites the admin-editable fields of a party. The vote
// count is untouchable through this path.
func (s *Service) UpdateParticipant(ctx context.Context, id string, in ParticipantInput) (*models.Participant, error) {
	p, err := s.GetParticipant(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(p)

	if verrs := models.ValidateParticipant(*p); len(verrs) > 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, verrs.Error())
	}

	if err := s.stores.Participants.Update(ctx, p); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrConflict):
			return nil, dErrors.New(dErrors.CodeConflict, "party name already exists")
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "participant not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update participant")
	}

	s.emitAudit(audit.Event{
		Action:  audit.ActionParticipantUpdated,
		Actor:   middleware.GetAdminUsername(ctx),
		Subject: p.ID,
		Detail:  p.PartyName,
	})
	s.broadcastResults(ctx)
	return p, nil
}

// DeleteParticipant removes a party and cascades to its members in the same
// transactional scope.
func (s *Service) DeleteParticipant(ctx context.Context, id string) error {
	err := s.tx.RunInTx(ctx, func(st store.Stores) error {
		if err := st.Members.DeleteByParticipant(ctx, id); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete party members")
		}
		if err := st.Participants.Delete(ctx, id); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "participant not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete participant")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.emitAudit(audit.Event{
		Action:  audit.ActionParticipantDeleted,
		Actor:   middleware.GetAdminUsername(ctx),
		Subject: id,
	})
	s.broadcastResults(ctx)
	return nil
}
