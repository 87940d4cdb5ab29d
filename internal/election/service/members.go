package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"matadan/internal/audit"
	"matadan/internal/election/models"
	"matadan/internal/platform/middleware"
	dErrors "matadan/pkg/domain-errors"
	"matadan/pkg/platform/sentinel"
)

// MemberInput carries the admin-editable candidate fields.
type MemberInput struct {
	ParticipantID    string
	MemberName       string
	MemberNameNepali string
	Position         string
	PositionNepali   string
	WardNumber       int
	Type             string
}

func (in MemberInput) apply(m *models.PartyMember) {
	m.MemberName = in.MemberName
	m.MemberNameNepali = in.MemberNameNepali
	m.Position = in.Position
	m.PositionNepali = in.PositionNepali
	m.WardNumber = in.WardNumber
	m.Type = models.MemberType(in.Type)
}

// CreateMember adds a candidate to an existing party.
func (s *Service) CreateMember(ctx context.Context, in MemberInput) (*models.PartyMember, error) {
	m := models.PartyMember{
		ID:            uuid.NewString(),
		ParticipantID: in.ParticipantID,
		CreatedAt:     time.Now(),
	}
	in.apply(&m)

	if verrs := models.ValidatePartyMember(m); len(verrs) > 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, verrs.Error())
	}

	// The owning party must exist; members never outlive their party.
	if _, err := s.GetParticipant(ctx, m.ParticipantID); err != nil {
		return nil, err
	}

	if err := s.stores.Members.Create(ctx, &m); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create party member")
	}

	s.emitAudit(audit.Event{
		Action:  audit.ActionMemberCreated,
		Actor:   middleware.GetAdminUsername(ctx),
		Subject: m.ID,
		Detail:  m.MemberName,
	})
	return &m, nil
}

// ListMembers returns a party's candidates ordered by type then position.
func (s *Service) ListMembers(ctx context.Context, participantID string) ([]models.PartyMember, error) {
	members, err := s.stores.Members.ListByParticipant(ctx, participantID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list party members")
	}
	return members, nil
}

// UpdateMember rewrites the admin-editable fields of a candidate. The vote
// count is untouchable through this path.
func (s *Service) UpdateMember(ctx context.Context, id string, in MemberInput) (*models.PartyMember, error) {
	m, err := s.stores.Members.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "party member not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to fetch party member")
	}
	in.apply(m)

	if verrs := models.ValidatePartyMember(*m); len(verrs) > 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, verrs.Error())
	}

	if err := s.stores.Members.Update(ctx, m); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "party member not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update party member")
	}

	s.emitAudit(audit.Event{
		Action:  audit.ActionMemberUpdated,
		Actor:   middleware.GetAdminUsername(ctx),
		Subject: m.ID,
		Detail:  m.MemberName,
	})
	return m, nil
}

// DeleteMember removes a candidate.
func (s *Service) DeleteMember(ctx context.Context, id string) error {
	if err := s.stores.Members.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "party member not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete party member")
	}

	s.emitAudit(audit.Event{
		Action:  audit.ActionMemberDeleted,
		Actor:   middleware.GetAdminUsername(ctx),
		Subject: id,
	})
	return nil
}
