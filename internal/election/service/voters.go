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

// VoterInput carries the fields required to register a voter.
type VoterInput struct {
	VoterID           string
	VoterName         string
	CitizenshipNumber string
}

// RegisterVoter adds a voter to the roll. Voter ID and citizenship number
// must both be unique.
func (s *Service) RegisterVoter(ctx context.Context, in VoterInput) (*models.Voter, error) {
	v := models.Voter{
		ID:                uuid.NewString(),
		VoterID:           in.VoterID,
		VoterName:         in.VoterName,
		CitizenshipNumber: in.CitizenshipNumber,
		CreatedAt:         time.Now(),
	}

	if verrs := models.ValidateVoter(v); len(verrs) > 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, verrs.Error())
	}

	if err := s.stores.Voters.Create(ctx, &v); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "voter ID or citizenship number already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register voter")
	}

	s.emitAudit(audit.Event{
		Action:  audit.ActionVoterRegistered,
		Actor:   middleware.GetAdminUsername(ctx),
		Subject: v.VoterID,
	})
	return &v, nil
}

// VoterStatus is a voter together with their resolved party vote. Party is
// nil when the voter has not voted, or when the party was deleted after the
// ballot was cast.
type VoterStatus struct {
	Voter models.Voter        `json:"voter"`
	Party *models.Participant `json:"party,omitempty"`
}

// CheckVoter fetches a voter by their public voter ID and resolves the vote
// references for display.
func (s *Service) CheckVoter(ctx context.Context, voterID string) (*VoterStatus, error) {
	v, err := s.stores.Voters.FindByVoterID(ctx, voterID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "voter not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to fetch voter")
	}

	status := VoterStatus{Voter: *v}
	if v.VotedForParty != "" {
		party, err := s.stores.Participants.FindByID(ctx, v.VotedForParty)
		switch {
		case err == nil:
			status.Party = party
		case errors.Is(err, sentinel.ErrNotFound):
			// Referential validity holds at cast time only; the party may
			// have been deleted since.
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve voted party")
		}
	}
	return &status, nil
}

// ListVoters returns the full roll, newest first.
func (s *Service) ListVoters(ctx context.Context) ([]models.Voter, error) {
	voters, err := s.stores.Voters.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list voters")
	}
	return voters, nil
}
