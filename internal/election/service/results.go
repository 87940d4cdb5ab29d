package service

import (
	"context"
	"fmt"

	"matadan/internal/election/models"
	dErrors "matadan/pkg/domain-errors"
)

// Results is the current leaderboard, derived entirely from store state.
type Results struct {
	Participants          []models.Participant `json:"participants"`
	TotalVotes            int                  `json:"totalVotes"`
	TotalRegisteredVoters int                  `json:"totalRegisteredVoters"`
	TurnoutPercentage     string               `json:"turnoutPercentage"`
}

// Results computes the ranked tallies and turnout. Turnout is formatted
// with two decimals; an empty roll yields "0" rather than a division error.
func (s *Service) Results(ctx context.Context) (*Results, error) {
	participants, err := s.stores.Participants.ListByVotes(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list participants")
	}
	totalVotes, err := s.stores.Voters.CountVoted(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count votes")
	}
	totalRegistered, err := s.stores.Voters.Count(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count voters")
	}

	turnout := "0"
	if totalRegistered > 0 {
		turnout = fmt.Sprintf("%.2f", float64(totalVotes)/float64(totalRegistered)*100)
	}

	return &Results{
		Participants:          participants,
		TotalVotes:            totalVotes,
		TotalRegisteredVoters: totalRegistered,
		TurnoutPercentage:     turnout,
	}, nil
}
