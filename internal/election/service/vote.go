package service

import (
	"context"
	"errors"
	"time"

	"matadan/internal/audit"
	"matadan/internal/election/models"
	"matadan/internal/election/store"
	dErrors "matadan/pkg/domain-errors"
	"matadan/pkg/platform/sentinel"
)

// BallotResult returns the post-cast state of the voter and party.
type BallotResult struct {
	Voter       models.Voter       `json:"voter"`
	Participant models.Participant `json:"participant"`
}

// CastBallot commits one voter's complete vote: the party vote plus any
// direct candidate votes. A voter transitions from not-voted to voted at
// most once; the store-level conditional update enforces this even under
// concurrent casts. All writes for one ballot share a transactional scope,
// so a rejected ballot leaves no trace.
//
// Candidate ids that do not resolve are skipped rather than failing the
// ballot, which is what the existing web clients expect; each skip is
// logged.
func (s *Service) CastBallot(ctx context.Context, voterID, partyID string, candidateIDs []string) (*BallotResult, error) {
	if voterID == "" || partyID == "" {
		s.metrics.RecordBallotRejected("validation")
		return nil, dErrors.New(dErrors.CodeBadRequest, "voter ID and participant ID are required")
	}

	var result BallotResult
	err := s.tx.RunInTx(ctx, func(st store.Stores) error {
		voter, err := st.Voters.FindByVoterID(ctx, voterID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "voter not registered")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to fetch voter")
		}
		if voter.HasVoted {
			return dErrors.New(dErrors.CodeForbidden, "you have already voted; each voter can vote only once")
		}

		party, err := st.Participants.FindByID(ctx, partyID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "participant not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to fetch participant")
		}

		candidates := make([]models.CandidateVote, 0, len(candidateIDs))
		for _, candidateID := range candidateIDs {
			member, err := st.Members.FindByID(ctx, candidateID)
			if err != nil {
				if errors.Is(err, sentinel.ErrNotFound) {
					s.logger.WarnContext(ctx, "skipping unknown candidate id",
						"candidate_id", candidateID,
						"voter_id", voterID,
					)
					continue
				}
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to fetch candidate")
			}
			if err := st.Members.IncrementVote(ctx, member.ID); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to count candidate vote")
			}
			candidates = append(candidates, models.CandidateVote{
				MemberID:   member.ID,
				Position:   member.Position,
				MemberName: member.MemberName,
			})
		}

		now := time.Now()
		if err := st.Voters.MarkVoted(ctx, voterID, party.ID, candidates, now); err != nil {
			switch {
			case errors.Is(err, sentinel.ErrInvalidState):
				// A concurrent cast won the conditional update.
				return dErrors.New(dErrors.CodeForbidden, "you have already voted; each voter can vote only once")
			case errors.Is(err, sentinel.ErrNotFound):
				return dErrors.New(dErrors.CodeNotFound, "voter not registered")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record vote")
		}

		if err := st.Participants.IncrementVote(ctx, party.ID); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to count party vote")
		}

		voter.HasVoted = true
		voter.VotedForParty = party.ID
		voter.VotedForCandidates = candidates
		voter.VotedAt = &now
		party.VoteCount++

		result = BallotResult{Voter: *voter, Participant: *party}
		return nil
	})
	if err != nil {
		s.recordRejection(err)
		return nil, err
	}

	s.metrics.RecordBallotCast()
	s.emitAudit(audit.Event{
		Action:  audit.ActionBallotCast,
		Actor:   voterID,
		Subject: result.Participant.ID,
	})
	s.broadcastResults(ctx)
	return &result, nil
}

func (s *Service) recordRejection(err error) {
	switch {
	case dErrors.HasCode(err, dErrors.CodeForbidden):
		s.metrics.RecordBallotRejected("already_voted")
	case dErrors.HasCode(err, dErrors.CodeNotFound):
		s.metrics.RecordBallotRejected("not_found")
	case dErrors.HasCode(err, dErrors.CodeBadRequest):
		s.metrics.RecordBallotRejected("validation")
	default:
		s.metrics.RecordBallotRejected("internal")
	}
}
