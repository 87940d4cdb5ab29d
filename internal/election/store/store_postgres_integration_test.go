//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"matadan/internal/election/models"
	"matadan/pkg/platform/sentinel"
	"matadan/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg     *containers.PostgresContainer
	stores Stores
	tx     *PostgresTx
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.Require().NoError(Migrate(context.Background(), s.pg.DB))
	s.stores = NewPostgresStores(s.pg.DB)
	s.tx = NewPostgresTx(s.pg.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	_, err := s.pg.DB.ExecContext(context.Background(),
		`TRUNCATE participants, party_members, voters CASCADE`)
	s.Require().NoError(err)
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) newParticipant(name string) *models.Participant {
	p := &models.Participant{
		ID:              uuid.NewString(),
		PartyName:       name,
		ParticipantName: name + " Leader",
		CreatedAt:       time.Now(),
	}
	s.Require().NoError(s.stores.Participants.Create(context.Background(), p))
	return p
}

func (s *PostgresStoreSuite) newVoter(voterID, citizenship string) *models.Voter {
	v := &models.Voter{
		ID:                uuid.NewString(),
		VoterID:           voterID,
		VoterName:         "Voter " + voterID,
		CitizenshipNumber: citizenship,
		CreatedAt:         time.Now(),
	}
	s.Require().NoError(s.stores.Voters.Create(context.Background(), v))
	return v
}

func (s *PostgresStoreSuite) TestParticipantCRUD() {
	ctx := context.Background()
	p := s.newParticipant("Red Party")

	s.Run("duplicate name conflicts", func() {
		dup := &models.Participant{
			ID:              uuid.NewString(),
			PartyName:       "Red Party",
			ParticipantName: "Other",
			CreatedAt:       time.Now(),
		}
		s.ErrorIs(s.stores.Participants.Create(ctx, dup), sentinel.ErrConflict)
	})

	s.Run("find and update round-trip", func() {
		got, err := s.stores.Participants.FindByID(ctx, p.ID)
		s.Require().NoError(err)
		s.Equal("Red Party", got.PartyName)

		got.Description = "updated"
		s.Require().NoError(s.stores.Participants.Update(ctx, got))

		again, err := s.stores.Participants.FindByID(ctx, p.ID)
		s.Require().NoError(err)
		s.Equal("updated", again.Description)
	})

	s.Run("garbage id reads as not found", func() {
		_, err := s.stores.Participants.FindByID(ctx, "not-a-uuid")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("increment vote bumps the tally", func() {
		s.Require().NoError(s.stores.Participants.IncrementVote(ctx, p.ID))
		got, err := s.stores.Participants.FindByID(ctx, p.ID)
		s.Require().NoError(err)
		s.Equal(1, got.VoteCount)
	})
}

func (s *PostgresStoreSuite) TestMemberCascade() {
	ctx := context.Background()
	p := s.newParticipant("Cascade Party")
	m := &models.PartyMember{
		ID:            uuid.NewString(),
		ParticipantID: p.ID,
		MemberName:    "Candidate",
		Position:      "Mayor",
		Type:          models.MemberTypeDirect,
		CreatedAt:     time.Now(),
	}
	s.Require().NoError(s.stores.Members.Create(ctx, m))

	s.Require().NoError(s.stores.Members.DeleteByParticipant(ctx, p.ID))
	s.Require().NoError(s.stores.Participants.Delete(ctx, p.ID))

	_, err := s.stores.Members.FindByID(ctx, m.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestVoterUniquenessAndMarkVoted() {
	ctx := context.Background()
	p := s.newParticipant("Ballot Party")
	s.newVoter("V-1", "C-1")

	s.Run("duplicate voter id conflicts", func() {
		dup := &models.Voter{
			ID:                uuid.NewString(),
			VoterID:           "V-1",
			VoterName:         "Dup",
			CitizenshipNumber: "C-2",
			CreatedAt:         time.Now(),
		}
		s.ErrorIs(s.stores.Voters.Create(ctx, dup), sentinel.ErrConflict)
	})

	s.Run("duplicate citizenship number conflicts", func() {
		dup := &models.Voter{
			ID:                uuid.NewString(),
			VoterID:           "V-2",
			VoterName:         "Dup",
			CitizenshipNumber: "C-1",
			CreatedAt:         time.Now(),
		}
		s.ErrorIs(s.stores.Voters.Create(ctx, dup), sentinel.ErrConflict)
	})

	s.Run("mark voted persists the ballot snapshot", func() {
		candidates := []models.CandidateVote{{MemberID: uuid.NewString(), Position: "Mayor", MemberName: "A"}}
		s.Require().NoError(s.stores.Voters.MarkVoted(ctx, "V-1", p.ID, candidates, time.Now()))

		v, err := s.stores.Voters.FindByVoterID(ctx, "V-1")
		s.Require().NoError(err)
		s.True(v.HasVoted)
		s.Equal(p.ID, v.VotedForParty)
		s.Equal(candidates, v.VotedForCandidates)
		s.NotNil(v.VotedAt)
	})

	s.Run("second mark is an invalid state", func() {
		err := s.stores.Voters.MarkVoted(ctx, "V-1", p.ID, nil, time.Now())
		s.ErrorIs(err, sentinel.ErrInvalidState)
	})

	s.Run("unknown voter is not found", func() {
		err := s.stores.Voters.MarkVoted(ctx, "ghost", p.ID, nil, time.Now())
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *PostgresStoreSuite) TestRunInTxRollsBack() {
	ctx := context.Background()
	p := s.newParticipant("Tx Party")
	s.newVoter("V-9", "C-9")

	err := s.tx.RunInTx(ctx, func(st Stores) error {
		if err := st.Participants.IncrementVote(ctx, p.ID); err != nil {
			return err
		}
		if err := st.Voters.MarkVoted(ctx, "V-9", p.ID, nil, time.Now()); err != nil {
			return err
		}
		return context.Canceled
	})
	s.Require().Error(err)

	got, err := s.stores.Participants.FindByID(ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(0, got.VoteCount, "aborted transaction must leave no trace")

	v, err := s.stores.Voters.FindByVoterID(ctx, "V-9")
	s.Require().NoError(err)
	s.False(v.HasVoted)
}
