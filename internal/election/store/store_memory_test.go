package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matadan/internal/election/models"
	"matadan/pkg/platform/sentinel"
)

func newVoter(voterID, citizenship string) *models.Voter {
	return &models.Voter{
		ID:                uuid.NewString(),
		VoterID:           voterID,
		VoterName:         "Voter " + voterID,
		CitizenshipNumber: citizenship,
		CreatedAt:         time.Now(),
	}
}

func TestMemoryVoterStoreUniqueness(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryVoterStore()

	require.NoError(t, s.Create(ctx, newVoter("V-1", "C-1")))

	err := s.Create(ctx, newVoter("V-1", "C-2"))
	assert.ErrorIs(t, err, sentinel.ErrConflict, "duplicate voter id must conflict")

	err = s.Create(ctx, newVoter("V-2", "C-1"))
	assert.ErrorIs(t, err, sentinel.ErrConflict, "duplicate citizenship number must conflict")

	require.NoError(t, s.Create(ctx, newVoter("V-2", "C-2")))
}

func TestMemoryVoterStoreMarkVoted(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryVoterStore()
	require.NoError(t, s.Create(ctx, newVoter("V-1", "C-1")))

	now := time.Now()
	candidates := []models.CandidateVote{{MemberID: "m1", Position: "Mayor", MemberName: "A"}}

	require.NoError(t, s.MarkVoted(ctx, "V-1", "party-1", candidates, now))

	v, err := s.FindByVoterID(ctx, "V-1")
	require.NoError(t, err)
	assert.True(t, v.HasVoted)
	assert.Equal(t, "party-1", v.VotedForParty)
	assert.Equal(t, candidates, v.VotedForCandidates)
	require.NotNil(t, v.VotedAt)

	err = s.MarkVoted(ctx, "V-1", "party-2", nil, now)
	assert.ErrorIs(t, err, sentinel.ErrInvalidState, "second mark must fail")

	err = s.MarkVoted(ctx, "ghost", "party-1", nil, now)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

// Concurrent casts for the same voter must produce exactly one success.
func TestMemoryVoterStoreMarkVotedRace(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryVoterStore()
	require.NoError(t, s.Create(ctx, newVoter("V-1", "C-1")))

	const attempts = 32
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- s.MarkVoted(ctx, "V-1", "party-1", nil, time.Now())
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, sentinel.ErrInvalidState)
		}
	}
	assert.Equal(t, 1, successes, "exactly one cast must win")
}

func TestMemoryParticipantStoreOrdering(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryParticipantStore()

	a := &models.Participant{ID: uuid.NewString(), PartyName: "A", ParticipantName: "A"}
	b := &models.Participant{ID: uuid.NewString(), PartyName: "B", ParticipantName: "B"}
	c := &models.Participant{ID: uuid.NewString(), PartyName: "C", ParticipantName: "C"}
	for _, p := range []*models.Participant{a, b, c} {
		require.NoError(t, s.Create(ctx, p))
	}

	listed, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, c.ID, listed[0].ID, "List returns newest first")

	require.NoError(t, s.IncrementVote(ctx, b.ID))
	require.NoError(t, s.IncrementVote(ctx, b.ID))
	require.NoError(t, s.IncrementVote(ctx, c.ID))

	ranked, err := s.ListByVotes(ctx)
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.Equal(t, b.ID, ranked[0].ID)
	assert.Equal(t, c.ID, ranked[1].ID)
	assert.Equal(t, a.ID, ranked[2].ID)
}

func TestMemoryParticipantStoreUniqueName(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryParticipantStore()

	a := &models.Participant{ID: uuid.NewString(), PartyName: "Same", ParticipantName: "A"}
	require.NoError(t, s.Create(ctx, a))

	dup := &models.Participant{ID: uuid.NewString(), PartyName: "Same", ParticipantName: "B"}
	assert.ErrorIs(t, s.Create(ctx, dup), sentinel.ErrConflict)

	b := &models.Participant{ID: uuid.NewString(), PartyName: "Other", ParticipantName: "B"}
	require.NoError(t, s.Create(ctx, b))
	b.PartyName = "Same"
	assert.ErrorIs(t, s.Update(ctx, b), sentinel.ErrConflict, "rename onto a taken name must conflict")
}

func TestMemoryMemberStoreCascade(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryMemberStore()

	partyID := uuid.NewString()
	for _, name := range []string{"One", "Two"} {
		m := &models.PartyMember{
			ID:            uuid.NewString(),
			ParticipantID: partyID,
			MemberName:    name,
			Position:      "Mayor",
			Type:          models.MemberTypeDirect,
		}
		require.NoError(t, s.Create(ctx, m))
	}
	other := &models.PartyMember{
		ID:            uuid.NewString(),
		ParticipantID: uuid.NewString(),
		MemberName:    "Elsewhere",
		Position:      "Mayor",
		Type:          models.MemberTypeDirect,
	}
	require.NoError(t, s.Create(ctx, other))

	require.NoError(t, s.DeleteByParticipant(ctx, partyID))

	members, err := s.ListByParticipant(ctx, partyID)
	require.NoError(t, err)
	assert.Empty(t, members)

	_, err = s.FindByID(ctx, other.ID)
	assert.NoError(t, err, "other parties' members survive the cascade")
}
