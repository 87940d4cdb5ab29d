// Package store persists election entities. Implementations come in an
// in-memory flavour for tests and single-process use, and a PostgreSQL
// flavour for deployment. Stores return sentinel errors; services translate
// them into domain errors.
package store

import (
	"context"
	"time"

	"matadan/internal/election/models"
)

// Stores bundles the election stores that share one transactional scope.
// Tx implementations hand back a bundle bound to the running transaction.
type Stores struct {
	Participants ParticipantStore
	Members      MemberStore
	Voters       VoterStore
}

type ParticipantStore interface {
	// Create persists a new participant, returning sentinel.ErrConflict
	// when the party name is already taken.
	Create(ctx context.Context, p *models.Participant) error
	// List returns all participants, newest first.
	List(ctx context.Context) ([]models.Participant, error)
	// ListByVotes returns all participants sorted by vote count descending.
	ListByVotes(ctx context.Context) ([]models.Participant, error)
	FindByID(ctx context.Context, id string) (*models.Participant, error)
	// Update rewrites the admin-editable fields. Vote counts are not
	// touched; only IncrementVote mutates them.
	Update(ctx context.Context, p *models.Participant) error
	Delete(ctx context.Context, id string) error
	IncrementVote(ctx context.Context, id string) error
}

type MemberStore interface {
	Create(ctx context.Context, m *models.PartyMember) error
	FindByID(ctx context.Context, id string) (*models.PartyMember, error)
	// ListByParticipant returns a party's members ordered by type then
	// position ascending.
	ListByParticipant(ctx context.Context, participantID string) ([]models.PartyMember, error)
	Update(ctx context.Context, m *models.PartyMember) error
	Delete(ctx context.Context, id string) error
	DeleteByParticipant(ctx context.Context, participantID string) error
	IncrementVote(ctx context.Context, id string) error
}

type VoterStore interface {
	// Create persists a new voter, returning sentinel.ErrConflict when the
	// voter ID or citizenship number is already registered.
	Create(ctx context.Context, v *models.Voter) error
	FindByVoterID(ctx context.Context, voterID string) (*models.Voter, error)
	// List returns all voters, newest first.
	List(ctx context.Context) ([]models.Voter, error)
	Count(ctx context.Context) (int, error)
	CountVoted(ctx context.Context) (int, error)
	// MarkVoted flips hasVoted only when it is currently false, recording
	// the party, candidate snapshots, and timestamp in the same write.
	// Returns sentinel.ErrInvalidState when the voter has already voted,
	// closing the check-then-act race between concurrent casts.
	MarkVoted(ctx context.Context, voterID, partyID string, candidates []models.CandidateVote, at time.Time) error
}

// Tx provides a transactional boundary for multi-store ballot mutations.
// Implementations may wrap a database transaction or, in-memory, a coarse
// lock.
type Tx interface {
	RunInTx(ctx context.Context, fn func(s Stores) error) error
}
