package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"matadan/internal/election/models"
	"matadan/pkg/platform/sentinel"
)

// In-memory stores keep tests and single-process development lightweight.
// They intentionally favor clarity over performance.

type memParticipant struct {
	p   models.Participant
	seq int
}

type MemoryParticipantStore struct {
	mu      sync.RWMutex
	byID    map[string]*memParticipant
	nextSeq int
}

func NewMemoryParticipantStore() *MemoryParticipantStore {
	return &MemoryParticipantStore{byID: make(map[string]*memParticipant)}
}

func (s *MemoryParticipantStore) Create(_ context.Context, p *models.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byID {
		if existing.p.PartyName == p.PartyName {
			return sentinel.ErrConflict
		}
	}
	s.nextSeq++
	cp := *p
	s.byID[p.ID] = &memParticipant{p: cp, seq: s.nextSeq}
	return nil
}

func (s *MemoryParticipantStore) List(_ context.Context) ([]models.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := s.snapshot()
	sort.Slice(records, func(i, j int) bool { return records[i].seq > records[j].seq })
	return unwrapParticipants(records), nil
}

func (s *MemoryParticipantStore) ListByVotes(_ context.Context) ([]models.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := s.snapshot()
	sort.Slice(records, func(i, j int) bool {
		if records[i].p.VoteCount != records[j].p.VoteCount {
			return records[i].p.VoteCount > records[j].p.VoteCount
		}
		return records[i].seq < records[j].seq
	})
	return unwrapParticipants(records), nil
}

func (s *MemoryParticipantStore) FindByID(_ context.Context, id string) (*models.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := rec.p
	return &cp, nil
}

func (s *MemoryParticipantStore) Update(_ context.Context, p *models.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.byID[p.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	for id, existing := range s.byID {
		if id != p.ID && existing.p.PartyName == p.PartyName {
			return sentinel.ErrConflict
		}
	}
	rec.p.PartyName = p.PartyName
	rec.p.PartyNameNepali = p.PartyNameNepali
	rec.p.ParticipantName = p.ParticipantName
	rec.p.PartySymbol = p.PartySymbol
	rec.p.PartyLogo = p.PartyLogo
	rec.p.Description = p.Description
	rec.p.DirectSeats = p.DirectSeats
	rec.p.ProportionalSeats = p.ProportionalSeats
	return nil
}

func (s *MemoryParticipantStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

func (s *MemoryParticipantStore) IncrementVote(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.byID[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	rec.p.VoteCount++
	return nil
}

func (s *MemoryParticipantStore) snapshot() []*memParticipant {
	records := make([]*memParticipant, 0, len(s.byID))
	for _, rec := range s.byID {
		cp := *rec
		records = append(records, &cp)
	}
	return records
}

func unwrapParticipants(records []*memParticipant) []models.Participant {
	out := make([]models.Participant, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.p)
	}
	return out
}

type MemoryMemberStore struct {
	mu   sync.RWMutex
	byID map[string]*models.PartyMember
}

func NewMemoryMemberStore() *MemoryMemberStore {
	return &MemoryMemberStore{byID: make(map[string]*models.PartyMember)}
}

func (s *MemoryMemberStore) Create(_ context.Context, m *models.PartyMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *m
	s.byID[m.ID] = &cp
	return nil
}

func (s *MemoryMemberStore) FindByID(_ context.Context, id string) (*models.PartyMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *MemoryMemberStore) ListByParticipant(_ context.Context, participantID string) ([]models.PartyMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.PartyMember, 0)
	for _, m := range s.byID {
		if m.ParticipantID == participantID {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].Position < out[j].Position
	})
	return out, nil
}

func (s *MemoryMemberStore) Update(_ context.Context, m *models.PartyMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.byID[m.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	existing.MemberName = m.MemberName
	existing.MemberNameNepali = m.MemberNameNepali
	existing.Position = m.Position
	existing.PositionNepali = m.PositionNepali
	existing.WardNumber = m.WardNumber
	existing.Type = m.Type
	return nil
}

func (s *MemoryMemberStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

func (s *MemoryMemberStore) DeleteByParticipant(_ context.Context, participantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, m := range s.byID {
		if m.ParticipantID == participantID {
			delete(s.byID, id)
		}
	}
	return nil
}

func (s *MemoryMemberStore) IncrementVote(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.byID[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	m.VoteCount++
	return nil
}

type memVoter struct {
	v   models.Voter
	seq int
}

type MemoryVoterStore struct {
	mu        sync.RWMutex
	byVoterID map[string]*memVoter
	nextSeq   int
}

func NewMemoryVoterStore() *MemoryVoterStore {
	return &MemoryVoterStore{byVoterID: make(map[string]*memVoter)}
}

func (s *MemoryVoterStore) Create(_ context.Context, v *models.Voter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byVoterID[v.VoterID]; ok {
		return sentinel.ErrConflict
	}
	for _, existing := range s.byVoterID {
		if existing.v.CitizenshipNumber == v.CitizenshipNumber {
			return sentinel.ErrConflict
		}
	}
	s.nextSeq++
	cp := *v
	cp.VotedForCandidates = append([]models.CandidateVote(nil), v.VotedForCandidates...)
	s.byVoterID[v.VoterID] = &memVoter{v: cp, seq: s.nextSeq}
	return nil
}

func (s *MemoryVoterStore) FindByVoterID(_ context.Context, voterID string) (*models.Voter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byVoterID[voterID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := rec.v
	cp.VotedForCandidates = append([]models.CandidateVote(nil), rec.v.VotedForCandidates...)
	return &cp, nil
}

func (s *MemoryVoterStore) List(_ context.Context) ([]models.Voter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]*memVoter, 0, len(s.byVoterID))
	for _, rec := range s.byVoterID {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].seq > records[j].seq })
	out := make([]models.Voter, 0, len(records))
	for _, rec := range records {
		cp := rec.v
		cp.VotedForCandidates = append([]models.CandidateVote(nil), rec.v.VotedForCandidates...)
		out = append(out, cp)
	}
	return out, nil
}

func (s *MemoryVoterStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byVoterID), nil
}

func (s *MemoryVoterStore) CountVoted(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, rec := range s.byVoterID {
		if rec.v.HasVoted {
			count++
		}
	}
	return count, nil
}

func (s *MemoryVoterStore) MarkVoted(_ context.Context, voterID, partyID string, candidates []models.CandidateVote, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.byVoterID[voterID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if rec.v.HasVoted {
		return sentinel.ErrInvalidState
	}
	rec.v.HasVoted = true
	rec.v.VotedForParty = partyID
	rec.v.VotedForCandidates = append([]models.CandidateVote(nil), candidates...)
	votedAt := at
	rec.v.VotedAt = &votedAt
	return nil
}

// NewMemoryStores builds a bundle of in-memory stores.
func NewMemoryStores() Stores {
	return Stores{
		Participants: NewMemoryParticipantStore(),
		Members:      NewMemoryMemberStore(),
		Voters:       NewMemoryVoterStore(),
	}
}

// MemoryTx serializes ballot mutations with a coarse lock. There is no
// rollback: a failure mid-ballot can leave candidate tallies incremented,
// which the single-process development mode accepts. The conditional
// MarkVoted still guarantees at most one successful cast per voter.
type MemoryTx struct {
	mu     sync.Mutex
	stores Stores
}

func NewMemoryTx(stores Stores) *MemoryTx {
	return &MemoryTx{stores: stores}
}

func (t *MemoryTx) RunInTx(ctx context.Context, fn func(s Stores) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(t.stores)
}
