package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"matadan/internal/election/models"
	"matadan/pkg/platform/sentinel"
)

// dbtx is satisfied by *sql.DB and *sql.Tx so the same store code serves
// both direct calls and calls inside a ballot transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// isValidID filters malformed UUIDs up front so lookups with garbage ids
// read as not-found instead of a database type error.
func isValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

type PostgresParticipantStore struct {
	db dbtx
}

func NewPostgresParticipantStore(db dbtx) *PostgresParticipantStore {
	return &PostgresParticipantStore{db: db}
}

const participantColumns = `id, party_name, party_name_nepali, participant_name,
	party_symbol, party_logo, description, vote_count, direct_seats,
	proportional_seats, created_at`

func scanParticipant(row interface{ Scan(...any) error }) (*models.Participant, error) {
	var p models.Participant
	err := row.Scan(&p.ID, &p.PartyName, &p.PartyNameNepali, &p.ParticipantName,
		&p.PartySymbol, &p.PartyLogo, &p.Description, &p.VoteCount,
		&p.DirectSeats, &p.ProportionalSeats, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresParticipantStore) Create(ctx context.Context, p *models.Participant) error {
	query := `
		INSERT INTO participants (id, party_name, party_name_nepali, participant_name,
			party_symbol, party_logo, description, vote_count, direct_seats,
			proportional_seats, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.PartyName, p.PartyNameNepali, p.ParticipantName,
		p.PartySymbol, p.PartyLogo, p.Description, p.VoteCount,
		p.DirectSeats, p.ProportionalSeats, p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert participant: %w", err)
	}
	return nil
}

func (s *PostgresParticipantStore) list(ctx context.Context, orderBy string) ([]models.Participant, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+participantColumns+` FROM participants ORDER BY `+orderBy)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()

	out := make([]models.Participant, 0)
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (s *PostgresParticipantStore) List(ctx context.Context) ([]models.Participant, error) {
	return s.list(ctx, "created_at DESC")
}

func (s *PostgresParticipantStore) ListByVotes(ctx context.Context) ([]models.Participant, error) {
	return s.list(ctx, "vote_count DESC, created_at ASC")
}

func (s *PostgresParticipantStore) FindByID(ctx context.Context, id string) (*models.Participant, error) {
	if !isValidID(id) {
		return nil, sentinel.ErrNotFound
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+participantColumns+` FROM participants WHERE id = $1`, id)
	p, err := scanParticipant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find participant: %w", err)
	}
	return p, nil
}

func (s *PostgresParticipantStore) Update(ctx context.Context, p *models.Participant) error {
	query := `
		UPDATE participants
		SET party_name = $2, party_name_nepali = $3, participant_name = $4,
			party_symbol = $5, party_logo = $6, description = $7,
			direct_seats = $8, proportional_seats = $9
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		p.ID, p.PartyName, p.PartyNameNepali, p.ParticipantName,
		p.PartySymbol, p.PartyLogo, p.Description, p.DirectSeats, p.ProportionalSeats)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("update participant: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresParticipantStore) Delete(ctx context.Context, id string) error {
	if !isValidID(id) {
		return sentinel.ErrNotFound
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM participants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete participant: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresParticipantStore) IncrementVote(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE participants SET vote_count = vote_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment participant vote: %w", err)
	}
	return requireRow(res)
}

type PostgresMemberStore struct {
	db dbtx
}

func NewPostgresMemberStore(db dbtx) *PostgresMemberStore {
	return &PostgresMemberStore{db: db}
}

const memberColumns = `id, participant_id, member_name, member_name_nepali,
	position, position_nepali, ward_number, member_type, vote_count, created_at`

func scanMember(row interface{ Scan(...any) error }) (*models.PartyMember, error) {
	var m models.PartyMember
	err := row.Scan(&m.ID, &m.ParticipantID, &m.MemberName, &m.MemberNameNepali,
		&m.Position, &m.PositionNepali, &m.WardNumber, &m.Type, &m.VoteCount, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *PostgresMemberStore) Create(ctx context.Context, m *models.PartyMember) error {
	query := `
		INSERT INTO party_members (id, participant_id, member_name, member_name_nepali,
			position, position_nepali, ward_number, member_type, vote_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(ctx, query,
		m.ID, m.ParticipantID, m.MemberName, m.MemberNameNepali,
		m.Position, m.PositionNepali, m.WardNumber, m.Type, m.VoteCount, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert party member: %w", err)
	}
	return nil
}

func (s *PostgresMemberStore) FindByID(ctx context.Context, id string) (*models.PartyMember, error) {
	if !isValidID(id) {
		return nil, sentinel.ErrNotFound
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+memberColumns+` FROM party_members WHERE id = $1`, id)
	m, err := scanMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find party member: %w", err)
	}
	return m, nil
}

func (s *PostgresMemberStore) ListByParticipant(ctx context.Context, participantID string) ([]models.PartyMember, error) {
	if !isValidID(participantID) {
		return []models.PartyMember{}, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+memberColumns+` FROM party_members WHERE participant_id = $1 ORDER BY member_type ASC, position ASC`,
		participantID)
	if err != nil {
		return nil, fmt.Errorf("list party members: %w", err)
	}
	defer rows.Close()

	out := make([]models.PartyMember, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan party member: %w", err)
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func (s *PostgresMemberStore) Update(ctx context.Context, m *models.PartyMember) error {
	query := `
		UPDATE party_members
		SET member_name = $2, member_name_nepali = $3, position = $4,
			position_nepali = $5, ward_number = $6, member_type = $7
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		m.ID, m.MemberName, m.MemberNameNepali, m.Position,
		m.PositionNepali, m.WardNumber, m.Type)
	if err != nil {
		return fmt.Errorf("update party member: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresMemberStore) Delete(ctx context.Context, id string) error {
	if !isValidID(id) {
		return sentinel.ErrNotFound
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM party_members WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete party member: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresMemberStore) DeleteByParticipant(ctx context.Context, participantID string) error {
	if !isValidID(participantID) {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM party_members WHERE participant_id = $1`, participantID)
	if err != nil {
		return fmt.Errorf("delete members of participant: %w", err)
	}
	return nil
}

func (s *PostgresMemberStore) IncrementVote(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE party_members SET vote_count = vote_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment member vote: %w", err)
	}
	return requireRow(res)
}

type PostgresVoterStore struct {
	db dbtx
}

func NewPostgresVoterStore(db dbtx) *PostgresVoterStore {
	return &PostgresVoterStore{db: db}
}

const voterColumns = `id, voter_id, voter_name, citizenship_number, has_voted,
	voted_for_party, voted_for_candidates, voted_at, created_at`

func scanVoter(row interface{ Scan(...any) error }) (*models.Voter, error) {
	var (
		v          models.Voter
		party      sql.NullString
		candidates []byte
		votedAt    sql.NullTime
	)
	err := row.Scan(&v.ID, &v.VoterID, &v.VoterName, &v.CitizenshipNumber,
		&v.HasVoted, &party, &candidates, &votedAt, &v.CreatedAt)
	if err != nil {
		return nil, err
	}
	if party.Valid {
		v.VotedForParty = party.String
	}
	if votedAt.Valid {
		at := votedAt.Time
		v.VotedAt = &at
	}
	if len(candidates) > 0 {
		if err := json.Unmarshal(candidates, &v.VotedForCandidates); err != nil {
			return nil, fmt.Errorf("decode candidate votes: %w", err)
		}
	}
	return &v, nil
}

func (s *PostgresVoterStore) Create(ctx context.Context, v *models.Voter) error {
	query := `
		INSERT INTO voters (id, voter_id, voter_name, citizenship_number,
			has_voted, voted_for_candidates, created_at)
		VALUES ($1, $2, $3, $4, false, '[]', $5)
	`
	_, err := s.db.ExecContext(ctx, query, v.ID, v.VoterID, v.VoterName, v.CitizenshipNumber, v.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert voter: %w", err)
	}
	return nil
}

func (s *PostgresVoterStore) FindByVoterID(ctx context.Context, voterID string) (*models.Voter, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+voterColumns+` FROM voters WHERE voter_id = $1`, voterID)
	v, err := scanVoter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find voter: %w", err)
	}
	return v, nil
}

func (s *PostgresVoterStore) List(ctx context.Context) ([]models.Voter, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+voterColumns+` FROM voters ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list voters: %w", err)
	}
	defer rows.Close()

	out := make([]models.Voter, 0)
	for rows.Next() {
		v, err := scanVoter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan voter: %w", err)
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

func (s *PostgresVoterStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM voters`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count voters: %w", err)
	}
	return count, nil
}

func (s *PostgresVoterStore) CountVoted(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM voters WHERE has_voted`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count voted voters: %w", err)
	}
	return count, nil
}

func (s *PostgresVoterStore) MarkVoted(ctx context.Context, voterID, partyID string, candidates []models.CandidateVote, at time.Time) error {
	if candidates == nil {
		candidates = []models.CandidateVote{}
	}
	payload, err := json.Marshal(candidates)
	if err != nil {
		return fmt.Errorf("encode candidate votes: %w", err)
	}

	// The has_voted guard makes the transition atomic: of two concurrent
	// casts for the same voter, exactly one update matches.
	query := `
		UPDATE voters
		SET has_voted = true, voted_for_party = $2, voted_for_candidates = $3, voted_at = $4
		WHERE voter_id = $1 AND has_voted = false
	`
	res, err := s.db.ExecContext(ctx, query, voterID, partyID, payload, at)
	if err != nil {
		return fmt.Errorf("mark voter voted: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark voter voted: %w", err)
	}
	if affected == 1 {
		return nil
	}

	var hasVoted bool
	err = s.db.QueryRowContext(ctx, `SELECT has_voted FROM voters WHERE voter_id = $1`, voterID).Scan(&hasVoted)
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("mark voter voted: %w", err)
	}
	return sentinel.ErrInvalidState
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// NewPostgresStores builds the store bundle over a shared database handle.
func NewPostgresStores(db *sql.DB) Stores {
	return Stores{
		Participants: NewPostgresParticipantStore(db),
		Members:      NewPostgresMemberStore(db),
		Voters:       NewPostgresVoterStore(db),
	}
}

const defaultTxTimeout = 5 * time.Second

// PostgresTx runs ballot mutations inside one database transaction so a
// failure between the voter write and the tally writes rolls everything
// back instead of leaving a half-committed ballot.
type PostgresTx struct {
	db      *sql.DB
	timeout time.Duration
}

func NewPostgresTx(db *sql.DB) *PostgresTx {
	return &PostgresTx{db: db}
}

func (t *PostgresTx) RunInTx(ctx context.Context, fn func(s Stores) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	bound := Stores{
		Participants: NewPostgresParticipantStore(tx),
		Members:      NewPostgresMemberStore(tx),
		Voters:       NewPostgresVoterStore(tx),
	}
	if err := fn(bound); err != nil {
		return err
	}
	return tx.Commit()
}
