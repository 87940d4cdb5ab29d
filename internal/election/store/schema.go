package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema is applied at startup. Idempotent so restarts are safe; real schema
// changes beyond additive ones need a migration tool.
const schema = `
CREATE TABLE IF NOT EXISTS participants (
	id UUID PRIMARY KEY,
	party_name TEXT NOT NULL UNIQUE,
	party_name_nepali TEXT NOT NULL DEFAULT '',
	participant_name TEXT NOT NULL,
	party_symbol TEXT NOT NULL DEFAULT '',
	party_logo TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	vote_count INT NOT NULL DEFAULT 0 CHECK (vote_count >= 0),
	direct_seats INT NOT NULL DEFAULT 0,
	proportional_seats INT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS party_members (
	id UUID PRIMARY KEY,
	participant_id UUID NOT NULL REFERENCES participants(id) ON DELETE CASCADE,
	member_name TEXT NOT NULL,
	member_name_nepali TEXT NOT NULL DEFAULT '',
	position TEXT NOT NULL,
	position_nepali TEXT NOT NULL DEFAULT '',
	ward_number INT NOT NULL DEFAULT 0,
	member_type TEXT NOT NULL CHECK (member_type IN ('direct', 'proportional')),
	vote_count INT NOT NULL DEFAULT 0 CHECK (vote_count >= 0),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS party_members_participant_idx ON party_members (participant_id);

CREATE TABLE IF NOT EXISTS voters (
	id UUID PRIMARY KEY,
	voter_id TEXT NOT NULL UNIQUE,
	voter_name TEXT NOT NULL,
	citizenship_number TEXT NOT NULL UNIQUE,
	has_voted BOOLEAN NOT NULL DEFAULT false,
	voted_for_party UUID,
	voted_for_candidates JSONB NOT NULL DEFAULT '[]',
	voted_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Migrate creates the election tables when they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply election schema: %w", err)
	}
	return nil
}
