// Package models holds the election entities. Vote counts are mutated only
// by the voting engine; admin edits never touch them.
package models

import "time"

// MemberType distinguishes the two representation tracks: direct candidates
// are elected per ward, proportional candidates through the party vote.
type MemberType string

const (
	MemberTypeDirect       MemberType = "direct"
	MemberTypeProportional MemberType = "proportional"
)

// Valid reports whether the member type is one of the declared values.
func (t MemberType) Valid() bool {
	return t == MemberTypeDirect || t == MemberTypeProportional
}

// Participant is a registered political party. PartyName is unique.
type Participant struct {
	ID                string    `json:"id"`
	PartyName         string    `json:"partyName"`
	PartyNameNepali   string    `json:"partyNameNepali,omitempty"`
	ParticipantName   string    `json:"participantName"`
	PartySymbol       string    `json:"partySymbol,omitempty"`
	PartyLogo         string    `json:"partyLogo,omitempty"`
	Description       string    `json:"description,omitempty"`
	VoteCount         int       `json:"voteCount"`
	DirectSeats       int       `json:"directSeats"`
	ProportionalSeats int       `json:"proportionalSeats"`
	CreatedAt         time.Time `json:"createdAt"`
}

// PartyMember is a candidate belonging to exactly one Participant. Deleting
// the participant deletes its members.
type PartyMember struct {
	ID               string     `json:"id"`
	ParticipantID    string     `json:"participantId"`
	MemberName       string     `json:"memberName"`
	MemberNameNepali string     `json:"memberNameNepali,omitempty"`
	Position         string     `json:"position"`
	PositionNepali   string     `json:"positionNepali,omitempty"`
	WardNumber       int        `json:"wardNumber,omitempty"`
	Type             MemberType `json:"type"`
	VoteCount        int        `json:"voteCount"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// CandidateVote is the snapshot stored on a voter for each direct candidate
// they voted for. Name and position are copied at cast time so the record
// survives later candidate edits or deletion.
type CandidateVote struct {
	MemberID   string `json:"memberId"`
	Position   string `json:"position"`
	MemberName string `json:"memberName"`
}

// Voter is a registered voter. VoterID and CitizenshipNumber are unique.
// HasVoted is monotonic: once true it is never reversed, and the voting
// fields become immutable.
type Voter struct {
	ID                 string          `json:"id"`
	VoterID            string          `json:"voterId"`
	VoterName          string          `json:"voterName"`
	CitizenshipNumber  string          `json:"citizenshipNumber"`
	HasVoted           bool            `json:"hasVoted"`
	VotedForParty      string          `json:"votedForParty,omitempty"`
	VotedForCandidates []CandidateVote `json:"votedForCandidates,omitempty"`
	VotedAt            *time.Time      `json:"votedAt,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
}
