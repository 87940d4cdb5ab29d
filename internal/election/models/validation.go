package models

import "strings"

// FieldError describes one failed validation rule.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationErrors collects every failed rule for an entity so callers can
// report them all at once instead of stopping at the first.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Field+": "+fe.Reason)
	}
	return strings.Join(parts, "; ")
}

// ValidateParticipant checks the rules the database also enforces as
// schema constraints, so bad input fails before a round-trip.
func ValidateParticipant(p Participant) ValidationErrors {
	var errs ValidationErrors
	if strings.TrimSpace(p.PartyName) == "" {
		errs = append(errs, FieldError{Field: "partyName", Reason: "required"})
	}
	if strings.TrimSpace(p.ParticipantName) == "" {
		errs = append(errs, FieldError{Field: "participantName", Reason: "required"})
	}
	if p.VoteCount < 0 {
		errs = append(errs, FieldError{Field: "voteCount", Reason: "must not be negative"})
	}
	return errs
}

// ValidatePartyMember checks required fields and the member type enum.
func ValidatePartyMember(m PartyMember) ValidationErrors {
	var errs ValidationErrors
	if strings.TrimSpace(m.ParticipantID) == "" {
		errs = append(errs, FieldError{Field: "participantId", Reason: "required"})
	}
	if strings.TrimSpace(m.MemberName) == "" {
		errs = append(errs, FieldError{Field: "memberName", Reason: "required"})
	}
	if strings.TrimSpace(m.Position) == "" {
		errs = append(errs, FieldError{Field: "position", Reason: "required"})
	}
	if !m.Type.Valid() {
		errs = append(errs, FieldError{Field: "type", Reason: "must be direct or proportional"})
	}
	if m.VoteCount < 0 {
		errs = append(errs, FieldError{Field: "voteCount", Reason: "must not be negative"})
	}
	return errs
}

// ValidateVoter checks the fields required at registration time.
func ValidateVoter(v Voter) ValidationErrors {
	var errs ValidationErrors
	if strings.TrimSpace(v.VoterID) == "" {
		errs = append(errs, FieldError{Field: "voterId", Reason: "required"})
	}
	if strings.TrimSpace(v.VoterName) == "" {
		errs = append(errs, FieldError{Field: "voterName", Reason: "required"})
	}
	if strings.TrimSpace(v.CitizenshipNumber) == "" {
		errs = append(errs, FieldError{Field: "citizenshipNumber", Reason: "required"})
	}
	return errs
}
