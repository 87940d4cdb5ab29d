// Package audit records who did what. Events flow through a buffered
// channel to a background worker so request handling never waits on the
// audit store.
package audit

import "time"

// Actions recorded on the audit trail.
const (
	ActionAdminLogin         = "admin.login"
	ActionAdminLoginFailed   = "admin.login_failed"
	ActionPasswordChanged    = "admin.password_changed"
	ActionParticipantCreated = "participant.created"
	ActionParticipantUpdated = "participant.updated"
	ActionParticipantDeleted = "participant.deleted"
	ActionMemberCreated      = "member.created"
	ActionMemberUpdated      = "member.updated"
	ActionMemberDeleted      = "member.deleted"
	ActionVoterRegistered    = "voter.registered"
	ActionBallotCast         = "ballot.cast"
)

// Event is one audit trail entry. Actor is the admin username for admin
// actions and the voter id for ballot casts.
type Event struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Actor     string    `json:"actor,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	ClientIP  string    `json:"clientIp,omitempty"`
	Device    string    `json:"device,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
