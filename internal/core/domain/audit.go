package domain

import (
	"time"

	"github.com/google/uuid"
)

type AuditAction string

const (
	AuditLogin                 AuditAction = "login"
	AuditLogout                AuditAction = "logout"
	AuditVoteCast              AuditAction = "vote_cast"
	AuditElectionCreated       AuditAction = "election_created"
	AuditElectionClosed        AuditAction = "election_closed"
	AuditElectionStatusChanged AuditAction = "election_status_changed"
	AuditRegistrationOpened    AuditAction = "registration_opened"
	AuditRegistrationClosed    AuditAction = "registration_closed"
	AuditUserRegistered        AuditAction = "user_registered"
	AuditRegistrationReviewed  AuditAction = "registration_reviewed"
	AuditCodesGenerated        AuditAction = "codes_generated"
	AuditCandidateUpdated      AuditAction = "candidate_updated"
)

// AuditEntry rows are append-only; they are never mutated or deleted.
// A vote_cast entry records who voted, never what they voted for.
type AuditEntry struct {
	ID        uuid.UUID   `json:"id"`
	Action    AuditAction `json:"action"`
	UserID    *uuid.UUID  `json:"user_id,omitempty"`
	Details   string      `json:"details"`
	IPAddress string      `json:"ip_address,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}
