package domain

import (
	"time"

	"github.com/google/uuid"
)

type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

// VoterRegistration is created by a voter and mutated only by an admin
// review. Registrations are never deleted. VoterCodeID is set only when
// the review approves the registration.
type VoterRegistration struct {
	ID          uuid.UUID    `json:"id"`
	ElectionID  uuid.UUID    `json:"election_id"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	Status      ReviewStatus `json:"status"`
	SubmittedAt time.Time    `json:"submitted_at"`
	ReviewedAt  *time.Time   `json:"reviewed_at,omitempty"`
	ReviewedBy  *uuid.UUID   `json:"reviewed_by,omitempty"`
	VoterCodeID *uuid.UUID   `json:"voter_code_id,omitempty"`
}

// VoterCode is a single-use secret granting ballot access. Codes share one
// global namespace: two elections can never hold the same code value. An
// unbound code (Email empty) comes from bulk generation; a bound one is
// issued on registration approval.
type VoterCode struct {
	ID         uuid.UUID  `json:"id"`
	Code       string     `json:"code"`
	ElectionID uuid.UUID  `json:"election_id"`
	Email      string     `json:"email,omitempty"`
	IsUsed     bool       `json:"is_used"`
	CreatedAt  time.Time  `json:"created_at"`
	UsedAt     *time.Time `json:"used_at,omitempty"`
	CreatedBy  uuid.UUID  `json:"created_by"`
}
