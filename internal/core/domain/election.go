package domain

import (
	"time"

	"github.com/google/uuid"
)

type ElectionStatus string

const (
	StatusUpcoming ElectionStatus = "upcoming"
	StatusActive   ElectionStatus = "active"
	StatusClosed   ElectionStatus = "closed"
)

type RegistrationStatus string

const (
	RegistrationOpen   RegistrationStatus = "open"
	RegistrationClosed RegistrationStatus = "closed"
)

// Election status is explicit and admin-driven. It is allowed to disagree
// with the date range; nothing in the core derives status from the clock
// except the separately invoked sync operation.
type Election struct {
	ID                 uuid.UUID          `json:"id"`
	ElectionCode       string             `json:"election_code"`
	Title              string             `json:"title"`
	Description        string             `json:"description,omitempty"`
	StartDate          time.Time          `json:"start_date"`
	EndDate            time.Time          `json:"end_date"`
	Candidates         []Candidate        `json:"candidates"`
	Status             ElectionStatus     `json:"status"`
	RegistrationStatus RegistrationStatus `json:"registration_status"`
	CreatedBy          uuid.UUID          `json:"created_by"`
	CreatedAt          time.Time          `json:"created_at"`
}

type Candidate struct {
	ID          uuid.UUID `json:"id"`
	ElectionID  uuid.UUID `json:"election_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	PhotoURL    string    `json:"photo_url,omitempty"`
}

func (e *Election) HasCandidate(candidateID uuid.UUID) bool {
	for _, c := range e.Candidates {
		if c.ID == candidateID {
			return true
		}
	}
	return false
}
