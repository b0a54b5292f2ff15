package domain

import (
	"time"

	"github.com/google/uuid"
)

// Vote deliberately carries no voter identity. The link between a person
// and their ballot exists nowhere in the data model once the vote is cast.
type Vote struct {
	ID          uuid.UUID `json:"id"`
	ElectionID  uuid.UUID `json:"election_id"`
	CandidateID uuid.UUID `json:"candidate_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// VoterRecord is the proof-of-participation row: identity, no choice. Its
// existence is the sole authority for "has this person voted", enforced
// unique per (voter, election) at the storage layer.
type VoterRecord struct {
	VoterID    uuid.UUID `json:"voter_id"`
	ElectionID uuid.UUID `json:"election_id"`
	HasVoted   bool      `json:"has_voted"`
	CreatedAt  time.Time `json:"created_at"`
}
