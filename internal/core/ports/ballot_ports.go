package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/clubvote/internal/core/domain"
)

type BallotRepository interface {
	// SaveBallot writes the vote and the voter record as one atomic unit.
	// Implementations must enforce uniqueness of (voterID, electionID) at
	// write time and return domain.ErrAlreadyVoted on conflict.
	SaveBallot(ctx context.Context, vote *domain.Vote, record *domain.VoterRecord) error
	HasVoted(ctx context.Context, electionID, voterID uuid.UUID) (bool, error)
	CountByCandidate(ctx context.Context, electionID uuid.UUID) (map[uuid.UUID]int64, error)
}

type BallotService interface {
	CastVote(ctx context.Context, caller domain.Identity, electionID, candidateID uuid.UUID) error
	HasVoted(ctx context.Context, caller domain.Identity, electionID uuid.UUID) (bool, error)
}
