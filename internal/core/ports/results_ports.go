package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/clubvote/internal/core/domain"
)

type ResultsService interface {
	// GetResults returns candidateID -> count. For a caller without
	// visibility it returns an empty map and no error.
	GetResults(ctx context.Context, caller domain.Identity, electionID uuid.UUID) (map[uuid.UUID]int64, error)
}
