package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/clubvote/internal/core/domain"
	"github.com/vncsmyrnk/clubvote/internal/core/ports"
)

type resultsService struct {
	electionRepo ports.ElectionRepository
	ballotRepo   ports.BallotRepository
	logger       *slog.Logger
}

func NewResultsService(electionRepo ports.ElectionRepository, ballotRepo ports.BallotRepository, logger *slog.Logger) ports.ResultsService {
	return &resultsService{
		electionRepo: electionRepo,
		ballotRepo:   ballotRepo,
		logger:       resolveLogger(logger),
	}
}

// GetResults returns the tally with every candidate present, zero or not.
// Before an election closes only admins see counts; everyone else gets an
// empty map, deliberately not an error.
func (s *resultsService) GetResults(ctx context.Context, caller domain.Identity, electionID uuid.UUID) (map[uuid.UUID]int64, error) {
	election, err := s.electionRepo.GetByID(ctx, electionID)
	if err != nil {
		return nil, err
	}

	if election.Status != domain.StatusClosed && !caller.IsAdmin() {
		return map[uuid.UUID]int64{}, nil
	}

	counts, err := s.ballotRepo.CountByCandidate(ctx, electionID)
	if err != nil {
		return nil, err
	}

	results := make(map[uuid.UUID]int64, len(election.Candidates))
	for _, candidate := range election.Candidates {
		results[candidate.ID] = counts[candidate.ID]
	}
	return results, nil
}

// Winner picks the strict-max candidate. A shared max, or a max of zero,
// means there is no winner.
func Winner(results map[uuid.UUID]int64) (uuid.UUID, bool) {
	var (
		winner uuid.UUID
		max    int64
		tied   bool
	)
	for candidateID, count := range results {
		switch {
		case count > max:
			winner, max, tied = candidateID, count, false
		case count == max && max > 0:
			tied = true
		}
	}
	if max == 0 || tied {
		return uuid.Nil, false
	}
	return winner, true
}
