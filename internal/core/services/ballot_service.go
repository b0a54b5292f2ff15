package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/clubvote/internal/core/domain"
	"github.com/vncsmyrnk/clubvote/internal/core/ports"
)

type ballotService struct {
	electionRepo ports.ElectionRepository
	ballotRepo   ports.BallotRepository
	eligibility  ports.EligibilityService
	audit        *AuditService
	logger       *slog.Logger
	now          func() time.Time

	// Serializes check-then-act per (voter, election) so two concurrent
	// casts cannot both pass the has-voted check. The repository's unique
	// constraint on voter records is the backstop.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewBallotService(
	electionRepo ports.ElectionRepository,
	ballotRepo ports.BallotRepository,
	eligibility ports.EligibilityService,
	audit *AuditService,
	logger *slog.Logger,
) ports.BallotService {
	return &ballotService{
		electionRepo: electionRepo,
		ballotRepo:   ballotRepo,
		eligibility:  eligibility,
		audit:        audit,
		logger:       resolveLogger(logger),
		now:          time.Now,
		locks:        make(map[string]*sync.Mutex),
	}
}

// CastVote checks preconditions in a fixed order; the first failure wins.
// On success the vote (choice, no identity) and the voter record (identity,
// no choice) are written as one atomic unit.
func (s *ballotService) CastVote(ctx context.Context, caller domain.Identity, electionID, candidateID uuid.UUID) error {
	if caller.Role != domain.RoleVoter {
		return fmt.Errorf("%w: only voters can cast ballots", domain.ErrPermissionDenied)
	}

	unlock := s.lockFor(caller.ID, electionID)
	defer unlock()

	election, err := s.electionRepo.GetByID(ctx, electionID)
	if err != nil {
		return err
	}
	if election.Status != domain.StatusActive {
		return fmt.Errorf("%w: election is %s", domain.ErrInvalidState, election.Status)
	}
	if !election.HasCandidate(candidateID) {
		return domain.ErrCandidateNotFound
	}

	eligible, err := s.eligibility.IsApprovedVoter(ctx, electionID, caller)
	if err != nil {
		return err
	}
	if !eligible {
		return domain.ErrNotEligible
	}

	voted, err := s.ballotRepo.HasVoted(ctx, electionID, caller.ID)
	if err != nil {
		return err
	}
	if voted {
		return domain.ErrAlreadyVoted
	}

	now := s.now()
	vote := &domain.Vote{
		ID:          uuid.New(),
		ElectionID:  electionID,
		CandidateID: candidateID,
		CreatedAt:   now,
	}
	record := &domain.VoterRecord{
		VoterID:    caller.ID,
		ElectionID: electionID,
		HasVoted:   true,
		CreatedAt:  now,
	}

	if err := s.ballotRepo.SaveBallot(ctx, vote, record); err != nil {
		return err
	}

	// The audit entry pairs identity with the act of voting, never with
	// the choice.
	s.audit.Record(ctx, domain.AuditVoteCast, &caller.ID,
		fmt.Sprintf("ballot cast in election %s", election.ElectionCode))

	return nil
}

func (s *ballotService) HasVoted(ctx context.Context, caller domain.Identity, electionID uuid.UUID) (bool, error) {
	return s.ballotRepo.HasVoted(ctx, electionID, caller.ID)
}

func (s *ballotService) lockFor(voterID, electionID uuid.UUID) func() {
	key := voterID.String() + ":" + electionID.String()

	s.mu.Lock()
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
