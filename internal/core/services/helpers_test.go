package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/clubvote/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/clubvote/internal/core/domain"
	"github.com/vncsmyrnk/clubvote/internal/core/ports"
)

type testEnv struct {
	store       *memory.Store
	audit       *AuditService
	elections   ports.ElectionService
	eligibility ports.EligibilityService
	ballots     ports.BallotService
	results     ports.ResultsService

	admin domain.Identity
	voter domain.Identity
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewStore()
	logger := slog.Default()

	audit := NewAuditService(store.Audit(), logger)
	elections := NewElectionService(store.Elections(), audit, logger)
	eligibility := NewEligibilityService(store.Elections(), store.Registrations(), store.VoterCodes(), audit, logger)
	ballots := NewBallotService(store.Elections(), store.Ballots(), eligibility, audit, logger)
	results := NewResultsService(store.Elections(), store.Ballots(), logger)

	return &testEnv{
		store:       store,
		audit:       audit,
		elections:   elections,
		eligibility: eligibility,
		ballots:     ballots,
		results:     results,
		admin:       domain.Identity{ID: uuid.New(), Email: "admin@club.org", Role: domain.RoleAdmin},
		voter:       domain.Identity{ID: uuid.New(), Email: "x@y.com", Role: domain.RoleVoter},
	}
}

// createElection makes an upcoming election with two candidates.
func (e *testEnv) createElection(t *testing.T) *domain.Election {
	t.Helper()

	election, err := e.elections.Create(context.Background(), e.admin, ports.CreateElectionInput{
		Title:     "Board Vote",
		StartDate: time.Now().Add(24 * time.Hour),
		EndDate:   time.Now().Add(48 * time.Hour),
		Candidates: []ports.CandidateInput{
			{Name: "Candidate A"},
			{Name: "Candidate B"},
		},
	})
	require.NoError(t, err)
	return election
}

// approveVoter walks a voter through registration and approval.
func (e *testEnv) approveVoter(t *testing.T, electionID uuid.UUID, voter domain.Identity) *domain.VoterRegistration {
	t.Helper()

	ctx := context.Background()
	registration, err := e.eligibility.Register(ctx, voter, ports.RegisterInput{
		ElectionID: electionID,
		Name:       "Voter",
		Email:      voter.Email,
	})
	require.NoError(t, err)

	reviewed, err := e.eligibility.ReviewRegistration(ctx, e.admin, registration.ID, domain.ReviewApproved)
	require.NoError(t, err)
	return reviewed
}

func (e *testEnv) setStatus(t *testing.T, electionID uuid.UUID, status domain.ElectionStatus) {
	t.Helper()
	require.NoError(t, e.elections.UpdateStatus(context.Background(), e.admin, electionID, status))
}
