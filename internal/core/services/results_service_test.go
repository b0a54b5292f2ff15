package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/clubvote/internal/core/domain"
)

func newVoter(email string) domain.Identity {
	return domain.Identity{ID: uuid.New(), Email: email, Role: domain.RoleVoter}
}

func TestGetResultsVisibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	election := env.createElection(t)
	a, b := election.Candidates[0].ID, election.Candidates[1].ID

	voter := newVoter("one@y.com")
	env.approveVoter(t, election.ID, voter)
	env.setStatus(t, election.ID, domain.StatusActive)
	require.NoError(t, env.ballots.CastVote(ctx, voter, election.ID, a))

	// A voter cannot see partial results while the election is open.
	results, err := env.results.GetResults(ctx, env.voter, election.ID)
	require.NoError(t, err)
	assert.Empty(t, results)

	// An admin always can.
	results, err = env.results.GetResults(ctx, env.admin, election.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), results[a])
	assert.Equal(t, int64(0), results[b])

	// Once closed, everyone can.
	env.setStatus(t, election.ID, domain.StatusClosed)
	results, err = env.results.GetResults(ctx, env.voter, election.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), results[a])
	assert.Equal(t, int64(0), results[b])
}

func TestGetResultsSumMatchesVotes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	election := env.createElection(t)
	a, b := election.Candidates[0].ID, election.Candidates[1].ID

	voters := []domain.Identity{newVoter("one@y.com"), newVoter("two@y.com"), newVoter("three@y.com")}
	for _, voter := range voters {
		env.approveVoter(t, election.ID, voter)
	}
	env.setStatus(t, election.ID, domain.StatusActive)

	require.NoError(t, env.ballots.CastVote(ctx, voters[0], election.ID, a))
	require.NoError(t, env.ballots.CastVote(ctx, voters[1], election.ID, a))
	require.NoError(t, env.ballots.CastVote(ctx, voters[2], election.ID, b))
	env.setStatus(t, election.ID, domain.StatusClosed)

	results, err := env.results.GetResults(ctx, env.admin, election.ID)
	require.NoError(t, err)

	var total int64
	for _, count := range results {
		total += count
	}
	assert.Equal(t, int64(3), total)
	assert.Equal(t, int64(2), results[a])
	assert.Equal(t, int64(1), results[b])
}

func TestGetResultsUnknownElection(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.results.GetResults(context.Background(), env.admin, uuid.New())
	assert.ErrorIs(t, err, domain.ErrElectionNotFound)
}

func TestWinner(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	t.Run("strict max wins", func(t *testing.T) {
		winner, ok := Winner(map[uuid.UUID]int64{a: 3, b: 1, c: 0})
		assert.True(t, ok)
		assert.Equal(t, a, winner)
	})

	t.Run("shared max is no winner", func(t *testing.T) {
		_, ok := Winner(map[uuid.UUID]int64{a: 2, b: 2, c: 0})
		assert.False(t, ok)
	})

	t.Run("no votes is no winner", func(t *testing.T) {
		_, ok := Winner(map[uuid.UUID]int64{a: 0, b: 0})
		assert.False(t, ok)
	})

	t.Run("empty results is no winner", func(t *testing.T) {
		_, ok := Winner(map[uuid.UUID]int64{})
		assert.False(t, ok)
	})
}
