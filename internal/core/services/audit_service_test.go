package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/clubvote/internal/core/domain"
)

func TestAuditTrailOfElectionLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	election := env.createElection(t)
	env.approveVoter(t, election.ID, env.voter)
	env.setStatus(t, election.ID, domain.StatusActive)
	require.NoError(t, env.ballots.CastVote(ctx, env.voter, election.ID, election.Candidates[0].ID))
	env.setStatus(t, election.ID, domain.StatusClosed)

	entries, err := env.audit.List(ctx, env.admin, 100, 0)
	require.NoError(t, err)

	actions := make(map[domain.AuditAction]int)
	for _, entry := range entries {
		actions[entry.Action]++
	}

	assert.Equal(t, 1, actions[domain.AuditElectionCreated])
	assert.Equal(t, 1, actions[domain.AuditUserRegistered])
	assert.Equal(t, 1, actions[domain.AuditRegistrationReviewed])
	assert.Equal(t, 1, actions[domain.AuditVoteCast])
	assert.Equal(t, 1, actions[domain.AuditElectionStatusChanged])
	assert.Equal(t, 1, actions[domain.AuditElectionClosed])

	// The vote_cast entry names the voter but never the choice.
	for _, entry := range entries {
		if entry.Action == domain.AuditVoteCast {
			require.NotNil(t, entry.UserID)
			assert.Equal(t, env.voter.ID, *entry.UserID)
			assert.NotContains(t, entry.Details, election.Candidates[0].ID.String())
		}
	}
}

func TestAuditListRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.audit.List(context.Background(), env.voter, 100, 0)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}
