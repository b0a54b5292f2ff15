package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/clubvote/internal/core/domain"
	"github.com/vncsmyrnk/clubvote/internal/core/ports"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	election := env.createElection(t)

	registration, err := env.eligibility.Register(ctx, env.voter, ports.RegisterInput{
		ElectionID: election.ID,
		Name:       "Voter",
		Email:      "X@Y.com",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ReviewPending, registration.Status)
	assert.Equal(t, "x@y.com", registration.Email)
	assert.Nil(t, registration.VoterCodeID)
}

func TestRegisterDuplicateEmailCaseInsensitive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	election := env.createElection(t)

	first, err := env.eligibility.Register(ctx, env.voter, ports.RegisterInput{
		ElectionID: election.ID,
		Name:       "Voter",
		Email:      "x@y.com",
	})
	require.NoError(t, err)

	_, err = env.eligibility.Register(ctx, env.voter, ports.RegisterInput{
		ElectionID: election.ID,
		Name:       "Voter Again",
		Email:      "X@Y.COM",
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyRegistered)

	// The first registration is untouched.
	got, err := env.store.Registrations().GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Voter", got.Name)
	assert.Equal(t, domain.ReviewPending, got.Status)
}

func TestRegisterClosedWindow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("election active", func(t *testing.T) {
		election := env.createElection(t)
		env.setStatus(t, election.ID, domain.StatusActive)

		_, err := env.eligibility.Register(ctx, env.voter, ports.RegisterInput{
			ElectionID: election.ID,
			Name:       "Late",
			Email:      "late@y.com",
		})
		assert.ErrorIs(t, err, domain.ErrRegistrationClosed)
	})

	t.Run("registration closed by admin", func(t *testing.T) {
		election := env.createElection(t)
		require.NoError(t, env.elections.UpdateRegistrationStatus(ctx, env.admin, election.ID, domain.RegistrationClosed))

		_, err := env.eligibility.Register(ctx, env.voter, ports.RegisterInput{
			ElectionID: election.ID,
			Name:       "Late",
			Email:      "late@y.com",
		})
		assert.ErrorIs(t, err, domain.ErrRegistrationClosed)
	})
}

func TestCanRegisterUnknownElection(t *testing.T) {
	env := newTestEnv(t)

	ok, err := env.eligibility.CanRegister(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReviewApprovalIssuesBoundCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	election := env.createElection(t)

	reviewed := env.approveVoter(t, election.ID, env.voter)

	assert.Equal(t, domain.ReviewApproved, reviewed.Status)
	assert.NotNil(t, reviewed.ReviewedAt)
	require.NotNil(t, reviewed.ReviewedBy)
	assert.Equal(t, env.admin.ID, *reviewed.ReviewedBy)
	require.NotNil(t, reviewed.VoterCodeID)

	code, err := env.store.VoterCodes().GetByID(ctx, *reviewed.VoterCodeID)
	require.NoError(t, err)
	assert.Equal(t, env.voter.Email, code.Email)
	assert.Equal(t, election.ID, code.ElectionID)
	assert.False(t, code.IsUsed)
}

func TestReviewRejectionIssuesNoCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	election := env.createElection(t)

	registration, err := env.eligibility.Register(ctx, env.voter, ports.RegisterInput{
		ElectionID: election.ID,
		Name:       "Voter",
		Email:      env.voter.Email,
	})
	require.NoError(t, err)

	reviewed, err := env.eligibility.ReviewRegistration(ctx, env.admin, registration.ID, domain.ReviewRejected)
	require.NoError(t, err)

	assert.Equal(t, domain.ReviewRejected, reviewed.Status)
	assert.Nil(t, reviewed.VoterCodeID)

	codes, err := env.eligibility.ListCodesByElection(ctx, env.admin, election.ID)
	require.NoError(t, err)
	assert.Empty(t, codes)
}

func TestReviewRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.eligibility.ReviewRegistration(context.Background(), env.voter, uuid.New(), domain.ReviewApproved)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

func TestReviewUnknownRegistration(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.eligibility.ReviewRegistration(context.Background(), env.admin, uuid.New(), domain.ReviewApproved)
	assert.ErrorIs(t, err, domain.ErrRegistrationNotFound)
}

func TestGenerateCodes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	election := env.createElection(t)

	codes, err := env.eligibility.GenerateCodes(ctx, env.admin, election.ID, 5)
	require.NoError(t, err)
	require.Len(t, codes, 5)

	seen := make(map[string]bool)
	for _, code := range codes {
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true

		valid, err := env.eligibility.ValidateCode(ctx, code, election.ID)
		require.NoError(t, err)
		assert.True(t, valid)
	}

	stored, err := env.eligibility.ListCodesByElection(ctx, env.admin, election.ID)
	require.NoError(t, err)
	require.Len(t, stored, 5)
	for _, code := range stored {
		assert.Empty(t, code.Email, "bulk codes are unbound")
	}
}

func TestGenerateCodesRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	election := env.createElection(t)

	_, err := env.eligibility.GenerateCodes(context.Background(), env.voter, election.ID, 3)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

func TestGenerateCodesUnknownElection(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.eligibility.GenerateCodes(context.Background(), env.admin, uuid.New(), 3)
	assert.ErrorIs(t, err, domain.ErrElectionNotFound)
}

func TestValidateAndRedeemCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	election := env.createElection(t)

	codes, err := env.eligibility.GenerateCodes(ctx, env.admin, election.ID, 1)
	require.NoError(t, err)
	code := codes[0]

	valid, err := env.eligibility.ValidateCode(ctx, code, election.ID)
	require.NoError(t, err)
	assert.True(t, valid)

	// A code never validates against another election.
	other := env.createElection(t)
	valid, err = env.eligibility.ValidateCode(ctx, code, other.ID)
	require.NoError(t, err)
	assert.False(t, valid)

	require.NoError(t, env.eligibility.RedeemCode(ctx, code))

	// Once redeemed, validation fails for every subsequent call.
	for i := 0; i < 3; i++ {
		valid, err = env.eligibility.ValidateCode(ctx, code, election.ID)
		require.NoError(t, err)
		assert.False(t, valid)
	}

	stored, err := env.store.VoterCodes().GetByCode(ctx, code)
	require.NoError(t, err)
	assert.True(t, stored.IsUsed)
	assert.NotNil(t, stored.UsedAt)
}

func TestRedeemUnknownCode(t *testing.T) {
	env := newTestEnv(t)
	err := env.eligibility.RedeemCode(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrCodeNotFound)
}

func TestIsApprovedVoter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	election := env.createElection(t)

	eligible, err := env.eligibility.IsApprovedVoter(ctx, election.ID, env.voter)
	require.NoError(t, err)
	assert.False(t, eligible, "unregistered voter is not eligible")

	env.approveVoter(t, election.ID, env.voter)

	eligible, err = env.eligibility.IsApprovedVoter(ctx, election.ID, env.voter)
	require.NoError(t, err)
	assert.True(t, eligible)

	// Redemption does not revoke eligibility; the code only has to resolve.
	reg, err := env.store.Registrations().FindByElectionAndEmail(ctx, election.ID, env.voter.Email)
	require.NoError(t, err)
	code, err := env.store.VoterCodes().GetByID(ctx, *reg.VoterCodeID)
	require.NoError(t, err)
	require.NoError(t, env.eligibility.RedeemCode(ctx, code.Code))

	eligible, err = env.eligibility.IsApprovedVoter(ctx, election.ID, env.voter)
	require.NoError(t, err)
	assert.True(t, eligible)
}
