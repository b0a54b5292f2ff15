package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/clubvote/internal/core/domain"
)

type RegistrationRepository interface {
	Save(ctx context.Context, registration *domain.VoterRegistration) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.VoterRegistration, error)
	// FindByElectionAndEmail matches the email case-insensitively.
	FindByElectionAndEmail(ctx context.Context, electionID uuid.UUID, email string) (*domain.VoterRegistration, error)
	ListByElection(ctx context.Context, electionID uuid.UUID) ([]*domain.VoterRegistration, error)
	Update(ctx context.Context, registration *domain.VoterRegistration) error
}

type VoterCodeRepository interface {
	Save(ctx context.Context, code *domain.VoterCode) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.VoterCode, error)
	GetByCode(ctx context.Context, code string) (*domain.VoterCode, error)
	ListByElection(ctx context.Context, electionID uuid.UUID) ([]*domain.VoterCode, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	MarkUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error
}

type RegisterInput struct {
	ElectionID uuid.UUID
	Name       string
	Email      string
}

type EligibilityService interface {
	CanRegister(ctx context.Context, electionID uuid.UUID) (bool, error)
	Register(ctx context.Context, caller domain.Identity, input RegisterInput) (*domain.VoterRegistration, error)
	ReviewRegistration(ctx context.Context, caller domain.Identity, registrationID uuid.UUID, decision domain.ReviewStatus) (*domain.VoterRegistration, error)
	GenerateCodes(ctx context.Context, caller domain.Identity, electionID uuid.UUID, count int) ([]string, error)
	ValidateCode(ctx context.Context, code string, electionID uuid.UUID) (bool, error)
	RedeemCode(ctx context.Context, code string) error
	IsApprovedVoter(ctx context.Context, electionID uuid.UUID, voter domain.Identity) (bool, error)
	ListRegistrationsByElection(ctx context.Context, caller domain.Identity, electionID uuid.UUID) ([]*domain.VoterRegistration, error)
	ListCodesByElection(ctx context.Context, caller domain.Identity, electionID uuid.UUID) ([]*domain.VoterCode, error)
}
