package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/clubvote/internal/core/domain"
)

type ElectionRepository interface {
	Save(ctx context.Context, election *domain.Election) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Election, error)
	FindByCode(ctx context.Context, code string) (*domain.Election, error)
	List(ctx context.Context) ([]*domain.Election, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ElectionStatus) error
	UpdateRegistrationStatus(ctx context.Context, id uuid.UUID, status domain.RegistrationStatus) error
	UpdateCandidateName(ctx context.Context, electionID, candidateID uuid.UUID, name string) error
}

type CandidateInput struct {
	Name        string
	Description string
	PhotoURL    string
}

type CreateElectionInput struct {
	Title       string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	Candidates  []CandidateInput
}

type ElectionService interface {
	Create(ctx context.Context, caller domain.Identity, input CreateElectionInput) (*domain.Election, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Election, error)
	FindByCode(ctx context.Context, code string) (*domain.Election, error)
	List(ctx context.Context) ([]*domain.Election, error)
	UpdateStatus(ctx context.Context, caller domain.Identity, electionID uuid.UUID, status domain.ElectionStatus) error
	UpdateRegistrationStatus(ctx context.Context, caller domain.Identity, electionID uuid.UUID, status domain.RegistrationStatus) error
	UpdateCandidateName(ctx context.Context, caller domain.Identity, electionID, candidateID uuid.UUID, name string) error
	SyncStatusToClock(ctx context.Context, caller domain.Identity, electionID uuid.UUID) (*domain.Election, error)
}
