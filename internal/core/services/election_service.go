package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/clubvote/internal/core/domain"
	"github.com/vncsmyrnk/clubvote/internal/core/ports"
)

const electionCodeLength = 6

type electionService struct {
	repo   ports.ElectionRepository
	audit  *AuditService
	logger *slog.Logger
	now    func() time.Time
}

func NewElectionService(repo ports.ElectionRepository, audit *AuditService, logger *slog.Logger) ports.ElectionService {
	return &electionService{
		repo:   repo,
		audit:  audit,
		logger: resolveLogger(logger),
		now:    time.Now,
	}
}

func (s *electionService) Create(ctx context.Context, caller domain.Identity, input ports.CreateElectionInput) (*domain.Election, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrPermissionDenied
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if len(input.Candidates) < 2 {
		return nil, fmt.Errorf("%w: at least two candidates are required", domain.ErrInvalidInput)
	}

	code, err := s.freshElectionCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate election code: %w", err)
	}

	now := s.now()
	electionID := uuid.New()

	// Status is derived from the start date at creation only. After this
	// point it changes exclusively through admin operations.
	status := domain.StatusUpcoming
	if !input.StartDate.After(now) {
		status = domain.StatusActive
	}

	election := &domain.Election{
		ID:                 electionID,
		ElectionCode:       code,
		Title:              input.Title,
		Description:        input.Description,
		StartDate:          input.StartDate,
		EndDate:            input.EndDate,
		Status:             status,
		RegistrationStatus: domain.RegistrationOpen,
		CreatedBy:          caller.ID,
		CreatedAt:          now,
	}

	for _, c := range input.Candidates {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("%w: candidate name is required", domain.ErrInvalidInput)
		}
		election.Candidates = append(election.Candidates, domain.Candidate{
			ID:          uuid.New(),
			ElectionID:  electionID,
			Name:        c.Name,
			Description: c.Description,
			PhotoURL:    c.PhotoURL,
		})
	}

	if err := s.repo.Save(ctx, election); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, domain.AuditElectionCreated, &caller.ID,
		fmt.Sprintf("election %q created with code %s", election.Title, election.ElectionCode))

	return election, nil
}

func (s *electionService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Election, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *electionService) FindByCode(ctx context.Context, code string) (*domain.Election, error) {
	return s.repo.FindByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
}

func (s *electionService) List(ctx context.Context) ([]*domain.Election, error) {
	return s.repo.List(ctx)
}

// UpdateStatus overwrites the status unconditionally: any status is
// reachable from any status, matching the manual-override model.
func (s *electionService) UpdateStatus(ctx context.Context, caller domain.Identity, electionID uuid.UUID, status domain.ElectionStatus) error {
	if !caller.IsAdmin() {
		return domain.ErrPermissionDenied
	}

	election, err := s.repo.GetByID(ctx, electionID)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateStatus(ctx, electionID, status); err != nil {
		return err
	}

	action := domain.AuditElectionStatusChanged
	if status == domain.StatusClosed {
		action = domain.AuditElectionClosed
	}
	s.audit.Record(ctx, action, &caller.ID,
		fmt.Sprintf("election %s status %s -> %s", election.ElectionCode, election.Status, status))

	return nil
}

func (s *electionService) UpdateRegistrationStatus(ctx context.Context, caller domain.Identity, electionID uuid.UUID, status domain.RegistrationStatus) error {
	if !caller.IsAdmin() {
		return domain.ErrPermissionDenied
	}

	election, err := s.repo.GetByID(ctx, electionID)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateRegistrationStatus(ctx, electionID, status); err != nil {
		return err
	}

	action := domain.AuditRegistrationOpened
	if status == domain.RegistrationClosed {
		action = domain.AuditRegistrationClosed
	}
	s.audit.Record(ctx, action, &caller.ID,
		fmt.Sprintf("election %s registration set to %s", election.ElectionCode, status))

	return nil
}

func (s *electionService) UpdateCandidateName(ctx context.Context, caller domain.Identity, electionID, candidateID uuid.UUID, name string) error {
	if !caller.IsAdmin() {
		return domain.ErrPermissionDenied
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: candidate name is required", domain.ErrInvalidInput)
	}

	election, err := s.repo.GetByID(ctx, electionID)
	if err != nil {
		return err
	}
	if election.Status != domain.StatusUpcoming {
		return fmt.Errorf("%w: candidates are editable only while upcoming, election is %s",
			domain.ErrInvalidState, election.Status)
	}
	if !election.HasCandidate(candidateID) {
		return domain.ErrCandidateNotFound
	}

	if err := s.repo.UpdateCandidateName(ctx, electionID, candidateID, name); err != nil {
		return err
	}

	s.audit.Record(ctx, domain.AuditCandidateUpdated, &caller.ID,
		fmt.Sprintf("candidate %s renamed to %q in election %s", candidateID, name, election.ElectionCode))

	return nil
}

// SyncStatusToClock aligns the status with the election's date range. It is
// deliberately a separate operation: UpdateStatus stays a manual override
// and the clock never drives transitions on its own.
func (s *electionService) SyncStatusToClock(ctx context.Context, caller domain.Identity, electionID uuid.UUID) (*domain.Election, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrPermissionDenied
	}

	election, err := s.repo.GetByID(ctx, electionID)
	if err != nil {
		return nil, err
	}

	status := statusForClock(election, s.now())
	if status == election.Status {
		return election, nil
	}

	if err := s.repo.UpdateStatus(ctx, electionID, status); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, domain.AuditElectionStatusChanged, &caller.ID,
		fmt.Sprintf("election %s status synced %s -> %s", election.ElectionCode, election.Status, status))

	election.Status = status
	return election, nil
}

func statusForClock(election *domain.Election, now time.Time) domain.ElectionStatus {
	switch {
	case now.Before(election.StartDate):
		return domain.StatusUpcoming
	case now.After(election.EndDate):
		return domain.StatusClosed
	default:
		return domain.StatusActive
	}
}

func (s *electionService) freshElectionCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 10; attempt++ {
		code, err := newShareCode(electionCodeLength)
		if err != nil {
			return "", err
		}
		exists, err := s.repo.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not allocate a unique election code")
}
