package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/clubvote/internal/core/domain"
	"github.com/vncsmyrnk/clubvote/internal/core/ports"
)

const (
	voterCodeBytes    = 9
	maxCodesPerBatch  = 500
	codeAllocAttempts = 10
)

type eligibilityService struct {
	electionRepo ports.ElectionRepository
	regRepo      ports.RegistrationRepository
	codeRepo     ports.VoterCodeRepository
	audit        *AuditService
	logger       *slog.Logger
	now          func() time.Time
}

func NewEligibilityService(
	electionRepo ports.ElectionRepository,
	regRepo ports.RegistrationRepository,
	codeRepo ports.VoterCodeRepository,
	audit *AuditService,
	logger *slog.Logger,
) ports.EligibilityService {
	return &eligibilityService{
		electionRepo: electionRepo,
		regRepo:      regRepo,
		codeRepo:     codeRepo,
		audit:        audit,
		logger:       resolveLogger(logger),
		now:          time.Now,
	}
}

func (s *eligibilityService) CanRegister(ctx context.Context, electionID uuid.UUID) (bool, error) {
	election, err := s.electionRepo.GetByID(ctx, electionID)
	if err != nil {
		if errors.Is(err, domain.ErrElectionNotFound) {
			return false, nil
		}
		return false, err
	}
	return election.Status == domain.StatusUpcoming &&
		election.RegistrationStatus == domain.RegistrationOpen, nil
}

func (s *eligibilityService) Register(ctx context.Context, caller domain.Identity, input ports.RegisterInput) (*domain.VoterRegistration, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: name and email are required", domain.ErrInvalidInput)
	}

	existing, err := s.regRepo.FindByElectionAndEmail(ctx, input.ElectionID, email)
	if err != nil && !errors.Is(err, domain.ErrRegistrationNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrAlreadyRegistered
	}

	ok, err := s.CanRegister(ctx, input.ElectionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrRegistrationClosed
	}

	registration := &domain.VoterRegistration{
		ID:          uuid.New(),
		ElectionID:  input.ElectionID,
		Name:        input.Name,
		Email:       email,
		Status:      domain.ReviewPending,
		SubmittedAt: s.now(),
	}

	if err := s.regRepo.Save(ctx, registration); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, domain.AuditUserRegistered, &caller.ID,
		fmt.Sprintf("voter registration submitted for election %s", input.ElectionID))

	return registration, nil
}

func (s *eligibilityService) ReviewRegistration(ctx context.Context, caller domain.Identity, registrationID uuid.UUID, decision domain.ReviewStatus) (*domain.VoterRegistration, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrPermissionDenied
	}
	if decision != domain.ReviewApproved && decision != domain.ReviewRejected {
		return nil, fmt.Errorf("%w: decision must be approved or rejected", domain.ErrInvalidInput)
	}

	registration, err := s.regRepo.GetByID(ctx, registrationID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	registration.Status = decision
	registration.ReviewedAt = &now
	registration.ReviewedBy = &caller.ID

	if decision == domain.ReviewApproved {
		code, err := s.issueCode(ctx, registration.ElectionID, registration.Email, caller.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to issue voter code: %w", err)
		}
		registration.VoterCodeID = &code.ID
	}

	if err := s.regRepo.Update(ctx, registration); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, domain.AuditRegistrationReviewed, &caller.ID,
		fmt.Sprintf("registration %s %s", registrationID, decision))

	return registration, nil
}

func (s *eligibilityService) GenerateCodes(ctx context.Context, caller domain.Identity, electionID uuid.UUID, count int) ([]string, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrPermissionDenied
	}
	if count < 1 || count > maxCodesPerBatch {
		return nil, fmt.Errorf("%w: count must be between 1 and %d", domain.ErrInvalidInput, maxCodesPerBatch)
	}

	if _, err := s.electionRepo.GetByID(ctx, electionID); err != nil {
		return nil, err
	}

	codes := make([]string, 0, count)
	for i := 0; i < count; i++ {
		code, err := s.issueCode(ctx, electionID, "", caller.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to generate code %d of %d: %w", i+1, count, err)
		}
		codes = append(codes, code.Code)
	}

	s.audit.Record(ctx, domain.AuditCodesGenerated, &caller.ID,
		fmt.Sprintf("%d voter codes generated for election %s", count, electionID))

	return codes, nil
}

func (s *eligibilityService) ValidateCode(ctx context.Context, code string, electionID uuid.UUID) (bool, error) {
	voterCode, err := s.codeRepo.GetByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		if errors.Is(err, domain.ErrCodeNotFound) {
			return false, nil
		}
		return false, err
	}
	return voterCode.ElectionID == electionID && !voterCode.IsUsed, nil
}

func (s *eligibilityService) RedeemCode(ctx context.Context, code string) error {
	voterCode, err := s.codeRepo.GetByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return err
	}
	return s.codeRepo.MarkUsed(ctx, voterCode.ID, s.now())
}

// IsApprovedVoter is the single eligibility gate used before allowing a
// vote: an approved registration for the voter's email plus a bound code
// that still resolves in the ledger. The code may already be redeemed;
// redemption unlocks the ballot, it does not revoke eligibility.
func (s *eligibilityService) IsApprovedVoter(ctx context.Context, electionID uuid.UUID, voter domain.Identity) (bool, error) {
	registration, err := s.regRepo.FindByElectionAndEmail(ctx, electionID, strings.ToLower(voter.Email))
	if err != nil {
		if errors.Is(err, domain.ErrRegistrationNotFound) {
			return false, nil
		}
		return false, err
	}
	if registration.Status != domain.ReviewApproved || registration.VoterCodeID == nil {
		return false, nil
	}

	if _, err := s.codeRepo.GetByID(ctx, *registration.VoterCodeID); err != nil {
		if errors.Is(err, domain.ErrCodeNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *eligibilityService) ListRegistrationsByElection(ctx context.Context, caller domain.Identity, electionID uuid.UUID) ([]*domain.VoterRegistration, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrPermissionDenied
	}
	return s.regRepo.ListByElection(ctx, electionID)
}

func (s *eligibilityService) ListCodesByElection(ctx context.Context, caller domain.Identity, electionID uuid.UUID) ([]*domain.VoterCode, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrPermissionDenied
	}
	return s.codeRepo.ListByElection(ctx, electionID)
}

// issueCode allocates a code in the global namespace; the uniqueness check
// is repeated because the repository enforces it again at write time.
func (s *eligibilityService) issueCode(ctx context.Context, electionID uuid.UUID, email string, createdBy uuid.UUID) (*domain.VoterCode, error) {
	for attempt := 0; attempt < codeAllocAttempts; attempt++ {
		token, err := newSecretToken(voterCodeBytes)
		if err != nil {
			return nil, err
		}

		exists, err := s.codeRepo.CodeExists(ctx, token)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		code := &domain.VoterCode{
			ID:         uuid.New(),
			Code:       token,
			ElectionID: electionID,
			Email:      email,
			IsUsed:     false,
			CreatedAt:  s.now(),
			CreatedBy:  createdBy,
		}
		if err := s.codeRepo.Save(ctx, code); err != nil {
			return nil, err
		}
		return code, nil
	}
	return nil, fmt.Errorf("could not allocate a unique voter code")
}
