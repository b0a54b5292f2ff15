package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/clubvote/internal/core/domain"
	"github.com/vncsmyrnk/clubvote/internal/core/ports"
)

// The store exposes one view per repository port. Views are cheap handles
// over the same locked maps, mirroring how the postgres adapter splits one
// database into repository structs.

func (s *Store) Elections() ports.ElectionRepository {
	return s
}

func (s *Store) Registrations() ports.RegistrationRepository {
	return registrationRepo{store: s}
}

func (s *Store) VoterCodes() ports.VoterCodeRepository {
	return voterCodeRepo{store: s}
}

func (s *Store) Ballots() ports.BallotRepository {
	return s
}

func (s *Store) Audit() ports.AuditRepository {
	return auditRepo{store: s}
}

func (s *Store) Users() ports.UserRepository {
	return userRepo{store: s}
}

type registrationRepo struct{ store *Store }

func (r registrationRepo) Save(ctx context.Context, registration *domain.VoterRegistration) error {
	return r.store.SaveRegistration(ctx, registration)
}

func (r registrationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.VoterRegistration, error) {
	return r.store.GetRegistrationByID(ctx, id)
}

func (r registrationRepo) FindByElectionAndEmail(ctx context.Context, electionID uuid.UUID, email string) (*domain.VoterRegistration, error) {
	return r.store.FindByElectionAndEmail(ctx, electionID, email)
}

func (r registrationRepo) ListByElection(ctx context.Context, electionID uuid.UUID) ([]*domain.VoterRegistration, error) {
	return r.store.ListRegistrationsByElection(ctx, electionID)
}

func (r registrationRepo) Update(ctx context.Context, registration *domain.VoterRegistration) error {
	return r.store.UpdateRegistration(ctx, registration)
}

type voterCodeRepo struct{ store *Store }

func (r voterCodeRepo) Save(ctx context.Context, code *domain.VoterCode) error {
	return r.store.SaveCode(ctx, code)
}

func (r voterCodeRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.VoterCode, error) {
	return r.store.GetCodeByID(ctx, id)
}

func (r voterCodeRepo) GetByCode(ctx context.Context, code string) (*domain.VoterCode, error) {
	return r.store.GetCodeByValue(ctx, code)
}

func (r voterCodeRepo) ListByElection(ctx context.Context, electionID uuid.UUID) ([]*domain.VoterCode, error) {
	return r.store.ListCodesByElection(ctx, electionID)
}

func (r voterCodeRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	return r.store.VoterCodeExists(ctx, code)
}

func (r voterCodeRepo) MarkUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	return r.store.MarkUsed(ctx, id, usedAt)
}

type auditRepo struct{ store *Store }

func (r auditRepo) Append(ctx context.Context, entry *domain.AuditEntry) error {
	return r.store.Append(ctx, entry)
}

func (r auditRepo) List(ctx context.Context, limit, offset int) ([]*domain.AuditEntry, error) {
	return r.store.ListAudit(ctx, limit, offset)
}

type userRepo struct{ store *Store }

func (r userRepo) Create(ctx context.Context, user *domain.User) error {
	return r.store.CreateUser(ctx, user)
}

func (r userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.store.GetUserByEmail(ctx, email)
}

func (r userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.store.GetUserByID(ctx, id)
}
