package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/vncsmyrnk/clubvote/internal/core/domain"
	"github.com/vncsmyrnk/clubvote/internal/core/ports"
)

type registrationRepository struct {
	db *sql.DB
}

func NewRegistrationRepository(db *sql.DB) ports.RegistrationRepository {
	return &registrationRepository{
		db: db,
	}
}

func (r *registrationRepository) Save(ctx context.Context, registration *domain.VoterRegistration) error {
	query := `
		INSERT INTO voter_registrations (id, election_id, name, email, status, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		registration.ID, registration.ElectionID, registration.Name,
		registration.Email, registration.Status, registration.SubmittedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyRegistered
		}
		return fmt.Errorf("failed to save registration: %w", err)
	}
	return nil
}

func (r *registrationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.VoterRegistration, error) {
	query := `
		SELECT id, election_id, name, email, status, submitted_at, reviewed_at, reviewed_by, voter_code_id
		FROM voter_registrations
		WHERE id = $1
	`
	return scanRegistration(r.db.QueryRowContext(ctx, query, id))
}

func (r *registrationRepository) FindByElectionAndEmail(ctx context.Context, electionID uuid.UUID, email string) (*domain.VoterRegistration, error) {
	query := `
		SELECT id, election_id, name, email, status, submitted_at, reviewed_at, reviewed_by, voter_code_id
		FROM voter_registrations
		WHERE election_id = $1 AND lower(email) = lower($2)
	`
	return scanRegistration(r.db.QueryRowContext(ctx, query, electionID, email))
}

func (r *registrationRepository) ListByElection(ctx context.Context, electionID uuid.UUID) ([]*domain.VoterRegistration, error) {
	query := `
		SELECT id, election_id, name, email, status, submitted_at, reviewed_at, reviewed_by, voter_code_id
		FROM voter_registrations
		WHERE election_id = $1
		ORDER BY submitted_at
	`
	rows, err := r.db.QueryContext(ctx, query, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	defer rows.Close()

	var registrations []*domain.VoterRegistration
	for rows.Next() {
		registration, err := scanRegistrationRow(rows)
		if err != nil {
			return nil, err
		}
		registrations = append(registrations, registration)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating registrations: %w", err)
	}
	return registrations, nil
}

func (r *registrationRepository) Update(ctx context.Context, registration *domain.VoterRegistration) error {
	query := `
		UPDATE voter_registrations
		SET status = $2, reviewed_at = $3, reviewed_by = $4, voter_code_id = $5
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		registration.ID, registration.Status, registration.ReviewedAt,
		registration.ReviewedBy, registration.VoterCodeID,
	)
	if err != nil {
		return fmt.Errorf("failed to update registration: %w", err)
	}
	return requireRow(res, domain.ErrRegistrationNotFound)
}

type registrationScanner interface {
	Scan(dest ...any) error
}

func scanRegistration(row *sql.Row) (*domain.VoterRegistration, error) {
	registration, err := scanRegistrationRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRegistrationNotFound
		}
		return nil, err
	}
	return registration, nil
}

func scanRegistrationRow(row registrationScanner) (*domain.VoterRegistration, error) {
	var registration domain.VoterRegistration
	err := row.Scan(
		&registration.ID, &registration.ElectionID, &registration.Name, &registration.Email,
		&registration.Status, &registration.SubmittedAt, &registration.ReviewedAt,
		&registration.ReviewedBy, &registration.VoterCodeID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan registration: %w", err)
	}
	return &registration, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
