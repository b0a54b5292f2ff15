package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/clubvote/internal/core/domain"
	"github.com/vncsmyrnk/clubvote/internal/core/ports"
)

type voterCodeRepository struct {
	db *sql.DB
}

func NewVoterCodeRepository(db *sql.DB) ports.VoterCodeRepository {
	return &voterCodeRepository{
		db: db,
	}
}

func (r *voterCodeRepository) Save(ctx context.Context, code *domain.VoterCode) error {
	query := `
		INSERT INTO voter_codes (id, code, election_id, email, is_used, created_at, created_by)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		code.ID, code.Code, code.ElectionID, code.Email, code.IsUsed, code.CreatedAt, code.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: voter code collision", domain.ErrInvalidInput)
		}
		return fmt.Errorf("failed to save voter code: %w", err)
	}
	return nil
}

func (r *voterCodeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.VoterCode, error) {
	query := `
		SELECT id, code, election_id, COALESCE(email, ''), is_used, created_at, used_at, created_by
		FROM voter_codes
		WHERE id = $1
	`
	return scanVoterCode(r.db.QueryRowContext(ctx, query, id))
}

func (r *voterCodeRepository) GetByCode(ctx context.Context, code string) (*domain.VoterCode, error) {
	query := `
		SELECT id, code, election_id, COALESCE(email, ''), is_used, created_at, used_at, created_by
		FROM voter_codes
		WHERE code = $1
	`
	return scanVoterCode(r.db.QueryRowContext(ctx, query, code))
}

func (r *voterCodeRepository) ListByElection(ctx context.Context, electionID uuid.UUID) ([]*domain.VoterCode, error) {
	query := `
		SELECT id, code, election_id, COALESCE(email, ''), is_used, created_at, used_at, created_by
		FROM voter_codes
		WHERE election_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list voter codes: %w", err)
	}
	defer rows.Close()

	var codes []*domain.VoterCode
	for rows.Next() {
		var code domain.VoterCode
		if err := rows.Scan(
			&code.ID, &code.Code, &code.ElectionID, &code.Email,
			&code.IsUsed, &code.CreatedAt, &code.UsedAt, &code.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan voter code: %w", err)
		}
		codes = append(codes, &code)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating voter codes: %w", err)
	}
	return codes, nil
}

func (r *voterCodeRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	query := `SELECT 1 FROM voter_codes WHERE code = $1 LIMIT 1`
	var exists int
	err := r.db.QueryRowContext(ctx, query, code).Scan(&exists)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to check voter code: %w", err)
	}
	return true, nil
}

func (r *voterCodeRepository) MarkUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	query := `UPDATE voter_codes SET is_used = TRUE, used_at = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, usedAt)
	if err != nil {
		return fmt.Errorf("failed to mark voter code used: %w", err)
	}
	return requireRow(res, domain.ErrCodeNotFound)
}

func scanVoterCode(row *sql.Row) (*domain.VoterCode, error) {
	var code domain.VoterCode
	err := row.Scan(
		&code.ID, &code.Code, &code.ElectionID, &code.Email,
		&code.IsUsed, &code.CreatedAt, &code.UsedAt, &code.CreatedBy,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrCodeNotFound
		}
		return nil, fmt.Errorf("failed to get voter code: %w", err)
	}
	return &code, nil
}
