package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/clubvote/internal/core/domain"
	"github.com/vncsmyrnk/clubvote/internal/core/ports"
)

type electionRepository struct {
	db *sql.DB
}

func NewElectionRepository(db *sql.DB) ports.ElectionRepository {
	return &electionRepository{
		db: db,
	}
}

func (r *electionRepository) Save(ctx context.Context, election *domain.Election) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryElection := `
		INSERT INTO elections (id, election_code, title, description, start_date, end_date, status, registration_status, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = tx.ExecContext(ctx, queryElection,
		election.ID, election.ElectionCode, election.Title, election.Description,
		election.StartDate, election.EndDate, election.Status, election.RegistrationStatus,
		election.CreatedBy, election.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert election: %w", err)
	}

	queryCandidate := `
		INSERT INTO candidates (id, election_id, name, description, photo_url)
		VALUES ($1, $2, $3, $4, $5)
	`
	stmt, err := tx.PrepareContext(ctx, queryCandidate)
	if err != nil {
		return fmt.Errorf("failed to prepare candidate statement: %w", err)
	}
	defer stmt.Close()

	for _, c := range election.Candidates {
		_, err = stmt.ExecContext(ctx, c.ID, c.ElectionID, c.Name, c.Description, c.PhotoURL)
		if err != nil {
			return fmt.Errorf("failed to insert candidate: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *electionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Election, error) {
	query := `
		SELECT id, election_code, title, description, start_date, end_date, status, registration_status, created_by, created_at
		FROM elections
		WHERE id = $1
	`
	return r.scanElection(ctx, r.db.QueryRowContext(ctx, query, id))
}

func (r *electionRepository) FindByCode(ctx context.Context, code string) (*domain.Election, error) {
	query := `
		SELECT id, election_code, title, description, start_date, end_date, status, registration_status, created_by, created_at
		FROM elections
		WHERE election_code = $1
	`
	return r.scanElection(ctx, r.db.QueryRowContext(ctx, query, code))
}

func (r *electionRepository) List(ctx context.Context) ([]*domain.Election, error) {
	query := `
		SELECT id, election_code, title, description, start_date, end_date, status, registration_status, created_by, created_at
		FROM elections
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list elections: %w", err)
	}
	defer rows.Close()

	var elections []*domain.Election
	for rows.Next() {
		var election domain.Election
		if err := rows.Scan(
			&election.ID, &election.ElectionCode, &election.Title, &election.Description,
			&election.StartDate, &election.EndDate, &election.Status, &election.RegistrationStatus,
			&election.CreatedBy, &election.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan election: %w", err)
		}

		candidates, err := r.fetchCandidates(ctx, election.ID)
		if err != nil {
			return nil, err
		}
		election.Candidates = candidates

		elections = append(elections, &election)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating elections: %w", err)
	}
	return elections, nil
}

func (r *electionRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	query := `SELECT 1 FROM elections WHERE election_code = $1 LIMIT 1`
	var exists int
	err := r.db.QueryRowContext(ctx, query, code).Scan(&exists)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to check election code: %w", err)
	}
	return true, nil
}

func (r *electionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ElectionStatus) error {
	query := `UPDATE elections SET status = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update election status: %w", err)
	}
	return requireRow(res, domain.ErrElectionNotFound)
}

func (r *electionRepository) UpdateRegistrationStatus(ctx context.Context, id uuid.UUID, status domain.RegistrationStatus) error {
	query := `UPDATE elections SET registration_status = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update registration status: %w", err)
	}
	return requireRow(res, domain.ErrElectionNotFound)
}

func (r *electionRepository) UpdateCandidateName(ctx context.Context, electionID, candidateID uuid.UUID, name string) error {
	query := `UPDATE candidates SET name = $3 WHERE election_id = $1 AND id = $2`
	res, err := r.db.ExecContext(ctx, query, electionID, candidateID, name)
	if err != nil {
		return fmt.Errorf("failed to update candidate name: %w", err)
	}
	return requireRow(res, domain.ErrCandidateNotFound)
}

func (r *electionRepository) scanElection(ctx context.Context, row *sql.Row) (*domain.Election, error) {
	var election domain.Election
	err := row.Scan(
		&election.ID, &election.ElectionCode, &election.Title, &election.Description,
		&election.StartDate, &election.EndDate, &election.Status, &election.RegistrationStatus,
		&election.CreatedBy, &election.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrElectionNotFound
		}
		return nil, fmt.Errorf("failed to get election: %w", err)
	}

	candidates, err := r.fetchCandidates(ctx, election.ID)
	if err != nil {
		return nil, err
	}
	election.Candidates = candidates

	return &election, nil
}

func (r *electionRepository) fetchCandidates(ctx context.Context, electionID uuid.UUID) ([]domain.Candidate, error) {
	query := `
		SELECT id, election_id, name, description, photo_url
		FROM candidates
		WHERE election_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get candidates: %w", err)
	}
	defer rows.Close()

	var candidates []domain.Candidate
	for rows.Next() {
		var c domain.Candidate
		if err := rows.Scan(&c.ID, &c.ElectionID, &c.Name, &c.Description, &c.PhotoURL); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating candidates: %w", err)
	}
	return candidates, nil
}

func requireRow(res sql.Result, notFound error) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
