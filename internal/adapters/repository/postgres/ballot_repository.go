package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/clubvote/internal/core/domain"
	"github.com/vncsmyrnk/clubvote/internal/core/ports"
)

type ballotRepository struct {
	db *sql.DB
}

func NewBallotRepository(db *sql.DB) ports.BallotRepository {
	return &ballotRepository{
		db: db,
	}
}

// SaveBallot writes the anonymous vote and the voter record in one
// transaction. The unique constraint on voter_records(voter_id,
// election_id) is the write-time guard: a concurrent duplicate cast fails
// here with ErrAlreadyVoted no matter what the caller already checked.
func (r *ballotRepository) SaveBallot(ctx context.Context, vote *domain.Vote, record *domain.VoterRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryRecord := `
		INSERT INTO voter_records (voter_id, election_id, has_voted, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err = tx.ExecContext(ctx, queryRecord, record.VoterID, record.ElectionID, record.HasVoted, record.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyVoted
		}
		return fmt.Errorf("failed to insert voter record: %w", err)
	}

	queryVote := `
		INSERT INTO votes (id, election_id, candidate_id, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err = tx.ExecContext(ctx, queryVote, vote.ID, vote.ElectionID, vote.CandidateID, vote.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert vote: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ballot: %w", err)
	}

	return nil
}

func (r *ballotRepository) HasVoted(ctx context.Context, electionID, voterID uuid.UUID) (bool, error) {
	query := `SELECT 1 FROM voter_records WHERE election_id = $1 AND voter_id = $2 LIMIT 1`
	var exists int
	err := r.db.QueryRowContext(ctx, query, electionID, voterID).Scan(&exists)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to check voter record: %w", err)
	}
	return true, nil
}

func (r *ballotRepository) CountByCandidate(ctx context.Context, electionID uuid.UUID) (map[uuid.UUID]int64, error) {
	query := `
		SELECT candidate_id, COUNT(*)
		FROM votes
		WHERE election_id = $1
		GROUP BY candidate_id
	`
	rows, err := r.db.QueryContext(ctx, query, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int64)
	for rows.Next() {
		var candidateID uuid.UUID
		var count int64
		if err := rows.Scan(&candidateID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan vote count: %w", err)
		}
		counts[candidateID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vote counts: %w", err)
	}
	return counts, nil
}
