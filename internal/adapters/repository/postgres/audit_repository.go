package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vncsmyrnk/clubvote/internal/core/domain"
	"github.com/vncsmyrnk/clubvote/internal/core/ports"
)

type auditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) ports.AuditRepository {
	return &auditRepository{
		db: db,
	}
}

func (r *auditRepository) Append(ctx context.Context, entry *domain.AuditEntry) error {
	query := `
		INSERT INTO audit_logs (id, action, user_id, details, ip_address, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.Action, entry.UserID, entry.Details, entry.IPAddress, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

func (r *auditRepository) List(ctx context.Context, limit, offset int) ([]*domain.AuditEntry, error) {
	query := `
		SELECT id, action, user_id, details, COALESCE(ip_address, ''), created_at
		FROM audit_logs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.AuditEntry
	for rows.Next() {
		var entry domain.AuditEntry
		if err := rows.Scan(
			&entry.ID, &entry.Action, &entry.UserID, &entry.Details, &entry.IPAddress, &entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit entries: %w", err)
	}
	return entries, nil
}
