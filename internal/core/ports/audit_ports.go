package ports

import (
	"context"

	"github.com/vncsmyrnk/clubvote/internal/core/domain"
)

type AuditRepository interface {
	Append(ctx context.Context, entry *domain.AuditEntry) error
	List(ctx context.Context, limit, offset int) ([]*domain.AuditEntry, error)
}
