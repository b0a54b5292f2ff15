package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/clubvote/internal/core/domain"
	"github.com/vncsmyrnk/clubvote/internal/core/ports"
)

// AuditService appends security-relevant entries. Recording is best-effort:
// a failed append must never block the operation that triggered it, so
// failures are logged and swallowed.
type AuditService struct {
	repo   ports.AuditRepository
	logger *slog.Logger
}

func NewAuditService(repo ports.AuditRepository, logger *slog.Logger) *AuditService {
	return &AuditService{
		repo:   repo,
		logger: resolveLogger(logger),
	}
}

func (s *AuditService) Record(ctx context.Context, action domain.AuditAction, userID *uuid.UUID, details string) {
	entry := &domain.AuditEntry{
		ID:        uuid.New(),
		Action:    action,
		UserID:    userID,
		Details:   details,
		IPAddress: domain.ClientIPFromContext(ctx),
		CreatedAt: time.Now(),
	}

	if err := s.repo.Append(ctx, entry); err != nil {
		s.logger.Error("failed to append audit entry",
			"action", string(action),
			"error", err,
		)
	}
}

func (s *AuditService) List(ctx context.Context, caller domain.Identity, limit, offset int) ([]*domain.AuditEntry, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrPermissionDenied
	}
	return s.repo.List(ctx, limit, offset)
}
