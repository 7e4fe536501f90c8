package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ledgerly/finance-api/internal/core/domain"
	"github.com/ledgerly/finance-api/internal/core/ports"
)

// DefaultAuditLimit is the page size of the audit listing.
const DefaultAuditLimit = 100

// AuditService persists authorization decisions. Record never reports a
// failure to its caller; errors go to the log and the OnFailure hook.
type AuditService struct {
	repo      ports.AuditRepository
	logger    zerolog.Logger
	now       func() time.Time
	onFailure func()
}

func NewAuditService(repo ports.AuditRepository, logger zerolog.Logger) *AuditService {
	return &AuditService{repo: repo, logger: logger, now: time.Now}
}

// OnFailure registers a hook run whenever a record could not be stored.
func (s *AuditService) OnFailure(fn func()) {
	s.onFailure = fn
}

func (s *AuditService) Record(ctx context.Context, rec domain.AuditRecord) {
	if rec.ID == "" {
		rec.ID = newID()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = s.now().UTC()
	}
	if err := s.repo.Insert(ctx, &rec); err != nil {
		s.logger.Error().Err(err).
			Str("user_id", rec.UserID).
			Str("resource", rec.Resource).
			Str("action", rec.Action).
			Str("status", string(rec.Status)).
			Msg("audit record not stored")
		if s.onFailure != nil {
			s.onFailure()
		}
	}
}

// Recent returns up to limit records, newest first.
func (s *AuditService) Recent(ctx context.Context, limit int) ([]*domain.AuditRecord, error) {
	if limit <= 0 {
		limit = DefaultAuditLimit
	}
	return s.repo.Recent(ctx, limit)
}
