package services

import (
	"context"

	"basetrack/internal/models"
	"basetrack/internal/repositories"

	"github.com/google/uuid"
)

// AuditService records who did what. Failures are returned to the caller
// for logging but must not block the action being audited.
type AuditService interface {
	LogActivity(ctx context.Context, entity, recordID, action, actorID string, detail models.JSONB) error
	History(ctx context.Context, entity, recordID string, limit int) ([]*models.AuditLog, error)
}

type auditService struct {
	auditRepo repositories.AuditRepository
}

func NewAuditService(auditRepo repositories.AuditRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

func (s *auditService) LogActivity(ctx context.Context, entity, recordID, action, actorID string, detail models.JSONB) error {
	return s.auditRepo.Create(ctx, &models.AuditLog{
		ID:       uuid.New(),
		Entity:   entity,
		RecordID: recordID,
		Action:   action,
		ActorID:  actorID,
		Detail:   detail,
	})
}

func (s *auditService) History(ctx context.Context, entity, recordID string, limit int) ([]*models.AuditLog, error) {
	return s.auditRepo.ListByRecord(ctx, entity, recordID, limit)
}
