package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"basetrack/internal/models"
)

type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	ListByRecord(ctx context.Context, entity, recordID string, limit int) ([]*models.AuditLog, error)
}

type auditRepo struct {
	db Database
}

func NewAuditRepository(db Database) AuditRepository {
	return &auditRepo{db: db}
}

func (r *auditRepo) Create(ctx context.Context, entry *models.AuditLog) error {
	detail, err := json.Marshal(entry.Detail)
	if err != nil {
		return fmt.Errorf("encoding audit detail: %w", err)
	}

	query := `
		INSERT INTO audit_logs (id, entity, record_id, action, actor_id, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	_, err = r.db.Exec(ctx, query, entry.ID, entry.Entity, entry.RecordID, entry.Action, entry.ActorID, detail)
	return err
}

func (r *auditRepo) ListByRecord(ctx context.Context, entity, recordID string, limit int) ([]*models.AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, entity, record_id, action, actor_id, detail, created_at
		FROM audit_logs
		WHERE entity = $1 AND record_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`
	rows, err := r.db.Query(ctx, query, entity, recordID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.AuditLog
	for rows.Next() {
		entry := &models.AuditLog{}
		var detail []byte
		if err := rows.Scan(&entry.ID, &entry.Entity, &entry.RecordID, &entry.Action, &entry.ActorID, &detail, &entry.CreatedAt); err != nil {
			return nil, err
		}
		if len(detail) > 0 {
			if err := json.Unmarshal(detail, &entry.Detail); err != nil {
				return nil, fmt.Errorf("decoding audit detail: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
