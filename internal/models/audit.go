package models

import (
	"time"

	"github.com/google/uuid"
)

// JSONB represents a PostgreSQL JSONB value.
type JSONB map[string]interface{}

// AuditLog records who did what to which record. Request transitions and
// bulk inventory clears are logged; item history itself is discovered by
// scanning requests, which are never deleted.
type AuditLog struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Entity    string    `json:"entity" db:"entity"`
	RecordID  string    `json:"record_id" db:"record_id"`
	Action    string    `json:"action" db:"action"`
	ActorID   string    `json:"actor_id" db:"actor_id"`
	Detail    JSONB     `json:"detail" db:"detail"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
