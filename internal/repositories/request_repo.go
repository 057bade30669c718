package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"basetrack/internal/models"
)

type RequestRepository interface {
	Create(ctx context.Context, request *models.MovementRequest) error
	GetByID(ctx context.Context, id string) (*models.MovementRequest, error)
	// UpdateDecision persists the status and processor fields set by a
	// gate transition. Line-item snapshots are immutable and never
	// rewritten.
	UpdateDecision(ctx context.Context, request *models.MovementRequest) error
	List(ctx context.Context) ([]*models.MovementRequest, error)
}

type requestRepo struct {
	db Database
}

func NewRequestRepository(db Database) RequestRepository {
	return &requestRepo{db: db}
}

const requestColumns = `id, type, staff_id, staff_name, base, storekeeper_id, manager_id,
		items, status, timestamp, rejection_reason, report_reason,
		target_location, target_date`

func (r *requestRepo) Create(ctx context.Context, request *models.MovementRequest) error {
	items, err := json.Marshal(request.Items)
	if err != nil {
		return fmt.Errorf("encoding request items: %w", err)
	}

	query := `
		INSERT INTO movement_requests (` + requestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err = r.db.Exec(ctx, query,
		request.ID, request.Type, request.StaffID, request.StaffName, request.Base,
		request.StorekeeperID, request.ManagerID, items, request.Status,
		request.Timestamp, request.RejectionReason, request.ReportReason,
		request.TargetLocation, request.TargetDate,
	)
	return err
}

func (r *requestRepo) GetByID(ctx context.Context, id string) (*models.MovementRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM movement_requests WHERE id = $1`

	request := &models.MovementRequest{}
	var items []byte
	err := r.db.QueryRow(ctx, query, id).Scan(
		&request.ID, &request.Type, &request.StaffID, &request.StaffName, &request.Base,
		&request.StorekeeperID, &request.ManagerID, &items, &request.Status,
		&request.Timestamp, &request.RejectionReason, &request.ReportReason,
		&request.TargetLocation, &request.TargetDate,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &request.Items); err != nil {
		return nil, fmt.Errorf("decoding request items: %w", err)
	}
	return request, nil
}

func (r *requestRepo) UpdateDecision(ctx context.Context, request *models.MovementRequest) error {
	query := `
		UPDATE movement_requests
		SET status = $2, storekeeper_id = $3, manager_id = $4,
			rejection_reason = $5, report_reason = $6
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query,
		request.ID, request.Status, request.StorekeeperID, request.ManagerID,
		request.RejectionReason, request.ReportReason,
	)
	return err
}

func (r *requestRepo) List(ctx context.Context) ([]*models.MovementRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM movement_requests ORDER BY timestamp DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*models.MovementRequest
	for rows.Next() {
		request := &models.MovementRequest{}
		var items []byte
		if err := rows.Scan(
			&request.ID, &request.Type, &request.StaffID, &request.StaffName, &request.Base,
			&request.StorekeeperID, &request.ManagerID, &items, &request.Status,
			&request.Timestamp, &request.RejectionReason, &request.ReportReason,
			&request.TargetLocation, &request.TargetDate,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(items, &request.Items); err != nil {
			return nil, fmt.Errorf("decoding request items: %w", err)
		}
		requests = append(requests, request)
	}
	return requests, rows.Err()
}
