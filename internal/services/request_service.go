package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"basetrack/internal/caching"
	"basetrack/internal/models"
	"basetrack/internal/repositories"
)

var (
	// ErrRequestFinal means the request already reached APPROVED or
	// REJECTED; terminal states never transition again.
	ErrRequestFinal = errors.New("request already finalized")

	// ErrNotAuthorized means the acting role does not own the gate the
	// request is currently waiting at.
	ErrNotAuthorized = errors.New("role not authorized for this approval gate")

	ErrNoItems       = errors.New("request must reference at least one item")
	ErrTargetMissing = errors.New("target location and date are required for movement requests")
)

// RequestService is the movement-request lifecycle engine. It owns the
// state machine PENDING -> PENDING_MANAGER -> APPROVED/REJECTED and applies
// the inventory effects when a request reaches APPROVED.
type RequestService interface {
	CreateRequest(ctx context.Context, actor *models.User, itemIDs []string, reqType models.RequestType, targetLocation, targetDate string) (*models.MovementRequest, error)
	ProcessRequest(ctx context.Context, actor *models.User, requestID string, approved bool, reason string) (*models.MovementRequest, error)
	// UpdateItem applies a direct edit. Degrading equipmentStatus is
	// redirected into a status-change request instead of being applied;
	// the returned request is non-nil in that case and the item is left
	// untouched until approval.
	UpdateItem(ctx context.Context, actor *models.User, item *models.InventoryItem) (*models.MovementRequest, error)
	GetRequest(ctx context.Context, requestID string) (*models.MovementRequest, error)
	ListRequests(ctx context.Context) ([]*models.MovementRequest, error)
}

type requestService struct {
	requestRepo repositories.RequestRepository
	itemRepo    repositories.ItemRepository
	auditSvc    AuditService
	cacheSvc    caching.CacheService
}

func NewRequestService(requestRepo repositories.RequestRepository, itemRepo repositories.ItemRepository, auditSvc AuditService, cacheSvc caching.CacheService) RequestService {
	return &requestService{
		requestRepo: requestRepo,
		itemRepo:    itemRepo,
		auditSvc:    auditSvc,
		cacheSvc:    cacheSvc,
	}
}

func (s *requestService) CreateRequest(ctx context.Context, actor *models.User, itemIDs []string, reqType models.RequestType, targetLocation, targetDate string) (*models.MovementRequest, error) {
	if len(itemIDs) == 0 {
		return nil, ErrNoItems
	}
	if !reqType.Valid() {
		return nil, fmt.Errorf("unknown request type %q", reqType)
	}
	if reqType.NeedsTarget() && (targetLocation == "" || targetDate == "") {
		return nil, ErrTargetMissing
	}

	// Snapshot description and serial at creation time. An id that does
	// not resolve still yields a line item; the request records what the
	// requester asked for even if the record has since vanished.
	items := make([]models.RequestItem, 0, len(itemIDs))
	for _, id := range itemIDs {
		snapshot := models.RequestItem{ItemID: id, Description: "Unknown", SerialNo: "Unknown"}
		if item, err := s.itemRepo.GetByID(ctx, id); err == nil && item != nil {
			snapshot.Description = item.Description
			snapshot.SerialNo = item.SerialNo
		}
		items = append(items, snapshot)
	}

	now := time.Now()
	request := &models.MovementRequest{
		ID:        fmt.Sprintf("REQ-%d", now.UnixMilli()),
		Type:      reqType,
		StaffID:   actor.ID.String(),
		StaffName: actor.Name,
		Base:      actor.Base,
		Items:     items,
		Status:    models.RequestPending,
		Timestamp: now,
	}
	if reqType.NeedsTarget() {
		request.TargetLocation = &targetLocation
		request.TargetDate = &targetDate
	}

	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("persisting request: %w", err)
	}

	if err := s.auditSvc.LogActivity(ctx, "request", request.ID, "created", request.StaffID, models.JSONB{"type": string(reqType), "items": len(items)}); err != nil {
		log.Printf("Failed to audit request creation %s: %v", request.ID, err)
	}

	return request, nil
}

func (s *requestService) ProcessRequest(ctx context.Context, actor *models.User, requestID string, approved bool, reason string) (*models.MovementRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("loading request %s: %w", requestID, err)
	}

	if request.Status.Terminal() {
		return request, ErrRequestFinal
	}

	// Each gate belongs to exactly one role. A storekeeper only ever
	// processes PENDING, a base manager only PENDING_MANAGER.
	actorID := actor.ID.String()
	switch actor.Role {
	case models.RoleStorekeeper:
		if request.Status != models.RequestPending {
			return nil, ErrNotAuthorized
		}
	case models.RoleBaseManager:
		if request.Status != models.RequestPendingManager {
			return nil, ErrNotAuthorized
		}
	default:
		return nil, ErrNotAuthorized
	}

	if approved {
		switch actor.Role {
		case models.RoleStorekeeper:
			request.StorekeeperID = &actorID
			if request.Type.NeedsManagerGate() {
				request.Status = models.RequestPendingManager
			} else {
				request.Status = models.RequestApproved
			}
		case models.RoleBaseManager:
			request.ManagerID = &actorID
			request.Status = models.RequestApproved
		}
		if reason != "" {
			request.ReportReason = &reason
		}
	} else {
		request.Status = models.RequestRejected
		if reason != "" {
			request.RejectionReason = &reason
		}
	}

	if err := s.requestRepo.UpdateDecision(ctx, request); err != nil {
		return nil, fmt.Errorf("persisting decision for %s: %w", requestID, err)
	}

	if err := s.auditSvc.LogActivity(ctx, "request", request.ID, string(request.Status), actorID, models.JSONB{"approved": approved}); err != nil {
		log.Printf("Failed to audit decision on %s: %v", request.ID, err)
	}

	// Only APPROVED touches inventory. PENDING_MANAGER is an
	// intermediate, non-mutating state.
	if request.Status == models.RequestApproved {
		if err := s.applyMovement(ctx, request); err != nil {
			return request, err
		}
	}

	return request, nil
}

// applyMovement writes the approval effects to every line item. Items are
// updated independently; failures are joined and surfaced so the caller can
// reconcile by re-fetching, never swallowed.
func (s *requestService) applyMovement(ctx context.Context, request *models.MovementRequest) error {
	movement, ok := movementFor(request)
	if !ok {
		return nil
	}

	var errs []error
	for _, item := range request.Items {
		if err := s.itemRepo.ApplyMovement(ctx, item.ItemID, movement); err != nil {
			errs = append(errs, fmt.Errorf("applying %s to item %s: %w", request.Type, item.ItemID, err))
		}
	}

	if cacheErr := s.cacheSvc.InvalidateBaseStats(ctx); cacheErr != nil {
		log.Printf("Failed to invalidate stats cache after %s: %v", request.ID, cacheErr)
	}

	return errors.Join(errs...)
}

// movementFor builds the partial item update an approved request implies.
func movementFor(request *models.MovementRequest) (*repositories.ItemMovement, bool) {
	switch request.Type {
	case models.RequestBorrow:
		pic := request.StaffName
		return &repositories.ItemMovement{
			CurrentLocation:   request.TargetLocation,
			SetPersonInCharge: true,
			PersonInCharge:    &pic,
			LastMovement:      request.TargetDate,
		}, true
	case models.RequestReturn:
		location := "In Store"
		if request.TargetLocation != nil && *request.TargetLocation != "" {
			location = *request.TargetLocation
		}
		status := models.StatusOK
		return &repositories.ItemMovement{
			CurrentLocation:   &location,
			SetPersonInCharge: true,
			PersonInCharge:    nil,
			LastMovement:      request.TargetDate,
			EquipmentStatus:   &status,
		}, true
	case models.RequestRosak, models.RequestScrap, models.RequestLost:
		status := request.Type.TargetStatus()
		return &repositories.ItemMovement{EquipmentStatus: &status}, true
	}
	return nil, false
}

func (s *requestService) UpdateItem(ctx context.Context, actor *models.User, item *models.InventoryItem) (*models.MovementRequest, error) {
	current, err := s.itemRepo.GetByID(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("loading item %s: %w", item.ID, err)
	}

	// Status degradation always goes through approval, even from the
	// edit form: swap the edit for a pending status-change request and
	// leave the item as it was.
	newStatus := strings.ToUpper(strings.TrimSpace(item.EquipmentStatus))
	oldStatus := strings.ToUpper(strings.TrimSpace(current.EquipmentStatus))
	if reqType, degraded := models.StatusChangeType(newStatus); degraded && newStatus != oldStatus {
		return s.CreateRequest(ctx, actor, []string{item.ID}, reqType, "", "")
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("updating item %s: %w", item.ID, err)
	}

	if cacheErr := s.cacheSvc.InvalidateBaseStats(ctx); cacheErr != nil {
		log.Printf("Failed to invalidate stats cache after editing %s: %v", item.ID, cacheErr)
	}

	return nil, nil
}

func (s *requestService) GetRequest(ctx context.Context, requestID string) (*models.MovementRequest, error) {
	return s.requestRepo.GetByID(ctx, requestID)
}

func (s *requestService) ListRequests(ctx context.Context) ([]*models.MovementRequest, error) {
	return s.requestRepo.List(ctx)
}
