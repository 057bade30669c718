package services

import (
	"basetrack/internal/models"
)

// AccessService is the stateless visibility and eligibility rule set shared
// by the lifecycle engine, the stats endpoints and the handlers. The rules
// only filter; they never mutate.
type AccessService interface {
	// VisibleItems filters an inventory snapshot to what the user may
	// see. Admins see every base and may narrow to one; everyone else
	// sees only their own base.
	VisibleItems(user *models.User, items []*models.InventoryItem, baseFilter string) []*models.InventoryItem

	// CanBorrow reports whether an item is selectable for a BORROW
	// request: nobody holds it and its status keeps it in circulation.
	CanBorrow(item *models.InventoryItem) bool

	// CanReturn reports whether the user may select an item for a
	// RETURN request: the custodian name must match exactly.
	CanReturn(user *models.User, item *models.InventoryItem) bool

	// PendingQueue is the action queue for approver roles: storekeepers
	// see PENDING requests at their base, base managers PENDING_MANAGER.
	PendingQueue(user *models.User, requests []*models.MovementRequest) []*models.MovementRequest

	// RequestHistory is the read-only request listing: admins see all,
	// staff their own, approver roles their base.
	RequestHistory(user *models.User, requests []*models.MovementRequest) []*models.MovementRequest
}

type accessService struct{}

func NewAccessService() AccessService {
	return &accessService{}
}

func (accessService) VisibleItems(user *models.User, items []*models.InventoryItem, baseFilter string) []*models.InventoryItem {
	visible := make([]*models.InventoryItem, 0, len(items))
	for _, item := range items {
		if user.Role == models.RoleAdmin {
			if baseFilter == "" || item.Base == baseFilter {
				visible = append(visible, item)
			}
			continue
		}
		if item.Base == user.Base {
			visible = append(visible, item)
		}
	}
	return visible
}

func (accessService) CanBorrow(item *models.InventoryItem) bool {
	return !item.InUse() && !item.Unavailable()
}

func (accessService) CanReturn(user *models.User, item *models.InventoryItem) bool {
	return item.PersonInCharge != nil && *item.PersonInCharge == user.Name
}

func (accessService) PendingQueue(user *models.User, requests []*models.MovementRequest) []*models.MovementRequest {
	var gate models.RequestStatus
	switch user.Role {
	case models.RoleStorekeeper:
		gate = models.RequestPending
	case models.RoleBaseManager:
		gate = models.RequestPendingManager
	default:
		return nil
	}

	var queue []*models.MovementRequest
	for _, request := range requests {
		if request.Status == gate && request.Base == user.Base {
			queue = append(queue, request)
		}
	}
	return queue
}

func (accessService) RequestHistory(user *models.User, requests []*models.MovementRequest) []*models.MovementRequest {
	var history []*models.MovementRequest
	for _, request := range requests {
		switch user.Role {
		case models.RoleAdmin:
			history = append(history, request)
		case models.RoleStaff:
			if request.StaffID == user.ID.String() {
				history = append(history, request)
			}
		default:
			if request.Base == user.Base {
				history = append(history, request)
			}
		}
	}
	return history
}
