package models

import (
	"strings"
	"time"
)

// RequestType is the kind of change a movement request proposes.
type RequestType string

const (
	RequestBorrow RequestType = "BORROW"
	RequestReturn RequestType = "RETURN"
	RequestRosak  RequestType = "ROSAK"
	RequestScrap  RequestType = "SCRAP"
	RequestLost   RequestType = "LOST"
)

func (t RequestType) Valid() bool {
	switch t {
	case RequestBorrow, RequestReturn, RequestRosak, RequestScrap, RequestLost:
		return true
	}
	return false
}

// NeedsManagerGate reports whether storekeeper approval routes the request
// to the base manager instead of finalizing it. Only RETURN skips the
// manager gate.
func (t RequestType) NeedsManagerGate() bool {
	switch t {
	case RequestBorrow, RequestRosak, RequestScrap, RequestLost:
		return true
	}
	return false
}

// NeedsReason reports whether approval must carry a report reason. Enforced
// at the handler boundary, not by the lifecycle engine.
func (t RequestType) NeedsReason() bool {
	switch t {
	case RequestRosak, RequestScrap, RequestLost:
		return true
	}
	return false
}

// NeedsTarget reports whether the request carries a target location and
// date. Meaningless for the status-change types.
func (t RequestType) NeedsTarget() bool {
	return t == RequestBorrow || t == RequestReturn
}

// TargetStatus is the equipment status applied on approval of a
// status-change request, empty for movement types.
func (t RequestType) TargetStatus() string {
	switch t {
	case RequestRosak:
		return StatusRosak
	case RequestScrap:
		return StatusSkrap
	case RequestLost:
		return StatusHilang
	}
	return ""
}

// StatusChangeType maps a degraded equipment status (exact match after
// trim/uppercase) to the request type that must approve it. ok=false means
// the status is not a degradation.
func StatusChangeType(status string) (RequestType, bool) {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case StatusRosak:
		return RequestRosak, true
	case StatusSkrap:
		return RequestScrap, true
	case StatusHilang, StatusLost:
		return RequestLost, true
	}
	return "", false
}

// RequestStatus is the lifecycle state of a movement request.
type RequestStatus string

const (
	RequestPending        RequestStatus = "PENDING"
	RequestPendingManager RequestStatus = "PENDING_MANAGER"
	RequestApproved       RequestStatus = "APPROVED"
	RequestRejected       RequestStatus = "REJECTED"
)

// Terminal reports whether the status can never transition again.
func (s RequestStatus) Terminal() bool {
	return s == RequestApproved || s == RequestRejected
}

// RequestItem is a line-item snapshot frozen at request creation. It is
// never re-synced to later edits of the underlying item; that is the audit
// trail the approval forms are printed from.
type RequestItem struct {
	ItemID      string `json:"itemId"`
	Description string `json:"description"`
	SerialNo    string `json:"serialNo"`
}

// MovementRequest is a proposed change to one or more inventory items,
// routed through the storekeeper and (conditionally) manager gates.
type MovementRequest struct {
	ID              string        `json:"id" db:"id"`
	Type            RequestType   `json:"type" db:"type"`
	StaffID         string        `json:"staffId" db:"staff_id"`
	StaffName       string        `json:"staffName" db:"staff_name"`
	Base            string        `json:"base" db:"base"` // fixed at creation from the requester
	StorekeeperID   *string       `json:"storekeeperId,omitempty" db:"storekeeper_id"`
	ManagerID       *string       `json:"managerId,omitempty" db:"manager_id"`
	Items           []RequestItem `json:"items" db:"items"`
	Status          RequestStatus `json:"status" db:"status"`
	Timestamp       time.Time     `json:"timestamp" db:"timestamp"`
	RejectionReason *string       `json:"rejectionReason,omitempty" db:"rejection_reason"`
	ReportReason    *string       `json:"reportReason,omitempty" db:"report_reason"`
	TargetLocation  *string       `json:"targetLocation,omitempty" db:"target_location"`
	TargetDate      *string       `json:"targetDate,omitempty" db:"target_date"`
}
