package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"basetrack/internal/common"
	"basetrack/internal/models"
	"basetrack/internal/repositories"
	"basetrack/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const formBucket = "basetrack-artifacts"

type RequestHandlers struct {
	requestSvc services.RequestService
	accessSvc  services.AccessService
	formSvc    services.FormService
	userRepo   repositories.UserRepository
	minioSvc   services.MinioService
}

func NewRequestHandlers(requestSvc services.RequestService, accessSvc services.AccessService, formSvc services.FormService, userRepo repositories.UserRepository, minioSvc services.MinioService) *RequestHandlers {
	return &RequestHandlers{requestSvc: requestSvc, accessSvc: accessSvc, formSvc: formSvc, userRepo: userRepo, minioSvc: minioSvc}
}

type createRequestRequest struct {
	Type           models.RequestType `json:"type"`
	ItemIDs        []string           `json:"itemIds"`
	TargetLocation string             `json:"targetLocation"`
	TargetDate     string             `json:"targetDate"`
}

func (h *RequestHandlers) CreateRequest(c echo.Context) error {
	user, ok := common.GetUserFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req createRequestRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request body")
	}
	if err := common.ValidateDateFormat(req.TargetDate, "targetDate"); err != nil {
		return common.SendValidationError(c, "targetDate", err.Error())
	}

	request, err := h.requestSvc.CreateRequest(c.Request().Context(), user, req.ItemIDs, req.Type, req.TargetLocation, req.TargetDate)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoItems):
			return common.SendValidationError(c, "itemIds", "at least one item is required")
		case errors.Is(err, services.ErrTargetMissing):
			return common.SendValidationError(c, "targetLocation", "target location and date are required")
		default:
			return common.SendClientError(c, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, request)
}

type processRequestRequest struct {
	Approved bool   `json:"approved"`
	Reason   string `json:"reason"`
}

func (h *RequestHandlers) ProcessRequest(c echo.Context) error {
	user, ok := common.GetUserFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req processRequestRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request body")
	}

	requestID := c.Param("id")
	current, err := h.requestSvc.GetRequest(c.Request().Context(), requestID)
	if err != nil {
		if isNotFound(err) {
			return common.SendNotFoundError(c, "Request")
		}
		return common.SendServerError(c, "Failed to load request")
	}
	if user.Role != models.RoleAdmin && current.Base != user.Base {
		return common.SendForbiddenError(c, "Request belongs to another base")
	}

	// Damage, scrap and loss reports need a written account before they
	// can be approved; the form is meaningless without one.
	if req.Approved && current.Type.NeedsReason() && req.Reason == "" {
		return common.SendValidationError(c, "reason", fmt.Sprintf("a report is required to approve a %s request", current.Type))
	}

	request, err := h.requestSvc.ProcessRequest(c.Request().Context(), user, requestID, req.Approved, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRequestFinal):
			return c.JSON(http.StatusConflict, common.CreateErrorResponse("REQUEST_FINAL", "Request is already finalized", nil))
		case errors.Is(err, services.ErrNotAuthorized):
			return common.SendForbiddenError(c, "Role cannot act on this request state")
		default:
			return common.SendServerError(c, "Failed to process request")
		}
	}
	return c.JSON(http.StatusOK, request)
}

func (h *RequestHandlers) ListRequests(c echo.Context) error {
	user, ok := common.GetUserFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	requests, err := h.requestSvc.ListRequests(c.Request().Context())
	if err != nil {
		return common.SendServerError(c, "Failed to list requests")
	}
	return c.JSON(http.StatusOK, h.accessSvc.RequestHistory(user, requests))
}

func (h *RequestHandlers) PendingRequests(c echo.Context) error {
	user, ok := common.GetUserFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	requests, err := h.requestSvc.ListRequests(c.Request().Context())
	if err != nil {
		return common.SendServerError(c, "Failed to list requests")
	}
	return c.JSON(http.StatusOK, h.accessSvc.PendingQueue(user, requests))
}

// DownloadForm renders the printable quality form for a request.
func (h *RequestHandlers) DownloadForm(c echo.Context) error {
	user, ok := common.GetUserFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	request, err := h.requestSvc.GetRequest(c.Request().Context(), c.Param("id"))
	if err != nil {
		if isNotFound(err) {
			return common.SendNotFoundError(c, "Request")
		}
		return common.SendServerError(c, "Failed to load request")
	}

	if user.Role != models.RoleAdmin && request.Base != user.Base && request.StaffID != user.ID.String() {
		return common.SendForbiddenError(c, "Request belongs to another base")
	}

	ctx := c.Request().Context()
	pdf, err := h.formSvc.RenderRequestForm(request, h.resolveName(ctx, request.StorekeeperID), h.resolveName(ctx, request.ManagerID))
	if err != nil {
		return common.SendServerError(c, "Failed to render form")
	}

	config := services.FormConfigFor(request.Type)

	// Keep a copy of the printed form alongside the exports; failure to
	// archive must not block the download.
	objectName := fmt.Sprintf("forms/%s_%s_%d.pdf", config.ID, request.ID, time.Now().UnixMilli())
	if err := h.minioSvc.EnsureBucketExists(ctx, formBucket); err != nil {
		log.Printf("Failed to prepare form bucket: %v", err)
	} else if err := h.minioSvc.UploadArtifact(ctx, formBucket, objectName, "application/pdf", bytes.NewReader(pdf), int64(len(pdf))); err != nil {
		log.Printf("Failed to archive form %s: %v", objectName, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s_%s.pdf"`, config.ID, request.ID))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

// resolveName looks up an approver's display name, empty when the gate has
// not been cleared or the account is gone.
func (h *RequestHandlers) resolveName(ctx context.Context, userID *string) string {
	if userID == nil {
		return ""
	}
	id, err := uuid.Parse(*userID)
	if err != nil {
		return ""
	}
	user, err := h.userRepo.GetByID(ctx, id)
	if err != nil {
		return ""
	}
	return user.Name
}
