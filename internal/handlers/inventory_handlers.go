package handlers

import (
	"errors"
	"io"
	"net/http"

	"basetrack/internal/common"
	"basetrack/internal/models"
	"basetrack/internal/services"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

type InventoryHandlers struct {
	inventorySvc services.InventoryService
	requestSvc   services.RequestService
}

func NewInventoryHandlers(inventorySvc services.InventoryService, requestSvc services.RequestService) *InventoryHandlers {
	return &InventoryHandlers{inventorySvc: inventorySvc, requestSvc: requestSvc}
}

func (h *InventoryHandlers) ListItems(c echo.Context) error {
	user, ok := common.GetUserFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	items, err := h.inventorySvc.ListVisible(c.Request().Context(), user, c.QueryParam("base"))
	if err != nil {
		return common.SendServerError(c, "Failed to list inventory")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *InventoryHandlers) GetItem(c echo.Context) error {
	user, ok := common.GetUserFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	item, err := h.inventorySvc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if isNotFound(err) {
			return common.SendNotFoundError(c, "Item")
		}
		return common.SendServerError(c, "Failed to load item")
	}
	if user.Role != models.RoleAdmin && item.Base != user.Base {
		return common.SendForbiddenError(c, "Item belongs to another base")
	}
	return c.JSON(http.StatusOK, item)
}

func (h *InventoryHandlers) CreateItem(c echo.Context) error {
	user, ok := common.GetUserFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	item := &models.InventoryItem{}
	if err := c.Bind(item); err != nil {
		return common.SendClientError(c, "Invalid request body")
	}
	if err := common.ValidateRequiredString(item.Description, "description"); err != nil {
		return common.SendValidationError(c, "description", err.Error())
	}
	if user.Role != models.RoleAdmin {
		item.Base = user.Base
	}

	if err := h.inventorySvc.Create(c.Request().Context(), user, item); err != nil {
		return common.SendServerError(c, "Failed to create item")
	}
	return c.JSON(http.StatusCreated, item)
}

// UpdateItem applies a direct edit. When the edit degrades the equipment
// status the change is converted into a pending movement request and the
// item is left untouched; the response then carries the request instead of
// the item.
func (h *InventoryHandlers) UpdateItem(c echo.Context) error {
	user, ok := common.GetUserFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	item := &models.InventoryItem{}
	if err := c.Bind(item); err != nil {
		return common.SendClientError(c, "Invalid request body")
	}
	item.ID = c.Param("id")

	current, err := h.inventorySvc.Get(c.Request().Context(), item.ID)
	if err != nil {
		if isNotFound(err) {
			return common.SendNotFoundError(c, "Item")
		}
		return common.SendServerError(c, "Failed to load item")
	}
	if user.Role != models.RoleAdmin && current.Base != user.Base {
		return common.SendForbiddenError(c, "Item belongs to another base")
	}
	if user.Role != models.RoleAdmin {
		item.Base = current.Base
	}

	request, err := h.requestSvc.UpdateItem(c.Request().Context(), user, item)
	if err != nil {
		return common.SendServerError(c, "Failed to update item")
	}
	if request != nil {
		return c.JSON(http.StatusAccepted, echo.Map{
			"redirected": true,
			"request":    request,
		})
	}
	return c.JSON(http.StatusOK, item)
}

func (h *InventoryHandlers) ImportSheet(c echo.Context) error {
	user, ok := common.GetUserFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return common.SendValidationError(c, "file", "sheet file is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return common.SendServerError(c, "Failed to read uploaded sheet")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return common.SendServerError(c, "Failed to read uploaded sheet")
	}

	targetBase := c.FormValue("base")
	if user.Role != models.RoleAdmin {
		targetBase = user.Base
	}

	count, err := h.inventorySvc.Import(c.Request().Context(), user, data, targetBase)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"imported": count})
}

func (h *InventoryHandlers) ExportSheet(c echo.Context) error {
	user, ok := common.GetUserFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	url, err := h.inventorySvc.Export(c.Request().Context(), user, c.QueryParam("base"))
	if err != nil {
		return common.SendServerError(c, "Failed to export inventory")
	}
	return c.JSON(http.StatusOK, echo.Map{"url": url})
}

func (h *InventoryHandlers) ClearInventory(c echo.Context) error {
	user, ok := common.GetUserFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	if err := h.inventorySvc.Clear(c.Request().Context(), user, c.QueryParam("base")); err != nil {
		return common.SendServerError(c, "Failed to clear inventory")
	}
	return c.NoContent(http.StatusNoContent)
}

func isNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
