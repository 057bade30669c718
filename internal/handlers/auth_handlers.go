package handlers

import (
	"errors"
	"net/http"

	"basetrack/internal/common"
	"basetrack/internal/services"

	"github.com/labstack/echo/v4"
)

type AuthHandlers struct {
	authSvc services.AuthService
}

func NewAuthHandlers(authSvc services.AuthService) *AuthHandlers {
	return &AuthHandlers{authSvc: authSvc}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandlers) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request body")
	}
	if err := common.ValidateRequiredString(req.Username, "username"); err != nil {
		return common.SendValidationError(c, "username", err.Error())
	}
	if err := common.ValidateRequiredString(req.Password, "password"); err != nil {
		return common.SendValidationError(c, "password", err.Error())
	}

	tokens, err := h.authSvc.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return common.SendUnauthorizedError(c)
		}
		return common.SendServerError(c, "Login failed")
	}

	return c.JSON(http.StatusOK, tokens)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandlers) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request body")
	}
	if err := common.ValidateRequiredString(req.RefreshToken, "refresh_token"); err != nil {
		return common.SendValidationError(c, "refresh_token", err.Error())
	}

	tokens, err := h.authSvc.RefreshToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return common.SendUnauthorizedError(c)
	}

	return c.JSON(http.StatusOK, tokens)
}

func (h *AuthHandlers) Logout(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request body")
	}
	if req.RefreshToken != "" {
		if err := h.authSvc.Logout(c.Request().Context(), req.RefreshToken); err != nil {
			return common.SendServerError(c, "Logout failed")
		}
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandlers) Me(c echo.Context) error {
	user, ok := common.GetUserFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	return c.JSON(http.StatusOK, user.Public())
}
