package handlers

import (
	"net/http"

	"basetrack/internal/common"
	"basetrack/internal/models"
	"basetrack/internal/repositories"
	"basetrack/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type UserHandlers struct {
	userRepo repositories.UserRepository
	authSvc  services.AuthService
}

func NewUserHandlers(userRepo repositories.UserRepository, authSvc services.AuthService) *UserHandlers {
	return &UserHandlers{userRepo: userRepo, authSvc: authSvc}
}

type createUserRequest struct {
	Name     string      `json:"name"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
	Base     string      `json:"base"`
}

func (h *UserHandlers) CreateUser(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request body")
	}
	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return common.SendValidationError(c, "name", err.Error())
	}
	if err := common.ValidateRequiredString(req.Username, "username"); err != nil {
		return common.SendValidationError(c, "username", err.Error())
	}
	if err := common.ValidateRequiredString(req.Password, "password"); err != nil {
		return common.SendValidationError(c, "password", err.Error())
	}
	if !req.Role.Valid() {
		return common.SendValidationError(c, "role", "unknown role")
	}

	base := req.Base
	if req.Role == models.RoleAdmin {
		base = models.HQBase
	} else if err := common.ValidateRequiredString(base, "base"); err != nil {
		return common.SendValidationError(c, "base", err.Error())
	}

	hash, err := h.authSvc.HashPassword(req.Password)
	if err != nil {
		return common.SendServerError(c, "Failed to hash password")
	}

	user := &models.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		Base:         base,
	}
	if err := h.userRepo.Create(c.Request().Context(), user); err != nil {
		return common.SendServerError(c, "Failed to create user")
	}

	return c.JSON(http.StatusCreated, user.Public())
}

func (h *UserHandlers) ListUsers(c echo.Context) error {
	users, err := h.userRepo.List(c.Request().Context())
	if err != nil {
		return common.SendServerError(c, "Failed to list users")
	}

	public := make([]*models.User, 0, len(users))
	for _, user := range users {
		public = append(public, user.Public())
	}
	return c.JSON(http.StatusOK, public)
}
