package handlers

import (
	"net/http"

	"basetrack/internal/common"
	"basetrack/internal/models"
	"basetrack/internal/services"

	"github.com/labstack/echo/v4"
)

type StatsHandlers struct {
	statsSvc services.StatsService
}

func NewStatsHandlers(statsSvc services.StatsService) *StatsHandlers {
	return &StatsHandlers{statsSvc: statsSvc}
}

// Dashboard returns the per-base counters. Admins get every base plus the
// grand total; everyone else gets their own base only.
func (h *StatsHandlers) Dashboard(c echo.Context) error {
	user, ok := common.GetUserFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	stats, err := h.statsSvc.PerBaseCached(c.Request().Context())
	if err != nil {
		return common.SendServerError(c, "Failed to compute stats")
	}

	if user.Role == models.RoleAdmin {
		return c.JSON(http.StatusOK, stats)
	}

	for _, base := range stats {
		if base.BaseName == user.Base {
			return c.JSON(http.StatusOK, []models.BaseStats{base})
		}
	}
	return c.JSON(http.StatusOK, []models.BaseStats{{BaseName: user.Base}})
}
