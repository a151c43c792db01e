package handlers

import (
	"log/slog"
	"net/http"

	"github.com/complytrack/compliance-tracker-api/internal/services"
	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
	log              *slog.Logger
}

func NewDashboardHandler(dashboardService *services.DashboardService, log *slog.Logger) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, log: log}
}

func (h *DashboardHandler) filter(c *gin.Context) (services.DashboardFilter, bool) {
	companyID, ok := parseOptionalID(c, "company_id")
	if !ok {
		return services.DashboardFilter{}, false
	}
	return services.DashboardFilter{
		FinancialYear: c.Query("financial_year"),
		CompanyID:     companyID,
	}, true
}

// Stats returns task counts for the caller's visible tasks
func (h *DashboardHandler) Stats(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}
	filter, ok := h.filter(c)
	if !ok {
		return
	}

	stats, err := h.dashboardService.Stats(scope, filter)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Exceptions lists visible tasks finished after their planned date
func (h *DashboardHandler) Exceptions(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}
	filter, ok := h.filter(c)
	if !ok {
		return
	}

	rows, err := h.dashboardService.Exceptions(scope, filter)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exceptions": rows, "total": len(rows)})
}
