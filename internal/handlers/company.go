package handlers

import (
	"log/slog"
	"net/http"

	"github.com/complytrack/compliance-tracker-api/internal/dto"
	apierrors "github.com/complytrack/compliance-tracker-api/internal/errors"
	"github.com/complytrack/compliance-tracker-api/internal/services"
	"github.com/gin-gonic/gin"
)

type CompanyHandler struct {
	companyService *services.CompanyService
	log            *slog.Logger
}

func NewCompanyHandler(companyService *services.CompanyService, log *slog.Logger) *CompanyHandler {
	return &CompanyHandler{companyService: companyService, log: log}
}

// ListCompanies returns active companies
func (h *CompanyHandler) ListCompanies(c *gin.Context) {
	companies, err := h.companyService.List()
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"companies": dto.ToCompanyDTOs(companies)})
}

func (h *CompanyHandler) GetCompany(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	company, err := h.companyService.Get(id)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCompanyDTO(*company))
}

func (h *CompanyHandler) CreateCompany(c *gin.Context) {
	type CreateCompanyRequest struct {
		Name string `json:"name" binding:"required"`
		Code string `json:"code" binding:"required"`
	}

	var req CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	company, err := h.companyService.Create(services.CompanyInput{Name: req.Name, Code: req.Code})
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToCompanyDTO(*company))
}

// UpdateCompany replaces name and code; is_active may reactivate a company
func (h *CompanyHandler) UpdateCompany(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateCompanyRequest struct {
		Name     string `json:"name" binding:"required"`
		Code     string `json:"code" binding:"required"`
		IsActive *bool  `json:"is_active"`
	}

	var req UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	company, err := h.companyService.Update(id, services.CompanyInput{
		Name:     req.Name,
		Code:     req.Code,
		IsActive: req.IsActive,
	})
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCompanyDTO(*company))
}

// DeleteCompany deactivates a company. Its tasks and grants are kept.
func (h *CompanyHandler) DeleteCompany(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.companyService.Deactivate(id); err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Company deactivated successfully"})
}
