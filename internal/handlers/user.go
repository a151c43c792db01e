package handlers

import (
	"log/slog"
	"net/http"

	"github.com/complytrack/compliance-tracker-api/internal/dto"
	apierrors "github.com/complytrack/compliance-tracker-api/internal/errors"
	"github.com/complytrack/compliance-tracker-api/internal/services"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *services.UserService
	log         *slog.Logger
}

func NewUserHandler(userService *services.UserService, log *slog.Logger) *UserHandler {
	return &UserHandler{userService: userService, log: log}
}

// ListUsers returns all users with the companies and functions they can access
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.List()
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": dto.ToUserDTOs(users)})
}

// GrantAccess gives a user access to a (company, function) pair
func (h *UserHandler) GrantAccess(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type GrantRequest struct {
		CompanyID  uint64 `json:"company_id" binding:"required"`
		FunctionID uint64 `json:"function_id" binding:"required"`
	}

	var req GrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	grant, err := h.userService.Grant(userID, req.CompanyID, req.FunctionID)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToGrantDTO(*grant))
}

// RevokeAccess deactivates one of the user's grants
func (h *UserHandler) RevokeAccess(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	grantID, ok := parseIDParam(c, "grantId")
	if !ok {
		return
	}

	if err := h.userService.Revoke(userID, grantID); err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Access revoked successfully"})
}
