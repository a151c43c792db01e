package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/complytrack/compliance-tracker-api/internal/access"
	"github.com/complytrack/compliance-tracker-api/internal/constants"
	apierrors "github.com/complytrack/compliance-tracker-api/internal/errors"
	"github.com/complytrack/compliance-tracker-api/internal/middleware"
	"github.com/complytrack/compliance-tracker-api/internal/services"
	"github.com/gin-gonic/gin"
)

// parseIDParam reads a positive integer path parameter
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// parseOptionalID reads an optional positive integer query parameter
func parseOptionalID(c *gin.Context, name string) (*uint64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "Invalid "+name)
		return nil, false
	}
	return &id, true
}

func requireScope(c *gin.Context) (access.Scope, bool) {
	scope, ok := middleware.GetScope(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return access.Scope{}, false
	}
	return scope, true
}

// respondServiceError maps service errors onto API errors. Anything
// unrecognized is logged and reported as a 500.
func respondServiceError(c *gin.Context, log *slog.Logger, err error) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		apierrors.BadRequestWithDetails(c, "Validation failed", validationErr.Fields)
	case errors.Is(err, services.ErrEmptyFile):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, "Password must be at least "+strconv.Itoa(constants.MinPasswordLength)+" characters")
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrTaskEditForbidden),
		errors.Is(err, services.ErrCompanyAccessDenied):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrFileNotFound),
		errors.Is(err, services.ErrCompanyNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrGrantNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrCompanyCodeTaken),
		errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, err.Error())
	default:
		log.Error("request failed",
			slog.String("request_id", c.GetString(constants.ContextKeyReqID)),
			slog.String("path", c.FullPath()),
			slog.String("error", err.Error()),
		)
		apierrors.InternalError(c, "")
	}
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
