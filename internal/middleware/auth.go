package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/complytrack/compliance-tracker-api/internal/access"
	"github.com/complytrack/compliance-tracker-api/internal/auth"
	"github.com/complytrack/compliance-tracker-api/internal/constants"
	apierrors "github.com/complytrack/compliance-tracker-api/internal/errors"
	"github.com/complytrack/compliance-tracker-api/internal/models"
	"github.com/gin-gonic/gin"
)

// TokenAuthenticator validates a raw bearer token
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
}

// ScopeLoader resolves the current user row and its grants
type ScopeLoader interface {
	Load(userID uint64) (*models.User, access.Scope, error)
}

// RequireAuth validates the bearer token, then reloads the user so that a
// deactivated account or a changed role takes effect immediately.
func RequireAuth(authenticator TokenAuthenticator, loader ScopeLoader, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractToken(c.GetHeader("Authorization"))
		if err != nil {
			apierrors.AbortWithError(c, http.StatusUnauthorized,
				apierrors.NewAPIError(apierrors.ErrCodeUnauthorized, "Authentication required"))
			return
		}

		claims, err := authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			log.Warn("rejected bearer token",
				slog.String("request_id", c.GetString(constants.ContextKeyReqID)),
				slog.String("error", err.Error()),
			)
			apierrors.AbortWithError(c, http.StatusUnauthorized,
				apierrors.NewAPIError(apierrors.ErrCodeUnauthorized, "Invalid or expired token"))
			return
		}

		user, scope, err := loader.Load(claims.UserID)
		if err != nil {
			if errors.Is(err, access.ErrUnknownUser) || errors.Is(err, access.ErrInactiveUser) {
				apierrors.AbortWithError(c, http.StatusUnauthorized,
					apierrors.NewAPIError(apierrors.ErrCodeUnauthorized, "Account is not active"))
				return
			}
			log.Error("failed to load access scope", slog.Uint64("user_id", claims.UserID), slog.String("error", err.Error()))
			apierrors.AbortWithError(c, http.StatusInternalServerError,
				apierrors.NewAPIError(apierrors.ErrCodeInternalError, "Internal server error"))
			return
		}

		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyClaims, claims)
		c.Set(constants.ContextKeyScope, scope)
		c.Next()
	}
}

// RequireRoles rejects callers whose current role is not in roles.
// Must run after RequireAuth.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope, ok := GetScope(c)
		if !ok {
			apierrors.AbortWithError(c, http.StatusUnauthorized,
				apierrors.NewAPIError(apierrors.ErrCodeUnauthorized, "Authentication required"))
			return
		}
		if !scope.HasRole(roles...) {
			apierrors.AbortWithError(c, http.StatusForbidden,
				apierrors.NewAPIError(apierrors.ErrCodeForbidden, "You do not have permission to access this resource"))
			return
		}
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

// GetScope retrieves the caller's access scope
func GetScope(c *gin.Context) (access.Scope, bool) {
	v, exists := c.Get(constants.ContextKeyScope)
	if !exists {
		return access.Scope{}, false
	}
	scope, ok := v.(access.Scope)
	return scope, ok
}

// GetClaims retrieves the validated token claims
func GetClaims(c *gin.Context) (*auth.Claims, bool) {
	v, exists := c.Get(constants.ContextKeyClaims)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}
