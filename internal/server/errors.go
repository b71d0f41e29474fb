package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/trucomm/trucomm/internal/auth/domain"
	"github.com/trucomm/trucomm/pkg/log"
	"go.uber.org/zap"
)

// apiError carries the wire shape for failures: a human-readable message
// plus a stable machine code that clients branch on.
type apiError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *apiError) Error() string { return e.Message }

func badRequest(code, msg string) *apiError {
	return &apiError{Status: http.StatusBadRequest, Code: code, Message: msg}
}

// AbortWithError funnels handler failures into the error middleware.
func AbortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ErrorHandlingMiddleware renders the first error attached to the context
// after the handler chain has run.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors[0].Err

		var api *apiError
		if errors.As(err, &api) {
			c.JSON(api.Status, api)
			return
		}

		var perm *domain.PermissionError
		if errors.As(err, &perm) {
			c.JSON(http.StatusForbidden, gin.H{
				"error":    "Insufficient permissions",
				"code":     "INSUFFICIENT_PERMISSIONS",
				"required": perm.Required,
				"current":  perm.Current,
			})
			return
		}

		status, code, msg := mapDomainError(err)
		if status == http.StatusInternalServerError {
			log.L(c.Request.Context()).Error("request failed",
				zap.String("path", c.FullPath()),
				zap.Error(err))
		}
		c.JSON(status, gin.H{"error": msg, "code": code})
	}
}

func mapDomainError(err error) (int, string, string) {
	switch {
	case errors.Is(err, domain.ErrNoToken):
		return http.StatusUnauthorized, "NO_TOKEN", "Access token required"
	case errors.Is(err, domain.ErrTokenExpired):
		return http.StatusForbidden, "TOKEN_EXPIRED", "Token expired"
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusForbidden, "INVALID_TOKEN", "Invalid or expired token"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials"
	case errors.Is(err, domain.ErrAccountDeactivated):
		return http.StatusUnauthorized, "ACCOUNT_DEACTIVATED", "Account is deactivated"
	case errors.Is(err, domain.ErrPrincipalNotFound):
		return http.StatusUnauthorized, "USER_NOT_FOUND", "User not found"
	case errors.Is(err, domain.ErrSessionExpired):
		return http.StatusUnauthorized, "SESSION_EXPIRED", "Session expired or invalidated"
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusUnauthorized, "SESSION_NOT_FOUND", "No active session found"
	case errors.Is(err, domain.ErrInvalidRefreshToken):
		return http.StatusUnauthorized, "INVALID_REFRESH_TOKEN", "Invalid or expired refresh token"
	case errors.Is(err, domain.ErrAuthRequired):
		return http.StatusUnauthorized, "AUTH_REQUIRED", "Authentication required"
	case errors.Is(err, domain.ErrInvalidDesignation):
		return http.StatusBadRequest, "INVALID_ROLE", "Invalid role"
	case errors.Is(err, domain.ErrMissingFields):
		return http.StatusBadRequest, "MISSING_FIELDS", "Required fields are missing"
	case errors.Is(err, domain.ErrDuplicateAccount):
		return http.StatusConflict, "USER_EXISTS", "Account already exists"
	case errors.Is(err, domain.ErrSessionValidation):
		return http.StatusInternalServerError, "SESSION_VALIDATION_ERROR", "Session validation failed"
	default:
		return http.StatusInternalServerError, "AUTH_ERROR", "Internal authentication error"
	}
}
