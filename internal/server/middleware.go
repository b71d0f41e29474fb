package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/trucomm/trucomm/internal/auth/domain"
	"github.com/trucomm/trucomm/pkg/log"
	"go.uber.org/zap"
)

const principalKey = "auth.principal"

// RequestLogger tags every request with an id and emits a completion line.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-Id", requestID)
		c.Request = c.Request.WithContext(
			log.WithRequestID(c.Request.Context(), requestID))

		c.Next()

		logger.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
		)
	}
}

// AuthRequired verifies the bearer token and resolves the caller. The
// resolved principal is stored on the context for downstream handlers.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := s.authsvc.Authenticate(c.Request.Context(), bearerToken(c))
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.Set(principalKey, principal)
		c.Next()
	}
}

// FreshSession confirms the caller still holds a usable session and slides
// its expiry forward when it is about to lapse.
func (s *Server) FreshSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			AbortWithError(c, domain.ErrAuthRequired)
			return
		}
		if err := s.authsvc.EnsureFreshSession(c.Request.Context(), principal); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

// ObserveIP records the caller's current address when it drifts from the one
// stored at login. Failures never block the request.
func (s *Server) ObserveIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		if principal, ok := CurrentPrincipal(c); ok {
			s.authsvc.ObserveIP(c.Request.Context(), principal, c.ClientIP())
		}
		c.Next()
	}
}

// RequireRole gates a route to callers holding one of the given
// designations. Super-admins carry a forced ADMIN designation, so a gate
// that admits ADMIN admits them too; there is no separate bypass.
func (s *Server) RequireRole(roles ...domain.Designation) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			AbortWithError(c, domain.ErrAuthRequired)
			return
		}
		for _, role := range roles {
			if principal.Designation == role {
				c.Next()
				return
			}
		}
		AbortWithError(c, domain.NewPermissionError(principal.Designation, roles...))
	}
}

func (s *Server) RequireAdmin() gin.HandlerFunc {
	return s.RequireRole(domain.DesignationAdmin)
}

func (s *Server) RequireAdminOrCEO() gin.HandlerFunc {
	return s.RequireRole(domain.DesignationAdmin, domain.DesignationCEO)
}

func (s *Server) RequireManagement() gin.HandlerFunc {
	return s.RequireRole(domain.DesignationAdmin, domain.DesignationCEO, domain.DesignationHR)
}

// CurrentPrincipal returns the authenticated caller set by AuthRequired.
func CurrentPrincipal(c *gin.Context) (*domain.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	principal, ok := v.(*domain.Principal)
	return principal, ok
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
