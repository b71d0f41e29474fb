package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/trucomm/trucomm/internal/auth/domain"
)

type loginRequest struct {
	SoftwareLoginEmail string `json:"softwareLoginEmail"`
	Password           string `json:"password"`
	// Clients self-report their address and agent; the connection's
	// values are the fallback.
	UserIP    string `json:"userIP"`
	UserAgent string `json:"userAgent"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Login authenticates a principal of the given kind and opens its single
// active session, evicting any previous one.
func (s *Server) Login(kind domain.PrincipalKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, badRequest("MISSING_CREDENTIALS", "Email and password are required"))
			return
		}
		if req.SoftwareLoginEmail == "" || req.Password == "" {
			AbortWithError(c, badRequest("MISSING_CREDENTIALS", "Email and password are required"))
			return
		}

		callerIP := req.UserIP
		if callerIP == "" {
			callerIP = c.ClientIP()
		}
		userAgent := req.UserAgent
		if userAgent == "" {
			userAgent = c.Request.UserAgent()
		}

		result, err := s.authsvc.Login(c.Request.Context(), kind, domain.LoginRequest{
			SoftwareLoginEmail: req.SoftwareLoginEmail,
			Password:           req.Password,
			CallerIP:           callerIP,
			UserAgent:          userAgent,
		})
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"accessToken":  result.AccessToken,
			"refreshToken": result.RefreshToken,
			"user":         result.Principal,
		})
	}
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token itself is untouched.
func (s *Server) Refresh(kind domain.PrincipalKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req refreshRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
			AbortWithError(c, badRequest("MISSING_REFRESH_TOKEN", "Refresh token is required"))
			return
		}

		result, err := s.authsvc.Refresh(c.Request.Context(), kind, req.RefreshToken)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"accessToken": result.AccessToken,
			"user":        result.Principal,
		})
	}
}

// Logout deactivates the session behind the supplied refresh token. It
// reports success regardless of token validity.
func (s *Server) Logout(kind domain.PrincipalKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req refreshRequest
		_ = c.ShouldBindJSON(&req)

		s.authsvc.Logout(c.Request.Context(), kind, req.RefreshToken)

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Logged out successfully",
		})
	}
}

// Profile returns the authenticated caller's sanitized record.
func (s *Server) Profile(kind domain.PrincipalKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			AbortWithError(c, domain.ErrAuthRequired)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"user":    principal,
		})
	}
}
