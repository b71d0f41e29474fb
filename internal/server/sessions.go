package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/trucomm/trucomm/internal/auth/domain"
	"github.com/trucomm/trucomm/pkg/db/pagination"
)

// ListSessions returns a page of currently active sessions with their
// owners resolved.
func (s *Server) ListSessions(c *gin.Context) {
	var page pagination.Page
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, badRequest("INVALID_PAGINATION", "Invalid pagination parameters"))
		return
	}
	page = page.Normalize(10)

	sessions, total, err := s.authsvc.ListSessions(c.Request.Context(), page.Offset(), page.Limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"sessions":   sessions,
		"pagination": page.Info(total),
	})
}

// RevokeSession deactivates a session by id, cutting off its holder
// immediately.
func (s *Server) RevokeSession(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, badRequest("INVALID_SESSION_ID", "Invalid session id"))
		return
	}

	session, err := s.authsvc.RevokeSession(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			AbortWithError(c, &apiError{
				Status:  http.StatusNotFound,
				Code:    "SESSION_NOT_FOUND",
				Message: "Session not found",
			})
			return
		}
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Session revoked",
		"session": session,
	})
}

func parseID(raw string) (snowflake.ID, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return snowflake.ID(n), nil
}
