package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Stats returns aggregate counts over users and sessions.
func (s *Server) Stats(c *gin.Context) {
	stats, err := s.authsvc.Stats(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}
