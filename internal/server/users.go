package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/trucomm/trucomm/internal/auth/domain"
	"github.com/trucomm/trucomm/pkg/db/pagination"
)

type listUsersQuery struct {
	pagination.Page
	Search string `form:"search"`
	Role   string `form:"role"`
	Status string `form:"status"`
}

type createUserRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	WorkEmail   string `json:"workEmail"`
	Designation string `json:"designation"`
	Password    string `json:"password"`
}

type updateStatusRequest struct {
	IsActive *bool `json:"isActive"`
}

type updateRoleRequest struct {
	Designation string `json:"designation"`
}

// ListUsers returns a filtered, paginated directory of standard users.
func (s *Server) ListUsers(c *gin.Context) {
	var q listUsersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		AbortWithError(c, badRequest("INVALID_QUERY", "Invalid query parameters"))
		return
	}
	q.Page = q.Page.Normalize(10)

	query := domain.ListUsersQuery{
		Search: q.Search,
		Role:   domain.Designation(q.Role),
		Offset: q.Offset(),
		Limit:  q.Limit,
	}
	switch q.Status {
	case "active":
		active := true
		query.Status = &active
	case "inactive":
		inactive := false
		query.Status = &inactive
	}

	users, total, err := s.authsvc.ListUsers(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"users":      users,
		"pagination": q.Info(total),
	})
}

// CreateUser provisions a standard account. The MMID and the software login
// email are generated server side and returned in the response.
func (s *Server) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, badRequest("MISSING_FIELDS", "Required fields are missing"))
		return
	}

	user, err := s.authsvc.CreateUser(c.Request.Context(), domain.CreateUserRequest{
		Username:    req.Username,
		Email:       req.Email,
		WorkEmail:   req.WorkEmail,
		Designation: domain.Designation(req.Designation),
		Password:    req.Password,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "user": user})
}

// GetUser returns a single user's record by id.
func (s *Server) GetUser(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, badRequest("INVALID_USER_ID", "Invalid user id"))
		return
	}

	user, err := s.authsvc.GetUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrPrincipalNotFound) {
			AbortWithError(c, &apiError{
				Status:  http.StatusNotFound,
				Code:    "USER_NOT_FOUND",
				Message: "User not found",
			})
			return
		}
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// UpdateUserStatus activates or deactivates a user. Deactivation also kills
// the user's active sessions. Callers cannot deactivate themselves.
func (s *Server) UpdateUserStatus(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, badRequest("INVALID_USER_ID", "Invalid user id"))
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsActive == nil {
		AbortWithError(c, badRequest("MISSING_STATUS", "isActive is required"))
		return
	}

	if principal, ok := CurrentPrincipal(c); ok &&
		principal.Kind == domain.KindUser && principal.ID == id && !*req.IsActive {
		AbortWithError(c, badRequest("SELF_DEACTIVATION", "Cannot deactivate your own account"))
		return
	}

	user, err := s.authsvc.SetUserStatus(c.Request.Context(), id, *req.IsActive)
	if err != nil {
		if errors.Is(err, domain.ErrPrincipalNotFound) {
			AbortWithError(c, &apiError{
				Status:  http.StatusNotFound,
				Code:    "USER_NOT_FOUND",
				Message: "User not found",
			})
			return
		}
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// UpdateUserRole changes a user's designation. Callers cannot change their
// own role.
func (s *Server) UpdateUserRole(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, badRequest("INVALID_USER_ID", "Invalid user id"))
		return
	}

	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Designation == "" {
		AbortWithError(c, badRequest("MISSING_ROLE", "designation is required"))
		return
	}

	if principal, ok := CurrentPrincipal(c); ok &&
		principal.Kind == domain.KindUser && principal.ID == id {
		AbortWithError(c, badRequest("SELF_ROLE_CHANGE", "Cannot change your own role"))
		return
	}

	user, err := s.authsvc.SetUserDesignation(c.Request.Context(), id, domain.Designation(req.Designation))
	if err != nil {
		if errors.Is(err, domain.ErrPrincipalNotFound) {
			AbortWithError(c, &apiError{
				Status:  http.StatusNotFound,
				Code:    "USER_NOT_FOUND",
				Message: "User not found",
			})
			return
		}
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}
