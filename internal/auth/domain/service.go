package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// LoginRequest carries the credentials and caller metadata for one login.
type LoginRequest struct {
	SoftwareLoginEmail string
	Password           string
	CallerIP           string
	UserAgent          string
}

// LoginResult is returned on successful login. The principal view is
// sanitized; the refresh token value is also the session's lookup key.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	Principal    *Principal
}

// RefreshResult carries the re-minted access token. The refresh token is not
// rotated.
type RefreshResult struct {
	AccessToken string
	Principal   *Principal
}

// CreateUserRequest carries the fields for admin-side account provisioning.
// The MMID and software login email are generated, never supplied.
type CreateUserRequest struct {
	Username    string
	Email       string
	WorkEmail   string
	Designation Designation
	Password    string
}

// SessionStats is the aggregate view for the admin stats endpoint.
type SessionStats struct {
	TotalUsers       int64              `json:"totalUsers"`
	ActiveUsers      int64              `json:"activeUsers"`
	TotalSessions    int64              `json:"totalSessions"`
	ActiveSessions   int64              `json:"activeSessions"`
	RoleDistribution []RoleCount        `json:"roleDistribution"`
	RecentLogins     []SessionWithOwner `json:"recentLogins"`
}

// Service is the session lifecycle manager and authenticator.
type Service interface {
	// Login verifies credentials, evicts the principal's previous active
	// sessions and creates a new one. Unknown email and wrong password
	// produce the identical ErrInvalidCredentials.
	Login(ctx context.Context, kind PrincipalKind, req LoginRequest) (*LoginResult, error)
	// Refresh mints a new access token for a live session. Both the token's
	// embedded expiry and the session row's expiry are checked.
	Refresh(ctx context.Context, kind PrincipalKind, refreshToken string) (*RefreshResult, error)
	// Logout deactivates the matching session. It is idempotent and never
	// reports failure to the caller.
	Logout(ctx context.Context, kind PrincipalKind, refreshToken string)
	// Authenticate resolves a bearer access token to a live principal,
	// re-checking account liveness and server-side session state. A valid
	// token without an active session fails with ErrSessionExpired.
	Authenticate(ctx context.Context, bearerToken string) (*Principal, error)
	// EnsureFreshSession applies sliding renewal: an active session within
	// five minutes of expiry is extended in place by seven days. Extension
	// failures are logged, not surfaced.
	EnsureFreshSession(ctx context.Context, principal *Principal) error
	// ObserveIP logs an IP mismatch and updates the stored address without
	// ever blocking the request.
	ObserveIP(ctx context.Context, principal *Principal, callerIP string)

	ListSessions(ctx context.Context, offset, limit int) ([]SessionWithOwner, int64, error)
	RevokeSession(ctx context.Context, id snowflake.ID) (*SessionWithOwner, error)

	// CreateUser provisions a standard account with a generated MMID and
	// software login email.
	CreateUser(ctx context.Context, req CreateUserRequest) (*User, error)
	ListUsers(ctx context.Context, q ListUsersQuery) ([]UserWithSessionCount, int64, error)
	GetUser(ctx context.Context, id snowflake.ID) (*User, error)
	// SetUserStatus toggles is_active; deactivation also deactivates every
	// session the user owns.
	SetUserStatus(ctx context.Context, id snowflake.ID, active bool) (*User, error)
	SetUserDesignation(ctx context.Context, id snowflake.ID, d Designation) (*User, error)
	Stats(ctx context.Context) (*SessionStats, error)
}
