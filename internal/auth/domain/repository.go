package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// ListUsersQuery filters the admin user listing.
type ListUsersQuery struct {
	Search string
	Role   Designation
	Status *bool
	Offset int
	Limit  int
}

// UserWithSessionCount augments a user row with its active session count.
type UserWithSessionCount struct {
	User
	ActiveSessions int64 `json:"activeSessions"`
}

// RoleCount is one bucket of the designation distribution aggregate.
type RoleCount struct {
	Designation Designation `json:"designation"`
	Count       int64       `json:"count"`
}

// Repository is the credential store. Both account tables sit behind it;
// every lookup is scoped by PrincipalKind so the two identity namespaces
// never mix.
type Repository interface {
	FindByLoginEmail(ctx context.Context, kind PrincipalKind, loginEmail string) (*Principal, string, error)
	FindByID(ctx context.Context, kind PrincipalKind, id snowflake.ID) (*Principal, error)
	// RecordLogin updates current_ip, and last_login_at for super admins.
	RecordLogin(ctx context.Context, kind PrincipalKind, id snowflake.ID, ip string, at time.Time) error
	UpdateCurrentIP(ctx context.Context, kind PrincipalKind, id snowflake.ID, ip string) error

	// CreateUser returns ErrDuplicateAccount on a unique-column collision.
	CreateUser(ctx context.Context, user *User) error

	ListUsers(ctx context.Context, q ListUsersQuery) ([]UserWithSessionCount, int64, error)
	GetUser(ctx context.Context, id snowflake.ID) (*User, error)
	SetUserStatus(ctx context.Context, id snowflake.ID, active bool) error
	SetUserDesignation(ctx context.Context, id snowflake.ID, d Designation) error
	CountUsers(ctx context.Context, activeOnly bool) (int64, error)
	RoleDistribution(ctx context.Context) ([]RoleCount, error)
}

// SessionRepository is the session store.
type SessionRepository interface {
	// FindActiveByRefreshToken requires is_active AND expires_at > now; the
	// row expiry is checked here independently of the token's own expiry.
	FindActiveByRefreshToken(ctx context.Context, token string, now time.Time) (*Session, error)
	FindActiveByOwner(ctx context.Context, kind PrincipalKind, ownerID snowflake.ID, now time.Time) (*Session, error)
	FindSessionByID(ctx context.Context, id snowflake.ID) (*Session, error)
	// ReplaceActiveSession evicts the owner's active sessions and creates
	// the new one in a single transaction (single-session policy).
	ReplaceActiveSession(ctx context.Context, session *Session, now time.Time) error
	DeactivateByRefreshToken(ctx context.Context, token string) error
	DeactivateSessionByID(ctx context.Context, id snowflake.ID) error
	DeactivateByOwner(ctx context.Context, kind PrincipalKind, ownerID snowflake.ID) error
	ExtendExpiry(ctx context.Context, id snowflake.ID, now, until time.Time) error
	ListActiveSessions(ctx context.Context, now time.Time, offset, limit int) ([]Session, int64, error)
	CountSessions(ctx context.Context, activeOnly bool) (int64, error)
	RecentActiveSessions(ctx context.Context, now time.Time, limit int) ([]Session, error)
}
