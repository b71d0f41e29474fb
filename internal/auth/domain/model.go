// Package domain contains core types for the accounts auth service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Designation is the role label carried by standard users.
type Designation string

const (
	DesignationAdmin    Designation = "ADMIN"
	DesignationCEO      Designation = "CEO"
	DesignationHR       Designation = "HR"
	DesignationEmployee Designation = "EMPLOYEE"
)

// Valid reports whether d is one of the four known designations.
func (d Designation) Valid() bool {
	switch d {
	case DesignationAdmin, DesignationCEO, DesignationHR, DesignationEmployee:
		return true
	}
	return false
}

// PrincipalKind discriminates the two disjoint account tables.
type PrincipalKind string

const (
	KindUser       PrincipalKind = "user"
	KindSuperAdmin PrincipalKind = "super_admin"
)

func (k PrincipalKind) Valid() bool {
	return k == KindUser || k == KindSuperAdmin
}

// User is a standard account.
type User struct {
	ID                 snowflake.ID `gorm:"primaryKey" json:"id"`
	Username           string       `gorm:"type:text;not null;uniqueIndex" json:"username"`
	Email              string       `gorm:"type:text;not null;uniqueIndex" json:"email"`
	WorkEmail          string       `gorm:"column:work_email;type:text" json:"workEmail"`
	SoftwareLoginEmail string       `gorm:"column:software_login_email;type:text;not null;uniqueIndex" json:"softwareLoginEmail"`
	Designation        Designation  `gorm:"type:text;not null;default:'EMPLOYEE'" json:"designation"`
	PasswordHash       string       `gorm:"column:password_hash;type:text;not null" json:"-"`
	IsActive           bool         `gorm:"column:is_active;not null;default:true" json:"isActive"`
	CurrentIP          string       `gorm:"column:current_ip;type:text" json:"currentIP,omitempty"`
	MMID               string       `gorm:"column:mmid;type:text;not null;uniqueIndex" json:"mmid"`
	CreatedAt          time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt          time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }

// SuperAdmin is an elevated account. It has no stored designation; it is
// always treated as ADMIN for authorization.
type SuperAdmin struct {
	ID                 snowflake.ID `gorm:"primaryKey" json:"id"`
	Username           string       `gorm:"type:text;not null;uniqueIndex" json:"username"`
	Email              string       `gorm:"type:text;not null;uniqueIndex" json:"email"`
	WorkEmail          string       `gorm:"column:work_email;type:text" json:"workEmail"`
	SoftwareLoginEmail string       `gorm:"column:software_login_email;type:text;not null;uniqueIndex" json:"softwareLoginEmail"`
	PasswordHash       string       `gorm:"column:password_hash;type:text;not null" json:"-"`
	IsActive           bool         `gorm:"column:is_active;not null;default:true" json:"isActive"`
	CurrentIP          string       `gorm:"column:current_ip;type:text" json:"currentIP,omitempty"`
	MMID               string       `gorm:"column:mmid;type:text;not null;uniqueIndex" json:"mmid"`
	LastLoginAt        *time.Time   `gorm:"column:last_login_at" json:"lastLoginAt,omitempty"`
	CreatedAt          time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt          time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName sets the database table name.
func (SuperAdmin) TableName() string { return "super_admins" }

// Session is one login event. Rows are deactivated, never deleted, so the
// table doubles as a login audit trail. A session is usable only while
// IsActive is true AND ExpiresAt is in the future; the two conditions are
// independent (logout flips the flag, natural expiry is time-based).
type Session struct {
	ID           snowflake.ID  `gorm:"primaryKey" json:"id"`
	OwnerID      snowflake.ID  `gorm:"column:owner_id;not null;index:idx_sessions_owner" json:"ownerId"`
	OwnerKind    PrincipalKind `gorm:"column:owner_kind;type:text;not null;index:idx_sessions_owner" json:"ownerKind"`
	RefreshToken string        `gorm:"column:refresh_token;type:text;not null;uniqueIndex" json:"-"`
	IPAddress    string        `gorm:"column:ip_address;type:text" json:"ipAddress"`
	UserAgent    string        `gorm:"column:user_agent;type:text" json:"userAgent"`
	IsActive     bool          `gorm:"column:is_active;not null;default:true" json:"isActive"`
	ExpiresAt    time.Time     `gorm:"column:expires_at;not null;index" json:"expiresAt"`
	CreatedAt    time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt    time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName sets the database table name.
func (Session) TableName() string { return "sessions" }

// Usable reports whether the session is logically live at the given instant.
func (s Session) Usable(now time.Time) bool {
	return s.IsActive && s.ExpiresAt.After(now)
}

// Principal is the resolved identity attached to a request. It never carries
// the password hash; Designation is forced to ADMIN for super admins.
type Principal struct {
	Kind               PrincipalKind `json:"-"`
	ID                 snowflake.ID  `json:"id"`
	Username           string        `json:"username"`
	Email              string        `json:"email"`
	WorkEmail          string        `json:"workEmail"`
	SoftwareLoginEmail string        `json:"softwareLoginEmail"`
	Designation        Designation   `json:"designation"`
	IsActive           bool          `json:"isActive"`
	CurrentIP          string        `json:"currentIP,omitempty"`
	MMID               string        `json:"mmid"`
	LastLoginAt        *time.Time    `json:"lastLoginAt,omitempty"`
	CreatedAt          time.Time     `json:"createdAt"`
}

// IsElevated reports whether the principal came from the super-admin table.
func (p Principal) IsElevated() bool {
	return p.Kind == KindSuperAdmin
}

// PrincipalFromUser builds the resolved view of a standard account.
func PrincipalFromUser(u *User) *Principal {
	return &Principal{
		Kind:               KindUser,
		ID:                 u.ID,
		Username:           u.Username,
		Email:              u.Email,
		WorkEmail:          u.WorkEmail,
		SoftwareLoginEmail: u.SoftwareLoginEmail,
		Designation:        u.Designation,
		IsActive:           u.IsActive,
		CurrentIP:          u.CurrentIP,
		MMID:               u.MMID,
		CreatedAt:          u.CreatedAt,
	}
}

// PrincipalFromSuperAdmin builds the resolved view of an elevated account.
func PrincipalFromSuperAdmin(sa *SuperAdmin) *Principal {
	return &Principal{
		Kind:               KindSuperAdmin,
		ID:                 sa.ID,
		Username:           sa.Username,
		Email:              sa.Email,
		WorkEmail:          sa.WorkEmail,
		SoftwareLoginEmail: sa.SoftwareLoginEmail,
		Designation:        DesignationAdmin,
		IsActive:           sa.IsActive,
		CurrentIP:          sa.CurrentIP,
		MMID:               sa.MMID,
		LastLoginAt:        sa.LastLoginAt,
		CreatedAt:          sa.CreatedAt,
	}
}

// OwnerSummary is the minimal owner view exposed in session listings.
type OwnerSummary struct {
	ID          snowflake.ID  `json:"id"`
	Kind        PrincipalKind `json:"kind"`
	Username    string        `json:"username"`
	Email       string        `json:"email"`
	Designation Designation   `json:"designation"`
}

// SessionWithOwner pairs a session row with a summary of its owner for the
// admin listing endpoint.
type SessionWithOwner struct {
	Session
	Owner *OwnerSummary `json:"owner,omitempty"`
}
