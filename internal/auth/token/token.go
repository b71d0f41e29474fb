// Package token signs and verifies the access and refresh tokens. Access
// tokens live for one hour, refresh tokens for seven days, and each class is
// signed with its own key so a leaked key compromises only one of them.
package token

import (
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/trucomm/trucomm/internal/auth/domain"
	"github.com/trucomm/trucomm/internal/clock"
	"github.com/trucomm/trucomm/internal/config"
)

const (
	AccessTokenTTL  = time.Hour
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// AccessClaims is the signed claim bundle carried by an access token.
type AccessClaims struct {
	OwnerID     snowflake.ID       `json:"userId"`
	Username    string             `json:"username"`
	Designation domain.Designation `json:"designation"`
	IsElevated  bool               `json:"isSuperAdmin,omitempty"`
	jwt.RegisteredClaims
}

// RefreshClaims is the signed claim bundle carried by a refresh token.
type RefreshClaims struct {
	OwnerID    snowflake.ID `json:"userId"`
	IsElevated bool         `json:"isSuperAdmin,omitempty"`
	jwt.RegisteredClaims
}

// Codec mints and verifies both token classes.
type Codec struct {
	accessKey  []byte
	refreshKey []byte
	clock      clock.Clock
}

func NewCodec(cfg config.Config, clk clock.Clock) (*Codec, error) {
	if strings.TrimSpace(cfg.AccessTokenSecret) == "" || strings.TrimSpace(cfg.RefreshTokenSecret) == "" {
		return nil, errors.New("token: JWT_SECRET and JWT_REFRESH_SECRET are required")
	}
	return &Codec{
		accessKey:  []byte(cfg.AccessTokenSecret),
		refreshKey: []byte(cfg.RefreshTokenSecret),
		clock:      clk,
	}, nil
}

// NewCodecWithKeys is used by tests and tools that construct a codec outside
// the fx graph.
func NewCodecWithKeys(accessKey, refreshKey []byte, clk clock.Clock) *Codec {
	return &Codec{accessKey: accessKey, refreshKey: refreshKey, clock: clk}
}

// IssueAccessToken encodes the resolved principal. No side effects.
func (c *Codec) IssueAccessToken(p *domain.Principal) (string, error) {
	now := c.clock.Now()
	claims := AccessClaims{
		OwnerID:     p.ID,
		Username:    p.Username,
		Designation: p.Designation,
		IsElevated:  p.IsElevated(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.accessKey)
}

// IssueRefreshToken encodes the owner identity for the long-lived token.
// The jti keeps two logins in the same second from minting identical
// tokens, which the sessions table rejects.
func (c *Codec) IssueRefreshToken(ownerID snowflake.ID, elevated bool) (string, error) {
	now := c.clock.Now()
	claims := RefreshClaims{
		OwnerID:    ownerID,
		IsElevated: elevated,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(RefreshTokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.refreshKey)
}

// VerifyAccessToken validates signature and expiry and returns the claims.
func (c *Codec) VerifyAccessToken(raw string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := c.verify(raw, claims, c.accessKey); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

// VerifyRefreshToken validates signature and expiry and returns the claims.
// All failure modes collapse to ErrInvalidRefreshToken.
func (c *Codec) VerifyRefreshToken(raw string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := c.verify(raw, claims, c.refreshKey); err != nil {
		return nil, domain.ErrInvalidRefreshToken
	}
	return claims, nil
}

func (c *Codec) verify(raw string, claims jwt.Claims, key []byte) error {
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return key, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(c.clock.Now),
	)
	if err != nil {
		return err
	}
	if !tok.Valid {
		return errors.New("invalid token")
	}
	return nil
}
