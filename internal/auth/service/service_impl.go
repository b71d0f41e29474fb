package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/trucomm/trucomm/internal/auth/domain"
	"github.com/trucomm/trucomm/internal/auth/password"
	"github.com/trucomm/trucomm/internal/auth/token"
	"github.com/trucomm/trucomm/internal/clock"
	"go.uber.org/zap"
)

const (
	sessionTTL = token.RefreshTokenTTL

	// A session this close to expiry is extended in place on the next
	// authenticated request.
	renewalWindow = 5 * time.Minute
)

type Service struct {
	log         *zap.Logger
	repo        domain.Repository
	sessionRepo domain.SessionRepository
	codec       *token.Codec
	clock       clock.Clock
	genID       *snowflake.Node
}

func New(log *zap.Logger, repo domain.Repository, sessionRepo domain.SessionRepository, codec *token.Codec, clk clock.Clock, genID *snowflake.Node) domain.Service {
	return &Service{
		log:         log.Named("auth.service"),
		repo:        repo,
		sessionRepo: sessionRepo,
		codec:       codec,
		clock:       clk,
		genID:       genID,
	}
}

func (s *Service) Login(ctx context.Context, kind domain.PrincipalKind, req domain.LoginRequest) (*domain.LoginResult, error) {
	loginEmail := strings.TrimSpace(req.SoftwareLoginEmail)
	if loginEmail == "" || req.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	principal, hash, err := s.repo.FindByLoginEmail(ctx, kind, loginEmail)
	if err != nil {
		if errors.Is(err, domain.ErrPrincipalNotFound) {
			// Same error as a wrong password so callers cannot probe
			// for registered accounts.
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !principal.IsActive {
		return nil, domain.ErrAccountDeactivated
	}

	if !password.Verify(hash, req.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	now := s.clock.Now()
	if err := s.repo.RecordLogin(ctx, kind, principal.ID, req.CallerIP, now); err != nil {
		return nil, err
	}
	principal.CurrentIP = req.CallerIP

	refreshToken, err := s.codec.IssueRefreshToken(principal.ID, principal.IsElevated())
	if err != nil {
		return nil, err
	}

	// Single-session policy: a new login always kills the owner's prior
	// sessions, including one that may be serving other requests.
	session := &domain.Session{
		ID:           s.genID.Generate(),
		OwnerID:      principal.ID,
		OwnerKind:    kind,
		RefreshToken: refreshToken,
		IPAddress:    strings.TrimSpace(req.CallerIP),
		UserAgent:    strings.TrimSpace(req.UserAgent),
		IsActive:     true,
		ExpiresAt:    now.Add(sessionTTL),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.sessionRepo.ReplaceActiveSession(ctx, session, now); err != nil {
		return nil, err
	}

	accessToken, err := s.codec.IssueAccessToken(principal)
	if err != nil {
		return nil, err
	}

	s.log.Info("login",
		zap.String("kind", string(kind)),
		zap.String("owner_id", principal.ID.String()),
		zap.String("ip", req.CallerIP),
	)

	return &domain.LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Principal:    principal,
	}, nil
}

func (s *Service) Refresh(ctx context.Context, kind domain.PrincipalKind, refreshToken string) (*domain.RefreshResult, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, domain.ErrInvalidRefreshToken
	}

	claims, err := s.codec.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.IsElevated != (kind == domain.KindSuperAdmin) {
		return nil, domain.ErrInvalidRefreshToken
	}

	// The token's embedded expiry passed above; the session row's expiry
	// is checked independently here — either can be stale on its own.
	session, err := s.sessionRepo.FindActiveByRefreshToken(ctx, refreshToken, s.clock.Now())
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrInvalidRefreshToken
		}
		return nil, err
	}

	principal, err := s.repo.FindByID(ctx, session.OwnerKind, session.OwnerID)
	if err != nil {
		if errors.Is(err, domain.ErrPrincipalNotFound) {
			return nil, domain.ErrInvalidRefreshToken
		}
		return nil, err
	}

	accessToken, err := s.codec.IssueAccessToken(principal)
	if err != nil {
		return nil, err
	}

	return &domain.RefreshResult{
		AccessToken: accessToken,
		Principal:   principal,
	}, nil
}

func (s *Service) Logout(ctx context.Context, kind domain.PrincipalKind, refreshToken string) {
	if strings.TrimSpace(refreshToken) == "" {
		return
	}
	// Logout always reports success; cleanup failures are logged only.
	if err := s.sessionRepo.DeactivateByRefreshToken(ctx, refreshToken); err != nil {
		s.log.Error("logout cleanup failed", zap.String("kind", string(kind)), zap.Error(err))
	}
}

func (s *Service) Authenticate(ctx context.Context, bearerToken string) (*domain.Principal, error) {
	if strings.TrimSpace(bearerToken) == "" {
		return nil, domain.ErrNoToken
	}

	claims, err := s.codec.VerifyAccessToken(bearerToken)
	if err != nil {
		return nil, err
	}

	kind := domain.KindUser
	if claims.IsElevated {
		kind = domain.KindSuperAdmin
	}

	principal, err := s.repo.FindByID(ctx, kind, claims.OwnerID)
	if err != nil {
		if errors.Is(err, domain.ErrPrincipalNotFound) {
			return nil, domain.ErrPrincipalNotFound
		}
		return nil, domain.ErrSessionValidation
	}

	if !principal.IsActive {
		return nil, domain.ErrAccountDeactivated
	}

	// The token alone is never sufficient: a live server-side session is
	// also required, so logout and forced revocation take effect while the
	// token is still cryptographically valid.
	if _, err := s.sessionRepo.FindActiveByOwner(ctx, kind, principal.ID, s.clock.Now()); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrSessionExpired
		}
		return nil, domain.ErrSessionValidation
	}

	return principal, nil
}

func (s *Service) EnsureFreshSession(ctx context.Context, principal *domain.Principal) error {
	if principal == nil {
		return domain.ErrAuthRequired
	}

	now := s.clock.Now()
	session, err := s.sessionRepo.FindActiveByOwner(ctx, principal.Kind, principal.ID, now)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.ErrSessionExpired
		}
		return domain.ErrSessionValidation
	}

	if session.ExpiresAt.Before(now.Add(renewalWindow)) {
		if err := s.sessionRepo.ExtendExpiry(ctx, session.ID, now, now.Add(sessionTTL)); err != nil {
			// Best effort; the request proceeds on the old expiry.
			s.log.Warn("session renewal failed",
				zap.String("session_id", session.ID.String()),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (s *Service) ObserveIP(ctx context.Context, principal *domain.Principal, callerIP string) {
	if principal == nil || callerIP == "" || principal.CurrentIP == callerIP {
		return
	}
	if principal.CurrentIP != "" {
		s.log.Warn("ip mismatch",
			zap.String("owner_id", principal.ID.String()),
			zap.String("stored", principal.CurrentIP),
			zap.String("current", callerIP),
		)
	}
	if err := s.repo.UpdateCurrentIP(ctx, principal.Kind, principal.ID, callerIP); err != nil {
		s.log.Warn("ip update failed", zap.String("owner_id", principal.ID.String()), zap.Error(err))
	}
}

func (s *Service) ListSessions(ctx context.Context, offset, limit int) ([]domain.SessionWithOwner, int64, error) {
	sessions, total, err := s.sessionRepo.ListActiveSessions(ctx, s.clock.Now(), offset, limit)
	if err != nil {
		return nil, 0, err
	}
	return s.withOwners(ctx, sessions), total, nil
}

func (s *Service) RevokeSession(ctx context.Context, id snowflake.ID) (*domain.SessionWithOwner, error) {
	session, err := s.sessionRepo.FindSessionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.sessionRepo.DeactivateSessionByID(ctx, id); err != nil {
		return nil, err
	}
	session.IsActive = false
	withOwner := s.withOwners(ctx, []domain.Session{*session})
	return &withOwner[0], nil
}

func (s *Service) withOwners(ctx context.Context, sessions []domain.Session) []domain.SessionWithOwner {
	out := make([]domain.SessionWithOwner, 0, len(sessions))
	for _, sess := range sessions {
		item := domain.SessionWithOwner{Session: sess}
		owner, err := s.repo.FindByID(ctx, sess.OwnerKind, sess.OwnerID)
		if err == nil {
			item.Owner = &domain.OwnerSummary{
				ID:          owner.ID,
				Kind:        owner.Kind,
				Username:    owner.Username,
				Email:       owner.Email,
				Designation: owner.Designation,
			}
		}
		out = append(out, item)
	}
	return out
}

func (s *Service) CreateUser(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" || email == "" || req.Password == "" {
		return nil, domain.ErrMissingFields
	}
	designation := req.Designation
	if designation == "" {
		designation = domain.DesignationEmployee
	}
	if !designation.Valid() {
		return nil, domain.ErrInvalidDesignation
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	mmid, err := domain.NewMMID()
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	user := &domain.User{
		ID:                 s.genID.Generate(),
		Username:           username,
		Email:              email,
		WorkEmail:          strings.TrimSpace(req.WorkEmail),
		SoftwareLoginEmail: domain.LoginEmail(username, mmid),
		Designation:        designation,
		PasswordHash:       hash,
		IsActive:           true,
		MMID:               mmid,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user created",
		zap.String("user_id", user.ID.String()),
		zap.String("username", username),
		zap.String("designation", string(designation)),
	)

	user.PasswordHash = ""
	return user, nil
}

func (s *Service) ListUsers(ctx context.Context, q domain.ListUsersQuery) ([]domain.UserWithSessionCount, int64, error) {
	return s.repo.ListUsers(ctx, q)
}

func (s *Service) GetUser(ctx context.Context, id snowflake.ID) (*domain.User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *Service) SetUserStatus(ctx context.Context, id snowflake.ID, active bool) (*domain.User, error) {
	if err := s.repo.SetUserStatus(ctx, id, active); err != nil {
		return nil, err
	}
	if !active {
		// Deactivation revokes every session the user owns, so the
		// change takes effect on their next request.
		if err := s.sessionRepo.DeactivateByOwner(ctx, domain.KindUser, id); err != nil {
			return nil, err
		}
	}
	return s.repo.GetUser(ctx, id)
}

func (s *Service) SetUserDesignation(ctx context.Context, id snowflake.ID, d domain.Designation) (*domain.User, error) {
	if !d.Valid() {
		return nil, domain.ErrInvalidDesignation
	}
	if err := s.repo.SetUserDesignation(ctx, id, d); err != nil {
		return nil, err
	}
	return s.repo.GetUser(ctx, id)
}

func (s *Service) Stats(ctx context.Context) (*domain.SessionStats, error) {
	totalUsers, err := s.repo.CountUsers(ctx, false)
	if err != nil {
		return nil, err
	}
	activeUsers, err := s.repo.CountUsers(ctx, true)
	if err != nil {
		return nil, err
	}
	totalSessions, err := s.sessionRepo.CountSessions(ctx, false)
	if err != nil {
		return nil, err
	}
	activeSessions, err := s.sessionRepo.CountSessions(ctx, true)
	if err != nil {
		return nil, err
	}
	roles, err := s.repo.RoleDistribution(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.sessionRepo.RecentActiveSessions(ctx, s.clock.Now(), 10)
	if err != nil {
		return nil, err
	}

	return &domain.SessionStats{
		TotalUsers:       totalUsers,
		ActiveUsers:      activeUsers,
		TotalSessions:    totalSessions,
		ActiveSessions:   activeSessions,
		RoleDistribution: roles,
		RecentLogins:     s.withOwners(ctx, recent),
	}, nil
}
