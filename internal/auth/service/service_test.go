package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trucomm/trucomm/internal/auth/domain"
	"github.com/trucomm/trucomm/internal/auth/password"
	"github.com/trucomm/trucomm/internal/auth/repository"
	"github.com/trucomm/trucomm/internal/auth/token"
	"github.com/trucomm/trucomm/internal/clock"
	"github.com/trucomm/trucomm/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testPassword = "correct horse battery staple"

var (
	hashOnce sync.Once
	testHash string
)

// sharedHash avoids paying bcrypt cost once per fixture.
func sharedHash(t *testing.T) string {
	t.Helper()
	hashOnce.Do(func() {
		h, err := password.Hash(testPassword)
		if err != nil {
			t.Fatalf("hash fixture password: %v", err)
		}
		testHash = h
	})
	return testHash
}

type testEnv struct {
	svc         domain.Service
	db          *gorm.DB
	clock       *clock.FakeClock
	node        *snowflake.Node
	repo        domain.Repository
	sessionRepo domain.SessionRepository
	codec       *token.Codec
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(
		&domain.User{}, &domain.SuperAdmin{}, &domain.Session{}))

	clk := clock.NewFakeClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	repo, sessionRepo := repository.New(gdb)
	codec := token.NewCodecWithKeys([]byte("a-key"), []byte("r-key"), clk)
	svc := New(zap.NewNop(), repo, sessionRepo, codec, clk, node)

	return &testEnv{
		svc:         svc,
		db:          gdb,
		clock:       clk,
		node:        node,
		repo:        repo,
		sessionRepo: sessionRepo,
		codec:       codec,
	}
}

// rebuild wires a fresh service around replacement stores, keeping the
// env's codec and clock so tokens minted earlier stay verifiable.
func (e *testEnv) rebuild(repo domain.Repository, sessionRepo domain.SessionRepository) domain.Service {
	return New(zap.NewNop(), repo, sessionRepo, e.codec, e.clock, e.node)
}

// flakyPrincipalStore fails FindByID and delegates everything else.
type flakyPrincipalStore struct {
	domain.Repository
	err error
}

func (f *flakyPrincipalStore) FindByID(ctx context.Context, kind domain.PrincipalKind, id snowflake.ID) (*domain.Principal, error) {
	return nil, f.err
}

// flakySessionStore fails selected session-store calls and delegates the
// rest to the real repository.
type flakySessionStore struct {
	domain.SessionRepository
	findOwnerErr error
	extendErr    error
}

func (f *flakySessionStore) FindActiveByOwner(ctx context.Context, kind domain.PrincipalKind, ownerID snowflake.ID, now time.Time) (*domain.Session, error) {
	if f.findOwnerErr != nil {
		return nil, f.findOwnerErr
	}
	return f.SessionRepository.FindActiveByOwner(ctx, kind, ownerID, now)
}

func (f *flakySessionStore) ExtendExpiry(ctx context.Context, id snowflake.ID, now, until time.Time) error {
	if f.extendErr != nil {
		return f.extendErr
	}
	return f.SessionRepository.ExtendExpiry(ctx, id, now, until)
}

func (e *testEnv) createUser(t *testing.T, username string, designation domain.Designation, active bool) *domain.User {
	t.Helper()
	user := &domain.User{
		ID:                 e.node.Generate(),
		Username:           username,
		Email:              username + "@example.com",
		SoftwareLoginEmail: username + "_0000000001@trucomm.com",
		Designation:        designation,
		PasswordHash:       sharedHash(t),
		IsActive:           active,
		MMID:               username + "-mmid",
		CreatedAt:          e.clock.Now(),
		UpdatedAt:          e.clock.Now(),
	}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) createSuperAdmin(t *testing.T, username string) *domain.SuperAdmin {
	t.Helper()
	admin := &domain.SuperAdmin{
		ID:                 e.node.Generate(),
		Username:           username,
		Email:              username + "@example.com",
		SoftwareLoginEmail: username + "_0000000002@trucomm.com",
		PasswordHash:       sharedHash(t),
		IsActive:           true,
		MMID:               username + "-sa-mmid",
		CreatedAt:          e.clock.Now(),
		UpdatedAt:          e.clock.Now(),
	}
	require.NoError(t, e.db.Create(admin).Error)
	return admin
}

func (e *testEnv) login(t *testing.T, kind domain.PrincipalKind, loginEmail string) *domain.LoginResult {
	t.Helper()
	result, err := e.svc.Login(context.Background(), kind, domain.LoginRequest{
		SoftwareLoginEmail: loginEmail,
		Password:           testPassword,
		CallerIP:           "10.0.0.1",
		UserAgent:          "test-agent",
	})
	require.NoError(t, err)
	return result
}

func (e *testEnv) activeSessions(t *testing.T, kind domain.PrincipalKind, ownerID snowflake.ID) []domain.Session {
	t.Helper()
	var sessions []domain.Session
	require.NoError(t, e.db.
		Where("owner_kind = ? AND owner_id = ? AND is_active = ?", kind, ownerID, true).
		Find(&sessions).Error)
	return sessions
}

func TestLoginSuccess(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "jdoe", domain.DesignationEmployee, true)

	result := env.login(t, domain.KindUser, user.SoftwareLoginEmail)

	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, user.ID, result.Principal.ID)
	assert.Equal(t, "10.0.0.1", result.Principal.CurrentIP)
	assert.False(t, result.Principal.IsElevated())

	sessions := env.activeSessions(t, domain.KindUser, user.ID)
	require.Len(t, sessions, 1)
	assert.Equal(t, result.RefreshToken, sessions[0].RefreshToken)
	assert.Equal(t, env.clock.Now().Add(7*24*time.Hour), sessions[0].ExpiresAt.UTC())
}

func TestLoginEvictsPriorSession(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "jdoe", domain.DesignationEmployee, true)
	ctx := context.Background()

	first := env.login(t, domain.KindUser, user.SoftwareLoginEmail)
	second := env.login(t, domain.KindUser, user.SoftwareLoginEmail)

	sessions := env.activeSessions(t, domain.KindUser, user.ID)
	require.Len(t, sessions, 1)
	assert.Equal(t, second.RefreshToken, sessions[0].RefreshToken)

	// The evicted session's refresh token is dead even though the JWT
	// itself is still within its validity window.
	_, err := env.svc.Refresh(ctx, domain.KindUser, first.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidRefreshToken)

	_, err = env.svc.Refresh(ctx, domain.KindUser, second.RefreshToken)
	assert.NoError(t, err)
}

func TestLoginFailureIsUniform(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "jdoe", domain.DesignationEmployee, true)
	ctx := context.Background()

	_, err := env.svc.Login(ctx, domain.KindUser, domain.LoginRequest{
		SoftwareLoginEmail: user.SoftwareLoginEmail,
		Password:           "wrong",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = env.svc.Login(ctx, domain.KindUser, domain.LoginRequest{
		SoftwareLoginEmail: "nobody_0000000000@trucomm.com",
		Password:           testPassword,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = env.svc.Login(ctx, domain.KindUser, domain.LoginRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginDeactivatedBeforePasswordCheck(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "gone", domain.DesignationEmployee, false)

	// Deactivation wins even when the password is wrong.
	_, err := env.svc.Login(context.Background(), domain.KindUser, domain.LoginRequest{
		SoftwareLoginEmail: user.SoftwareLoginEmail,
		Password:           "wrong",
	})
	assert.ErrorIs(t, err, domain.ErrAccountDeactivated)
}

func TestLoginKindsAreDisjoint(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "jdoe", domain.DesignationAdmin, true)

	_, err := env.svc.Login(context.Background(), domain.KindSuperAdmin, domain.LoginRequest{
		SoftwareLoginEmail: user.SoftwareLoginEmail,
		Password:           testPassword,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestSuperAdminLoginRecordsLastLogin(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createSuperAdmin(t, "root")

	result := env.login(t, domain.KindSuperAdmin, admin.SoftwareLoginEmail)
	assert.True(t, result.Principal.IsElevated())
	assert.Equal(t, domain.DesignationAdmin, result.Principal.Designation)

	var stored domain.SuperAdmin
	require.NoError(t, env.db.First(&stored, admin.ID).Error)
	require.NotNil(t, stored.LastLoginAt)
	assert.Equal(t, env.clock.Now(), stored.LastLoginAt.UTC())
}

func TestRefreshKindMismatch(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "jdoe", domain.DesignationEmployee, true)
	result := env.login(t, domain.KindUser, user.SoftwareLoginEmail)

	_, err := env.svc.Refresh(context.Background(), domain.KindSuperAdmin, result.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidRefreshToken)
}

func TestRefreshDoesNotRotateToken(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "jdoe", domain.DesignationEmployee, true)
	result := env.login(t, domain.KindUser, user.SoftwareLoginEmail)
	ctx := context.Background()

	env.clock.Advance(time.Hour)
	_, err := env.svc.Refresh(ctx, domain.KindUser, result.RefreshToken)
	require.NoError(t, err)

	// The same refresh token keeps working; refresh never rotates it.
	_, err = env.svc.Refresh(ctx, domain.KindUser, result.RefreshToken)
	assert.NoError(t, err)
}

func TestLogoutKillsSession(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "jdoe", domain.DesignationEmployee, true)
	result := env.login(t, domain.KindUser, user.SoftwareLoginEmail)
	ctx := context.Background()

	env.svc.Logout(ctx, domain.KindUser, result.RefreshToken)

	assert.Empty(t, env.activeSessions(t, domain.KindUser, user.ID))
	_, err := env.svc.Refresh(ctx, domain.KindUser, result.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidRefreshToken)

	// Repeat and garbage logouts are no-ops.
	env.svc.Logout(ctx, domain.KindUser, result.RefreshToken)
	env.svc.Logout(ctx, domain.KindUser, "not-a-token")
	env.svc.Logout(ctx, domain.KindUser, "")
}

func TestAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "jdoe", domain.DesignationHR, true)
	result := env.login(t, domain.KindUser, user.SoftwareLoginEmail)
	ctx := context.Background()

	principal, err := env.svc.Authenticate(ctx, result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.ID)
	assert.Equal(t, domain.DesignationHR, principal.Designation)

	_, err = env.svc.Authenticate(ctx, "")
	assert.ErrorIs(t, err, domain.ErrNoToken)

	_, err = env.svc.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestAuthenticateExpiredAccessToken(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "jdoe", domain.DesignationEmployee, true)
	result := env.login(t, domain.KindUser, user.SoftwareLoginEmail)

	env.clock.Advance(token.AccessTokenTTL + time.Minute)
	_, err := env.svc.Authenticate(context.Background(), result.AccessToken)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestAuthenticateRevokedSession(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "jdoe", domain.DesignationEmployee, true)
	result := env.login(t, domain.KindUser, user.SoftwareLoginEmail)
	ctx := context.Background()

	sessions := env.activeSessions(t, domain.KindUser, user.ID)
	require.Len(t, sessions, 1)
	_, err := env.svc.RevokeSession(ctx, sessions[0].ID)
	require.NoError(t, err)

	// The JWT is still valid but the server-side session is gone.
	_, err = env.svc.Authenticate(ctx, result.AccessToken)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestAuthenticateDeactivatedAccount(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "jdoe", domain.DesignationEmployee, true)
	result := env.login(t, domain.KindUser, user.SoftwareLoginEmail)
	ctx := context.Background()

	_, err := env.svc.SetUserStatus(ctx, user.ID, false)
	require.NoError(t, err)

	_, err = env.svc.Authenticate(ctx, result.AccessToken)
	assert.ErrorIs(t, err, domain.ErrAccountDeactivated)
}

func TestSlidingRenewal(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "jdoe", domain.DesignationEmployee, true)
	env.login(t, domain.KindUser, user.SoftwareLoginEmail)
	ctx := context.Background()

	sessions := env.activeSessions(t, domain.KindUser, user.ID)
	require.Len(t, sessions, 1)
	originalExpiry := sessions[0].ExpiresAt.UTC()

	principal, err := env.svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	resolved := domain.PrincipalFromUser(principal)

	// Well before the renewal window nothing changes.
	env.clock.Advance(time.Hour)
	require.NoError(t, env.svc.EnsureFreshSession(ctx, resolved))
	sessions = env.activeSessions(t, domain.KindUser, user.ID)
	assert.Equal(t, originalExpiry, sessions[0].ExpiresAt.UTC())

	// Inside the final five minutes the expiry slides a full week forward.
	env.clock.Set(originalExpiry.Add(-2 * time.Minute))
	require.NoError(t, env.svc.EnsureFreshSession(ctx, resolved))
	sessions = env.activeSessions(t, domain.KindUser, user.ID)
	renewed := sessions[0].ExpiresAt.UTC()
	assert.Equal(t, env.clock.Now().Add(7*24*time.Hour), renewed)

	// A second check right after renewal is a no-op.
	require.NoError(t, env.svc.EnsureFreshSession(ctx, resolved))
	sessions = env.activeSessions(t, domain.KindUser, user.ID)
	assert.Equal(t, renewed, sessions[0].ExpiresAt.UTC())
}

func TestEnsureFreshSessionExpired(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "jdoe", domain.DesignationEmployee, true)
	env.login(t, domain.KindUser, user.SoftwareLoginEmail)
	ctx := context.Background()

	principal, err := env.svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	resolved := domain.PrincipalFromUser(principal)

	env.clock.Advance(7*24*time.Hour + time.Minute)
	err = env.svc.EnsureFreshSession(ctx, resolved)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}

// A store outage during authentication must surface as a retryable
// validation error, never as an auth failure that forces a logout.
func TestAuthenticateStoreFailure(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "jdoe", domain.DesignationEmployee, true)
	result := env.login(t, domain.KindUser, user.SoftwareLoginEmail)
	ctx := context.Background()
	storeDown := errors.New("connection refused")

	t.Run("principal store down", func(t *testing.T) {
		svc := env.rebuild(&flakyPrincipalStore{Repository: env.repo, err: storeDown}, env.sessionRepo)
		_, err := svc.Authenticate(ctx, result.AccessToken)
		assert.ErrorIs(t, err, domain.ErrSessionValidation)
		assert.NotErrorIs(t, err, domain.ErrSessionExpired)
	})

	t.Run("session store down", func(t *testing.T) {
		svc := env.rebuild(env.repo, &flakySessionStore{SessionRepository: env.sessionRepo, findOwnerErr: storeDown})
		_, err := svc.Authenticate(ctx, result.AccessToken)
		assert.ErrorIs(t, err, domain.ErrSessionValidation)
		assert.NotErrorIs(t, err, domain.ErrSessionExpired)
	})

	t.Run("session store down during freshness check", func(t *testing.T) {
		svc := env.rebuild(env.repo, &flakySessionStore{SessionRepository: env.sessionRepo, findOwnerErr: storeDown})
		err := svc.EnsureFreshSession(ctx, result.Principal)
		assert.ErrorIs(t, err, domain.ErrSessionValidation)
		assert.NotErrorIs(t, err, domain.ErrSessionExpired)
	})

	// The session itself is untouched: the real service still accepts the
	// token once the store recovers.
	principal, err := env.svc.Authenticate(ctx, result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.ID)
}

// A failed sliding extension is logged and swallowed; the request keeps
// the old expiry instead of failing.
func TestRenewalFailureDoesNotBlockRequest(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "jdoe", domain.DesignationEmployee, true)
	result := env.login(t, domain.KindUser, user.SoftwareLoginEmail)
	ctx := context.Background()

	sessions := env.activeSessions(t, domain.KindUser, user.ID)
	require.Len(t, sessions, 1)
	originalExpiry := sessions[0].ExpiresAt.UTC()

	// Inside the renewal window, with the extension write failing.
	env.clock.Set(originalExpiry.Add(-2 * time.Minute))
	svc := env.rebuild(env.repo, &flakySessionStore{
		SessionRepository: env.sessionRepo,
		extendErr:         errors.New("write timeout"),
	})
	require.NoError(t, svc.EnsureFreshSession(ctx, result.Principal))

	sessions = env.activeSessions(t, domain.KindUser, user.ID)
	require.Len(t, sessions, 1)
	assert.Equal(t, originalExpiry, sessions[0].ExpiresAt.UTC())
}

func TestSetUserStatusCascadesToSessions(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "jdoe", domain.DesignationEmployee, true)
	env.login(t, domain.KindUser, user.SoftwareLoginEmail)
	ctx := context.Background()

	updated, err := env.svc.SetUserStatus(ctx, user.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Empty(t, env.activeSessions(t, domain.KindUser, user.ID))

	// Reactivation does not resurrect revoked sessions.
	updated, err = env.svc.SetUserStatus(ctx, user.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.IsActive)
	assert.Empty(t, env.activeSessions(t, domain.KindUser, user.ID))
}

func TestSetUserDesignation(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "jdoe", domain.DesignationEmployee, true)
	ctx := context.Background()

	updated, err := env.svc.SetUserDesignation(ctx, user.ID, domain.DesignationCEO)
	require.NoError(t, err)
	assert.Equal(t, domain.DesignationCEO, updated.Designation)

	_, err = env.svc.SetUserDesignation(ctx, user.ID, domain.Designation("WIZARD"))
	assert.ErrorIs(t, err, domain.ErrInvalidDesignation)
}

func TestCreateUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.svc.CreateUser(ctx, domain.CreateUserRequest{
		Username: "JDoe",
		Email:    "JDoe@Example.com",
		Password: testPassword,
	})
	require.NoError(t, err)
	assert.Equal(t, "jdoe", user.Username)
	assert.Equal(t, "jdoe@example.com", user.Email)
	assert.Equal(t, domain.DesignationEmployee, user.Designation)
	assert.Len(t, user.MMID, 10)
	assert.Equal(t, domain.LoginEmail("jdoe", user.MMID), user.SoftwareLoginEmail)
	assert.Empty(t, user.PasswordHash)

	// The generated credentials work end to end.
	env.login(t, domain.KindUser, user.SoftwareLoginEmail)

	_, err = env.svc.CreateUser(ctx, domain.CreateUserRequest{
		Username: "jdoe",
		Email:    "other@example.com",
		Password: testPassword,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateAccount)

	_, err = env.svc.CreateUser(ctx, domain.CreateUserRequest{
		Username: "nopass",
		Email:    "nopass@example.com",
	})
	assert.ErrorIs(t, err, domain.ErrMissingFields)

	_, err = env.svc.CreateUser(ctx, domain.CreateUserRequest{
		Username:    "wizard",
		Email:       "wizard@example.com",
		Password:    testPassword,
		Designation: domain.Designation("WIZARD"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDesignation)
}

func TestListUsers(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice", domain.DesignationAdmin, true)
	bob := env.createUser(t, "bob", domain.DesignationEmployee, false)
	env.login(t, domain.KindUser, "alice_0000000001@trucomm.com")
	ctx := context.Background()

	users, total, err := env.svc.ListUsers(ctx, domain.ListUsersQuery{Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, users, 2)
	for _, u := range users {
		assert.Empty(t, u.PasswordHash)
	}

	users, total, err = env.svc.ListUsers(ctx, domain.ListUsersQuery{Search: "bob", Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, bob.ID, users[0].ID)

	inactive := false
	users, _, err = env.svc.ListUsers(ctx, domain.ListUsersQuery{Status: &inactive, Limit: 10})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, bob.ID, users[0].ID)

	users, _, err = env.svc.ListUsers(ctx, domain.ListUsersQuery{Role: domain.DesignationAdmin, Limit: 10})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Username)
}

func TestListAndRevokeSessions(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "jdoe", domain.DesignationEmployee, true)
	admin := env.createSuperAdmin(t, "root")
	env.login(t, domain.KindUser, user.SoftwareLoginEmail)
	env.login(t, domain.KindSuperAdmin, admin.SoftwareLoginEmail)
	ctx := context.Background()

	sessions, total, err := env.svc.ListSessions(ctx, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, sessions, 2)
	for _, s := range sessions {
		require.NotNil(t, s.Owner)
	}

	revoked, err := env.svc.RevokeSession(ctx, sessions[0].ID)
	require.NoError(t, err)
	assert.False(t, revoked.IsActive)

	_, total, err = env.svc.ListSessions(ctx, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	_, err = env.svc.RevokeSession(ctx, env.node.Generate())
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestStats(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "jdoe", domain.DesignationEmployee, true)
	env.createUser(t, "gone", domain.DesignationHR, false)
	env.login(t, domain.KindUser, user.SoftwareLoginEmail)
	env.login(t, domain.KindUser, user.SoftwareLoginEmail)

	stats, err := env.svc.Stats(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalUsers)
	assert.EqualValues(t, 1, stats.ActiveUsers)
	assert.EqualValues(t, 2, stats.TotalSessions)
	assert.EqualValues(t, 1, stats.ActiveSessions)
	assert.Len(t, stats.RecentLogins, 1)
}
