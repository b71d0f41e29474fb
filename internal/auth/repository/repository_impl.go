package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/trucomm/trucomm/internal/auth/domain"
	"github.com/trucomm/trucomm/pkg/db"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) (domain.Repository, domain.SessionRepository) {
	r := &repo{db: db}
	return r, r
}

func (r *repo) FindByLoginEmail(ctx context.Context, kind domain.PrincipalKind, loginEmail string) (*domain.Principal, string, error) {
	switch kind {
	case domain.KindUser:
		var u domain.User
		err := r.db.WithContext(ctx).Where("software_login_email = ?", loginEmail).First(&u).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", domain.ErrPrincipalNotFound
		}
		if err != nil {
			return nil, "", err
		}
		return domain.PrincipalFromUser(&u), u.PasswordHash, nil
	case domain.KindSuperAdmin:
		var sa domain.SuperAdmin
		err := r.db.WithContext(ctx).Where("software_login_email = ?", loginEmail).First(&sa).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", domain.ErrPrincipalNotFound
		}
		if err != nil {
			return nil, "", err
		}
		return domain.PrincipalFromSuperAdmin(&sa), sa.PasswordHash, nil
	}
	return nil, "", fmt.Errorf("unknown principal kind %q", kind)
}

func (r *repo) FindByID(ctx context.Context, kind domain.PrincipalKind, id snowflake.ID) (*domain.Principal, error) {
	switch kind {
	case domain.KindUser:
		var u domain.User
		err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPrincipalNotFound
		}
		if err != nil {
			return nil, err
		}
		return domain.PrincipalFromUser(&u), nil
	case domain.KindSuperAdmin:
		var sa domain.SuperAdmin
		err := r.db.WithContext(ctx).Where("id = ?", id).First(&sa).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPrincipalNotFound
		}
		if err != nil {
			return nil, err
		}
		return domain.PrincipalFromSuperAdmin(&sa), nil
	}
	return nil, fmt.Errorf("unknown principal kind %q", kind)
}

func (r *repo) RecordLogin(ctx context.Context, kind domain.PrincipalKind, id snowflake.ID, ip string, at time.Time) error {
	fields := map[string]any{
		"current_ip": ip,
		"updated_at": at,
	}
	if kind == domain.KindSuperAdmin {
		fields["last_login_at"] = at
	}
	return r.updatePrincipal(ctx, kind, id, fields)
}

func (r *repo) UpdateCurrentIP(ctx context.Context, kind domain.PrincipalKind, id snowflake.ID, ip string) error {
	return r.updatePrincipal(ctx, kind, id, map[string]any{"current_ip": ip})
}

func (r *repo) updatePrincipal(ctx context.Context, kind domain.PrincipalKind, id snowflake.ID, fields map[string]any) error {
	var model any
	switch kind {
	case domain.KindUser:
		model = &domain.User{}
	case domain.KindSuperAdmin:
		model = &domain.SuperAdmin{}
	default:
		return fmt.Errorf("unknown principal kind %q", kind)
	}
	tx := r.db.WithContext(ctx).Model(model).Where("id = ?", id).Updates(fields)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrPrincipalNotFound
	}
	return nil
}

func (r *repo) CreateUser(ctx context.Context, user *domain.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.ErrDuplicateAccount
		}
		return err
	}
	return nil
}

func (r *repo) ListUsers(ctx context.Context, q domain.ListUsersQuery) ([]domain.UserWithSessionCount, int64, error) {
	base := r.db.WithContext(ctx).Model(&domain.User{})

	if q.Search != "" {
		like := "%" + q.Search + "%"
		base = base.Where(
			"username LIKE ? OR email LIKE ? OR work_email LIKE ? OR software_login_email LIKE ?",
			like, like, like, like,
		)
	}
	if q.Role != "" {
		base = base.Where("designation = ?", q.Role)
	}
	if q.Status != nil {
		base = base.Where("is_active = ?", *q.Status)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []domain.User
	if err := base.Order("created_at DESC").Offset(q.Offset).Limit(q.Limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.UserWithSessionCount, 0, len(users))
	for _, u := range users {
		var active int64
		err := r.db.WithContext(ctx).Model(&domain.Session{}).
			Where("owner_kind = ? AND owner_id = ? AND is_active = ?", domain.KindUser, u.ID, true).
			Count(&active).Error
		if err != nil {
			return nil, 0, err
		}
		u.PasswordHash = ""
		out = append(out, domain.UserWithSessionCount{User: u, ActiveSessions: active})
	}
	return out, total, nil
}

func (r *repo) GetUser(ctx context.Context, id snowflake.ID) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrPrincipalNotFound
	}
	if err != nil {
		return nil, err
	}
	u.PasswordHash = ""
	return &u, nil
}

func (r *repo) SetUserStatus(ctx context.Context, id snowflake.ID, active bool) error {
	return r.updatePrincipal(ctx, domain.KindUser, id, map[string]any{"is_active": active})
}

func (r *repo) SetUserDesignation(ctx context.Context, id snowflake.ID, d domain.Designation) error {
	return r.updatePrincipal(ctx, domain.KindUser, id, map[string]any{"designation": d})
}

func (r *repo) CountUsers(ctx context.Context, activeOnly bool) (int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.User{})
	if activeOnly {
		tx = tx.Where("is_active = ?", true)
	}
	var count int64
	err := tx.Count(&count).Error
	return count, err
}

func (r *repo) RoleDistribution(ctx context.Context) ([]domain.RoleCount, error) {
	var out []domain.RoleCount
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Select("designation, COUNT(*) AS count").
		Group("designation").
		Scan(&out).Error
	return out, err
}

func (r *repo) FindActiveByRefreshToken(ctx context.Context, token string, now time.Time) (*domain.Session, error) {
	var s domain.Session
	err := r.db.WithContext(ctx).
		Where("refresh_token = ? AND is_active = ? AND expires_at > ?", token, true, now).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repo) FindActiveByOwner(ctx context.Context, kind domain.PrincipalKind, ownerID snowflake.ID, now time.Time) (*domain.Session, error) {
	var s domain.Session
	err := r.db.WithContext(ctx).
		Where("owner_kind = ? AND owner_id = ? AND is_active = ? AND expires_at > ?", kind, ownerID, true, now).
		Order("created_at DESC").
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repo) FindSessionByID(ctx context.Context, id snowflake.ID) (*domain.Session, error) {
	var s domain.Session
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repo) ReplaceActiveSession(ctx context.Context, session *domain.Session, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := evictByOwner(tx, session.OwnerKind, session.OwnerID, now); err != nil {
			return err
		}
		return tx.Create(session).Error
	})
}

func evictByOwner(tx *gorm.DB, kind domain.PrincipalKind, ownerID snowflake.ID, now time.Time) error {
	return tx.Model(&domain.Session{}).
		Where("owner_kind = ? AND owner_id = ? AND is_active = ?", kind, ownerID, true).
		Updates(map[string]any{
			"is_active":  false,
			"expires_at": now,
			"updated_at": now,
		}).Error
}

func (r *repo) DeactivateByRefreshToken(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).Model(&domain.Session{}).
		Where("refresh_token = ?", token).
		Update("is_active", false).Error
}

func (r *repo) DeactivateSessionByID(ctx context.Context, id snowflake.ID) error {
	tx := r.db.WithContext(ctx).Model(&domain.Session{}).
		Where("id = ?", id).
		Update("is_active", false)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *repo) DeactivateByOwner(ctx context.Context, kind domain.PrincipalKind, ownerID snowflake.ID) error {
	return r.db.WithContext(ctx).Model(&domain.Session{}).
		Where("owner_kind = ? AND owner_id = ?", kind, ownerID).
		Update("is_active", false).Error
}

func (r *repo) ExtendExpiry(ctx context.Context, id snowflake.ID, now, until time.Time) error {
	tx := r.db.WithContext(ctx).Model(&domain.Session{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"expires_at": until,
			"updated_at": now,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *repo) ListActiveSessions(ctx context.Context, now time.Time, offset, limit int) ([]domain.Session, int64, error) {
	base := r.db.WithContext(ctx).Model(&domain.Session{}).
		Where("is_active = ? AND expires_at > ?", true, now)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sessions []domain.Session
	if err := base.Order("created_at DESC").Offset(offset).Limit(limit).Find(&sessions).Error; err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

func (r *repo) CountSessions(ctx context.Context, activeOnly bool) (int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Session{})
	if activeOnly {
		tx = tx.Where("is_active = ?", true)
	}
	var count int64
	err := tx.Count(&count).Error
	return count, err
}

func (r *repo) RecentActiveSessions(ctx context.Context, now time.Time, limit int) ([]domain.Session, error) {
	var sessions []domain.Session
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND expires_at > ?", true, now).
		Order("created_at DESC").
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}
