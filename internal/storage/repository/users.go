package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/magabrotheeeer/membership-hub/internal/domain"
	"github.com/magabrotheeeer/membership-hub/internal/models"
)

// RegisterUser сохраняет нового пользователя в базу данных и возвращает его UID.
// Email приводится к нижнему регистру для регистронезависимого поиска.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO users (email, username, password_hash, role, vip_access, premium_status)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		strings.ToLower(user.Email), user.Username, user.PasswordHash, user.Role,
		user.VIPAccess, user.PremiumStatus).Scan(&newID); err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%s: %w", op, domain.ErrConflict)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, role, vip_access,
			      premium_status, premium_approved_at, created_at
			  FROM users
			  WHERE username = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, username), op)
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, role, vip_access,
			      premium_status, premium_approved_at, created_at
			  FROM users
			  WHERE uid = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, userUID), op)
}

// ListUsers возвращает всех пользователей, новые первыми.
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "storage.ListUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, role, vip_access,
			      premium_status, premium_approved_at, created_at
			  FROM users
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.User
	for rows.Next() {
		var u models.User
		var approvedAt sql.NullTime
		if err = rows.Scan(&u.UID, &u.Email, &u.Username, &u.PasswordHash,
			&u.Role, &u.VIPAccess, &u.PremiumStatus, &approvedAt, &u.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if approvedAt.Valid {
			u.PremiumApprovedAt = &approvedAt.Time
		}
		result = append(result, &u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// SetEntitlement выставляет признак премиум-доступа и производный статус напрямую,
// независимо от заявок. Используется административным переключателем VIP.
func (s *Storage) SetEntitlement(ctx context.Context, userUID string, enabled bool) error {
	const op = "storage.SetEntitlement"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	status := models.PremiumStatusInactive
	var approvedAt *time.Time
	if enabled {
		status = models.PremiumStatusActive
		now := time.Now().UTC()
		approvedAt = &now
	}

	query := `UPDATE users
			  SET vip_access = $1,
			      premium_status = $2,
			      premium_approved_at = COALESCE($3, premium_approved_at)
			  WHERE uid = $4`
	res, err := s.DB.ExecContext(ctx, query, enabled, status, approvedAt, userUID)
	if err != nil {
		if isInvalidUUID(err) {
			return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return nil
}

func (s *Storage) scanUser(row *sql.Row, op string) (*models.User, error) {
	u := &models.User{}
	var approvedAt sql.NullTime
	if err := row.Scan(&u.UID, &u.Email, &u.Username, &u.PasswordHash,
		&u.Role, &u.VIPAccess, &u.PremiumStatus, &approvedAt, &u.CreatedAt); err != nil {
		return nil, mapRowError(op, err)
	}
	if approvedAt.Valid {
		u.PremiumApprovedAt = &approvedAt.Time
	}
	return u, nil
}
