package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/membership-hub/internal/domain"
	"github.com/magabrotheeeer/membership-hub/internal/models"
)

const requestColumns = `id, user_uid, user_email, user_name, fund_amount, exchange,
			      status, COALESCE(admin_notes, ''), created_at, updated_at, reviewed_at`

// CreateRequest сохраняет новую заявку со статусом pending и возвращает её ID.
// Частичный уникальный индекс по открытым заявкам гарантирует не более одной
// открытой заявки на пользователя; его нарушение возвращается как конфликт.
func (s *Storage) CreateRequest(ctx context.Context, req models.PremiumRequest) (string, error) {
	const op = "storage.CreateRequest"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	id := uuid.NewString()
	query := `INSERT INTO premium_requests
			      (id, user_uid, user_email, user_name, fund_amount, exchange, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := s.DB.ExecContext(ctx, query,
		id, req.UserUID, req.UserEmail, req.UserName, req.FundAmount, req.Exchange,
		models.RequestStatusPending)
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%s: %w", op, domain.ErrConflict)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// HasOpenRequest сообщает, есть ли у пользователя открытая заявка
// (pending или approved). Отклонённая заявка не закрывает дорогу повторной подаче.
func (s *Storage) HasOpenRequest(ctx context.Context, userUID string) (bool, error) {
	const op = "storage.HasOpenRequest"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var exists bool
	query := `SELECT EXISTS (
			      SELECT 1 FROM premium_requests
			      WHERE user_uid = $1 AND status IN ('pending', 'approved')
			  )`
	if err := s.DB.QueryRowContext(ctx, query, userUID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// GetRequest возвращает заявку по её ID.
func (s *Storage) GetRequest(ctx context.Context, id string) (*models.PremiumRequest, error) {
	const op = "storage.GetRequest"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + requestColumns + `
			  FROM premium_requests
			  WHERE id = $1`
	return scanRequestRow(s.DB.QueryRowContext(ctx, query, id), op)
}

// ListRequests возвращает заявки, новые первыми, с опциональным фильтром по статусу.
// Пустой status означает отсутствие фильтра.
func (s *Storage) ListRequests(ctx context.Context, status string) ([]*models.PremiumRequest, error) {
	const op = "storage.ListRequests"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + requestColumns + `
			  FROM premium_requests
			  WHERE ($1 = '' OR status = $1)
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return collectRequests(rows, op)
}

// ListRequestsByUser возвращает заявки пользователя, новые первыми.
func (s *Storage) ListRequestsByUser(ctx context.Context, userUID string) ([]*models.PremiumRequest, error) {
	const op = "storage.ListRequestsByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + requestColumns + `
			  FROM premium_requests
			  WHERE user_uid = $1
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return collectRequests(rows, op)
}

// DecideRequest применяет решение администратора в одной транзакции:
// переводит заявку из pending в конечный статус и обновляет запись пользователя.
// Переход защищён условием status = 'pending' — из двух конкурентных решений
// побеждает ровно одно, второе получает ошибку недопустимого перехода.
func (s *Storage) DecideRequest(ctx context.Context, id, decision, adminNotes string) (*models.PremiumRequest, error) {
	const op = "storage.DecideRequest"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now().UTC()
	updateRequest := `UPDATE premium_requests
			  SET status = $1,
			      admin_notes = NULLIF($2, ''),
			      updated_at = $3,
			      reviewed_at = COALESCE(reviewed_at, $3)
			  WHERE id = $4 AND status = 'pending'
			  RETURNING ` + requestColumns
	req, err := scanRequestRow(tx.QueryRowContext(ctx, updateRequest, decision, adminNotes, now, id), op)
	if err != nil {
		// Ноль обновлённых строк: заявки нет либо она уже рассмотрена.
		if _, getErr := s.GetRequest(ctx, id); getErr == nil {
			return nil, fmt.Errorf("%s: %w", op, domain.ErrState)
		}
		return nil, err
	}

	var updateUser string
	var args []any
	if decision == models.DecisionApproved {
		updateUser = `UPDATE users
			  SET vip_access = TRUE,
			      premium_status = 'active',
			      premium_approved_at = $1
			  WHERE uid = $2`
		args = []any{now, req.UserUID}
	} else {
		updateUser = `UPDATE users
			  SET premium_status = 'rejected'
			  WHERE uid = $1`
		args = []any{req.UserUID}
	}
	if _, err = tx.ExecContext(ctx, updateUser, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return req, nil
}

// DeleteRequest удаляет заявку и возвращает количество удалённых записей.
func (s *Storage) DeleteRequest(ctx context.Context, id string) (int, error) {
	const op = "storage.DeleteRequest"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM premium_requests WHERE id = $1`, id)
	if err != nil {
		if isInvalidUUID(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(affected), nil
}

// CountPendingRequests возвращает количество заявок в статусе pending.
func (s *Storage) CountPendingRequests(ctx context.Context) (int, error) {
	const op = "storage.CountPendingRequests"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	query := `SELECT COUNT(*) FROM premium_requests WHERE status = 'pending'`
	if err := s.DB.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// GetRequestStats возвращает агрегированную статистику заявок по статусам.
func (s *Storage) GetRequestStats(ctx context.Context) (*models.RequestStats, error) {
	const op = "storage.GetRequestStats"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var stats models.RequestStats
	query := `SELECT COUNT(*),
			      COUNT(*) FILTER (WHERE status = 'pending'),
			      COUNT(*) FILTER (WHERE status = 'approved'),
			      COUNT(*) FILTER (WHERE status = 'rejected')
			  FROM premium_requests`
	if err := s.DB.QueryRowContext(ctx, query).Scan(
		&stats.Total, &stats.Pending, &stats.Approved, &stats.Rejected); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequestRow(row rowScanner, op string) (*models.PremiumRequest, error) {
	r := &models.PremiumRequest{}
	var reviewedAt sql.NullTime
	if err := row.Scan(&r.ID, &r.UserUID, &r.UserEmail, &r.UserName, &r.FundAmount,
		&r.Exchange, &r.Status, &r.AdminNotes, &r.CreatedAt, &r.UpdatedAt, &reviewedAt); err != nil {
		return nil, mapRowError(op, err)
	}
	if reviewedAt.Valid {
		r.ReviewedAt = &reviewedAt.Time
	}
	return r, nil
}

func collectRequests(rows *sql.Rows, op string) ([]*models.PremiumRequest, error) {
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.PremiumRequest
	for rows.Next() {
		r, err := scanRequestRow(rows, op)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
