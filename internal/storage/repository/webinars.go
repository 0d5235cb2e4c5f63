package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/membership-hub/internal/domain"
	"github.com/magabrotheeeer/membership-hub/internal/models"
)

const webinarColumns = `id, title, speaker, description, date, duration_minutes, link, created_at`

// CreateWebinar сохраняет новый вебинар и возвращает его ID.
func (s *Storage) CreateWebinar(ctx context.Context, w models.Webinar) (string, error) {
	const op = "storage.CreateWebinar"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	id := uuid.NewString()
	query := `INSERT INTO webinars (id, title, speaker, description, date, duration_minutes, link)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := s.DB.ExecContext(ctx, query,
		id, w.Title, w.Speaker, w.Description, w.Date, w.DurationMinutes, w.Link)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// UpdateWebinar обновляет данные вебинара по ID.
func (s *Storage) UpdateWebinar(ctx context.Context, w models.Webinar, id string) error {
	const op = "storage.UpdateWebinar"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE webinars
			  SET title = $1, speaker = $2, description = $3, date = $4,
			      duration_minutes = $5, link = $6
			  WHERE id = $7`
	res, err := s.DB.ExecContext(ctx, query,
		w.Title, w.Speaker, w.Description, w.Date, w.DurationMinutes, w.Link, id)
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

// DeleteWebinar удаляет вебинар и возвращает количество удалённых записей.
func (s *Storage) DeleteWebinar(ctx context.Context, id string) (int, error) {
	const op = "storage.DeleteWebinar"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM webinars WHERE id = $1`, id)
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

// ListWebinars возвращает все вебинары по возрастанию даты.
func (s *Storage) ListWebinars(ctx context.Context) ([]*models.Webinar, error) {
	const op = "storage.ListWebinars"
	query := `SELECT ` + webinarColumns + `
			  FROM webinars
			  ORDER BY date ASC`
	return s.queryWebinars(ctx, op, query)
}

// ListUpcomingWebinars возвращает будущие вебинары, ближайшие первыми.
func (s *Storage) ListUpcomingWebinars(ctx context.Context, limit int) ([]*models.Webinar, error) {
	const op = "storage.ListUpcomingWebinars"
	query := `SELECT ` + webinarColumns + `
			  FROM webinars
			  WHERE date > now()
			  ORDER BY date ASC
			  LIMIT $1`
	return s.queryWebinars(ctx, op, query, limit)
}

// ListLiveWebinars возвращает вебинары, идущие сейчас:
// дата начала в пределах часа назад и часа вперёд от текущего момента.
func (s *Storage) ListLiveWebinars(ctx context.Context, now time.Time) ([]*models.Webinar, error) {
	const op = "storage.ListLiveWebinars"
	query := `SELECT ` + webinarColumns + `
			  FROM webinars
			  WHERE date >= $1 AND date <= $2
			  ORDER BY date ASC`
	return s.queryWebinars(ctx, op, query, now.Add(-time.Hour), now.Add(time.Hour))
}

func (s *Storage) queryWebinars(ctx context.Context, op, query string, args ...any) ([]*models.Webinar, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.Webinar
	for rows.Next() {
		w, err := scanWebinarRow(rows, op)
		if err != nil {
			return nil, err
		}
		result = append(result, w)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func scanWebinarRow(row rowScanner, op string) (*models.Webinar, error) {
	w := &models.Webinar{}
	if err := row.Scan(&w.ID, &w.Title, &w.Speaker, &w.Description, &w.Date,
		&w.DurationMinutes, &w.Link, &w.CreatedAt); err != nil {
		return nil, mapRowError(op, err)
	}
	return w, nil
}
