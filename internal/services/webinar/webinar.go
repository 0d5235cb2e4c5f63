// Package webinar содержит бизнес-логику чтения и администрирования вебинаров
// с кешированием списков.
package webinar

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/membership-hub/internal/domain"
	"github.com/magabrotheeeer/membership-hub/internal/lib/sl"
	"github.com/magabrotheeeer/membership-hub/internal/models"
)

const allCacheKey = "webinars:all"

// Repository определяет методы для работы с вебинарами в хранилище.
type Repository interface {
	CreateWebinar(ctx context.Context, w models.Webinar) (string, error)
	UpdateWebinar(ctx context.Context, w models.Webinar, id string) error
	DeleteWebinar(ctx context.Context, id string) (int, error)
	ListWebinars(ctx context.Context) ([]*models.Webinar, error)
	ListUpcomingWebinars(ctx context.Context, limit int) ([]*models.Webinar, error)
	ListLiveWebinars(ctx context.Context, now time.Time) ([]*models.Webinar, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service реализует работу с вебинарами, включая кеширование полного списка.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, log: log}
}

// Create добавляет новый вебинар и возвращает его ID.
func (s *Service) Create(ctx context.Context, req models.DummyWebinar) (string, error) {
	w, err := fromDummy(req)
	if err != nil {
		return "", err
	}
	id, err := s.repo.CreateWebinar(ctx, w)
	if err != nil {
		return "", domain.Wrap(err)
	}
	s.log.Info("created new webinar", slog.String("id", id))
	s.invalidateList()
	return id, nil
}

// Update обновляет вебинар по ID.
func (s *Service) Update(ctx context.Context, req models.DummyWebinar, id string) error {
	w, err := fromDummy(req)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateWebinar(ctx, w, id); err != nil {
		return domain.Wrap(err)
	}
	s.invalidateList()
	return nil
}

// Remove удаляет вебинар по ID, возвращает количество удалённых записей.
func (s *Service) Remove(ctx context.Context, id string) (int, error) {
	count, err := s.repo.DeleteWebinar(ctx, id)
	if err != nil {
		return 0, domain.Wrap(err)
	}
	if count > 0 {
		s.invalidateList()
	}
	return count, nil
}

// ListAll возвращает все вебинары по возрастанию даты, кешируя список на минуту.
func (s *Service) ListAll(ctx context.Context) ([]*models.Webinar, error) {
	var cached []*models.Webinar
	found, err := s.cache.Get(allCacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read webinars from cache", sl.Err(err))
	}
	if found {
		return cached, nil
	}

	result, err := s.repo.ListWebinars(ctx)
	if err != nil {
		return nil, domain.Wrap(err)
	}
	if err := s.cache.Set(allCacheKey, result, time.Minute); err != nil {
		s.log.Warn("failed to cache webinars", sl.Err(err))
	}
	return result, nil
}

// ListUpcoming возвращает будущие вебинары, ближайшие первыми.
func (s *Service) ListUpcoming(ctx context.Context, limit int) ([]*models.Webinar, error) {
	if limit <= 0 {
		limit = 5
	}
	result, err := s.repo.ListUpcomingWebinars(ctx, limit)
	if err != nil {
		return nil, domain.Wrap(err)
	}
	return result, nil
}

// ListLive возвращает идущие сейчас вебинары.
func (s *Service) ListLive(ctx context.Context) ([]*models.Webinar, error) {
	result, err := s.repo.ListLiveWebinars(ctx, time.Now().UTC())
	if err != nil {
		return nil, domain.Wrap(err)
	}
	return result, nil
}

func (s *Service) invalidateList() {
	if err := s.cache.Invalidate(allCacheKey); err != nil {
		s.log.Warn("failed to invalidate webinars cache", sl.Err(err))
	}
}

func fromDummy(req models.DummyWebinar) (models.Webinar, error) {
	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		return models.Webinar{}, fmt.Errorf("invalid date, expected RFC3339: %w", domain.ErrValidation)
	}
	duration := req.DurationMinutes
	if duration == 0 {
		duration = 60
	}
	return models.Webinar{
		Title:           req.Title,
		Speaker:         req.Speaker,
		Description:     req.Description,
		Date:            date,
		DurationMinutes: duration,
		Link:            req.Link,
	}, nil
}
