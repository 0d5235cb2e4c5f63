// Package premium содержит бизнес-логику жизненного цикла заявок на премиум-доступ:
// подачу, листинг, решение администратора с выставлением премиум-доступа
// и прямое административное переключение VIP в обход заявок.
package premium

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/membership-hub/internal/config"
	"github.com/magabrotheeeer/membership-hub/internal/domain"
	"github.com/magabrotheeeer/membership-hub/internal/lib/sl"
	"github.com/magabrotheeeer/membership-hub/internal/models"
)

const statsCacheKey = "premium:stats"

// RequestRepository определяет методы для работы с заявками в хранилище.
type RequestRepository interface {
	// CreateRequest добавляет новую заявку со статусом pending и возвращает её ID.
	CreateRequest(ctx context.Context, req models.PremiumRequest) (string, error)
	// HasOpenRequest сообщает, есть ли у пользователя открытая заявка.
	HasOpenRequest(ctx context.Context, userUID string) (bool, error)
	// GetRequest возвращает заявку по ID.
	GetRequest(ctx context.Context, id string) (*models.PremiumRequest, error)
	// ListRequests возвращает заявки с опциональным фильтром по статусу.
	ListRequests(ctx context.Context, status string) ([]*models.PremiumRequest, error)
	// ListRequestsByUser возвращает заявки пользователя.
	ListRequestsByUser(ctx context.Context, userUID string) ([]*models.PremiumRequest, error)
	// DecideRequest транзакционно применяет решение администратора.
	DecideRequest(ctx context.Context, id, decision, adminNotes string) (*models.PremiumRequest, error)
	// DeleteRequest удаляет заявку, возвращает количество удалённых записей.
	DeleteRequest(ctx context.Context, id string) (int, error)
	// CountPendingRequests возвращает количество нерассмотренных заявок.
	CountPendingRequests(ctx context.Context) (int, error)
	// GetRequestStats возвращает агрегированную статистику заявок.
	GetRequestStats(ctx context.Context) (*models.RequestStats, error)
}

// UserRepository определяет методы для работы с пользователями в хранилище.
type UserRepository interface {
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// ListUsers возвращает всех пользователей.
	ListUsers(ctx context.Context) ([]*models.User, error)
	// SetEntitlement напрямую выставляет премиум-доступ и производный статус.
	SetEntitlement(ctx context.Context, userUID string, enabled bool) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// Notifier публикует событие решения по заявке в очередь уведомлений.
type Notifier interface {
	PublishDecision(info models.DecisionInfo) error
}

// Service реализует жизненный цикл заявок на премиум-доступ.
// Сервис не выполняет повторных попыток: временные ошибки хранилища
// возвращаются вызывающему как есть.
type Service struct {
	requests RequestRepository
	users    UserRepository
	cache    Cache
	notifier Notifier
	bounds   config.Premium
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(requests RequestRepository, users UserRepository, cache Cache,
	notifier Notifier, bounds config.Premium, log *slog.Logger) *Service {
	return &Service{
		requests: requests,
		users:    users,
		cache:    cache,
		notifier: notifier,
		bounds:   bounds,
		log:      log,
	}
}

// Submit подает новую заявку от имени пользователя userUID.
// Email и имя пользователя снимаются как снапшот в момент подачи.
// Запись пользователя на этом шаге не меняется.
func (s *Service) Submit(ctx context.Context, userUID string, req models.DummyRequest) (string, error) {
	if req.FundAmount < s.bounds.MinFundAmount {
		return "", fmt.Errorf("minimum fund amount is $%.0f: %w", s.bounds.MinFundAmount, domain.ErrValidation)
	}
	if req.FundAmount > s.bounds.MaxFundAmount {
		return "", fmt.Errorf("maximum fund amount is $%.0f: %w", s.bounds.MaxFundAmount, domain.ErrValidation)
	}
	exchange := strings.TrimSpace(req.Exchange)
	if exchange == "" {
		return "", fmt.Errorf("exchange is required: %w", domain.ErrValidation)
	}

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return "", domain.Wrap(err)
	}

	open, err := s.requests.HasOpenRequest(ctx, userUID)
	if err != nil {
		return "", domain.Wrap(err)
	}
	if open {
		return "", fmt.Errorf("open premium request already exists: %w", domain.ErrConflict)
	}

	id, err := s.requests.CreateRequest(ctx, models.PremiumRequest{
		UserUID:    userUID,
		UserEmail:  user.Email,
		UserName:   user.Username,
		FundAmount: req.FundAmount,
		Exchange:   exchange,
	})
	if err != nil {
		return "", domain.Wrap(err)
	}

	s.log.Info("created new premium request",
		slog.String("id", id), slog.String("user_uid", userUID))
	s.invalidateStats()

	return id, nil
}

// ListMine возвращает заявки пользователя, новые первыми.
func (s *Service) ListMine(ctx context.Context, userUID string) ([]*models.PremiumRequest, error) {
	result, err := s.requests.ListRequestsByUser(ctx, userUID)
	if err != nil {
		return nil, domain.Wrap(err)
	}
	return result, nil
}

// ListAll возвращает все заявки для панели администратора.
// Пустой statusFilter означает отсутствие фильтра.
func (s *Service) ListAll(ctx context.Context, actorRole, statusFilter string) ([]*models.PremiumRequest, error) {
	if err := requireAdmin(actorRole); err != nil {
		return nil, err
	}
	if statusFilter != "" &&
		statusFilter != models.RequestStatusPending &&
		statusFilter != models.RequestStatusApproved &&
		statusFilter != models.RequestStatusRejected {
		return nil, fmt.Errorf("unknown status filter %q: %w", statusFilter, domain.ErrValidation)
	}
	result, err := s.requests.ListRequests(ctx, statusFilter)
	if err != nil {
		return nil, domain.Wrap(err)
	}
	return result, nil
}

// Decide применяет решение администратора по заявке.
// Одобрение в той же транзакции выставляет пользователю премиум-доступ;
// отклонение запись пользователя не трогает (кроме зеркального статуса).
// Событие решения публикуется в очередь уведомлений, ошибка публикации
// решение не отменяет.
func (s *Service) Decide(ctx context.Context, actorRole, requestID string, req models.DummyDecision) (*models.PremiumRequest, error) {
	if err := requireAdmin(actorRole); err != nil {
		return nil, err
	}

	decided, err := s.requests.DecideRequest(ctx, requestID, req.Decision, req.AdminNotes)
	if err != nil {
		return nil, domain.Wrap(err)
	}

	s.log.Info("premium request decided",
		slog.String("id", decided.ID),
		slog.String("decision", decided.Status),
		slog.String("user_uid", decided.UserUID))
	s.invalidateStats()

	if s.notifier != nil {
		info := models.DecisionInfo{
			UserEmail:  decided.UserEmail,
			UserName:   decided.UserName,
			Status:     decided.Status,
			AdminNotes: decided.AdminNotes,
		}
		if err := s.notifier.PublishDecision(info); err != nil {
			s.log.Warn("failed to publish decision notification", sl.Err(err))
		}
	}

	return decided, nil
}

// Delete удаляет заявку, возвращает количество удалённых записей.
func (s *Service) Delete(ctx context.Context, actorRole, requestID string) (int, error) {
	if err := requireAdmin(actorRole); err != nil {
		return 0, err
	}
	count, err := s.requests.DeleteRequest(ctx, requestID)
	if err != nil {
		return 0, domain.Wrap(err)
	}
	if count > 0 {
		s.invalidateStats()
	}
	return count, nil
}

// PendingCount возвращает количество нерассмотренных заявок.
func (s *Service) PendingCount(ctx context.Context, actorRole string) (int, error) {
	if err := requireAdmin(actorRole); err != nil {
		return 0, err
	}
	count, err := s.requests.CountPendingRequests(ctx)
	if err != nil {
		return 0, domain.Wrap(err)
	}
	return count, nil
}

// Stats возвращает агрегированную статистику заявок, кешируя её на минуту.
func (s *Service) Stats(ctx context.Context, actorRole string) (*models.RequestStats, error) {
	if err := requireAdmin(actorRole); err != nil {
		return nil, err
	}

	var cached models.RequestStats
	found, err := s.cache.Get(statsCacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read stats from cache", sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	stats, err := s.requests.GetRequestStats(ctx)
	if err != nil {
		return nil, domain.Wrap(err)
	}
	if err := s.cache.Set(statsCacheKey, stats, time.Minute); err != nil {
		s.log.Warn("failed to cache stats", sl.Err(err))
	}
	return stats, nil
}

// ToggleVIP напрямую выставляет или снимает премиум-доступ пользователя,
// независимо от наличия заявок. Административный обходной путь.
func (s *Service) ToggleVIP(ctx context.Context, actorRole, userUID string, enabled bool) error {
	if err := requireAdmin(actorRole); err != nil {
		return err
	}
	if err := s.users.SetEntitlement(ctx, userUID, enabled); err != nil {
		return domain.Wrap(err)
	}
	s.log.Info("vip access toggled",
		slog.String("user_uid", userUID), slog.Bool("enabled", enabled))
	return nil
}

// ListUsers возвращает всех пользователей для панели администратора.
func (s *Service) ListUsers(ctx context.Context, actorRole string) ([]*models.User, error) {
	if err := requireAdmin(actorRole); err != nil {
		return nil, err
	}
	result, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, domain.Wrap(err)
	}
	return result, nil
}

func (s *Service) invalidateStats() {
	if err := s.cache.Invalidate(statsCacheKey); err != nil {
		s.log.Warn("failed to invalidate stats cache", sl.Err(err))
	}
}

func requireAdmin(actorRole string) error {
	if actorRole != models.RoleAdmin {
		return fmt.Errorf("admin role required: %w", domain.ErrForbidden)
	}
	return nil
}
