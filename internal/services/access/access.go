// Package access реализует проверку доступа к защищённым поверхностям:
// панель администратора требует роли admin, дашборд — активного премиум-статуса.
// Любая ошибка чтения хранилища трактуется как отказ в доступе, не как допуск.
package access

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/membership-hub/internal/lib/sl"
	"github.com/magabrotheeeer/membership-hub/internal/models"
)

// UserReader описывает чтение пользователя из хранилища для проверки доступа.
type UserReader interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// Decision результат проверки доступа.
type Decision int

const (
	// Denied доступ запрещён.
	Denied Decision = iota
	// Granted доступ разрешён.
	Granted
)

// Gate проверяет право аутентифицированной личности на защищённую поверхность.
// Результат не кешируется: каждый запрос к защищённой поверхности
// заново читает запись пользователя.
type Gate struct {
	users UserReader
	log   *slog.Logger
}

// New создает новый Gate.
func New(users UserReader, log *slog.Logger) *Gate {
	return &Gate{users: users, log: log}
}

// CheckDashboard разрешает доступ к дашборду только при premium_status = active.
// Наличие нерассмотренной заявки доступа не даёт.
func (g *Gate) CheckDashboard(ctx context.Context, userUID string) Decision {
	user, err := g.users.GetUser(ctx, userUID)
	if err != nil {
		g.log.Error("access check failed, denying", sl.Err(err),
			slog.String("user_uid", userUID))
		return Denied
	}
	if user.PremiumStatus != models.PremiumStatusActive {
		return Denied
	}
	return Granted
}

// CheckAdmin разрешает доступ к панели администратора только при роли admin.
// Роль читается из хранилища, а не из токена: отзыв роли действует
// немедленно, не дожидаясь истечения токена.
func (g *Gate) CheckAdmin(ctx context.Context, userUID string) Decision {
	user, err := g.users.GetUser(ctx, userUID)
	if err != nil {
		g.log.Error("access check failed, denying", sl.Err(err),
			slog.String("user_uid", userUID))
		return Denied
	}
	if user.Role != models.RoleAdmin {
		return Denied
	}
	return Granted
}
