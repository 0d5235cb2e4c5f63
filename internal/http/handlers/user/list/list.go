// Package list реализует HTTP-обработчик списка пользователей для администратора.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/membership-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/membership-hub/internal/http/response"
	"github.com/magabrotheeeer/membership-hub/internal/lib/sl"
	"github.com/magabrotheeeer/membership-hub/internal/models"
)

// Handler управляет HTTP-запросами на получение списка пользователей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка пользователей.
type Service interface {
	ListUsers(ctx context.Context, actorRole string) ([]*models.User, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список пользователей
// @Description Возвращает всех пользователей, новые первыми.
// @Tags Admin
// @Produce  json
// @Success 200 {object} map[string]any "Список пользователей"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Требуется роль admin"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	role, ok := r.Context().Value(middlewarectx.Role).(string)
	if !ok || role == "" {
		log.Error("role not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	users, err := h.service.ListUsers(r.Context(), role)
	if err != nil {
		log.Error("failed to list users", sl.Err(err))
		w.WriteHeader(response.StatusForError(err))
		render.JSON(w, r, response.Error("could not list users"))
		return
	}

	log.Info("users listed", slog.Int("count", len(users)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"users": users,
		"count": len(users),
	}))
}
