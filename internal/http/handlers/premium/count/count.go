// Package count реализует HTTP-обработчик количества ожидающих заявок.
//
// Endpoint используется панелью администратора для бейджа на вкладке заявок.
package count

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/membership-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/membership-hub/internal/http/response"
	"github.com/magabrotheeeer/membership-hub/internal/lib/sl"
)

// Handler управляет HTTP-запросами на подсчет ожидающих заявок.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики подсчета заявок.
type Service interface {
	PendingCount(ctx context.Context, actorRole string) (int, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Количество ожидающих заявок
// @Description Возвращает число заявок в статусе pending.
// @Tags Admin
// @Produce  json
// @Success 200 {object} map[string]any "Количество заявок"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Требуется роль admin"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/premium/requests/pending/count [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.premium.count"
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

	pending, err := h.service.PendingCount(r.Context(), role)
	if err != nil {
		log.Error("failed to count pending requests", sl.Err(err))
		w.WriteHeader(response.StatusForError(err))
		render.JSON(w, r, response.Error("could not count pending requests"))
		return
	}

	log.Info("pending requests counted", slog.Int("count", pending))
	render.JSON(w, r, response.OKWithData(map[string]any{"count": pending}))
}
