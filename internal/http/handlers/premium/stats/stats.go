// Package stats реализует HTTP-обработчик сводной статистики по заявкам.
package stats

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

// Handler управляет HTTP-запросами на получение статистики.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики статистики по заявкам.
type Service interface {
	Stats(ctx context.Context, actorRole string) (*models.RequestStats, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Статистика заявок
// @Description Возвращает количество заявок по статусам и общее число.
// @Tags Admin
// @Produce  json
// @Success 200 {object} models.RequestStats "Статистика"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Требуется роль admin"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/premium/requests/stats [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.premium.stats"
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

	stats, err := h.service.Stats(r.Context(), role)
	if err != nil {
		log.Error("failed to get request stats", sl.Err(err))
		w.WriteHeader(response.StatusForError(err))
		render.JSON(w, r, response.Error("could not get request stats"))
		return
	}

	log.Info("request stats collected", slog.Int("total", stats.Total))
	render.JSON(w, r, response.OKWithData(stats))
}
