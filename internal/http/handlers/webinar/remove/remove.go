// Package remove реализует HTTP-обработчик удаления вебинара.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/membership-hub/internal/http/response"
	"github.com/magabrotheeeer/membership-hub/internal/lib/sl"
)

// Handler управляет HTTP-запросами на удаление вебинара.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления вебинара.
type Service interface {
	Remove(ctx context.Context, id string) (int, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить вебинар
// @Description Удаляет вебинар из расписания по его ID.
// @Tags Admin
// @Produce  json
// @Param id path string true "ID вебинара"
// @Success 200 {object} response.Response "Вебинар удален"
// @Failure 400 {object} response.ErrorResponse "Отсутствует ID вебинара"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Требуется роль admin"
// @Failure 404 {object} response.ErrorResponse "Вебинар не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/webinars/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.webinar.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if id == "" {
		log.Error("missing webinar id in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	count, err := h.service.Remove(r.Context(), id)
	if err != nil {
		log.Error("failed to delete webinar", sl.Err(err))
		w.WriteHeader(response.StatusForError(err))
		render.JSON(w, r, response.Error("could not delete webinar"))
		return
	}
	if count == 0 {
		log.Error("webinar not found", slog.String("id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("webinar not found"))
		return
	}

	log.Info("webinar deleted", slog.String("id", id))
	render.JSON(w, r, response.OKWithData(nil))
}
