// Package live реализует HTTP-обработчик идущих сейчас вебинаров.
package live

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/membership-hub/internal/http/response"
	"github.com/magabrotheeeer/membership-hub/internal/lib/sl"
	"github.com/magabrotheeeer/membership-hub/internal/models"
)

// Handler управляет HTTP-запросами на получение идущих вебинаров.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики идущих вебинаров.
type Service interface {
	ListLive(ctx context.Context) ([]*models.Webinar, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Идущие вебинары
// @Description Возвращает вебинары, начавшиеся в пределах часа от текущего момента.
// @Tags Webinars
// @Produce  json
// @Success 200 {object} map[string]any "Список вебинаров"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Требуется премиум-доступ"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /webinars/live [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.webinar.live"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	webinars, err := h.service.ListLive(r.Context())
	if err != nil {
		log.Error("failed to list live webinars", sl.Err(err))
		w.WriteHeader(response.StatusForError(err))
		render.JSON(w, r, response.Error("could not list live webinars"))
		return
	}

	log.Info("live webinars listed", slog.Int("count", len(webinars)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"webinars": webinars,
		"count":    len(webinars),
	}))
}
