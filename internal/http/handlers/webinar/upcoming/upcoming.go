// Package upcoming реализует HTTP-обработчик ближайших вебинаров.
package upcoming

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/membership-hub/internal/http/response"
	"github.com/magabrotheeeer/membership-hub/internal/lib/sl"
	"github.com/magabrotheeeer/membership-hub/internal/models"
)

// Handler управляет HTTP-запросами на получение ближайших вебинаров.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики ближайших вебинаров.
type Service interface {
	ListUpcoming(ctx context.Context, limit int) ([]*models.Webinar, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Ближайшие вебинары
// @Description Возвращает вебинары, которые еще не начались, ближайшие первыми.
// @Tags Webinars
// @Produce  json
// @Param limit query int false "Максимум записей, по умолчанию 5"
// @Success 200 {object} map[string]any "Список вебинаров"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Требуется премиум-доступ"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /webinars/upcoming [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.webinar.upcoming"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			log.Error("invalid limit query param", slog.String("limit", raw))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid limit"))
			return
		}
		limit = parsed
	}

	webinars, err := h.service.ListUpcoming(r.Context(), limit)
	if err != nil {
		log.Error("failed to list upcoming webinars", sl.Err(err))
		w.WriteHeader(response.StatusForError(err))
		render.JSON(w, r, response.Error("could not list upcoming webinars"))
		return
	}

	log.Info("upcoming webinars listed", slog.Int("count", len(webinars)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"webinars": webinars,
		"count":    len(webinars),
	}))
}
