// Package update реализует HTTP-обработчик изменения вебинара.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/membership-hub/internal/domain"
	"github.com/magabrotheeeer/membership-hub/internal/http/response"
	"github.com/magabrotheeeer/membership-hub/internal/lib/sl"
	"github.com/magabrotheeeer/membership-hub/internal/models"
)

// Handler управляет HTTP-запросами на изменение вебинара.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики изменения вебинара.
type Service interface {
	Update(ctx context.Context, req models.DummyWebinar, id string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Изменить вебинар
// @Description Обновляет данные вебинара по его ID.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param id path string true "ID вебинара"
// @Param request body models.DummyWebinar true "Новые данные вебинара"
// @Success 200 {object} response.Response "Вебинар обновлен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Требуется роль admin"
// @Failure 404 {object} response.ErrorResponse "Вебинар не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/webinars/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.webinar.update"
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

	var req models.DummyWebinar
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	if err := h.service.Update(r.Context(), req, id); err != nil {
		log.Error("failed to update webinar", sl.Err(err))
		w.WriteHeader(response.StatusForError(err))
		switch {
		case errors.Is(err, domain.ErrNotFound):
			render.JSON(w, r, response.Error("webinar not found"))
		case errors.Is(err, domain.ErrValidation):
			render.JSON(w, r, response.Error(err.Error()))
		default:
			render.JSON(w, r, response.Error("could not update webinar"))
		}
		return
	}

	log.Info("webinar updated", slog.String("id", id))
	render.JSON(w, r, response.OKWithData(nil))
}
