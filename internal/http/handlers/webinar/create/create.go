// Package create реализует HTTP-обработчик добавления вебинара.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/membership-hub/internal/domain"
	"github.com/magabrotheeeer/membership-hub/internal/http/response"
	"github.com/magabrotheeeer/membership-hub/internal/lib/sl"
	"github.com/magabrotheeeer/membership-hub/internal/models"
)

// Handler управляет HTTP-запросами на добавление вебинара.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики добавления вебинара.
type Service interface {
	Create(ctx context.Context, req models.DummyWebinar) (string, error)
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
// @Summary Добавить вебинар
// @Description Добавляет вебинар в расписание.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param request body models.DummyWebinar true "Данные вебинара"
// @Success 200 {object} map[string]any "Вебинар создан"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Требуется роль admin"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/webinars [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.webinar.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	id, err := h.service.Create(r.Context(), req)
	if err != nil {
		log.Error("failed to create webinar", sl.Err(err))
		w.WriteHeader(response.StatusForError(err))
		if errors.Is(err, domain.ErrValidation) {
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		render.JSON(w, r, response.Error("could not create webinar"))
		return
	}

	log.Info("webinar created", slog.String("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{"webinar_id": id}))
}
