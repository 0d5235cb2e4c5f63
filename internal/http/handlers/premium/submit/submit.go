// Package submit реализует HTTP-обработчик подачи заявки на премиум-доступ.
//
// Handler принимает JSON-запрос с суммой инвестиций и биржей, валидирует их,
// извлекает uid пользователя из контекста, вызывает бизнес-логику подачи заявки
// и возвращает ID созданной записи в JSON-формате.
//
// В случае ошибок формируются соответствующие HTTP-ответы с описанием проблемы.
package submit

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
	"github.com/magabrotheeeer/membership-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/membership-hub/internal/http/response"
	"github.com/magabrotheeeer/membership-hub/internal/lib/sl"
	"github.com/magabrotheeeer/membership-hub/internal/models"
)

// Handler управляет HTTP-запросами на подачу заявок на премиум-доступ.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики жизненного цикла заявок
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики подачи заявки.
type Service interface {
	Submit(ctx context.Context, userUID string, req models.DummyRequest) (string, error)
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
// @Summary Подать заявку на премиум-доступ
// @Description Создает заявку со статусом pending. Возвращает ID созданной записи.
// @Tags Premium
// @Accept  json
// @Produce  json
// @Param request body models.DummyRequest true "Данные новой заявки"
// @Success 200 {object} map[string]any "Успешная подача заявки"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 409 {object} response.ErrorResponse "Открытая заявка уже существует"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при создании заявки"
// @Router /premium/requests [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.premium.submit"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyRequest
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

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	id, err := h.service.Submit(r.Context(), userUID, req)
	if err != nil {
		log.Error("failed to submit premium request", sl.Err(err))
		w.WriteHeader(response.StatusForError(err))
		switch {
		case errors.Is(err, domain.ErrValidation):
			render.JSON(w, r, response.Error(err.Error()))
		case errors.Is(err, domain.ErrConflict):
			render.JSON(w, r, response.Error("open premium request already exists"))
		default:
			render.JSON(w, r, response.Error("could not submit premium request"))
		}
		return
	}

	log.Info("premium request submitted", slog.String("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"request_id": id,
		"status":     models.RequestStatusPending,
	}))
}
