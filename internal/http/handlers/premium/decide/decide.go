// Package decide реализует HTTP-обработчик решения администратора по заявке.
//
// Одобрение заявки в той же транзакции выставляет пользователю премиум-доступ;
// повторное решение по уже рассмотренной заявке отклоняется с конфликтом.
package decide

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
	"github.com/magabrotheeeer/membership-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/membership-hub/internal/http/response"
	"github.com/magabrotheeeer/membership-hub/internal/lib/sl"
	"github.com/magabrotheeeer/membership-hub/internal/models"
)

// Handler управляет HTTP-запросами на решение по заявке.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики решения по заявке.
type Service interface {
	Decide(ctx context.Context, actorRole, requestID string, req models.DummyDecision) (*models.PremiumRequest, error)
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
// @Summary Решение по заявке
// @Description Одобряет или отклоняет заявку. Одобрение выставляет пользователю премиум-доступ.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param id path string true "ID заявки"
// @Param request body models.DummyDecision true "Решение администратора"
// @Success 200 {object} map[string]any "Заявка рассмотрена"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Требуется роль admin"
// @Failure 404 {object} response.ErrorResponse "Заявка не найдена"
// @Failure 409 {object} response.ErrorResponse "Заявка уже рассмотрена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/premium/requests/{id}/decision [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.premium.decide"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	requestID := chi.URLParam(r, "id")
	if requestID == "" {
		log.Error("missing request id in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	var req models.DummyDecision
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

	role, ok := r.Context().Value(middlewarectx.Role).(string)
	if !ok || role == "" {
		log.Error("role not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	decided, err := h.service.Decide(r.Context(), role, requestID, req)
	if err != nil {
		log.Error("failed to decide premium request", sl.Err(err))
		w.WriteHeader(response.StatusForError(err))
		switch {
		case errors.Is(err, domain.ErrState):
			render.JSON(w, r, response.Error("request is already decided"))
		case errors.Is(err, domain.ErrNotFound):
			render.JSON(w, r, response.Error("request not found"))
		default:
			render.JSON(w, r, response.Error("could not decide premium request"))
		}
		return
	}

	log.Info("premium request decided",
		slog.String("id", decided.ID), slog.String("status", decided.Status))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"request_id": decided.ID,
		"status":     decided.Status,
	}))
}
