// Package list реализует HTTP-обработчик списка заявок для панели администратора.
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

// Handler управляет HTTP-запросами на получение всех заявок.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики получения всех заявок.
type Service interface {
	ListAll(ctx context.Context, actorRole, statusFilter string) ([]*models.PremiumRequest, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список всех заявок
// @Description Возвращает все заявки, новые первыми. Опциональный фильтр по статусу.
// @Tags Admin
// @Produce  json
// @Param status query string false "Фильтр по статусу: pending, approved, rejected"
// @Success 200 {object} map[string]any "Список заявок"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Требуется роль admin"
// @Failure 422 {object} response.ErrorResponse "Неизвестный статус"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/premium/requests [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.premium.list"
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

	statusFilter := r.URL.Query().Get("status")

	requests, err := h.service.ListAll(r.Context(), role, statusFilter)
	if err != nil {
		log.Error("failed to list premium requests", sl.Err(err))
		w.WriteHeader(response.StatusForError(err))
		render.JSON(w, r, response.Error("could not list premium requests"))
		return
	}

	log.Info("premium requests listed", slog.Int("count", len(requests)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"requests": requests,
		"count":    len(requests),
	}))
}
