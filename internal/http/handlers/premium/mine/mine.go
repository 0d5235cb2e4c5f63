// Package mine реализует HTTP-обработчик списка собственных заявок пользователя.
package mine

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

// Handler управляет HTTP-запросами на получение собственных заявок.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики получения заявок пользователя.
type Service interface {
	ListMine(ctx context.Context, userUID string) ([]*models.PremiumRequest, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список собственных заявок
// @Description Возвращает заявки текущего пользователя, новые первыми.
// @Tags Premium
// @Produce  json
// @Success 200 {object} map[string]any "Список заявок"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /premium/requests/my [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.premium.mine"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	requests, err := h.service.ListMine(r.Context(), userUID)
	if err != nil {
		log.Error("failed to list own premium requests", sl.Err(err))
		w.WriteHeader(response.StatusForError(err))
		render.JSON(w, r, response.Error("could not list premium requests"))
		return
	}

	log.Info("own premium requests listed", slog.Int("count", len(requests)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"requests": requests,
		"count":    len(requests),
	}))
}
