// Package remove реализует HTTP-обработчик удаления заявки администратором.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/membership-hub/internal/domain"
	"github.com/magabrotheeeer/membership-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/membership-hub/internal/http/response"
	"github.com/magabrotheeeer/membership-hub/internal/lib/sl"
)

// Handler управляет HTTP-запросами на удаление заявки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления заявки.
type Service interface {
	Delete(ctx context.Context, actorRole, requestID string) (int, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить заявку
// @Description Удаляет заявку из истории. Премиум-доступ пользователя не меняется.
// @Tags Admin
// @Produce  json
// @Param id path string true "ID заявки"
// @Success 200 {object} response.Response "Заявка удалена"
// @Failure 400 {object} response.ErrorResponse "Отсутствует ID заявки"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Требуется роль admin"
// @Failure 404 {object} response.ErrorResponse "Заявка не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/premium/requests/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.premium.remove"
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

	role, ok := r.Context().Value(middlewarectx.Role).(string)
	if !ok || role == "" {
		log.Error("role not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	count, err := h.service.Delete(r.Context(), role, requestID)
	if err != nil {
		log.Error("failed to delete premium request", sl.Err(err))
		w.WriteHeader(response.StatusForError(err))
		if errors.Is(err, domain.ErrNotFound) {
			render.JSON(w, r, response.Error("request not found"))
			return
		}
		render.JSON(w, r, response.Error("could not delete premium request"))
		return
	}
	if count == 0 {
		log.Error("premium request not found", slog.String("id", requestID))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("request not found"))
		return
	}

	log.Info("premium request deleted", slog.String("id", requestID))
	render.JSON(w, r, response.OKWithData(nil))
}
