// Package togglevip реализует HTTP-обработчик ручного переключения премиум-доступа.
//
// Администратор может включить или выключить доступ пользователю в обход
// жизненного цикла заявок.
package togglevip

import (
	"context"
	"encoding/json"
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

// Handler управляет HTTP-запросами на переключение премиум-доступа.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики переключения доступа.
type Service interface {
	ToggleVIP(ctx context.Context, actorRole, userUID string, enabled bool) error
}

// Request описывает тело запроса на переключение доступа.
type Request struct {
	Enabled bool `json:"enabled"`
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Переключить премиум-доступ
// @Description Вручную включает или выключает премиум-доступ пользователя.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param uid path string true "UID пользователя"
// @Param request body Request true "Новое состояние доступа"
// @Success 200 {object} response.Response "Доступ обновлен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Требуется роль admin"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/users/{uid}/vip [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.togglevip"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID := chi.URLParam(r, "uid")
	if userUID == "" {
		log.Error("missing user uid in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode uid from url"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	role, ok := r.Context().Value(middlewarectx.Role).(string)
	if !ok || role == "" {
		log.Error("role not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.ToggleVIP(r.Context(), role, userUID, req.Enabled); err != nil {
		log.Error("failed to toggle vip access", sl.Err(err))
		w.WriteHeader(response.StatusForError(err))
		if errors.Is(err, domain.ErrNotFound) {
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		render.JSON(w, r, response.Error("could not toggle vip access"))
		return
	}

	log.Info("vip access toggled",
		slog.String("useruid", userUID), slog.Bool("enabled", req.Enabled))
	render.JSON(w, r, response.OKWithData(nil))
}
