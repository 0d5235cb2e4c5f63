package health

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/membership-hub/internal/http/response"
	"github.com/magabrotheeeer/membership-hub/internal/lib/sl"
)

// Service проверяет готовность хранилища.
type Service interface {
	CheckDatabaseReady() error
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.service.CheckDatabaseReady(); err != nil {
		h.log.Error("database is not ready", sl.Err(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("database is not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"status": "ok",
	}))
}
