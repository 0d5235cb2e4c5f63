package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/membership-hub/internal/http/response"
	"github.com/magabrotheeeer/membership-hub/internal/services/access"
)

// AccessGate определяет интерфейс проверки доступа к защищённым поверхностям.
type AccessGate interface {
	CheckDashboard(ctx context.Context, userUID string) access.Decision
	CheckAdmin(ctx context.Context, userUID string) access.Decision
}

// PremiumStatusMiddleware создает middleware доступа к дашборду:
// пропускает только пользователей с активным премиум-статусом.
// Проверка выполняется на каждом запросе, результат не кешируется.
func PremiumStatusMiddleware(log *slog.Logger, gate AccessGate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userUID, ok := r.Context().Value(UserUID).(string)
			if !ok || userUID == "" {
				log.Error("user identification missing")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			if gate.CheckDashboard(r.Context(), userUID) != access.Granted {
				log.Info("dashboard access denied", slog.String("user_uid", userUID))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("premium access required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AdminOnlyMiddleware создает middleware доступа к административным операциям:
// пропускает только пользователей с ролью admin.
func AdminOnlyMiddleware(log *slog.Logger, gate AccessGate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userUID, ok := r.Context().Value(UserUID).(string)
			if !ok || userUID == "" {
				log.Error("user identification missing")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			if gate.CheckAdmin(r.Context(), userUID) != access.Granted {
				log.Info("admin access denied", slog.String("user_uid", userUID))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("admin access required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
