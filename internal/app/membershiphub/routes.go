// Package membershiphub предоставляет маршруты для основного приложения.
package membershiphub

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/membership-hub/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/membership-hub/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/membership-hub/internal/http/handlers/health"
	"github.com/magabrotheeeer/membership-hub/internal/http/handlers/premium/count"
	"github.com/magabrotheeeer/membership-hub/internal/http/handlers/premium/decide"
	premiumlist "github.com/magabrotheeeer/membership-hub/internal/http/handlers/premium/list"
	"github.com/magabrotheeeer/membership-hub/internal/http/handlers/premium/mine"
	premiumremove "github.com/magabrotheeeer/membership-hub/internal/http/handlers/premium/remove"
	"github.com/magabrotheeeer/membership-hub/internal/http/handlers/premium/stats"
	"github.com/magabrotheeeer/membership-hub/internal/http/handlers/premium/submit"
	userlist "github.com/magabrotheeeer/membership-hub/internal/http/handlers/user/list"
	"github.com/magabrotheeeer/membership-hub/internal/http/handlers/user/togglevip"
	webinarcreate "github.com/magabrotheeeer/membership-hub/internal/http/handlers/webinar/create"
	webinarlist "github.com/magabrotheeeer/membership-hub/internal/http/handlers/webinar/list"
	"github.com/magabrotheeeer/membership-hub/internal/http/handlers/webinar/live"
	webinarremove "github.com/magabrotheeeer/membership-hub/internal/http/handlers/webinar/remove"
	"github.com/magabrotheeeer/membership-hub/internal/http/handlers/webinar/upcoming"
	webinarupdate "github.com/magabrotheeeer/membership-hub/internal/http/handlers/webinar/update"
	"github.com/magabrotheeeer/membership-hub/internal/http/middlewarectx"
	accessservice "github.com/magabrotheeeer/membership-hub/internal/services/access"
	authservice "github.com/magabrotheeeer/membership-hub/internal/services/auth"
	premiumservice "github.com/magabrotheeeer/membership-hub/internal/services/premium"
	webinarservice "github.com/magabrotheeeer/membership-hub/internal/services/webinar"
	"github.com/magabrotheeeer/membership-hub/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	authService *authservice.Service,
	premiumService *premiumservice.Service,
	webinarService *webinarservice.Service,
	accessGate *accessservice.Gate,
	db *repository.Storage,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/premium/requests", submit.New(logger, premiumService).ServeHTTP)
			r.Get("/premium/requests/my", mine.New(logger, premiumService).ServeHTTP)

			// Раздел доступен только пользователям с активным премиум-статусом
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.PremiumStatusMiddleware(logger, accessGate))
				r.Get("/webinars", webinarlist.New(logger, webinarService).ServeHTTP)
				r.Get("/webinars/upcoming", upcoming.New(logger, webinarService).ServeHTTP)
				r.Get("/webinars/live", live.New(logger, webinarService).ServeHTTP)
			})

			// Панель администратора
			r.Route("/admin", func(r chi.Router) {
				r.Use(middlewarectx.AdminOnlyMiddleware(logger, accessGate))

				r.Get("/premium/requests", premiumlist.New(logger, premiumService).ServeHTTP)
				r.Get("/premium/requests/pending/count", count.New(logger, premiumService).ServeHTTP)
				r.Post("/premium/requests/{id}/decision", decide.New(logger, premiumService).ServeHTTP)
				r.Delete("/premium/requests/{id}", premiumremove.New(logger, premiumService).ServeHTTP)
				r.Get("/premium/requests/stats", stats.New(logger, premiumService).ServeHTTP)

				r.Get("/users", userlist.New(logger, premiumService).ServeHTTP)
				r.Post("/users/{uid}/vip", togglevip.New(logger, premiumService).ServeHTTP)

				r.Post("/webinars", webinarcreate.New(logger, webinarService).ServeHTTP)
				r.Put("/webinars/{id}", webinarupdate.New(logger, webinarService).ServeHTTP)
				r.Delete("/webinars/{id}", webinarremove.New(logger, webinarService).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger, db).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
