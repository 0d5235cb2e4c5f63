// Package membershiphub собирает основное HTTP-приложение:
// хранилище, миграции, кеш, брокер уведомлений, сервисы и маршруты.
package membershiphub

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/membership-hub/internal/cache"
	"github.com/magabrotheeeer/membership-hub/internal/config"
	"github.com/magabrotheeeer/membership-hub/internal/lib/jwt"
	librabbitmq "github.com/magabrotheeeer/membership-hub/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/membership-hub/internal/migrations"
	"github.com/magabrotheeeer/membership-hub/internal/rabbitmq"
	accessservice "github.com/magabrotheeeer/membership-hub/internal/services/access"
	authservice "github.com/magabrotheeeer/membership-hub/internal/services/auth"
	premiumservice "github.com/magabrotheeeer/membership-hub/internal/services/premium"
	webinarservice "github.com/magabrotheeeer/membership-hub/internal/services/webinar"
	"github.com/magabrotheeeer/membership-hub/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQ.ConnectionString, cfg.RabbitMQ.ConnectRetries, cfg.RabbitMQ.ConnectDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}
	notifier := librabbitmq.NewDecisionNotifier(ch)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := authservice.New(db, jwtMaker)
	premiumService := premiumservice.New(db, db, cacheRedis, notifier, cfg.Premium, logger)
	webinarService := webinarservice.New(db, cacheRedis, logger)
	accessGate := accessservice.New(db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, premiumService, webinarService, accessGate, db)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if cerr := a.ch.Close(); cerr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", cerr))
		}
		if cerr := a.conn.Close(); cerr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", cerr))
		}
		a.db.DB.Close()
		return err
	}
}
