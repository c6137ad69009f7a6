// Package toolentitlement собирает приложение: хранилище, кэш, сервисы,
// маршруты и HTTP-сервер с корректным завершением.
package toolentitlement

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/tool-entitlement/internal/billingprovider"
	"github.com/magabrotheeeer/tool-entitlement/internal/cache"
	"github.com/magabrotheeeer/tool-entitlement/internal/config"
	"github.com/magabrotheeeer/tool-entitlement/internal/lib/jwt"
	"github.com/magabrotheeeer/tool-entitlement/internal/migrations"
	accessservice "github.com/magabrotheeeer/tool-entitlement/internal/services/access"
	authservice "github.com/magabrotheeeer/tool-entitlement/internal/services/auth"
	billingservice "github.com/magabrotheeeer/tool-entitlement/internal/services/billing"
	"github.com/magabrotheeeer/tool-entitlement/internal/storage/repository"
)

// App — собранное приложение с HTTP-сервером.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	redis  *redis.Client
}

// New инициализирует хранилище, применяет миграции, поднимает кэш и
// собирает маршруты. Любая ошибка здесь фатальна для старта процесса.
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

	jwtMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	providerClient := billingprovider.NewClient(cfg.Billing.APIKey, cfg.Billing.APIURL)

	authSvc := authservice.New(logger, db, providerClient, jwtMaker)
	accessSvc := accessservice.New(logger, db, db, cacheRedis, cfg.RedisConnection.CatalogTTL)
	billingSvc := billingservice.New(logger, db)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, RouteDeps{
		JWTMaker:      jwtMaker,
		AuthService:   authSvc,
		AccessService: accessSvc,
		BillingSvc:    billingSvc,
		Provider:      providerClient,
		DB:            db.DB,
		WebhookSecret: cfg.Billing.WebhookSecret,
		PriceID:       cfg.Billing.PriceID,
		SiteURL:       cfg.Billing.SiteURL,
	})

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
		redis:  cacheRedis.DB,
	}, nil
}

// Run запускает HTTP-сервер и ждёт отмены контекста для корректного
// завершения.
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
		_ = a.redis.Close()
		_ = a.db.DB.Close()
		return err
	}
}
