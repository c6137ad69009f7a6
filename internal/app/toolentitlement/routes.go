package toolentitlement

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/tool-entitlement/internal/http/handlers/access/check"
	"github.com/magabrotheeeer/tool-entitlement/internal/http/handlers/access/list"
	"github.com/magabrotheeeer/tool-entitlement/internal/http/handlers/admin/grant"
	adminusers "github.com/magabrotheeeer/tool-entitlement/internal/http/handlers/admin/users"
	"github.com/magabrotheeeer/tool-entitlement/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/tool-entitlement/internal/http/handlers/auth/profile"
	"github.com/magabrotheeeer/tool-entitlement/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/tool-entitlement/internal/http/handlers/billing/checkout"
	"github.com/magabrotheeeer/tool-entitlement/internal/http/handlers/billing/webhook"
	"github.com/magabrotheeeer/tool-entitlement/internal/http/handlers/health"
	"github.com/magabrotheeeer/tool-entitlement/internal/http/middlewarectx"
	"github.com/magabrotheeeer/tool-entitlement/internal/lib/jwt"
)

// RouteDeps — зависимости маршрутов.
type RouteDeps struct {
	JWTMaker      jwt.Maker
	AuthService   AuthService
	AccessService AccessService
	BillingSvc    webhook.Service
	Provider      checkout.ProviderClient
	DB            *sql.DB
	WebhookSecret string
	PriceID       string
	SiteURL       string
}

// AuthService объединяет контракты обработчиков аутентификации.
type AuthService interface {
	login.Service
	register.Service
	profile.Service
}

// AccessService объединяет контракты обработчиков решающего ядра.
type AccessService interface {
	check.Service
	list.Service
	grant.Service
	adminusers.Service
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, deps RouteDeps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, deps.AuthService).ServeHTTP)
		r.Post("/login", login.New(logger, deps.AuthService).ServeHTTP)

		// Проверка доступа работает и для анонимных посетителей:
		// free-инструменты не требуют токена вовсе.
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.OptionalJWTMiddleware(deps.JWTMaker, logger))
			r.Post("/tools/check", check.New(logger, deps.AccessService).ServeHTTP)
		})

		// Группа с обязательной JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(deps.JWTMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/profile", profile.New(logger, deps.AuthService).ServeHTTP)
			r.Get("/tools", list.New(logger, deps.AccessService).ServeHTTP)
			r.Post("/billing/checkout", checkout.New(logger, deps.Provider, deps.PriceID, deps.SiteURL).ServeHTTP)
			r.Post("/admin/permissions", grant.New(logger, deps.AccessService).ServeHTTP)
			r.Get("/admin/users", adminusers.New(logger, deps.AccessService).ServeHTTP)
		})

		// Webhook endpoint (без аутентификации, подпись проверяет обработчик)
		r.Post("/billing/webhook", webhook.New(logger, deps.BillingSvc, deps.WebhookSecret).ServeHTTP)
	})

	r.Get("/health", health.New(logger, deps.DB).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
