// Package users реализует HTTP-обработчик административного списка
// пользователей.
package users

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/tool-entitlement/internal/http/middlewarectx"
	"github.com/magabrotheeeer/tool-entitlement/internal/http/response"
	"github.com/magabrotheeeer/tool-entitlement/internal/lib/sl"
	"github.com/magabrotheeeer/tool-entitlement/internal/models"
	"github.com/magabrotheeeer/tool-entitlement/internal/services/access"
)

// UserView — запись пользователя в административном списке.
type UserView struct {
	UID                string   `json:"uid"`
	Email              string   `json:"email"`
	SubscriptionStatus string   `json:"subscriptionStatus"`
	Roles              []string `json:"roles"`
	PermittedTools     []string `json:"permittedTools"`
}

// Service описывает интерфейс административного обзора.
type Service interface {
	ListUsers(ctx context.Context, adminUID string) ([]*models.User, error)
}

// Handler обрабатывает HTTP-запросы административного списка пользователей.
type Handler struct {
	log     *slog.Logger // Логгер для записи операций и ошибок
	service Service      // Сервис решений о доступе
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список пользователей
// @Description Возвращает всех пользователей. Требует роль admin.
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Success 200 {array} UserView "Пользователи"
// @Failure 401 {object} response.ErrorResponse "Невалидный токен"
// @Failure 403 {object} response.ErrorResponse "Нет роли admin"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.users"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	adminUID := middlewarectx.UserUIDFromContext(r.Context())

	usersList, err := h.service.ListUsers(r.Context(), adminUID)
	if err != nil {
		if errors.Is(err, access.ErrNotAdmin) {
			log.Info("listing rejected: caller is not admin", slog.String("caller_uid", adminUID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("admin access required"))
			return
		}
		log.Error("failed to list users", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}

	views := make([]UserView, 0, len(usersList))
	for _, u := range usersList {
		views = append(views, UserView{
			UID:                u.UID,
			Email:              u.Email,
			SubscriptionStatus: u.SubscriptionStatus,
			Roles:              u.Roles,
			PermittedTools:     u.PermittedTools,
		})
	}
	render.JSON(w, r, views)
}
