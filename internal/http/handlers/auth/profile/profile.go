// Package profile реализует HTTP-обработчик получения профиля пользователя.
//
// Токен мог пережить учётную запись: в этом случае возвращается 404.
package profile

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
	"github.com/magabrotheeeer/tool-entitlement/internal/storage/repository"
)

// Response — профиль пользователя без чувствительных полей.
type Response struct {
	UID                string   `json:"uid"`
	Email              string   `json:"email"`
	SubscriptionStatus string   `json:"subscriptionStatus"`
	Roles              []string `json:"roles"`
	PermittedTools     []string `json:"permittedTools"`
}

// Service описывает интерфейс бизнес-логики профиля.
type Service interface {
	GetProfile(ctx context.Context, userUID string) (*models.User, error)
}

// Handler обрабатывает HTTP-запросы профиля.
type Handler struct {
	log     *slog.Logger // Логгер для записи операций и ошибок
	service Service      // Сервис профиля
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Профиль текущего пользователя
// @Description Возвращает профиль пользователя из валидного токена.
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} Response "Профиль пользователя"
// @Failure 401 {object} response.ErrorResponse "Невалидный токен"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /profile [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.profile"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID := middlewarectx.UserUIDFromContext(r.Context())

	user, err := h.service.GetProfile(r.Context(), userUID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			log.Info("profile requested for vanished user", slog.String("user_uid", userUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to load profile", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}

	render.JSON(w, r, Response{
		UID:                user.UID,
		Email:              user.Email,
		SubscriptionStatus: user.SubscriptionStatus,
		Roles:              user.Roles,
		PermittedTools:     user.PermittedTools,
	})
}
