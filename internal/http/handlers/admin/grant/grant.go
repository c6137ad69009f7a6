// Package grant реализует HTTP-обработчик административной выдачи
// индивидуальных разрешений на инструменты.
//
// Роль вызывающего перечитывается из базы на каждый запрос и не берётся
// из токена. Набор tools перезаписывает прежний список целиком; пустой
// массив отзывает все индивидуальные разрешения.
package grant

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/tool-entitlement/internal/http/middlewarectx"
	"github.com/magabrotheeeer/tool-entitlement/internal/http/response"
	"github.com/magabrotheeeer/tool-entitlement/internal/lib/sl"
	"github.com/magabrotheeeer/tool-entitlement/internal/services/access"
	"github.com/magabrotheeeer/tool-entitlement/internal/storage/repository"
)

// Request — структура входных данных выдачи разрешений.
// Tools — указатель, чтобы отличать отсутствующее поле (400) от
// пустого массива (отзыв всех разрешений).
type Request struct {
	UserUID string    `json:"userUid" validate:"required,uuid"`
	Tools   *[]string `json:"tools" validate:"required"`
}

// Service описывает интерфейс бизнес-логики выдачи разрешений.
type Service interface {
	GrantTools(ctx context.Context, adminUID, targetUID string, tools []string) error
}

// Handler обрабатывает HTTP-запросы выдачи разрешений.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис решений о доступе
	validate *validator.Validate // Валидатор для проверки входных данных
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Выдача индивидуальных разрешений
// @Description Перезаписывает список custom-инструментов пользователя. Требует роль admin.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "UID пользователя и новый список инструментов"
// @Success 200 {object} response.Response "Разрешения обновлены"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 401 {object} response.ErrorResponse "Невалидный токен"
// @Failure 403 {object} response.ErrorResponse "Нет роли admin"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/permissions [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.grant"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	adminUID := middlewarectx.UserUIDFromContext(r.Context())

	err := h.service.GrantTools(r.Context(), adminUID, req.UserUID, *req.Tools)
	switch {
	case errors.Is(err, access.ErrNotAdmin):
		log.Info("grant rejected: caller is not admin", slog.String("caller_uid", adminUID))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("admin access required"))
		return
	case errors.Is(err, repository.ErrUserNotFound):
		log.Info("grant rejected: target user not found", slog.String("target_uid", req.UserUID))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("user not found"))
		return
	case err != nil:
		log.Error("failed to update permissions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}

	log.Info("permissions updated", slog.String("target_uid", req.UserUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "permissions updated",
	}))
}
