// Package check реализует HTTP-обработчик проверки доступа к инструменту.
//
// Запрос допускается и без токена: free-инструменты доступны анонимно.
// Отказ в доступе — обычный результат, а не ошибка: ответ всегда 200 с
// полем hasAccess, ошибочные статусы остаются за невалидным телом запроса
// и недоступностью хранилища.
package check

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/tool-entitlement/internal/http/middlewarectx"
	"github.com/magabrotheeeer/tool-entitlement/internal/http/response"
	"github.com/magabrotheeeer/tool-entitlement/internal/lib/sl"
)

// Request — структура входных данных проверки доступа.
type Request struct {
	Filename string `json:"filename" validate:"required"`
}

// Response — результат проверки. Отказ приходит с тем же статусом 200.
type Response struct {
	HasAccess bool `json:"hasAccess"`
}

// Service описывает интерфейс решающего ядра.
type Service interface {
	CheckAccess(ctx context.Context, filename, userUID string) (bool, error)
}

// Handler обрабатывает HTTP-запросы проверки доступа.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Решающее ядро
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
// @Summary Проверка доступа к инструменту
// @Description Решает, доступен ли инструмент вызывающему. Работает и без токена.
// @Tags Access
// @Accept  json
// @Produce  json
// @Param request body Request true "Имя файла инструмента"
// @Success 200 {object} Response "Решение о доступе"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /tools/check [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.access.check"

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

	userUID := middlewarectx.UserUIDFromContext(r.Context())

	hasAccess, err := h.service.CheckAccess(r.Context(), req.Filename, userUID)
	if err != nil {
		// Недоступное хранилище не превращается в разрешение.
		log.Error("access check aborted", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}

	log.Info("access decision made",
		slog.String("filename", req.Filename),
		slog.Bool("has_access", hasAccess))
	render.JSON(w, r, Response{HasAccess: hasAccess})
}
