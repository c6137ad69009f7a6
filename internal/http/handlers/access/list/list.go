// Package list реализует HTTP-обработчик витрины инструментов.
//
// Возвращает каталог глазами пользователя: доступные прямо сейчас
// инструменты и pro-инструменты для блока апгрейда. Фильтрация идёт
// через ту же функцию политики, что и точечная проверка доступа.
package list

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

// ToolView — запись каталога в ответе витрины.
type ToolView struct {
	Filename    string `json:"filename"`
	DisplayName string `json:"displayName"`
	Description string `json:"description,omitempty"`
	AccessLevel string `json:"accessLevel"`
	IconSVG     string `json:"iconSvg,omitempty"`
}

// Response — доступные инструменты и витрина апгрейда.
type Response struct {
	AccessibleTools []ToolView `json:"accessibleTools"`
	UpsellTools     []ToolView `json:"upsellTools"`
}

// Service описывает интерфейс бизнес-логики витрины.
type Service interface {
	ListForUser(ctx context.Context, userUID string) (accessible, upsell []*models.Tool, err error)
}

// Handler обрабатывает HTTP-запросы витрины инструментов.
type Handler struct {
	log     *slog.Logger // Логгер для записи операций и ошибок
	service Service      // Сервис витрины
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Каталог инструментов пользователя
// @Description Возвращает доступные инструменты и витрину апгрейда.
// @Tags Access
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} Response "Каталог глазами пользователя"
// @Failure 401 {object} response.ErrorResponse "Невалидный токен"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /tools [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.access.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID := middlewarectx.UserUIDFromContext(r.Context())

	accessible, upsell, err := h.service.ListForUser(r.Context(), userUID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			log.Info("tool listing for vanished user", slog.String("user_uid", userUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to list tools", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}

	render.JSON(w, r, Response{
		AccessibleTools: toViews(accessible),
		UpsellTools:     toViews(upsell),
	})
}

func toViews(tools []*models.Tool) []ToolView {
	views := make([]ToolView, 0, len(tools))
	for _, t := range tools {
		views = append(views, ToolView{
			Filename:    t.Filename,
			DisplayName: t.DisplayName,
			Description: t.Description,
			AccessLevel: t.AccessLevel,
			IconSVG:     t.IconSVG,
		})
	}
	return views
}
