// Package webhook реализует HTTP-обработчик входящих событий биллинга.
//
// Тело читается сырым: подпись считается от байтов запроса. Событие с
// неверной подписью отклоняется до любого обращения к хранилищу.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/tool-entitlement/internal/http/response"
	"github.com/magabrotheeeer/tool-entitlement/internal/lib/signature"
	"github.com/magabrotheeeer/tool-entitlement/internal/lib/sl"
	"github.com/magabrotheeeer/tool-entitlement/internal/models"
	billingservice "github.com/magabrotheeeer/tool-entitlement/internal/services/billing"
)

// SignatureHeader — заголовок с подписью события в формате "t=...,v1=...".
const SignatureHeader = "Webhook-Signature"

// Service описывает интерфейс обработки событий биллинга.
type Service interface {
	ProcessEvent(ctx context.Context, event *models.BillingEvent) error
}

// Handler обрабатывает HTTP-запросы webhook биллинга.
type Handler struct {
	log           *slog.Logger // Логгер для записи информации и ошибок
	service       Service      // Сервис обработки событий
	webhookSecret string       // Секрет для проверки подписи
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, secret string) *Handler {
	return &Handler{
		log:           log,
		service:       service,
		webhookSecret: secret,
	}
}

// ServeHTTP godoc
// @Summary Webhook биллинга
// @Description Принимает события платёжной системы и обновляет статус подписки.
// @Tags Billing
// @Accept  json
// @Produce  json
// @Param Webhook-Signature header string true "Подпись события"
// @Success 200 {object} response.Response "Событие обработано или проигнорировано"
// @Failure 400 {object} response.ErrorResponse "Неверная подпись или тело"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /billing/webhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.webhook"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to read body"))
		return
	}
	defer func() {
		_ = r.Body.Close()
	}()

	if err := signature.Verify(h.webhookSecret, body, r.Header.Get(SignatureHeader),
		time.Now(), signature.DefaultTolerance); err != nil {
		log.Error("invalid webhook signature", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid signature"))
		return
	}

	var event models.BillingEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.Error("failed to unmarshal webhook payload", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid payload"))
		return
	}

	if err := h.service.ProcessEvent(r.Context(), &event); err != nil {
		if errors.Is(err, billingservice.ErrUnknownEventType) {
			// Незнакомые типы подтверждаем, чтобы не провоцировать повторы.
			log.Info("ignored webhook event", slog.String("event_type", event.Type))
			render.JSON(w, r, response.OKWithData(map[string]any{"received": true}))
			return
		}
		log.Error("failed to process webhook event", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}

	log.Info("webhook processed", slog.String("event_type", event.Type))
	render.JSON(w, r, response.OKWithData(map[string]any{"received": true}))
}
