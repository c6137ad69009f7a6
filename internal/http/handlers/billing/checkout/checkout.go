// Package checkout реализует HTTP-обработчик создания checkout-сессии
// подписки в платёжной системе.
//
// В client_reference_id передаётся UID вызывающего: по нему событие
// активации позже найдёт учётную запись. Сам идентификатор сессии для
// сервиса непрозрачен, клиент использует его для перенаправления.
package checkout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/tool-entitlement/internal/billingprovider"
	"github.com/magabrotheeeer/tool-entitlement/internal/http/middlewarectx"
	"github.com/magabrotheeeer/tool-entitlement/internal/http/response"
	"github.com/magabrotheeeer/tool-entitlement/internal/lib/sl"
)

// Response — идентификатор созданной checkout-сессии.
type Response struct {
	SessionID string `json:"sessionId"`
}

// ProviderClient описывает интерфейс клиента платёжной системы.
type ProviderClient interface {
	CreateCheckoutSession(ctx context.Context, params billingprovider.CreateSessionRequest) (*billingprovider.CreateSessionResponse, error)
}

// Handler обрабатывает HTTP-запросы создания checkout-сессии.
type Handler struct {
	log      *slog.Logger   // Логгер для записи операций и ошибок
	provider ProviderClient // Клиент платёжной системы
	priceID  string         // Тариф подписки
	siteURL  string         // Базовый URL для возврата после оплаты
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, provider ProviderClient, priceID, siteURL string) *Handler {
	return &Handler{
		log:      log,
		provider: provider,
		priceID:  priceID,
		siteURL:  siteURL,
	}
}

// ServeHTTP godoc
// @Summary Создание checkout-сессии
// @Description Создаёт сессию оплаты подписки в платёжной системе.
// @Tags Billing
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} Response "Идентификатор сессии"
// @Failure 401 {object} response.ErrorResponse "Невалидный токен"
// @Failure 500 {object} response.ErrorResponse "Платёжная система недоступна"
// @Router /billing/checkout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.checkout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID := middlewarectx.UserUIDFromContext(r.Context())
	email, _ := r.Context().Value(middlewarectx.Email).(string)

	session, err := h.provider.CreateCheckoutSession(r.Context(), billingprovider.CreateSessionRequest{
		Mode:              "subscription",
		PriceID:           h.priceID,
		Quantity:          1,
		SuccessURL:        h.siteURL + "/",
		CancelURL:         h.siteURL + "/",
		ClientReferenceID: userUID,
		CustomerEmail:     email,
	})
	if err != nil {
		log.Error("failed to create checkout session", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create checkout session"))
		return
	}

	log.Info("checkout session created", slog.String("user_uid", userUID))
	render.JSON(w, r, Response{SessionID: session.ID})
}
