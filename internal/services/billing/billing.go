// Package billing применяет события платёжной системы к статусу подписки.
//
// Доставка событий как минимум однократная, без гарантий порядка. Переходы
// идемпотентны: статус устанавливается, повторное событие ничего не меняет.
// При нарушении порядка побеждает последняя запись — у событий нет номеров
// последовательности, и это принятое ограничение, а не дефект.
package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/tool-entitlement/internal/models"
	"github.com/magabrotheeeer/tool-entitlement/internal/storage/repository"
)

// ErrUnknownEventType — событие с типом, который сервис не обрабатывает.
var ErrUnknownEventType = errors.New("unknown billing event type")

// SubscriptionRepository описывает контракт записи статуса подписки.
type SubscriptionRepository interface {
	UpdateSubscriptionStatusByUID(ctx context.Context, userUID, status string) error
	UpdateSubscriptionStatusByCustomer(ctx context.Context, customerID, status string) error
}

// Service обрабатывает проверенные события биллинга.
type Service struct {
	repo SubscriptionRepository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(log *slog.Logger, repo SubscriptionRepository) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// ProcessEvent применяет событие к статусу подписки затронутого пользователя.
//
// Активация адресует пользователя по client_reference_id, переданному при
// создании checkout-сессии; отмена — по сохранённому идентификатору клиента
// платёжной системы. Ненайденный пользователь — локальная рассогласованность
// данных, которую отправитель события исправить не может: она логируется
// и отдаётся как успешный no-op, чтобы не включать его политику повторов.
func (s *Service) ProcessEvent(ctx context.Context, event *models.BillingEvent) error {
	const op = "billing.ProcessEvent"
	log := s.log.With(slog.String("op", op), slog.String("event_type", event.Type))

	var err error
	switch event.Type {
	case models.EventSubscriptionActivated:
		if event.ClientReferenceID == "" {
			return fmt.Errorf("%s: activation event without client_reference_id", op)
		}
		err = s.repo.UpdateSubscriptionStatusByUID(ctx,
			event.ClientReferenceID, models.SubscriptionActive)
	case models.EventSubscriptionCancelled:
		if event.CustomerID == "" {
			return fmt.Errorf("%s: cancellation event without customer_id", op)
		}
		err = s.repo.UpdateSubscriptionStatusByCustomer(ctx,
			event.CustomerID, models.SubscriptionCancelled)
	default:
		return fmt.Errorf("%s: %q: %w", op, event.Type, ErrUnknownEventType)
	}

	if errors.Is(err, repository.ErrUserNotFound) {
		log.Warn("billing event for unknown subject, acknowledged as no-op",
			slog.String("client_reference_id", event.ClientReferenceID),
			slog.String("customer_id", event.CustomerID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("subscription status updated")
	return nil
}
