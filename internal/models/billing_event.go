package models

// Типы событий биллинга, принимаемые webhook-обработчиком.
const (
	EventSubscriptionActivated = "subscription_activated"
	EventSubscriptionCancelled = "subscription_cancelled"
)

// BillingEvent — входящее событие платёжной системы. Доставка как минимум
// однократная: возможны дубликаты и нарушение порядка. Timestamp участвует
// только в проверке подписи, не в упорядочивании.
type BillingEvent struct {
	Type              string `json:"type"`                          // Тип события
	ClientReferenceID string `json:"client_reference_id,omitempty"` // UID пользователя, переданный при создании checkout-сессии
	CustomerID        string `json:"customer_id,omitempty"`         // Идентификатор клиента в платёжной системе
}
