// Package models содержит доменные модели сервиса: пользователей,
// инструменты каталога и события биллинга. Структуры используются
// в бизнес‑логике и при работе с хранилищем.
package models

import (
	"slices"
	"time"
)

// Возможные значения subscription_status пользователя.
const (
	SubscriptionNone      = "none"
	SubscriptionActive    = "active"
	SubscriptionCancelled = "cancelled"
)

// RoleAdmin — роль с безусловным доступом ко всем инструментам каталога.
const RoleAdmin = "admin"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID                string    // Уникальный идентификатор пользователя
	Email              string    // Электронная почта (уникальная)
	PasswordHash       string    // Хэш пароля пользователя
	Roles              []string  // Роли пользователя, например admin
	SubscriptionStatus string    // Статус подписки: none, active или cancelled
	PermittedTools     []string  // Индивидуально выданные инструменты
	BillingCustomerID  string    // Идентификатор клиента в платёжной системе, назначается один раз
	CreatedAt          time.Time // Дата создания учётной записи
}

// IsAdmin сообщает, содержит ли набор ролей пользователя роль admin.
func (u *User) IsAdmin() bool {
	return u != nil && slices.Contains(u.Roles, RoleAdmin)
}

// HasPermittedTool сообщает, выдан ли пользователю инструмент индивидуально.
// Сравнение имени файла точное, с учётом регистра.
func (u *User) HasPermittedTool(filename string) bool {
	return u != nil && slices.Contains(u.PermittedTools, filename)
}
