// Package jwt реализует генерацию и парсинг JWT токенов сессии.
//
// Maker определяет интерфейс для создания и проверки токенов, несущих
// идентификатор пользователя. MakerImpl — конкретная реализация с
// использованием секретного ключа процесса и фиксированного срока жизни.
package jwt

import (
	"time"
)

// Maker описывает интерфейс для генерации и парсинга JWT токенов сессии.
//
// Токен несёт только идентификатор пользователя и email; статус подписки
// и роли перечитываются из хранилища на каждый запрос.
type Maker interface {
	// GenerateToken выпускает подписанный токен для пользователя.
	GenerateToken(userUID, email string) (string, error)
	// ParseToken проверяет подпись и срок действия токена,
	// возвращает *Claims при успехе.
	ParseToken(tokenStr string) (*Claims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL). Ротация ключа делает недействительными
// все ранее выпущенные токены.
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
