// Package signature реализует проверку подписи входящих webhook-событий.
//
// Формат заголовка совместим со схемой платёжного провайдера:
// "t=<unix>,v1=<hex hmac-sha256>", где подпись считается от строки
// "<t>.<тело запроса>" общим секретом. Timestamp защищает от повторного
// воспроизведения старых событий и ни на что больше не влияет.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultTolerance — допустимое расхождение timestamp события с текущим временем.
const DefaultTolerance = 5 * time.Minute

// ErrInvalidSignature возвращается при любом дефекте заголовка подписи:
// неверный формат, просроченный timestamp или несовпадение HMAC.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// Verify проверяет подпись тела body по заголовку header с секретом secret.
//
// Возвращает nil только если заголовок разобран, timestamp в пределах
// tolerance от now и хотя бы одна v1-подпись совпала (сравнение
// константное по времени).
func Verify(secret string, body []byte, header string, now time.Time, tolerance time.Duration) error {
	const op = "signature.Verify"

	ts, sigs, err := parseHeader(header)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	eventTime := time.Unix(ts, 0)
	if diff := now.Sub(eventTime); diff > tolerance || diff < -tolerance {
		return fmt.Errorf("%s: timestamp outside tolerance: %w", op, ErrInvalidSignature)
	}

	expected := Compute(secret, ts, body)
	for _, sig := range sigs {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return nil
		}
	}
	return fmt.Errorf("%s: %w", op, ErrInvalidSignature)
}

// Compute считает hex-представление HMAC-SHA256 от "<ts>.<body>".
// Используется сервером при проверке и тестами при формировании событий.
func Compute(secret string, ts int64, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Header формирует значение заголовка подписи для тела body и времени ts.
func Header(secret string, ts int64, body []byte) string {
	return fmt.Sprintf("t=%d,v1=%s", ts, Compute(secret, ts, body))
}

func parseHeader(header string) (int64, []string, error) {
	if header == "" {
		return 0, nil, ErrInvalidSignature
	}
	var ts int64
	var tsSet bool
	var sigs []string
	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			return 0, nil, ErrInvalidSignature
		}
		switch key {
		case "t":
			parsed, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return 0, nil, ErrInvalidSignature
			}
			ts = parsed
			tsSet = true
		case "v1":
			sigs = append(sigs, value)
		}
	}
	if !tsSet || len(sigs) == 0 {
		return 0, nil, ErrInvalidSignature
	}
	return ts, sigs, nil
}
