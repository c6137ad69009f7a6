package jwt

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaker_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		userUID string
		email   string
	}{
		{
			name:    "regular user",
			userUID: "0b29b1b0-72d3-4f0e-9f6b-2f5a7f1d2c3e",
			email:   "user@example.com",
		},
		{
			name:    "empty email",
			userUID: "5a1c2d3e-0000-4000-8000-000000000001",
			email:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			maker := NewMaker("test_secret_key", time.Hour)

			token, err := maker.GenerateToken(tt.userUID, tt.email)
			require.NoError(t, err)
			require.NotEmpty(t, token)

			claims, err := maker.ParseToken(token)
			require.NoError(t, err)
			assert.Equal(t, tt.userUID, claims.UserUID)
			assert.Equal(t, tt.email, claims.Email)
			assert.True(t, claims.ExpiresAt.After(time.Now()))
		})
	}
}

func TestMaker_InvalidTokens(t *testing.T) {
	maker := NewMaker("test_secret_key", time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "garbage string",
			token: "not.a.token",
		},
		{
			name:  "empty string",
			token: "",
		},
		{
			name:  "expired token",
			token: createExpiredToken(t, "test_secret_key"),
		},
		{
			name:  "wrong secret",
			token: createTokenWithSecret(t, "another_secret_key"),
		},
		{
			name:  "unsigned algorithm",
			token: createUnsignedToken(t),
		},
		{
			name:  "tampered payload",
			token: tamperToken(createTokenWithSecret(t, "test_secret_key")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := maker.ParseToken(tt.token)
			// Все дефектные токены неразличимы для вызывающего: claims нет, есть ошибка.
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func TestMaker_TokenExpiration(t *testing.T) {
	maker := NewMaker("test_secret_key", 50*time.Millisecond)

	token, err := maker.GenerateToken("u1", "user@example.com")
	require.NoError(t, err)

	_, err = maker.ParseToken(token)
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)

	_, err = maker.ParseToken(token)
	assert.Error(t, err)
}

func createExpiredToken(t *testing.T, secret string) string {
	t.Helper()
	claims := Claims{
		UserUID: "u1",
		Email:   "user@example.com",
		RegisteredClaims: jwtlib.RegisteredClaims{
			IssuedAt:  jwtlib.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func createTokenWithSecret(t *testing.T, secret string) string {
	t.Helper()
	token, err := NewMaker(secret, time.Hour).GenerateToken("u1", "user@example.com")
	require.NoError(t, err)
	return token
}

func createUnsignedToken(t *testing.T) string {
	t.Helper()
	claims := Claims{
		UserUID: "u1",
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, claims).
		SignedString(jwtlib.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	return token
}

func tamperToken(token string) string {
	// Портим последний символ подписи.
	b := []byte(token)
	last := b[len(b)-1]
	if last == 'A' {
		b[len(b)-1] = 'B'
	} else {
		b[len(b)-1] = 'A'
	}
	return string(b)
}
