package grant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/tool-entitlement/internal/http/middlewarectx"
	"github.com/magabrotheeeer/tool-entitlement/internal/services/access"
	"github.com/magabrotheeeer/tool-entitlement/internal/storage/repository"
)

type AccessServiceMock struct {
	mock.Mock
}

func (m *AccessServiceMock) GrantTools(ctx context.Context, adminUID, targetUID string, tools []string) error {
	args := m.Called(ctx, adminUID, targetUID, tools)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestGrantHandler_ServeHTTP(t *testing.T) {
	const targetUID = "0b29b1b0-72d3-4f0e-9f6b-2f5a7f1d2c3e"

	tests := []struct {
		name           string
		requestBody    string
		callerUID      string
		mockTools      []string
		mockErr        error
		mockCalled     bool
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "grant tools",
			requestBody:    `{"userUid":"` + targetUID + `","tools":["custom1.html","custom2.html"]}`,
			callerUID:      "admin-uid",
			mockTools:      []string{"custom1.html", "custom2.html"},
			mockCalled:     true,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "empty array revokes all permissions",
			requestBody:    `{"userUid":"` + targetUID + `","tools":[]}`,
			callerUID:      "admin-uid",
			mockTools:      []string{},
			mockCalled:     true,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "tools field missing",
			requestBody:    `{"userUid":"` + targetUID + `"}`,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field Tools is a required field",
		},
		{
			name:           "userUid is not a uuid",
			requestBody:    `{"userUid":"not-a-uuid","tools":[]}`,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field UserUID can contain only uuid",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name:           "caller without admin role",
			requestBody:    `{"userUid":"` + targetUID + `","tools":["custom1.html"]}`,
			callerUID:      "regular-uid",
			mockTools:      []string{"custom1.html"},
			mockErr:        access.ErrNotAdmin,
			mockCalled:     true,
			wantStatusCode: http.StatusForbidden,
			wantError:      "admin access required",
		},
		{
			name:           "target user not found",
			requestBody:    `{"userUid":"` + targetUID + `","tools":["custom1.html"]}`,
			callerUID:      "admin-uid",
			mockTools:      []string{"custom1.html"},
			mockErr:        repository.ErrUserNotFound,
			mockCalled:     true,
			wantStatusCode: http.StatusNotFound,
			wantError:      "user not found",
		},
		{
			name:           "storage failure",
			requestBody:    `{"userUid":"` + targetUID + `","tools":["custom1.html"]}`,
			callerUID:      "admin-uid",
			mockTools:      []string{"custom1.html"},
			mockErr:        errors.New("connection refused"),
			mockCalled:     true,
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(AccessServiceMock)
			handler := New(newNoopLogger(), serviceMock)

			if tt.mockCalled {
				serviceMock.On("GrantTools", mock.Anything, tt.callerUID, targetUID, tt.mockTools).
					Return(tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodPost, "/admin/permissions", bytes.NewReader([]byte(tt.requestBody)))
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
			if tt.callerUID != "" {
				ctx = context.WithValue(ctx, middlewarectx.UserUID, tt.callerUID)
			}
			req = req.WithContext(ctx)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err := json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			if tt.wantError != "" {
				assert.Equal(t, "Error", got["status"])
				assert.Equal(t, tt.wantError, got["error"])
			} else {
				assert.Equal(t, "OK", got["status"])
			}

			if tt.mockCalled {
				serviceMock.AssertExpectations(t)
			} else {
				serviceMock.AssertNotCalled(t, "GrantTools", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}
