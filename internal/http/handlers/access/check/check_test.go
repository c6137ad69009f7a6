package check

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
)

type AccessServiceMock struct {
	mock.Mock
}

func (m *AccessServiceMock) CheckAccess(ctx context.Context, filename, userUID string) (bool, error) {
	args := m.Called(ctx, filename, userUID)
	return args.Bool(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCheckHandler_ServeHTTP(t *testing.T) {
	serviceMock := new(AccessServiceMock)
	handler := New(newNoopLogger(), serviceMock)

	tests := []struct {
		name           string
		requestBody    interface{}
		userUID        string
		mockAllow      bool
		mockErr        error
		mockCalled     bool
		wantStatusCode int
		wantHasAccess  *bool
		wantError      string
	}{
		{
			name:           "anonymous allowed on free tool",
			requestBody:    Request{Filename: "calc.html"},
			userUID:        "",
			mockAllow:      true,
			mockCalled:     true,
			wantStatusCode: http.StatusOK,
			wantHasAccess:  boolPtr(true),
		},
		{
			name:           "denied is still 200",
			requestBody:    Request{Filename: "pro-report.html"},
			userUID:        "u1",
			mockAllow:      false,
			mockCalled:     true,
			wantStatusCode: http.StatusOK,
			wantHasAccess:  boolPtr(false),
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name:           "missing filename",
			requestBody:    Request{},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field Filename is a required field",
		},
		{
			name:           "storage failure does not grant access",
			requestBody:    Request{Filename: "calc.html"},
			userUID:        "u1",
			mockErr:        errors.New("connection refused"),
			mockCalled:     true,
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock.ExpectedCalls = nil
			serviceMock.Calls = nil

			if tt.mockCalled {
				serviceMock.On("CheckAccess", mock.Anything, tt.requestBody.(Request).Filename, tt.userUID).
					Return(tt.mockAllow, tt.mockErr).Once()
			}

			var bodyBytes []byte
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				var err error
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/tools/check", bytes.NewReader(bodyBytes))
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
			if tt.userUID != "" {
				ctx = context.WithValue(ctx, middlewarectx.UserUID, tt.userUID)
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
				assert.Equal(t, *tt.wantHasAccess, got["hasAccess"])
			}

			if tt.mockCalled {
				serviceMock.AssertExpectations(t)
			}
		})
	}
}

func boolPtr(b bool) *bool { return &b }
