package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/tool-entitlement/internal/models"
)

func TestStorage_RegisterUser(t *testing.T) {
	tests := []struct {
		name    string
		user    models.User
		wantErr error
		setup   func(t *testing.T, factory *TestDataFactory)
	}{
		{
			name: "successful register user",
			user: models.User{
				UID:                uuid.New().String(),
				Email:              "test@example.com",
				PasswordHash:       "hashedpassword",
				SubscriptionStatus: models.SubscriptionNone,
				BillingCustomerID:  "cus_1",
			},
			setup: func(_ *testing.T, _ *TestDataFactory) {},
		},
		{
			name: "duplicate email",
			user: models.User{
				UID:                uuid.New().String(),
				Email:              "taken@example.com",
				PasswordHash:       "hashedpassword2",
				SubscriptionStatus: models.SubscriptionNone,
			},
			wantErr: ErrEmailTaken,
			setup: func(t *testing.T, factory *TestDataFactory) {
				factory.CreateUser(t, models.User{
					UID:                uuid.New().String(),
					Email:              "taken@example.com",
					PasswordHash:       "hashedpassword",
					SubscriptionStatus: models.SubscriptionNone,
				})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			tt.setup(t, factory)

			uid, err := storage.RegisterUser(context.Background(), tt.user)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.user.UID, uid)

			verification := NewTestVerification(storage)
			verification.VerifyUserExists(t, uid)
		})
	}
}

func TestStorage_GetUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := uuid.New().String()
	factory.CreateUser(t, models.User{
		UID:                userUID,
		Email:              "test@example.com",
		PasswordHash:       "hashedpassword",
		Roles:              []string{"admin"},
		SubscriptionStatus: models.SubscriptionActive,
		PermittedTools:     []string{"custom1.html"},
		BillingCustomerID:  "cus_1",
	})

	got, err := storage.GetUser(context.Background(), userUID)
	require.NoError(t, err)
	assert.Equal(t, userUID, got.UID)
	assert.Equal(t, "test@example.com", got.Email)
	assert.Equal(t, []string{"admin"}, got.Roles)
	assert.Equal(t, models.SubscriptionActive, got.SubscriptionStatus)
	assert.Equal(t, []string{"custom1.html"}, got.PermittedTools)
	assert.Equal(t, "cus_1", got.BillingCustomerID)

	_, err = storage.GetUser(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestStorage_GetUserByEmail(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := uuid.New().String()
	factory.CreateUser(t, models.User{
		UID:                userUID,
		Email:              "test@example.com",
		PasswordHash:       "hashedpassword",
		SubscriptionStatus: models.SubscriptionNone,
	})

	got, err := storage.GetUserByEmail(context.Background(), "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, userUID, got.UID)
	// Пустые jsonb-массивы читаются как пустые срезы, не nil.
	assert.NotNil(t, got.Roles)
	assert.NotNil(t, got.PermittedTools)

	_, err = storage.GetUserByEmail(context.Background(), "missing@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestStorage_UpdateSubscriptionStatusByUID(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := uuid.New().String()
	factory.CreateUser(t, models.User{
		UID:                userUID,
		Email:              "test@example.com",
		PasswordHash:       "hashedpassword",
		SubscriptionStatus: models.SubscriptionNone,
	})

	verification := NewTestVerification(storage)

	err := storage.UpdateSubscriptionStatusByUID(context.Background(), userUID, models.SubscriptionActive)
	require.NoError(t, err)
	verification.VerifySubscriptionStatus(t, userUID, models.SubscriptionActive)

	// Повторное применение того же статуса ничего не меняет.
	err = storage.UpdateSubscriptionStatusByUID(context.Background(), userUID, models.SubscriptionActive)
	require.NoError(t, err)
	verification.VerifySubscriptionStatus(t, userUID, models.SubscriptionActive)

	err = storage.UpdateSubscriptionStatusByUID(context.Background(), uuid.New().String(), models.SubscriptionActive)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestStorage_UpdateSubscriptionStatusByCustomer(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := uuid.New().String()
	factory.CreateUser(t, models.User{
		UID:                userUID,
		Email:              "test@example.com",
		PasswordHash:       "hashedpassword",
		SubscriptionStatus: models.SubscriptionActive,
		BillingCustomerID:  "cus_42",
	})

	err := storage.UpdateSubscriptionStatusByCustomer(context.Background(), "cus_42", models.SubscriptionCancelled)
	require.NoError(t, err)

	verification := NewTestVerification(storage)
	verification.VerifySubscriptionStatus(t, userUID, models.SubscriptionCancelled)

	err = storage.UpdateSubscriptionStatusByCustomer(context.Background(), "cus_unknown", models.SubscriptionCancelled)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestStorage_UpdatePermittedTools(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := uuid.New().String()
	factory.CreateUser(t, models.User{
		UID:                userUID,
		Email:              "test@example.com",
		PasswordHash:       "hashedpassword",
		SubscriptionStatus: models.SubscriptionNone,
		PermittedTools:     []string{"old.html"},
	})

	verification := NewTestVerification(storage)

	// Новый список перезаписывает прежний целиком.
	err := storage.UpdatePermittedTools(context.Background(), userUID, []string{"custom1.html", "custom2.html"})
	require.NoError(t, err)
	verification.VerifyPermittedTools(t, userUID, []string{"custom1.html", "custom2.html"})

	// Пустой массив отзывает все разрешения.
	err = storage.UpdatePermittedTools(context.Background(), userUID, []string{})
	require.NoError(t, err)
	verification.VerifyPermittedTools(t, userUID, []string{})

	err = storage.UpdatePermittedTools(context.Background(), uuid.New().String(), []string{"custom1.html"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestStorage_ListUsers(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreateUser(t, models.User{
		UID:                uuid.New().String(),
		Email:              "b@example.com",
		PasswordHash:       "hash",
		SubscriptionStatus: models.SubscriptionNone,
	})
	factory.CreateUser(t, models.User{
		UID:                uuid.New().String(),
		Email:              "a@example.com",
		PasswordHash:       "hash",
		SubscriptionStatus: models.SubscriptionActive,
	})

	got, err := storage.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a@example.com", got[0].Email)
	assert.Equal(t, "b@example.com", got[1].Email)
}

func TestStorage_GetTool(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		wantErr  error
	}{
		{
			name:     "existing tool",
			filename: "calc.html",
		},
		{
			name:     "unknown tool",
			filename: "missing.html",
			wantErr:  ErrToolNotFound,
		},
		{
			name:     "lookup is case sensitive",
			filename: "Calc.html",
			wantErr:  ErrToolNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			factory.CreateTool(t, "calc.html", "Calculator", models.AccessLevelFree)

			got, err := storage.GetTool(context.Background(), tt.filename)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "calc.html", got.Filename)
			assert.Equal(t, "Calculator", got.DisplayName)
			assert.Equal(t, models.AccessLevelFree, got.AccessLevel)
		})
	}
}

func TestStorage_ListTools(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreateTool(t, "report.html", "Report", models.AccessLevelPro)
	factory.CreateTool(t, "calc.html", "Calculator", models.AccessLevelFree)

	got, err := storage.ListTools(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Каталог отсортирован по отображаемому имени.
	assert.Equal(t, "calc.html", got[0].Filename)
	assert.Equal(t, "report.html", got[1].Filename)
}

func TestCheckDatabaseReady(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	require.NoError(t, CheckDatabaseReady(storage))

	_, err := storage.DB.Exec(`DROP TABLE IF EXISTS tools CASCADE`)
	require.NoError(t, err)

	err = CheckDatabaseReady(storage)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}
