// Package auth содержит логику бизнес-уровня для регистрации,
// аутентификации и профиля пользователей.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/tool-entitlement/internal/lib/jwt"
	"github.com/magabrotheeeer/tool-entitlement/internal/lib/password"
	"github.com/magabrotheeeer/tool-entitlement/internal/lib/sl"
	"github.com/magabrotheeeer/tool-entitlement/internal/models"
)

// ErrInvalidCredentials — единая ошибка входа: неизвестный email и неверный
// пароль наружу неразличимы, это защита от перечисления пользователей.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByEmail возвращает пользователя по email или ошибку, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// CustomerCreator заводит клиента в платёжной системе при регистрации.
// Идентификатор клиента назначается один раз и далее не меняется.
type CustomerCreator interface {
	CreateCustomer(ctx context.Context, email string) (string, error)
}

// Service отвечает за регистрацию, выпуск сессионных токенов и профиль.
type Service struct {
	users    UserRepository
	billing  CustomerCreator
	jwtMaker jwt.Maker
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(log *slog.Logger, users UserRepository, billing CustomerCreator, jwtMaker jwt.Maker) *Service {
	return &Service{
		users:    users,
		billing:  billing,
		jwtMaker: jwtMaker,
		log:      log,
	}
}

// Register создает нового пользователя: хэширует пароль, заводит клиента
// в платёжной системе и сохраняет запись со статусом подписки none.
func (s *Service) Register(ctx context.Context, email, rawPassword string) (string, error) {
	const op = "auth.Register"

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	email = strings.ToLower(email)
	customerID, err := s.billing.CreateCustomer(ctx, email)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	user := models.User{
		UID:                uuid.NewString(),
		Email:              email,
		PasswordHash:       hashed,
		Roles:              []string{},
		SubscriptionStatus: models.SubscriptionNone,
		PermittedTools:     []string{},
		BillingCustomerID:  customerID,
	}
	uid, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user registered", slog.String("user_uid", uid))
	return uid, nil
}

// Login проверяет пароль пользователя и выпускает сессионный токен.
// Выпуск токена ничего не пишет в хранилище.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (string, error) {
	const op = "auth.Login"

	user, err := s.users.GetUserByEmail(ctx, strings.ToLower(email))
	if err != nil {
		s.log.Info("login rejected: unknown email", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		s.log.Info("login rejected: password mismatch", slog.String("user_uid", user.UID))
		return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	token, err := s.jwtMaker.GenerateToken(user.UID, user.Email)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// GetProfile возвращает пользователя по UID из валидного токена.
// Токен мог пережить учётную запись: отсутствие записи отдаётся вызывающему
// как есть (repository.ErrUserNotFound).
func (s *Service) GetProfile(ctx context.Context, userUID string) (*models.User, error) {
	const op = "auth.GetProfile"

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}
