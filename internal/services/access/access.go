package access

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/tool-entitlement/internal/lib/sl"
	"github.com/magabrotheeeer/tool-entitlement/internal/models"
	"github.com/magabrotheeeer/tool-entitlement/internal/storage/repository"
)

// ErrNotAdmin — у вызывающего нет роли admin для административной операции.
var ErrNotAdmin = errors.New("admin role required")

// Ключи кэша каталога инструментов.
const (
	catalogCacheKey    = "tools:catalog"
	toolCacheKeyPrefix = "tool:"
)

// ToolRepository описывает контракт чтения каталога инструментов.
type ToolRepository interface {
	GetTool(ctx context.Context, filename string) (*models.Tool, error)
	ListTools(ctx context.Context) ([]*models.Tool, error)
}

// UserRepository описывает контракт работы с пользователями для
// решающего пути и административных операций.
type UserRepository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	UpdatePermittedTools(ctx context.Context, userUID string, tools []string) error
	ListUsers(ctx context.Context) ([]*models.User, error)
}

// CatalogCache описывает кэш записей каталога. Кэшируется только каталог:
// пользовательские факты перечитываются из базы на каждый запрос.
type CatalogCache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// Service — сервис решений о доступе. Все точки входа, проверяющие доступ,
// проходят через один и тот же Decide: алгоритм один, вызывающих много.
type Service struct {
	tools      ToolRepository
	users      UserRepository
	cache      CatalogCache
	catalogTTL time.Duration
	log        *slog.Logger
}

// New создает новый экземпляр Service.
func New(log *slog.Logger, tools ToolRepository, users UserRepository, cache CatalogCache, catalogTTL time.Duration) *Service {
	return &Service{
		tools:      tools,
		users:      users,
		cache:      cache,
		catalogTTL: catalogTTL,
		log:        log,
	}
}

// CheckAccess решает, доступен ли инструмент filename пользователю userUID.
// Пустой userUID — анонимный посетитель. Отказ — обычный исход, не ошибка;
// ошибка возвращается только при недоступности хранилища, и тогда решение
// не принимается вовсе (fail closed на стороне вызывающего).
func (s *Service) CheckAccess(ctx context.Context, filename, userUID string) (bool, error) {
	const op = "access.CheckAccess"

	tool, err := s.resolveTool(ctx, filename)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	var user *models.User
	if userUID != "" {
		user, err = s.users.GetUser(ctx, userUID)
		if errors.Is(err, repository.ErrUserNotFound) {
			// Токен валиден, но пользователь исчез: считаем анонимом.
			s.log.Warn("user from token not found", slog.String("user_uid", userUID))
			user = nil
		} else if err != nil {
			return false, fmt.Errorf("%s: %w", op, err)
		}
	}

	return Decide(tool, user), nil
}

// ListForUser возвращает каталог глазами пользователя: инструменты,
// доступные ему прямо сейчас, и pro-инструменты для витрины апгрейда.
// Витрина пуста для администраторов и активных подписчиков.
func (s *Service) ListForUser(ctx context.Context, userUID string) (accessible, upsell []*models.Tool, err error) {
	const op = "access.ListForUser"

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	catalog, err := s.resolveCatalog(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	isPro := user.SubscriptionStatus == models.SubscriptionActive
	for _, tool := range catalog {
		if Decide(tool, user) {
			accessible = append(accessible, tool)
		}
		if !isPro && !user.IsAdmin() && tool.AccessLevel == models.AccessLevelPro {
			upsell = append(upsell, tool)
		}
	}
	return accessible, upsell, nil
}

// GrantTools перезаписывает индивидуальные разрешения пользователя targetUID.
// Роль вызывающего перечитывается из базы, а не берётся из токена.
func (s *Service) GrantTools(ctx context.Context, adminUID, targetUID string, tools []string) error {
	const op = "access.GrantTools"

	if err := s.requireAdmin(ctx, adminUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.users.UpdatePermittedTools(ctx, targetUID, tools); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("permitted tools updated",
		slog.String("admin_uid", adminUID),
		slog.String("target_uid", targetUID),
		slog.Int("tools", len(tools)))
	return nil
}

// ListUsers возвращает всех пользователей для административного обзора.
func (s *Service) ListUsers(ctx context.Context, adminUID string) ([]*models.User, error) {
	const op = "access.ListUsers"

	if err := s.requireAdmin(ctx, adminUID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

func (s *Service) requireAdmin(ctx context.Context, userUID string) error {
	user, err := s.users.GetUser(ctx, userUID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return ErrNotAdmin
	}
	if err != nil {
		return err
	}
	if !user.IsAdmin() {
		return ErrNotAdmin
	}
	return nil
}

// resolveTool отдаёт запись каталога из кэша или базы. Отсутствие записи
// не ошибка решающего пути: возвращается nil tool, политика откажет сама.
func (s *Service) resolveTool(ctx context.Context, filename string) (*models.Tool, error) {
	key := toolCacheKeyPrefix + filename
	if s.cache != nil {
		var cached models.Tool
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.Warn("tool cache read failed", sl.Err(err))
		} else if found {
			return &cached, nil
		}
	}

	tool, err := s.tools.GetTool(ctx, filename)
	if errors.Is(err, repository.ErrToolNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, tool, s.catalogTTL); err != nil {
			s.log.Warn("tool cache write failed", sl.Err(err))
		}
	}
	return tool, nil
}

func (s *Service) resolveCatalog(ctx context.Context) ([]*models.Tool, error) {
	if s.cache != nil {
		var cached []*models.Tool
		found, err := s.cache.Get(ctx, catalogCacheKey, &cached)
		if err != nil {
			s.log.Warn("catalog cache read failed", sl.Err(err))
		} else if found {
			return cached, nil
		}
	}

	catalog, err := s.tools.ListTools(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, catalogCacheKey, catalog, s.catalogTTL); err != nil {
			s.log.Warn("catalog cache write failed", sl.Err(err))
		}
	}
	return catalog, nil
}
