package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/tool-entitlement/internal/models"
)

// Код unique_violation у PostgreSQL: попытка вставить занятый email.
const pgUniqueViolation = "23505"

// RegisterUser сохраняет нового пользователя в базу данных и возвращает его UID.
// Роли и индивидуальные разрешения хранятся как jsonb-массивы.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"

	roles, err := marshalSet(user.Roles)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	tools, err := marshalSet(user.PermittedTools)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	var newUID string
	query := `INSERT INTO users (uid, email, password_hash, roles,
			      subscription_status, permitted_tools, billing_customer_id)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.UID, user.Email, user.PasswordHash, roles,
		user.SubscriptionStatus, tools, nullString(user.BillingCustomerID)).Scan(&newUID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return "", fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUser возвращает пользователя по его UID.
// Отсутствие пользователя — ErrUserNotFound, решающий путь трактует его
// как анонимного посетителя.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"

	query := `SELECT uid, email, password_hash, roles, subscription_status,
			      permitted_tools, billing_customer_id, created_at
			  FROM users
			  WHERE uid = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, userUID), op)
}

// GetUserByEmail возвращает пользователя по email. Email нормализуется
// к нижнему регистру на стороне вызова.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"

	query := `SELECT uid, email, password_hash, roles, subscription_status,
			      permitted_tools, billing_customer_id, created_at
			  FROM users
			  WHERE email = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, email), op)
}

// UpdateSubscriptionStatusByUID выставляет статус подписки пользователя.
// Запись идемпотентна: статус устанавливается, а не инкрементируется,
// повторное применение того же события ничего не меняет.
// Возвращает ErrUserNotFound, если пользователь не найден.
func (s *Storage) UpdateSubscriptionStatusByUID(ctx context.Context, userUID, status string) error {
	const op = "storage.UpdateSubscriptionStatusByUID"

	query := `UPDATE users SET subscription_status = $1 WHERE uid = $2`
	res, err := s.DB.ExecContext(ctx, query, status, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return checkAffected(res, op)
}

// UpdateSubscriptionStatusByCustomer выставляет статус подписки по
// идентификатору клиента платёжной системы. Семантика та же, что у
// UpdateSubscriptionStatusByUID.
func (s *Storage) UpdateSubscriptionStatusByCustomer(ctx context.Context, customerID, status string) error {
	const op = "storage.UpdateSubscriptionStatusByCustomer"

	query := `UPDATE users SET subscription_status = $1 WHERE billing_customer_id = $2`
	res, err := s.DB.ExecContext(ctx, query, status, customerID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return checkAffected(res, op)
}

// UpdatePermittedTools перезаписывает набор индивидуально выданных
// инструментов пользователя.
func (s *Storage) UpdatePermittedTools(ctx context.Context, userUID string, tools []string) error {
	const op = "storage.UpdatePermittedTools"

	payload, err := marshalSet(tools)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	query := `UPDATE users SET permitted_tools = $1 WHERE uid = $2`
	res, err := s.DB.ExecContext(ctx, query, payload, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return checkAffected(res, op)
}

// ListUsers возвращает всех пользователей для административного обзора,
// отсортированных по email.
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "storage.ListUsers"

	query := `SELECT uid, email, password_hash, roles, subscription_status,
			      permitted_tools, billing_customer_id, created_at
			  FROM users
			  ORDER BY email`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		u, err := scanUserRow(rows, op)
		if err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Storage) scanUser(row *sql.Row, op string) (*models.User, error) {
	u, err := scanUserRow(row, op)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, err
	}
	return u, nil
}

func scanUserRow(row rowScanner, op string) (*models.User, error) {
	u := &models.User{}
	var roles, tools []byte
	var customerID sql.NullString
	if err := row.Scan(&u.UID, &u.Email, &u.PasswordHash, &roles,
		&u.SubscriptionStatus, &tools, &customerID, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal(roles, &u.Roles); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal(tools, &u.PermittedTools); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if customerID.Valid {
		u.BillingCustomerID = customerID.String
	}
	return u, nil
}

func checkAffected(res sql.Result, op string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

func marshalSet(values []string) ([]byte, error) {
	if values == nil {
		values = []string{}
	}
	return json.Marshal(values)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
