// Package repository реализует хранилище данных на основе PostgreSQL
// для каталога инструментов и пользователей. Предоставляет точечные
// чтения для принятия решения о доступе и идемпотентные записи
// статуса подписки и индивидуальных разрешений.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Ошибки уровня хранилища. Отсутствующая запись — обычный исход для
// решающего пути и оборачивается в эти sentinel-ошибки, а не в ошибку SQL.
var (
	// ErrToolNotFound — инструмент отсутствует в каталоге.
	ErrToolNotFound = errors.New("tool not found")
	// ErrUserNotFound — пользователь отсутствует в базе.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken — пользователь с таким email уже зарегистрирован.
	ErrEmailTaken = errors.New("email already taken")
)

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с пользователями и каталогом инструментов.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'tools'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table tools missing or query error: %w", err)
	}
	return nil
}
