package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/tool-entitlement/internal/models"
)

// GetTool возвращает запись каталога по имени файла. Поиск точный,
// с учётом регистра: клиентская строка — недоверенный ввод и сверяется
// с каталогом только по точному ключу.
func (s *Storage) GetTool(ctx context.Context, filename string) (*models.Tool, error) {
	const op = "storage.GetTool"

	query := `SELECT filename, display_name, description, access_level, icon_svg
			  FROM tools
			  WHERE filename = $1`
	t := &models.Tool{}
	var description, iconSVG sql.NullString
	if err := s.DB.QueryRowContext(ctx, query, filename).Scan(
		&t.Filename, &t.DisplayName, &description, &t.AccessLevel, &iconSVG); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrToolNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	t.Description = description.String
	t.IconSVG = iconSVG.String
	return t, nil
}

// ListTools возвращает весь каталог инструментов, отсортированный по
// отображаемому имени.
func (s *Storage) ListTools(ctx context.Context) ([]*models.Tool, error) {
	const op = "storage.ListTools"

	query := `SELECT filename, display_name, description, access_level, icon_svg
			  FROM tools
			  ORDER BY display_name`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Tool
	for rows.Next() {
		t := &models.Tool{}
		var description, iconSVG sql.NullString
		if err = rows.Scan(&t.Filename, &t.DisplayName, &description,
			&t.AccessLevel, &iconSVG); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		t.Description = description.String
		t.IconSVG = iconSVG.String
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
