package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// tableSettingsRepo — PostgreSQL-реализация TableSettingsRepository.
type tableSettingsRepo struct {
	db DBTX
}

// NewTableSettingsRepository создаёт репозиторий умолчаний таблиц поверх PostgreSQL.
func NewTableSettingsRepository(db DBTX) TableSettingsRepository {
	return &tableSettingsRepo{db: db}
}

// Get возвращает умолчания экрана.
func (r *tableSettingsRepo) Get(ctx context.Context, screen string) (*TableSetting, error) {
	query := `
		SELECT screen, page_size, sort_column, sort_order, updated_at, updated_by
		FROM table_settings
		WHERE screen = $1`

	s := &TableSetting{}
	err := r.db.QueryRow(ctx, query, screen).Scan(
		&s.Screen, &s.PageSize, &s.SortColumn, &s.SortOrder, &s.UpdatedAt, &s.UpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения table_settings[%s]: %w", screen, err)
	}
	return s, nil
}

// Upsert создаёт или обновляет умолчания (INSERT ... ON CONFLICT DO UPDATE).
// Заполняет UpdatedAt значением из БД.
func (r *tableSettingsRepo) Upsert(ctx context.Context, s *TableSetting) error {
	query := `
		INSERT INTO table_settings (screen, page_size, sort_column, sort_order, updated_by)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (screen) DO UPDATE
		SET page_size = EXCLUDED.page_size,
			sort_column = EXCLUDED.sort_column,
			sort_order = EXCLUDED.sort_order,
			updated_by = EXCLUDED.updated_by,
			updated_at = NOW()
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		s.Screen, s.PageSize, s.SortColumn, s.SortOrder, s.UpdatedBy,
	).Scan(&s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("ошибка сохранения table_settings[%s]: %w", s.Screen, err)
	}
	return nil
}

// List возвращает умолчания всех экранов.
func (r *tableSettingsRepo) List(ctx context.Context) ([]TableSetting, error) {
	query := `
		SELECT screen, page_size, sort_column, sort_order, updated_at, updated_by
		FROM table_settings
		ORDER BY screen`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка table_settings: %w", err)
	}
	defer rows.Close()

	var settings []TableSetting
	for rows.Next() {
		var s TableSetting
		if err := rows.Scan(&s.Screen, &s.PageSize, &s.SortColumn, &s.SortOrder, &s.UpdatedAt, &s.UpdatedBy); err != nil {
			return nil, fmt.Errorf("ошибка сканирования table_settings: %w", err)
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// Delete удаляет умолчания экрана.
func (r *tableSettingsRepo) Delete(ctx context.Context, screen string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM table_settings WHERE screen = $1`, screen)
	if err != nil {
		return fmt.Errorf("ошибка удаления table_settings[%s]: %w", screen, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
