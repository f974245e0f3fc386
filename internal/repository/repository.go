// Пакет repository — хранение умолчаний таблиц консоли.
// PostgreSQL-реализация — чистый SQL через pgx, без ORM;
// in-memory реализация используется, когда БД не настроена.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound — запись не найдена.
var ErrNotFound = errors.New("запись не найдена")

// DBTX — интерфейс для выполнения SQL-запросов.
// Реализуется как *pgxpool.Pool, так и pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TableSetting — умолчания таблицы одного экрана.
type TableSetting struct {
	// Screen — имя экрана (users, schedules, ...).
	Screen string
	// PageSize — размер страницы по умолчанию.
	PageSize int
	// SortColumn — колонка сортировки по умолчанию ("" — без сортировки).
	SortColumn string
	// SortOrder — направление сортировки по умолчанию (asc, desc).
	SortOrder string
	// UpdatedAt — время последнего изменения.
	UpdatedAt time.Time
	// UpdatedBy — кто изменил (имя пользователя консоли).
	UpdatedBy string
}

// TableSettingsRepository — хранилище умолчаний таблиц.
type TableSettingsRepository interface {
	// Get возвращает умолчания экрана. Если не найдены — ErrNotFound.
	Get(ctx context.Context, screen string) (*TableSetting, error)
	// Upsert создаёт или обновляет умолчания экрана.
	Upsert(ctx context.Context, s *TableSetting) error
	// List возвращает умолчания всех экранов, отсортированные по имени.
	List(ctx context.Context) ([]TableSetting, error)
	// Delete удаляет умолчания экрана (возврат к конфигурации).
	Delete(ctx context.Context, screen string) error
}
