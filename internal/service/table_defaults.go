// table_defaults.go — умолчания таблиц экранов (размер страницы, сортировка).
// Хранятся в PostgreSQL, если он настроен, иначе в памяти процесса.
// Без сохранённой записи действует EC_DEFAULT_PAGE_SIZE и порядок бэкенда.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/Prathamesh2801/testingED-sub000/internal/domain/screen"
	"github.com/Prathamesh2801/testingED-sub000/internal/repository"
	"github.com/Prathamesh2801/testingED-sub000/internal/table"
)

// maxSortColumnLen — ограничение длины имени колонки сортировки.
const maxSortColumnLen = 64

// TableDefaults — действующие умолчания таблицы экрана.
type TableDefaults struct {
	Screen     screen.Name
	PageSize   int
	SortColumn string
	SortDir    table.Direction
	// Stored — умолчания сохранены (false — значения из конфигурации).
	Stored    bool
	UpdatedAt time.Time
	UpdatedBy string
}

// ViewState восстанавливает состояние таблицы из query-параметров
// поверх умолчаний. Сортировка по умолчанию применяется, только если
// параметр sort отсутствует в запросе.
func (d TableDefaults) ViewState(q url.Values) table.ViewState {
	state := table.ParseViewState(q, d.PageSize)
	if !q.Has(table.ParamSort) && d.SortColumn != "" {
		state.SortColumn = d.SortColumn
		state.SortDir = d.SortDir
	}
	return state
}

// TableDefaultsService — чтение и изменение умолчаний таблиц.
type TableDefaultsService struct {
	repo            repository.TableSettingsRepository
	defaultPageSize int
	logger          *slog.Logger
}

// NewTableDefaultsService создаёт сервис умолчаний таблиц.
// defaultPageSize — размер страницы из конфигурации.
func NewTableDefaultsService(
	repo repository.TableSettingsRepository,
	defaultPageSize int,
	logger *slog.Logger,
) *TableDefaultsService {
	if !table.ValidPageSize(defaultPageSize) {
		defaultPageSize = table.DefaultPageSize
	}
	return &TableDefaultsService{
		repo:            repo,
		defaultPageSize: defaultPageSize,
		logger:          logger.With(slog.String("service", "table_defaults")),
	}
}

// Defaults возвращает умолчания экрана. Ошибка хранилища не прерывает
// работу таблицы: логируется и заменяется умолчаниями конфигурации.
func (s *TableDefaultsService) Defaults(ctx context.Context, name screen.Name) TableDefaults {
	fallback := TableDefaults{Screen: name, PageSize: s.defaultPageSize, SortDir: table.Asc}

	setting, err := s.repo.Get(ctx, string(name))
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("Умолчания таблицы недоступны",
				slog.String("screen", string(name)),
				slog.String("error", err.Error()),
			)
		}
		return fallback
	}
	return fromSetting(*setting, s.defaultPageSize)
}

// List возвращает действующие умолчания всех экранов в порядке screen.All().
func (s *TableDefaultsService) List(ctx context.Context) ([]TableDefaults, error) {
	stored, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения умолчаний таблиц: %w", err)
	}
	byScreen := make(map[string]repository.TableSetting, len(stored))
	for _, st := range stored {
		byScreen[st.Screen] = st
	}

	defs := screen.All()
	out := make([]TableDefaults, 0, len(defs))
	for _, def := range defs {
		if st, ok := byScreen[string(def.Name)]; ok {
			out = append(out, fromSetting(st, s.defaultPageSize))
			continue
		}
		out = append(out, TableDefaults{Screen: def.Name, PageSize: s.defaultPageSize, SortDir: table.Asc})
	}
	return out, nil
}

// Set сохраняет умолчания экрана. updatedBy — имя пользователя консоли.
func (s *TableDefaultsService) Set(ctx context.Context, d TableDefaults, updatedBy string) (*TableDefaults, error) {
	def, ok := screen.Lookup(string(d.Screen))
	if !ok {
		return nil, fmt.Errorf("%w: неизвестный экран %q", ErrValidation, d.Screen)
	}
	if !table.ValidPageSize(d.PageSize) {
		return nil, fmt.Errorf("%w: недопустимый размер страницы %d", ErrValidation, d.PageSize)
	}
	d.SortColumn = strings.TrimSpace(d.SortColumn)
	if len(d.SortColumn) > maxSortColumnLen {
		return nil, fmt.Errorf("%w: слишком длинное имя колонки", ErrValidation)
	}
	if d.SortColumn != "" && def.Table.Hidden(d.SortColumn) {
		return nil, fmt.Errorf("%w: колонка %q скрыта на экране %s", ErrValidation, d.SortColumn, d.Screen)
	}
	switch d.SortDir {
	case "":
		d.SortDir = table.Asc
	case table.Asc, table.Desc:
	default:
		return nil, fmt.Errorf("%w: недопустимое направление сортировки %q", ErrValidation, d.SortDir)
	}

	setting := &repository.TableSetting{
		Screen:     string(d.Screen),
		PageSize:   d.PageSize,
		SortColumn: d.SortColumn,
		SortOrder:  string(d.SortDir),
		UpdatedBy:  updatedBy,
	}
	if err := s.repo.Upsert(ctx, setting); err != nil {
		return nil, fmt.Errorf("ошибка сохранения умолчаний %q: %w", d.Screen, err)
	}

	s.logger.Info("Умолчания таблицы обновлены",
		slog.String("screen", string(d.Screen)),
		slog.Int("page_size", d.PageSize),
		slog.String("sort", d.SortColumn),
		slog.String("updated_by", updatedBy),
	)

	result := fromSetting(*setting, s.defaultPageSize)
	return &result, nil
}

// Reset удаляет сохранённые умолчания экрана (возврат к конфигурации).
// Отсутствие сохранённых умолчаний — не ошибка.
func (s *TableDefaultsService) Reset(ctx context.Context, name screen.Name, updatedBy string) error {
	if _, ok := screen.Lookup(string(name)); !ok {
		return fmt.Errorf("%w: неизвестный экран %q", ErrValidation, name)
	}
	if err := s.repo.Delete(ctx, string(name)); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("ошибка сброса умолчаний %q: %w", name, err)
	}
	s.logger.Info("Умолчания таблицы сброшены",
		slog.String("screen", string(name)),
		slog.String("updated_by", updatedBy),
	)
	return nil
}

// fromSetting преобразует запись хранилища в действующие умолчания.
func fromSetting(st repository.TableSetting, defaultPageSize int) TableDefaults {
	pageSize := st.PageSize
	if !table.ValidPageSize(pageSize) {
		pageSize = defaultPageSize
	}
	return TableDefaults{
		Screen:     screen.Name(st.Screen),
		PageSize:   pageSize,
		SortColumn: st.SortColumn,
		SortDir:    table.ParseDirection(st.SortOrder),
		Stored:     true,
		UpdatedAt:  st.UpdatedAt,
		UpdatedBy:  st.UpdatedBy,
	}
}
