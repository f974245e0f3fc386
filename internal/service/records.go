// records.go — загрузка и изменение записей экранов через Events API.
// Каждый вызов — ровно один запрос к бэкенду, без повторов и кэширования:
// таблица всегда показывает актуальное состояние.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Prathamesh2801/testingED-sub000/internal/domain/rbac"
	"github.com/Prathamesh2801/testingED-sub000/internal/domain/screen"
	"github.com/Prathamesh2801/testingED-sub000/internal/eventapi"
	"github.com/Prathamesh2801/testingED-sub000/internal/table"
)

// EventAPI — операции Events API, используемые сервисами.
// Реализуется *eventapi.Client.
type EventAPI interface {
	Login(ctx context.Context, email, password string) (*eventapi.LoginResult, error)
	ListEvents(ctx context.Context, token string) ([]eventapi.Event, error)
	ListRecords(ctx context.Context, token, resource, eventID string) (*eventapi.RecordList, error)
	Create(ctx context.Context, token, resource string, p eventapi.Payload) (string, error)
	Delete(ctx context.Context, token, resource, id string) error
	CredentialQR(ctx context.Context, token, id string) (*eventapi.Blob, error)
}

// Actor — субъект операции: токен, роль и выбранное мероприятие сессии.
type Actor struct {
	Token   string
	Role    string
	EventID string
}

// ScreenCount — количество записей экрана для дашборда.
type ScreenCount struct {
	Screen screen.Name
	// Count — количество записей (-1, если загрузка не удалась).
	Count int
	// Err — ошибка загрузки.
	Err error
}

// RecordsService — операции над записями экранов.
type RecordsService struct {
	api    EventAPI
	logger *slog.Logger
}

// NewRecordsService создаёт сервис записей.
func NewRecordsService(api EventAPI, logger *slog.Logger) *RecordsService {
	return &RecordsService{
		api:    api,
		logger: logger.With(slog.String("service", "records")),
	}
}

// List загружает записи экрана для выбранного мероприятия.
// Пустой список — не ошибка.
func (s *RecordsService) List(ctx context.Context, actor Actor, def screen.Definition) ([]table.Record, error) {
	if actor.EventID == "" {
		return nil, ErrNoEvent
	}
	list, err := s.api.ListRecords(ctx, actor.Token, def.Resource, actor.EventID)
	if err != nil {
		return nil, fmt.Errorf("загрузка %s: %w", def.Resource, err)
	}
	return list.Records, nil
}

// Count возвращает количество записей экрана.
// Предпочитает total из метаданных страницы, если бэкенд его вернул.
func (s *RecordsService) Count(ctx context.Context, actor Actor, def screen.Definition) (int, error) {
	if actor.EventID == "" {
		return 0, ErrNoEvent
	}
	list, err := s.api.ListRecords(ctx, actor.Token, def.Resource, actor.EventID)
	if err != nil {
		return 0, fmt.Errorf("подсчёт %s: %w", def.Resource, err)
	}
	if list.Meta != nil && list.Meta.Total > len(list.Records) {
		return list.Meta.Total, nil
	}
	return len(list.Records), nil
}

// Counts возвращает количество записей по всем экранам.
// Ошибка одного экрана не прерывает подсчёт остальных.
func (s *RecordsService) Counts(ctx context.Context, actor Actor, defs []screen.Definition) []ScreenCount {
	out := make([]ScreenCount, 0, len(defs))
	for _, def := range defs {
		n, err := s.Count(ctx, actor, def)
		if err != nil {
			n = -1
		}
		out = append(out, ScreenCount{Screen: def.Name, Count: n, Err: err})
	}
	return out
}

// Create создаёт запись экрана. Поле event_id добавляется из сессии.
// Возвращает сообщение бэкенда.
func (s *RecordsService) Create(
	ctx context.Context,
	actor Actor,
	def screen.Definition,
	form screen.Form,
	file *eventapi.Upload,
) (string, error) {
	if !rbac.CanMutate(actor.Role) {
		return "", ErrForbidden
	}
	if actor.EventID == "" {
		return "", ErrNoEvent
	}

	fields := form.Payload()
	fields.Set("event_id", actor.EventID)

	msg, err := s.api.Create(ctx, actor.Token, def.Resource, eventapi.Payload{Fields: fields, File: file})
	if err != nil {
		return "", fmt.Errorf("создание в %s: %w", def.Resource, err)
	}

	s.logger.Info("Запись создана",
		slog.String("resource", def.Resource),
		slog.String("event_id", actor.EventID),
	)
	return msg, nil
}

// Delete удаляет запись экрана.
func (s *RecordsService) Delete(ctx context.Context, actor Actor, def screen.Definition, id string) error {
	if !rbac.CanMutate(actor.Role) {
		return ErrForbidden
	}
	if id == "" {
		return fmt.Errorf("%w: пустой идентификатор записи", ErrValidation)
	}
	if err := s.api.Delete(ctx, actor.Token, def.Resource, id); err != nil {
		return fmt.Errorf("удаление из %s: %w", def.Resource, err)
	}

	s.logger.Info("Запись удалена",
		slog.String("resource", def.Resource),
		slog.String("id", id),
	)
	return nil
}

// CredentialQR возвращает QR-изображение учётных данных.
func (s *RecordsService) CredentialQR(ctx context.Context, actor Actor, id string) (*eventapi.Blob, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: пустой идентификатор", ErrValidation)
	}
	blob, err := s.api.CredentialQR(ctx, actor.Token, id)
	if err != nil {
		return nil, fmt.Errorf("QR-код %s: %w", id, err)
	}
	return blob, nil
}
