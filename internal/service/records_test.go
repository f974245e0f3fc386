package service

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"os"
	"sync"
	"testing"

	"github.com/Prathamesh2801/testingED-sub000/internal/domain/rbac"
	"github.com/Prathamesh2801/testingED-sub000/internal/domain/screen"
	"github.com/Prathamesh2801/testingED-sub000/internal/eventapi"
	"github.com/Prathamesh2801/testingED-sub000/internal/table"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeAPI — in-memory реализация EventAPI для тестов сервисов.
type fakeAPI struct {
	mu sync.Mutex

	records   map[string][]table.Record
	meta      map[string]*eventapi.PageMeta
	listErr   map[string]error
	events    []eventapi.Event
	eventsErr error
	createErr error
	deleteErr error

	listCalls   int
	eventsCalls int
	created     []eventapi.Payload
	createdRes  []string
	deleted     []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		records: make(map[string][]table.Record),
		meta:    make(map[string]*eventapi.PageMeta),
		listErr: make(map[string]error),
	}
}

func (f *fakeAPI) Login(_ context.Context, email, _ string) (*eventapi.LoginResult, error) {
	return &eventapi.LoginResult{Token: "tok", Role: "admin", EventID: "ev-1", Name: email}, nil
}

func (f *fakeAPI) ListEvents(_ context.Context, _ string) ([]eventapi.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.eventsCalls++
	if f.eventsErr != nil {
		return nil, f.eventsErr
	}
	return f.events, nil
}

func (f *fakeAPI) ListRecords(_ context.Context, _, resource, _ string) (*eventapi.RecordList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if err := f.listErr[resource]; err != nil {
		return nil, err
	}
	return &eventapi.RecordList{Records: f.records[resource], Meta: f.meta[resource]}, nil
}

func (f *fakeAPI) Create(_ context.Context, _, resource string, p eventapi.Payload) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, p)
	f.createdRes = append(f.createdRes, resource)
	return "created", nil
}

func (f *fakeAPI) Delete(_ context.Context, _, resource, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, resource+"/"+id)
	return nil
}

func (f *fakeAPI) CredentialQR(_ context.Context, _, id string) (*eventapi.Blob, error) {
	return &eventapi.Blob{ContentType: "image/png", Data: []byte("qr-" + id)}, nil
}

func record(fields map[string]any) table.Record {
	rec := table.NewRecord()
	for k, v := range fields {
		switch x := v.(type) {
		case string:
			rec.Set(k, table.String(x))
		case float64:
			rec.Set(k, table.Number(x))
		case bool:
			rec.Set(k, table.Bool(x))
		default:
			rec.Set(k, table.Null())
		}
	}
	return rec
}

func mustScreen(t *testing.T, name screen.Name) screen.Definition {
	t.Helper()
	def, ok := screen.Lookup(string(name))
	if !ok {
		t.Fatalf("экран %q не найден", name)
	}
	return def
}

func TestRecordsService_List(t *testing.T) {
	api := newFakeAPI()
	api.records["users"] = []table.Record{record(map[string]any{"id": "1", "name": "Ann"})}
	svc := NewRecordsService(api, testLogger())

	recs, err := svc.List(context.Background(), Actor{Token: "t", EventID: "ev-1"}, mustScreen(t, screen.Users))
	if err != nil {
		t.Fatalf("List() вернул ошибку: %v", err)
	}
	if len(recs) != 1 || recs[0].ID() != "1" {
		t.Errorf("List() = %v, ожидали одну запись с id=1", recs)
	}
}

func TestRecordsService_List_Empty(t *testing.T) {
	svc := NewRecordsService(newFakeAPI(), testLogger())

	recs, err := svc.List(context.Background(), Actor{Token: "t", EventID: "ev-1"}, mustScreen(t, screen.Polls))
	if err != nil {
		t.Fatalf("пустой список не должен быть ошибкой: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("List() = %d записей, ожидали 0", len(recs))
	}
}

func TestRecordsService_List_NoEvent(t *testing.T) {
	api := newFakeAPI()
	svc := NewRecordsService(api, testLogger())

	_, err := svc.List(context.Background(), Actor{Token: "t"}, mustScreen(t, screen.Users))
	if !errors.Is(err, ErrNoEvent) {
		t.Fatalf("ожидали ErrNoEvent, получили %v", err)
	}
	if api.listCalls != 0 {
		t.Errorf("без мероприятия не должно быть запросов, было %d", api.listCalls)
	}
}

func TestRecordsService_List_WrapsAPIError(t *testing.T) {
	api := newFakeAPI()
	api.listErr["schedules"] = &eventapi.APIError{StatusCode: 200, Message: "event closed"}
	svc := NewRecordsService(api, testLogger())

	_, err := svc.List(context.Background(), Actor{Token: "t", EventID: "ev-1"}, mustScreen(t, screen.Schedules))
	if !errors.Is(err, eventapi.ErrRejected) {
		t.Fatalf("ожидали ErrRejected, получили %v", err)
	}
	var apiErr *eventapi.APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "event closed" {
		t.Errorf("сообщение бэкенда потеряно: %v", err)
	}
}

func TestRecordsService_Counts(t *testing.T) {
	api := newFakeAPI()
	api.records["users"] = []table.Record{record(map[string]any{"id": "1"}), record(map[string]any{"id": "2"})}
	api.records["polls"] = []table.Record{record(map[string]any{"id": "p"})}
	api.meta["polls"] = &eventapi.PageMeta{Total: 42}
	api.listErr["schedules"] = eventapi.ErrTransport
	svc := NewRecordsService(api, testLogger())

	counts := svc.Counts(context.Background(), Actor{Token: "t", EventID: "ev-1"}, screen.All())
	if len(counts) != len(screen.All()) {
		t.Fatalf("Counts() = %d элементов, ожидали %d", len(counts), len(screen.All()))
	}

	got := map[screen.Name]ScreenCount{}
	for _, c := range counts {
		got[c.Screen] = c
	}
	if got[screen.Users].Count != 2 {
		t.Errorf("users = %d, ожидали 2", got[screen.Users].Count)
	}
	if got[screen.Polls].Count != 42 {
		t.Errorf("polls = %d, ожидали 42 из meta.total", got[screen.Polls].Count)
	}
	if got[screen.Schedules].Count != -1 || got[screen.Schedules].Err == nil {
		t.Errorf("schedules = %+v, ожидали -1 и ошибку", got[screen.Schedules])
	}
	if got[screen.Notifications].Count != 0 || got[screen.Notifications].Err != nil {
		t.Errorf("notifications = %+v, ожидали 0 без ошибки", got[screen.Notifications])
	}
}

func TestRecordsService_Create(t *testing.T) {
	api := newFakeAPI()
	svc := NewRecordsService(api, testLogger())
	def := mustScreen(t, screen.Notifications)

	form, err := def.Bind(url.Values{
		"title":   {"Doors open"},
		"message": {"Hall A"},
		"type":    {"info"},
	}, "en")
	if err != nil {
		t.Fatalf("Bind() вернул ошибку: %v", err)
	}

	msg, err := svc.Create(context.Background(), Actor{Token: "t", Role: rbac.RoleAdmin, EventID: "ev-9"}, def, form, nil)
	if err != nil {
		t.Fatalf("Create() вернул ошибку: %v", err)
	}
	if msg != "created" {
		t.Errorf("сообщение = %q, ожидали created", msg)
	}
	if len(api.created) != 1 || api.createdRes[0] != "notifications" {
		t.Fatalf("запрос создания не отправлен: %+v", api.createdRes)
	}
	fields := api.created[0].Fields
	if fields.Get("event_id") != "ev-9" {
		t.Errorf("event_id = %q, ожидали ev-9 из сессии", fields.Get("event_id"))
	}
	if fields.Get("title") != "Doors open" {
		t.Errorf("title = %q", fields.Get("title"))
	}
}

func TestRecordsService_Create_Forbidden(t *testing.T) {
	api := newFakeAPI()
	svc := NewRecordsService(api, testLogger())
	def := mustScreen(t, screen.Polls)
	form, _ := def.Bind(url.Values{"question": {"Q?"}, "options": {"a, b"}}, "en")

	_, err := svc.Create(context.Background(), Actor{Token: "t", Role: rbac.RoleViewer, EventID: "ev-1"}, def, form, nil)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("ожидали ErrForbidden, получили %v", err)
	}
	if len(api.created) != 0 {
		t.Error("viewer не должен создавать записи")
	}
}

func TestRecordsService_Create_NoEvent(t *testing.T) {
	svc := NewRecordsService(newFakeAPI(), testLogger())
	def := mustScreen(t, screen.Polls)
	form, _ := def.Bind(url.Values{"question": {"Q?"}, "options": {"a, b"}}, "en")

	_, err := svc.Create(context.Background(), Actor{Token: "t", Role: rbac.RoleSuperAdmin}, def, form, nil)
	if !errors.Is(err, ErrNoEvent) {
		t.Fatalf("ожидали ErrNoEvent, получили %v", err)
	}
}

func TestRecordsService_Delete(t *testing.T) {
	api := newFakeAPI()
	svc := NewRecordsService(api, testLogger())
	def := mustScreen(t, screen.Users)
	admin := Actor{Token: "t", Role: rbac.RoleAdmin, EventID: "ev-1"}

	if err := svc.Delete(context.Background(), admin, def, "u-1"); err != nil {
		t.Fatalf("Delete() вернул ошибку: %v", err)
	}
	if len(api.deleted) != 1 || api.deleted[0] != "users/u-1" {
		t.Errorf("deleted = %v", api.deleted)
	}

	if err := svc.Delete(context.Background(), admin, def, ""); !errors.Is(err, ErrValidation) {
		t.Errorf("пустой id: ожидали ErrValidation, получили %v", err)
	}

	viewer := Actor{Token: "t", Role: rbac.RoleViewer, EventID: "ev-1"}
	if err := svc.Delete(context.Background(), viewer, def, "u-2"); !errors.Is(err, ErrForbidden) {
		t.Errorf("viewer: ожидали ErrForbidden, получили %v", err)
	}
}

func TestRecordsService_CredentialQR(t *testing.T) {
	svc := NewRecordsService(newFakeAPI(), testLogger())

	blob, err := svc.CredentialQR(context.Background(), Actor{Token: "t"}, "u-7")
	if err != nil {
		t.Fatalf("CredentialQR() вернул ошибку: %v", err)
	}
	if string(blob.Data) != "qr-u-7" {
		t.Errorf("Data = %q", blob.Data)
	}

	if _, err := svc.CredentialQR(context.Background(), Actor{Token: "t"}, ""); !errors.Is(err, ErrValidation) {
		t.Errorf("пустой id: ожидали ErrValidation, получили %v", err)
	}
}
