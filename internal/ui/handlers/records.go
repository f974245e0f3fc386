// records.go — экраны записей: страница с таблицей, partial таблицы,
// создание и удаление записей.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/Prathamesh2801/testingED-sub000/internal/domain/rbac"
	"github.com/Prathamesh2801/testingED-sub000/internal/domain/screen"
	"github.com/Prathamesh2801/testingED-sub000/internal/eventapi"
	"github.com/Prathamesh2801/testingED-sub000/internal/service"
	"github.com/Prathamesh2801/testingED-sub000/internal/table"
	"github.com/Prathamesh2801/testingED-sub000/internal/ui/auth"
	"github.com/Prathamesh2801/testingED-sub000/internal/ui/i18n"
	uimiddleware "github.com/Prathamesh2801/testingED-sub000/internal/ui/middleware"
	"github.com/Prathamesh2801/testingED-sub000/internal/ui/pages"
)

// multipartOverhead — запас на поля формы сверх MaxFileSize экрана.
const multipartOverhead = 1 << 20

// RecordsHandler — обработчики экранов записей.
type RecordsHandler struct {
	console
	records  *service.RecordsService
	defaults *service.TableDefaultsService
}

// NewRecordsHandler создаёт RecordsHandler.
func NewRecordsHandler(
	records *service.RecordsService,
	defaults *service.TableDefaultsService,
	sessions *auth.SessionManager,
	directory *service.EventDirectory,
	logger *slog.Logger,
) *RecordsHandler {
	return &RecordsHandler{
		console: console{
			sessions:  sessions,
			directory: directory,
			logger:    logger.With(slog.String("component", "ui.records")),
		},
		records:  records,
		defaults: defaults,
	}
}

// screenFromRequest возвращает экран из URL или пишет 404.
func (h *RecordsHandler) screenFromRequest(w http.ResponseWriter, r *http.Request) (screen.Definition, bool) {
	def, ok := screen.Lookup(chi.URLParam(r, "screen"))
	if !ok {
		http.NotFound(w, r)
	}
	return def, ok
}

// loadTable загружает записи экрана и строит представление таблицы.
// Ошибка загрузки попадает в TableData.Error; ErrUnauthorized возвращается
// вызывающему для завершения сессии.
func (h *RecordsHandler) loadTable(
	ctx context.Context,
	session *auth.Session,
	def screen.Definition,
	q url.Values,
) (pages.TableData, error) {
	state := h.defaults.Defaults(ctx, def.Name).ViewState(q)
	data := pages.TableData{
		Screen:    def.Name,
		CanMutate: rbac.CanMutate(session.Role),
		View:      table.View{State: state},
	}

	records, err := h.records.List(ctx, actorOf(session), def)
	if err != nil {
		if errors.Is(err, eventapi.ErrUnauthorized) {
			return data, err
		}
		if !errors.Is(err, service.ErrNoEvent) {
			h.logger.Warn("Загрузка записей не удалась",
				slog.String("screen", string(def.Name)),
				slog.String("error", err.Error()),
			)
		}
		data.Error = errorMessage(ctx, err)
		return data, nil
	}

	ds := table.NewDataset(def.Table)
	ds.Load(records)
	data.View = ds.Derive(state, i18n.TagFromContext(ctx))
	return data, nil
}

// HandlePage — GET /admin/{screen}.
func (h *RecordsHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	session := uimiddleware.SessionFromContext(r.Context())
	if session == nil {
		uimiddleware.RedirectToLogin(w, r)
		return
	}
	def, ok := h.screenFromRequest(w, r)
	if !ok {
		return
	}

	tableData, err := h.loadTable(r.Context(), session, def, r.URL.Query())
	if h.dropOnUnauthorized(w, r, session, err) {
		return
	}

	data := pages.RecordsData{Table: tableData, Flash: flashFromRequest(r)}
	if tableData.CanMutate {
		data.Form = &pages.FormData{Def: def}
	}
	h.renderPage(w, r, http.StatusOK, session, def.TitleKey, string(def.Name), pages.RecordsPage(data))
}

// HandlePartial — GET /admin/partials/{screen}-table.
// Возвращает только таблицу для замены на странице.
func (h *RecordsHandler) HandlePartial(w http.ResponseWriter, r *http.Request) {
	session := uimiddleware.SessionFromContext(r.Context())
	if session == nil {
		uimiddleware.RedirectToLogin(w, r)
		return
	}
	def, ok := h.screenFromRequest(w, r)
	if !ok {
		return
	}

	tableData, err := h.loadTable(r.Context(), session, def, r.URL.Query())
	if h.dropOnUnauthorized(w, r, session, err) {
		return
	}
	h.render(w, r, http.StatusOK, pages.Table(tableData))
}

// HandleCreate — POST /admin/{screen}.
// Ошибки проверки формы возвращают страницу с заполненной формой.
func (h *RecordsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	session := uimiddleware.SessionFromContext(r.Context())
	if session == nil {
		uimiddleware.RedirectToLogin(w, r)
		return
	}
	def, ok := h.screenFromRequest(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	if !rbac.CanMutate(session.Role) {
		h.renderCreateError(w, r, session, def, nil, nil, http.StatusForbidden, i18n.T(ctx, "errors.forbidden"))
		return
	}

	file, err := h.parseCreateRequest(w, r, def)
	if err != nil {
		h.logger.Info("Некорректный запрос создания",
			slog.String("screen", string(def.Name)),
			slog.String("error", err.Error()),
		)
		fieldErrors := map[string]string{}
		msg := i18n.T(ctx, "errors.bad_request")
		if errors.Is(err, errFileTooLarge) {
			msg = i18n.T(ctx, "errors.file_too_large")
			fieldErrors[def.FileField] = msg
		}
		h.renderCreateError(w, r, session, def, r.PostForm, fieldErrors, http.StatusUnprocessableEntity, msg)
		return
	}

	form, err := def.Bind(r.PostForm, i18n.LangFromContext(ctx))
	if err != nil {
		var verr *screen.ValidationError
		if errors.As(err, &verr) {
			fieldErrors := make(map[string]string, len(verr.Fields))
			for _, f := range verr.Fields {
				fieldErrors[f.Field] = f.Message
			}
			h.renderCreateError(w, r, session, def, r.PostForm, fieldErrors,
				http.StatusUnprocessableEntity, i18n.T(ctx, "errors.form_invalid"))
			return
		}
		h.renderCreateError(w, r, session, def, r.PostForm, nil, http.StatusInternalServerError, i18n.T(ctx, "errors.internal"))
		return
	}

	if _, err := h.records.Create(ctx, actorOf(session), def, form, file); err != nil {
		if h.dropOnUnauthorized(w, r, session, err) {
			return
		}
		h.logger.Warn("Создание записи не удалось",
			slog.String("screen", string(def.Name)),
			slog.String("error", err.Error()),
		)
		h.renderCreateError(w, r, session, def, r.PostForm, nil, errorStatus(err), errorMessage(ctx, err))
		return
	}

	http.Redirect(w, r, "/admin/"+string(def.Name)+"?"+flashParam+"=created", http.StatusSeeOther)
}

var errFileTooLarge = errors.New("файл превышает допустимый размер")

// parseCreateRequest разбирает тело запроса создания. Для экранов
// с файлом — multipart/form-data; файл необязателен.
func (h *RecordsHandler) parseCreateRequest(
	w http.ResponseWriter,
	r *http.Request,
	def screen.Definition,
) (*eventapi.Upload, error) {
	if !def.Multipart() {
		return nil, r.ParseForm()
	}

	r.Body = http.MaxBytesReader(w, r.Body, def.MaxFileSize+multipartOverhead)
	if err := r.ParseMultipartForm(def.MaxFileSize + multipartOverhead); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, errFileTooLarge
		}
		return nil, fmt.Errorf("разбор multipart: %w", err)
	}

	f, header, err := r.FormFile(def.FileField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("чтение файла: %w", err)
	}
	defer f.Close()

	// Пустое поле файла браузер отправляет частью без имени и содержимого.
	if header.Filename == "" && header.Size == 0 {
		return nil, nil
	}
	if header.Size > def.MaxFileSize {
		return nil, errFileTooLarge
	}
	data, err := io.ReadAll(io.LimitReader(f, def.MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("чтение файла: %w", err)
	}
	if int64(len(data)) > def.MaxFileSize {
		return nil, errFileTooLarge
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return &eventapi.Upload{
		Field:       def.FileField,
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}

// renderCreateError возвращает страницу экрана с сообщением об ошибке.
// Форма раскрыта, если переданы введённые значения или ошибки полей.
func (h *RecordsHandler) renderCreateError(
	w http.ResponseWriter,
	r *http.Request,
	session *auth.Session,
	def screen.Definition,
	values url.Values,
	fieldErrors map[string]string,
	status int,
	message string,
) {
	tableData, err := h.loadTable(r.Context(), session, def, r.URL.Query())
	if h.dropOnUnauthorized(w, r, session, err) {
		return
	}
	data := pages.RecordsData{Table: tableData, Flash: message, FlashVariant: pages.AlertError}
	if rbac.CanMutate(session.Role) {
		data.Form = &pages.FormData{
			Def:    def,
			Values: values,
			Errors: fieldErrors,
			Open:   values != nil || fieldErrors != nil,
		}
	}
	h.renderPage(w, r, status, session, def.TitleKey, string(def.Name), pages.RecordsPage(data))
}

// HandleDelete — POST /admin/{screen}/{id}/delete.
// После удаления возвращает на ту же страницу таблицы (поле return).
func (h *RecordsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	session := uimiddleware.SessionFromContext(r.Context())
	if session == nil {
		uimiddleware.RedirectToLogin(w, r)
		return
	}
	def, ok := h.screenFromRequest(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	back, _ := url.ParseQuery(r.PostFormValue("return"))
	state := table.ParseViewState(back, table.DefaultPageSize).Query()
	if !back.Has(table.ParamPageSize) {
		state.Del(table.ParamPageSize)
	}

	if err := h.records.Delete(ctx, actorOf(session), def, id); err != nil {
		if h.dropOnUnauthorized(w, r, session, err) {
			return
		}
		h.logger.Warn("Удаление записи не удалось",
			slog.String("screen", string(def.Name)),
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		r.URL.RawQuery = state.Encode()
		h.renderCreateError(w, r, session, def, nil, nil, errorStatus(err), errorMessage(ctx, err))
		return
	}

	state.Set(flashParam, "deleted")
	http.Redirect(w, r, "/admin/"+string(def.Name)+"?"+state.Encode(), http.StatusSeeOther)
}
