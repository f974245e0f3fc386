// tables.go — GET /api/v1/tables/{screen}: производное представление
// таблицы экрана в JSON. Параметры q, sort, order, page, size те же,
// что у страниц консоли.
package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/Prathamesh2801/testingED-sub000/internal/api/errors"
	"github.com/Prathamesh2801/testingED-sub000/internal/domain/screen"
	"github.com/Prathamesh2801/testingED-sub000/internal/service"
	"github.com/Prathamesh2801/testingED-sub000/internal/table"
	"github.com/Prathamesh2801/testingED-sub000/internal/ui/i18n"
	uimiddleware "github.com/Prathamesh2801/testingED-sub000/internal/ui/middleware"
)

// TablesHandler — JSON API таблиц экранов.
type TablesHandler struct {
	records  *service.RecordsService
	defaults *service.TableDefaultsService
	logger   *slog.Logger
}

// NewTablesHandler создаёт TablesHandler.
func NewTablesHandler(
	records *service.RecordsService,
	defaults *service.TableDefaultsService,
	logger *slog.Logger,
) *TablesHandler {
	return &TablesHandler{
		records:  records,
		defaults: defaults,
		logger:   logger.With(slog.String("component", "api.tables")),
	}
}

type columnJSON struct {
	Field string `json:"field"`
	Label string `json:"label"`
}

type tableResponse struct {
	Screen      string         `json:"screen"`
	Columns     []columnJSON   `json:"columns"`
	Records     []table.Record `json:"records"`
	Search      string         `json:"search"`
	Sort        string         `json:"sort,omitempty"`
	Order       string         `json:"order,omitempty"`
	Page        int            `json:"page"`
	PageSize    int            `json:"page_size"`
	Total       int            `json:"total"`
	SourceTotal int            `json:"source_total"`
	TotalPages  int            `json:"total_pages"`
	Pages       []int          `json:"pages"`
	Empty       bool           `json:"empty"`
}

// GetTable — GET /api/v1/tables/{screen}.
func (h *TablesHandler) GetTable(w http.ResponseWriter, r *http.Request) {
	session := uimiddleware.SessionFromContext(r.Context())
	if session == nil {
		apierrors.Unauthorized(w, "требуется вход в консоль")
		return
	}
	def, ok := screen.Lookup(chi.URLParam(r, "screen"))
	if !ok {
		apierrors.NotFound(w, "неизвестный экран")
		return
	}
	ctx := r.Context()

	actor := service.Actor{Token: session.Token, Role: session.Role, EventID: session.EventID}
	records, err := h.records.List(ctx, actor, def)
	if err != nil {
		h.writeListError(w, def, err)
		return
	}

	state := h.defaults.Defaults(ctx, def.Name).ViewState(r.URL.Query())
	ds := table.NewDataset(def.Table)
	ds.Load(records)
	view := ds.Derive(state, i18n.TagFromContext(ctx))

	resp := tableResponse{
		Screen:      string(def.Name),
		Columns:     make([]columnJSON, 0, len(view.Columns)),
		Records:     view.Records,
		Search:      view.State.Search,
		Sort:        view.State.SortColumn,
		Page:        view.State.Page,
		PageSize:    view.State.PageSize,
		Total:       view.Total,
		SourceTotal: view.SourceTotal,
		TotalPages:  view.TotalPages,
		Pages:       view.Window,
		Empty:       view.Empty,
	}
	if resp.Sort != "" {
		resp.Order = string(view.State.SortDir)
	}
	if resp.Records == nil {
		resp.Records = []table.Record{}
	}
	for _, c := range view.Columns {
		resp.Columns = append(resp.Columns, columnJSON{Field: c.Field, Label: c.Label})
	}

	writeJSON(w, http.StatusOK, resp)
}

// writeListError сводит ошибку загрузки к ответу JSON API.
func (h *TablesHandler) writeListError(w http.ResponseWriter, def screen.Definition, err error) {
	level := slog.LevelDebug
	switch status := apierrors.FromError(w, err); {
	case status == http.StatusBadGateway:
		level = slog.LevelWarn
	case status >= http.StatusInternalServerError:
		level = slog.LevelError
	}
	h.logger.Log(context.Background(), level, "Загрузка записей не удалась",
		slog.String("screen", string(def.Name)),
		slog.String("error", err.Error()),
	)
}
