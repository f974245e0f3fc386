// records.go — страница экрана с таблицей записей и partial таблицы.
// Все ссылки таблицы (поиск, сортировка, страницы) — обычные GET-ссылки
// на страницу экрана; console.js подменяет их загрузкой partial.
package pages

import (
	"net/url"
	"slices"
	"strconv"

	"github.com/a-h/templ"

	"github.com/Prathamesh2801/testingED-sub000/internal/domain/screen"
	"github.com/Prathamesh2801/testingED-sub000/internal/table"
	"github.com/Prathamesh2801/testingED-sub000/internal/ui/i18n"
)

// TableData — данные таблицы экрана.
type TableData struct {
	// Screen — экран.
	Screen screen.Name
	// View — производное представление (колонки, строки, пагинация).
	View table.View
	// Error — сообщение об ошибке загрузки (таблица не показывается).
	Error string
	// CanMutate — показывать действия удаления.
	CanMutate bool
}

// RecordsData — данные страницы экрана.
type RecordsData struct {
	Table TableData
	// Form — форма создания (nil — роль без права изменения).
	Form *FormData
	// Flash — сообщение после создания/удаления.
	Flash string
	// FlashVariant — вариант alert для Flash.
	FlashVariant string
}

// PagePath возвращает путь страницы экрана с состоянием представления.
func PagePath(name screen.Name, state table.ViewState) string {
	return withQuery("/admin/"+string(name), state.Encode())
}

// PartialPath возвращает путь partial таблицы экрана.
func PartialPath(name screen.Name) string {
	return "/admin/partials/" + string(name) + "-table"
}

func withQuery(path, query string) string {
	if query == "" {
		return path
	}
	return path + "?" + query
}

// RecordsPage рендерит содержимое страницы экрана.
func RecordsPage(data RecordsData) templ.Component {
	return component(func(hw *htmlWriter) {
		if data.Flash != "" {
			variant := data.FlashVariant
			if variant == "" {
				variant = AlertSuccess
			}
			hw.render(Alert(variant, data.Flash))
		}
		if data.Form != nil {
			hw.render(CreateForm(*data.Form))
		}
		hw.render(Table(data.Table))
	})
}

// Table рендерит таблицу экрана: поиск, размер страницы, таблица, пагинация.
// Корневой элемент заменяется целиком при обновлении через partial.
func Table(data TableData) templ.Component {
	return component(func(hw *htmlWriter) {
		ctx := hw.ctx
		v := data.View
		hw.open("section", "id", "table-"+string(data.Screen), "class", "table-container",
			"data-partial", PartialPath(data.Screen))

		if data.Error != "" {
			hw.render(Alert(AlertError, data.Error))
			hw.elem("a", i18n.T(ctx, "table.retry"), "href", PagePath(data.Screen, v.State), "class", "btn")
			hw.close("section")
			return
		}

		tableToolbar(hw, data)

		switch {
		case v.Empty:
			hw.elem("p", i18n.T(ctx, "table.empty"), "class", "empty-state")
		case v.Total == 0:
			hw.elem("p", i18n.Tf(ctx, "table.no_matches", v.State.Search), "class", "empty-state")
		default:
			tableBody(hw, data)
			tablePagination(hw, data)
		}
		hw.close("section")
	})
}

// tableToolbar — поиск и выбор размера страницы (GET-формы).
func tableToolbar(hw *htmlWriter, data TableData) {
	ctx := hw.ctx
	s := data.View.State
	path := "/admin/" + string(data.Screen)

	hw.open("div", "class", "table-toolbar")
	hw.open("form", "method", "get", "action", path, "class", "table-search", "role", "search")
	hw.open("input", "type", "search", "name", table.ParamSearch, "value", s.Search,
		"placeholder", i18n.T(ctx, "table.search"), "aria-label", i18n.T(ctx, "table.search"),
		"data-table-search", "true")
	hiddenState(hw, s, table.ParamSearch, table.ParamPage)
	hw.close("form")

	hw.open("form", "method", "get", "action", path, "class", "table-size")
	hw.elem("label", i18n.T(ctx, "table.page_size"), "for", "size-"+string(data.Screen))
	hw.open("select", "id", "size-"+string(data.Screen), "name", table.ParamPageSize, "data-table-size", "true")
	for _, n := range table.PageSizes {
		attrs := []string{"value", strconv.Itoa(n)}
		if n == s.PageSize {
			attrs = append(attrs, "selected", "selected")
		}
		hw.elem("option", strconv.Itoa(n), attrs...)
	}
	hw.close("select")
	hiddenState(hw, s, table.ParamPageSize, table.ParamPage)
	hw.raw("<noscript>")
	hw.elem("button", i18n.T(ctx, "table.apply"), "type", "submit", "class", "btn btn-small")
	hw.raw("</noscript>")
	hw.close("form")
	hw.close("div")
}

// hiddenState пишет скрытые поля состояния, кроме перечисленных.
func hiddenState(hw *htmlWriter, s table.ViewState, skip ...string) {
	q := s.Query()
	for _, name := range []string{table.ParamSearch, table.ParamSort, table.ParamOrder, table.ParamPage, table.ParamPageSize} {
		if slices.Contains(skip, name) || !q.Has(name) {
			continue
		}
		hw.open("input", "type", "hidden", "name", name, "value", q.Get(name))
	}
}

// tableBody — заголовки с сортировкой и строки.
func tableBody(hw *htmlWriter, data TableData) {
	ctx := hw.ctx
	v := data.View

	hw.open("div", "class", "table-scroll")
	hw.open("table", "class", "table")
	hw.raw("<thead><tr>")
	for _, col := range v.Columns {
		next := v.State.WithSort(col.Field)
		attrs := []string{"scope", "col"}
		indicator := ""
		if v.State.SortColumn == col.Field {
			if v.State.SortDir == table.Desc {
				attrs = append(attrs, "aria-sort", "descending")
				indicator = " ▼"
			} else {
				attrs = append(attrs, "aria-sort", "ascending")
				indicator = " ▲"
			}
		}
		hw.open("th", attrs...)
		hw.elem("a", col.Label+indicator, "href", PagePath(data.Screen, next), "data-table-link", "true")
		hw.close("th")
	}
	if data.CanMutate {
		hw.elem("th", i18n.T(ctx, "table.actions"), "scope", "col")
	}
	hw.raw("</tr></thead>")

	hw.open("tbody")
	for _, row := range v.Rows {
		hw.open("tr")
		for _, cell := range row.Cells {
			hw.open("td")
			renderCell(hw, cell)
			hw.close("td")
		}
		if data.CanMutate {
			hw.open("td", "class", "row-actions")
			if row.ID != "" {
				deleteButton(hw, data, row.ID)
			}
			hw.close("td")
		}
		hw.close("tr")
	}
	hw.close("tbody")
	hw.close("table")
	hw.close("div")
}

// renderCell рендерит ячейку по её виду.
func renderCell(hw *htmlWriter, cell table.Cell) {
	ctx := hw.ctx
	switch cell.Kind {
	case table.CellBadge:
		hw.elem("span", i18n.T(ctx, cell.Text), "class", classes("badge", "badge-"+cell.Color))
	case table.CellAction:
		if cell.Target == "" {
			hw.text(table.Placeholder)
			return
		}
		hw.elem("button", i18n.T(ctx, cell.Text),
			"type", "button",
			"class", "btn btn-small",
			"data-qr", "/admin/credentials/"+url.PathEscape(cell.Target)+"/qr",
		)
	default:
		hw.text(cell.Text)
	}
}

// deleteButton — форма удаления записи. Поле return — состояние таблицы
// для возврата на ту же страницу.
func deleteButton(hw *htmlWriter, data TableData, id string) {
	ctx := hw.ctx
	hw.open("form", "method", "post",
		"action", "/admin/"+string(data.Screen)+"/"+url.PathEscape(id)+"/delete",
		"class", "inline",
		"data-confirm", i18n.T(ctx, "table.confirm_delete"),
	)
	hw.open("input", "type", "hidden", "name", "return", "value", data.View.State.Encode())
	hw.elem("button", i18n.T(ctx, "table.delete"), "type", "submit", "class", "btn btn-small btn-danger")
	hw.close("form")
}

// tablePagination — сводка и ссылки на страницы.
func tablePagination(hw *htmlWriter, data TableData) {
	ctx := hw.ctx
	v := data.View
	s := v.State

	from := (s.Page-1)*s.PageSize + 1
	to := from + len(v.Rows) - 1

	hw.open("div", "class", "table-footer")
	hw.elem("span", i18n.Tf(ctx, "table.showing", from, to, v.Total), "class", "muted")

	hw.open("nav", "class", "pagination", "aria-label", i18n.T(ctx, "table.pagination"))
	pageLink(hw, data.Screen, s, s.Page-1, i18n.T(ctx, "table.prev"), s.Page <= 1, false)
	for _, p := range v.Window {
		pageLink(hw, data.Screen, s, p, strconv.Itoa(p), false, p == s.Page)
	}
	pageLink(hw, data.Screen, s, s.Page+1, i18n.T(ctx, "table.next"), s.Page >= v.TotalPages, false)
	hw.close("nav")
	hw.close("div")
}

func pageLink(hw *htmlWriter, name screen.Name, s table.ViewState, page int, label string, disabled, current bool) {
	if disabled {
		hw.elem("span", label, "class", "page-link disabled", "aria-disabled", "true")
		return
	}
	if current {
		hw.elem("span", label, "class", "page-link active", "aria-current", "page")
		return
	}
	hw.elem("a", label, "href", PagePath(name, s.WithPage(page)), "class", "page-link", "data-table-link", "true")
}
