// settings.go — страница умолчаний таблиц экранов (admin).
package pages

import (
	"strconv"
	"time"

	"github.com/a-h/templ"

	"github.com/Prathamesh2801/testingED-sub000/internal/domain/screen"
	"github.com/Prathamesh2801/testingED-sub000/internal/table"
	"github.com/Prathamesh2801/testingED-sub000/internal/ui/i18n"
)

// SettingsRow — умолчания таблицы одного экрана.
type SettingsRow struct {
	Screen     screen.Name
	TitleKey   string
	PageSize   int
	SortColumn string
	SortDir    table.Direction
	// Stored — значения сохранены (иначе действует конфигурация).
	Stored    bool
	UpdatedAt time.Time
	UpdatedBy string
}

// SettingsData — данные страницы настроек.
type SettingsData struct {
	Rows []SettingsRow
	// Storage — "postgresql" или "memory".
	Storage string
	Error   string
	Flash   string
}

// SettingsPage рендерит содержимое страницы настроек.
func SettingsPage(data SettingsData) templ.Component {
	return component(func(hw *htmlWriter) {
		ctx := hw.ctx
		if data.Flash != "" {
			hw.render(Alert(AlertSuccess, data.Flash))
		}
		if data.Error != "" {
			hw.render(Alert(AlertError, data.Error))
		}
		hw.elem("p", i18n.Tf(ctx, "settings.storage", data.Storage), "class", "muted")

		for _, row := range data.Rows {
			settingsCard(hw, row)
		}
	})
}

func settingsCard(hw *htmlWriter, row SettingsRow) {
	ctx := hw.ctx
	name := string(row.Screen)

	hw.open("section", "class", "card settings-card", "id", "settings-"+name)
	hw.elem("h2", i18n.T(ctx, row.TitleKey))
	if row.Stored {
		hw.elem("p", i18n.Tf(ctx, "settings.updated",
			row.UpdatedAt.Format("2006-01-02 15:04"), row.UpdatedBy), "class", "muted")
	} else {
		hw.elem("p", i18n.T(ctx, "settings.from_config"), "class", "muted")
	}

	hw.open("form", "method", "post", "action", "/admin/settings", "class", "form-inline")
	hw.open("input", "type", "hidden", "name", "screen", "value", name)

	hw.elem("label", i18n.T(ctx, "table.page_size"), "for", "ps-"+name)
	hw.open("select", "id", "ps-"+name, "name", "page_size")
	for _, n := range table.PageSizes {
		attrs := []string{"value", strconv.Itoa(n)}
		if n == row.PageSize {
			attrs = append(attrs, "selected", "selected")
		}
		hw.elem("option", strconv.Itoa(n), attrs...)
	}
	hw.close("select")

	hw.elem("label", i18n.T(ctx, "settings.sort_column"), "for", "sc-"+name)
	hw.open("input", "type", "text", "id", "sc-"+name, "name", "sort_column",
		"value", row.SortColumn, "maxlength", "64",
		"placeholder", i18n.T(ctx, "settings.sort_none"))

	hw.elem("label", i18n.T(ctx, "settings.sort_order"), "for", "so-"+name)
	hw.open("select", "id", "so-"+name, "name", "sort_order")
	for _, dir := range []table.Direction{table.Asc, table.Desc} {
		attrs := []string{"value", string(dir)}
		if dir == row.SortDir {
			attrs = append(attrs, "selected", "selected")
		}
		hw.elem("option", i18n.T(ctx, "settings.order_"+string(dir)), attrs...)
	}
	hw.close("select")

	hw.elem("button", i18n.T(ctx, "settings.save"), "type", "submit", "name", "action", "value", "save",
		"class", "btn btn-primary")
	if row.Stored {
		hw.elem("button", i18n.T(ctx, "settings.reset"), "type", "submit", "name", "action", "value", "reset",
			"class", "btn")
	}
	hw.close("form")
	hw.close("section")
}
