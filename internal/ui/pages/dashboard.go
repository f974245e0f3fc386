// dashboard.go — главная страница: выбор мероприятия и счётчики экранов.
package pages

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/Prathamesh2801/testingED-sub000/internal/domain/screen"
	"github.com/Prathamesh2801/testingED-sub000/internal/ui/i18n"
)

// EventOption — мероприятие в селекторе.
type EventOption struct {
	ID   string
	Name string
}

// CountItem — карточка экрана на дашборде.
type CountItem struct {
	Screen   screen.Name
	TitleKey string
	// Count — количество записей (-1 — загрузка не удалась).
	Count int
}

// DashboardData — данные дашборда.
type DashboardData struct {
	// Events — мероприятия для селектора (только при CanSelect).
	Events []EventOption
	// SelectedID — выбранное мероприятие.
	SelectedID string
	// CanSelect — роль может переключать мероприятия.
	CanSelect bool
	// EventsError — ошибка загрузки списка мероприятий.
	EventsError string
	// Counts — счётчики экранов (пусто, если мероприятие не выбрано).
	Counts []CountItem
	// Flash — сообщение после действия.
	Flash string
	// FlashVariant — вариант alert для Flash (по умолчанию success).
	FlashVariant string
}

// Dashboard рендерит содержимое дашборда.
func Dashboard(data DashboardData) templ.Component {
	return component(func(hw *htmlWriter) {
		ctx := hw.ctx
		if data.Flash != "" {
			variant := data.FlashVariant
			if variant == "" {
				variant = AlertSuccess
			}
			hw.render(Alert(variant, data.Flash))
		}

		if data.CanSelect {
			hw.open("section", "class", "card")
			hw.elem("h2", i18n.T(ctx, "dashboard.select_event"))
			switch {
			case data.EventsError != "":
				hw.render(Alert(AlertError, data.EventsError))
			case len(data.Events) == 0:
				hw.elem("p", i18n.T(ctx, "dashboard.no_events"), "class", "muted")
			default:
				hw.open("form", "method", "post", "action", "/admin/event", "class", "form-inline")
				hw.open("select", "name", "event_id", "aria-label", i18n.T(ctx, "dashboard.select_event"))
				for _, ev := range data.Events {
					attrs := []string{"value", ev.ID}
					if ev.ID == data.SelectedID {
						attrs = append(attrs, "selected", "selected")
					}
					hw.elem("option", ev.Name, attrs...)
				}
				hw.close("select")
				hw.elem("button", i18n.T(ctx, "dashboard.switch"), "type", "submit", "class", "btn btn-primary")
				hw.close("form")
			}
			hw.close("section")
		}

		if data.SelectedID == "" {
			hw.render(Alert(AlertInfo, i18n.T(ctx, "dashboard.no_event_selected")))
			return
		}

		hw.open("section", "class", "grid cards")
		for _, c := range data.Counts {
			hw.open("a", "href", "/admin/"+string(c.Screen), "class", "card card-link")
			hw.elem("h3", i18n.T(ctx, c.TitleKey))
			if c.Count < 0 {
				hw.elem("p", i18n.T(ctx, "dashboard.count_unavailable"), "class", "count muted")
			} else {
				hw.elem("p", strconv.Itoa(c.Count), "class", "count")
			}
			hw.close("a")
		}
		hw.close("section")
	})
}
