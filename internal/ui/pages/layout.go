// layout.go — общий каркас страниц: навигация, пользователь, язык, выход.
package pages

import (
	"github.com/a-h/templ"

	"github.com/Prathamesh2801/testingED-sub000/internal/domain/rbac"
	"github.com/Prathamesh2801/testingED-sub000/internal/domain/screen"
	"github.com/Prathamesh2801/testingED-sub000/internal/ui/i18n"
)

// Пункты навигации, не являющиеся экранами таблиц.
const (
	NavDashboard = "dashboard"
	NavSettings  = "settings"
)

// LayoutData — данные каркаса страницы.
type LayoutData struct {
	// TitleKey — ключ перевода заголовка страницы.
	TitleKey string
	// Active — активный пункт навигации (имя экрана, NavDashboard, NavSettings).
	Active string
	// Username — имя пользователя сессии.
	Username string
	// Role — роль пользователя.
	Role string
	// EventName — название выбранного мероприятия ("" — не выбрано).
	EventName string
	// EventID — ID выбранного мероприятия.
	EventID string
}

// Layout рендерит страницу с каркасом вокруг body.
func Layout(data LayoutData, body templ.Component) templ.Component {
	return component(func(hw *htmlWriter) {
		ctx := hw.ctx
		lang := i18n.LangFromContext(ctx)
		title := i18n.T(ctx, data.TitleKey)

		hw.raw("<!DOCTYPE html>")
		hw.open("html", "lang", lang)
		hw.raw("<head>", `<meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		hw.elem("title", title+" · "+i18n.T(ctx, "app.name"))
		hw.raw(`<link rel="stylesheet" href="/static/css/output.css">`)
		hw.raw(`<script src="/static/js/console.js" defer></script>`)
		hw.raw("</head>")

		hw.open("body", "class", "console", "data-status-url", "/admin/events/system-status")
		hw.open("header", "class", "console-header")
		hw.elem("a", i18n.T(ctx, "app.name"), "href", "/admin/", "class", "brand")

		hw.open("nav", "class", "console-nav")
		navLink(hw, "/admin/", i18n.T(ctx, "nav.dashboard"), data.Active == NavDashboard)
		for _, def := range screen.All() {
			navLink(hw, "/admin/"+string(def.Name), i18n.T(ctx, def.TitleKey), data.Active == string(def.Name))
		}
		if rbac.CanManageSettings(data.Role) {
			navLink(hw, "/admin/settings", i18n.T(ctx, "nav.settings"), data.Active == NavSettings)
		}
		hw.close("nav")

		hw.open("div", "class", "console-user")
		if data.EventName != "" {
			hw.elem("span", data.EventName, "class", "event-name", "title", data.EventID)
		}
		hw.elem("span", data.Username, "class", "username")
		hw.elem("span", i18n.T(ctx, "role."+rbac.Normalize(data.Role)), "class", "badge badge-gray")
		hw.elem("span", "", "class", "status-dot", "id", "system-status", "title", i18n.T(ctx, "status.title"))
		languageSwitch(hw, lang)
		hw.open("form", "method", "post", "action", "/admin/logout", "class", "inline")
		hw.elem("button", i18n.T(ctx, "auth.logout"), "type", "submit", "class", "btn btn-link")
		hw.close("form")
		hw.close("div")
		hw.close("header")

		hw.open("main", "class", "console-main")
		hw.elem("h1", title)
		hw.render(body)
		hw.close("main")

		hw.open("div", "id", "modal", "class", "modal", "hidden", "hidden",
			"data-close-label", i18n.T(ctx, "common.close"))
		hw.close("div")
		hw.close("body")
		hw.close("html")
	})
}

func navLink(hw *htmlWriter, href, label string, active bool) {
	cls := "nav-link"
	if active {
		cls = classes(cls, "active")
	}
	hw.elem("a", label, "href", href, "class", cls)
}

// languageSwitch — форма переключения языка.
func languageSwitch(hw *htmlWriter, current string) {
	hw.open("form", "method", "post", "action", "/admin/set-language", "class", "inline lang-switch")
	for _, lang := range i18n.Languages {
		attrs := []string{"type", "submit", "name", "lang", "value", lang, "class", "btn btn-link"}
		if lang == current {
			attrs = append(attrs, "aria-current", "true")
		}
		hw.elem("button", lang, attrs...)
	}
	hw.close("form")
}
