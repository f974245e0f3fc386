// login.go — страница входа (email + пароль Events API).
package pages

import (
	"github.com/a-h/templ"

	"github.com/Prathamesh2801/testingED-sub000/internal/ui/i18n"
)

// LoginData — данные страницы входа.
type LoginData struct {
	// Email — введённый email (сохраняется после ошибки).
	Email string
	// Error — сообщение об ошибке входа.
	Error string
}

// LoginPage рендерит страницу входа.
func LoginPage(data LoginData) templ.Component {
	return component(func(hw *htmlWriter) {
		ctx := hw.ctx
		hw.raw("<!DOCTYPE html>")
		hw.open("html", "lang", i18n.LangFromContext(ctx))
		hw.raw("<head>", `<meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		hw.elem("title", i18n.T(ctx, "auth.title")+" · "+i18n.T(ctx, "app.name"))
		hw.raw(`<link rel="stylesheet" href="/static/css/output.css">`, "</head>")

		hw.open("body", "class", "console console-login")
		hw.open("main", "class", "login-card")
		hw.elem("h1", i18n.T(ctx, "app.name"))
		hw.elem("p", i18n.T(ctx, "auth.subtitle"), "class", "muted")

		if data.Error != "" {
			hw.render(Alert(AlertError, data.Error))
		}

		hw.open("form", "method", "post", "action", "/admin/login", "class", "form")
		hw.elem("label", i18n.T(ctx, "auth.email"), "for", "email")
		hw.open("input", "type", "email", "id", "email", "name", "email", "value", data.Email,
			"required", "required", "autocomplete", "username")
		hw.elem("label", i18n.T(ctx, "auth.password"), "for", "password")
		hw.open("input", "type", "password", "id", "password", "name", "password",
			"required", "required", "autocomplete", "current-password")
		hw.elem("button", i18n.T(ctx, "auth.submit"), "type", "submit", "class", "btn btn-primary")
		hw.close("form")

		languageSwitch(hw, i18n.LangFromContext(ctx))
		hw.close("main")
		hw.close("body")
		hw.close("html")
	})
}
