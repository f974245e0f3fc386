package pages

import "github.com/a-h/templ"

// Варианты alert.
const (
	AlertError   = "error"
	AlertSuccess = "success"
	AlertInfo    = "info"
)

// Alert рендерит сообщение. Используется как самостоятельный partial
// и внутри страниц.
func Alert(variant, message string) templ.Component {
	return component(func(hw *htmlWriter) {
		role := "status"
		if variant == AlertError {
			role = "alert"
		}
		hw.elem("div", message, "class", classes("alert", "alert-"+variant), "role", role)
	})
}
