// form.go — форма создания записи экрана.
package pages

import (
	"net/url"

	"github.com/a-h/templ"

	"github.com/Prathamesh2801/testingED-sub000/internal/domain/screen"
	"github.com/Prathamesh2801/testingED-sub000/internal/ui/i18n"
)

// FormData — данные формы создания.
type FormData struct {
	// Def — экран.
	Def screen.Definition
	// Values — введённые значения (сохраняются после ошибки проверки).
	Values url.Values
	// Errors — сообщения проверки по имени поля.
	Errors map[string]string
	// Open — форма раскрыта (после ошибки).
	Open bool
}

// CreateForm рендерит форму создания записи.
func CreateForm(data FormData) templ.Component {
	return component(func(hw *htmlWriter) {
		ctx := hw.ctx
		def := data.Def

		detailsAttrs := []string{"class", "card create-form"}
		if data.Open {
			detailsAttrs = append(detailsAttrs, "open", "open")
		}
		hw.open("details", detailsAttrs...)
		hw.elem("summary", i18n.T(ctx, "form.create"))

		formAttrs := []string{"method", "post", "action", "/admin/" + string(def.Name), "class", "form"}
		if def.Multipart() {
			formAttrs = append(formAttrs, "enctype", "multipart/form-data")
		}
		hw.open("form", formAttrs...)

		for _, f := range def.Fields {
			id := string(def.Name) + "-" + f.Name
			hw.open("div", "class", classes("field", errorClass(data.Errors[f.Name])))
			label := i18n.T(ctx, f.LabelKey)
			if f.Required {
				label += " *"
			}
			hw.elem("label", label, "for", id)
			formField(hw, f, id, data.Values.Get(f.Name))
			if msg := data.Errors[f.Name]; msg != "" {
				hw.elem("p", msg, "class", "field-error")
			}
			if f.Name == "options" {
				hw.elem("p", i18n.T(ctx, "form.options_hint"), "class", "field-hint")
			}
			hw.close("div")
		}

		hw.elem("button", i18n.T(ctx, "form.submit"), "type", "submit", "class", "btn btn-primary")
		hw.close("form")
		hw.close("details")
	})
}

func errorClass(msg string) string {
	if msg == "" {
		return ""
	}
	return "has-error"
}

// formField рендерит элемент ввода по типу поля.
func formField(hw *htmlWriter, f screen.FormField, id, value string) {
	ctx := hw.ctx
	base := []string{"id", id, "name", f.Name}
	if f.Required && f.Kind != screen.FieldFile {
		base = append(base, "required", "required")
	}

	switch f.Kind {
	case screen.FieldTextarea:
		hw.open("textarea", append(base, "rows", "3")...)
		hw.text(value)
		hw.close("textarea")
	case screen.FieldSelect:
		hw.open("select", base...)
		hw.elem("option", i18n.T(ctx, "form.choose"), "value", "")
		for _, opt := range f.Options {
			attrs := []string{"value", opt}
			if opt == value {
				attrs = append(attrs, "selected", "selected")
			}
			hw.elem("option", opt, attrs...)
		}
		hw.close("select")
	case screen.FieldFile:
		hw.open("input", append(base, "type", "file", "accept", f.Accept)...)
	default:
		hw.open("input", append(base, "type", string(f.Kind), "value", value)...)
	}
}
