// validate.go — проверка форм создания записей.
// Синглтон validator с переводами сообщений на en и ru;
// имена полей в сообщениях берутся из тега form.
package screen

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/ru"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	ru_translations "github.com/go-playground/validator/v10/translations/ru"
)

// FieldError — ошибка одного поля формы с переведённым сообщением.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError — набор ошибок полей формы.
type ValidationError struct {
	Fields []FieldError
}

// Error реализует интерфейс error (первое сообщение).
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "форма заполнена некорректно"
	}
	return e.Fields[0].Message
}

// Message возвращает сообщение для поля или "".
func (e *ValidationError) Message(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

type validatorSvc struct {
	validate *validator.Validate
	uni      *ut.UniversalTranslator
}

var (
	vOnce sync.Once
	vSvc  *validatorSvc
)

// getValidator возвращает синглтон validator, инициализируя его при первом вызове.
func getValidator() *validatorSvc {
	vOnce.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc, ru.New())

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("form")
			if tag == "" || tag == "-" {
				return fld.Name
			}
			return tag
		})

		_ = v.RegisterValidation("poll_options", validatePollOptions)
		v.RegisterStructValidation(validateScheduleTimes, ScheduleForm{})

		enTrans, _ := uni.GetTranslator("en")
		_ = en_translations.RegisterDefaultTranslations(v, enTrans)
		registerMessage(v, enTrans, "poll_options", "{0} must list at least two comma-separated options")
		registerMessage(v, enTrans, "ends_after_start", "{0} must be after start_time")

		ruTrans, _ := uni.GetTranslator("ru")
		_ = ru_translations.RegisterDefaultTranslations(v, ruTrans)
		registerMessage(v, ruTrans, "poll_options", "{0} должно содержать минимум два варианта через запятую")
		registerMessage(v, ruTrans, "ends_after_start", "{0} должно быть позже start_time")

		vSvc = &validatorSvc{validate: v, uni: uni}
	})
	return vSvc
}

// Validate проверяет форму и возвращает *ValidationError с сообщениями
// на языке lang (en или ru; иначе en).
func Validate(form any, lang string) error {
	svc := getValidator()
	err := svc.validate.Struct(form)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	trans, found := svc.uni.GetTranslator(lang)
	if !found {
		trans, _ = svc.uni.GetTranslator("en")
	}

	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: fe.Translate(trans)})
	}
	return out
}

// validatePollOptions — не менее двух непустых вариантов через запятую.
func validatePollOptions(fl validator.FieldLevel) bool {
	return len(SplitOptions(fl.Field().String())) >= 2
}

// validateScheduleTimes — окончание пункта расписания позже начала.
func validateScheduleTimes(sl validator.StructLevel) {
	f, ok := sl.Current().Interface().(ScheduleForm)
	if !ok || f.EndsAfterStart() {
		return
	}
	sl.ReportError(f.EndTime, "end_time", "EndTime", "ends_after_start", "")
}

// registerMessage регистрирует перевод сообщения для собственного тега.
func registerMessage(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, text, true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T(tag, fe.Field())
			return msg
		},
	)
}

// SplitOptions разбивает строку вариантов по запятым, отбрасывая пустые.
func SplitOptions(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
