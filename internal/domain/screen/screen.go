// Пакет screen — экраны консоли (пользователи, расписания, уведомления,
// опросы). Каждый экран — экземпляр общей таблицы, параметризованный
// ресурсом Events API, denylist'ом, форматтерами ячеек и формой создания.
package screen

import (
	"net/url"

	"github.com/Prathamesh2801/testingED-sub000/internal/table"
)

// Name — идентификатор экрана (сегмент URL /admin/{screen}).
type Name string

// Экраны консоли.
const (
	Users         Name = "users"
	Schedules     Name = "schedules"
	Notifications Name = "notifications"
	Polls         Name = "polls"
)

// FieldKind — тип поля формы создания.
type FieldKind string

// Типы полей формы.
const (
	FieldText     FieldKind = "text"
	FieldEmail    FieldKind = "email"
	FieldTel      FieldKind = "tel"
	FieldDateTime FieldKind = "datetime-local"
	FieldTextarea FieldKind = "textarea"
	FieldSelect   FieldKind = "select"
	FieldFile     FieldKind = "file"
)

// FormField — описание поля формы для рендеринга.
type FormField struct {
	// Name — имя поля (совпадает с тегом form).
	Name string
	// LabelKey — ключ перевода подписи.
	LabelKey string
	// Kind — тип поля ввода.
	Kind FieldKind
	// Required — обязательное поле.
	Required bool
	// Options — значения для select.
	Options []string
	// Accept — допустимые MIME-типы для file.
	Accept string
}

// Definition — описание экрана.
type Definition struct {
	// Name — идентификатор экрана.
	Name Name
	// Resource — ресурс Events API (/users, /schedules, ...).
	Resource string
	// TitleKey — ключ перевода заголовка.
	TitleKey string
	// Table — параметры таблицы (denylist, форматтеры).
	Table table.Config
	// Fields — поля формы создания.
	Fields []FormField
	// FileField — имя поля с файлом ("" — форма без файла).
	FileField string
	// MaxFileSize — ограничение размера файла в байтах.
	MaxFileSize int64

	bind func(url.Values) Form
}

// Multipart сообщает, что форма отправляется как multipart/form-data.
func (d Definition) Multipart() bool {
	return d.FileField != ""
}

// Bind строит форму из значений запроса и проверяет её.
// Ошибки проверки — *ValidationError с сообщениями на языке lang.
func (d Definition) Bind(values url.Values, lang string) (Form, error) {
	form := d.bind(values)
	return form, Validate(form, lang)
}

// baseDenylist — служебные поля, скрытые на всех экранах.
var baseDenylist = append(append([]string{}, table.DefaultDenylist...), "event_id", "eventId")

// Цвета бейджей категорий.
var (
	attendeeColors = map[string]string{
		"VIP":      table.ColorPurple,
		"Speaker":  table.ColorBlue,
		"Guest":    table.ColorGray,
		"Delegate": table.ColorTeal,
		"Staff":    table.ColorAmber,
		"Sponsor":  table.ColorGreen,
	}
	sessionColors = map[string]string{
		"session":    table.ColorBlue,
		"keynote":    table.ColorPurple,
		"workshop":   table.ColorTeal,
		"break":      table.ColorGray,
		"networking": table.ColorAmber,
	}
	notificationColors = map[string]string{
		"info":     table.ColorBlue,
		"alert":    table.ColorRed,
		"reminder": table.ColorAmber,
		"update":   table.ColorGreen,
	}
)

// commonFormatters — форматтеры, общие для всех экранов.
func commonFormatters() table.FormatterMap {
	qr := table.ActionTrigger("table.show_qr")
	return table.FormatterMap{
		"scanned": table.FormatYesNo,
		"qr_path": qr,
		"qr_code": qr,
	}
}

// withType добавляет форматтер бейджа категории для поля type.
func withType(m table.FormatterMap, colors map[string]string) table.FormatterMap {
	m["type"] = table.CategoryBadge(colors, table.ColorGray)
	return m
}

// definitions — экраны в порядке отображения в навигации.
var definitions = []Definition{
	{
		Name:     Users,
		Resource: "users",
		TitleKey: "screen.users",
		Table: table.Config{
			Denylist:   append(append([]string{}, baseDenylist...), "password", "token", "photo"),
			Formatters: withType(commonFormatters(), attendeeColors),
		},
		Fields: []FormField{
			{Name: "name", LabelKey: "form.name", Kind: FieldText, Required: true},
			{Name: "email", LabelKey: "form.email", Kind: FieldEmail, Required: true},
			{Name: "phone", LabelKey: "form.phone", Kind: FieldTel},
			{Name: "type", LabelKey: "form.type", Kind: FieldSelect, Required: true,
				Options: []string{"VIP", "Speaker", "Guest", "Delegate", "Staff", "Sponsor"}},
			{Name: "photo", LabelKey: "form.photo", Kind: FieldFile, Accept: "image/png,image/jpeg"},
		},
		FileField:   "photo",
		MaxFileSize: 5 << 20,
		bind:        bindUser,
	},
	{
		Name:     Schedules,
		Resource: "schedules",
		TitleKey: "screen.schedules",
		Table: table.Config{
			Denylist:   baseDenylist,
			Formatters: withType(commonFormatters(), sessionColors),
		},
		Fields: []FormField{
			{Name: "title", LabelKey: "form.title", Kind: FieldText, Required: true},
			{Name: "description", LabelKey: "form.description", Kind: FieldTextarea},
			{Name: "location", LabelKey: "form.location", Kind: FieldText},
			{Name: "type", LabelKey: "form.type", Kind: FieldSelect, Required: true,
				Options: []string{"session", "keynote", "workshop", "break", "networking"}},
			{Name: "start_time", LabelKey: "form.start_time", Kind: FieldDateTime, Required: true},
			{Name: "end_time", LabelKey: "form.end_time", Kind: FieldDateTime, Required: true},
		},
		bind: bindSchedule,
	},
	{
		Name:     Notifications,
		Resource: "notifications",
		TitleKey: "screen.notifications",
		Table: table.Config{
			Denylist:   baseDenylist,
			Formatters: withType(commonFormatters(), notificationColors),
		},
		Fields: []FormField{
			{Name: "title", LabelKey: "form.title", Kind: FieldText, Required: true},
			{Name: "message", LabelKey: "form.message", Kind: FieldTextarea, Required: true},
			{Name: "type", LabelKey: "form.type", Kind: FieldSelect, Required: true,
				Options: []string{"info", "alert", "reminder", "update"}},
		},
		bind: bindNotification,
	},
	{
		Name:     Polls,
		Resource: "polls",
		TitleKey: "screen.polls",
		Table: table.Config{
			Denylist: baseDenylist,
			Formatters: func() table.FormatterMap {
				m := commonFormatters()
				m["active"] = table.FormatYesNo
				m["is_active"] = table.FormatYesNo
				return m
			}(),
		},
		Fields: []FormField{
			{Name: "question", LabelKey: "form.question", Kind: FieldText, Required: true},
			{Name: "options", LabelKey: "form.options", Kind: FieldText, Required: true},
		},
		bind: bindPoll,
	},
}

// All возвращает все экраны в порядке навигации.
func All() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}

// Lookup возвращает экран по имени.
func Lookup(name string) (Definition, bool) {
	for _, d := range definitions {
		if string(d.Name) == name {
			return d, true
		}
	}
	return Definition{}, false
}
