package table

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultDenylist — служебные поля, которые не показываются как колонки:
// внутренние идентификаторы, версия документа, метки создания/обновления.
var DefaultDenylist = []string{
	"id", "_id", "__v",
	"created_at", "createdAt",
	"updated_at", "updatedAt",
}

// Column — отображаемая колонка таблицы.
type Column struct {
	// Field — имя поля записи.
	Field string
	// Label — заголовок колонки (см. HeaderLabel).
	Label string
	// format — форматтер ячеек, выбранный один раз при построении колонок.
	format Formatter
}

// Format форматирует ячейку этой колонки для записи.
func (c Column) Format(rec Record) Cell {
	if c.format == nil {
		return FormatText(rec, c.Field)
	}
	return c.format(rec, c.Field)
}

// InferColumns выводит колонки из формы первой записи:
// поля первой записи в исходном порядке, кроме полей из denylist.
// Для пустого среза возвращает nil.
func InferColumns(records []Record, denylist []string, formatters FormatterMap) []Column {
	if len(records) == 0 {
		return nil
	}

	deny := make(map[string]struct{}, len(denylist))
	for _, f := range denylist {
		deny[f] = struct{}{}
	}

	keys := records[0].Keys()
	columns := make([]Column, 0, len(keys))
	for _, k := range keys {
		if _, skip := deny[k]; skip {
			continue
		}
		columns = append(columns, Column{
			Field:  k,
			Label:  HeaderLabel(k),
			format: formatters.Resolve(k),
		})
	}
	return columns
}

// HeaderLabel строит заголовок колонки из имени поля: разбивает по "_",
// переводит первую букву каждой части в верхний регистр, склеивает пробелами.
// "Event_Start_Date" → "Event Start Date", "qr_path" → "Qr Path".
func HeaderLabel(field string) string {
	parts := strings.Split(field, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(p)
		parts[i] = string(unicode.ToUpper(r)) + p[size:]
	}
	return strings.Join(parts, " ")
}
