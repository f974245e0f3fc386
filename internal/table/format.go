package table

// Placeholder — текст ячейки для пустого, null или отсутствующего значения.
const Placeholder = "-"

// CellKind — способ отображения ячейки.
type CellKind int

const (
	// CellText — обычный текст.
	CellText CellKind = iota
	// CellBadge — цветной бейдж.
	CellBadge
	// CellAction — кнопка-действие (например, показать QR-код).
	CellAction
)

// Цвета бейджей (имена классов палитры UI).
const (
	ColorGreen  = "green"
	ColorGray   = "gray"
	ColorBlue   = "blue"
	ColorPurple = "purple"
	ColorAmber  = "amber"
	ColorRed    = "red"
	ColorTeal   = "teal"
)

// Cell — отформатированная ячейка таблицы.
type Cell struct {
	// Kind — способ отображения.
	Kind CellKind
	// Text — текст ячейки или ключ перевода (для бейджей Yes/No и действий).
	Text string
	// Color — цвет бейджа.
	Color string
	// Target — идентификатор записи для действия.
	Target string
}

// Formatter форматирует значение поля field записи rec.
type Formatter func(rec Record, field string) Cell

// FormatterMap — таблица форматтеров: имя поля → форматтер.
// Поля без записи форматируются через FormatText.
type FormatterMap map[string]Formatter

// Resolve возвращает форматтер для поля. Вызывается один раз на колонку.
func (m FormatterMap) Resolve(field string) Formatter {
	if f, ok := m[field]; ok && f != nil {
		return f
	}
	return FormatText
}

// FormatText — форматтер по умолчанию: строковое представление значения,
// Placeholder для null, пустой строки и отсутствующего поля.
func FormatText(rec Record, field string) Cell {
	v, _ := rec.Get(field)
	s, ok := v.Text()
	if !ok || s == "" {
		return Cell{Kind: CellText, Text: Placeholder}
	}
	return Cell{Kind: CellText, Text: s}
}

// FormatYesNo — бейдж Да/Нет для флагов вида "scanned".
// Text — ключ перевода "common.yes" / "common.no".
func FormatYesNo(rec Record, field string) Cell {
	v, _ := rec.Get(field)
	if v.Truthy() {
		return Cell{Kind: CellBadge, Text: "common.yes", Color: ColorGreen}
	}
	return Cell{Kind: CellBadge, Text: "common.no", Color: ColorGray}
}

// CategoryBadge возвращает форматтер цветного бейджа категории:
// цвет берётся из colors по значению поля, для неизвестных значений — fallback.
// Пустое значение отображается как Placeholder.
func CategoryBadge(colors map[string]string, fallback string) Formatter {
	return func(rec Record, field string) Cell {
		v, _ := rec.Get(field)
		s, ok := v.Text()
		if !ok || s == "" {
			return Cell{Kind: CellText, Text: Placeholder}
		}
		color, found := colors[s]
		if !found {
			color = fallback
		}
		return Cell{Kind: CellBadge, Text: s, Color: color}
	}
}

// ActionTrigger возвращает форматтер кнопки-действия с ключом перевода label.
// Если значение поля пустое — ячейка отображается как Placeholder.
func ActionTrigger(label string) Formatter {
	return func(rec Record, field string) Cell {
		v, _ := rec.Get(field)
		s, ok := v.Text()
		if !ok || s == "" {
			return Cell{Kind: CellText, Text: Placeholder}
		}
		return Cell{Kind: CellAction, Text: label, Target: rec.ID()}
	}
}
