// Пакет table — обобщённая табличная модель консоли: записи из Events API,
// вывод колонок, поиск, сортировка, пагинация и форматирование ячеек.
// Пакет не знает ни о HTTP, ни о HTML: на вход — срез записей и состояние
// представления, на выходе — готовая к рендерингу страница.
package table

import (
	"math"
	"strconv"
	"strings"
)

// Kind — тип значения поля записи.
type Kind int

const (
	// KindNull — null или отсутствующее значение.
	KindNull Kind = iota
	// KindString — строка.
	KindString
	// KindNumber — число (JSON number).
	KindNumber
	// KindBool — логическое значение.
	KindBool
	// KindOther — вложенный объект или массив (хранится как компактный JSON).
	KindOther
)

// Value — значение одного поля записи.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
}

// Null возвращает null-значение.
func Null() Value { return Value{} }

// String создаёт строковое значение.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number создаёт числовое значение.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// Bool создаёт логическое значение.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Other создаёт непрозрачное значение из JSON-текста (объект/массив).
func Other(raw string) Value { return Value{kind: KindOther, str: raw} }

// Kind возвращает тип значения.
func (v Value) Kind() Kind { return v.kind }

// IsNull сообщает, является ли значение null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Str возвращает строку (для KindString и KindOther).
func (v Value) Str() string { return v.str }

// Num возвращает число (для KindNumber).
func (v Value) Num() float64 { return v.num }

// BoolVal возвращает логическое значение (для KindBool).
func (v Value) BoolVal() bool { return v.b }

// Text возвращает строковое представление значения и признак его наличия.
// Для null возвращает "", false.
func (v Value) Text() (string, bool) {
	switch v.kind {
	case KindString, KindOther:
		return v.str, true
	case KindNumber:
		return formatNumber(v.num), true
	case KindBool:
		return strconv.FormatBool(v.b), true
	default:
		return "", false
	}
}

// Truthy — логическая интерпретация значения для флагов вида "scanned":
// true, ненулевое число, строки "1", "true", "yes".
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.num != 0
	case KindString:
		switch strings.ToLower(strings.TrimSpace(v.str)) {
		case "1", "true", "yes", "y":
			return true
		}
	}
	return false
}

// numeric приводит значение к числу по правилам арифметического вычитания:
// числа как есть, bool → 1/0, строки парсятся (пустая строка → 0).
// Null и непрозрачные значения дают NaN.
func (v Value) numeric() float64 {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindBool:
		if v.b {
			return 1
		}
		return 0
	case KindString:
		s := strings.TrimSpace(v.str)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

// formatNumber форматирует число в кратчайшей десятичной форме (3, 2.5, 1e+21).
func formatNumber(f float64) string {
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	if math.Abs(f) >= 1e21 {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
