package table

import (
	"math"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Direction — направление сортировки.
type Direction string

const (
	// Asc — по возрастанию.
	Asc Direction = "asc"
	// Desc — по убыванию.
	Desc Direction = "desc"
)

// ParseDirection разбирает направление из query-параметра. Всё, кроме "desc", — Asc.
func ParseDirection(s string) Direction {
	if s == string(Desc) {
		return Desc
	}
	return Asc
}

// Toggle возвращает противоположное направление.
func (d Direction) Toggle() Direction {
	if d == Desc {
		return Asc
	}
	return Desc
}

// Comparator — сравнение значений одной колонки.
// Содержит collator, поэтому не безопасен для конкурентного использования:
// создавайте отдельный экземпляр на каждую сортировку.
type Comparator struct {
	coll *collate.Collator
}

// NewComparator создаёт компаратор с правилами сортировки строк для языка tag.
func NewComparator(tag language.Tag) *Comparator {
	return &Comparator{coll: collate.New(tag)}
}

// Compare сравнивает два значения по возрастанию.
// Правила применяются по порядку:
//  1. оба bool — true раньше false;
//  2. хотя бы одно null — null после любого определённого значения;
//  3. обе строки — сравнение по правилам языка (collation);
//  4. иначе — числовая разность a-b; если хотя бы одно значение не приводится
//     к числу (NaN), пара считается равной.
func (c *Comparator) Compare(a, b Value) int {
	// 1. Булевы значения: true < false
	if a.kind == KindBool && b.kind == KindBool {
		switch {
		case a.b == b.b:
			return 0
		case a.b:
			return -1
		default:
			return 1
		}
	}

	// 2. Null всегда в конце при возрастании
	if a.kind == KindNull || b.kind == KindNull {
		switch {
		case a.kind == KindNull && b.kind == KindNull:
			return 0
		case a.kind == KindNull:
			return 1
		default:
			return -1
		}
	}

	// 3. Строки
	if a.kind == KindString && b.kind == KindString {
		return c.coll.CompareString(a.str, b.str)
	}

	// 4. Числовая разность
	diff := a.numeric() - b.numeric()
	switch {
	case math.IsNaN(diff), diff == 0:
		return 0
	case diff < 0:
		return -1
	default:
		return 1
	}
}

// CompareDir сравнивает значения с учётом направления.
// Убывание — точное отрицание возрастания.
func (c *Comparator) CompareDir(a, b Value, dir Direction) int {
	res := c.Compare(a, b)
	if dir == Desc {
		return -res
	}
	return res
}

// Sort возвращает отсортированную копию записей по колонке field.
// Сортировка стабильная: равные записи сохраняют исходный порядок.
// Пустое имя колонки — копия без изменения порядка.
func Sort(records []Record, field string, dir Direction, tag language.Tag) []Record {
	out := slices.Clone(records)
	if field == "" || len(out) < 2 {
		return out
	}

	cmp := NewComparator(tag)
	slices.SortStableFunc(out, func(x, y Record) int {
		a, _ := x.Get(field)
		b, _ := y.Get(field)
		return cmp.CompareDir(a, b, dir)
	})
	return out
}
