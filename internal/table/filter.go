package table

import "strings"

// Matches проверяет запись на соответствие поисковому запросу.
// Пустой запрос совпадает с любой записью. Иначе запись совпадает, если
// строковое представление хотя бы одного поля содержит запрос как подстроку
// без учёта регистра. Null-поля не совпадают никогда.
func Matches(rec Record, term string) bool {
	if term == "" {
		return true
	}
	needle := strings.ToLower(term)
	for _, k := range rec.keys {
		s, ok := rec.values[k].Text()
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}

// Filter возвращает новый срез записей, совпадающих с запросом.
// Порядок записей сохраняется.
func Filter(records []Record, term string) []Record {
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if Matches(rec, term) {
			out = append(out, rec)
		}
	}
	return out
}
