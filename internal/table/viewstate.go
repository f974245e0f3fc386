package table

import (
	"net/url"
	"strconv"
)

// Имена query-параметров состояния представления.
const (
	ParamSearch   = "q"
	ParamSort     = "sort"
	ParamOrder    = "order"
	ParamPage     = "page"
	ParamPageSize = "size"
)

// ViewState — состояние представления таблицы (поиск, сортировка, страница).
// Не сохраняется: живёт в query string и сбрасывается при её отсутствии.
type ViewState struct {
	// Search — поисковый запрос.
	Search string
	// SortColumn — имя поля сортировки ("" — без сортировки).
	SortColumn string
	// SortDir — направление сортировки.
	SortDir Direction
	// Page — текущая страница (с 1).
	Page int
	// PageSize — размер страницы (один из PageSizes).
	PageSize int
}

// NewViewState возвращает начальное состояние с размером страницы pageSize.
func NewViewState(pageSize int) ViewState {
	if !ValidPageSize(pageSize) {
		pageSize = DefaultPageSize
	}
	return ViewState{SortDir: Asc, Page: 1, PageSize: pageSize}
}

// ParseViewState восстанавливает состояние из query-параметров.
// Некорректные значения заменяются значениями по умолчанию.
func ParseViewState(q url.Values, defaultPageSize int) ViewState {
	s := NewViewState(defaultPageSize)
	s.Search = q.Get(ParamSearch)
	s.SortColumn = q.Get(ParamSort)
	if s.SortColumn != "" {
		s.SortDir = ParseDirection(q.Get(ParamOrder))
	}
	if p, err := strconv.Atoi(q.Get(ParamPage)); err == nil && p > 0 {
		s.Page = p
	}
	if n, err := strconv.Atoi(q.Get(ParamPageSize)); err == nil && ValidPageSize(n) {
		s.PageSize = n
	}
	return s
}

// WithSearch меняет поисковый запрос и сбрасывает страницу на первую.
func (s ViewState) WithSearch(term string) ViewState {
	s.Search = term
	s.Page = 1
	return s
}

// WithPageSize меняет размер страницы и сбрасывает страницу на первую.
// Недопустимый размер игнорируется.
func (s ViewState) WithPageSize(n int) ViewState {
	if !ValidPageSize(n) {
		return s
	}
	s.PageSize = n
	s.Page = 1
	return s
}

// WithSort выбирает колонку сортировки: новая колонка — по возрастанию,
// повторный выбор текущей колонки переключает направление.
func (s ViewState) WithSort(field string) ViewState {
	if field == s.SortColumn && field != "" {
		s.SortDir = s.SortDir.Toggle()
		return s
	}
	s.SortColumn = field
	s.SortDir = Asc
	return s
}

// WithPage переходит на страницу p (значения < 1 приводятся к 1).
func (s ViewState) WithPage(p int) ViewState {
	if p < 1 {
		p = 1
	}
	s.Page = p
	return s
}

// Query кодирует состояние в query-параметры.
// Значения по умолчанию опускаются, чтобы ссылки оставались короткими.
func (s ViewState) Query() url.Values {
	q := url.Values{}
	if s.Search != "" {
		q.Set(ParamSearch, s.Search)
	}
	if s.SortColumn != "" {
		q.Set(ParamSort, s.SortColumn)
		q.Set(ParamOrder, string(s.SortDir))
	}
	if s.Page > 1 {
		q.Set(ParamPage, strconv.Itoa(s.Page))
	}
	if s.PageSize != 0 {
		q.Set(ParamPageSize, strconv.Itoa(s.PageSize))
	}
	return q
}

// Encode возвращает состояние в виде строки query (без "?").
func (s ViewState) Encode() string {
	return s.Query().Encode()
}
