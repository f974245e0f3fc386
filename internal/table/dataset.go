package table

import "golang.org/x/text/language"

// Config — параметры экземпляра таблицы для конкретного экрана.
type Config struct {
	// Denylist — поля, не отображаемые как колонки (nil — DefaultDenylist).
	Denylist []string
	// Formatters — форматтеры ячеек по имени поля.
	Formatters FormatterMap
	// DefaultPageSize — размер страницы по умолчанию (0 — DefaultPageSize).
	DefaultPageSize int
}

// denylist возвращает итоговый denylist.
func (c Config) denylist() []string {
	if c.Denylist == nil {
		return DefaultDenylist
	}
	return c.Denylist
}

// Hidden сообщает, что поле скрыто denylist'ом экрана.
func (c Config) Hidden(field string) bool {
	for _, f := range c.denylist() {
		if f == field {
			return true
		}
	}
	return false
}

// PageSize возвращает размер страницы по умолчанию для экрана.
func (c Config) PageSize() int {
	if ValidPageSize(c.DefaultPageSize) {
		return c.DefaultPageSize
	}
	return DefaultPageSize
}

// Dataset — исходный список записей экрана и выведенный из него набор колонок.
// Колонки вычисляются при первой успешной непустой загрузке и не пересчитываются
// при последующих обновлениях, пока список не станет пустым.
type Dataset struct {
	cfg     Config
	columns []Column
	records []Record
}

// NewDataset создаёт пустой набор данных.
func NewDataset(cfg Config) *Dataset {
	return &Dataset{cfg: cfg}
}

// Load заменяет записи набора. Колонки пересчитываются, только если
// предыдущий список был пустым.
func (d *Dataset) Load(records []Record) {
	if len(d.records) == 0 {
		d.columns = InferColumns(records, d.cfg.denylist(), d.cfg.Formatters)
	}
	d.records = records
}

// Records возвращает исходные записи.
func (d *Dataset) Records() []Record { return d.records }

// Columns возвращает колонки.
func (d *Dataset) Columns() []Column { return d.columns }

// Empty сообщает, что записей нет (состояние "пусто", не ошибка).
func (d *Dataset) Empty() bool { return len(d.records) == 0 }

// Row — строка таблицы, готовая к рендерингу.
type Row struct {
	// ID — идентификатор записи (для действий удаления/просмотра).
	ID string
	// Cells — ячейки в порядке колонок.
	Cells []Cell
}

// View — производное представление: отфильтрованные, отсортированные
// и разбитые на страницы строки.
type View struct {
	// Columns — колонки таблицы.
	Columns []Column
	// Rows — строки текущей страницы.
	Rows []Row
	// Records — записи текущей страницы (для JSON API), только поля колонок и id.
	Records []Record
	// State — нормализованное состояние представления.
	State ViewState
	// Total — количество записей после фильтрации.
	Total int
	// SourceTotal — количество записей до фильтрации.
	SourceTotal int
	// TotalPages — количество страниц (минимум 1).
	TotalPages int
	// Window — номера страниц для элементов пагинации.
	Window []int
	// Empty — исходный список пуст.
	Empty bool
}

// Derive строит представление: фильтр → сортировка → пагинация.
// Работает с проекцией записей на колонки: поля из denylist не участвуют
// в поиске и сортировке и не попадают в View.Records.
// Сортировка по полю вне колонок сбрасывается.
// Страница за пределами результата приводится к последней.
func (d *Dataset) Derive(state ViewState, tag language.Tag) View {
	if state.SortColumn != "" && !d.HasColumn(state.SortColumn) {
		state.SortColumn = ""
	}
	if !ValidPageSize(state.PageSize) {
		state.PageSize = d.cfg.PageSize()
	}
	if state.Page < 1 {
		state.Page = 1
	}
	if state.SortDir == "" {
		state.SortDir = Asc
	}

	filtered := Filter(d.visible(), state.Search)
	sorted := Sort(filtered, state.SortColumn, state.SortDir, tag)

	totalPages := TotalPages(len(sorted), state.PageSize)
	if state.Page > totalPages {
		state.Page = totalPages
	}

	page := Paginate(sorted, state.Page, state.PageSize)
	rows := make([]Row, 0, len(page))
	for _, rec := range page {
		cells := make([]Cell, 0, len(d.columns))
		for _, col := range d.columns {
			cells = append(cells, col.Format(rec))
		}
		rows = append(rows, Row{ID: rec.ID(), Cells: cells})
	}

	return View{
		Columns:     d.columns,
		Rows:        rows,
		Records:     page,
		State:       state,
		Total:       len(sorted),
		SourceTotal: len(d.records),
		TotalPages:  totalPages,
		Window:      PageWindow(state.Page, totalPages),
		Empty:       len(d.records) == 0,
	}
}

// HasColumn сообщает, отображается ли поле как колонка.
func (d *Dataset) HasColumn(field string) bool {
	for _, c := range d.columns {
		if c.Field == field {
			return true
		}
	}
	return false
}

// visible возвращает проекции записей: идентификатор и поля колонок
// в исходном порядке ключей.
func (d *Dataset) visible() []Record {
	keep := make(map[string]struct{}, len(d.columns)+2)
	keep["id"] = struct{}{}
	keep["_id"] = struct{}{}
	for _, c := range d.columns {
		keep[c.Field] = struct{}{}
	}

	out := make([]Record, 0, len(d.records))
	for _, rec := range d.records {
		p := NewRecord()
		for _, k := range rec.Keys() {
			if _, ok := keep[k]; ok {
				v, _ := rec.Get(k)
				p.Set(k, v)
			}
		}
		out = append(out, p)
	}
	return out
}
