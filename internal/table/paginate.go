package table

// PageSizes — допустимые размеры страницы.
var PageSizes = []int{5, 10, 20}

// DefaultPageSize — размер страницы по умолчанию.
const DefaultPageSize = 10

// windowSlots — количество номеров страниц в окне пагинации.
const windowSlots = 5

// ValidPageSize сообщает, входит ли n в PageSizes.
func ValidPageSize(n int) bool {
	for _, s := range PageSizes {
		if s == n {
			return true
		}
	}
	return false
}

// TotalPages возвращает количество страниц: ceil(count/pageSize), минимум 1.
func TotalPages(count, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	pages := (count + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// Paginate возвращает страницу page (нумерация с 1) размера pageSize:
// срез [(page-1)*pageSize, (page-1)*pageSize+pageSize), обрезанный по длине списка.
// Страница за пределами списка — пустой срез.
func Paginate[T any](items []T, page, pageSize int) []T {
	if page < 1 || pageSize <= 0 {
		return items[:0:0]
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return items[:0:0]
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// PageWindow возвращает номера страниц, видимые в элементах пагинации:
// не более 5 последовательных номеров.
//   - total ≤ 5 — все страницы;
//   - current ≤ 3 — первые пять;
//   - current ≥ total-2 — последние пять;
//   - иначе — current-2 … current+2.
func PageWindow(current, total int) []int {
	if total < 1 {
		total = 1
	}

	var start int
	switch {
	case total <= windowSlots:
		start = 1
	case current <= 3:
		start = 1
	case current >= total-2:
		start = total - windowSlots + 1
	default:
		start = current - 2
	}

	end := start + windowSlots - 1
	if end > total {
		end = total
	}

	window := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		window = append(window, p)
	}
	return window
}
