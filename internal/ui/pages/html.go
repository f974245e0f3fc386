// Пакет pages — HTML-компоненты Event Console (templ.Component).
// Страницы рендерятся целиком, таблицы — также как partial для
// обновления без перезагрузки страницы.
package pages

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// htmlWriter — последовательная запись HTML с накоплением первой ошибки.
type htmlWriter struct {
	ctx context.Context
	w   io.Writer
	err error
}

func newWriter(ctx context.Context, w io.Writer) *htmlWriter {
	return &htmlWriter{ctx: ctx, w: w}
}

// raw пишет строку без экранирования (только для разметки из кода).
func (hw *htmlWriter) raw(parts ...string) {
	for _, s := range parts {
		if hw.err != nil {
			return
		}
		_, hw.err = io.WriteString(hw.w, s)
	}
}

// text пишет экранированный текст.
func (hw *htmlWriter) text(s string) {
	hw.raw(templ.EscapeString(s))
}

// attr пишет атрибут с экранированным значением.
func (hw *htmlWriter) attr(name, value string) {
	hw.raw(" ", name, `="`, templ.EscapeString(value), `"`)
}

// open пишет открывающий тег с атрибутами (пары имя/значение).
func (hw *htmlWriter) open(tag string, attrs ...string) {
	hw.raw("<", tag)
	for i := 0; i+1 < len(attrs); i += 2 {
		hw.attr(attrs[i], attrs[i+1])
	}
	hw.raw(">")
}

func (hw *htmlWriter) close(tag string) {
	hw.raw("</", tag, ">")
}

// elem пишет элемент с текстовым содержимым.
func (hw *htmlWriter) elem(tag, content string, attrs ...string) {
	hw.open(tag, attrs...)
	hw.text(content)
	hw.close(tag)
}

// render встраивает дочерний компонент.
func (hw *htmlWriter) render(c templ.Component) {
	if hw.err != nil || c == nil {
		return
	}
	hw.err = c.Render(hw.ctx, hw.w)
}

// component оборачивает функцию записи в templ.Component.
func component(fn func(hw *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newWriter(ctx, w)
		fn(hw)
		return hw.err
	})
}

// classes объединяет непустые CSS-классы.
func classes(cs ...string) string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		if c != "" {
			out = append(out, c)
		}
	}
	return strings.Join(out, " ")
}
