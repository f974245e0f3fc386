// language.go — переключение языка интерфейса.
package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/Prathamesh2801/testingED-sub000/internal/ui/i18n"
)

// HandleSetLanguage обрабатывает POST /admin/set-language.
// Сохраняет язык в cookie и возвращает на предыдущую страницу консоли.
func HandleSetLanguage(w http.ResponseWriter, r *http.Request) {
	lang := r.FormValue("lang")
	i18n.SetLangCookie(w, lang)
	http.Redirect(w, r, backPath(r.Header.Get("Referer")), http.StatusSeeOther)
}

// backPath оставляет от Referer только путь и query внутри /admin.
func backPath(referer string) string {
	u, err := url.Parse(referer)
	if err != nil || !strings.HasPrefix(u.Path, "/admin") {
		return "/admin/"
	}
	back := &url.URL{Path: u.Path, RawQuery: u.RawQuery}
	return back.String()
}
