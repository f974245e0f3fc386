// middleware.go — определение языка пользователя.
// Приоритет: cookie "lang" → Accept-Language → en.
package i18n

import (
	"net/http"
	"time"
)

// LangCookieName — имя cookie выбранного языка.
const LangCookieName = "lang"

// langCookieTTL — срок хранения выбора языка.
const langCookieTTL = 365 * 24 * time.Hour

// Middleware помещает язык запроса в контекст.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithLang(r.Context(), DetectLanguage(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// DetectLanguage определяет язык запроса.
func DetectLanguage(r *http.Request) string {
	if cookie, err := r.Cookie(LangCookieName); err == nil && IsSupported(cookie.Value) {
		return cookie.Value
	}
	if accept := r.Header.Get("Accept-Language"); accept != "" {
		return MatchLanguage(accept)
	}
	return DefaultLang
}

// SetLangCookie сохраняет выбор языка. Неподдерживаемый код заменяется на en.
// Cookie доступен JS (не HttpOnly): переключатель языка читает его на клиенте.
func SetLangCookie(w http.ResponseWriter, lang string) string {
	if !IsSupported(lang) {
		lang = DefaultLang
	}
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    lang,
		Path:     "/",
		MaxAge:   int(langCookieTTL.Seconds()),
		Expires:  time.Now().Add(langCookieTTL),
		SameSite: http.SameSiteLaxMode,
	})
	return lang
}
