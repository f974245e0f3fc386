// Пакет i18n — интернационализация Event Console.
// Предоставляет T(ctx, key) и Tf(ctx, key, args...) для получения
// переведённых строк из контекста HTTP-запроса, а также языковой тег
// для сравнения строк при сортировке таблиц.
// Поддерживаемые языки: English (en), Русский (ru).
package i18n

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/text/language"
)

// DefaultLang — язык по умолчанию и язык fallback-переводов.
const DefaultLang = "en"

// Languages — коды поддерживаемых языков в порядке отображения.
var Languages = []string{"en", "ru"}

var (
	tags    = map[string]language.Tag{"en": language.English, "ru": language.Russian}
	matcher = language.NewMatcher([]language.Tag{language.English, language.Russian})
)

type contextKey struct{}

// Bundle — каталоги переводов всех языков.
type Bundle struct {
	mu       sync.RWMutex
	catalogs map[string]map[string]string // lang → key → translation
	logger   *slog.Logger
}

// NewBundle создаёт пустой Bundle.
func NewBundle(logger *slog.Logger) *Bundle {
	return &Bundle{
		catalogs: make(map[string]map[string]string),
		logger:   logger,
	}
}

// LoadMessages загружает плоский JSON-каталог {"key": "text"} для языка.
func (b *Bundle) LoadMessages(lang string, data []byte) error {
	var messages map[string]string
	if err := json.Unmarshal(data, &messages); err != nil {
		return fmt.Errorf("i18n: ошибка парсинга каталога %s: %w", lang, err)
	}

	b.mu.Lock()
	b.catalogs[lang] = messages
	b.mu.Unlock()

	if b.logger != nil {
		b.logger.Debug("i18n каталог загружен",
			slog.String("lang", lang),
			slog.Int("keys", len(messages)),
		)
	}
	return nil
}

// Translate возвращает перевод ключа. Порядок поиска: lang → en → сам ключ.
func (b *Bundle) Translate(lang, key string) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if msg, ok := b.catalogs[lang][key]; ok {
		return msg
	}
	if msg, ok := b.catalogs[DefaultLang][key]; ok {
		return msg
	}
	return key
}

// Translatef — Translate с подстановкой аргументов.
func (b *Bundle) Translatef(lang, key string, args ...any) string {
	tmpl := b.Translate(lang, key)
	if len(args) == 0 {
		return tmpl
	}
	return sprintf(tmpl, args...)
}

// Keys возвращает отсортированные ключи каталога языка.
func (b *Bundle) Keys(lang string) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	keys := make([]string, 0, len(b.catalogs[lang]))
	for k := range b.catalogs[lang] {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// --- Глобальный Bundle ---

var (
	globalBundle *Bundle
	globalOnce   sync.Once
)

// Init создаёт глобальный Bundle. Повторные вызовы возвращают тот же Bundle.
func Init(logger *slog.Logger) *Bundle {
	globalOnce.Do(func() {
		globalBundle = NewBundle(logger)
	})
	return globalBundle
}

// GetBundle возвращает глобальный Bundle (nil, если Init не вызывался).
func GetBundle() *Bundle {
	return globalBundle
}

// --- Язык запроса ---

// WithLang помещает язык в контекст.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, contextKey{}, lang)
}

// LangFromContext извлекает язык из контекста (по умолчанию en).
func LangFromContext(ctx context.Context) string {
	if lang, ok := ctx.Value(contextKey{}).(string); ok && IsSupported(lang) {
		return lang
	}
	return DefaultLang
}

// TagFromContext возвращает языковой тег запроса (для collation).
func TagFromContext(ctx context.Context) language.Tag {
	return tags[LangFromContext(ctx)]
}

// IsSupported проверяет код языка.
func IsSupported(lang string) bool {
	_, ok := tags[lang]
	return ok
}

// T возвращает перевод ключа на языке запроса.
func T(ctx context.Context, key string) string {
	if globalBundle == nil {
		return key
	}
	return globalBundle.Translate(LangFromContext(ctx), key)
}

// Tf возвращает перевод с подстановкой аргументов.
func Tf(ctx context.Context, key string, args ...any) string {
	if globalBundle == nil {
		if len(args) == 0 {
			return key
		}
		return sprintf(key, args...)
	}
	return globalBundle.Translatef(LangFromContext(ctx), key, args...)
}

// sprintf вызывается через переменную: формат-строки приходят из JSON-каталогов,
// и printf-анализатор go vet не может их проверить.
var sprintf = fmt.Sprintf

// MatchLanguage выбирает язык по заголовку Accept-Language.
func MatchLanguage(acceptLanguage string) string {
	_, idx := language.MatchStrings(matcher, acceptLanguage)
	if idx >= 0 && idx < len(Languages) {
		return Languages[idx]
	}
	return DefaultLang
}
