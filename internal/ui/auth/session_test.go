package auth

import (
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// TestSessionEncryptDecryptRoundTrip проверяет шифрование и дешифрование сессии.
func TestSessionEncryptDecryptRoundTrip(t *testing.T) {
	sm, err := NewSessionManager("", false)
	if err != nil {
		t.Fatalf("Ошибка создания SessionManager: %v", err)
	}

	original := &Session{
		Token:     "token-12345",
		Role:      "super_admin",
		EventID:   "42",
		Username:  "admin@example.com",
		ExpiresAt: time.Now().Add(5 * time.Minute).Unix(),
	}

	encrypted, err := sm.Encrypt(original)
	if err != nil {
		t.Fatalf("Ошибка шифрования: %v", err)
	}
	if encrypted == "" {
		t.Fatal("Зашифрованная строка пустая")
	}

	decrypted, err := sm.Decrypt(encrypted)
	if err != nil {
		t.Fatalf("Ошибка дешифрования: %v", err)
	}
	if *decrypted != *original {
		t.Errorf("сессия: want %+v, got %+v", original, decrypted)
	}
}

// TestSessionDecryptWithWrongKey проверяет, что чужой ключ не расшифровывает сессию.
func TestSessionDecryptWithWrongKey(t *testing.T) {
	sm1, _ := NewSessionManager("key-one", false)
	sm2, _ := NewSessionManager("key-two", false)

	encrypted, err := sm1.Encrypt(&Session{Token: "secret"})
	if err != nil {
		t.Fatalf("Ошибка шифрования: %v", err)
	}

	if _, err := sm2.Decrypt(encrypted); err == nil {
		t.Error("Ожидалась ошибка при дешифровании чужим ключом")
	}
}

// TestSessionIsExpired проверяет истечение сессии.
func TestSessionIsExpired(t *testing.T) {
	expired := &Session{ExpiresAt: time.Now().Add(-time.Minute).Unix()}
	if !expired.IsExpired() {
		t.Error("Ожидалось IsExpired()=true для истёкшего токена")
	}

	fresh := &Session{ExpiresAt: time.Now().Add(time.Minute).Unix()}
	if fresh.IsExpired() {
		t.Error("Ожидалось IsExpired()=false для свежего токена")
	}
}

// TestSessionWithEvent проверяет, что смена мероприятия не меняет исходную сессию.
func TestSessionWithEvent(t *testing.T) {
	s := &Session{Token: "t", EventID: "1"}
	changed := s.WithEvent("2")

	if changed.EventID != "2" {
		t.Errorf("EventID: want 2, got %s", changed.EventID)
	}
	if s.EventID != "1" {
		t.Errorf("исходная сессия изменена: %s", s.EventID)
	}
	if changed.Token != "t" {
		t.Error("остальные поля должны сохраниться")
	}
}

// TestSessionCookieSetAndGet проверяет установку и чтение cookie.
func TestSessionCookieSetAndGet(t *testing.T) {
	sm, _ := NewSessionManager("test-key", true)

	data := &Session{
		Token:     "access-123",
		Username:  "admin",
		Role:      "admin",
		EventID:   "7",
		ExpiresAt: time.Now().Add(10 * time.Minute).Unix(),
	}

	w := httptest.NewRecorder()
	if err := sm.SetSessionCookie(w, data); err != nil {
		t.Fatalf("Ошибка установки cookie: %v", err)
	}

	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("Cookie не установлен")
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	req.AddCookie(cookies[0])

	got, err := sm.GetSessionFromRequest(req)
	if err != nil {
		t.Fatalf("Ошибка чтения сессии из cookie: %v", err)
	}
	if got == nil {
		t.Fatal("Сессия не найдена")
	}
	if got.Token != data.Token || got.EventID != data.EventID {
		t.Errorf("сессия: want %+v, got %+v", data, got)
	}

	cookie := cookies[0]
	if cookie.Name != SessionCookieName {
		t.Errorf("Cookie name: want %q, got %q", SessionCookieName, cookie.Name)
	}
	if cookie.Path != "/" {
		t.Errorf("Cookie path: want %q, got %q", "/", cookie.Path)
	}
	if !cookie.HttpOnly || !cookie.Secure {
		t.Error("Cookie должен быть HttpOnly и Secure")
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Error("Cookie должен быть SameSite=Lax")
	}
	// MaxAge ограничен сроком токена
	if cookie.MaxAge <= 0 || cookie.MaxAge > 600 {
		t.Errorf("MaxAge: ожидалось (0, 600], got %d", cookie.MaxAge)
	}
}

// TestSessionCookieMissing проверяет, что отсутствие cookie возвращает nil, nil.
func TestSessionCookieMissing(t *testing.T) {
	sm, _ := NewSessionManager("test-key", false)

	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	data, err := sm.GetSessionFromRequest(req)
	if err != nil {
		t.Fatalf("Ожидалось nil error, получено: %v", err)
	}
	if data != nil {
		t.Error("Ожидалось nil при отсутствии cookie")
	}
}

// TestSessionCookieCorrupted проверяет повреждённый cookie.
func TestSessionCookieCorrupted(t *testing.T) {
	sm, _ := NewSessionManager("test-key", false)

	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "not-base64!!"})
	if _, err := sm.GetSessionFromRequest(req); err == nil {
		t.Error("Ожидалась ошибка для повреждённого cookie")
	}
}

// TestClearSessionCookie проверяет очистку cookie.
func TestClearSessionCookie(t *testing.T) {
	sm, _ := NewSessionManager("test-key", false)

	w := httptest.NewRecorder()
	sm.ClearSessionCookie(w)

	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("Cookie очистки не установлен")
	}
	if cookies[0].MaxAge != -1 {
		t.Errorf("MaxAge: want -1, got %d", cookies[0].MaxAge)
	}
	if cookies[0].Value != "" {
		t.Error("Value должен быть пустым")
	}
}

func TestSessionDecrypt_CorruptSession(t *testing.T) {
	sm, _ := NewSessionManager("key", false)

	noToken, err := sm.Encrypt(&Session{Role: "admin"})
	if err != nil {
		t.Fatalf("Ошибка шифрования: %v", err)
	}
	valid, _ := sm.Encrypt(&Session{Token: "t"})
	raw, _ := base64.URLEncoding.DecodeString(valid)
	raw[len(raw)-1] ^= 0xff
	tampered := base64.URLEncoding.EncodeToString(raw)

	for name, value := range map[string]string{
		"без токена": noToken,
		"изменённая": tampered,
		"короткая":   base64.URLEncoding.EncodeToString([]byte("abc")),
		"не base64":  "***",
	} {
		if _, err := sm.Decrypt(value); !errors.Is(err, ErrCorruptSession) {
			t.Errorf("%s: ожидалась ErrCorruptSession, получено %v", name, err)
		}
	}
}
