// Пакет auth — сессия консоли и проверка токенов Events API.
// Сессия хранится в cookie, зашифрованном AES-256-GCM, создаётся при входе,
// уничтожается при выходе или истечении токена и передаётся обработчикам
// через контекст запроса.
package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SessionCookieName — имя cookie зашифрованной сессии консоли.
const SessionCookieName = "event_console_session"

// sessionCookiePath — cookie доступен и UI (/admin), и JSON API (/api/v1/tables).
const sessionCookiePath = "/"

// sessionAAD привязывает шифротекст к cookie сессии консоли.
var sessionAAD = []byte("event-console/session/v1")

// ErrCorruptSession — cookie не расшифровывается или не содержит токена.
var ErrCorruptSession = errors.New("повреждённая cookie сессии")

// Session — сессия пользователя консоли.
type Session struct {
	// Token — bearer-токен Events API.
	Token string `json:"token"`
	// Role — роль пользователя (super_admin, admin, viewer).
	Role string `json:"role"`
	// EventID — выбранное мероприятие.
	EventID string `json:"event_id"`
	// Username — отображаемое имя пользователя.
	Username string `json:"username"`
	// ExpiresAt — время истечения токена (Unix timestamp).
	ExpiresAt int64 `json:"expires_at"`
}

// IsExpired проверяет, истёк ли токен сессии.
func (s *Session) IsExpired() bool {
	return time.Now().Unix() >= s.ExpiresAt
}

// WithEvent возвращает копию сессии с другим выбранным мероприятием.
func (s *Session) WithEvent(eventID string) *Session {
	c := *s
	c.EventID = eventID
	return &c
}

// SessionManager шифрует и дешифрует Session в HTTP cookie через AES-256-GCM.
type SessionManager struct {
	gcm    cipher.AEAD
	secure bool
}

// NewSessionManager создаёт менеджер сессий.
// key — base64 32-байтового ключа или произвольная строка (хешируется SHA-256).
// Пустой key — случайный ключ, сессии не переживают рестарт.
func NewSessionManager(key string, secure bool) (*SessionManager, error) {
	var keyBytes []byte

	if key == "" {
		keyBytes = make([]byte, 32)
		if _, err := io.ReadFull(rand.Reader, keyBytes); err != nil {
			return nil, fmt.Errorf("ошибка генерации ключа сессии: %w", err)
		}
	} else {
		var err error
		keyBytes, err = base64.StdEncoding.DecodeString(key)
		if err != nil || len(keyBytes) != 32 {
			h := sha256.Sum256([]byte(key))
			keyBytes = h[:]
		}
	}

	block, err := aes.NewCipher(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания AES cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания GCM: %w", err)
	}

	return &SessionManager{gcm: gcm, secure: secure}, nil
}

// Encrypt упаковывает сессию: base64url(nonce || AES-GCM(json)).
func (sm *SessionManager) Encrypt(s *Session) (string, error) {
	plaintext, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("сериализация сессии: %w", err)
	}

	nonce := make([]byte, sm.gcm.NonceSize(), sm.gcm.NonceSize()+len(plaintext)+sm.gcm.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("генерация nonce: %w", err)
	}
	return base64.URLEncoding.EncodeToString(sm.gcm.Seal(nonce, nonce, plaintext, sessionAAD)), nil
}

// Decrypt восстанавливает сессию. Любая ошибка оборачивает ErrCorruptSession.
func (sm *SessionManager) Decrypt(encrypted string) (*Session, error) {
	raw, err := base64.URLEncoding.DecodeString(encrypted)
	if err != nil {
		return nil, fmt.Errorf("%w: base64: %v", ErrCorruptSession, err)
	}

	n := sm.gcm.NonceSize()
	if len(raw) < n+sm.gcm.Overhead() {
		return nil, fmt.Errorf("%w: %d байт", ErrCorruptSession, len(raw))
	}
	plaintext, err := sm.gcm.Open(nil, raw[:n], raw[n:], sessionAAD)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSession, err)
	}

	var s Session
	if err := json.Unmarshal(plaintext, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSession, err)
	}
	if s.Token == "" {
		return nil, fmt.Errorf("%w: пустой токен", ErrCorruptSession)
	}
	return &s, nil
}

// SetSessionCookie записывает сессию в cookie ответа.
// Cookie живёт до истечения токена.
func (sm *SessionManager) SetSessionCookie(w http.ResponseWriter, s *Session) error {
	encrypted, err := sm.Encrypt(s)
	if err != nil {
		return err
	}

	maxAge := int(time.Until(time.Unix(s.ExpiresAt, 0)).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    encrypted,
		Path:     sessionCookiePath,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   sm.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// GetSessionFromRequest извлекает сессию из cookie запроса.
// Возвращает nil, nil если cookie отсутствует.
func (sm *SessionManager) GetSessionFromRequest(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return nil, nil
		}
		return nil, err
	}
	return sm.Decrypt(cookie.Value)
}

// ClearSessionCookie удаляет cookie сессии (выход, истечение, повреждение).
func (sm *SessionManager) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     sessionCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   sm.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
