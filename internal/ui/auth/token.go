// token.go — определение срока действия токена Events API.
// Если настроен JWKS (EC_JWT_JWKS_URL), подпись токена проверяется;
// иначе claims читаются без проверки только ради exp. Непрозрачный
// (не-JWT) токен получает срок fallbackTTL.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/MicahParks/jwkset"
	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// Ошибки проверки токена.
var (
	// ErrInvalidToken — подпись, issuer или формат токена не прошли проверку.
	ErrInvalidToken = errors.New("недействительный токен")
	// ErrTokenExpired — токен уже истёк.
	ErrTokenExpired = errors.New("срок действия токена истёк")
)

// validMethods — допустимые алгоритмы подписи при проверке через JWKS.
var validMethods = []string{"RS256", "RS384", "RS512", "ES256", "ES384", "PS256", "EdDSA"}

// TokenVerifier вычисляет срок действия токена бэкенда.
type TokenVerifier struct {
	jwks        keyfunc.Keyfunc
	issuer      string
	fallbackTTL time.Duration
	leeway      time.Duration
}

// NewTokenVerifier создаёт верификатор.
// jwksURL — пустой: подпись не проверяется.
// refreshInterval — интервал обновления JWKS (EC_JWKS_REFRESH_INTERVAL).
// fallbackTTL — срок сессии для токенов без exp.
func NewTokenVerifier(
	jwksURL, issuer string,
	refreshInterval, fallbackTTL time.Duration,
	httpClient *http.Client,
	logger *slog.Logger,
) (*TokenVerifier, error) {
	v := &TokenVerifier{issuer: issuer, fallbackTTL: fallbackTTL, leeway: 5 * time.Second}
	if jwksURL == "" {
		return v, nil
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	// Стартуем даже если JWKS бэкенда ещё недоступен
	storage, err := jwkset.NewStorageFromHTTP(jwksURL, jwkset.HTTPClientStorageOptions{
		Client:                    httpClient,
		NoErrorReturnFirstHTTPReq: true,
		RefreshInterval:           refreshInterval,
		RefreshErrorHandler: func(_ context.Context, err error) {
			logger.Error("Ошибка обновления JWKS",
				slog.String("error", err.Error()),
				slog.String("url", jwksURL),
			)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("создание JWKS storage: %w", err)
	}

	k, err := keyfunc.New(keyfunc.Options{Storage: storage})
	if err != nil {
		return nil, fmt.Errorf("создание keyfunc: %w", err)
	}
	v.jwks = k
	return v, nil
}

// NewTokenVerifierWithKeyfunc создаёт верификатор с готовой keyfunc (для тестов).
func NewTokenVerifierWithKeyfunc(kf keyfunc.Keyfunc, issuer string, fallbackTTL time.Duration) *TokenVerifier {
	return &TokenVerifier{jwks: kf, issuer: issuer, fallbackTTL: fallbackTTL, leeway: 5 * time.Second}
}

// Verifies сообщает, проверяется ли подпись токенов.
func (v *TokenVerifier) Verifies() bool {
	return v.jwks != nil
}

// Expiry возвращает время истечения токена.
func (v *TokenVerifier) Expiry(ctx context.Context, token string) (time.Time, error) {
	claims := &jwt.RegisteredClaims{}

	if v.jwks == nil {
		_, _, err := jwt.NewParser().ParseUnverified(token, claims)
		if err != nil {
			// Непрозрачный токен
			return time.Now().Add(v.fallbackTTL), nil
		}
	} else {
		opts := []jwt.ParserOption{
			jwt.WithValidMethods(validMethods),
			jwt.WithLeeway(v.leeway),
		}
		if v.issuer != "" {
			opts = append(opts, jwt.WithIssuer(v.issuer))
		}
		if _, err := jwt.ParseWithClaims(token, claims, v.jwks.KeyfuncCtx(ctx), opts...); err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return time.Time{}, ErrTokenExpired
			}
			return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
	}

	if claims.ExpiresAt == nil {
		return time.Now().Add(v.fallbackTTL), nil
	}
	exp := claims.ExpiresAt.Time
	if !exp.After(time.Now()) {
		return time.Time{}, ErrTokenExpired
	}
	return exp, nil
}
