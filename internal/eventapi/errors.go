// errors.go — таксономия ошибок Events API.
// Каждая ошибка клиента сводится к одному из sentinel-значений,
// которые проверяются через errors.Is на границе загрузки данных.
package eventapi

import (
	"errors"
	"fmt"
)

// Sentinel-ошибки клиента Events API.
var (
	// ErrTransport — сетевая ошибка или ответ не-2xx без конверта.
	ErrTransport = errors.New("ошибка соединения с Events API")
	// ErrRejected — конверт с неуспешным статусом (сообщение бэкенда в *APIError).
	ErrRejected = errors.New("Events API отклонил запрос")
	// ErrMalformed — тело ответа не декодируется или имеет неожиданную форму.
	ErrMalformed = errors.New("некорректный ответ Events API")
	// ErrUnauthorized — токен отсутствует, истёк или не имеет прав (HTTP 401/403).
	ErrUnauthorized = errors.New("сессия Events API недействительна")
)

// APIError — отказ бэкенда с сообщением из конверта.
// errors.Is(err, ErrRejected) == true для любой *APIError.
type APIError struct {
	// StatusCode — HTTP-статус ответа.
	StatusCode int
	// Message — поле message конверта.
	Message string
}

// Error реализует интерфейс error.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s (HTTP %d)", ErrRejected.Error(), e.StatusCode)
	}
	return e.Message
}

// Is сопоставляет APIError с ErrRejected.
func (e *APIError) Is(target error) bool {
	return target == ErrRejected
}

// outcome возвращает метку исхода запроса для метрик.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrRejected):
		return "rejected"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	default:
		return "transport"
	}
}
