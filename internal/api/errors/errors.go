// Пакет errors — ошибки JSON-endpoints консоли.
// Формат: {"error": {"code": "...", "message": "..."}}.
package errors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Prathamesh2801/testingED-sub000/internal/eventapi"
	"github.com/Prathamesh2801/testingED-sub000/internal/service"
)

// Коды ошибок JSON API.
const (
	CodeNotFound       = "NOT_FOUND"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeForbidden      = "FORBIDDEN"
	CodeNoEvent        = "NO_EVENT_SELECTED"
	CodeAPIRejected    = "API_REJECTED"
	CodeAPIUnavailable = "API_UNAVAILABLE"
	CodeInternalError  = "INTERNAL_ERROR"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteError записывает ответ ошибки.
func WriteError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorBody{
		Error: errorDetail{Code: code, Message: message},
	})
}

// NotFound — 404.
func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, CodeNotFound, message)
}

// Unauthorized — 401, нет действующей сессии консоли.
func Unauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, CodeUnauthorized, message)
}

// Classify сопоставляет ошибку сервисного слоя или Events API
// HTTP-статусу и коду ответа.
func Classify(err error) (status int, code string) {
	var apiErr *eventapi.APIError
	switch {
	case errors.Is(err, eventapi.ErrUnauthorized):
		return http.StatusUnauthorized, CodeUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, CodeForbidden
	case errors.Is(err, service.ErrNoEvent):
		return http.StatusConflict, CodeNoEvent
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.As(err, &apiErr):
		return http.StatusUnprocessableEntity, CodeAPIRejected
	case errors.Is(err, eventapi.ErrTransport), errors.Is(err, eventapi.ErrMalformed):
		return http.StatusBadGateway, CodeAPIUnavailable
	default:
		return http.StatusInternalServerError, CodeInternalError
	}
}

// FromError пишет ответ по ошибке и возвращает выбранный статус.
// Текст внутренних ошибок клиенту не отдаётся.
func FromError(w http.ResponseWriter, err error) int {
	status, code := Classify(err)
	message := err.Error()
	switch code {
	case CodeInternalError:
		message = "внутренняя ошибка"
	case CodeUnauthorized:
		message = "сессия Events API недействительна"
	case CodeNoEvent:
		message = "мероприятие не выбрано"
	}
	WriteError(w, status, code, message)
	return status
}
