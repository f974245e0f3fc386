package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Prathamesh2801/testingED-sub000/internal/eventapi"
	"github.com/Prathamesh2801/testingED-sub000/internal/service"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"токен", fmt.Errorf("list: %w", eventapi.ErrUnauthorized), http.StatusUnauthorized, CodeUnauthorized},
		{"роль", service.ErrForbidden, http.StatusForbidden, CodeForbidden},
		{"нет мероприятия", service.ErrNoEvent, http.StatusConflict, CodeNoEvent},
		{"не найдено", service.ErrNotFound, http.StatusNotFound, CodeNotFound},
		{"отказ бэкенда", &eventapi.APIError{StatusCode: 200, Message: "duplicate"}, http.StatusUnprocessableEntity, CodeAPIRejected},
		{"транспорт", eventapi.ErrTransport, http.StatusBadGateway, CodeAPIUnavailable},
		{"формат ответа", eventapi.ErrMalformed, http.StatusBadGateway, CodeAPIUnavailable},
		{"прочее", fmt.Errorf("boom"), http.StatusInternalServerError, CodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := Classify(tt.err)
			if status != tt.status || code != tt.code {
				t.Errorf("Classify() = %d %s, ожидалось %d %s", status, code, tt.status, tt.code)
			}
		})
	}
}

func TestFromError_HidesInternalMessage(t *testing.T) {
	w := httptest.NewRecorder()
	if status := FromError(w, fmt.Errorf("pq: secret detail")); status != http.StatusInternalServerError {
		t.Fatalf("статус = %d", status)
	}

	var body errorBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != CodeInternalError || body.Error.Message != "внутренняя ошибка" {
		t.Errorf("тело = %+v", body)
	}
	if w.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q", w.Header().Get("Content-Type"))
	}
}
