// requestid.go — идентификатор запроса для корреляции с Events API.
package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/Prathamesh2801/testingED-sub000/internal/eventapi"
)

// RequestID берёт X-Request-ID входящего запроса или генерирует UUID,
// помещает его в контекст (клиент Events API передаёт его дальше)
// и возвращает в заголовке ответа.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(eventapi.RequestIDHeader)
			if id == "" || len(id) > 128 {
				id = uuid.NewString()
			}
			w.Header().Set(eventapi.RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(eventapi.WithRequestID(r.Context(), id)))
		})
	}
}
