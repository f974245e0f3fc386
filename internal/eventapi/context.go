package eventapi

import "context"

// RequestIDHeader — заголовок корреляции запросов консоли и бэкенда.
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// WithRequestID возвращает контекст с идентификатором запроса,
// который клиент передаёт бэкенду в заголовке X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext возвращает идентификатор запроса или "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
