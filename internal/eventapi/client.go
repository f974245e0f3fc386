// Пакет eventapi — HTTP-клиент Events API (внешний бэкенд консоли).
// Все постоянные данные мероприятий (пользователи, расписания, уведомления,
// опросы, QR-коды) хранятся в бэкенде; консоль только читает и изменяет их.
// Поддерживает TLS с кастомным CA (EC_API_CA_CERT_PATH).
package eventapi

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Prathamesh2801/testingED-sub000/internal/table"
)

// Метрики исходящих запросов к Events API.
var (
	apiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ec_api_requests_total",
			Help: "Общее количество запросов к Events API по исходу",
		},
		[]string{"endpoint", "outcome"},
	)

	apiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ec_api_request_duration_seconds",
			Help:    "Длительность запросов к Events API в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
)

// maxBodySize — ограничение на размер тела ответа (включая QR-изображения).
const maxBodySize = 16 << 20

// LoginResult — результат входа (data ответа POST /auth/login).
type LoginResult struct {
	// Token — bearer-токен для последующих запросов.
	Token string
	// Role — роль пользователя (super_admin, admin, viewer).
	Role string
	// EventID — мероприятие, к которому привязан пользователь.
	EventID string
	// Name — отображаемое имя пользователя.
	Name string
}

// Event — мероприятие из GET /events.
type Event struct {
	ID   string
	Name string
}

// Upload — файл, передаваемый в multipart-запросе.
type Upload struct {
	// Field — имя поля формы.
	Field string
	// Filename — имя файла.
	Filename string
	// ContentType — MIME-тип (пустой — application/octet-stream).
	ContentType string
	// Data — содержимое файла.
	Data []byte
}

// Payload — тело запроса на создание записи.
// Без файла отправляется как application/x-www-form-urlencoded,
// с файлом — как multipart/form-data.
type Payload struct {
	Fields url.Values
	File   *Upload
}

// Blob — непрозрачный бинарный ответ (QR-изображение).
type Blob struct {
	ContentType string
	Data        []byte
}

// Client — HTTP-клиент Events API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	// maxBody — предел тела ответа, больший ответ отклоняется целиком.
	maxBody int64
}

// New создаёт клиент Events API.
// baseURL — базовый URL API (например, https://events.example.com/api).
// caCertPath — путь к CA-сертификату для TLS (пустая строка — стандартный пул).
// timeout — таймаут HTTP-запросов (EC_API_TIMEOUT).
func New(baseURL, caCertPath string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	httpClient := &http.Client{Timeout: timeout}

	if caCertPath != "" {
		tlsConfig, err := buildTLSConfig(caCertPath)
		if err != nil {
			return nil, fmt.Errorf("загрузка CA-сертификата Events API: %w", err)
		}
		httpClient.Transport = &http.Transport{
			TLSClientConfig: tlsConfig,
		}
		logger.Info("CA-сертификат Events API добавлен в пул доверия",
			slog.String("ca_cert", caCertPath),
		)
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger.With(slog.String("component", "event_api")),
		maxBody:    maxBodySize,
	}, nil
}

// BaseURL возвращает базовый URL API без завершающего слэша.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// buildTLSConfig создаёт TLS-конфигурацию с кастомным CA.
func buildTLSConfig(caCertPath string) (*tls.Config, error) {
	caCert, err := os.ReadFile(caCertPath)
	if err != nil {
		return nil, fmt.Errorf("чтение CA-сертификата: %w", err)
	}

	caCertPool, err := x509.SystemCertPool()
	if err != nil {
		caCertPool = x509.NewCertPool()
	}
	if !caCertPool.AppendCertsFromPEM(caCert) {
		return nil, fmt.Errorf("CA-сертификат %s не содержит PEM-блоков", caCertPath)
	}

	return &tls.Config{
		RootCAs:    caCertPool,
		MinVersion: tls.VersionTLS12,
	}, nil
}

// Login выполняет вход по email и паролю.
// POST /auth/login (form: email, password).
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	form := url.Values{"email": {email}, "password": {password}}
	env, err := c.call(ctx, "auth.login", http.MethodPost, "/auth/login", "",
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	if err != nil {
		return nil, err
	}

	rec, err := decodeObject(env.Data)
	if err != nil {
		return nil, err
	}

	result := &LoginResult{
		Token:   text(rec, "token", "access_token"),
		Role:    text(rec, "role"),
		EventID: text(rec, "event_id", "eventId"),
		Name:    text(rec, "name", "username", "email"),
	}
	if result.Token == "" {
		return nil, fmt.Errorf("%w: в ответе входа нет токена", ErrMalformed)
	}
	if result.Name == "" {
		result.Name = email
	}
	return result, nil
}

// ListEvents возвращает список мероприятий.
// GET /events.
func (c *Client) ListEvents(ctx context.Context, token string) ([]Event, error) {
	env, err := c.call(ctx, "events.list", http.MethodGet, "/events", token, nil, "")
	if err != nil {
		return nil, err
	}

	list, err := extractRecords(env.Data, "events")
	if err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(list.Records))
	for _, rec := range list.Records {
		id := rec.ID()
		if id == "" {
			id = text(rec, "event_id")
		}
		if id == "" {
			continue
		}
		name := text(rec, "name", "title", "event_name")
		if name == "" {
			name = id
		}
		events = append(events, Event{ID: id, Name: name})
	}
	return events, nil
}

// ListRecords возвращает записи ресурса для мероприятия.
// GET /{resource}?event_id=...
func (c *Client) ListRecords(ctx context.Context, token, resource, eventID string) (*RecordList, error) {
	path := "/" + resource
	if eventID != "" {
		path += "?" + url.Values{"event_id": {eventID}}.Encode()
	}

	env, err := c.call(ctx, resource+".list", http.MethodGet, path, token, nil, "")
	if err != nil {
		return nil, err
	}
	return extractRecords(env.Data, resource)
}

// Create создаёт запись ресурса и возвращает сообщение бэкенда.
// POST /{resource}.
func (c *Client) Create(ctx context.Context, token, resource string, p Payload) (string, error) {
	var (
		body        io.Reader
		contentType string
	)
	if p.File != nil {
		buf, ct, err := encodeMultipart(p)
		if err != nil {
			return "", fmt.Errorf("формирование multipart-запроса: %w", err)
		}
		body, contentType = buf, ct
	} else {
		body = strings.NewReader(p.Fields.Encode())
		contentType = "application/x-www-form-urlencoded"
	}

	env, err := c.call(ctx, resource+".create", http.MethodPost, "/"+resource, token, body, contentType)
	if err != nil {
		return "", err
	}
	return env.message(), nil
}

// Delete удаляет запись ресурса.
// DELETE /{resource}/{id}.
func (c *Client) Delete(ctx context.Context, token, resource, id string) error {
	path := "/" + resource + "/" + url.PathEscape(id)
	_, err := c.call(ctx, resource+".delete", http.MethodDelete, path, token, nil, "")
	return err
}

// CredentialQR возвращает QR-изображение учётных данных участника.
// GET /credentials/{id}/qr — бинарный ответ передаётся как есть.
func (c *Client) CredentialQR(ctx context.Context, token, id string) (*Blob, error) {
	const endpoint = "credentials.qr"
	start := time.Now()

	blob, err := c.fetchBlob(ctx, "/credentials/"+url.PathEscape(id)+"/qr", token)

	apiRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	apiRequestsTotal.WithLabelValues(endpoint, outcome(err)).Inc()
	return blob, err
}

// readBody читает тело ответа не больше maxBody байт.
// Превышение предела — ErrMalformed, усечённое тело не возвращается.
func (c *Client) readBody(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("%w: чтение ответа: %v", ErrTransport, err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("%w: ответ больше %d байт", ErrMalformed, c.maxBody)
	}
	return body, nil
}

func (c *Client) fetchBlob(ctx context.Context, path, token string) (*Blob, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, token, nil, "")
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req) //nolint:gosec // G704: URL из конфигурации
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := c.readBody(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp.StatusCode, body)
	}

	ct := resp.Header.Get("Content-Type")
	// JSON вместо изображения — это конверт с отказом
	if strings.HasPrefix(ct, "application/json") {
		env, err := decodeEnvelope(body)
		if err != nil {
			return nil, err
		}
		if !env.ok() {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: env.message()}
		}
		return nil, fmt.Errorf("%w: ожидалось изображение", ErrMalformed)
	}
	if ct == "" {
		ct = http.DetectContentType(body)
	}
	return &Blob{ContentType: ct, Data: body}, nil
}

// call выполняет запрос, разбирает конверт и записывает метрики.
func (c *Client) call(
	ctx context.Context,
	endpoint, method, path, token string,
	body io.Reader,
	contentType string,
) (*envelope, error) {
	start := time.Now()
	env, err := c.roundTrip(ctx, method, path, token, body, contentType)

	apiRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	apiRequestsTotal.WithLabelValues(endpoint, outcome(err)).Inc()

	if err != nil {
		c.logger.LogAttrs(ctx, slog.LevelWarn, "Запрос к Events API завершился ошибкой",
			slog.String("endpoint", endpoint),
			slog.String("request_id", RequestIDFromContext(ctx)),
			slog.String("error", err.Error()),
		)
	}
	return env, err
}

func (c *Client) roundTrip(
	ctx context.Context,
	method, path, token string,
	body io.Reader,
	contentType string,
) (*envelope, error) {
	req, err := c.newRequest(ctx, method, path, token, body, contentType)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req) //nolint:gosec // G704: URL из конфигурации
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := c.readBody(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp.StatusCode, respBody)
	}

	// Пустой ответ (например, 204 на DELETE) — успех без данных
	if len(bytes.TrimSpace(respBody)) == 0 {
		if method == http.MethodGet {
			return nil, fmt.Errorf("%w: пустой ответ", ErrMalformed)
		}
		return &envelope{}, nil
	}

	env, err := decodeEnvelope(respBody)
	if err != nil {
		return nil, err
	}
	if !env.ok() {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: env.message()}
	}
	return env, nil
}

// newRequest создаёт запрос с авторизацией и X-Request-ID.
func (c *Client) newRequest(
	ctx context.Context,
	method, path, token string,
	body io.Reader,
	contentType string,
) (*http.Request, error) {
	if body == nil {
		body = http.NoBody
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("создание запроса %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if id := RequestIDFromContext(ctx); id != "" {
		req.Header.Set(RequestIDHeader, id)
	}
	return req, nil
}

// statusError классифицирует ответ с не-2xx статусом.
// 401/403 — ErrUnauthorized; конверт с сообщением — *APIError; иначе — ErrTransport.
func statusError(status int, body []byte) error {
	msg := ""
	if env, err := decodeEnvelope(body); err == nil {
		msg = env.message()
	}

	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		if msg == "" {
			msg = http.StatusText(status)
		}
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	}
	if msg != "" {
		return &APIError{StatusCode: status, Message: msg}
	}

	snippet := strings.TrimSpace(string(body))
	if len(snippet) > 200 {
		snippet = snippet[:200]
	}
	return fmt.Errorf("%w: HTTP %d: %s", ErrTransport, status, snippet)
}

// encodeMultipart кодирует поля и файл в multipart/form-data.
func encodeMultipart(p Payload) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for key, values := range p.Fields {
		for _, v := range values {
			if err := w.WriteField(key, v); err != nil {
				return nil, "", err
			}
		}
	}

	ct := p.File.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, p.File.Field, p.File.Filename))
	h.Set("Content-Type", ct)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(p.File.Data); err != nil {
		return nil, "", err
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// text возвращает строковое значение первого непустого поля из списка.
func text(rec table.Record, fields ...string) string {
	for _, f := range fields {
		v, _ := rec.Get(f)
		if s, ok := v.Text(); ok && s != "" {
			return s
		}
	}
	return ""
}
