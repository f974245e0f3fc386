// envelope.go — разбор конверта ответов Events API:
// {"status": ..., "message": "...", "data": ...}.
// Статус бывает bool, строкой ("success"/"error") или числом (1/0).
// data — массив записей либо объект с массивом записей и метаданными страницы.
package eventapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/Prathamesh2801/testingED-sub000/internal/table"
)

// envelope — общий конверт ответа Events API.
type envelope struct {
	Status  json.RawMessage `json:"status"`
	Success json.RawMessage `json:"success"`
	Message json.RawMessage `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// ok сообщает, что конверт содержит успешный статус.
// При отсутствии status и success ответ считается успешным.
func (e *envelope) ok() bool {
	switch {
	case len(e.Status) > 0:
		return statusOK(e.Status)
	case len(e.Success) > 0:
		return statusOK(e.Success)
	default:
		return true
	}
}

// message возвращает текст поля message (строка или любое JSON-значение).
func (e *envelope) message() string {
	raw := bytes.TrimSpace(e.Message)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// statusOK интерпретирует значение статуса конверта.
func statusOK(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	switch raw[0] {
	case 't':
		return bytes.Equal(raw, []byte("true"))
	case 'f', 'n':
		return false
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "success", "ok", "true", "1":
			return true
		}
		return false
	default:
		n, err := strconv.ParseFloat(string(raw), 64)
		return err == nil && n == 1
	}
}

// decodeEnvelope декодирует тело ответа в конверт.
func decodeEnvelope(body []byte) (*envelope, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: ожидался JSON-объект", ErrMalformed)
	}
	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return &env, nil
}

// PageMeta — метаданные страницы, если бэкенд их вернул.
type PageMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// RecordList — список записей ресурса.
type RecordList struct {
	// Records — записи в порядке ответа.
	Records []table.Record
	// Meta — метаданные страницы (nil, если data — массив).
	Meta *PageMeta
}

// preferredListKeys — ключи объекта data, в которых в первую очередь
// ищется массив записей (за ними — имя ресурса).
var preferredListKeys = []string{"records", "items", "data"}

// extractRecords извлекает записи из поля data.
// null или отсутствующее data — пустой список.
func extractRecords(data json.RawMessage, resource string) (*RecordList, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return &RecordList{}, nil
	}

	switch data[0] {
	case '[':
		records, err := table.DecodeRecords(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return &RecordList{Records: records}, nil
	case '{':
		return extractFromObject(data, resource)
	default:
		return nil, fmt.Errorf("%w: data не является массивом или объектом", ErrMalformed)
	}
}

// extractFromObject ищет массив записей в объекте data.
func extractFromObject(data json.RawMessage, resource string) (*RecordList, error) {
	keys, fields, err := orderedFields(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	candidates := append(append([]string{}, preferredListKeys...), resource)
	listKey := ""
	for _, k := range candidates {
		if raw, ok := fields[k]; ok && isArray(raw) {
			listKey = k
			break
		}
	}
	if listKey == "" {
		for _, k := range keys {
			if isArray(fields[k]) {
				listKey = k
				break
			}
		}
	}
	if listKey == "" {
		return nil, fmt.Errorf("%w: в data нет массива записей", ErrMalformed)
	}

	records, err := table.DecodeRecords(fields[listKey])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var meta PageMeta
	// Метаданные необязательны: нечисловые значения игнорируются
	meta.Page = intField(fields, "page")
	meta.Limit = intField(fields, "limit")
	meta.Total = intField(fields, "total")
	meta.TotalPages = intField(fields, "total_pages")

	return &RecordList{Records: records, Meta: &meta}, nil
}

// orderedFields разбирает JSON-объект, сохраняя порядок ключей.
func orderedFields(data []byte) ([]string, map[string]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	var keys []string
	fields := make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, err
		}
		if _, dup := fields[key]; !dup {
			keys = append(keys, key)
		}
		fields[key] = raw
	}
	return keys, fields, nil
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

// intField читает целое число из поля (число или числовая строка).
func intField(fields map[string]json.RawMessage, key string) int {
	raw, ok := fields[key]
	if !ok {
		return 0
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0
		}
		n = json.Number(strings.TrimSpace(s))
	}
	if i, err := n.Int64(); err == nil {
		return int(i)
	}
	if f, err := n.Float64(); err == nil {
		return int(f)
	}
	return 0
}

// decodeObject декодирует data как одну запись (ответ login, создания).
func decodeObject(data json.RawMessage) (table.Record, error) {
	var rec table.Record
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return table.NewRecord(), nil
	}
	if err := rec.UnmarshalJSON(data); err != nil {
		return table.Record{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return rec, nil
}
