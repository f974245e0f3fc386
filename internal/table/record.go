package table

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrNotObject — JSON-значение записи не является объектом.
var ErrNotObject = errors.New("запись должна быть JSON-объектом")

// Record — одна строка данных (пользователь, пункт расписания, уведомление,
// опрос): упорядоченное отображение имени поля в значение.
// Порядок полей совпадает с порядком ключей в JSON-объекте.
type Record struct {
	keys   []string
	values map[string]Value
}

// NewRecord создаёт пустую запись.
func NewRecord() Record {
	return Record{values: make(map[string]Value)}
}

// Set добавляет или заменяет поле. Новое поле добавляется в конец.
func (r *Record) Set(field string, v Value) {
	if r.values == nil {
		r.values = make(map[string]Value)
	}
	if _, ok := r.values[field]; !ok {
		r.keys = append(r.keys, field)
	}
	r.values[field] = v
}

// Get возвращает значение поля. Для отсутствующего поля — Null(), false.
func (r Record) Get(field string) (Value, bool) {
	v, ok := r.values[field]
	if !ok {
		return Null(), false
	}
	return v, true
}

// Keys возвращает имена полей в исходном порядке.
func (r Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len возвращает количество полей.
func (r Record) Len() int { return len(r.keys) }

// ID возвращает идентификатор записи (поле "id" или "_id").
func (r Record) ID() string {
	for _, f := range []string{"id", "_id"} {
		if v, ok := r.values[f]; ok {
			if s, ok := v.Text(); ok {
				return s
			}
		}
	}
	return ""
}

// UnmarshalJSON декодирует JSON-объект с сохранением порядка ключей.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return ErrNotObject
	}

	*r = NewRecord()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("некорректный ключ записи: %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("поле %q: %w", key, err)
		}
		v, err := decodeValue(raw)
		if err != nil {
			return fmt.Errorf("поле %q: %w", key, err)
		}
		r.Set(key, v)
	}

	// Закрывающая скобка объекта
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalJSON кодирует запись обратно в JSON-объект с исходным порядком ключей.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')

		v := r.values[k]
		switch v.kind {
		case KindNull:
			buf.WriteString("null")
		case KindString:
			sb, err := json.Marshal(v.str)
			if err != nil {
				return nil, err
			}
			buf.Write(sb)
		case KindNumber:
			buf.WriteString(strconv.FormatFloat(v.num, 'g', -1, 64))
		case KindBool:
			buf.WriteString(strconv.FormatBool(v.b))
		case KindOther:
			buf.WriteString(v.str)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DecodeRecords декодирует JSON-массив объектов в срез записей.
func DecodeRecords(data []byte) ([]Record, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(raws))
	for i, raw := range raws {
		var rec Record
		if err := rec.UnmarshalJSON(raw); err != nil {
			return nil, fmt.Errorf("запись %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// decodeValue преобразует JSON-значение поля в Value.
func decodeValue(raw json.RawMessage) (Value, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Null(), nil
	}

	switch trimmed[0] {
	case 'n':
		return Null(), nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return Value{}, err
		}
		return Bool(b), nil
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return Value{}, err
		}
		return String(s), nil
	case '{', '[':
		var compact bytes.Buffer
		if err := json.Compact(&compact, trimmed); err != nil {
			return Value{}, err
		}
		return Other(compact.String()), nil
	default:
		f, err := strconv.ParseFloat(string(trimmed), 64)
		if err != nil {
			return Value{}, fmt.Errorf("некорректное число %q", trimmed)
		}
		return Number(f), nil
	}
}
