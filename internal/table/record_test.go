package table

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustRecords декодирует JSON-массив записей для тестов.
func mustRecords(t *testing.T, data string) []Record {
	t.Helper()
	records, err := DecodeRecords([]byte(data))
	require.NoError(t, err)
	return records
}

func TestDecodeRecords_PreservesKeyOrder(t *testing.T) {
	records := mustRecords(t, `[{"zeta":1,"alpha":"a","mid":true,"nothing":null}]`)
	require.Len(t, records, 1)

	assert.Equal(t, []string{"zeta", "alpha", "mid", "nothing"}, records[0].Keys())
}

func TestDecodeRecords_ValueKinds(t *testing.T) {
	records := mustRecords(t, `[{"s":"text","n":2.5,"b":false,"z":null,"o":{"a": [1, 2]}}]`)
	rec := records[0]

	v, ok := rec.Get("s")
	require.True(t, ok)
	assert.Equal(t, KindString, v.Kind())
	assert.Equal(t, "text", v.Str())

	v, _ = rec.Get("n")
	assert.Equal(t, KindNumber, v.Kind())
	assert.InDelta(t, 2.5, v.Num(), 1e-9)

	v, _ = rec.Get("b")
	assert.Equal(t, KindBool, v.Kind())
	assert.False(t, v.BoolVal())

	v, ok = rec.Get("z")
	assert.True(t, ok)
	assert.True(t, v.IsNull())

	v, _ = rec.Get("o")
	assert.Equal(t, KindOther, v.Kind())
	assert.Equal(t, `{"a":[1,2]}`, v.Str())
}

func TestDecodeRecords_NotObject(t *testing.T) {
	_, err := DecodeRecords([]byte(`[1, 2]`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotObject)
}

func TestRecord_GetMissing(t *testing.T) {
	rec := NewRecord()
	v, ok := rec.Get("absent")
	assert.False(t, ok)
	assert.True(t, v.IsNull())
}

func TestRecord_ID(t *testing.T) {
	records := mustRecords(t, `[{"id": 42, "name": "x"}, {"_id": "abc"}, {"name": "none"}]`)
	assert.Equal(t, "42", records[0].ID())
	assert.Equal(t, "abc", records[1].ID())
	assert.Equal(t, "", records[2].ID())
}

func TestRecord_MarshalJSON(t *testing.T) {
	records := mustRecords(t, `[{"b":1,"a":"x","c":null,"d":true,"e":[1]}]`)

	data, err := json.Marshal(records[0])
	require.NoError(t, err)
	assert.Equal(t, `{"b":1,"a":"x","c":null,"d":true,"e":[1]}`, string(data))
}

func TestValue_Text(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
		ok   bool
	}{
		{"integer", Number(3), "3", true},
		{"fraction", Number(2.5), "2.5", true},
		{"negative", Number(-10), "-10", true},
		{"bool", Bool(true), "true", true},
		{"string", String("abc"), "abc", true},
		{"null", Null(), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.v.Text()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValue_Truthy(t *testing.T) {
	assert.True(t, Bool(true).Truthy())
	assert.True(t, Number(1).Truthy())
	assert.True(t, String("Yes").Truthy())
	assert.True(t, String("1").Truthy())
	assert.False(t, String("0").Truthy())
	assert.False(t, Bool(false).Truthy())
	assert.False(t, Null().Truthy())
}
