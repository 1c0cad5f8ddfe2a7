package ir

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueText(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"text", Text("Martin Fowler"), "Martin Fowler"},
		{"int", Int(412), "412"},
		{"negative int", Int(-3), "-3"},
		{"integral float keeps decimal", Float(4), "4.0"},
		{"fractional float", Float(4.25), "4.25"},
		{"shortest round trip", Float(4.3), "4.3"},
		{"large float positional", Float(1234567.5), "1234567.5"},
		{"huge float exponent", Float(1e16), "1e+16"},
		{"tiny float exponent", Float(0.00001), "1e-05"},
		{"zero float", Float(0), "0.0"},
		{"null", Null{}, ""},
		{"list", List{Text("a"), Int(2)}, `["a",2]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.value.Text())
		})
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(Int(412), Float(412)), "int and float compare numerically")
	assert.True(t, Equal(Text("a"), Text("a")))
	assert.False(t, Equal(Text("412"), Int(412)), "text never equals a number")
	assert.False(t, Equal(Null{}, Null{}), "null never matches")
	assert.False(t, Equal(nil, Text("a")), "absent never matches")
	assert.True(t, Equal(List{Text("a")}, List{Text("a")}))
	assert.False(t, Equal(List{Text("a")}, Text("a")))
}

func TestNewText_NormalizesNFC(t *testing.T) {
	decomposed := "Garci\u0301a"
	composed := "Garc\u00eda"

	assert.Equal(t, Text(composed), NewText(decomposed))
}

func TestFromAny(t *testing.T) {
	v, err := FromAny(json.Number("412"))
	require.NoError(t, err)
	assert.Equal(t, Int(412), v)

	v, err = FromAny(json.Number("4.0"))
	require.NoError(t, err)
	assert.Equal(t, Float(4), v)

	v, err = FromAny(nil)
	require.NoError(t, err)
	assert.Equal(t, Null{}, v)

	v, err = FromAny([]any{"x", json.Number("1")})
	require.NoError(t, err)
	assert.Equal(t, List{Text("x"), Int(1)}, v)

	_, err = FromAny(struct{}{})
	assert.Error(t, err)
}

func TestFloatJSONRoundTrip(t *testing.T) {
	rec := Record{
		"_id":          Text("b1"),
		"rating_value": Float(4),
		"rating_count": Int(12),
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"rating_value":4.0`)

	var decoded Record
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, Float(4), decoded["rating_value"])
	assert.Equal(t, Int(12), decoded["rating_count"])
	assert.Equal(t, "4.0", decoded["rating_value"].Text())
}

func TestDecodeRecords(t *testing.T) {
	t.Run("single object", func(t *testing.T) {
		recs, err := DecodeRecords(strings.NewReader(`{"_id": "a1", "author_name": "Martin Fowler"}`))
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "a1", recs[0].ID())
	})

	t.Run("array", func(t *testing.T) {
		recs, err := DecodeRecords(strings.NewReader(`[{"_id": "a1"}, {"_id": "a2"}]`))
		require.NoError(t, err)
		require.Len(t, recs, 2)
		assert.Equal(t, "a2", recs[1].ID())
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := DecodeRecords(strings.NewReader("  "))
		assert.Error(t, err)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := DecodeRecords(strings.NewReader(`[{"_id": }]`))
		assert.Error(t, err)
	})
}
