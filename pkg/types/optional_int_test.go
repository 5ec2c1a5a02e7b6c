package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalIntUnmarshal(t *testing.T) {
	type payload struct {
		Qty OptionalInt `json:"qty"`
	}

	tests := []struct {
		name    string
		body    string
		present bool
		valid   bool
		value   int
	}{
		{name: "absent", body: `{}`},
		{name: "null", body: `{"qty": null}`},
		{name: "number", body: `{"qty": 12}`, present: true, valid: true, value: 12},
		{name: "fraction truncates", body: `{"qty": 7.9}`, present: true, valid: true, value: 7},
		{name: "numeric string", body: `{"qty": " 15 "}`, present: true, valid: true, value: 15},
		{name: "negative", body: `{"qty": -4}`, present: true, valid: true, value: -4},
		{name: "garbage string", body: `{"qty": "lots"}`, present: true},
		{name: "bool", body: `{"qty": true}`, present: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got payload
			require.NoError(t, json.Unmarshal([]byte(tt.body), &got))
			assert.Equal(t, tt.present, got.Qty.Present)
			assert.Equal(t, tt.valid, got.Qty.Valid)
			assert.Equal(t, tt.value, got.Qty.Value)
		})
	}
}

func TestOptionalIntOrAndMarshal(t *testing.T) {
	assert.Equal(t, 5, OptionalInt{}.Or(5))
	assert.Equal(t, 3, IntOf(3).Or(5))

	out, err := json.Marshal(struct {
		A OptionalInt `json:"a"`
		B OptionalInt `json:"b"`
	}{A: IntOf(2)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2,"b":null}`, string(out))
}
