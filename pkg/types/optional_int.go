package types

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// OptionalInt is a lenient integer JSON field. It accepts numbers and numeric
// strings; anything else leaves Valid false so the caller can fall back to a
// default instead of rejecting the payload.
type OptionalInt struct {
	Present bool
	Valid   bool
	Value   int
}

// IntOf builds a valid OptionalInt.
func IntOf(v int) OptionalInt {
	return OptionalInt{Present: true, Valid: true, Value: v}
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *OptionalInt) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	*o = OptionalInt{}
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	o.Present = true

	var raw any
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil
	}

	switch v := raw.(type) {
	case float64:
		o.assign(v)
	case string:
		s := strings.TrimSpace(v)
		if n, err := strconv.Atoi(s); err == nil {
			o.Valid, o.Value = true, n
		} else if f, err := strconv.ParseFloat(s, 64); err == nil {
			o.assign(f)
		}
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (o OptionalInt) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(o.Value)), nil
}

// Or returns the value when valid, def otherwise.
func (o OptionalInt) Or(def int) int {
	if o.Valid {
		return o.Value
	}
	return def
}

func (o *OptionalInt) assign(f float64) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt32 || f < math.MinInt32 {
		return
	}
	o.Valid, o.Value = true, int(math.Trunc(f))
}
