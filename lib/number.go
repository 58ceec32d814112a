package lib

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// ToNumber coerces a loosely typed value into a float64.
// Strings are trimmed and parsed, numeric kinds are converted directly.
// nil, empty strings, unparsable values, NaN and infinities return fallback.
func ToNumber(value any, fallback float64) float64 {
	var n float64

	switch v := value.(type) {
	case nil:
		return fallback
	case float64:
		n = v
	case float32:
		n = float64(v)
	case int:
		n = float64(v)
	case int8:
		n = float64(v)
	case int16:
		n = float64(v)
	case int32:
		n = float64(v)
	case int64:
		n = float64(v)
	case uint:
		n = float64(v)
	case uint8:
		n = float64(v)
	case uint16:
		n = float64(v)
	case uint32:
		n = float64(v)
	case uint64:
		n = float64(v)
	case Number:
		n = float64(v)
	case *Number:
		if v == nil {
			return fallback
		}
		n = float64(*v)
	case json.Number:
		return ToNumber(string(v), fallback)
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return fallback
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fallback
		}
		n = parsed
	default:
		return fallback
	}

	if math.IsNaN(n) || math.IsInf(n, 0) {
		return fallback
	}
	return n
}

// Number is a float64 that accepts JSON numbers, numeric strings and null.
// Anything it cannot read decodes as 0 instead of failing the surrounding document.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*n = 0
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*n = 0
			return nil
		}
		*n = Number(ToNumber(s, 0))
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		*n = Number(ToNumber(string(data), 0))
	default:
		// null, booleans, objects and arrays
		*n = 0
	}
	return nil
}

// Float64 returns the value as a plain float64
func (n Number) Float64() float64 {
	return float64(n)
}

// Ptr returns a pointer to the value, handy for optional fields
func (n Number) Ptr() *Number {
	return &n
}
