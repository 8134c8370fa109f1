package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Number coerces an arbitrary decoded JSON value to a finite number.
//
//	nil, "" and unparsable strings -> 0
//	strings                        -> leading base-10 integer ("2250.75" -> 2250, "12abc" -> 12)
//	numbers                        -> passed through
//	booleans                       -> 1 / 0
//
// Negative values are not clamped.
func Number(v any) float64 {
	switch t := v.(type) {
	case nil:
		return 0
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0
		}
		return finite(f)
	case float64:
		return finite(t)
	case float32:
		return finite(float64(t))
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		return float64(leadingInt(t))
	case bool:
		if t {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// Int is Number truncated toward zero.
func Int(v any) int64 {
	return int64(math.Trunc(Number(v)))
}

func leadingInt(s string) int64 {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
