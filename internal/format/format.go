// Package format turns metric values into the short strings shown on cards,
// charts and narrative summaries.
package format

import (
	"math"
	"strconv"
	"strings"
)

// Context selects how aggressively values are compacted.
type Context int

const (
	// Compact prefers K notation from 10,000.
	Compact Context = iota
	// Full keeps comma grouping below 100,000.
	Full
	// Currency is the default money context: K notation only from 100,000.
	Currency
)

func (c Context) String() string {
	switch c {
	case Full:
		return "full"
	case Currency:
		return "currency"
	default:
		return "compact"
	}
}

// ParseContext maps "compact", "full" and "currency"; anything else is Compact.
func ParseContext(s string) Context {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "full":
		return Full
	case "currency":
		return Currency
	default:
		return Compact
	}
}

const (
	thousand        = 1_000
	tenThousand     = 10_000
	hundredThousand = 100_000
)

// Number formats a count.
//
//	< 1,000            as-is
//	1,000 - 9,999      comma grouped
//	10,000 - 99,999    comma grouped for Full, otherwise rounded K
//	>= 100,000         rounded K
func Number(n float64, ctx Context) string {
	n = finite(n)
	m := math.Abs(n)
	switch {
	case m < thousand:
		return plain(n)
	case m < tenThousand:
		return WithCommas(n)
	case m < hundredThousand:
		if ctx == Full {
			return WithCommas(n)
		}
		return WithK(n)
	default:
		return WithK(n)
	}
}

// Money formats a currency amount with a leading "$". Compact switches to K
// notation one tier earlier than the other contexts.
func Money(n float64, ctx Context) string {
	n = finite(n)
	m := math.Abs(n)
	switch {
	case m >= hundredThousand:
		return "$" + WithK(n)
	case m >= tenThousand && ctx == Compact:
		return "$" + WithK(n)
	case m >= thousand:
		return "$" + WithCommas(n)
	default:
		return "$" + plain(n)
	}
}

// Percent renders numerator/denominator*100 with two decimals.
// A zero denominator yields "0.00%".
func Percent(numerator, denominator float64) string {
	return strconv.FormatFloat(Ratio(numerator, denominator)*100, 'f', 2, 64) + "%"
}

// Ratio divides, returning 0 instead of NaN or Inf.
func Ratio(numerator, denominator float64) float64 {
	if denominator == 0 || math.IsNaN(denominator) || math.IsNaN(numerator) {
		return 0
	}
	return finite(numerator / denominator)
}

// WithK rounds to the nearest thousand (half up) and appends "K".
func WithK(n float64) string {
	return strconv.FormatInt(int64(math.Floor(finite(n)/thousand+0.5)), 10) + "K"
}

// WithCommas groups the integer part in threes and keeps up to three fraction digits.
func WithCommas(n float64) string {
	n = finite(n)
	s := strconv.FormatFloat(math.Round(n*1000)/1000, 'f', -1, 64)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	var b strings.Builder
	b.WriteString(sign)
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > len(sign) {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	b.WriteString(frac)
	return b.String()
}

func plain(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func finite(n float64) float64 {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}
