package format

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumberThresholds(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		ctx  Context
		want string
	}{
		{"below thousand", 999, Compact, "999"},
		{"zero", 0, Compact, "0"},
		{"comma tier", 1234, Compact, "1,234"},
		{"comma tier full", 1234, Full, "1,234"},
		{"ten thousand compact", 29209, Compact, "29K"},
		{"ten thousand full", 29209, Full, "29,209"},
		{"hundred thousand rounds up", 188500, Compact, "189K"},
		{"hundred thousand ignores full", 188500, Full, "189K"},
		{"exact boundary", 10000, Compact, "10K"},
		{"compact rounding", 10500, Compact, "11K"},
		{"currency context behaves like compact for counts", 10730, Currency, "11K"},
		{"millions", 1250000, Compact, "1250K"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Number(tt.in, tt.ctx))
		})
	}
}

func TestMoneyTiers(t *testing.T) {
	assert.Equal(t, "$11K", Money(10500, Compact))
	assert.Equal(t, "$10,500", Money(10500, Currency))
	assert.Equal(t, "$10,500", Money(10500, Full))
	assert.Equal(t, "$189K", Money(188500, Currency))
	assert.Equal(t, "$2,250", Money(2250, Currency))
	assert.Equal(t, "$999", Money(999, Compact))
	assert.Equal(t, "$0", Money(0, Currency))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "0.86%", Percent(252, 29209))
	assert.Equal(t, "100.00%", Percent(5, 5))
	assert.Equal(t, "0.00%", Percent(3, 0))
	assert.Equal(t, "0.00%", Percent(0, 0))
}

func TestRatioNeverLeaksNaN(t *testing.T) {
	assert.Equal(t, 0.0, Ratio(1, 0))
	assert.Equal(t, 0.0, Ratio(math.NaN(), 4))
	assert.Equal(t, 0.25, Ratio(1, 4))
}

func TestWithCommas(t *testing.T) {
	assert.Equal(t, "1,000", WithCommas(1000))
	assert.Equal(t, "123,456,789", WithCommas(123456789))
	assert.Equal(t, "-1,234", WithCommas(-1234))
	assert.Equal(t, "1,234.5", WithCommas(1234.5))
	assert.Equal(t, "12", WithCommas(12))
}

func TestParseContext(t *testing.T) {
	assert.Equal(t, Full, ParseContext("FULL"))
	assert.Equal(t, Currency, ParseContext("currency"))
	assert.Equal(t, Compact, ParseContext(""))
	assert.Equal(t, "full", Full.String())
}
