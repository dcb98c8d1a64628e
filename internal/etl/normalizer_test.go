package etl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCurrency(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"us format with symbol", "$1,234.56", 1234.56},
		{"european format with symbol", "1.234,56€", 1234.56},
		{"plain decimal", "2.50", 2.50},
		{"decimal comma", "2,50", 2.50},
		{"integer", "3", 3},
		{"spaces around", "  $12.00  ", 12},
		{"empty", "", 0},
		{"garbage", "n/d", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, NormalizeCurrency(tt.input), 1e-9)
		})
	}
}

func TestNormalizePercent(t *testing.T) {
	assert.InDelta(t, 45.5, NormalizePercent("45,5%"), 1e-9)
	assert.InDelta(t, 12.3, NormalizePercent("12.3"), 1e-9)
	assert.InDelta(t, 7, NormalizePercent(" 7 % "), 1e-9)
	assert.InDelta(t, 0, NormalizePercent("-"), 1e-9)
}

func TestNormalizeInt(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"742", 742},
		{"1.234", 1234},
		{"1,234", 1234},
		{"2.500.000", 2500000},
		{"", 0},
		{"abc", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeInt(tt.input), "input %q", tt.input)
	}
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"7", 7},
		{"5,0", 5},
		{"3.7", 3},
		{"1", 1},
		{"101", 101},
		{"", PositionUnranked},
		{"-", PositionUnranked},
		{"n/d", PositionUnranked},
		{"No está", PositionUnranked},
		{"Not Ranked", PositionUnranked},
		{"0", PositionUnranked},
		{"150", PositionUnranked},
		{"quinto", PositionUnranked},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParsePosition(tt.input), "input %q", tt.input)
	}
}
