package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want *float64
		nilV bool
	}{
		{name: "plain decimal", in: "0.0125", want: f(0.0125)},
		{name: "us thousands", in: "1,234.56", want: f(1234.56)},
		{name: "brazilian thousands", in: "1.234,56", want: f(1234.56)},
		{name: "brazilian decimal", in: "12,5", want: f(12.5)},
		{name: "comma thousands no decimals", in: "1,234,567", want: f(1234567)},
		{name: "integer", in: "100", want: f(100)},
		{name: "empty", in: "", nilV: true},
		{name: "words", in: "N/A", nilV: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := parseNumber(tt.in)
			if tt.nilV {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 0.00001)
		})
	}
}

func f(v float64) *float64 { return &v }
