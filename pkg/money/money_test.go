package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromFloat(t *testing.T) {
	assert.Equal(t, Cents(19990), FromFloat(199.90))
	assert.Equal(t, Cents(100), FromFloat(1.0))
	assert.Equal(t, Cents(0), FromFloat(0))
	assert.Equal(t, Cents(1), FromFloat(0.005))
	assert.Equal(t, Cents(-19990), FromFloat(-199.90))
}

func TestFloat(t *testing.T) {
	assert.InDelta(t, 199.90, Cents(19990).Float(), 0.0001)
	assert.InDelta(t, 0.01, Cents(1).Float(), 0.0001)
}

func TestSplitEven(t *testing.T) {
	tests := []struct {
		name     string
		amount   Cents
		n        int
		expected Cents
	}{
		{"exact division", 30000, 3, 10000},
		{"rounds up", 10000, 3, 3333},
		{"rounds half up", 10001, 2, 5001},
		{"single installment", 19990, 1, 19990},
		{"six installments", 25050, 6, 4175},
		{"zero parts", 10000, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.amount.SplitEven(tt.n))
		})
	}
}

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		amount   Cents
		expected string
	}{
		{0, "R$ 0,00"},
		{1, "R$ 0,01"},
		{19990, "R$ 199,90"},
		{123456, "R$ 1.234,56"},
		{100000000, "R$ 1.000.000,00"},
		{-19990, "-R$ 199,90"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.amount.FormatBRL())
		})
	}
}
