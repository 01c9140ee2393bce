package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatInvoiceNumber(t *testing.T) {
	tests := []struct {
		year, seq int
		want      string
	}{
		{2025, 1, "2025-000001"},
		{2025, 123, "2025-000123"},
		{2026, 999999, "2026-999999"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatInvoiceNumber(tt.year, tt.seq))
	}
}

func TestParseInvoiceNumber(t *testing.T) {
	year, seq, err := ParseInvoiceNumber("2025-000123")
	require.NoError(t, err)
	assert.Equal(t, 2025, year)
	assert.Equal(t, 123, seq)
}

func TestParseInvoiceNumber_Invalid(t *testing.T) {
	for _, in := range []string{"", "2025", "2025-123", "25-000123", "abcd-000001", "2025-00000x", "2025-000000"} {
		_, _, err := ParseInvoiceNumber(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestPieceNumber(t *testing.T) {
	assert.Equal(t, "VE-2025-000123", PieceNumber("VE", "2025-000123"))
}

func TestFormatLineID(t *testing.T) {
	tests := []struct {
		piece string
		line  int
		want  string
	}{
		{"VE-2025-000001", 0, "VE-2025-000001a"},
		{"VE-2025-000001", 1, "VE-2025-000001b"},
		{"HA-2025-000001", 2, "HA-2025-000001c"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatLineID(tt.piece, tt.line))
	}
}

func TestPieceOf(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"VE-2025-000001a", "VE-2025-000001"},
		{"VE-2025-000001", "VE-2025-000001"},
		{"OD-2025-000004abc", "OD-2025-000004"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PieceOf(tt.in), "PieceOf(%q)", tt.in)
	}
}
