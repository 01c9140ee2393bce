package id

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatInvoiceNumber returns an invoice number like "2025-000123".
func FormatInvoiceNumber(year, seq int) string {
	return fmt.Sprintf("%04d-%06d", year, seq)
}

// ParseInvoiceNumber parses "2025-000123" into year and sequence.
func ParseInvoiceNumber(s string) (year, seq int, err error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 6 {
		return 0, 0, fmt.Errorf("invalid invoice number format: %q", s)
	}

	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year in invoice number %q: %w", s, err)
	}

	seq, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid sequence in invoice number %q: %w", s, err)
	}
	if seq < 1 {
		return 0, 0, fmt.Errorf("invalid sequence in invoice number %q", s)
	}

	return year, seq, nil
}

// PieceNumber derives a posting piece number from a journal code and an
// invoice number: ("VE", "2025-000123") -> "VE-2025-000123".
func PieceNumber(journal, invoice string) string {
	return journal + "-" + invoice
}

// FormatLineID returns a line ID like "VE-2025-000123a" (line 0='a', 1='b', etc.).
func FormatLineID(piece string, line int) string {
	return piece + string(rune('a'+line))
}

// PieceOf strips the line suffix from a line ID.
// "VE-2025-000123b" -> "VE-2025-000123"
func PieceOf(lineID string) string {
	if len(lineID) == 0 {
		return ""
	}
	i := len(lineID)
	for i > 0 && lineID[i-1] >= 'a' && lineID[i-1] <= 'z' {
		i--
	}
	return lineID[:i]
}
