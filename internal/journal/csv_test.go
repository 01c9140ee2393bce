package journal

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/fiscal/internal/model"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func salePosting(invoice string, day int) model.Posting {
	return model.Posting{
		Journal:       model.JournalSales,
		Piece:         "VE-" + invoice,
		Date:          date(2025, 1, day),
		TransactionID: "tx-" + invoice,
		Debits:        []model.Line{{Account: "411", Label: "subscription " + invoice, Amount: 10000}},
		Credits: []model.Line{
			{Account: "706", Label: "subscription " + invoice, Amount: 8333},
			{Account: "44571", Label: "VAT 20%", Amount: 1667},
		},
	}
}

func TestFlatten(t *testing.T) {
	rows := Flatten(salePosting("2025-000001", 3))
	require.Len(t, rows, 3)
	assert.Equal(t, "VE-2025-000001a", rows[0].LineID)
	assert.Equal(t, model.Amount(10000), rows[0].Debit)
	assert.Zero(t, rows[0].Credit)
	assert.Equal(t, "VE-2025-000001c", rows[2].LineID)
	assert.Equal(t, "44571", rows[2].Account)
	assert.Equal(t, model.Amount(1667), rows[2].Credit)
}

func TestAssemble(t *testing.T) {
	a, b := salePosting("2025-000001", 3), salePosting("2025-000002", 4)
	rows := append(Flatten(a), Flatten(b)...)
	assert.Equal(t, []model.Posting{a, b}, Assemble(rows))
}

func TestRoundTrip(t *testing.T) {
	rows := append(Flatten(salePosting("2025-000001", 3)), Flatten(salePosting("2025-000002", 4))...)

	var buf bytes.Buffer
	require.NoError(t, WriteRows(&buf, rows))
	assert.True(t, strings.HasPrefix(buf.String(), Header+"\n"))
	assert.Contains(t, buf.String(), "VE-2025-000001a,VE,2025-01-03,tx-2025-000001,411,subscription 2025-000001,100.00,\n")

	got, err := ReadRows(&buf)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestAppendRows_NoHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, AppendRows(&buf, Flatten(salePosting("2025-000001", 3))))
	assert.False(t, strings.HasPrefix(buf.String(), Header))
	assert.Equal(t, 3, strings.Count(buf.String(), "\n"))
}

func TestReadRows_Empty(t *testing.T) {
	rows, err := ReadRows(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, rows)
}

func TestUnmarshalRow_Errors(t *testing.T) {
	tests := []struct {
		name string
		rec  []string
		want string
	}{
		{"fields", []string{"a", "b"}, "expected 8 fields"},
		{"date", []string{"VE-2025-000001a", "VE", "03/01/2025", "tx", "411", "", "1.00", ""}, "parsing date"},
		{"amount", []string{"VE-2025-000001a", "VE", "2025-01-03", "tx", "411", "", "x", ""}, "debit"},
		{"both", []string{"VE-2025-000001a", "VE", "2025-01-03", "tx", "411", "", "1.00", "1.00"}, "exactly one"},
		{"neither", []string{"VE-2025-000001a", "VE", "2025-01-03", "tx", "411", "", "", ""}, "exactly one"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalRow(tt.rec)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
