package ingest

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// workbook builds an in-memory xlsx with the given rows on the first sheet.
func workbook(t *testing.T, rows [][]interface{}) io.Reader {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func TestReadJournal_HeaderLayout(t *testing.T) {
	r := workbook(t, [][]interface{}{
		{"Data", "Conta Débito", "Conta Crédito", "Histórico", "Valor"},
		{"01/03/2024", "111", "222", "pagamento fornecedor", "500,00"},
		{"02/03/2024", "111", "222", "tarifa", "1.234,56"},
		{"", "111", "222", "sem data", "10,00"}, // dropped: no date
	})

	l, err := ReadJournal(r, nil)
	require.NoError(t, err)

	require.Equal(t, 2, l.Len())
	assert.Equal(t, 1, l.Dropped)
	assert.Equal(t, "111", l.Records[0].DebitAccount)
	assert.Equal(t, int64(50000), l.Records[0].AmountMinor)
	assert.Equal(t, int64(123456), l.Records[1].AmountMinor)
	assert.Equal(t, "pagamento fornecedor", l.Records[0].Description)
}

func TestReadJournal_PositionalFallback(t *testing.T) {
	// No usable header: Diário positional layout, every row is data.
	// A=date, D=debit, F/G=credit, I=desc, N/O=amount.
	row1 := make([]interface{}, 15)
	row1[0] = "01/03/2024"
	row1[3] = "111"
	row1[5] = "222"
	row1[8] = "pagamento"
	row1[13] = "500,00"

	row2 := make([]interface{}, 15)
	row2[0] = "02/03/2024"
	row2[3] = "333"
	row2[6] = "444" // credit falls back to column G
	row2[8] = "tarifa"
	row2[14] = "80,10" // amount falls back to column O

	l, err := ReadJournal(workbook(t, [][]interface{}{row1, row2}), nil)
	require.NoError(t, err)

	require.Equal(t, 2, l.Len())
	assert.Equal(t, "222", l.Records[0].CreditAccount)
	assert.Equal(t, "444", l.Records[1].CreditAccount)
	assert.Equal(t, int64(8010), l.Records[1].AmountMinor)
}

func TestReadJournal_EmptySheet(t *testing.T) {
	l, err := ReadJournal(workbook(t, nil), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, l.Len())
}

func TestReadWBA_MapsColumnsAndStripsEquals(t *testing.T) {
	r := workbook(t, [][]interface{}{
		{"Cta.Deb", "Cta.C.Partida", "Vlr.Lançamento", "Data", "Histórico"},
		{"111", "222", "500,00", "01/03/2024", "= pagamento fornecedor"},
		{"10018.0", "222", "80,00", "02/03/2024", "tarifa"},
	})

	l, err := ReadWBA(r, nil)
	require.NoError(t, err)

	require.Equal(t, 2, l.Len())
	assert.Equal(t, "pagamento fornecedor", l.Records[0].Description)
	assert.Equal(t, "10018", l.Records[1].DebitAccount) // float formatting cleaned
}

func TestReadWBA_UnmappableHeader(t *testing.T) {
	r := workbook(t, [][]interface{}{
		{"Foo", "Bar", "Baz"},
		{"1", "2", "3"},
	})

	_, err := ReadWBA(r, nil)
	assert.ErrorIs(t, err, ErrColumnMapping)
}

func TestReadWBA_DropsNonPositiveAmounts(t *testing.T) {
	r := workbook(t, [][]interface{}{
		{"Cta.Deb", "Cta.Cred", "Valor", "Data", "Hist"},
		{"111", "222", "0,00", "01/03/2024", "zero"},
		{"111", "222", "-5,00", "01/03/2024", "negative"},
		{"111", "222", "1,00", "01/03/2024", "ok"},
	})

	l, err := ReadWBA(r, nil)
	require.NoError(t, err)

	require.Equal(t, 1, l.Len())
	assert.Equal(t, 2, l.Dropped)
	assert.Equal(t, "ok", l.Records[0].Description)
}

func TestParseAmountFormats(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"500,00", "500.00", true},
		{"1.234,56", "1234.56", true},
		{"1,234.56", "1234.56", true},
		{"1234.56", "1234.56", true},
		{"R$ 12,30", "12.30", true},
		{"abc", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got := parseAmount(tt.in)
		if !tt.ok {
			assert.Nil(t, got, "input %q", tt.in)
			continue
		}
		require.NotNil(t, got, "input %q", tt.in)
		assert.Equal(t, tt.want, got.StringFixed(2), "input %q", tt.in)
	}
}

func TestParseDateFormats(t *testing.T) {
	for _, in := range []string{"01/03/2024", "1/3/2024", "2024-03-01", "01-03-2024"} {
		got := parseDate(in)
		require.NotNil(t, got, "input %q", in)
		assert.Equal(t, "2024-03-01", got.Format("2006-01-02"), "input %q", in)
	}
	assert.Nil(t, parseDate("not a date"))
	assert.Nil(t, parseDate(""))
}
