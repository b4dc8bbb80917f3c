package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/reconlab/wba-recon/internal/application/reconcile"
	"github.com/reconlab/wba-recon/internal/domain/ledger"
	"github.com/reconlab/wba-recon/internal/domain/matcher"
)

func rawRow(date, debit, credit, amount, desc string) ledger.RawRow {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	a := decimal.RequireFromString(amount)
	return ledger.RawRow{
		Date:          &d,
		DebitAccount:  debit,
		CreditAccount: credit,
		Amount:        &a,
		Description:   desc,
	}
}

func runResult(t *testing.T) *reconcile.Result {
	t.Helper()
	journal := ledger.New([]ledger.RawRow{
		rawRow("2024-03-01", "111", "222", "500.00", "pagamento"),
		rawRow("2024-03-05", "100", "200", "80.00", "tarifa"), // divergent legs vs WBA
		rawRow("2024-03-20", "555", "666", "10.00", "avulso"), // residual
	})
	wba := ledger.New([]ledger.RawRow{
		rawRow("2024-03-01", "111", "222", "500.00", "pagamento"),
		rawRow("2024-03-05", "100", "999", "80.00", "tarifa"),
	})
	res, err := reconcile.NewService(nil).Run(context.Background(), journal, wba, matcher.DefaultConfig())
	require.NoError(t, err)
	return res
}

func TestWrite_WorkbookShape(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, runResult(t)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	want := []string{
		"Base_Journal", "Base_WBA",
		"Exact_Matches", "Same_Amount_Near_Date", "Same_Date_Near_Amount",
		"Near_Amount_Near_Date", "Fuzzy_Amount_Date_Desc",
		"Only_Journal", "Only_WBA",
		"DateAmount_AccountDiff",
	}
	assert.Equal(t, want, f.GetSheetList())
}

func TestWrite_DualSheetContents(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, runResult(t)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Exact_Matches")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "ID JOURNAL", rows[0][0])
	assert.Equal(t, "ID WBA", rows[0][6])
	assert.Equal(t, "0", rows[1][0]) // journal id
	assert.Equal(t, "111", rows[1][1])

	// The divergent pair moved off the residual sheet and onto the
	// review sheet.
	onlyJournal, err := f.GetRows("Only_Journal")
	require.NoError(t, err)
	require.Len(t, onlyJournal, 2) // header + one true residual
	assert.Equal(t, "2", onlyJournal[1][0])

	div, err := f.GetRows("DateAmount_AccountDiff")
	require.NoError(t, err)
	require.Len(t, div, 2)
	assert.Equal(t, "1", div[1][2])     // journal id
	assert.Equal(t, "TRUE", div[1][12]) // debit legs agree
}

func TestWrite_EmptyTiersKeepHeaders(t *testing.T) {
	journal := ledger.New(nil)
	wba := ledger.New(nil)
	res, err := reconcile.NewService(nil).Run(context.Background(), journal, wba, matcher.DefaultConfig())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, res))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	for _, ts := range tierSheets {
		rows, err := f.GetRows(ts.name)
		require.NoError(t, err)
		require.Len(t, rows, 1, "sheet %s", ts.name)
		assert.Len(t, rows[0], 12, "sheet %s", ts.name)
	}
}
