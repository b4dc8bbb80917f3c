package divergence

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reconlab/wba-recon/internal/domain/matcher"
	"github.com/reconlab/wba-recon/internal/domain/report"
)

func side(id int, date string, debit, credit, amount string) report.Side {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return report.Side{
		ID:            id,
		DebitAccount:  debit,
		CreditAccount: credit,
		Date:          d,
		Amount:        decimal.RequireFromString(amount),
	}
}

func journalTable(sides ...report.Side) report.Table {
	t := report.Table{Tier: matcher.TierOnlyJournal, Rows: []report.DualRecord{}}
	for i := range sides {
		t.Rows = append(t.Rows, report.DualRecord{Journal: &sides[i]})
	}
	return t
}

func wbaTable(sides ...report.Side) report.Table {
	t := report.Table{Tier: matcher.TierOnlyWBA, Rows: []report.DualRecord{}}
	for i := range sides {
		t.Rows = append(t.Rows, report.DualRecord{WBA: &sides[i]})
	}
	return t
}

func TestDetect_DivergentLegs(t *testing.T) {
	pairs, err := Detect(
		journalTable(side(1, "2024-01-05", "100", "200", "100.00")),
		wbaTable(side(9, "2024-01-05", "100", "999", "100.00")),
	)

	require.NoError(t, err)
	require.Len(t, pairs, 1)
	p := pairs[0]
	assert.Equal(t, 1, p.Journal.ID)
	assert.Equal(t, 9, p.WBA.ID)
	assert.True(t, p.DebitEqual)
	assert.False(t, p.CreditEqual)
}

func TestDetect_AmbiguousKeySkipped(t *testing.T) {
	// Two journal rows and one WBA row on the same (date, amount) key:
	// 2 vs 1 is ambiguous, nothing may be emitted.
	pairs, err := Detect(
		journalTable(
			side(1, "2024-01-05", "100", "200", "100.00"),
			side(2, "2024-01-05", "300", "400", "100.00"),
		),
		wbaTable(side(9, "2024-01-05", "100", "999", "100.00")),
	)

	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestDetect_BothLegsEqualFiltered(t *testing.T) {
	pairs, err := Detect(
		journalTable(side(1, "2024-01-05", "100", "200", "100.00")),
		wbaTable(side(9, "2024-01-05", "100", "200", "100.00")),
	)

	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestDetect_SortedDeterministically(t *testing.T) {
	pairs, err := Detect(
		journalTable(
			side(5, "2024-01-07", "1", "2", "50.00"),
			side(3, "2024-01-05", "1", "2", "80.00"),
			side(4, "2024-01-05", "1", "2", "30.00"),
		),
		wbaTable(
			side(7, "2024-01-07", "2", "9", "50.00"),
			side(8, "2024-01-05", "9", "2", "80.00"),
			side(9, "2024-01-05", "1", "9", "30.00"),
		),
	)

	require.NoError(t, err)
	require.Len(t, pairs, 3)
	assert.Equal(t, 4, pairs[0].Journal.ID) // 01-05 / 30.00
	assert.Equal(t, 3, pairs[1].Journal.ID) // 01-05 / 80.00
	assert.Equal(t, 5, pairs[2].Journal.ID) // 01-07 / 50.00
}

func TestDetect_MalformedResidualTable(t *testing.T) {
	bad := report.Table{Tier: matcher.TierOnlyJournal, Rows: []report.DualRecord{{}}}
	_, err := Detect(bad, wbaTable())
	assert.ErrorIs(t, err, ErrBadResidualShape)

	_, err = Detect(wbaTable(), journalTable())
	assert.ErrorIs(t, err, ErrBadResidualShape)
}

func TestPruneResiduals(t *testing.T) {
	onlyJournal := journalTable(
		side(1, "2024-01-05", "100", "200", "100.00"),
		side(2, "2024-01-06", "100", "200", "40.00"),
	)
	onlyWBA := wbaTable(
		side(9, "2024-01-05", "100", "999", "100.00"),
		side(10, "2024-01-09", "1", "2", "75.00"),
	)
	pairs, err := Detect(onlyJournal, onlyWBA)
	require.NoError(t, err)
	require.Len(t, pairs, 1)

	prunedJournal, prunedWBA := PruneResiduals(onlyJournal, onlyWBA, pairs)

	require.Len(t, prunedJournal.Rows, 1)
	assert.Equal(t, 2, prunedJournal.Rows[0].Journal.ID)
	require.Len(t, prunedWBA.Rows, 1)
	assert.Equal(t, 10, prunedWBA.Rows[0].WBA.ID)
}

func TestPruneResiduals_NoPairsNoChange(t *testing.T) {
	onlyJournal := journalTable(side(1, "2024-01-05", "100", "200", "100.00"))
	onlyWBA := wbaTable()

	prunedJournal, prunedWBA := PruneResiduals(onlyJournal, onlyWBA, nil)

	assert.Equal(t, onlyJournal, prunedJournal)
	assert.Equal(t, onlyWBA, prunedWBA)
}
