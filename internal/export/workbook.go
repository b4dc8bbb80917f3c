// Package export serializes a reconciliation result into the final styled
// workbook: the two normalized base sheets, one dual-area sheet per tier and
// the divergent-account review sheet.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/reconlab/wba-recon/internal/application/reconcile"
	"github.com/reconlab/wba-recon/internal/domain/ledger"
	"github.com/reconlab/wba-recon/internal/domain/matcher"
	"github.com/reconlab/wba-recon/internal/domain/report"
)

// Sheet titles, in workbook order.
const (
	SheetBaseJournal = "Base_Journal"
	SheetBaseWBA     = "Base_WBA"
	SheetDivergence  = "DateAmount_AccountDiff"
)

// tierSheets maps tiers to sheet titles in workbook order.
var tierSheets = []struct {
	tier matcher.Tier
	name string
}{
	{matcher.TierExact, "Exact_Matches"},
	{matcher.TierSameAmountNearDate, "Same_Amount_Near_Date"},
	{matcher.TierSameDateNearAmount, "Same_Date_Near_Amount"},
	{matcher.TierNearAmountNearDate, "Near_Amount_Near_Date"},
	{matcher.TierFuzzy, "Fuzzy_Amount_Date_Desc"},
	{matcher.TierOnlyJournal, "Only_Journal"},
	{matcher.TierOnlyWBA, "Only_WBA"},
}

const (
	fillJournal = "DCE6F1" // blue, journal block
	fillWBA     = "E2EFDA" // green, WBA block
	fmtDate     = "dd/mm/yy"
	fmtMoney    = `"R$ "#,##0.00`
)

// styleSet holds the style IDs registered against one workbook.
type styleSet struct {
	headerBold       int
	headerJournal    int
	headerJournalEnd int // journal header cell carrying the divider border
	headerWBA        int
	headerWBAStart   int
	dividerRight     int
	dividerLeft      int
	date             int
	money            int
}

func registerStyles(f *excelize.File) (styleSet, error) {
	var s styleSet
	var err error

	bold := &excelize.Font{Bold: true}
	vcenter := &excelize.Alignment{Vertical: "center"}
	thickRight := []excelize.Border{{Type: "right", Style: 5, Color: "000000"}}
	thickLeft := []excelize.Border{{Type: "left", Style: 5, Color: "000000"}}
	journalFill := excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fillJournal}}
	wbaFill := excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fillWBA}}
	dateFmt := fmtDate
	moneyFmt := fmtMoney

	if s.headerBold, err = f.NewStyle(&excelize.Style{Font: bold}); err != nil {
		return s, err
	}
	if s.headerJournal, err = f.NewStyle(&excelize.Style{Font: bold, Alignment: vcenter, Fill: journalFill}); err != nil {
		return s, err
	}
	if s.headerJournalEnd, err = f.NewStyle(&excelize.Style{Font: bold, Alignment: vcenter, Fill: journalFill, Border: thickRight}); err != nil {
		return s, err
	}
	if s.headerWBA, err = f.NewStyle(&excelize.Style{Font: bold, Alignment: vcenter, Fill: wbaFill}); err != nil {
		return s, err
	}
	if s.headerWBAStart, err = f.NewStyle(&excelize.Style{Font: bold, Alignment: vcenter, Fill: wbaFill, Border: thickLeft}); err != nil {
		return s, err
	}
	if s.dividerRight, err = f.NewStyle(&excelize.Style{Border: thickRight}); err != nil {
		return s, err
	}
	if s.dividerLeft, err = f.NewStyle(&excelize.Style{Border: thickLeft}); err != nil {
		return s, err
	}
	if s.date, err = f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt}); err != nil {
		return s, err
	}
	if s.money, err = f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFmt}); err != nil {
		return s, err
	}
	return s, nil
}

// Workbook builds the full workbook for a run.
func Workbook(res *reconcile.Result) (*excelize.File, error) {
	f := excelize.NewFile()
	styles, err := registerStyles(f)
	if err != nil {
		return nil, fmt.Errorf("register styles: %w", err)
	}

	if err := f.SetSheetName(f.GetSheetName(0), SheetBaseJournal); err != nil {
		return nil, err
	}
	if err := writeBaseSheet(f, styles, SheetBaseJournal, res.Journal); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SheetBaseWBA); err != nil {
		return nil, err
	}
	if err := writeBaseSheet(f, styles, SheetBaseWBA, res.WBA); err != nil {
		return nil, err
	}

	for _, ts := range tierSheets {
		if _, err := f.NewSheet(ts.name); err != nil {
			return nil, err
		}
		if err := writeDualSheet(f, styles, ts.name, res.Tables[ts.tier]); err != nil {
			return nil, fmt.Errorf("sheet %s: %w", ts.name, err)
		}
	}

	if _, err := f.NewSheet(SheetDivergence); err != nil {
		return nil, err
	}
	if err := writeDivergenceSheet(f, styles, res); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

// Write builds the workbook and streams it to w.
func Write(w io.Writer, res *reconcile.Result) error {
	f, err := Workbook(res)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteTo(w)
	return err
}

var baseColumns = []interface{}{"DATE", "DEBIT ACCT", "CREDIT ACCT", "DESCRIPTION", "AMOUNT"}

func writeBaseSheet(f *excelize.File, styles styleSet, sheet string, l *ledger.Ledger) error {
	if err := f.SetSheetRow(sheet, "A1", &baseColumns); err != nil {
		return err
	}
	for i, rec := range l.Records {
		row := []interface{}{
			rec.Date,
			rec.DebitAccount,
			rec.CreditAccount,
			rec.Description,
			rec.Amount.InexactFloat64(),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	last := len(l.Records) + 1
	if err := f.SetCellStyle(sheet, "A1", "E1", styles.headerBold); err != nil {
		return err
	}
	if last > 1 {
		if err := f.SetCellStyle(sheet, "A2", fmt.Sprintf("A%d", last), styles.date); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "E2", fmt.Sprintf("E%d", last), styles.money); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheet, "A", "A", 12); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "C", 16); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "D", "D", 50); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "E", "E", 14); err != nil {
		return err
	}
	return finishSheet(f, sheet, "E", last)
}

// sideCells renders one side of a dual record; a nil side yields six empty
// cells so residual rows keep the full column shape.
func sideCells(s *report.Side) []interface{} {
	if s == nil {
		return []interface{}{nil, nil, nil, nil, nil, nil}
	}
	return []interface{}{s.ID, s.DebitAccount, s.CreditAccount, s.Date, s.Amount.InexactFloat64(), s.Description}
}

func writeDualSheet(f *excelize.File, styles styleSet, sheet string, table report.Table) error {
	header := make([]interface{}, 0, 12)
	for _, c := range report.Columns() {
		header = append(header, c)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, rec := range table.Rows {
		row := append(sideCells(rec.Journal), sideCells(rec.WBA)...)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	last := len(table.Rows) + 1

	// Header: blue journal block A-F, green WBA block G-L.
	if err := f.SetCellStyle(sheet, "A1", "E1", styles.headerJournal); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "F1", "F1", styles.headerJournalEnd); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "G1", "G1", styles.headerWBAStart); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "H1", "L1", styles.headerWBA); err != nil {
		return err
	}

	if last > 1 {
		// Thick divider between the two blocks, every data row.
		if err := f.SetCellStyle(sheet, "F2", fmt.Sprintf("F%d", last), styles.dividerRight); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "G2", fmt.Sprintf("G%d", last), styles.dividerLeft); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "D2", fmt.Sprintf("D%d", last), styles.date); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "E2", fmt.Sprintf("E%d", last), styles.money); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "J2", fmt.Sprintf("J%d", last), styles.date); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "K2", fmt.Sprintf("K%d", last), styles.money); err != nil {
			return err
		}
	}

	widths := []struct {
		from, to string
		width    float64
	}{
		{"A", "A", 14}, {"B", "C", 16}, {"D", "D", 12}, {"E", "E", 14}, {"F", "F", 40},
		{"G", "G", 14}, {"H", "I", 16}, {"J", "J", 12}, {"K", "K", 14}, {"L", "L", 40},
	}
	for _, w := range widths {
		if err := f.SetColWidth(sheet, w.from, w.to, w.width); err != nil {
			return err
		}
	}
	return finishSheet(f, sheet, "L", last)
}

var divergenceColumns = []interface{}{
	"DATE", "AMOUNT",
	"ID JOURNAL", "DEBIT JOURNAL", "CREDIT JOURNAL", "DESC JOURNAL",
	"ID WBA", "DEBIT WBA", "CREDIT WBA", "DATE WBA", "AMOUNT WBA", "DESC WBA",
	"DEBIT EQUAL", "CREDIT EQUAL",
}

func writeDivergenceSheet(f *excelize.File, styles styleSet, res *reconcile.Result) error {
	sheet := SheetDivergence
	if err := f.SetSheetRow(sheet, "A1", &divergenceColumns); err != nil {
		return err
	}
	for i, p := range res.Divergence {
		row := []interface{}{
			p.Date,
			p.Amount.InexactFloat64(),
			p.Journal.ID, p.Journal.DebitAccount, p.Journal.CreditAccount, p.Journal.Description,
			p.WBA.ID, p.WBA.DebitAccount, p.WBA.CreditAccount, p.WBA.Date, p.WBA.Amount.InexactFloat64(), p.WBA.Description,
			p.DebitEqual, p.CreditEqual,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	last := len(res.Divergence) + 1
	if err := f.SetCellStyle(sheet, "A1", "N1", styles.headerBold); err != nil {
		return err
	}
	if last > 1 {
		if err := f.SetCellStyle(sheet, "A2", fmt.Sprintf("A%d", last), styles.date); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "B2", fmt.Sprintf("B%d", last), styles.money); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "J2", fmt.Sprintf("J%d", last), styles.date); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "K2", fmt.Sprintf("K%d", last), styles.money); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheet, "A", "N", 16); err != nil {
		return err
	}
	return finishSheet(f, sheet, "N", last)
}

// finishSheet freezes the header row and applies the autofilter.
func finishSheet(f *excelize.File, sheet, lastCol string, lastRow int) error {
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}
	return f.AutoFilter(sheet, fmt.Sprintf("A1:%s%d", lastCol, lastRow), nil)
}
