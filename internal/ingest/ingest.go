// Package ingest turns the two heterogeneous spreadsheet uploads into
// normalized ledgers. The journal export (Diário layout) is read through
// best-effort header detection with a positional fallback; the WBA feed
// requires a resolvable header. Everything downstream only ever sees
// ledger.Record.
package ingest

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ErrColumnMapping reports a WBA sheet whose required columns could not be
// identified from the header row.
var ErrColumnMapping = errors.New("unable to map required columns")

// firstSheetRows reads every row of the workbook's first sheet as formatted
// strings. Rows may be ragged; callers index through cellAt.
func firstSheetRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// cellAt returns the trimmed-by-excelize cell value or "" past the row end.
func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
