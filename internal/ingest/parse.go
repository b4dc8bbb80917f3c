package ingest

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// dateLayouts are tried in order; day-first formats come first because both
// source systems emit Brazilian-style dates.
var dateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02/01/06",
	"2/1/06",
	"02-01-2006",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"2006-01-02 15:04:05",
}

// parseDate parses a formatted cell into a calendar date. Numeric cells are
// treated as Excel serial dates. Returns nil when nothing fits.
func parseDate(cell string) *time.Time {
	s := strings.TrimSpace(cell)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &t
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &t
		}
	}
	return nil
}

// parseAmount parses a currency cell. Handles both decimal-comma ("1.234,56",
// "500,10") and decimal-point ("1234.56") notations plus a leading currency
// symbol. Returns nil when unparseable.
func parseAmount(cell string) *decimal.Decimal {
	s := strings.TrimSpace(cell)
	s = strings.TrimPrefix(s, "R$")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return nil
	}

	dot := strings.LastIndex(s, ".")
	comma := strings.LastIndex(s, ",")
	switch {
	case dot >= 0 && comma >= 0 && comma > dot:
		// 1.234,56 -> 1234.56
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case dot >= 0 && comma >= 0:
		// 1,234.56 -> 1234.56
		s = strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		s = strings.ReplaceAll(s, ",", ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}
