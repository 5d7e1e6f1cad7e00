package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"trading-journal-go/internal/models"
)

// Error codes attached to row-level import errors.
const (
	CodeEmptyField   = "EMPTY_FIELD"
	CodeBadColumns   = "COLUMN_MISMATCH"
	CodeBadDate      = "INVALID_DATE"
	CodeBadDirection = "INVALID_DIRECTION"
	CodeBadNumber    = "INVALID_NUMBER"
	CodeBadStatus    = "INVALID_STATUS"
)

// RowError describes why a single row was rejected. Failing rows are
// skipped and recorded as warnings; they never abort the rest of the
// file.
type RowError struct {
	Row     int
	Field   string
	Code    string
	Message string
}

func (e *RowError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("row %d: %s", e.Row, e.Message)
	}
	return fmt.Sprintf("row %d, field %q: %s", e.Row, e.Field, e.Message)
}

// ParsedRow is the typed intermediate form of one CSV line, prior to
// conversion into the canonical trade record.
type ParsedRow struct {
	TradeID    string
	Timestamp  time.Time
	Asset      string
	Timeframe  string
	Direction  string // "call" or "put"
	CandleTime string
	EntryPrice float64
	ExitPrice  float64
	Amount     float64
	Refunded   float64
	Executed   float64
	Status     string // "WIN" or "LOSE"
	Profit     float64
}

// dateLayouts lists the timestamp formats observed in platform exports,
// tried in order.
var dateLayouts = []string{
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseRow converts one raw record into a ParsedRow. row is the 1-based
// data row number used for error attribution. A structurally mismatched
// record (wrong column count) is rejected before any field validation.
func ParseRow(record []string, cols ColumnIndex, row int) (*ParsedRow, *RowError) {
	if len(record) != cols.Width {
		return nil, &RowError{
			Row:     row,
			Code:    CodeBadColumns,
			Message: fmt.Sprintf("expected %d columns, got %d", cols.Width, len(record)),
		}
	}

	p := &ParsedRow{}

	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"ID", &p.TradeID},
		{"Ativo", &p.Asset},
		{"Tempo", &p.Timeframe},
		{"Vela", &p.CandleTime},
	} {
		v := cols.get(record, f.name)
		if v == "" {
			return nil, &RowError{Row: row, Field: f.name, Code: CodeEmptyField, Message: "value is empty"}
		}
		*f.dst = v
	}

	ts, err := parseDate(cols.get(record, "Data"))
	if err != nil {
		return nil, &RowError{Row: row, Field: "Data", Code: CodeBadDate, Message: err.Error()}
	}
	p.Timestamp = ts

	switch strings.ToUpper(cols.get(record, "Previsão")) {
	case "BULL":
		p.Direction = models.DirectionCall
	case "BEAR":
		p.Direction = models.DirectionPut
	default:
		return nil, &RowError{
			Row:     row,
			Field:   "Previsão",
			Code:    CodeBadDirection,
			Message: fmt.Sprintf("unknown direction %q, want BULL or BEAR", cols.get(record, "Previsão")),
		}
	}

	for _, f := range []struct {
		name string
		dst  *float64
	}{
		{"P. ABRT", &p.EntryPrice},
		{"P. FECH", &p.ExitPrice},
	} {
		v, err := parseMoney(cols.get(record, f.name))
		if err != nil || v <= 0 {
			return nil, &RowError{
				Row:     row,
				Field:   f.name,
				Code:    CodeBadNumber,
				Message: fmt.Sprintf("%q is not a price greater than zero", cols.get(record, f.name)),
			}
		}
		*f.dst = v
	}

	for _, f := range []struct {
		name string
		dst  *float64
	}{
		{"Valor", &p.Amount},
		{"Estornado", &p.Refunded},
		{"Executado", &p.Executed},
	} {
		v, err := parseMoney(cols.get(record, f.name))
		if err != nil || v < 0 {
			return nil, &RowError{
				Row:     row,
				Field:   f.name,
				Code:    CodeBadNumber,
				Message: fmt.Sprintf("%q is not a non-negative amount", cols.get(record, f.name)),
			}
		}
		*f.dst = v
	}

	// Profit may be negative and is parsed leniently.
	profit, err := parseMoney(cols.get(record, "Resultado"))
	if err != nil {
		return nil, &RowError{
			Row:     row,
			Field:   "Resultado",
			Code:    CodeBadNumber,
			Message: fmt.Sprintf("%q is not a number", cols.get(record, "Resultado")),
		}
	}
	p.Profit = profit

	switch strings.ToUpper(cols.get(record, "Status")) {
	case models.StatusWin:
		p.Status = models.StatusWin
	case models.StatusLose:
		p.Status = models.StatusLose
	default:
		return nil, &RowError{
			Row:     row,
			Field:   "Status",
			Code:    CodeBadStatus,
			Message: fmt.Sprintf("unknown status %q, want WIN or LOSE", cols.get(record, "Status")),
		}
	}

	return p, nil
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

// currencySymbols are stripped before numeric parsing. US$ must precede $
// so the longer symbol is removed first.
var currencySymbols = []string{"R$", "US$", "$", "€"}

// parseMoney normalizes a currency-formatted value and parses it exactly.
// Currency symbols, spaces and thousands separators are stripped. The
// source is a Brazilian export, so "1.234,56" reads as 1234.56 and a
// lone comma is a decimal separator; plain "1,234.56" style input is
// accepted too.
func parseMoney(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	for _, sym := range currencySymbols {
		s = strings.ReplaceAll(s, sym, "")
	}
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")

	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")
	switch {
	case hasComma && hasDot:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			// pt-BR: dots group thousands, comma is the decimal mark.
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasComma:
		if strings.Count(s, ",") == 1 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", raw)
	}
	return d.InexactFloat64(), nil
}
