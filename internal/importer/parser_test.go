package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"trading-journal-go/internal/models"
)

// validRecord returns a well-formed record in canonical column order.
// Overrides are applied by column name.
func validRecord(overrides map[string]string) []string {
	values := map[string]string{
		"ID":        "1001",
		"Data":      "02/01/2025 14:30:00",
		"Ativo":     "EURUSD",
		"Tempo":     "5M",
		"Previsão":  "BULL",
		"Vela":      "14:30",
		"P. ABRT":   "1,0845",
		"P. FECH":   "1,0862",
		"Valor":     "R$ 50,00",
		"Estornado": "R$ 0,00",
		"Executado": "R$ 50,00",
		"Status":    "WIN",
		"Resultado": "R$ 42,50",
	}
	for k, v := range overrides {
		values[k] = v
	}
	record := make([]string, len(ExpectedHeaders))
	for i, h := range ExpectedHeaders {
		record[i] = values[h]
	}
	return record
}

func canonicalCols() ColumnIndex {
	return NewColumnIndex(ExpectedHeaders)
}

func TestParseRow_ValidRow(t *testing.T) {
	row, err := ParseRow(validRecord(nil), canonicalCols(), 1)

	assert.Nil(t, err)
	assert.Equal(t, "1001", row.TradeID)
	assert.Equal(t, "EURUSD", row.Asset)
	assert.Equal(t, "5M", row.Timeframe)
	assert.Equal(t, models.DirectionCall, row.Direction)
	assert.Equal(t, "14:30", row.CandleTime)
	assert.InDelta(t, 1.0845, row.EntryPrice, 1e-9)
	assert.InDelta(t, 1.0862, row.ExitPrice, 1e-9)
	assert.InDelta(t, 50.0, row.Amount, 1e-9)
	assert.InDelta(t, 0.0, row.Refunded, 1e-9)
	assert.InDelta(t, 50.0, row.Executed, 1e-9)
	assert.Equal(t, models.StatusWin, row.Status)
	assert.InDelta(t, 42.5, row.Profit, 1e-9)
	assert.Equal(t, time.Date(2025, 1, 2, 14, 30, 0, 0, time.UTC), row.Timestamp)
}

func TestParseRow_Direction(t *testing.T) {
	testCases := []struct {
		name      string
		value     string
		expected  string
		expectErr bool
	}{
		{name: "lowercase bull", value: "bull", expected: models.DirectionCall},
		{name: "uppercase BULL", value: "BULL", expected: models.DirectionCall},
		{name: "mixed case Bear", value: "Bear", expected: models.DirectionPut},
		{name: "uppercase BEAR", value: "BEAR", expected: models.DirectionPut},
		{name: "unknown value", value: "SIDEWAYS", expectErr: true},
		{name: "empty value", value: "", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			row, err := ParseRow(validRecord(map[string]string{"Previsão": tc.value}), canonicalCols(), 3)

			if tc.expectErr {
				assert.NotNil(t, err)
				assert.Equal(t, "Previsão", err.Field)
				assert.Equal(t, CodeBadDirection, err.Code)
				assert.Equal(t, 3, err.Row)
			} else {
				assert.Nil(t, err)
				assert.Equal(t, tc.expected, row.Direction)
			}
		})
	}
}

func TestParseRow_Status(t *testing.T) {
	row, err := ParseRow(validRecord(map[string]string{"Status": "lose", "Resultado": "-50,00"}), canonicalCols(), 1)
	assert.Nil(t, err)
	assert.Equal(t, models.StatusLose, row.Status)
	assert.InDelta(t, -50.0, row.Profit, 1e-9)

	_, err = ParseRow(validRecord(map[string]string{"Status": "DRAW"}), canonicalCols(), 1)
	assert.NotNil(t, err)
	assert.Equal(t, CodeBadStatus, err.Code)
	assert.Equal(t, "Status", err.Field)
}

func TestParseRow_EmptyRequiredField(t *testing.T) {
	_, err := ParseRow(validRecord(map[string]string{"Ativo": "   "}), canonicalCols(), 7)

	assert.NotNil(t, err)
	assert.Equal(t, CodeEmptyField, err.Code)
	assert.Equal(t, "Ativo", err.Field)
	assert.Equal(t, 7, err.Row)
}

func TestParseRow_BadDate(t *testing.T) {
	_, err := ParseRow(validRecord(map[string]string{"Data": "yesterday"}), canonicalCols(), 2)

	assert.NotNil(t, err)
	assert.Equal(t, CodeBadDate, err.Code)
	assert.Equal(t, "Data", err.Field)
}

func TestParseRow_PriceMustBePositive(t *testing.T) {
	for _, value := range []string{"0", "-1,5", "abc"} {
		_, err := ParseRow(validRecord(map[string]string{"P. ABRT": value}), canonicalCols(), 1)
		assert.NotNil(t, err, "value %q should be rejected", value)
		assert.Equal(t, CodeBadNumber, err.Code)
		assert.Equal(t, "P. ABRT", err.Field)
	}
}

func TestParseRow_AmountMustBeNonNegative(t *testing.T) {
	// Zero is fine for amount-like fields.
	row, err := ParseRow(validRecord(map[string]string{"Estornado": "0"}), canonicalCols(), 1)
	assert.Nil(t, err)
	assert.InDelta(t, 0.0, row.Refunded, 1e-9)

	_, err = ParseRow(validRecord(map[string]string{"Valor": "-10,00"}), canonicalCols(), 1)
	assert.NotNil(t, err)
	assert.Equal(t, "Valor", err.Field)
}

func TestParseRow_ColumnCountMismatch(t *testing.T) {
	record := validRecord(nil)[:10]

	_, err := ParseRow(record, canonicalCols(), 4)

	assert.NotNil(t, err)
	assert.Equal(t, CodeBadColumns, err.Code)
	assert.Equal(t, 4, err.Row)
	assert.Empty(t, err.Field)
}

func TestParseMoney(t *testing.T) {
	testCases := []struct {
		name        string
		raw         string
		expected    float64
		expectError bool
	}{
		{name: "plain decimal", raw: "72.5", expected: 72.5},
		{name: "pt-BR currency", raw: "R$ 1.234,56", expected: 1234.56},
		{name: "pt-BR lone comma", raw: "50,00", expected: 50.0},
		{name: "en-US currency", raw: "$1,234.56", expected: 1234.56},
		{name: "en-US thousands only", raw: "1,234,567", expected: 1234567},
		{name: "negative", raw: "-R$ 30,00", expected: -30.0},
		{name: "euro symbol", raw: "€ 12,30", expected: 12.3},
		{name: "integer", raw: "100", expected: 100},
		{name: "garbage", raw: "n/a", expectError: true},
		{name: "empty", raw: "", expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := parseMoney(tc.raw)

			if tc.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.InDelta(t, tc.expected, v, 1e-9)
			}
		})
	}
}

func TestParseDate_Layouts(t *testing.T) {
	for _, raw := range []string{
		"02/01/2025 14:30:00",
		"02/01/2025 14:30",
		"2025-01-02 14:30:00",
		"2025-01-02T14:30:00Z",
	} {
		ts, err := parseDate(raw)
		assert.NoError(t, err, "layout for %q", raw)
		assert.Equal(t, 2025, ts.Year())
		assert.Equal(t, time.January, ts.Month())
		assert.Equal(t, 2, ts.Day())
	}
}
