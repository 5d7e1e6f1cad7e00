package importer

import (
	"fmt"
	"strings"
)

// ExpectedHeaders is the canonical column set of the supported export
// format, in the order the platform writes them.
var ExpectedHeaders = []string{
	"ID", "Data", "Ativo", "Tempo", "Previsão", "Vela",
	"P. ABRT", "P. FECH", "Valor", "Estornado", "Executado",
	"Status", "Resultado",
}

// headerVariants maps each canonical column to spellings seen in older
// exports. Missing-column suggestions are built from this table; no
// fuzzy matching is attempted beyond it.
var headerVariants = map[string][]string{
	"ID":        {"Id", "id", "#"},
	"Data":      {"DATA", "Data/Hora", "Date"},
	"Ativo":     {"ATIVO", "Par", "Asset"},
	"Tempo":     {"TEMPO", "Timeframe", "Expiração"},
	"Previsão":  {"Previsao", "PREVISÃO", "Direção", "Direcao"},
	"Vela":      {"VELA", "Candle"},
	"P. ABRT":   {"P.ABRT", "P. Abrt", "Preço Abertura", "Abertura"},
	"P. FECH":   {"P.FECH", "P. Fech", "Preço Fechamento", "Fechamento"},
	"Valor":     {"VALOR", "Entrada", "Amount"},
	"Estornado": {"ESTORNADO", "Estorno"},
	"Executado": {"EXECUTADO", "Execução"},
	"Status":    {"STATUS", "Situação"},
	"Resultado": {"RESULTADO", "Lucro", "Profit"},
}

// ValidationResult reports how a received header row compares against
// the canonical schema. Extra columns are tolerated and reported as a
// warning; only missing columns make the header invalid.
type ValidationResult struct {
	IsValid        bool     `json:"is_valid"`
	MissingHeaders []string `json:"missing_headers"`
	ExtraHeaders   []string `json:"extra_headers"`
	Suggestions    []string `json:"suggestions"`
}

// ValidateHeaders compares column names against the canonical schema by
// name, ignoring column order and surrounding whitespace.
func ValidateHeaders(headers []string) ValidationResult {
	result := ValidationResult{
		MissingHeaders: []string{},
		ExtraHeaders:   []string{},
		Suggestions:    []string{},
	}

	received := make(map[string]bool, len(headers))
	for _, h := range headers {
		received[strings.TrimSpace(h)] = true
	}

	expected := make(map[string]bool, len(ExpectedHeaders))
	for _, h := range ExpectedHeaders {
		expected[h] = true
		if received[h] {
			continue
		}
		result.MissingHeaders = append(result.MissingHeaders, h)
		if variants, ok := headerVariants[h]; ok {
			result.Suggestions = append(result.Suggestions,
				fmt.Sprintf("column %q not found; known variants: %s", h, strings.Join(variants, ", ")))
		}
	}

	for _, h := range headers {
		name := strings.TrimSpace(h)
		if !expected[name] {
			result.ExtraHeaders = append(result.ExtraHeaders, name)
		}
	}

	result.IsValid = len(result.MissingHeaders) == 0
	return result
}

// ColumnIndex maps canonical column names to their positions in a
// validated header row. Width is the full header length, extra columns
// included, and is used for the structural row check.
type ColumnIndex struct {
	Index map[string]int
	Width int
}

// NewColumnIndex builds the column lookup for a header row that already
// passed validation.
func NewColumnIndex(headers []string) ColumnIndex {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[strings.TrimSpace(h)] = i
	}
	return ColumnIndex{Index: index, Width: len(headers)}
}

func (c ColumnIndex) get(record []string, name string) string {
	return strings.TrimSpace(record[c.Index[name]])
}
