package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateHeaders_CanonicalOrder(t *testing.T) {
	result := ValidateHeaders(ExpectedHeaders)

	assert.True(t, result.IsValid)
	assert.Empty(t, result.MissingHeaders)
	assert.Empty(t, result.ExtraHeaders)
	assert.Empty(t, result.Suggestions)
}

func TestValidateHeaders_OrderDoesNotMatter(t *testing.T) {
	shuffled := []string{
		"Resultado", "Status", "Executado", "Estornado", "Valor",
		"P. FECH", "P. ABRT", "Vela", "Previsão", "Tempo",
		"Ativo", "Data", "ID",
	}

	result := ValidateHeaders(shuffled)

	assert.True(t, result.IsValid)
	assert.Empty(t, result.MissingHeaders)
	assert.Empty(t, result.ExtraHeaders)
}

func TestValidateHeaders_TrimsWhitespace(t *testing.T) {
	padded := make([]string, len(ExpectedHeaders))
	for i, h := range ExpectedHeaders {
		padded[i] = " " + h + " "
	}

	result := ValidateHeaders(padded)

	assert.True(t, result.IsValid)
}

func TestValidateHeaders_MissingColumns(t *testing.T) {
	// Drop "Previsão" and "Status".
	headers := []string{
		"ID", "Data", "Ativo", "Tempo", "Vela",
		"P. ABRT", "P. FECH", "Valor", "Estornado", "Executado",
		"Resultado",
	}

	result := ValidateHeaders(headers)

	assert.False(t, result.IsValid)
	assert.Equal(t, []string{"Previsão", "Status"}, result.MissingHeaders)
	assert.Empty(t, result.ExtraHeaders)

	// One suggestion line per missing column, naming known variants.
	assert.Len(t, result.Suggestions, 2)
	assert.Contains(t, result.Suggestions[0], "Previsão")
	assert.Contains(t, result.Suggestions[0], "Previsao")
}

func TestValidateHeaders_ExtraColumnsTolerated(t *testing.T) {
	headers := append(append([]string{}, ExpectedHeaders...), "Observação", "Corretora")

	result := ValidateHeaders(headers)

	assert.True(t, result.IsValid)
	assert.Empty(t, result.MissingHeaders)
	assert.Equal(t, []string{"Observação", "Corretora"}, result.ExtraHeaders)
}

func TestNewColumnIndex(t *testing.T) {
	headers := []string{"ID", "Data", "Extra"}
	cols := NewColumnIndex(headers)

	assert.Equal(t, 3, cols.Width)
	assert.Equal(t, 0, cols.Index["ID"])
	assert.Equal(t, 1, cols.Index["Data"])
	assert.Equal(t, "x", cols.get([]string{" x ", "y", "z"}, "ID"))
}
