package format_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"stockify/internal/pkg/format"
)

func TestCNPJ(t *testing.T) {
	assert.Equal(t, "12.345.678/0001-90", format.CNPJ("12345678000190"))
	assert.Equal(t, "12.345.678/0001-90", format.CNPJ("12.345.678/0001-90"))
	assert.Equal(t, "123", format.CNPJ("123"))
}

func TestPhone(t *testing.T) {
	assert.Equal(t, "(11) 98765-4321", format.Phone("11987654321"))
	assert.Equal(t, "(11) 3456-7890", format.Phone("1134567890"))
	assert.Equal(t, "(11) 98765-4321", format.Phone("(11) 98765-4321"))
	assert.Equal(t, "12345", format.Phone("12345"))
}

func TestCurrency(t *testing.T) {
	assert.Equal(t, "R$ 12,50", format.Currency(decimal.RequireFromString("12.5")))
	assert.Contains(t, format.Currency(decimal.RequireFromString("1234.5")), "234,50")
}

func TestDateTime(t *testing.T) {
	ts := time.Date(2024, time.May, 17, 14, 30, 0, 0, time.Local)
	assert.Equal(t, "17/05/2024 14:30", format.DateTime(ts))
	assert.Equal(t, "17/05/2024", format.Date(ts))
	assert.Equal(t, "-", format.DateTime(time.Time{}))
}
