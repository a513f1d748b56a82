package validation_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockify/internal/domain"
	apperror "stockify/internal/errors"
	"stockify/internal/pkg/validation"
)

func validSupplier() domain.Supplier {
	return domain.Supplier{
		Name:        "Parafusos Brasil",
		Email:       "contato@parafusos.com.br",
		CNPJ:        "12.345.678/0001-90",
		Phone:       "(11) 98765-4321",
		ProductType: "Ferragens",
	}
}

func TestStruct_ValidSupplier(t *testing.T) {
	assert.NoError(t, validation.New().Struct(validSupplier()))
}

func TestStruct_SupplierFieldErrors(t *testing.T) {
	s := validSupplier()
	s.Name = "   "
	s.CNPJ = "123"
	s.Phone = "11987654321"

	err := validation.New().Struct(s)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	fields := apperror.FieldErrors(err)
	assert.Equal(t, "Campo obrigatório.", fields["name"])
	assert.Equal(t, "CNPJ deve conter 14 dígitos.", fields["cnpj"])
	assert.Contains(t, fields["phone"], "(99) 99999-9999")
	assert.NotContains(t, fields, "email")
}

func TestStruct_ProductValueMustBePositive(t *testing.T) {
	p := domain.Product{Name: "Parafuso", Value: decimal.Zero, Quantity: 1, SupplierID: 7}

	fields := apperror.FieldErrors(validation.New().Struct(p))
	assert.Equal(t, "Deve ser maior que zero.", fields["value"])

	p.Value = decimal.RequireFromString("0.01")
	assert.NoError(t, validation.New().Struct(p))
}

func TestStruct_StockAllowsZeroQuantity(t *testing.T) {
	s := domain.Stock{ProductID: 3, Quantity: 0, Value: decimal.NewFromInt(10)}
	assert.NoError(t, validation.New().Struct(s))

	s.Quantity = -1
	fields := apperror.FieldErrors(validation.New().Struct(s))
	assert.Equal(t, "Não pode ser negativo.", fields["quantity"])
}

func TestDigits(t *testing.T) {
	assert.Equal(t, "12345678000190", validation.Digits("12.345.678/0001-90"))
	assert.Equal(t, "", validation.Digits("abc"))
}
