package domain

import "github.com/shopspring/decimal"

// Product representa um produto fornecido por um Supplier.
type Product struct {
	ID           int64           `json:"id,omitempty"`
	Name         string          `json:"name" validate:"notblank,max=100"`
	Value        decimal.Decimal `json:"value" validate:"dgt0"`
	Quantity     int             `json:"quantity" validate:"gt=0"`
	SupplierID   int64           `json:"supplierId" validate:"required"`
	SupplierName string          `json:"supplierName,omitempty"`
}

// ProductFilter é o filtro das listagens de produtos (global ou aninhada em um fornecedor).
type ProductFilter struct {
	SearchTerm string
}
