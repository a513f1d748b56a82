package domain

import "github.com/shopspring/decimal"

// Sale é o registro de uma venda feita a partir de uma posição de estoque.
type Sale struct {
	ID               int64           `json:"id,omitempty"`
	StockID          int64           `json:"stockId" validate:"required"`
	Quantity         int             `json:"quantity" validate:"gt=0"`
	ProductName      string          `json:"productName,omitempty"`
	StockValueAtSale decimal.Decimal `json:"stockValueAtSale"`
	SaleDate         Timestamp       `json:"saleDate"`
}

// SoldItem é uma linha do relatório de itens vendidos (agregado por produto/dia).
type SoldItem struct {
	ProductID         int64           `json:"productId"`
	ProductName       string          `json:"productName"`
	SupplierName      string          `json:"supplierName"`
	TotalQuantitySold int64           `json:"totalQuantitySold"`
	StockValueAtSale  decimal.Decimal `json:"stockValueAtSale"`
	SaleDate          Timestamp       `json:"saleDate"`
}

// BestSellingItem é um item do ranking de mais vendidos.
type BestSellingItem struct {
	ProductName       string `json:"productName"`
	TotalQuantitySold int64  `json:"totalQuantitySold"`
}

// DailySales é o total vendido em um dia.
type DailySales struct {
	SaleDate          Timestamp `json:"saleDate"`
	TotalQuantitySold int64     `json:"totalQuantitySold"`
}

// SoldItemsFilter é o filtro da tela de itens vendidos.
// Datas no formato "2006-01-02"; vazias significam "sem limite".
type SoldItemsFilter struct {
	Query      string
	SupplierID int64
	StartDate  string
	EndDate    string
}

// SaleFilter é o filtro da listagem de vendas.
type SaleFilter struct {
	SearchTerm string
}
