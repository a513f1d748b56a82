package domain

import "github.com/shopspring/decimal"

// Stock representa a posição de estoque de um produto.
type Stock struct {
	ID           int64           `json:"id,omitempty"`
	ProductID    int64           `json:"productId" validate:"required"`
	ProductName  string          `json:"productName,omitempty"`
	SupplierID   int64           `json:"supplierId,omitempty"`
	SupplierName string          `json:"supplierName,omitempty"`
	Quantity     int             `json:"quantity" validate:"gte=0"`
	Value        decimal.Decimal `json:"value" validate:"dgt0"`
	Available    bool            `json:"available"`
}

// StockFilter é o filtro da tela de estoque.
// Zero em SupplierID significa "todos". As faixas só são enviadas com Ranged=true.
type StockFilter struct {
	Query       string
	SupplierID  int64
	Ranged      bool
	MinQuantity int
	MaxQuantity int
	MinValue    decimal.Decimal
	MaxValue    decimal.Decimal
}

// StockLimits são os máximos usados para semear os filtros de faixa.
type StockLimits struct {
	MaxQuantity int             `json:"maxQuantity"`
	MaxValue    decimal.Decimal `json:"maxValue"`
}

// StockSummary é o resumo exibido no dashboard.
type StockSummary struct {
	TotalProducts    int64 `json:"totalProducts"`
	ZeroQuantity     int64 `json:"zeroQuantity"`
	AboveThreshold   int64 `json:"aboveThreshold"`
	BetweenThreshold int64 `json:"betweenThreshold"`
}

// ReportLevel identifica os relatórios de estoque por faixa de quantidade.
type ReportLevel string

const (
	ReportCritical   ReportLevel = "critical"
	ReportLow        ReportLevel = "low"
	ReportAdequate   ReportLevel = "adequate"
	ReportOutOfStock ReportLevel = "out"
)

// ReportFilter é o filtro comum aos relatórios de estoque.
type ReportFilter struct {
	Query      string
	SupplierID int64
}
