package endpoint

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"stockify/internal/pkg/envelope"
)

// Endpoint associa uma operação ao método, caminho e formato de resposta.
// Path usa marcadores "{nome}" substituídos em ordem por Expand.
type Endpoint struct {
	Name     string
	Method   string
	Path     string
	Envelope envelope.Spec
}

// Expand substitui os marcadores do caminho pelos argumentos, na ordem.
func (e Endpoint) Expand(args ...interface{}) string {
	path := e.Path
	for _, a := range args {
		start := strings.Index(path, "{")
		end := strings.Index(path, "}")
		if start < 0 || end < start {
			break
		}
		path = path[:start] + url.PathEscape(fmt.Sprint(a)) + path[end+1:]
	}
	return path
}

var (
	hal = func(key string) envelope.Spec { return envelope.Spec{Kind: envelope.HAL, ListKey: key} }

	object     = envelope.Spec{Kind: envelope.Bare}
	bare       = envelope.Spec{Kind: envelope.Bare}
	springPage = envelope.Spec{Kind: envelope.SpringPage}
)

// Autenticação
var (
	AuthSignin  = Endpoint{"auth.signin", http.MethodPost, "/auth/signin", object}
	AuthSignup  = Endpoint{"auth.signup", http.MethodPost, "/auth/signup", object}
	AuthRefresh = Endpoint{"auth.refresh", http.MethodPost, "/auth/refresh-token", object}
)

// Fornecedores
var (
	SupplierList         = Endpoint{"supplier.list", http.MethodGet, "/suppliers", hal("supplierDTOList")}
	SupplierFilter       = Endpoint{"supplier.filter", http.MethodGet, "/suppliers/filter", hal("supplierDTOList")}
	SupplierSearch       = Endpoint{"supplier.search", http.MethodGet, "/suppliers/search", hal("supplierDTOList")}
	SupplierProductTypes = Endpoint{"supplier.productTypes", http.MethodGet, "/suppliers/product-types", bare}
	SupplierGet          = Endpoint{"supplier.get", http.MethodGet, "/suppliers/{id}", object}
	SupplierCreate       = Endpoint{"supplier.create", http.MethodPost, "/suppliers", object}
	SupplierUpdate       = Endpoint{"supplier.update", http.MethodPut, "/suppliers/{id}", object}
	SupplierDelete       = Endpoint{"supplier.delete", http.MethodDelete, "/suppliers/{id}", object}
)

// Produtos
var (
	ProductList             = Endpoint{"product.list", http.MethodGet, "/products", hal("productDTOList")}
	ProductSearch           = Endpoint{"product.search", http.MethodGet, "/products/search", hal("productDTOList")}
	ProductBySupplier       = Endpoint{"product.bySupplier", http.MethodGet, "/products/supplier/{id}", hal("productDTOList")}
	ProductSearchBySupplier = Endpoint{"product.searchBySupplier", http.MethodGet, "/products/supplier/{id}/search", hal("productDTOList")}
	ProductGet              = Endpoint{"product.get", http.MethodGet, "/products/{id}", object}
	ProductCreate           = Endpoint{"product.create", http.MethodPost, "/products", object}
	ProductUpdate           = Endpoint{"product.update", http.MethodPut, "/products/{id}", object}
	ProductDelete           = Endpoint{"product.delete", http.MethodDelete, "/products/{id}", object}
)

// Estoque
var (
	StockFilter  = Endpoint{"stock.filter", http.MethodGet, "/stock/filter", hal("stockDTOList")}
	StockGet     = Endpoint{"stock.get", http.MethodGet, "/stock/{id}", object}
	StockCreate  = Endpoint{"stock.create", http.MethodPost, "/stock", object}
	StockUpdate  = Endpoint{"stock.update", http.MethodPut, "/stock/{id}", object}
	StockDelete  = Endpoint{"stock.delete", http.MethodDelete, "/stock/{id}", object}
	StockLimits  = Endpoint{"stock.limits", http.MethodGet, "/stock/limits", object}
	StockSummary = Endpoint{"stock.summary", http.MethodGet, "/stock/summary", object}
)

// Relatórios de estoque
var (
	ReportCritical   = Endpoint{"report.critical", http.MethodGet, "/stock/critical-stock", hal("stockDTOList")}
	ReportLow        = Endpoint{"report.low", http.MethodGet, "/stock/low-stock", hal("stockDTOList")}
	ReportAdequate   = Endpoint{"report.adequate", http.MethodGet, "/stock/adequate-stock", hal("stockDTOList")}
	ReportOutOfStock = Endpoint{"report.outOfStock", http.MethodGet, "/stock/out-of-stock", hal("stockDTOList")}
)

// Vendas
var (
	SaleRegister     = Endpoint{"sale.register", http.MethodPost, "/sales", object}
	SaleBestSellers  = Endpoint{"sale.bestSellers", http.MethodGet, "/sales/best-sellers", bare}
	SaleList         = Endpoint{"sale.list", http.MethodGet, "/sales", springPage}
	SaleSoldItems    = Endpoint{"sale.soldItems", http.MethodGet, "/sales/sold-items", springPage}
	SaleGroupedByDay = Endpoint{"sale.groupedByDay", http.MethodGet, "/sales/grouped-by-day", bare}
)

// Auditoria
var (
	LogList   = Endpoint{"log.list", http.MethodGet, "/logs", hal("logDTOList")}
	LogRecent = Endpoint{"log.recent", http.MethodGet, "/logs/recent", hal("logDTOList")}
)

// All devolve a tabela completa (usada pelo backend fake e nos testes).
func All() []Endpoint {
	return []Endpoint{
		AuthSignin, AuthSignup, AuthRefresh,
		SupplierList, SupplierFilter, SupplierSearch, SupplierProductTypes,
		SupplierGet, SupplierCreate, SupplierUpdate, SupplierDelete,
		ProductList, ProductSearch, ProductBySupplier, ProductSearchBySupplier,
		ProductGet, ProductCreate, ProductUpdate, ProductDelete,
		StockFilter, StockGet, StockCreate, StockUpdate, StockDelete, StockLimits, StockSummary,
		ReportCritical, ReportLow, ReportAdequate, ReportOutOfStock,
		SaleRegister, SaleBestSellers, SaleList, SaleSoldItems, SaleGroupedByDay,
		LogList, LogRecent,
	}
}
