package stockrepo

import (
	"context"
	"strconv"
	"strings"

	"stockify/internal/domain"
	"stockify/internal/pkg/restclient"
	"stockify/internal/repository/endpoint"
)

// StockRepository acessa /stock no backend.
type StockRepository struct {
	client restclient.Doer
}

// NewStockRepository cria e retorna uma nova instância do Repositório.
func NewStockRepository(client restclient.Doer) *StockRepository {
	return &StockRepository{client: client}
}

// Filter lista posições de estoque com busca, fornecedor e faixas de quantidade/valor.
func (r *StockRepository) Filter(ctx context.Context, q domain.Query[domain.StockFilter]) (domain.Page[domain.Stock], error) {
	params := endpoint.PageQuery(q.Page, q.Size, q.Sort)
	f := q.Filter
	endpoint.SetIf(params, "query", strings.TrimSpace(f.Query))
	endpoint.SetID(params, "supplierId", f.SupplierID)
	if f.Ranged {
		params.Set("minQuantity", strconv.Itoa(f.MinQuantity))
		params.Set("maxQuantity", strconv.Itoa(f.MaxQuantity))
		params.Set("minValue", f.MinValue.String())
		params.Set("maxValue", f.MaxValue.String())
	}
	return endpoint.List[domain.Stock](ctx, r.client, endpoint.StockFilter, params)
}

// FindByID busca uma posição de estoque.
func (r *StockRepository) FindByID(ctx context.Context, id int64) (domain.Stock, error) {
	return endpoint.Object[domain.Stock](ctx, r.client, endpoint.StockGet, nil, id)
}

// Create cadastra uma posição de estoque.
func (r *StockRepository) Create(ctx context.Context, s domain.Stock) (domain.Stock, error) {
	return endpoint.Object[domain.Stock](ctx, r.client, endpoint.StockCreate, s)
}

// Update atualiza uma posição de estoque.
func (r *StockRepository) Update(ctx context.Context, s domain.Stock) (domain.Stock, error) {
	return endpoint.Object[domain.Stock](ctx, r.client, endpoint.StockUpdate, s, s.ID)
}

// Delete remove uma posição de estoque.
func (r *StockRepository) Delete(ctx context.Context, id int64) error {
	return endpoint.Exec(ctx, r.client, endpoint.StockDelete, id)
}

// Limits devolve os máximos de quantidade e valor (semente dos filtros de faixa).
func (r *StockRepository) Limits(ctx context.Context) (domain.StockLimits, error) {
	return endpoint.Object[domain.StockLimits](ctx, r.client, endpoint.StockLimits, nil)
}

// Summary devolve o resumo de estoque do dashboard.
func (r *StockRepository) Summary(ctx context.Context) (domain.StockSummary, error) {
	return endpoint.Object[domain.StockSummary](ctx, r.client, endpoint.StockSummary, nil)
}
