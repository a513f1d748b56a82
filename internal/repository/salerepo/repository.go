package salerepo

import (
	"context"
	"net/url"
	"strings"

	"stockify/internal/domain"
	"stockify/internal/pkg/restclient"
	"stockify/internal/repository/endpoint"
)

// SaleRepository acessa /sales no backend.
type SaleRepository struct {
	client restclient.Doer
}

// NewSaleRepository cria e retorna uma nova instância do Repositório.
func NewSaleRepository(client restclient.Doer) *SaleRepository {
	return &SaleRepository{client: client}
}

// Register registra uma venda.
func (r *SaleRepository) Register(ctx context.Context, s domain.Sale) (domain.Sale, error) {
	return endpoint.Object[domain.Sale](ctx, r.client, endpoint.SaleRegister, s)
}

// BestSellers devolve o ranking de itens mais vendidos.
func (r *SaleRepository) BestSellers(ctx context.Context) ([]domain.BestSellingItem, error) {
	page, err := endpoint.List[domain.BestSellingItem](ctx, r.client, endpoint.SaleBestSellers, nil)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// List lista vendas (paginação Spring).
func (r *SaleRepository) List(ctx context.Context, q domain.Query[domain.SaleFilter]) (domain.Page[domain.Sale], error) {
	params := endpoint.PageQuery(q.Page, q.Size, domain.Sort{})
	endpoint.SetIf(params, "searchTerm", strings.TrimSpace(q.Filter.SearchTerm))
	return endpoint.List[domain.Sale](ctx, r.client, endpoint.SaleList, params)
}

// SoldItems lista os itens vendidos com filtros de busca, fornecedor e período.
// A ordenação aceita apenas a direção (por data).
func (r *SaleRepository) SoldItems(ctx context.Context, q domain.Query[domain.SoldItemsFilter]) (domain.Page[domain.SoldItem], error) {
	params := endpoint.PageQuery(q.Page, q.Size, domain.Sort{})
	f := q.Filter
	endpoint.SetIf(params, "query", strings.TrimSpace(f.Query))
	endpoint.SetID(params, "supplierId", f.SupplierID)
	endpoint.SetIf(params, "startDate", f.StartDate)
	endpoint.SetIf(params, "endDate", f.EndDate)
	if q.Sort.Direction != "" {
		params.Set("sortDirection", string(q.Sort.Direction))
	}
	return endpoint.List[domain.SoldItem](ctx, r.client, endpoint.SaleSoldItems, params)
}

// GroupedByDay devolve o total vendido por dia no período (datas "2006-01-02").
func (r *SaleRepository) GroupedByDay(ctx context.Context, startDate, endDate string) ([]domain.DailySales, error) {
	params := url.Values{}
	endpoint.SetIf(params, "startDate", startDate)
	endpoint.SetIf(params, "endDate", endDate)
	page, err := endpoint.List[domain.DailySales](ctx, r.client, endpoint.SaleGroupedByDay, params)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}
