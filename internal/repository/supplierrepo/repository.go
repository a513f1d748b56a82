package supplierrepo

import (
	"context"
	"strings"

	"stockify/internal/domain"
	"stockify/internal/pkg/restclient"
	"stockify/internal/repository/endpoint"
)

// SupplierRepository acessa /suppliers no backend.
type SupplierRepository struct {
	client restclient.Doer
}

// NewSupplierRepository cria e retorna uma nova instância do Repositório.
func NewSupplierRepository(client restclient.Doer) *SupplierRepository {
	return &SupplierRepository{client: client}
}

// List lista fornecedores. Sem filtro usa /suppliers; com nome ou tipo usa /suppliers/filter.
func (r *SupplierRepository) List(ctx context.Context, q domain.Query[domain.SupplierFilter]) (domain.Page[domain.Supplier], error) {
	params := endpoint.PageQuery(q.Page, q.Size, q.Sort)
	f := q.Filter
	if f.IsZero() {
		return endpoint.List[domain.Supplier](ctx, r.client, endpoint.SupplierList, params)
	}
	endpoint.SetIf(params, "name", strings.TrimSpace(f.Name))
	endpoint.SetIf(params, "productType", f.ProductType)
	return endpoint.List[domain.Supplier](ctx, r.client, endpoint.SupplierFilter, params)
}

// Search busca fornecedores por nome (usado pelo filtro typeahead).
func (r *SupplierRepository) Search(ctx context.Context, name string, page, size int) (domain.Page[domain.Supplier], error) {
	params := endpoint.PageQuery(page, size, domain.Sort{})
	params.Set("name", name)
	return endpoint.List[domain.Supplier](ctx, r.client, endpoint.SupplierSearch, params)
}

// ProductTypes devolve os tipos de produto distintos (faceta do filtro).
func (r *SupplierRepository) ProductTypes(ctx context.Context) ([]string, error) {
	page, err := endpoint.List[string](ctx, r.client, endpoint.SupplierProductTypes, nil)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// FindByID busca um fornecedor.
func (r *SupplierRepository) FindByID(ctx context.Context, id int64) (domain.Supplier, error) {
	return endpoint.Object[domain.Supplier](ctx, r.client, endpoint.SupplierGet, nil, id)
}

// Create cadastra um fornecedor e devolve o registro persistido.
func (r *SupplierRepository) Create(ctx context.Context, s domain.Supplier) (domain.Supplier, error) {
	return endpoint.Object[domain.Supplier](ctx, r.client, endpoint.SupplierCreate, s)
}

// Update atualiza um fornecedor.
func (r *SupplierRepository) Update(ctx context.Context, s domain.Supplier) (domain.Supplier, error) {
	return endpoint.Object[domain.Supplier](ctx, r.client, endpoint.SupplierUpdate, s, s.ID)
}

// Delete remove um fornecedor.
func (r *SupplierRepository) Delete(ctx context.Context, id int64) error {
	return endpoint.Exec(ctx, r.client, endpoint.SupplierDelete, id)
}
