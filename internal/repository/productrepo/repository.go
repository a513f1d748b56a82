package productrepo

import (
	"context"
	"strings"

	"stockify/internal/domain"
	"stockify/internal/pkg/restclient"
	"stockify/internal/repository/endpoint"
)

// ProductRepository acessa /products no backend.
type ProductRepository struct {
	client restclient.Doer
}

// NewProductRepository cria e retorna uma nova instância do Repositório.
func NewProductRepository(client restclient.Doer) *ProductRepository {
	return &ProductRepository{client: client}
}

// List lista produtos; com termo de busca usa /products/search.
func (r *ProductRepository) List(ctx context.Context, q domain.Query[domain.ProductFilter]) (domain.Page[domain.Product], error) {
	params := endpoint.PageQuery(q.Page, q.Size, q.Sort)
	term := strings.TrimSpace(q.Filter.SearchTerm)
	if term == "" {
		return endpoint.List[domain.Product](ctx, r.client, endpoint.ProductList, params)
	}
	params.Set("searchTerm", term)
	return endpoint.List[domain.Product](ctx, r.client, endpoint.ProductSearch, params)
}

// ListBySupplier lista os produtos de um fornecedor (expansão aninhada).
func (r *ProductRepository) ListBySupplier(ctx context.Context, supplierID int64, q domain.Query[domain.ProductFilter]) (domain.Page[domain.Product], error) {
	params := endpoint.PageQuery(q.Page, q.Size, q.Sort)
	term := strings.TrimSpace(q.Filter.SearchTerm)
	if term == "" {
		return endpoint.List[domain.Product](ctx, r.client, endpoint.ProductBySupplier, params, supplierID)
	}
	params.Set("searchTerm", term)
	return endpoint.List[domain.Product](ctx, r.client, endpoint.ProductSearchBySupplier, params, supplierID)
}

// FindByID busca um produto.
func (r *ProductRepository) FindByID(ctx context.Context, id int64) (domain.Product, error) {
	return endpoint.Object[domain.Product](ctx, r.client, endpoint.ProductGet, nil, id)
}

// Create cadastra um produto.
func (r *ProductRepository) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	return endpoint.Object[domain.Product](ctx, r.client, endpoint.ProductCreate, p)
}

// Update atualiza um produto.
func (r *ProductRepository) Update(ctx context.Context, p domain.Product) (domain.Product, error) {
	return endpoint.Object[domain.Product](ctx, r.client, endpoint.ProductUpdate, p, p.ID)
}

// Delete remove um produto.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	return endpoint.Exec(ctx, r.client, endpoint.ProductDelete, id)
}
