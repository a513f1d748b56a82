package screen

import (
	"context"
	"sync"

	"stockify/internal/domain"
	"stockify/internal/expansion"
	"stockify/internal/listing"
	"stockify/internal/mutation"
)

type SupplierService interface {
	List(ctx context.Context, q domain.Query[domain.SupplierFilter]) (domain.Page[domain.Supplier], error)
	ProductTypes(ctx context.Context) ([]string, error)
	Create(ctx context.Context, s domain.Supplier) (domain.Supplier, error)
	Update(ctx context.Context, s domain.Supplier) (domain.Supplier, error)
	Delete(ctx context.Context, id int64) error
}

type ProductService interface {
	ListBySupplier(ctx context.Context, supplierID int64, q domain.Query[domain.ProductFilter]) (domain.Page[domain.Product], error)
	CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error)
	UpdateProduct(ctx context.Context, p domain.Product) (domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

// Suppliers é a tela de fornecedores: listagem filtrável por nome e tipo de produto,
// com os produtos de cada fornecedor em uma listagem aninhada.
type Suppliers struct {
	List     *listing.Controller[domain.Supplier, domain.SupplierFilter]
	Products *expansion.Manager[domain.Product, domain.ProductFilter]

	svc      SupplierService
	products ProductService
	disp     *mutation.Dispatcher

	mu    sync.Mutex
	types []string
}

// NewSuppliers monta a tela. Nenhuma busca é feita até Load.
func NewSuppliers(svc SupplierService, products ProductService, deps Deps) *Suppliers {
	s := &Suppliers{svc: svc, products: products, disp: deps.dispatcher()}

	s.List = listing.New(listing.Config[domain.Supplier, domain.SupplierFilter]{
		Name:     "suppliers",
		Fetch:    svc.List,
		KeyOf:    func(sp domain.Supplier) int64 { return sp.ID },
		PageSize: deps.PageSize,
		Debounce: deps.Debounce,
		Logger:   deps.logger(),
	})

	s.Products = expansion.New(func(supplierID int64) *listing.Controller[domain.Product, domain.ProductFilter] {
		return listing.New(listing.Config[domain.Product, domain.ProductFilter]{
			Name: "supplier.products",
			Fetch: func(ctx context.Context, q domain.Query[domain.ProductFilter]) (domain.Page[domain.Product], error) {
				return products.ListBySupplier(ctx, supplierID, q)
			},
			KeyOf:           func(p domain.Product) int64 { return p.ID },
			NotFoundAsEmpty: true,
			PageSize:        deps.PageSize,
			Debounce:        deps.Debounce,
			Logger:          deps.logger(),
		})
	})

	// As listagens aninhadas valem para a página e o filtro correntes do pai.
	s.List.OnQueryChange(func(domain.Query[domain.SupplierFilter]) { s.Products.Reset() })

	s.disp.AddFacet("productTypes", s.LoadProductTypes)
	return s
}

// Load carrega a primeira página e a faceta de tipos de produto.
func (s *Suppliers) Load(ctx context.Context) error {
	if _, err := s.List.Load(ctx); err != nil {
		return err
	}
	return s.LoadProductTypes(ctx)
}

// LoadProductTypes recarrega a faceta de tipos de produto.
func (s *Suppliers) LoadProductTypes(ctx context.Context) error {
	types, err := s.svc.ProductTypes(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.types = types
	s.mu.Unlock()
	return nil
}

// ProductTypes devolve a última faceta carregada.
func (s *Suppliers) ProductTypes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.types...)
}

// Save cria (ID zero) ou atualiza o fornecedor.
func (s *Suppliers) Save(ctx context.Context, sp domain.Supplier) (domain.Supplier, error) {
	if sp.ID == 0 {
		return mutation.Save[domain.Supplier](ctx, s.disp, s.List, mutation.Messages{
			Success: "Fornecedor criado com sucesso!",
			Failure: "Erro ao criar fornecedor.",
		}, func(ctx context.Context) (domain.Supplier, error) { return s.svc.Create(ctx, sp) })
	}
	return mutation.Save[domain.Supplier](ctx, s.disp, s.List, mutation.Messages{
		Success: "Fornecedor atualizado com sucesso!",
		Failure: "Erro ao atualizar fornecedor.",
	}, func(ctx context.Context) (domain.Supplier, error) { return s.svc.Update(ctx, sp) })
}

// RequestDelete pede confirmação para excluir o fornecedor.
// Excluído, seus produtos aninhados são descartados.
func (s *Suppliers) RequestDelete(sp domain.Supplier) *mutation.Confirmation {
	return s.disp.RequestDelete(s.List, sp.ID, sp.Name, mutation.Messages{
		Success: "Fornecedor excluído com sucesso!",
		Failure: "Erro ao excluir fornecedor.",
	}, func(ctx context.Context, id int64) error {
		if err := s.svc.Delete(ctx, id); err != nil {
			return err
		}
		s.Products.Forget(id)
		return nil
	})
}

// SaveProduct cria ou atualiza um produto, atualizando a listagem aninhada do fornecedor se existir.
func (s *Suppliers) SaveProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	msgs := mutation.Messages{Success: "Produto atualizado com sucesso!", Failure: "Erro ao atualizar produto."}
	action := s.products.UpdateProduct
	if p.ID == 0 {
		msgs = mutation.Messages{Success: "Produto criado com sucesso!", Failure: "Erro ao criar produto."}
		action = s.products.CreateProduct
	}

	var list mutation.Splicer[domain.Product]
	if child, ok := s.Products.Child(p.SupplierID); ok {
		list = child
	}
	return mutation.Save(ctx, s.disp, list, msgs, func(ctx context.Context) (domain.Product, error) { return action(ctx, p) })
}

// RequestDeleteProduct pede confirmação para excluir o produto.
func (s *Suppliers) RequestDeleteProduct(p domain.Product) *mutation.Confirmation {
	var list mutation.Remover
	if child, ok := s.Products.Child(p.SupplierID); ok {
		list = child
	}
	return s.disp.RequestDelete(list, p.ID, p.Name, mutation.Messages{
		Success: "Produto excluído com sucesso!",
		Failure: "Erro ao excluir produto.",
	}, s.products.DeleteProduct)
}

// Close encerra as buscas da tela.
func (s *Suppliers) Close() {
	s.Products.Close()
	s.List.Close()
}
