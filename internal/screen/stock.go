package screen

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"stockify/internal/domain"
	"stockify/internal/listing"
	"stockify/internal/mutation"
	"stockify/internal/typeahead"
)

type StockService interface {
	Filter(ctx context.Context, q domain.Query[domain.StockFilter]) (domain.Page[domain.Stock], error)
	Limits(ctx context.Context) (domain.StockLimits, error)
	CreateStock(ctx context.Context, st domain.Stock) (domain.Stock, error)
	UpdateStock(ctx context.Context, st domain.Stock) (domain.Stock, error)
	DeleteStock(ctx context.Context, id int64) error
	RegisterSale(ctx context.Context, stock domain.Stock, quantity int) (domain.Sale, error)
}

// Stock é a tela de estoque: busca por produto ou fornecedor, filtro de fornecedor
// (seletor paginado) e faixas de quantidade e valor limitadas pelo maior registro.
type Stock struct {
	List      *listing.Controller[domain.Stock, domain.StockFilter]
	Suppliers *typeahead.Picker[domain.Supplier]

	svc  StockService
	disp *mutation.Dispatcher

	mu     sync.Mutex
	limits domain.StockLimits
}

// NewStock monta a tela. search alimenta o seletor de fornecedores.
func NewStock(svc StockService, search typeahead.SearchFunc[domain.Supplier], deps Deps) *Stock {
	return &Stock{
		svc:  svc,
		disp: deps.dispatcher(),
		List: listing.New(listing.Config[domain.Stock, domain.StockFilter]{
			Name:            "stock",
			Fetch:           svc.Filter,
			KeyOf:           func(st domain.Stock) int64 { return st.ID },
			NotFoundAsEmpty: true,
			PageSize:        deps.PageSize,
			Debounce:        deps.Debounce,
			Logger:          deps.logger(),
		}),
		Suppliers: typeahead.New(search, deps.PageSize, deps.TypeaheadDelay, deps.logger()),
	}
}

// Load busca os limites, abre as faixas de filtro até eles e carrega a primeira página.
func (s *Stock) Load(ctx context.Context) error {
	limits, err := s.svc.Limits(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.limits = limits
	s.mu.Unlock()

	f := s.List.Snapshot().Query.Filter
	f.Ranged = true
	f.MinQuantity, f.MaxQuantity = 0, limits.MaxQuantity
	f.MinValue, f.MaxValue = decimal.Zero, limits.MaxValue
	if !s.List.SetFilter(f) {
		_, err = s.List.Load(ctx)
		return err
	}
	s.List.Wait()
	return s.List.Snapshot().Err
}

// Limits devolve os limites usados nas faixas.
func (s *Stock) Limits() domain.StockLimits {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.limits
}

// SelectSupplier aplica o fornecedor escolhido no seletor (0 limpa o filtro).
func (s *Stock) SelectSupplier(id int64) bool {
	f := s.List.Snapshot().RawFilter
	f.SupplierID = id
	return s.List.SetFilter(f)
}

// Save cria (ID zero) ou atualiza o estoque.
func (s *Stock) Save(ctx context.Context, st domain.Stock) (domain.Stock, error) {
	if st.ID == 0 {
		return mutation.Save[domain.Stock](ctx, s.disp, s.List, mutation.Messages{
			Success: "Estoque criado com sucesso!",
			Failure: "Erro ao criar estoque.",
		}, func(ctx context.Context) (domain.Stock, error) { return s.svc.CreateStock(ctx, st) })
	}
	return mutation.Save[domain.Stock](ctx, s.disp, s.List, mutation.Messages{
		Success: "Estoque atualizado com sucesso!",
		Failure: "Erro ao atualizar estoque.",
	}, func(ctx context.Context) (domain.Stock, error) { return s.svc.UpdateStock(ctx, st) })
}

// RequestDelete pede confirmação para excluir o estoque.
func (s *Stock) RequestDelete(st domain.Stock) *mutation.Confirmation {
	return s.disp.RequestDelete(s.List, st.ID, st.ProductName, mutation.Messages{
		Success: "Estoque excluído com sucesso!",
		Failure: "Erro ao excluir estoque.",
	}, s.svc.DeleteStock)
}

// Sell registra a venda de quantity unidades do estoque.
func (s *Stock) Sell(ctx context.Context, st domain.Stock, quantity int) error {
	return s.disp.Run(ctx, s.List, mutation.Messages{
		Success: "Venda registrada com sucesso!",
		Failure: "Erro ao registrar venda.",
	}, func(ctx context.Context) error {
		_, err := s.svc.RegisterSale(ctx, st, quantity)
		return err
	})
}

// Close encerra as buscas da tela.
func (s *Stock) Close() {
	s.Suppliers.Close()
	s.List.Close()
}
