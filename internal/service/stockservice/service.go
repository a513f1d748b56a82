package stockservice

import (
	"context"

	"stockify/internal/domain"
	apperror "stockify/internal/errors"
	"stockify/internal/pkg/logger"
	"stockify/internal/pkg/validation"
)

// StockRepository define o contrato que o Serviço de Estoque espera da camada de acesso ao backend.
type StockRepository interface {
	Filter(ctx context.Context, q domain.Query[domain.StockFilter]) (domain.Page[domain.Stock], error)
	FindByID(ctx context.Context, id int64) (domain.Stock, error)
	Create(ctx context.Context, s domain.Stock) (domain.Stock, error)
	Update(ctx context.Context, s domain.Stock) (domain.Stock, error)
	Delete(ctx context.Context, id int64) error
	Limits(ctx context.Context) (domain.StockLimits, error)
	Summary(ctx context.Context) (domain.StockSummary, error)
}

// ReportRepository define o acesso aos relatórios por faixa de quantidade.
type ReportRepository interface {
	Report(ctx context.Context, level domain.ReportLevel, threshold int, q domain.Query[domain.ReportFilter]) (domain.Page[domain.Stock], error)
}

// SaleRepository define o registro de vendas (que consome estoque).
type SaleRepository interface {
	Register(ctx context.Context, s domain.Sale) (domain.Sale, error)
}

// Service reúne as operações de estoque, relatórios e registro de venda.
type Service struct {
	repo      StockRepository
	reports   ReportRepository
	sales     SaleRepository
	threshold int
	logger    logger.Logger
	validator *validation.Validator
}

// NewService cria e retorna uma nova instância do Serviço de Estoque.
// threshold é o limiar de quantidade dos relatórios (padrão 5).
func NewService(repo StockRepository, reports ReportRepository, sales SaleRepository, threshold int, logger logger.Logger, validator *validation.Validator) *Service {
	return &Service{repo: repo, reports: reports, sales: sales, threshold: threshold, logger: logger, validator: validator}
}

// Filter lista posições de estoque.
func (s *Service) Filter(ctx context.Context, q domain.Query[domain.StockFilter]) (domain.Page[domain.Stock], error) {
	f := q.Filter
	if f.Ranged && (f.MinQuantity > f.MaxQuantity || f.MinValue.GreaterThan(f.MaxValue)) {
		return domain.Page[domain.Stock]{}, apperror.NewValidationError("Faixa inválida: mínimo maior que máximo.")
	}
	return s.repo.Filter(ctx, q)
}

// Limits devolve os máximos usados nos filtros de faixa.
func (s *Service) Limits(ctx context.Context) (domain.StockLimits, error) {
	return s.repo.Limits(ctx)
}

// Summary devolve o resumo de estoque.
func (s *Service) Summary(ctx context.Context) (domain.StockSummary, error) {
	return s.repo.Summary(ctx)
}

// Report consulta um relatório por faixa de quantidade usando o limiar configurado.
func (s *Service) Report(ctx context.Context, level domain.ReportLevel, q domain.Query[domain.ReportFilter]) (domain.Page[domain.Stock], error) {
	return s.reports.Report(ctx, level, s.threshold, q)
}

// GetStockByID busca uma posição de estoque.
func (s *Service) GetStockByID(ctx context.Context, id int64) (domain.Stock, error) {
	if id <= 0 {
		return domain.Stock{}, apperror.NewValidationError("O ID do estoque deve ser positivo.")
	}
	return s.repo.FindByID(ctx, id)
}

// Threshold devolve o limiar dos relatórios.
func (s *Service) Threshold() int { return s.threshold }

// CreateStock valida e cadastra uma posição de estoque.
func (s *Service) CreateStock(ctx context.Context, st domain.Stock) (domain.Stock, error) {
	if err := s.validator.Struct(st); err != nil {
		s.logger.Warn("Falha na validação do estoque.", map[string]interface{}{"fields": apperror.FieldErrors(err)})
		return domain.Stock{}, err
	}
	created, err := s.repo.Create(ctx, st)
	if err != nil {
		s.logger.Error("Falha ao criar estoque.", err)
		return domain.Stock{}, err
	}
	s.logger.Info("Estoque criado com sucesso.", map[string]interface{}{"id": created.ID, "product_id": created.ProductID})
	return created, nil
}

// UpdateStock valida e atualiza uma posição de estoque.
func (s *Service) UpdateStock(ctx context.Context, st domain.Stock) (domain.Stock, error) {
	if st.ID <= 0 {
		return domain.Stock{}, apperror.NewValidationError("O ID do estoque deve ser positivo.")
	}
	if err := s.validator.Struct(st); err != nil {
		return domain.Stock{}, err
	}
	updated, err := s.repo.Update(ctx, st)
	if err != nil {
		s.logger.Error("Falha ao atualizar estoque.", err)
		return domain.Stock{}, err
	}
	s.logger.Info("Estoque atualizado com sucesso.", map[string]interface{}{"id": updated.ID, "new_quantity": updated.Quantity})
	return updated, nil
}

// DeleteStock remove uma posição de estoque.
func (s *Service) DeleteStock(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperror.NewValidationError("O ID do estoque deve ser positivo.")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Falha ao excluir estoque.", err)
		return err
	}
	return nil
}

// RegisterSale registra a venda de quantity unidades de uma posição de estoque.
// A quantidade não pode exceder o disponível.
func (s *Service) RegisterSale(ctx context.Context, stock domain.Stock, quantity int) (domain.Sale, error) {
	sale := domain.Sale{StockID: stock.ID, Quantity: quantity}
	if err := s.validator.Struct(sale); err != nil {
		return domain.Sale{}, err
	}
	if quantity > stock.Quantity {
		return domain.Sale{}, apperror.NewFieldValidationError("Quantidade indisponível em estoque.",
			map[string]string{"quantity": "Quantidade maior que o disponível."})
	}

	registered, err := s.sales.Register(ctx, sale)
	if err != nil {
		s.logger.Error("Falha ao registrar venda.", err)
		return domain.Sale{}, err
	}
	s.logger.Info("Venda registrada.", map[string]interface{}{"stock_id": stock.ID, "quantity": quantity})
	return registered, nil
}
