package productservice

import (
	"context"
	"strings"

	"stockify/internal/domain"
	apperror "stockify/internal/errors"
	"stockify/internal/pkg/logger"
	"stockify/internal/pkg/validation"
)

// ProductRepository define o contrato (interface) que este Serviço espera
// da camada de acesso ao backend.
type ProductRepository interface {
	List(ctx context.Context, q domain.Query[domain.ProductFilter]) (domain.Page[domain.Product], error)
	ListBySupplier(ctx context.Context, supplierID int64, q domain.Query[domain.ProductFilter]) (domain.Page[domain.Product], error)
	FindByID(ctx context.Context, id int64) (domain.Product, error)
	Create(ctx context.Context, p domain.Product) (domain.Product, error)
	Update(ctx context.Context, p domain.Product) (domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

// Service é a estrutura que implementa as regras de produto do lado cliente.
type Service struct {
	repo      ProductRepository
	logger    logger.Logger
	validator *validation.Validator
}

// NewService cria e retorna uma nova instância do Serviço de Produto.
func NewService(repo ProductRepository, logger logger.Logger, validator *validation.Validator) *Service {
	return &Service{repo: repo, logger: logger, validator: validator}
}

// List lista produtos (busca global).
func (s *Service) List(ctx context.Context, q domain.Query[domain.ProductFilter]) (domain.Page[domain.Product], error) {
	return s.repo.List(ctx, q)
}

// ListBySupplier lista os produtos de um fornecedor.
func (s *Service) ListBySupplier(ctx context.Context, supplierID int64, q domain.Query[domain.ProductFilter]) (domain.Page[domain.Product], error) {
	if supplierID <= 0 {
		return domain.Page[domain.Product]{}, apperror.NewValidationError("O ID do fornecedor deve ser positivo.")
	}
	s.logger.Debug("Listando produtos do fornecedor.", map[string]interface{}{
		"supplier_id": supplierID, "page": q.Page, "search": q.Filter.SearchTerm,
	})
	return s.repo.ListBySupplier(ctx, supplierID, q)
}

// GetProductByID busca um produto.
func (s *Service) GetProductByID(ctx context.Context, id int64) (domain.Product, error) {
	if id <= 0 {
		return domain.Product{}, apperror.NewValidationError("O ID do produto deve ser positivo.")
	}
	return s.repo.FindByID(ctx, id)
}

// CreateProduct valida e cadastra um produto.
func (s *Service) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	p.Name = strings.TrimSpace(p.Name)
	if err := s.validator.Struct(p); err != nil {
		s.logger.Warn("Falha na validação do produto.", map[string]interface{}{"fields": apperror.FieldErrors(err)})
		return domain.Product{}, err
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		s.logger.Error("Falha ao criar produto.", err)
		return domain.Product{}, err
	}

	s.logger.Info("Produto criado com sucesso.", map[string]interface{}{"id": created.ID, "supplier_id": created.SupplierID})
	return created, nil
}

// UpdateProduct valida e atualiza um produto.
func (s *Service) UpdateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	if p.ID <= 0 {
		return domain.Product{}, apperror.NewValidationError("O ID do produto deve ser positivo.")
	}
	p.Name = strings.TrimSpace(p.Name)
	if err := s.validator.Struct(p); err != nil {
		return domain.Product{}, err
	}

	updated, err := s.repo.Update(ctx, p)
	if err != nil {
		s.logger.Error("Falha ao atualizar produto.", err)
		return domain.Product{}, err
	}
	return updated, nil
}

// DeleteProduct remove um produto.
func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperror.NewValidationError("O ID do produto deve ser positivo.")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Falha ao excluir produto.", err)
		return err
	}
	s.logger.Info("Produto excluído com sucesso.", map[string]interface{}{"id": id})
	return nil
}
