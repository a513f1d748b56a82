package supplierservice

import (
	"context"
	"strings"

	"stockify/internal/domain"
	apperror "stockify/internal/errors"
	"stockify/internal/pkg/format"
	"stockify/internal/pkg/logger"
	"stockify/internal/pkg/validation"
)

// SupplierRepository define o contrato que o Serviço de Fornecedores espera da camada de acesso ao backend.
type SupplierRepository interface {
	List(ctx context.Context, q domain.Query[domain.SupplierFilter]) (domain.Page[domain.Supplier], error)
	Search(ctx context.Context, name string, page, size int) (domain.Page[domain.Supplier], error)
	ProductTypes(ctx context.Context) ([]string, error)
	FindByID(ctx context.Context, id int64) (domain.Supplier, error)
	Create(ctx context.Context, s domain.Supplier) (domain.Supplier, error)
	Update(ctx context.Context, s domain.Supplier) (domain.Supplier, error)
	Delete(ctx context.Context, id int64) error
}

// Service valida, normaliza e delega as operações de fornecedores.
type Service struct {
	repo      SupplierRepository
	logger    logger.Logger
	validator *validation.Validator
}

// NewService cria e retorna uma nova instância do Serviço de Fornecedores.
func NewService(repo SupplierRepository, logger logger.Logger, validator *validation.Validator) *Service {
	return &Service{repo: repo, logger: logger, validator: validator}
}

// List lista fornecedores conforme a consulta da tela.
func (s *Service) List(ctx context.Context, q domain.Query[domain.SupplierFilter]) (domain.Page[domain.Supplier], error) {
	s.logger.Debug("Listando fornecedores.", map[string]interface{}{
		"page": q.Page, "size": q.Size, "name": q.Filter.Name, "product_type": q.Filter.ProductType,
	})
	return s.repo.List(ctx, q)
}

// Search busca fornecedores por nome (typeahead).
func (s *Service) Search(ctx context.Context, name string, page, size int) (domain.Page[domain.Supplier], error) {
	return s.repo.Search(ctx, strings.TrimSpace(name), page, size)
}

// ProductTypes devolve a faceta de tipos de produto.
func (s *Service) ProductTypes(ctx context.Context) ([]string, error) {
	types, err := s.repo.ProductTypes(ctx)
	if err != nil {
		s.logger.Error("Falha ao carregar tipos de produto.", err)
		return nil, err
	}
	return types, nil
}

// FindByID busca um fornecedor.
func (s *Service) FindByID(ctx context.Context, id int64) (domain.Supplier, error) {
	if id <= 0 {
		return domain.Supplier{}, apperror.NewValidationError("O ID do fornecedor deve ser positivo.")
	}
	return s.repo.FindByID(ctx, id)
}

// Create cadastra um fornecedor após normalizar e validar os campos.
// Dados inválidos nunca chegam ao backend.
func (s *Service) Create(ctx context.Context, supplier domain.Supplier) (domain.Supplier, error) {
	supplier = normalize(supplier)
	if err := s.validator.Struct(supplier); err != nil {
		s.logger.Warn("Falha na validação do fornecedor.", map[string]interface{}{"fields": apperror.FieldErrors(err)})
		return domain.Supplier{}, err
	}

	created, err := s.repo.Create(ctx, supplier)
	if err != nil {
		s.logger.Error("Falha ao criar fornecedor.", err)
		return domain.Supplier{}, err
	}

	s.logger.Info("Fornecedor criado com sucesso.", map[string]interface{}{"id": created.ID, "name": created.Name})
	return created, nil
}

// Update atualiza um fornecedor existente.
func (s *Service) Update(ctx context.Context, supplier domain.Supplier) (domain.Supplier, error) {
	if supplier.ID <= 0 {
		return domain.Supplier{}, apperror.NewValidationError("O ID do fornecedor deve ser positivo.")
	}
	supplier = normalize(supplier)
	if err := s.validator.Struct(supplier); err != nil {
		s.logger.Warn("Falha na validação do fornecedor para atualização.", map[string]interface{}{"id": supplier.ID, "fields": apperror.FieldErrors(err)})
		return domain.Supplier{}, err
	}

	updated, err := s.repo.Update(ctx, supplier)
	if err != nil {
		s.logger.Error("Falha ao atualizar fornecedor.", err)
		return domain.Supplier{}, err
	}

	s.logger.Info("Fornecedor atualizado com sucesso.", map[string]interface{}{"id": updated.ID})
	return updated, nil
}

// Delete remove um fornecedor.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperror.NewValidationError("O ID do fornecedor deve ser positivo.")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Falha ao excluir fornecedor.", err)
		return err
	}
	s.logger.Info("Fornecedor excluído com sucesso.", map[string]interface{}{"id": id})
	return nil
}

// normalize deixa o CNPJ só com dígitos e o telefone no formato com máscara.
func normalize(s domain.Supplier) domain.Supplier {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
	s.ProductType = strings.TrimSpace(s.ProductType)
	s.CNPJ = validation.Digits(s.CNPJ)
	s.Phone = format.Phone(strings.TrimSpace(s.Phone))
	return s
}
