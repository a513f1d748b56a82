package supplierservice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"stockify/internal/domain"
	apperror "stockify/internal/errors"
	"stockify/internal/pkg/logger"
	"stockify/internal/pkg/validation"
	"stockify/internal/service/supplierservice"
)

// MockSupplierRepository é uma implementação mock da interface SupplierRepository
type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) List(ctx context.Context, q domain.Query[domain.SupplierFilter]) (domain.Page[domain.Supplier], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(domain.Page[domain.Supplier]), args.Error(1)
}

func (m *MockSupplierRepository) Search(ctx context.Context, name string, page, size int) (domain.Page[domain.Supplier], error) {
	args := m.Called(ctx, name, page, size)
	return args.Get(0).(domain.Page[domain.Supplier]), args.Error(1)
}

func (m *MockSupplierRepository) ProductTypes(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockSupplierRepository) FindByID(ctx context.Context, id int64) (domain.Supplier, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) Create(ctx context.Context, s domain.Supplier) (domain.Supplier, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(domain.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) Update(ctx context.Context, s domain.Supplier) (domain.Supplier, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(domain.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newService(repo *MockSupplierRepository) *supplierservice.Service {
	return supplierservice.NewService(repo, logger.Nop(), validation.New())
}

func TestCreate_NormalizesBeforeSubmitting(t *testing.T) {
	repo := new(MockSupplierRepository)
	expected := domain.Supplier{
		Name:        "Parafusos Brasil",
		Email:       "contato@parafusos.com.br",
		CNPJ:        "12345678000190",
		Phone:       "(11) 98765-4321",
		ProductType: "Ferragens",
	}
	repo.On("Create", mock.Anything, expected).Return(domain.Supplier{ID: 7, Name: expected.Name}, nil)

	created, err := newService(repo).Create(context.Background(), domain.Supplier{
		Name:        "  Parafusos Brasil ",
		Email:       "contato@parafusos.com.br",
		CNPJ:        "12.345.678/0001-90",
		Phone:       "11987654321",
		ProductType: "Ferragens",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 7, created.ID)
	repo.AssertExpectations(t)
}

func TestCreate_InvalidNeverReachesBackend(t *testing.T) {
	repo := new(MockSupplierRepository)

	_, err := newService(repo).Create(context.Background(), domain.Supplier{
		Name:  "Sem CNPJ",
		Email: "x@y.com",
		CNPJ:  "123",
		Phone: "(11) 98765-4321",
	})
	require.Error(t, err)
	fields := apperror.FieldErrors(err)
	assert.Contains(t, fields, "cnpj")
	assert.Contains(t, fields, "productType")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdate_RequiresID(t *testing.T) {
	repo := new(MockSupplierRepository)
	_, err := newService(repo).Update(context.Background(), domain.Supplier{Name: "x"})
	assert.True(t, apperror.IsValidation(err))
}

func TestDelete_PropagatesNotFound(t *testing.T) {
	repo := new(MockSupplierRepository)
	repo.On("Delete", mock.Anything, int64(7)).Return(apperror.NewNotFoundError("Fornecedor não encontrado"))

	err := newService(repo).Delete(context.Background(), 7)
	assert.True(t, apperror.IsNotFound(err))
	repo.AssertExpectations(t)
}

func TestSearch_TrimsName(t *testing.T) {
	repo := new(MockSupplierRepository)
	repo.On("Search", mock.Anything, "paraf", 0, 10).Return(domain.Page[domain.Supplier]{}, nil)

	_, err := newService(repo).Search(context.Background(), "  paraf ", 0, 10)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
