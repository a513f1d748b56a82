package stockservice_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"stockify/internal/domain"
	apperror "stockify/internal/errors"
	"stockify/internal/pkg/logger"
	"stockify/internal/pkg/validation"
	"stockify/internal/service/stockservice"
)

// MockStockRepository é uma implementação mock da interface StockRepository
type MockStockRepository struct {
	mock.Mock
}

func (m *MockStockRepository) Filter(ctx context.Context, q domain.Query[domain.StockFilter]) (domain.Page[domain.Stock], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(domain.Page[domain.Stock]), args.Error(1)
}

func (m *MockStockRepository) FindByID(ctx context.Context, id int64) (domain.Stock, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Stock), args.Error(1)
}

func (m *MockStockRepository) Create(ctx context.Context, s domain.Stock) (domain.Stock, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(domain.Stock), args.Error(1)
}

func (m *MockStockRepository) Update(ctx context.Context, s domain.Stock) (domain.Stock, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(domain.Stock), args.Error(1)
}

func (m *MockStockRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStockRepository) Limits(ctx context.Context) (domain.StockLimits, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.StockLimits), args.Error(1)
}

func (m *MockStockRepository) Summary(ctx context.Context) (domain.StockSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.StockSummary), args.Error(1)
}

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Report(ctx context.Context, level domain.ReportLevel, threshold int, q domain.Query[domain.ReportFilter]) (domain.Page[domain.Stock], error) {
	args := m.Called(ctx, level, threshold, q)
	return args.Get(0).(domain.Page[domain.Stock]), args.Error(1)
}

type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) Register(ctx context.Context, s domain.Sale) (domain.Sale, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(domain.Sale), args.Error(1)
}

type fixture struct {
	stocks  *MockStockRepository
	reports *MockReportRepository
	sales   *MockSaleRepository
	svc     *stockservice.Service
}

func newFixture() fixture {
	f := fixture{stocks: new(MockStockRepository), reports: new(MockReportRepository), sales: new(MockSaleRepository)}
	f.svc = stockservice.NewService(f.stocks, f.reports, f.sales, 5, logger.Nop(), validation.New())
	return f
}

// TestUpdateStock_Success testa a atualização bem-sucedida.
func TestUpdateStock_Success(t *testing.T) {
	f := newFixture()
	st := domain.Stock{ID: 3, ProductID: 9, Quantity: 40, Value: decimal.NewFromInt(12)}
	f.stocks.On("Update", mock.Anything, st).Return(st, nil)

	updated, err := f.svc.UpdateStock(context.Background(), st)
	require.NoError(t, err)
	assert.Equal(t, 40, updated.Quantity)
	f.stocks.AssertExpectations(t)
}

func TestCreateStock_ValidationFailure(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateStock(context.Background(), domain.Stock{Quantity: -1})
	require.Error(t, err)
	fields := apperror.FieldErrors(err)
	assert.Contains(t, fields, "productId")
	assert.Contains(t, fields, "quantity")
	assert.Contains(t, fields, "value")
	f.stocks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestFilter_RejectsInvertedRange(t *testing.T) {
	f := newFixture()
	q := domain.Query[domain.StockFilter]{Filter: domain.StockFilter{Ranged: true, MinQuantity: 10, MaxQuantity: 2, MaxValue: decimal.NewFromInt(50)}}

	_, err := f.svc.Filter(context.Background(), q)
	assert.True(t, apperror.IsValidation(err))
	f.stocks.AssertNotCalled(t, "Filter", mock.Anything, mock.Anything)
}

func TestFilter_ComparesValueRangeExactly(t *testing.T) {
	f := newFixture()
	inverted := domain.Query[domain.StockFilter]{Filter: domain.StockFilter{
		Ranged: true, MaxQuantity: 10,
		MinValue: decimal.RequireFromString("10.10"), MaxValue: decimal.RequireFromString("10.09"),
	}}
	_, err := f.svc.Filter(context.Background(), inverted)
	assert.True(t, apperror.IsValidation(err))

	equal := domain.Query[domain.StockFilter]{Filter: domain.StockFilter{
		Ranged: true, MaxQuantity: 10,
		MinValue: decimal.RequireFromString("10.10"), MaxValue: decimal.RequireFromString("10.1"),
	}}
	f.stocks.On("Filter", mock.Anything, equal).Return(domain.Page[domain.Stock]{}, nil).Once()
	_, err = f.svc.Filter(context.Background(), equal)
	require.NoError(t, err)
	f.stocks.AssertExpectations(t)
}

func TestReport_UsesConfiguredThreshold(t *testing.T) {
	f := newFixture()
	q := domain.Query[domain.ReportFilter]{Page: 0, Size: 10}
	f.reports.On("Report", mock.Anything, domain.ReportCritical, 5, q).
		Return(domain.Page[domain.Stock]{Items: []domain.Stock{{ID: 1}}, TotalPages: 1}, nil)

	page, err := f.svc.Report(context.Background(), domain.ReportCritical, q)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	f.reports.AssertExpectations(t)
}

// TestRegisterSale_ExceedsAvailable garante que não se vende mais que o disponível.
func TestRegisterSale_ExceedsAvailable(t *testing.T) {
	f := newFixture()

	_, err := f.svc.RegisterSale(context.Background(), domain.Stock{ID: 3, Quantity: 2}, 5)
	require.Error(t, err)
	assert.Contains(t, apperror.FieldErrors(err), "quantity")
	f.sales.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestRegisterSale_Success(t *testing.T) {
	f := newFixture()
	f.sales.On("Register", mock.Anything, domain.Sale{StockID: 3, Quantity: 2}).Return(domain.Sale{ID: 77, StockID: 3, Quantity: 2}, nil)

	sale, err := f.svc.RegisterSale(context.Background(), domain.Stock{ID: 3, Quantity: 2}, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 77, sale.ID)
}
