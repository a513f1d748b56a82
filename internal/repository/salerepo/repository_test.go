package salerepo_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"stockify/internal/domain"
	"stockify/internal/pkg/restclient/restclienttest"
	"stockify/internal/repository/salerepo"
)

func TestSoldItems_SpringPage(t *testing.T) {
	doer := new(restclienttest.MockDoer)
	doer.On("Do", mock.Anything, restclienttest.Path(http.MethodGet, "/sales/sold-items")).Return([]byte(`{
		"content":[{"productId":1,"productName":"parafuso","supplierName":"Parafusos Brasil","totalQuantitySold":12,"stockValueAtSale":0.5,"saleDate":[2024,5,1]}],
		"totalPages":2,"totalElements":11,"number":0,"size":10}`), nil)

	page, err := salerepo.NewSaleRepository(doer).SoldItems(context.Background(), domain.Query[domain.SoldItemsFilter]{
		Size:   10,
		Sort:   domain.Sort{Direction: domain.Desc},
		Filter: domain.SoldItemsFilter{StartDate: "2024-05-01", EndDate: "2024-05-31", SupplierID: 7},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalPages)
	assert.EqualValues(t, 12, page.Items[0].TotalQuantitySold)

	q := doer.Requests()[0].Query
	assert.Equal(t, "desc", q.Get("sortDirection"))
	assert.Equal(t, "2024-05-01", q.Get("startDate"))
	assert.Equal(t, "7", q.Get("supplierId"))
}

func TestBestSellersAndGroupedByDay(t *testing.T) {
	doer := new(restclienttest.MockDoer)
	doer.On("Do", mock.Anything, restclienttest.Path(http.MethodGet, "/sales/best-sellers")).
		Return([]byte(`[{"productName":"parafuso","totalQuantitySold":40}]`), nil)
	doer.On("Do", mock.Anything, restclienttest.Path(http.MethodGet, "/sales/grouped-by-day")).
		Return([]byte(`[{"saleDate":"2024-05-01","totalQuantitySold":3}]`), nil)

	repo := salerepo.NewSaleRepository(doer)
	best, err := repo.BestSellers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "parafuso", best[0].ProductName)

	days, err := repo.GroupedByDay(context.Background(), "2024-05-01", "")
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, 1, days[0].SaleDate.Day())
	assert.Empty(t, doer.Requests()[1].Query.Get("endDate"))
}
