package reportrepo_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"stockify/internal/domain"
	apperror "stockify/internal/errors"
	"stockify/internal/pkg/restclient/restclienttest"
	"stockify/internal/repository/reportrepo"
)

func TestReport_CriticalSendsThresholdAndSort(t *testing.T) {
	doer := new(restclienttest.MockDoer)
	doer.On("Do", mock.Anything, restclienttest.Path(http.MethodGet, "/stock/critical-stock")).
		Return([]byte(`{"_embedded":{"stockDTOList":[{"id":1,"productName":"parafuso","quantity":2}]},"page":{"totalPages":1,"totalElements":1,"number":0,"size":10}}`), nil)

	page, err := reportrepo.NewReportRepository(doer).Report(context.Background(), domain.ReportCritical, 5,
		domain.Query[domain.ReportFilter]{Size: 10, Sort: domain.Sort{Field: "quantity", Direction: domain.Asc}, Filter: domain.ReportFilter{Query: "parafuso"}})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	q := doer.Requests()[0].Query
	assert.Equal(t, "5", q.Get("threshold"))
	assert.Equal(t, "quantity", q.Get("sortBy"))
	assert.Equal(t, "asc", q.Get("sortDirection"))
	assert.Equal(t, "parafuso", q.Get("query"))
}

func TestReport_OutOfStockHasNoThresholdNorSort(t *testing.T) {
	doer := new(restclienttest.MockDoer)
	doer.On("Do", mock.Anything, restclienttest.Path(http.MethodGet, "/stock/out-of-stock")).
		Return(nil, apperror.NewNotFoundError(""))

	_, err := reportrepo.NewReportRepository(doer).Report(context.Background(), domain.ReportOutOfStock, 5,
		domain.Query[domain.ReportFilter]{Size: 10, Sort: domain.Sort{Field: "quantity"}})
	assert.True(t, apperror.IsNotFound(err))

	q := doer.Requests()[0].Query
	assert.Empty(t, q.Get("threshold"))
	assert.Empty(t, q.Get("sortBy"))
}

func TestReport_UnknownLevel(t *testing.T) {
	doer := new(restclienttest.MockDoer)
	_, err := reportrepo.NewReportRepository(doer).Report(context.Background(), domain.ReportLevel("x"), 5, domain.Query[domain.ReportFilter]{})
	assert.True(t, apperror.IsValidation(err))
	doer.AssertNotCalled(t, "Do", mock.Anything, mock.Anything)
}
