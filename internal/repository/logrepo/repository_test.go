package logrepo_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"stockify/internal/domain"
	"stockify/internal/pkg/restclient/restclienttest"
	"stockify/internal/repository/logrepo"
)

func TestList_FiltersAndTimestamps(t *testing.T) {
	doer := new(restclienttest.MockDoer)
	doer.On("Do", mock.Anything, restclienttest.Path(http.MethodGet, "/logs")).Return([]byte(`{
		"_embedded":{"logDTOList":[
			{"id":2,"entity":"Stock","operationType":"UPDATE","timestamp":[2024,5,2,9,0,0]},
			{"id":1,"entity":"Stock","operationType":"UPDATE","timestamp":"2024-05-01T09:00:00"}]},
		"page":{"totalPages":1,"totalElements":2,"number":0,"size":10}}`), nil)

	page, err := logrepo.NewLogRepository(doer).List(context.Background(), domain.Query[domain.LogFilter]{
		Size:   10,
		Filter: domain.LogFilter{Entity: domain.EntityStock, OperationType: domain.OperationUpdate},
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.Items[0].Timestamp.Day())
	assert.Equal(t, 1, page.Items[1].Timestamp.Day())

	q := doer.Requests()[0].Query
	assert.Equal(t, "Stock", q.Get("entity"))
	assert.Equal(t, "UPDATE", q.Get("operationType"))
}
