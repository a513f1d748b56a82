package endpoint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stockify/internal/pkg/envelope"
	"stockify/internal/repository/endpoint"
)

func TestExpand(t *testing.T) {
	assert.Equal(t, "/products/supplier/7/search", endpoint.ProductSearchBySupplier.Expand(7))
	assert.Equal(t, "/suppliers/42", endpoint.SupplierUpdate.Expand(int64(42)))
	assert.Equal(t, "/suppliers", endpoint.SupplierList.Expand())
}

func TestTable_NamesAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, e := range endpoint.All() {
		assert.False(t, seen[e.Name], e.Name)
		seen[e.Name] = true
		if e.Envelope.Kind == envelope.HAL {
			assert.NotEmpty(t, e.Envelope.ListKey, e.Name)
		}
	}
}

func TestTable_EnvelopesPerEndpoint(t *testing.T) {
	assert.Equal(t, envelope.SpringPage, endpoint.SaleSoldItems.Envelope.Kind)
	assert.Equal(t, envelope.HAL, endpoint.ReportCritical.Envelope.Kind)
	assert.Equal(t, "logDTOList", endpoint.LogRecent.Envelope.ListKey)
	assert.Equal(t, envelope.Bare, endpoint.SupplierProductTypes.Envelope.Kind)
}
