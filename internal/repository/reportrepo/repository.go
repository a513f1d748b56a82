package reportrepo

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"stockify/internal/domain"
	apperror "stockify/internal/errors"
	"stockify/internal/pkg/restclient"
	"stockify/internal/repository/endpoint"
)

// ReportRepository acessa os relatórios de estoque por faixa de quantidade.
type ReportRepository struct {
	client restclient.Doer
}

// NewReportRepository cria e retorna uma nova instância do Repositório.
func NewReportRepository(client restclient.Doer) *ReportRepository {
	return &ReportRepository{client: client}
}

// Report consulta o relatório do nível informado.
// O relatório de itens zerados não aceita limiar nem ordenação.
func (r *ReportRepository) Report(ctx context.Context, level domain.ReportLevel, threshold int, q domain.Query[domain.ReportFilter]) (domain.Page[domain.Stock], error) {
	var (
		e      endpoint.Endpoint
		sorted = true
	)
	switch level {
	case domain.ReportCritical:
		e = endpoint.ReportCritical
	case domain.ReportLow:
		e = endpoint.ReportLow
	case domain.ReportAdequate:
		e = endpoint.ReportAdequate
	case domain.ReportOutOfStock:
		e, sorted = endpoint.ReportOutOfStock, false
	default:
		return domain.Page[domain.Stock]{}, apperror.NewValidationError(fmt.Sprintf("relatório desconhecido: %s", level))
	}

	sort := q.Sort
	if !sorted {
		sort = domain.Sort{}
	}
	params := endpoint.PageQuery(q.Page, q.Size, sort)
	if sorted {
		params.Set("threshold", strconv.Itoa(threshold))
	}
	endpoint.SetIf(params, "query", strings.TrimSpace(q.Filter.Query))
	endpoint.SetID(params, "supplierId", q.Filter.SupplierID)

	return endpoint.List[domain.Stock](ctx, r.client, e, params)
}
