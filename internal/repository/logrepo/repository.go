package logrepo

import (
	"context"

	"stockify/internal/domain"
	"stockify/internal/pkg/restclient"
	"stockify/internal/repository/endpoint"
)

// LogRepository acessa a trilha de auditoria.
type LogRepository struct {
	client restclient.Doer
}

// NewLogRepository cria e retorna uma nova instância do Repositório.
func NewLogRepository(client restclient.Doer) *LogRepository {
	return &LogRepository{client: client}
}

// List lista entradas de auditoria filtradas por entidade e operação.
func (r *LogRepository) List(ctx context.Context, q domain.Query[domain.LogFilter]) (domain.Page[domain.Log], error) {
	params := endpoint.PageQuery(q.Page, q.Size, domain.Sort{})
	endpoint.SetIf(params, "entity", string(q.Filter.Entity))
	endpoint.SetIf(params, "operationType", string(q.Filter.OperationType))
	return endpoint.List[domain.Log](ctx, r.client, endpoint.LogList, params)
}

// Recent devolve as entradas mais recentes (dashboard).
func (r *LogRepository) Recent(ctx context.Context, page, size int) (domain.Page[domain.Log], error) {
	params := endpoint.PageQuery(page, size, domain.Sort{})
	return endpoint.List[domain.Log](ctx, r.client, endpoint.LogRecent, params)
}
