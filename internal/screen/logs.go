package screen

import (
	"context"

	"stockify/internal/domain"
	"stockify/internal/listing"
)

type LogSource interface {
	List(ctx context.Context, q domain.Query[domain.LogFilter]) (domain.Page[domain.Log], error)
}

// Logs é a tela de auditoria, filtrável por entidade e operação (mais recentes primeiro).
type Logs struct {
	List *listing.Controller[domain.Log, domain.LogFilter]
}

// NewLogs monta a tela.
func NewLogs(src LogSource, deps Deps) *Logs {
	return &Logs{
		List: listing.New(listing.Config[domain.Log, domain.LogFilter]{
			Name:     "logs",
			Fetch:    src.List,
			KeyOf:    func(l domain.Log) int64 { return l.ID },
			PageSize: deps.PageSize,
			Debounce: deps.Debounce,
			Logger:   deps.logger(),
		}),
	}
}

// Close encerra as buscas da tela.
func (l *Logs) Close() { l.List.Close() }
