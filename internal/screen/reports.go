package screen

import (
	"context"

	"stockify/internal/domain"
	"stockify/internal/listing"
)

// Campos de ordenação aceitos pelos relatórios.
const (
	SortByQuantity = "quantity"
	SortBySupplier = "supplier"
)

type ReportService interface {
	Report(ctx context.Context, level domain.ReportLevel, q domain.Query[domain.ReportFilter]) (domain.Page[domain.Stock], error)
}

// Report é uma tela de relatório de estoque (crítico, baixo, adequado ou zerado).
// Um relatório sem resultados é exibido como lista vazia.
type Report struct {
	Level domain.ReportLevel
	List  *listing.Controller[domain.Stock, domain.ReportFilter]
}

// NewReport monta a tela do nível informado, ordenada por quantidade crescente.
func NewReport(svc ReportService, level domain.ReportLevel, deps Deps) *Report {
	return &Report{
		Level: level,
		List: listing.New(listing.Config[domain.Stock, domain.ReportFilter]{
			Name: "report." + string(level),
			Fetch: func(ctx context.Context, q domain.Query[domain.ReportFilter]) (domain.Page[domain.Stock], error) {
				return svc.Report(ctx, level, q)
			},
			KeyOf:           func(st domain.Stock) int64 { return st.ID },
			NotFoundAsEmpty: true,
			PageSize:        deps.PageSize,
			Sort:            domain.Sort{Field: SortByQuantity, Direction: domain.Asc},
			Debounce:        deps.Debounce,
			Logger:          deps.logger(),
		}),
	}
}

// SortBy troca o campo de ordenação mantendo a direção.
func (r *Report) SortBy(field string) bool {
	sort := r.List.Snapshot().Query.Sort
	sort.Field = field
	return r.List.SetSort(sort)
}

// Close encerra as buscas da tela.
func (r *Report) Close() { r.List.Close() }
