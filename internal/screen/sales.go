package screen

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"stockify/internal/domain"
	"stockify/internal/listing"
)

type SaleSource interface {
	SoldItems(ctx context.Context, q domain.Query[domain.SoldItemsFilter]) (domain.Page[domain.SoldItem], error)
	GroupedByDay(ctx context.Context, startDate, endDate string) ([]domain.DailySales, error)
	BestSellers(ctx context.Context) ([]domain.BestSellingItem, error)
}

// SoldItems é a tela de itens vendidos, agregados por produto e dia.
// A ordenação é só pela data; o padrão é a mais recente primeiro.
type SoldItems struct {
	List *listing.Controller[domain.SoldItem, domain.SoldItemsFilter]
}

// NewSoldItems monta a tela.
func NewSoldItems(src SaleSource, deps Deps) *SoldItems {
	return &SoldItems{
		List: listing.New(listing.Config[domain.SoldItem, domain.SoldItemsFilter]{
			Name:     "sales.soldItems",
			Fetch:    src.SoldItems,
			PageSize: deps.PageSize,
			Sort:     domain.Sort{Direction: domain.Desc},
			Debounce: deps.Debounce,
			Logger:   deps.logger(),
		}),
	}
}

// Close encerra as buscas da tela.
func (s *SoldItems) Close() { s.List.Close() }

// SalesSummary é o resumo de vendas de um período.
type SalesSummary struct {
	Days        []domain.DailySales
	Total       int64
	BestSellers []domain.BestSellingItem
}

// LoadSalesSummary busca as vendas por dia e os mais vendidos em paralelo.
// from e to são datas "2006-01-02"; vazias não limitam o período.
func LoadSalesSummary(ctx context.Context, src SaleSource, from, to string) (SalesSummary, error) {
	var sum SalesSummary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		days, err := src.GroupedByDay(gctx, from, to)
		if err != nil {
			return err
		}
		sum.Days = days
		for _, d := range days {
			sum.Total += d.TotalQuantitySold
		}
		return nil
	})
	g.Go(func() error {
		best, err := src.BestSellers(gctx)
		if err != nil {
			return err
		}
		sum.BestSellers = best
		return nil
	})
	if err := g.Wait(); err != nil {
		return SalesSummary{}, err
	}
	return sum, nil
}

// LastDays devolve o período dos últimos n dias até now, no formato aceito pelo backend.
func LastDays(now time.Time, n int) (from, to string) {
	const layout = "2006-01-02"
	return now.AddDate(0, 0, -(n - 1)).Format(layout), now.Format(layout)
}
