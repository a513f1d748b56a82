package dashboardservice

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"stockify/internal/domain"
	apperror "stockify/internal/errors"
	"stockify/internal/pkg/cache"
	"stockify/internal/pkg/logger"
)

const (
	// CacheKey é a chave do painel no cache.
	CacheKey = "stockify:dashboard"

	bestSellersLimit = 8
	recentLogsSize   = 5
	criticalSize     = 5
)

type StockRepository interface {
	Summary(ctx context.Context) (domain.StockSummary, error)
}

type SaleRepository interface {
	BestSellers(ctx context.Context) ([]domain.BestSellingItem, error)
}

type LogRepository interface {
	Recent(ctx context.Context, page, size int) (domain.Page[domain.Log], error)
}

type ReportRepository interface {
	Report(ctx context.Context, level domain.ReportLevel, threshold int, q domain.Query[domain.ReportFilter]) (domain.Page[domain.Stock], error)
}

// Overview agrega os blocos exibidos no dashboard.
type Overview struct {
	Summary       domain.StockSummary      `json:"summary"`
	BestSellers   []domain.BestSellingItem `json:"bestSellers"`
	RecentLogs    []domain.Log             `json:"recentLogs"`
	Critical      []domain.Stock           `json:"critical"`
	CriticalTotal int64                    `json:"criticalTotal"`
	LoadedAt      time.Time                `json:"loadedAt"`
}

// Service carrega o dashboard em paralelo e mantém o resultado em cache por ttl.
type Service struct {
	stocks    StockRepository
	sales     SaleRepository
	logs      LogRepository
	reports   ReportRepository
	cache     cache.Client
	ttl       time.Duration
	threshold int
	logger    logger.Logger
}

// NewService cria o serviço do dashboard.
func NewService(stocks StockRepository, sales SaleRepository, logs LogRepository, reports ReportRepository,
	c cache.Client, ttl time.Duration, threshold int, log logger.Logger) *Service {
	return &Service{
		stocks: stocks, sales: sales, logs: logs, reports: reports,
		cache: c, ttl: ttl, threshold: threshold, logger: log,
	}
}

// Load devolve o dashboard do cache ou, se ausente/expirado, consulta os quatro blocos em paralelo.
// A falha de qualquer bloco cancela os demais.
func (s *Service) Load(ctx context.Context) (Overview, error) {
	if ov, ok := s.cached(ctx); ok {
		return ov, nil
	}

	var ov Overview
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sum, err := s.stocks.Summary(gctx)
		ov.Summary = sum
		return err
	})
	g.Go(func() error {
		items, err := s.sales.BestSellers(gctx)
		if len(items) > bestSellersLimit {
			items = items[:bestSellersLimit]
		}
		ov.BestSellers = items
		return err
	})
	g.Go(func() error {
		page, err := s.logs.Recent(gctx, 0, recentLogsSize)
		if apperror.IsNotFound(err) {
			return nil
		}
		ov.RecentLogs = page.Items
		return err
	})
	g.Go(func() error {
		q := domain.Query[domain.ReportFilter]{Size: criticalSize, Sort: domain.Sort{Field: "quantity", Direction: domain.Asc}}
		page, err := s.reports.Report(gctx, domain.ReportCritical, s.threshold, q)
		if apperror.IsNotFound(err) {
			return nil
		}
		ov.Critical = page.Items
		ov.CriticalTotal = page.TotalItems
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("Falha ao carregar o dashboard.", err)
		return Overview{}, err
	}
	ov.LoadedAt = time.Now()

	s.store(ctx, ov)
	return ov, nil
}

// Invalidate descarta o dashboard em cache (após mutações).
func (s *Service) Invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, CacheKey); err != nil {
		s.logger.Warn("Falha ao invalidar o cache do dashboard.", map[string]interface{}{"error": err.Error()})
	}
}

func (s *Service) cached(ctx context.Context) (Overview, bool) {
	raw, err := s.cache.Get(ctx, CacheKey)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("Falha ao ler o cache do dashboard.", map[string]interface{}{"error": err.Error()})
		}
		return Overview{}, false
	}
	var ov Overview
	if err := json.Unmarshal([]byte(raw), &ov); err != nil {
		return Overview{}, false
	}
	s.logger.Debug("Dashboard servido do cache.", map[string]interface{}{"loaded_at": ov.LoadedAt})
	return ov, true
}

func (s *Service) store(ctx context.Context, ov Overview) {
	if s.ttl <= 0 {
		return
	}
	b, err := json.Marshal(ov)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, CacheKey, b, s.ttl); err != nil {
		s.logger.Warn("Falha ao gravar o cache do dashboard.", map[string]interface{}{"error": err.Error()})
	}
}
