package app

import (
	"context"

	"stockify/config"
	"stockify/internal/pkg/cache"
	"stockify/internal/pkg/logger"
	"stockify/internal/pkg/middleware"
	"stockify/internal/pkg/notify"
	"stockify/internal/pkg/restclient"
	"stockify/internal/pkg/validation"
	"stockify/internal/repository/authrepo"
	"stockify/internal/repository/logrepo"
	"stockify/internal/repository/productrepo"
	"stockify/internal/repository/reportrepo"
	"stockify/internal/repository/salerepo"
	"stockify/internal/repository/stockrepo"
	"stockify/internal/repository/supplierrepo"
	"stockify/internal/screen"
	"stockify/internal/service/authservice"
	"stockify/internal/service/dashboardservice"
	"stockify/internal/service/productservice"
	"stockify/internal/service/stockservice"
	"stockify/internal/service/supplierservice"
)

// App reúne as dependências do cliente já montadas.
// Ordem de montagem: transporte -> repositórios -> serviços; as telas são criadas sob demanda.
type App struct {
	Config  *config.Config
	Logger  logger.Logger
	Notices *notify.Center
	Client  *restclient.Client

	Auth      *authservice.Manager
	Suppliers *supplierservice.Service
	Products  *productservice.Service
	Stock     *stockservice.Service
	Dashboard *dashboardservice.Service
	Sales     *salerepo.SaleRepository
	Logs      *logrepo.LogRepository
}

// New monta o App. cacheClient guarda a sessão e o dashboard (Redis ou memória).
func New(cfg *config.Config, log logger.Logger, cacheClient cache.Client, opts ...restclient.Option) *App {
	v := validation.New()
	notices := notify.NewCenter(cfg.NoticeTTL, log)

	// O transporte depende do gerenciador de sessão (token e renovação),
	// que por sua vez usa o transporte nas rotas públicas de autenticação.
	var auth *authservice.Manager
	source := tokenSource(func(ctx context.Context) (string, error) { return auth.AccessToken(ctx) })
	refresher := refreshFunc(func(ctx context.Context, rejected string) (string, error) { return auth.Refresh(ctx, rejected) })

	limiter := middleware.NewLimiter(cfg.RateLimitMaxRequests, cfg.RateLimitPeriod)
	clientOpts := append([]restclient.Option{
		restclient.WithRefresher(refresher),
		restclient.WithMiddleware(
			middleware.RequestID(),
			middleware.RateLimiter(limiter),
			middleware.BearerAuth(source),
		),
	}, opts...)
	client := restclient.New(cfg.APIURL, cfg.HTTPTimeout, log, clientOpts...)

	store := authservice.NewCacheStore(cacheClient, cfg.SessionTTL)
	auth = authservice.NewManager(authrepo.NewAuthRepository(client), store, log, v, cfg.TokenRefreshBuffer)

	supplierRepo := supplierrepo.NewSupplierRepository(client)
	productRepo := productrepo.NewProductRepository(client)
	stockRepo := stockrepo.NewStockRepository(client)
	reportRepo := reportrepo.NewReportRepository(client)
	saleRepo := salerepo.NewSaleRepository(client)
	logRepo := logrepo.NewLogRepository(client)

	a := &App{
		Config:    cfg,
		Logger:    log,
		Notices:   notices,
		Client:    client,
		Auth:      auth,
		Suppliers: supplierservice.NewService(supplierRepo, log, v),
		Products:  productservice.NewService(productRepo, log, v),
		Stock:     stockservice.NewService(stockRepo, reportRepo, saleRepo, cfg.StockThreshold, log, v),
		Dashboard: dashboardservice.NewService(stockRepo, saleRepo, logRepo, reportRepo, cacheClient, cfg.CacheTTL, cfg.StockThreshold, log),
		Sales:     saleRepo,
		Logs:      logRepo,
	}

	// Sessão expirada: o dashboard em cache pertence ao usuário anterior.
	auth.OnExpired(func() {
		a.Dashboard.Invalidate(context.Background())
		notices.Error("Sessão expirada. Faça login novamente.")
	})
	return a
}

// Deps devolve as dependências comuns das telas.
// Toda mutação invalida o dashboard em cache.
func (a *App) Deps() screen.Deps {
	return screen.Deps{
		Notices:        a.Notices,
		Logger:         a.Logger,
		PageSize:       a.Config.PageSize,
		Debounce:       a.Config.SearchDebounce,
		TypeaheadDelay: a.Config.TypeaheadDebounce,
		OnMutation: func(ctx context.Context) error {
			a.Dashboard.Invalidate(ctx)
			return nil
		},
	}
}

type tokenSource func(ctx context.Context) (string, error)

func (f tokenSource) AccessToken(ctx context.Context) (string, error) { return f(ctx) }

type refreshFunc func(ctx context.Context, rejected string) (string, error)

func (f refreshFunc) Refresh(ctx context.Context, rejected string) (string, error) { return f(ctx, rejected) }
