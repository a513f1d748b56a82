package fakeapi

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"stockify/internal/domain"
	"stockify/internal/pkg/logger"
	"stockify/internal/pkg/token"
)

// Secret é a chave HS256 dos tokens emitidos pelo backend fake.
const Secret = "stockify-fake-secret"

// Server é um backend Stockify em memória, com as mesmas rotas, envelopes
// e códigos de status do backend real. Usado nos testes e no modo demo do console.
type Server struct {
	mu        sync.Mutex
	suppliers []domain.Supplier
	products  []domain.Product
	stocks    []domain.Stock
	sales     []saleRecord
	logs      []domain.Log
	users     []user
	nextID    map[string]int64

	valid    map[string]bool
	failures map[string][]failure
	hits     map[string]int

	tokens *token.Service
	logger logger.Logger
	router chi.Router
}

type failure struct {
	status  int
	message string
}

// Option configura o Server.
type Option func(*Server)

// WithTokenTTL define a validade dos tokens emitidos.
func WithTokenTTL(access, refresh time.Duration) Option {
	return func(s *Server) { s.tokens = token.NewService(Secret, access, refresh) }
}

// WithLogger define o logger do servidor.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New cria o servidor com o usuário admin/admin123 e nenhum outro dado.
func New(opts ...Option) *Server {
	s := &Server{
		nextID:   make(map[string]int64),
		valid:    make(map[string]bool),
		failures: make(map[string][]failure),
		hits:     make(map[string]int),
		tokens:   token.NewService(Secret, 15*time.Minute, 24*time.Hour),
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mustAddUser("admin", "admin@stockify.com", "admin123", domain.RoleAdmin)
	s.router = s.routes()
	return s
}

// Handler devolve o roteador HTTP (montado em /api).
func (s *Server) Handler() http.Handler { return s.router }

// Hits devolve quantas requisições chegaram ao padrão de rota (e.g., "/api/suppliers/{id}").
func (s *Server) Hits(pattern string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[pattern]
}

// FailNext faz a próxima requisição ao caminho (e.g., "/api/stock/summary") responder com status e message.
// Chamadas repetidas enfileiram falhas para as requisições seguintes.
func (s *Server) FailNext(path string, status int, message string) {
	s.mu.Lock()
	s.failures[path] = append(s.failures[path], failure{status: status, message: message})
	s.mu.Unlock()
}

// RevokeAccessTokens invalida todos os access tokens emitidos (simula expiração no servidor).
func (s *Server) RevokeAccessTokens() {
	s.mu.Lock()
	s.valid = make(map[string]bool)
	s.mu.Unlock()
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.countHits)

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api", func(r chi.Router) {
		r.Use(s.injectFailures)

		r.Post("/auth/signin", s.signin)
		r.Post("/auth/signup", s.signup)
		r.Post("/auth/refresh-token", s.refreshToken)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/suppliers", s.listSuppliers)
			r.Get("/suppliers/filter", s.filterSuppliers)
			r.Get("/suppliers/search", s.searchSuppliers)
			r.Get("/suppliers/product-types", s.productTypes)
			r.Get("/suppliers/{id}", s.getSupplier)
			r.Post("/suppliers", s.createSupplier)
			r.Put("/suppliers/{id}", s.updateSupplier)

			r.Get("/products", s.listProducts)
			r.Get("/products/search", s.searchProducts)
			r.Get("/products/supplier/{id}", s.productsBySupplier)
			r.Get("/products/supplier/{id}/search", s.productsBySupplier)
			r.Get("/products/{id}", s.getProduct)
			r.Post("/products", s.createProduct)
			r.Put("/products/{id}", s.updateProduct)

			r.Get("/stock/filter", s.filterStock)
			r.Get("/stock/limits", s.stockLimits)
			r.Get("/stock/summary", s.stockSummary)
			r.Get("/stock/critical-stock", s.report(domain.ReportCritical))
			r.Get("/stock/low-stock", s.report(domain.ReportLow))
			r.Get("/stock/adequate-stock", s.report(domain.ReportAdequate))
			r.Get("/stock/out-of-stock", s.report(domain.ReportOutOfStock))
			r.Get("/stock/{id}", s.getStock)
			r.Post("/stock", s.createStock)
			r.Put("/stock/{id}", s.updateStock)

			r.Post("/sales", s.registerSale)
			r.Get("/sales", s.listSales)
			r.Get("/sales/best-sellers", s.bestSellers)
			r.Get("/sales/sold-items", s.soldItems)
			r.Get("/sales/grouped-by-day", s.groupedByDay)

			r.Get("/logs", s.listLogs)
			r.Get("/logs/recent", s.recentLogs)

			// Exclusões exigem administrador.
			r.Group(func(r chi.Router) {
				r.Use(requireRole(domain.RoleAdmin))
				r.Delete("/suppliers/{id}", s.deleteSupplier)
				r.Delete("/products/{id}", s.deleteProduct)
				r.Delete("/stock/{id}", s.deleteStock)
			})
		})
	})
	return r
}

// countHits registra o padrão de rota atendido.
func (s *Server) countHits(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			pattern := rctx.RoutePattern()
			s.mu.Lock()
			s.hits[pattern]++
			s.mu.Unlock()
		}
	})
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// O padrão só é conhecido após o roteamento; compara pelo caminho literal.
		s.mu.Lock()
		var (
			f  failure
			ok bool
		)
		if queue := s.failures[r.URL.Path]; len(queue) > 0 {
			f, ok = queue[0], true
			s.failures[r.URL.Path] = queue[1:]
		}
		s.mu.Unlock()

		if ok {
			writeError(w, r, f.status, f.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}
