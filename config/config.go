package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config armazena todas as configurações do cliente Stockify.
// Os campos cobrem transporte, sessão, cache e os tempos de interação das telas.
type Config struct {
	// Geral
	Environment string `envconfig:"ENV" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Backend (API REST)
	APIURL      string        `envconfig:"STOCKIFY_API_URL" default:"http://localhost:8081/api"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"15s"`

	// Cache (Redis). Vazio = stores em memória.
	RedisAddr  string        `envconfig:"REDIS_ADDR" default:""`
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	CacheTTL   time.Duration `envconfig:"CACHE_TTL" default:"30s"`

	// Sessão (JWT)
	TokenRefreshBuffer time.Duration `envconfig:"TOKEN_REFRESH_BUFFER" default:"30s"`

	// Interação
	SearchDebounce    time.Duration `envconfig:"SEARCH_DEBOUNCE" default:"300ms"`
	TypeaheadDebounce time.Duration `envconfig:"TYPEAHEAD_DEBOUNCE" default:"250ms"`
	NoticeTTL         time.Duration `envconfig:"NOTICE_TTL" default:"6s"`
	PageSize          int           `envconfig:"PAGE_SIZE" default:"10"`
	StockThreshold    int           `envconfig:"STOCK_THRESHOLD" default:"5"`

	// Rate Limiting (lado cliente)
	RateLimitMaxRequests int           `envconfig:"RATE_LIMIT_MAX_REQUESTS" default:"100"`
	RateLimitPeriod      time.Duration `envconfig:"RATE_LIMIT_PERIOD" default:"1m"`

	// Tracing. Vazio = desligado.
	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:""`
}

// LoadConfig carrega as configurações a partir do .env (se existir) e das variáveis de ambiente.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env é opcional; apenas em development vale o aviso.
		log.Printf("⚠️ Aviso: arquivo .env não carregado: %v", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	return &cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.APIURL) == "" {
		return errors.New("STOCKIFY_API_URL deve ser definida")
	}
	if c.PageSize <= 0 {
		return errors.New("PAGE_SIZE deve ser maior que zero")
	}
	if c.RateLimitMaxRequests <= 0 || c.RateLimitPeriod <= 0 {
		return errors.New("RATE_LIMIT_MAX_REQUESTS e RATE_LIMIT_PERIOD devem ser positivos")
	}
	return nil
}

// IsProduction indica se o cliente roda em produção.
func (c *Config) IsProduction() bool {
	return c != nil && c.Environment == "production"
}
