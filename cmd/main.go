package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stockify/config"
	"stockify/internal/app"
	"stockify/internal/domain"
	"stockify/internal/pkg/cache"
	"stockify/internal/pkg/fakeapi"
	"stockify/internal/pkg/logger"
	"stockify/internal/pkg/telemetry"
)

const version = "0.1.0"

func main() {
	os.Exit(runMain(os.Args[1:]))
}

// runMain executa o cliente e devolve o código de saída.
// Encerrar só em main garante que os defers (tracing, backend de demonstração, Redis) rodem.
func runMain(args []string) int {
	// 1. Flags globais (antes do comando)
	fs := flag.NewFlagSet("stockify", flag.ContinueOnError)
	demo := fs.Bool("demo", false, "sobe um backend em memória com dados de demonstração")
	username := fs.String("user", "", "usuário para login automático")
	password := fs.String("password", "", "senha para login automático")
	fs.Usage = usage(fs)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	// 2. Configuração e Inicialização
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("❌ Configuração inválida: %v", err)
		return 1
	}
	logg := logger.NewLogger(cfg.Environment, cfg.LogLevel)
	logg.Debug("Configurações carregadas.", map[string]interface{}{"api_url": cfg.APIURL})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.OTLPEndpoint, "stockify-cli", version)
	if err != nil {
		logg.Error("Falha ao iniciar o tracing.", err)
		return 1
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(sctx); err != nil {
			logg.Error("Falha ao encerrar o tracing.", err)
		}
	}()

	// 3. Backend de demonstração (opcional)
	if *demo {
		closeDemo, err := startDemo(cfg, logg)
		if err != nil {
			logg.Error("Falha ao iniciar o backend de demonstração.", err)
			return 1
		}
		defer closeDemo()
		if *username == "" {
			*username, *password = "admin", "admin123"
		}
	}

	// 4. Cache (Redis ou memória)
	var cacheClient cache.Client = cache.NewMemoryClient()
	if cfg.RedisAddr != "" {
		redisClient, err := cache.NewRedisClient(cfg.RedisAddr)
		if err != nil {
			logg.Error("Falha ao conectar ao Redis.", err)
			return 1
		}
		defer redisClient.Close()
		cacheClient = redisClient
		logg.Debug("Conexão Redis estabelecida.", nil)
	}

	// 5. Injeção de dependências
	a := app.New(cfg, logg, cacheClient)

	if *username != "" {
		if _, ok := a.Auth.Session(ctx); !ok {
			if _, err := a.Auth.Login(ctx, domain.Credentials{Username: *username, Password: *password}); err != nil {
				return fail(err)
			}
		}
	}

	// 6. Execução do comando
	if err := run(ctx, a, fs.Arg(0), fs.Args()[1:]); err != nil {
		return fail(err)
	}
	return 0
}

// startDemo sobe o backend fake em uma porta local e aponta a configuração para ele.
func startDemo(cfg *config.Config, logg logger.Logger) (func(), error) {
	fake := fakeapi.New(fakeapi.WithLogger(logg))
	fake.Seed()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	server := &http.Server{
		Handler:      fake.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error("Backend de demonstração falhou.", err)
		}
	}()

	cfg.APIURL = "http://" + ln.Addr().String() + "/api"
	logg.Info("Backend de demonstração ativo.", map[string]interface{}{"url": cfg.APIURL})

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}, nil
}

func usage(fs *flag.FlagSet) func() {
	return func() {
		fmt.Fprintf(fs.Output(), `Uso: stockify [--demo] [--user U --password P] <comando> [opções]

Comandos:
  login --user U --password P     inicia a sessão
  logout                          encerra a sessão
  register --user U --email E --password P [--admin]
  suppliers [--search T --type T --page N]
  products --supplier ID [--search T --page N]
  stock [--query T --supplier ID --page N]
  sell --stock ID --qty N
  report critical|low|adequate|out [--query T --supplier ID --sort quantity|supplier --dir asc|desc --page N]
  sold [--query T --supplier ID --from AAAA-MM-DD --to AAAA-MM-DD --page N]
  sales [--days N]
  logs [--entity E --op OP --page N]
  dashboard [--reload]

Opções globais:
`)
		fs.PrintDefaults()
	}
}

var errOut io.Writer = os.Stderr

func fail(err error) int {
	fmt.Fprintln(errOut, "❌", userMessage(err))
	return 1
}
