package restclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"stockify/internal/domain"
	apperror "stockify/internal/errors"
	"stockify/internal/pkg/logger"
	"stockify/internal/pkg/middleware"
)

// Request descreve uma chamada ao backend. Path já vem com os ids substituídos.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   interface{}
}

// Doer é o contrato usado pelos repositórios.
// Devolve o corpo de respostas 2xx ou um apperror tipado.
type Doer interface {
	Do(ctx context.Context, req Request) ([]byte, error)
}

// Refresher renova o access token após um 401.
// rejected é o token recusado pelo servidor; se já houver um mais novo, ele é devolvido sem nova renovação.
type Refresher interface {
	Refresh(ctx context.Context, rejected string) (string, error)
}

// Client é o transporte HTTP do Stockify sobre resty.
type Client struct {
	http      *resty.Client
	refresher Refresher
	tracer    trace.Tracer
	logger    logger.Logger
}

// Option configura o Client.
type Option func(*Client)

// WithRefresher habilita a renovação do token e a repetição única após 401.
func WithRefresher(r Refresher) Option {
	return func(c *Client) { c.refresher = r }
}

// WithMiddleware registra middlewares de saída (executados na ordem informada).
func WithMiddleware(mw ...resty.RequestMiddleware) Option {
	return func(c *Client) {
		for _, m := range mw {
			c.http.OnBeforeRequest(m)
		}
	}
}

// WithTracerProvider troca o provider (o padrão é o global do otel).
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) { c.tracer = tp.Tracer("stockify/restclient") }
}

// New cria o cliente apontando para baseURL (e.g., "http://localhost:8081/api").
func New(baseURL string, timeout time.Duration, log logger.Logger, opts ...Option) *Client {
	h := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")

	c := &Client{
		http:   h,
		tracer: otel.Tracer("stockify/restclient"),
		logger: log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do executa a requisição. Um 401 numa chamada autenticada dispara uma renovação
// do token e exatamente uma nova tentativa; um segundo 401 é devolvido ao chamador.
func (c *Client) Do(ctx context.Context, req Request) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, req.Method+" "+req.Path, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.request.method", req.Method),
		attribute.String("url.path", req.Path),
	)

	resp, err := c.execute(ctx, req, "")
	if err != nil {
		return nil, c.fail(span, err)
	}

	if resp.StatusCode() == http.StatusUnauthorized && c.refresher != nil && !middleware.IsPublic(ctx) {
		rejected := middleware.BearerToken(resp.Request.Header.Get("Authorization"))
		c.logger.Warn("Token recusado pelo servidor, renovando.", map[string]interface{}{"path": req.Path})
		span.AddEvent("token.refresh")

		fresh, rerr := c.refresher.Refresh(ctx, rejected)
		if rerr != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, c.fail(span, ctxErr)
			}
			return nil, c.fail(span, apperror.NewUnauthorizedError("Sessão expirada. Faça login novamente."))
		}

		resp, err = c.execute(ctx, req, fresh)
		if err != nil {
			return nil, c.fail(span, err)
		}
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode()))
	if resp.IsSuccess() {
		return resp.Body(), nil
	}
	return nil, c.fail(span, apperror.FromStatus(resp.StatusCode(), errorMessage(resp.Body())))
}

func (c *Client) execute(ctx context.Context, req Request, bearer string) (*resty.Response, error) {
	r := c.http.R().SetContext(ctx)
	if req.Query != nil {
		r.SetQueryParamsFromValues(req.Query)
	}
	if req.Body != nil {
		r.SetBody(req.Body)
	}
	if bearer != "" {
		r.SetHeader("Authorization", "Bearer "+bearer)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(r.Header))

	start := time.Now()
	resp, err := r.Execute(req.Method, req.Path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var appErr apperror.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperror.NewTransportError("falha ao contatar o servidor", 0, err)
	}

	c.logger.Debug("Requisição concluída.", map[string]interface{}{
		"method":   req.Method,
		"path":     req.Path,
		"status":   resp.StatusCode(),
		"duration": time.Since(start).String(),
	})
	return resp, nil
}

func (c *Client) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// errorMessage extrai {message} do corpo de erro; texto simples curto também é aceito.
func errorMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}
	var er domain.ErrorResponse
	if err := json.Unmarshal(body, &er); err == nil {
		return er.Message
	}
	if len(trimmed) <= 200 && !strings.HasPrefix(trimmed, "<") {
		return trimmed
	}
	return ""
}
