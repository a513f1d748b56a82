package middleware

import (
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	apperror "stockify/internal/errors"
)

// NewLimiter cria um token bucket de limit requisições por period (burst = limit).
func NewLimiter(limit int, period time.Duration) *rate.Limiter {
	return rate.NewLimiter(rate.Every(period/time.Duration(limit)), limit)
}

// RateLimiter segura a requisição até haver token disponível no bucket.
// O cancelamento do contexto interrompe a espera.
func RateLimiter(l *rate.Limiter) resty.RequestMiddleware {
	return func(_ *resty.Client, r *resty.Request) error {
		if err := l.Wait(r.Context()); err != nil {
			if ctxErr := r.Context().Err(); ctxErr != nil {
				return ctxErr
			}
			return apperror.NewTransportError("limite de requisições excedido", 0, err)
		}
		return nil
	}
}
