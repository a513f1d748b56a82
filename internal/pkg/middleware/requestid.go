package middleware

import (
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// RequestIDHeader é o header usado para correlacionar logs cliente/servidor.
const RequestIDHeader = "X-Request-ID"

// RequestID gera um id por requisição.
func RequestID() resty.RequestMiddleware {
	return func(_ *resty.Client, r *resty.Request) error {
		if r.Header.Get(RequestIDHeader) == "" {
			r.SetHeader(RequestIDHeader, uuid.NewString())
		}
		return nil
	}
}
