package middleware

import (
	"context"
	"strings"

	"github.com/go-resty/resty/v2"

	apperror "stockify/internal/errors"
)

// ContextKey é o tipo das chaves de contexto deste pacote.
// Context Keys devem ser não-exportadas e de um tipo único.
type ContextKey int

const (
	skipAuthKey ContextKey = iota
)

// TokenSource fornece o access token corrente, renovando-o antecipadamente se necessário.
// Devolve "" sem erro quando não há sessão.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// WithoutAuth marca o contexto para que a requisição siga sem Authorization
// (login, cadastro e renovação do token).
func WithoutAuth(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipAuthKey, true)
}

// IsPublic indica se o contexto foi marcado com WithoutAuth.
func IsPublic(ctx context.Context) bool {
	v, _ := ctx.Value(skipAuthKey).(bool)
	return v
}

// BearerAuth anexa "Authorization: Bearer <token>" às requisições autenticadas.
// Um header já presente (e.g., na repetição após renovação) é preservado.
func BearerAuth(src TokenSource) resty.RequestMiddleware {
	return func(_ *resty.Client, r *resty.Request) error {
		ctx := r.Context()
		if IsPublic(ctx) || r.Header.Get("Authorization") != "" {
			return nil
		}

		tok, err := src.AccessToken(ctx)
		if err != nil {
			return apperror.NewUnauthorizedError("Sessão expirada. Faça login novamente.")
		}
		if tok != "" {
			r.SetHeader("Authorization", "Bearer "+tok)
		}
		return nil
	}
}

// BearerToken extrai o token de um header Authorization ("" se ausente ou malformado).
func BearerToken(header string) string {
	if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return ""
	}
	return header[7:]
}
