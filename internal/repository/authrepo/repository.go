package authrepo

import (
	"context"

	"stockify/internal/domain"
	"stockify/internal/pkg/middleware"
	"stockify/internal/pkg/restclient"
	"stockify/internal/repository/endpoint"
)

// AuthRepository acessa os endpoints públicos de autenticação.
// As chamadas seguem sem Authorization e nunca disparam renovação de token.
type AuthRepository struct {
	client restclient.Doer
}

// NewAuthRepository cria e retorna uma nova instância do Repositório.
func NewAuthRepository(client restclient.Doer) *AuthRepository {
	return &AuthRepository{client: client}
}

// Signin autentica e devolve o par de tokens.
func (r *AuthRepository) Signin(ctx context.Context, creds domain.Credentials) (domain.JwtResponse, error) {
	return endpoint.Object[domain.JwtResponse](middleware.WithoutAuth(ctx), r.client, endpoint.AuthSignin, creds)
}

// Signup cadastra um novo usuário.
func (r *AuthRepository) Signup(ctx context.Context, reg domain.UserRegistration) (domain.MessageResponse, error) {
	return endpoint.Object[domain.MessageResponse](middleware.WithoutAuth(ctx), r.client, endpoint.AuthSignup, reg)
}

// Refresh troca o refresh token por um novo access token.
func (r *AuthRepository) Refresh(ctx context.Context, refreshToken string) (domain.RefreshResponse, error) {
	body := map[string]string{"refreshToken": refreshToken}
	return endpoint.Object[domain.RefreshResponse](middleware.WithoutAuth(ctx), r.client, endpoint.AuthRefresh, body)
}
