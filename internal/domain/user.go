package domain

import "time"

// UserRole é o papel do usuário conforme devolvido pelo backend.
type UserRole string

// Constantes para os papéis de usuário
const (
	RoleAdmin UserRole = "ROLE_ADMIN"
	RoleUser  UserRole = "ROLE_USER"
)

// Credentials é o payload de login.
type Credentials struct {
	Username string `json:"username" validate:"notblank"`
	Password string `json:"password" validate:"required"`
}

// UserRegistration representa o payload de entrada para o registro.
type UserRegistration struct {
	Username string   `json:"username" validate:"notblank,min=3,max=20"`
	Email    string   `json:"email" validate:"required,email,max=50"`
	Password string   `json:"password" validate:"min=8,max=40"`
	Role     []string `json:"role,omitempty"`
}

// JwtResponse é a resposta de /auth/signin.
type JwtResponse struct {
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
	TokenType    string     `json:"tokenType"`
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	Roles        []UserRole `json:"roles"`
}

// RefreshResponse é a resposta de /auth/refresh-token (apenas o novo access token).
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

// MessageResponse é a resposta genérica {message} (e.g., /auth/signup).
type MessageResponse struct {
	Message string `json:"message"`
}

// Session é o estado de autenticação mantido pelo cliente.
// ExpiresAt vem do claim exp do access token.
type Session struct {
	JwtResponse
	ExpiresAt time.Time `json:"expiresAt"`
}

// ExpiresWithin indica se o access token expira dentro de d a partir de now.
func (s Session) ExpiresWithin(now time.Time, d time.Duration) bool {
	if s.ExpiresAt.IsZero() {
		return true
	}
	return s.ExpiresAt.Sub(now) < d
}

// HasRole verifica se a sessão possui o papel informado.
func (s Session) HasRole(role UserRole) bool {
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}
