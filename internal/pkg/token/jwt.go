package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Kind distingue access tokens de refresh tokens.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// TokenService define o contrato para emissão e validação de JWTs (usado pelo backend fake).
type TokenService interface {
	GenerateToken(username string, kind Kind) (string, error)
	ValidateToken(tokenString string) (*CustomClaims, error)
}

// CustomClaims define as informações específicas armazenadas no JWT.
// É obrigatório incorporar jwt.RegisteredClaims.
type CustomClaims struct {
	Username string `json:"username"`
	Kind     Kind   `json:"kind"`
	jwt.RegisteredClaims
}

// Service implementa a interface TokenService com HS256.
type Service struct {
	secretKey  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewService cria uma nova instância do serviço Token.
func NewService(secretKey string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		secretKey:  []byte(secretKey),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// GenerateToken cria um novo JWT assinado com a validade padrão do tipo.
func (s *Service) GenerateToken(username string, kind Kind) (string, error) {
	ttl := s.accessTTL
	if kind == KindRefresh {
		ttl = s.refreshTTL
	}
	return s.GenerateTokenWithTTL(username, kind, ttl)
}

// GenerateTokenWithTTL cria um JWT com validade explícita (ttl negativo gera token já expirado).
func (s *Service) GenerateTokenWithTTL(username string, kind Kind, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := CustomClaims{
		Username: username,
		Kind:     kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "Stockify-API",
			Subject:   username,
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	// Assina o token com a chave secreta
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("falha ao assinar o token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken valida o token string e retorna as claims se for válido.
func (s *Service) ValidateToken(tokenString string) (*CustomClaims, error) {
	claims := &CustomClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verifica se o método de assinatura é o esperado (HS256)
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de assinatura inesperado: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})

	if err != nil {
		// Trata erros comuns de JWT, como token expirado ou inválido
		return nil, fmt.Errorf("token inválido: %w", err)
	}

	if !token.Valid {
		return nil, errors.New("token não é válido")
	}

	return claims, nil
}

// ExpiresAt lê o claim exp sem verificar a assinatura.
// O cliente não conhece a chave do backend; o valor serve apenas para renovação antecipada.
func ExpiresAt(tokenString string) (time.Time, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return time.Time{}, fmt.Errorf("token malformado: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, errors.New("token sem claim exp")
	}
	return claims.ExpiresAt.Time, nil
}
