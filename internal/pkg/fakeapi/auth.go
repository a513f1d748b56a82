package fakeapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"stockify/internal/domain"
	"stockify/internal/pkg/middleware"
	"stockify/internal/pkg/token"
)

type ctxKey int

const userKey ctxKey = iota

type user struct {
	ID       int64
	Username string
	Email    string
	Hash     []byte
	Roles    []domain.UserRole
}

var (
	errUsernameTaken = errors.New("Erro: Nome de usuário já está em uso!")
	errEmailTaken    = errors.New("Erro: Email já está em uso!")
)

// addUser cadastra o usuário. A verificação de unicidade e a inserção
// ocorrem na mesma seção crítica.
func (s *Server) addUser(username, email, password string, roles ...domain.UserRole) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.findUserLocked(username); taken {
		return errUsernameTaken
	}
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return errEmailTaken
		}
	}
	s.users = append(s.users, user{ID: s.id("user"), Username: username, Email: email, Hash: hash, Roles: roles})
	return nil
}

func (s *Server) mustAddUser(username, email, password string, roles ...domain.UserRole) {
	if err := s.addUser(username, email, password, roles...); err != nil {
		panic(err)
	}
}

// findUserLocked busca pelo username.
func (s *Server) findUserLocked(username string) (user, bool) {
	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			return u, true
		}
	}
	return user{}, false
}

// requireAuth valida o bearer token e anexa o usuário ao contexto.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := middleware.BearerToken(r.Header.Get("Authorization"))
		if tok == "" {
			writeError(w, r, http.StatusUnauthorized, "Token de autorização ausente ou malformado.")
			return
		}

		claims, err := s.tokens.ValidateToken(tok)
		s.mu.Lock()
		accepted := s.valid[tok]
		u, found := s.findUserLocked(usernameOf(claims))
		s.mu.Unlock()

		if err != nil || !accepted || claims.Kind != token.KindAccess || !found {
			writeError(w, r, http.StatusUnauthorized, "Token inválido ou expirado.")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, u)))
	})
}

// requireRole recusa com 403 usuários sem algum dos papéis.
func requireRole(roles ...domain.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, _ := r.Context().Value(userKey).(user)
			for _, have := range u.Roles {
				for _, want := range roles {
					if have == want {
						next.ServeHTTP(w, r)
						return
					}
				}
			}
			writeError(w, r, http.StatusForbidden, "Acesso negado.")
		})
	}
}

func usernameOf(c *token.CustomClaims) string {
	if c == nil {
		return ""
	}
	return c.Username
}

func (s *Server) issue(username string) (access, refresh string, err error) {
	access, err = s.tokens.GenerateToken(username, token.KindAccess)
	if err != nil {
		return "", "", err
	}
	refresh, err = s.tokens.GenerateToken(username, token.KindRefresh)
	if err != nil {
		return "", "", err
	}
	s.mu.Lock()
	s.valid[access] = true
	s.mu.Unlock()
	return access, refresh, nil
}

func (s *Server) signin(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	if !decode(w, r, &creds) {
		return
	}

	s.mu.Lock()
	u, ok := s.findUserLocked(creds.Username)
	s.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(u.Hash, []byte(creds.Password)) != nil {
		writeError(w, r, http.StatusUnauthorized, "Usuário ou senha inválidos.")
		return
	}

	access, refresh, err := s.issue(u.Username)
	if err != nil {
		s.logger.Error("Falha ao emitir tokens.", err)
		writeError(w, r, http.StatusInternalServerError, "Erro interno.")
		return
	}

	writeJSON(w, http.StatusOK, domain.JwtResponse{
		AccessToken: access, RefreshToken: refresh, TokenType: "Bearer",
		ID: u.ID, Username: u.Username, Email: u.Email, Roles: u.Roles,
	})
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var reg domain.UserRegistration
	if !decode(w, r, &reg) {
		return
	}
	if msg := checkRegistration(reg); msg != "" {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	role := domain.RoleUser
	for _, rl := range reg.Role {
		if strings.EqualFold(rl, "admin") {
			role = domain.RoleAdmin
		}
	}
	if err := s.addUser(strings.TrimSpace(reg.Username), strings.TrimSpace(reg.Email), reg.Password, role); err != nil {
		if errors.Is(err, errUsernameTaken) || errors.Is(err, errEmailTaken) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("Falha ao cadastrar usuário.", err)
		writeError(w, r, http.StatusInternalServerError, "Erro interno.")
		return
	}
	writeJSON(w, http.StatusOK, domain.MessageResponse{Message: "Usuário registrado com sucesso!"})
}

// checkRegistration aplica os limites do cadastro: usuário 3-20, e-mail até 50, senha 8-40.
func checkRegistration(reg domain.UserRegistration) string {
	username, email := strings.TrimSpace(reg.Username), strings.TrimSpace(reg.Email)
	switch {
	case len(username) < 3 || len(username) > 20:
		return "O nome de usuário deve ter entre 3 e 20 caracteres."
	case email == "" || len(email) > 50 || !strings.Contains(email, "@"):
		return "E-mail inválido."
	case len(reg.Password) < 8 || len(reg.Password) > 40:
		return "A senha deve ter entre 8 e 40 caracteres."
	}
	return ""
}

func (s *Server) refreshToken(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if !decode(w, r, &body) {
		return
	}

	claims, err := s.tokens.ValidateToken(body.RefreshToken)
	if err != nil || claims.Kind != token.KindRefresh {
		writeError(w, r, http.StatusUnauthorized, "Refresh token inválido ou expirado.")
		return
	}

	access, err := s.tokens.GenerateToken(claims.Username, token.KindAccess)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "Erro interno.")
		return
	}
	s.mu.Lock()
	s.valid[access] = true
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, domain.RefreshResponse{AccessToken: access})
}
