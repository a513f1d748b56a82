package authservice

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"stockify/internal/domain"
	apperror "stockify/internal/errors"
	"stockify/internal/pkg/logger"
	"stockify/internal/pkg/token"
	"stockify/internal/pkg/validation"
)

// AuthRepository define o contrato esperado dos endpoints de autenticação.
type AuthRepository interface {
	Signin(ctx context.Context, creds domain.Credentials) (domain.JwtResponse, error)
	Signup(ctx context.Context, reg domain.UserRegistration) (domain.MessageResponse, error)
	Refresh(ctx context.Context, refreshToken string) (domain.RefreshResponse, error)
}

// Manager é o serviço de sessão compartilhado por todas as telas.
// É o único dono do token; renovações concorrentes são serializadas.
type Manager struct {
	repo      AuthRepository
	store     Store
	logger    logger.Logger
	validator *validation.Validator
	buffer    time.Duration
	now       func() time.Time

	group singleflight.Group

	mu        sync.Mutex
	onExpired []func()
}

// NewManager cria o serviço de sessão.
// buffer é a antecedência com que o access token é renovado antes de expirar.
func NewManager(repo AuthRepository, store Store, logger logger.Logger, validator *validation.Validator, buffer time.Duration) *Manager {
	return &Manager{
		repo:      repo,
		store:     store,
		logger:    logger,
		validator: validator,
		buffer:    buffer,
		now:       time.Now,
	}
}

// OnExpired registra um callback disparado quando a sessão é encerrada por falha na renovação.
func (m *Manager) OnExpired(fn func()) {
	m.mu.Lock()
	m.onExpired = append(m.onExpired, fn)
	m.mu.Unlock()
}

// Login autentica o usuário e persiste a sessão.
func (m *Manager) Login(ctx context.Context, creds domain.Credentials) (domain.Session, error) {
	creds.Username = strings.TrimSpace(creds.Username)
	if err := m.validator.Struct(creds); err != nil {
		return domain.Session{}, err
	}

	resp, err := m.repo.Signin(ctx, creds)
	if err != nil {
		m.logger.Warn("Falha no login.", map[string]interface{}{"username": creds.Username, "error": err.Error()})
		if apperror.IsUnauthorized(err) {
			return domain.Session{}, apperror.NewUnauthorizedError("Usuário ou senha inválidos.")
		}
		return domain.Session{}, err
	}

	sess := domain.Session{JwtResponse: resp, ExpiresAt: m.expiresAt(resp.AccessToken)}
	if err := m.store.Save(ctx, sess); err != nil {
		return domain.Session{}, err
	}

	m.logger.Info("Login efetuado.", map[string]interface{}{"username": resp.Username, "expires_at": sess.ExpiresAt})
	return sess, nil
}

// Register cadastra um novo usuário. Não autentica.
func (m *Manager) Register(ctx context.Context, reg domain.UserRegistration) (domain.MessageResponse, error) {
	reg.Username = strings.TrimSpace(reg.Username)
	reg.Email = strings.TrimSpace(reg.Email)
	if err := m.validator.Struct(reg); err != nil {
		return domain.MessageResponse{}, err
	}
	return m.repo.Signup(ctx, reg)
}

// Logout descarta a sessão.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.store.Clear(ctx); err != nil {
		return apperror.NewInternalError("falha ao encerrar a sessão", err)
	}
	m.logger.Info("Logout efetuado.", nil)
	return nil
}

// Session devolve a sessão corrente (false se não autenticado).
func (m *Manager) Session(ctx context.Context) (domain.Session, bool) {
	sess, ok, err := m.store.Load(ctx)
	if err != nil {
		m.logger.Error("Falha ao carregar a sessão.", err)
		return domain.Session{}, false
	}
	return sess, ok
}

// AccessToken devolve o token corrente, renovando-o se expira dentro do buffer.
// Sem sessão devolve "" sem erro.
func (m *Manager) AccessToken(ctx context.Context) (string, error) {
	sess, ok := m.Session(ctx)
	if !ok {
		return "", nil
	}
	if sess.ExpiresAt.IsZero() || !sess.ExpiresWithin(m.now(), m.buffer) {
		return sess.AccessToken, nil
	}
	m.logger.Debug("Access token perto de expirar; renovando.", map[string]interface{}{"expires_at": sess.ExpiresAt})
	return m.Refresh(ctx, sess.AccessToken)
}

// Refresh renova o access token recusado (rejected).
// Chamadas concorrentes compartilham uma única renovação; se o token recusado
// já foi substituído, o mais novo é devolvido sem nova chamada ao backend.
func (m *Manager) Refresh(ctx context.Context, rejected string) (string, error) {
	// A renovação não pode ser abortada pelo cancelamento de um único chamador.
	flightCtx := context.WithoutCancel(ctx)
	ch := m.group.DoChan("refresh", func() (interface{}, error) {
		return m.refresh(flightCtx, rejected)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (m *Manager) refresh(ctx context.Context, rejected string) (string, error) {
	sess, ok := m.Session(ctx)
	if !ok {
		return "", apperror.NewUnauthorizedError("Sessão inexistente.")
	}
	if rejected != "" && sess.AccessToken != rejected {
		return sess.AccessToken, nil
	}
	if sess.RefreshToken == "" {
		m.expire(ctx)
		return "", apperror.NewUnauthorizedError("Sessão sem refresh token.")
	}

	resp, err := m.repo.Refresh(ctx, sess.RefreshToken)
	if err != nil || resp.AccessToken == "" {
		if err == nil {
			err = apperror.NewUnauthorizedError("Renovação sem access token.")
		}
		m.logger.Error("Falha ao renovar o token; encerrando a sessão.", err)
		m.expire(ctx)
		return "", apperror.NewUnauthorizedError("Sessão expirada. Faça login novamente.")
	}

	sess.AccessToken = resp.AccessToken
	sess.ExpiresAt = m.expiresAt(resp.AccessToken)
	if err := m.store.Save(ctx, sess); err != nil {
		return "", err
	}

	m.logger.Info("Token renovado.", map[string]interface{}{"expires_at": sess.ExpiresAt})
	return sess.AccessToken, nil
}

func (m *Manager) expire(ctx context.Context) {
	if err := m.store.Clear(ctx); err != nil {
		m.logger.Error("Falha ao limpar a sessão.", err)
	}
	m.mu.Lock()
	callbacks := append([]func(){}, m.onExpired...)
	m.mu.Unlock()
	for _, fn := range callbacks {
		fn()
	}
}

// expiresAt devolve o exp do token; zero se não puder ser lido
// (nesse caso não há renovação antecipada, apenas após 401).
func (m *Manager) expiresAt(accessToken string) time.Time {
	exp, err := token.ExpiresAt(accessToken)
	if err != nil {
		m.logger.Warn("Não foi possível ler o exp do access token.", map[string]interface{}{"error": err.Error()})
		return time.Time{}
	}
	return exp
}
