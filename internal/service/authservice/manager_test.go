package authservice_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"stockify/internal/domain"
	apperror "stockify/internal/errors"
	"stockify/internal/pkg/cache"
	"stockify/internal/pkg/logger"
	"stockify/internal/pkg/token"
	"stockify/internal/pkg/validation"
	"stockify/internal/service/authservice"
)

// MockAuthRepository é uma implementação mock da interface AuthRepository
type MockAuthRepository struct {
	mock.Mock
}

func (m *MockAuthRepository) Signin(ctx context.Context, creds domain.Credentials) (domain.JwtResponse, error) {
	args := m.Called(ctx, creds)
	return args.Get(0).(domain.JwtResponse), args.Error(1)
}

func (m *MockAuthRepository) Signup(ctx context.Context, reg domain.UserRegistration) (domain.MessageResponse, error) {
	args := m.Called(ctx, reg)
	return args.Get(0).(domain.MessageResponse), args.Error(1)
}

func (m *MockAuthRepository) Refresh(ctx context.Context, refreshToken string) (domain.RefreshResponse, error) {
	args := m.Called(ctx, refreshToken)
	return args.Get(0).(domain.RefreshResponse), args.Error(1)
}

var tokens = token.NewService("segredo-de-teste", time.Hour, 24*time.Hour)

func mustToken(t *testing.T, ttl time.Duration) string {
	t.Helper()
	tok, err := tokens.GenerateTokenWithTTL("admin", token.KindAccess, ttl)
	require.NoError(t, err)
	return tok
}

func newManager(repo *MockAuthRepository, store authservice.Store) *authservice.Manager {
	return authservice.NewManager(repo, store, logger.Nop(), validation.New(), 30*time.Second)
}

func loggedIn(t *testing.T, repo *MockAuthRepository, m *authservice.Manager, access string) {
	t.Helper()
	creds := domain.Credentials{Username: "admin", Password: "123456"}
	repo.On("Signin", mock.Anything, creds).Return(domain.JwtResponse{
		AccessToken: access, RefreshToken: "refresh-1", Username: "admin", Roles: []domain.UserRole{domain.RoleAdmin},
	}, nil).Once()
	_, err := m.Login(context.Background(), creds)
	require.NoError(t, err)
}

func TestLogin_PersistsSessionInRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rc, err := cache.NewRedisClient(mr.Addr())
	require.NoError(t, err)
	defer rc.Close()

	repo := new(MockAuthRepository)
	m := newManager(repo, authservice.NewCacheStore(rc, time.Hour))
	access := mustToken(t, time.Hour)
	loggedIn(t, repo, m, access)

	assert.True(t, mr.Exists(authservice.SessionKey))
	sess, ok := m.Session(context.Background())
	require.True(t, ok)
	assert.True(t, sess.HasRole(domain.RoleAdmin))
	assert.WithinDuration(t, time.Now().Add(time.Hour), sess.ExpiresAt, 5*time.Second)

	tok, err := m.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, access, tok)

	require.NoError(t, m.Logout(context.Background()))
	assert.False(t, mr.Exists(authservice.SessionKey))
}

func TestLogin_InvalidCredentialsNeverCallBackend(t *testing.T) {
	repo := new(MockAuthRepository)
	m := newManager(repo, authservice.NewCacheStore(cache.NewMemoryClient(), time.Hour))

	_, err := m.Login(context.Background(), domain.Credentials{Username: "  "})
	require.Error(t, err)
	assert.Contains(t, apperror.FieldErrors(err), "username")
	assert.Contains(t, apperror.FieldErrors(err), "password")
	repo.AssertNotCalled(t, "Signin", mock.Anything, mock.Anything)
}

func TestAccessToken_RefreshesWithinBuffer(t *testing.T) {
	repo := new(MockAuthRepository)
	m := newManager(repo, authservice.NewCacheStore(cache.NewMemoryClient(), time.Hour))
	loggedIn(t, repo, m, mustToken(t, 10*time.Second))

	fresh := mustToken(t, time.Hour)
	repo.On("Refresh", mock.Anything, "refresh-1").Return(domain.RefreshResponse{AccessToken: fresh}, nil).Once()

	tok, err := m.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fresh, tok)

	// Com o token novo não há nova renovação.
	tok, err = m.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fresh, tok)
	repo.AssertNumberOfCalls(t, "Refresh", 1)
}

// TestRefresh_ConcurrentCallersShareOneRefresh garante uma única renovação para vários 401 simultâneos.
func TestRefresh_ConcurrentCallersShareOneRefresh(t *testing.T) {
	repo := new(MockAuthRepository)
	m := newManager(repo, authservice.NewCacheStore(cache.NewMemoryClient(), time.Hour))
	old := mustToken(t, time.Hour)
	loggedIn(t, repo, m, old)

	fresh := mustToken(t, 2*time.Hour)
	repo.On("Refresh", mock.Anything, "refresh-1").
		After(50*time.Millisecond).
		Return(domain.RefreshResponse{AccessToken: fresh}, nil)

	var wg sync.WaitGroup
	results := make([]string, 10)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tok, err := m.Refresh(context.Background(), old)
			assert.NoError(t, err)
			results[i] = tok
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, fresh, r)
	}
	repo.AssertNumberOfCalls(t, "Refresh", 1)
}

func TestRefresh_FailureClearsSessionAndNotifies(t *testing.T) {
	repo := new(MockAuthRepository)
	m := newManager(repo, authservice.NewCacheStore(cache.NewMemoryClient(), time.Hour))
	old := mustToken(t, time.Hour)
	loggedIn(t, repo, m, old)

	var expired int32
	m.OnExpired(func() { atomic.AddInt32(&expired, 1) })
	repo.On("Refresh", mock.Anything, "refresh-1").
		Return(domain.RefreshResponse{}, apperror.NewUnauthorizedError("refresh token expirado"))

	_, err := m.Refresh(context.Background(), old)
	require.Error(t, err)
	assert.True(t, apperror.IsUnauthorized(err))
	assert.EqualValues(t, 1, atomic.LoadInt32(&expired))

	_, ok := m.Session(context.Background())
	assert.False(t, ok)

	tok, err := m.AccessToken(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, tok)
}

func TestRefresh_CallerCancellationDoesNotAbortFlight(t *testing.T) {
	repo := new(MockAuthRepository)
	m := newManager(repo, authservice.NewCacheStore(cache.NewMemoryClient(), time.Hour))
	old := mustToken(t, time.Hour)
	loggedIn(t, repo, m, old)

	fresh := mustToken(t, 2*time.Hour)
	repo.On("Refresh", mock.Anything, "refresh-1").
		After(80*time.Millisecond).
		Return(domain.RefreshResponse{AccessToken: fresh}, nil).Once()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := m.Refresh(ctx, old)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// Um segundo chamador aproveita o voo em andamento ou o resultado já salvo.
	tok, err := m.Refresh(context.Background(), old)
	require.NoError(t, err)
	assert.Equal(t, fresh, tok)
	repo.AssertNumberOfCalls(t, "Refresh", 1)
}

func TestRegister_Validation(t *testing.T) {
	repo := new(MockAuthRepository)
	m := newManager(repo, authservice.NewCacheStore(cache.NewMemoryClient(), time.Hour))

	_, err := m.Register(context.Background(), domain.UserRegistration{Username: "ab", Email: "x", Password: "123"})
	fields := apperror.FieldErrors(err)
	assert.Contains(t, fields, "username")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")

	reg := domain.UserRegistration{Username: "maria", Email: "maria@stockify.com", Password: "segura123"}
	repo.On("Signup", mock.Anything, reg).Return(domain.MessageResponse{Message: "Usuário registrado com sucesso!"}, nil)
	msg, err := m.Register(context.Background(), reg)
	require.NoError(t, err)
	assert.Equal(t, "Usuário registrado com sucesso!", msg.Message)
}
