package authservice

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"stockify/internal/domain"
	apperror "stockify/internal/errors"
	"stockify/internal/pkg/cache"
)

// SessionKey é a chave da sessão persistida no cache.
const SessionKey = "stockify:session"

// Store persiste a sessão autenticada entre execuções.
type Store interface {
	Load(ctx context.Context) (domain.Session, bool, error)
	Save(ctx context.Context, s domain.Session) error
	Clear(ctx context.Context) error
}

// CacheStore guarda a sessão serializada em JSON num cache.Client (Redis ou memória).
type CacheStore struct {
	client cache.Client
	ttl    time.Duration
}

// NewCacheStore cria um Store sobre o cliente de cache.
func NewCacheStore(client cache.Client, ttl time.Duration) *CacheStore {
	return &CacheStore{client: client, ttl: ttl}
}

func (s *CacheStore) Load(ctx context.Context) (domain.Session, bool, error) {
	raw, err := s.client.Get(ctx, SessionKey)
	if errors.Is(err, cache.ErrCacheMiss) {
		return domain.Session{}, false, nil
	}
	if err != nil {
		return domain.Session{}, false, apperror.NewInternalError("falha ao ler a sessão", err)
	}

	var sess domain.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		// Sessão corrompida equivale a não haver sessão.
		_ = s.client.Delete(ctx, SessionKey)
		return domain.Session{}, false, nil
	}
	return sess, sess.AccessToken != "", nil
}

func (s *CacheStore) Save(ctx context.Context, sess domain.Session) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return apperror.NewInternalError("falha ao serializar a sessão", err)
	}
	if err := s.client.Set(ctx, SessionKey, b, s.ttl); err != nil {
		return apperror.NewInternalError("falha ao gravar a sessão", err)
	}
	return nil
}

func (s *CacheStore) Clear(ctx context.Context) error {
	return s.client.Delete(ctx, SessionKey)
}
