package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	apperror "stockify/internal/errors"
	"stockify/internal/pkg/middleware"
)

type staticSource struct {
	token string
	err   error
}

func (s staticSource) AccessToken(context.Context) (string, error) { return s.token, s.err }

type headerCapture struct {
	mu      sync.Mutex
	headers []http.Header
}

func (h *headerCapture) server(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		h.headers = append(h.headers, r.Header.Clone())
		h.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestBearerAuth_AddsHeader(t *testing.T) {
	capt := &headerCapture{}
	srv := capt.server(t)

	c := resty.New().SetBaseURL(srv.URL)
	c.OnBeforeRequest(middleware.BearerAuth(staticSource{token: "abc"}))
	c.OnBeforeRequest(middleware.RequestID())

	_, err := c.R().SetContext(context.Background()).Get("/suppliers")
	require.NoError(t, err)

	require.Len(t, capt.headers, 1)
	assert.Equal(t, "Bearer abc", capt.headers[0].Get("Authorization"))
	assert.NotEmpty(t, capt.headers[0].Get(middleware.RequestIDHeader))
}

func TestBearerAuth_PublicAndExplicitHeader(t *testing.T) {
	capt := &headerCapture{}
	srv := capt.server(t)

	c := resty.New().SetBaseURL(srv.URL)
	c.OnBeforeRequest(middleware.BearerAuth(staticSource{token: "abc"}))

	_, err := c.R().SetContext(middleware.WithoutAuth(context.Background())).Post("/auth/signin")
	require.NoError(t, err)
	_, err = c.R().SetContext(context.Background()).SetHeader("Authorization", "Bearer novo").Get("/stock/1")
	require.NoError(t, err)

	require.Len(t, capt.headers, 2)
	assert.Empty(t, capt.headers[0].Get("Authorization"))
	assert.Equal(t, "Bearer novo", capt.headers[1].Get("Authorization"))
}

func TestBearerAuth_SourceFailureIsUnauthorized(t *testing.T) {
	capt := &headerCapture{}
	srv := capt.server(t)

	c := resty.New().SetBaseURL(srv.URL)
	c.OnBeforeRequest(middleware.BearerAuth(staticSource{err: errors.New("refresh falhou")}))

	_, err := c.R().SetContext(context.Background()).Get("/suppliers")
	require.Error(t, err)
	assert.True(t, apperror.IsUnauthorized(err))
	assert.Empty(t, capt.headers)
}

func TestRateLimiter_WaitsForToken(t *testing.T) {
	capt := &headerCapture{}
	srv := capt.server(t)

	c := resty.New().SetBaseURL(srv.URL)
	c.OnBeforeRequest(middleware.RateLimiter(rate.NewLimiter(rate.Every(50*time.Millisecond), 1)))

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := c.R().SetContext(context.Background()).Get("/logs")
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestRateLimiter_CancelledContext(t *testing.T) {
	capt := &headerCapture{}
	srv := capt.server(t)

	l := rate.NewLimiter(rate.Every(time.Hour), 1)
	require.True(t, l.Allow())

	c := resty.New().SetBaseURL(srv.URL)
	c.OnBeforeRequest(middleware.RateLimiter(l))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.R().SetContext(ctx).Get("/logs")
	assert.Error(t, err)
	assert.Empty(t, capt.headers)
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "xyz", middleware.BearerToken("Bearer xyz"))
	assert.Equal(t, "", middleware.BearerToken("Basic xyz"))
	assert.Equal(t, "", middleware.BearerToken(""))
}

func TestNewLimiter(t *testing.T) {
	l := middleware.NewLimiter(60, time.Minute)
	assert.Equal(t, 60, l.Burst())
	assert.InDelta(t, 1.0, float64(l.Limit()), 0.0001)
}
