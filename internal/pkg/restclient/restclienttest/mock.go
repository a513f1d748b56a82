// Package restclienttest fornece dublês do transporte para testes de repositório.
package restclienttest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"stockify/internal/pkg/restclient"
)

// MockDoer é uma implementação mock de restclient.Doer.
type MockDoer struct {
	mock.Mock
}

// Do registra a chamada e devolve o corpo/erro configurados.
func (m *MockDoer) Do(ctx context.Context, req restclient.Request) ([]byte, error) {
	args := m.Called(ctx, req)
	body, _ := args.Get(0).([]byte)
	return body, args.Error(1)
}

// Path casa requisições pelo método e caminho, ignorando query e corpo.
func Path(method, path string) interface{} {
	return mock.MatchedBy(func(r restclient.Request) bool {
		return r.Method == method && r.Path == path
	})
}

// Requests devolve as requisições recebidas, na ordem.
func (m *MockDoer) Requests() []restclient.Request {
	var out []restclient.Request
	for _, c := range m.Calls {
		if r, ok := c.Arguments.Get(1).(restclient.Request); ok {
			out = append(out, r)
		}
	}
	return out
}
