package endpoint

import (
	"context"
	"net/url"
	"strconv"

	"stockify/internal/domain"
	"stockify/internal/pkg/envelope"
	"stockify/internal/pkg/restclient"
)

// List executa uma listagem e decodifica a resposta conforme o envelope do endpoint.
func List[T any](ctx context.Context, doer restclient.Doer, e Endpoint, query url.Values, args ...interface{}) (domain.Page[T], error) {
	body, err := doer.Do(ctx, restclient.Request{Method: e.Method, Path: e.Expand(args...), Query: query})
	if err != nil {
		return domain.Page[T]{}, err
	}
	return envelope.Decode[T](e.Envelope, body)
}

// Object executa uma chamada que devolve um único objeto.
func Object[T any](ctx context.Context, doer restclient.Doer, e Endpoint, body interface{}, args ...interface{}) (T, error) {
	raw, err := doer.Do(ctx, restclient.Request{Method: e.Method, Path: e.Expand(args...), Body: body})
	if err != nil {
		var zero T
		return zero, err
	}
	return envelope.DecodeObject[T](raw)
}

// Exec executa uma chamada cujo corpo de resposta é ignorado (e.g., DELETE).
func Exec(ctx context.Context, doer restclient.Doer, e Endpoint, args ...interface{}) error {
	_, err := doer.Do(ctx, restclient.Request{Method: e.Method, Path: e.Expand(args...)})
	return err
}

// PageQuery monta os parâmetros de paginação e ordenação comuns.
func PageQuery(page, size int, sort domain.Sort) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	if sort.Field != "" {
		q.Set("sortBy", sort.Field)
		dir := sort.Direction
		if dir == "" {
			dir = domain.Asc
		}
		q.Set("sortDirection", string(dir))
	}
	return q
}

// SetIf define key apenas quando value não é vazio.
func SetIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

// SetID define key apenas para ids positivos.
func SetID(q url.Values, key string, id int64) {
	if id > 0 {
		q.Set(key, strconv.FormatInt(id, 10))
	}
}
