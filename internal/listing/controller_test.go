package listing_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockify/internal/domain"
	apperror "stockify/internal/errors"
	"stockify/internal/listing"
)

type item struct {
	ID   int64
	Name string
}

type filter struct {
	Name string
}

// backend é um backend paginado em memória que registra as consultas recebidas.
type backend struct {
	mu    sync.Mutex
	items []item
	calls []domain.Query[filter]
	err   error
	// gates bloqueia buscas cujo filtro esteja no mapa até o canal ser fechado.
	gates map[string]chan struct{}
}

func newBackend(n int) *backend {
	b := &backend{gates: map[string]chan struct{}{}}
	for i := 1; i <= n; i++ {
		b.items = append(b.items, item{ID: int64(i), Name: "item"})
	}
	return b
}

func (b *backend) fetch(_ context.Context, q domain.Query[filter]) (domain.Page[item], error) {
	b.mu.Lock()
	b.calls = append(b.calls, q)
	gate := b.gates[q.Filter.Name]
	err := b.err
	b.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return domain.Page[item]{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	var matched []item
	for _, it := range b.items {
		if strings.Contains(it.Name, q.Filter.Name) {
			matched = append(matched, it)
		}
	}
	total := len(matched)
	pages := (total + q.Size - 1) / q.Size
	from := q.Page * q.Size
	if from > total {
		from = total
	}
	to := from + q.Size
	if to > total {
		to = total
	}
	return domain.Page[item]{
		Items: append([]item(nil), matched[from:to]...), Number: q.Page, Size: q.Size,
		TotalPages: pages, TotalItems: int64(total),
	}, nil
}

func (b *backend) callCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.calls)
}

func (b *backend) lastCall() domain.Query[filter] {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[len(b.calls)-1]
}

func newController(b *backend, debounce time.Duration) *listing.Controller[item, filter] {
	return listing.New(listing.Config[item, filter]{
		Name:     "teste",
		Fetch:    b.fetch,
		KeyOf:    func(it item) int64 { return it.ID },
		PageSize: 10,
		Debounce: debounce,
	})
}

func TestLoad_StoresBackendPagination(t *testing.T) {
	b := newBackend(25)
	c := newController(b, 0)
	defer c.Close()

	st, err := c.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, st.Items, 10)
	assert.Equal(t, 3, st.TotalPages)
	assert.EqualValues(t, 25, st.TotalItems)
	assert.False(t, st.Loading)
	assert.True(t, st.HasNext())
	assert.False(t, st.HasPrev())
}

// TestSetPage_ClampsToBackendPages garante que a página fica em [0, totalPages-1]
// e que "próxima" na última página não gera requisição.
func TestSetPage_ClampsToBackendPages(t *testing.T) {
	b := newBackend(25)
	c := newController(b, 0)
	defer c.Close()
	_, err := c.Load(context.Background())
	require.NoError(t, err)

	assert.True(t, c.SetPage(10))
	c.Wait()
	assert.Equal(t, 2, c.Snapshot().Query.Page)
	assert.Equal(t, 2, b.lastCall().Page)

	calls := b.callCount()
	assert.False(t, c.NextPage())
	assert.False(t, c.SetPage(7))
	c.Wait()
	assert.Equal(t, calls, b.callCount())

	assert.True(t, c.SetPage(-4))
	c.Wait()
	assert.Equal(t, 0, c.Snapshot().Query.Page)
	assert.False(t, c.PrevPage())
}

// TestInputFilter_BurstCommitsOnce: N entradas dentro do debounce geram uma única
// busca, com o último valor, e voltam para a primeira página.
func TestInputFilter_BurstCommitsOnce(t *testing.T) {
	b := newBackend(25)
	c := newController(b, 40*time.Millisecond)
	defer c.Close()
	_, err := c.Load(context.Background())
	require.NoError(t, err)
	require.True(t, c.NextPage())
	c.Wait()
	before := b.callCount()

	for _, term := range []string{"i", "it", "ite", "item"} {
		c.InputFilter(filter{Name: term})
		assert.Equal(t, term, c.Snapshot().RawFilter.Name)
		time.Sleep(5 * time.Millisecond)
	}
	assert.Equal(t, before, b.callCount(), "nada é buscado antes do fim do debounce")

	assert.Eventually(t, func() bool { return b.callCount() == before+1 }, time.Second, 5*time.Millisecond)
	c.Wait()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, before+1, b.callCount())

	last := b.lastCall()
	assert.Equal(t, "item", last.Filter.Name)
	assert.Equal(t, 0, last.Page)
	assert.Equal(t, "item", c.Snapshot().Query.Filter.Name)
}

// TestOverlappingFetches_LatestIssuedWins: A é emitida primeiro e responde por último;
// o estado final reflete B.
func TestOverlappingFetches_LatestIssuedWins(t *testing.T) {
	b := newBackend(5)
	b.items = append(b.items, item{ID: 99, Name: "lento"})
	release := make(chan struct{})
	b.gates["lento"] = release

	c := newController(b, 0)
	defer c.Close()

	require.True(t, c.SetFilter(filter{Name: "lento"}))
	assert.Eventually(t, func() bool { return b.callCount() == 1 }, time.Second, time.Millisecond)
	require.True(t, c.SetFilter(filter{Name: "item"}))

	assert.Eventually(t, func() bool {
		st := c.Snapshot()
		return !st.Loading && len(st.Items) == 5
	}, time.Second, time.Millisecond)

	close(release)
	c.Wait()

	st := c.Snapshot()
	assert.Equal(t, "item", st.Query.Filter.Name)
	assert.Len(t, st.Items, 5)
	for _, it := range st.Items {
		assert.NotEqual(t, int64(99), it.ID)
	}
}

func TestNotFoundAsEmpty(t *testing.T) {
	b := newBackend(3)
	b.err = apperror.NewNotFoundError("Nenhum item encontrado")
	c := listing.New(listing.Config[item, filter]{Fetch: b.fetch, NotFoundAsEmpty: true})
	defer c.Close()

	st, err := c.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, st.Items)
	assert.Nil(t, st.Err)
	assert.Empty(t, st.ErrMessage)
	assert.Equal(t, 0, st.TotalPages)
}

// TestFailure_KeepsPreviousItems: falhas que não são 404 mantêm os itens e expõem a mensagem.
func TestFailure_KeepsPreviousItems(t *testing.T) {
	b := newBackend(3)
	c := newController(b, 0)
	defer c.Close()
	_, err := c.Load(context.Background())
	require.NoError(t, err)

	b.mu.Lock()
	b.err = apperror.NewTransportError("status 500 inesperado", 500, nil)
	b.mu.Unlock()

	st, err := c.Load(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, context.Canceled)
	assert.Equal(t, "TRANSPORT_ERROR", err.(apperror.AppError).Category())
	assert.Len(t, st.Items, 3)
	assert.Equal(t, err, st.Err)
	assert.Equal(t, listing.DefaultErrorMessage, st.ErrMessage)
	assert.False(t, st.Loading)

	// A busca assíncrona também expõe a falha.
	require.True(t, c.Refetch())
	c.Wait()
	assert.NotNil(t, c.Snapshot().Err)
	assert.Equal(t, listing.DefaultErrorMessage, c.Snapshot().ErrMessage)

	b.mu.Lock()
	b.err = nil
	b.mu.Unlock()
	require.True(t, c.Refetch())
	c.Wait()
	assert.Nil(t, c.Snapshot().Err)
	assert.Empty(t, c.Snapshot().ErrMessage)
}

func TestLoad_CallerCancellationIsNotAFailure(t *testing.T) {
	b := newBackend(3)
	gate := make(chan struct{})
	b.gates[""] = gate
	b.err = context.Canceled
	c := newController(b, 0)
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		assert.Eventually(t, func() bool { return b.callCount() == 1 }, time.Second, 5*time.Millisecond)
		cancel()
		close(gate)
	}()

	st, err := c.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, st.Err)
	assert.Empty(t, st.ErrMessage)
	assert.False(t, st.Loading)
}

// TestRefetch_ReissuesAtLastPage: se o backend passa a ter menos páginas (e.g., após exclusão),
// a listagem volta para a última página existente.
func TestRefetch_ReissuesAtLastPage(t *testing.T) {
	b := newBackend(21)
	c := newController(b, 0)
	defer c.Close()
	_, err := c.Load(context.Background())
	require.NoError(t, err)
	require.True(t, c.SetPage(2))
	c.Wait()

	b.mu.Lock()
	b.items = b.items[:20]
	b.mu.Unlock()
	require.True(t, c.Remove(21))

	require.True(t, c.Refetch())
	c.Wait()

	st := c.Snapshot()
	assert.Equal(t, 1, st.Query.Page)
	assert.Equal(t, 2, st.TotalPages)
	assert.Len(t, st.Items, 10)
	assert.Equal(t, 1, b.lastCall().Page)
}

// TestUpsertThenRefetch_NoDuplicates: criar e recarregar mostra o novo item exatamente uma vez.
func TestUpsertThenRefetch_NoDuplicates(t *testing.T) {
	b := newBackend(3)
	c := newController(b, 0)
	defer c.Close()
	_, err := c.Load(context.Background())
	require.NoError(t, err)

	created := item{ID: 4, Name: "item novo"}
	b.mu.Lock()
	b.items = append(b.items, created)
	b.mu.Unlock()

	c.Upsert(created)
	c.Upsert(created)
	count := func() int {
		n := 0
		for _, it := range c.Snapshot().Items {
			if it.ID == created.ID {
				n++
			}
		}
		return n
	}
	assert.Equal(t, 1, count())

	require.True(t, c.Refetch())
	c.Wait()
	assert.Equal(t, 1, count())
	assert.Len(t, c.Snapshot().Items, 4)
}

func TestSortChange_ResetsPageAndFiresHooks(t *testing.T) {
	b := newBackend(25)
	c := newController(b, 0)
	defer c.Close()
	_, err := c.Load(context.Background())
	require.NoError(t, err)
	require.True(t, c.NextPage())
	c.Wait()

	var mu sync.Mutex
	var seen []domain.Query[filter]
	c.OnQueryChange(func(q domain.Query[filter]) {
		mu.Lock()
		seen = append(seen, q)
		mu.Unlock()
	})

	require.True(t, c.SetSort(domain.Sort{Field: "quantity", Direction: domain.Asc}))
	c.Wait()
	assert.False(t, c.SetSort(domain.Sort{Field: "quantity", Direction: domain.Asc}))
	require.True(t, c.ToggleDirection())
	c.Wait()

	st := c.Snapshot()
	assert.Equal(t, 0, st.Query.Page)
	assert.Equal(t, domain.Desc, st.Query.Sort.Direction)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 2)
	assert.Equal(t, domain.Asc, seen[0].Sort.Direction)
}

func TestSubscribe_ReceivesSnapshots(t *testing.T) {
	b := newBackend(2)
	c := newController(b, 0)
	defer c.Close()

	var mu sync.Mutex
	var states []listing.State[item, filter]
	unsubscribe := c.Subscribe(func(s listing.State[item, filter]) {
		mu.Lock()
		states = append(states, s)
		mu.Unlock()
	})

	_, err := c.Load(context.Background())
	require.NoError(t, err)

	mu.Lock()
	require.Len(t, states, 2)
	assert.True(t, states[0].Loading)
	assert.False(t, states[1].Loading)
	assert.Len(t, states[1].Items, 2)
	mu.Unlock()

	unsubscribe()
	_, err = c.Load(context.Background())
	require.NoError(t, err)
	mu.Lock()
	assert.Len(t, states, 2)
	mu.Unlock()
}

func TestClose_DropsPendingInput(t *testing.T) {
	b := newBackend(2)
	c := newController(b, 20*time.Millisecond)

	c.InputFilter(filter{Name: "x"})
	c.Close()
	time.Sleep(50 * time.Millisecond)

	assert.Zero(t, b.callCount())
	assert.False(t, c.Refetch())
}
