package typeahead_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockify/internal/domain"
	"stockify/internal/typeahead"
)

type supplier struct {
	ID   int64
	Name string
}

type directory struct {
	mu        sync.Mutex
	suppliers []supplier
	calls     []string
	hold      chan struct{}
	// failures faz as próximas buscas falharem, uma por erro.
	failures []error
}

func newDirectory(n int) *directory {
	d := &directory{}
	for i := 1; i <= n; i++ {
		d.suppliers = append(d.suppliers, supplier{ID: int64(i), Name: fmt.Sprintf("Fornecedor %02d", i)})
	}
	return d
}

func (d *directory) search(_ context.Context, term string, page, size int) (domain.Page[supplier], error) {
	d.mu.Lock()
	d.calls = append(d.calls, fmt.Sprintf("%s#%d", term, page))
	hold := d.hold
	var err error
	if len(d.failures) > 0 {
		err, d.failures = d.failures[0], d.failures[1:]
	}
	d.mu.Unlock()
	if hold != nil {
		<-hold
	}
	if err != nil {
		return domain.Page[supplier]{}, err
	}

	var matched []supplier
	for _, s := range d.suppliers {
		if strings.Contains(strings.ToLower(s.Name), strings.ToLower(term)) {
			matched = append(matched, s)
		}
	}
	pages := (len(matched) + size - 1) / size
	from, to := page*size, page*size+size
	if from > len(matched) {
		from = len(matched)
	}
	if to > len(matched) {
		to = len(matched)
	}
	return domain.Page[supplier]{Items: matched[from:to], Number: page, Size: size, TotalPages: pages, TotalItems: int64(len(matched))}, nil
}

func (d *directory) callLog() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.calls...)
}

func TestOpen_LoadsFirstPageOnce(t *testing.T) {
	dir := newDirectory(25)
	p := typeahead.New(dir.search, 10, 0, nil)
	defer p.Close()

	require.NoError(t, p.Open(context.Background()))
	require.NoError(t, p.Open(context.Background()))

	st := p.Snapshot()
	assert.Len(t, st.Items, 10)
	assert.Equal(t, 3, st.TotalPages)
	assert.Equal(t, []string{"#0"}, dir.callLog())
}

func TestOpen_RetriesAfterFailure(t *testing.T) {
	dir := newDirectory(25)
	dir.failures = []error{errors.New("rede fora")}
	p := typeahead.New(dir.search, 10, 0, nil)
	defer p.Close()

	require.Error(t, p.Open(context.Background()))
	assert.Empty(t, p.Snapshot().Items)

	require.NoError(t, p.Open(context.Background()))
	st := p.Snapshot()
	assert.Len(t, st.Items, 10)
	assert.Nil(t, st.Err)
	assert.Equal(t, []string{"#0", "#0"}, dir.callLog())

	// Depois de carregar, abrir de novo não busca.
	require.NoError(t, p.Open(context.Background()))
	assert.Len(t, dir.callLog(), 2)
}

// TestLoadMore_AppendsUntilLastPage: anexa páginas sem substituir e para na última.
func TestLoadMore_AppendsUntilLastPage(t *testing.T) {
	dir := newDirectory(25)
	p := typeahead.New(dir.search, 10, 0, nil)
	defer p.Close()
	require.NoError(t, p.Open(context.Background()))

	for i := 0; i < 2; i++ {
		fetched, err := p.LoadMore(context.Background())
		require.NoError(t, err)
		assert.True(t, fetched)
	}
	fetched, err := p.LoadMore(context.Background())
	require.NoError(t, err)
	assert.False(t, fetched)

	st := p.Snapshot()
	assert.Len(t, st.Items, 25)
	assert.EqualValues(t, 1, st.Items[0].ID)
	assert.EqualValues(t, 25, st.Items[24].ID)
	assert.False(t, st.HasMore())
	assert.Equal(t, []string{"#0", "#1", "#2"}, dir.callLog())
}

func TestLoadMore_RefusedWhileLoading(t *testing.T) {
	dir := newDirectory(25)
	p := typeahead.New(dir.search, 10, 0, nil)
	defer p.Close()
	require.NoError(t, p.Open(context.Background()))

	dir.mu.Lock()
	dir.hold = make(chan struct{})
	hold := dir.hold
	dir.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = p.LoadMore(context.Background())
	}()
	assert.Eventually(t, func() bool { return p.Snapshot().Loading }, time.Second, time.Millisecond)

	fetched, err := p.LoadMore(context.Background())
	assert.NoError(t, err)
	assert.False(t, fetched)

	close(hold)
	<-done
	assert.Equal(t, []string{"#0", "#1"}, dir.callLog())
}

// TestInput_DebouncesAndReplaces: digitar reinicia na página 0 e substitui a lista.
func TestInput_DebouncesAndReplaces(t *testing.T) {
	dir := newDirectory(25)
	p := typeahead.New(dir.search, 10, 30*time.Millisecond, nil)
	defer p.Close()
	require.NoError(t, p.Open(context.Background()))
	_, err := p.LoadMore(context.Background())
	require.NoError(t, err)

	p.Input("0")
	p.Input("02")
	assert.Eventually(t, func() bool { return len(dir.callLog()) == 3 }, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return !p.Snapshot().Loading }, time.Second, time.Millisecond)

	st := p.Snapshot()
	assert.Equal(t, "02", st.Term)
	assert.Equal(t, 0, st.Page)
	require.Len(t, st.Items, 1)
	assert.EqualValues(t, 2, st.Items[0].ID)
	assert.Equal(t, "02#0", dir.callLog()[2])
}

// TestInput_DiscardsStaleAppend: uma página anexada de um termo já substituído é descartada.
func TestInput_DiscardsStaleAppend(t *testing.T) {
	dir := newDirectory(25)
	p := typeahead.New(dir.search, 10, 0, nil)
	defer p.Close()
	require.NoError(t, p.Open(context.Background()))

	dir.mu.Lock()
	dir.hold = make(chan struct{})
	hold := dir.hold
	dir.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = p.LoadMore(context.Background())
	}()
	assert.Eventually(t, func() bool { return len(dir.callLog()) == 2 }, time.Second, time.Millisecond)

	dir.mu.Lock()
	dir.hold = nil
	dir.mu.Unlock()
	p.Input("Fornecedor 1")
	close(hold)
	<-done

	st := p.Snapshot()
	assert.Equal(t, "Fornecedor 1", st.Term)
	assert.Len(t, st.Items, 10)
	for _, s := range st.Items {
		assert.Contains(t, s.Name, "Fornecedor 1")
	}
	assert.False(t, st.Loading)
}
