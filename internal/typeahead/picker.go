package typeahead

import (
	"context"
	"strings"
	"sync"
	"time"

	"stockify/internal/domain"
	"stockify/internal/pkg/debounce"
	"stockify/internal/pkg/logger"
)

// SearchFunc busca uma página de opções para o termo.
type SearchFunc[T any] func(ctx context.Context, term string, page, size int) (domain.Page[T], error)

// State é uma cópia do estado do seletor.
type State[T any] struct {
	Items      []T
	Term       string
	Page       int
	TotalPages int
	Loading    bool
	Err        error
}

// HasMore indica se ainda existem páginas a carregar.
func (s State[T]) HasMore() bool { return s.Page+1 < s.TotalPages }

// Picker é uma lista de opções carregada sob demanda e pesquisável
// (e.g., o filtro de fornecedor). Rolar até o fim anexa a próxima página;
// digitar substitui a lista pela primeira página do novo termo.
type Picker[T any] struct {
	search SearchFunc[T]
	size   int
	gate   *debounce.Gate[string]
	log    logger.Logger

	mu     sync.Mutex
	state  State[T]
	opened bool
	gen    uint64
	cancel context.CancelFunc
}

// New cria o seletor. delay é o debounce da digitação.
func New[T any](search SearchFunc[T], size int, delay time.Duration, log logger.Logger) *Picker[T] {
	if size <= 0 {
		size = 10
	}
	if log == nil {
		log = logger.Nop()
	}
	p := &Picker[T]{search: search, size: size, log: log, state: State[T]{Items: []T{}}}
	p.gate = debounce.New(delay, func(term string) { _ = p.replace(context.Background(), term) })
	return p
}

// Open carrega a primeira página na primeira abertura.
func (p *Picker[T]) Open(ctx context.Context) error {
	p.mu.Lock()
	if p.opened {
		p.mu.Unlock()
		return nil
	}
	p.opened = true
	term := p.state.Term
	p.mu.Unlock()

	if err := p.replace(ctx, term); err != nil {
		// Falhou: a próxima abertura tenta de novo.
		p.mu.Lock()
		p.opened = false
		p.mu.Unlock()
		return err
	}
	return nil
}

// LoadMore anexa a próxima página. Não faz nada se houver busca em andamento
// ou se a última página já foi carregada. Devolve true se buscou.
func (p *Picker[T]) LoadMore(ctx context.Context) (bool, error) {
	p.mu.Lock()
	if p.state.Loading || !p.state.HasMore() {
		p.mu.Unlock()
		return false, nil
	}
	p.state.Loading = true
	gen := p.gen
	term, next := p.state.Term, p.state.Page+1
	p.mu.Unlock()

	page, err := p.search(ctx, term, next, p.size)

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		// O termo mudou durante a busca.
		return true, nil
	}
	p.state.Loading = false
	if err != nil {
		p.state.Err = err
		p.log.Warn("Falha ao carregar mais opções.", map[string]interface{}{"term": term, "page": next, "error": err.Error()})
		return true, err
	}
	p.state.Items = append(p.state.Items, page.Items...)
	p.state.Page = next
	p.state.TotalPages = page.TotalPages
	p.state.Err = nil
	return true, nil
}

// Input registra o termo digitado; a busca ocorre após o debounce.
func (p *Picker[T]) Input(term string) {
	p.mu.Lock()
	p.opened = true
	p.mu.Unlock()
	p.gate.Push(strings.TrimSpace(term))
}

// Flush executa imediatamente a busca pendente.
func (p *Picker[T]) Flush() { p.gate.Flush() }

// Snapshot devolve uma cópia do estado.
func (p *Picker[T]) Snapshot() State[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.state
	s.Items = append([]T(nil), p.state.Items...)
	return s
}

// Close cancela a digitação pendente e a busca em andamento.
func (p *Picker[T]) Close() {
	p.gate.Close()
	p.mu.Lock()
	p.gen++
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()
}

// replace busca a página 0 de term e substitui as opções.
func (p *Picker[T]) replace(ctx context.Context, term string) error {
	p.mu.Lock()
	p.gen++
	gen := p.gen
	if p.cancel != nil {
		p.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.state.Term = term
	p.state.Loading = true
	p.mu.Unlock()
	defer cancel()

	page, err := p.search(ctx, term, 0, p.size)

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		return nil
	}
	p.cancel = nil
	p.state.Loading = false
	if err != nil {
		p.state.Err = err
		p.log.Warn("Falha ao buscar opções.", map[string]interface{}{"term": term, "error": err.Error()})
		return err
	}
	items := page.Items
	if items == nil {
		items = []T{}
	}
	p.state.Items = items
	p.state.Page = 0
	p.state.TotalPages = page.TotalPages
	p.state.Err = nil
	return nil
}
