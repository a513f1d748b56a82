package listing

import (
	"context"
	"sync"
	"time"

	"stockify/internal/domain"
	apperror "stockify/internal/errors"
	"stockify/internal/pkg/debounce"
	"stockify/internal/pkg/logger"
)

// DefaultErrorMessage é exibido quando uma listagem falha sem mensagem própria do backend.
const DefaultErrorMessage = "Erro ao carregar os dados. Tente novamente."

// FetchFunc busca uma página para a consulta informada.
type FetchFunc[T any, F comparable] func(ctx context.Context, q domain.Query[F]) (domain.Page[T], error)

// Config parametriza um Controller.
type Config[T any, F comparable] struct {
	Name  string
	Fetch FetchFunc[T, F]
	// KeyOf identifica um item (necessário para Upsert e Remove).
	KeyOf func(T) int64
	// NotFoundAsEmpty trata 404 como página vazia e válida.
	NotFoundAsEmpty bool
	PageSize        int
	Sort            domain.Sort
	Filter          F
	// Debounce é a espera entre a digitação (InputFilter) e o commit do filtro.
	Debounce     time.Duration
	ErrorMessage string
	Logger       logger.Logger
}

// State é uma cópia do estado de uma listagem, entregue aos assinantes.
type State[T any, F comparable] struct {
	Items      []T
	Query      domain.Query[F]
	RawFilter  F
	TotalPages int
	TotalItems int64
	Loading    bool
	Err        error
	ErrMessage string
}

// HasNext indica se existe página posterior.
func (s State[T, F]) HasNext() bool { return s.Query.Page+1 < s.TotalPages }

// HasPrev indica se existe página anterior.
func (s State[T, F]) HasPrev() bool { return s.Query.Page > 0 }

// Controller mantém a consulta, a página corrente e as buscas de uma tela de listagem.
//
// Toda mudança da consulta confirmada (página, tamanho, ordenação, filtro) dispara
// uma nova busca. Cada busca recebe um número de sequência e cancela a anterior;
// respostas que não sejam da última busca emitida são descartadas.
type Controller[T any, F comparable] struct {
	cfg  Config[T, F]
	log  logger.Logger
	gate *debounce.Gate[F]

	base     context.Context
	stopBase context.CancelFunc
	wg       sync.WaitGroup

	mu     sync.Mutex
	state  State[T, F]
	seq    uint64
	cancel context.CancelFunc
	closed bool

	subMu   sync.Mutex
	nextSub int
	subs    map[int]func(State[T, F])
	hooks   []func(domain.Query[F])
}

// New cria o controller. Nenhuma busca é feita até Load ou Refetch.
func New[T any, F comparable](cfg Config[T, F]) *Controller[T, F] {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 10
	}
	if cfg.ErrorMessage == "" {
		cfg.ErrorMessage = DefaultErrorMessage
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	base, stop := context.WithCancel(context.Background())
	c := &Controller[T, F]{
		cfg:      cfg,
		log:      log,
		base:     base,
		stopBase: stop,
		subs:     make(map[int]func(State[T, F])),
		state: State[T, F]{
			Items:     []T{},
			Query:     domain.Query[F]{Size: cfg.PageSize, Sort: cfg.Sort, Filter: cfg.Filter},
			RawFilter: cfg.Filter,
		},
	}
	c.gate = debounce.New(cfg.Debounce, c.commitFilter)
	return c
}

// Snapshot devolve uma cópia do estado corrente.
func (c *Controller[T, F]) Snapshot() State[T, F] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe registra fn para receber o estado após cada mudança.
// Devolve a função que cancela a assinatura.
func (c *Controller[T, F]) Subscribe(fn func(State[T, F])) func() {
	c.subMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.subMu.Unlock()

	return func() {
		c.subMu.Lock()
		delete(c.subs, id)
		c.subMu.Unlock()
	}
}

// OnQueryChange registra fn para ser chamado quando a consulta confirmada muda.
func (c *Controller[T, F]) OnQueryChange(fn func(domain.Query[F])) {
	c.subMu.Lock()
	c.hooks = append(c.hooks, fn)
	c.subMu.Unlock()
}

// Load busca a consulta corrente de forma síncrona.
// Devolve o erro da busca (404 não é erro quando NotFoundAsEmpty).
func (c *Controller[T, F]) Load(ctx context.Context) (State[T, F], error) {
	c.mu.Lock()
	if c.closed {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, context.Canceled
	}
	fctx, seq, q := c.beginLocked(ctx)
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.publish(snap)
	err := c.run(ctx, fctx, seq, q)
	return c.Snapshot(), err
}

// Refetch repete a busca da consulta corrente (e.g., após uma mutação).
func (c *Controller[T, F]) Refetch() bool {
	return c.update(func(*State[T, F]) bool { return true })
}

// SetPage muda para a página p, limitada a [0, max(totalPages-1, 0)].
// Devolve false se a página não mudou (nenhuma busca é feita).
func (c *Controller[T, F]) SetPage(p int) bool {
	return c.update(func(s *State[T, F]) bool {
		last := s.TotalPages - 1
		if p > last {
			p = last
		}
		if p < 0 {
			p = 0
		}
		if p == s.Query.Page {
			return false
		}
		s.Query.Page = p
		return true
	})
}

// NextPage avança uma página; recusado na última.
func (c *Controller[T, F]) NextPage() bool {
	return c.update(func(s *State[T, F]) bool {
		if !s.HasNext() {
			return false
		}
		s.Query.Page++
		return true
	})
}

// PrevPage volta uma página; recusado na primeira.
func (c *Controller[T, F]) PrevPage() bool {
	return c.update(func(s *State[T, F]) bool {
		if !s.HasPrev() {
			return false
		}
		s.Query.Page--
		return true
	})
}

// SetSize muda o tamanho da página e volta para a primeira.
func (c *Controller[T, F]) SetSize(n int) bool {
	return c.update(func(s *State[T, F]) bool {
		if n <= 0 || n == s.Query.Size {
			return false
		}
		s.Query.Size = n
		s.Query.Page = 0
		return true
	})
}

// SetSort muda a ordenação e volta para a primeira página.
func (c *Controller[T, F]) SetSort(sort domain.Sort) bool {
	return c.update(func(s *State[T, F]) bool {
		if sort == s.Query.Sort {
			return false
		}
		s.Query.Sort = sort
		s.Query.Page = 0
		return true
	})
}

// ToggleDirection inverte a direção da ordenação corrente.
func (c *Controller[T, F]) ToggleDirection() bool {
	return c.update(func(s *State[T, F]) bool {
		s.Query.Sort.Direction = s.Query.Sort.Direction.Toggle()
		s.Query.Page = 0
		return true
	})
}

// InputFilter registra a entrada do usuário. O estado bruto muda na hora;
// o filtro confirmado só muda após o debounce.
func (c *Controller[T, F]) InputFilter(f F) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.state.RawFilter = f
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.publish(snap)
	c.gate.Push(f)
}

// SetFilter confirma o filtro imediatamente, descartando entrada pendente.
func (c *Controller[T, F]) SetFilter(f F) bool {
	c.gate.Cancel()
	return c.update(func(s *State[T, F]) bool {
		s.RawFilter = f
		if f == s.Query.Filter {
			return false
		}
		s.Query.Filter = f
		s.Query.Page = 0
		return true
	})
}

// Flush confirma imediatamente a entrada pendente, se houver.
func (c *Controller[T, F]) Flush() { c.gate.Flush() }

// Upsert substitui o item de mesma chave na página corrente ou o insere no topo.
func (c *Controller[T, F]) Upsert(item T) {
	if c.cfg.KeyOf == nil {
		return
	}
	key := c.cfg.KeyOf(item)

	c.mu.Lock()
	items := c.state.Items
	replaced := false
	for i := range items {
		if c.cfg.KeyOf(items[i]) == key {
			items[i] = item
			replaced = true
			break
		}
	}
	if !replaced {
		items = append([]T{item}, items...)
		if size := c.state.Query.Size; size > 0 && len(items) > size {
			items = items[:size]
		}
		c.state.TotalItems++
	}
	c.state.Items = items
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.publish(snap)
}

// Remove retira da página corrente o item com a chave informada.
func (c *Controller[T, F]) Remove(key int64) bool {
	if c.cfg.KeyOf == nil {
		return false
	}

	c.mu.Lock()
	items := make([]T, 0, len(c.state.Items))
	for _, it := range c.state.Items {
		if c.cfg.KeyOf(it) != key {
			items = append(items, it)
		}
	}
	removed := len(items) != len(c.state.Items)
	if removed {
		c.state.Items = items
		if c.state.TotalItems > 0 {
			c.state.TotalItems--
		}
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	if removed {
		c.publish(snap)
	}
	return removed
}

// Wait aguarda as buscas assíncronas em andamento.
func (c *Controller[T, F]) Wait() { c.wg.Wait() }

// Close cancela o debounce pendente e a busca em andamento.
// Depois dele o controller ignora qualquer comando.
func (c *Controller[T, F]) Close() {
	c.gate.Close()

	c.mu.Lock()
	c.closed = true
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.mu.Unlock()

	c.stopBase()
}

func (c *Controller[T, F]) commitFilter(f F) {
	c.update(func(s *State[T, F]) bool {
		if f == s.Query.Filter {
			return false
		}
		s.Query.Filter = f
		s.Query.Page = 0
		return true
	})
}

// update aplica fn ao estado e, se fn indicar mudança, emite uma nova busca assíncrona.
func (c *Controller[T, F]) update(fn func(*State[T, F]) bool) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	before := c.state.Query
	if !fn(&c.state) {
		c.mu.Unlock()
		return false
	}
	after := c.state.Query
	fctx, seq, q := c.beginLocked(c.base)
	snap := c.snapshotLocked()
	c.wg.Add(1)
	c.mu.Unlock()

	if after != before {
		c.queryChanged(after)
	}
	c.publish(snap)

	go func() {
		defer c.wg.Done()
		_ = c.run(c.base, fctx, seq, q)
	}()
	return true
}

// beginLocked cancela a busca anterior e reserva um novo número de sequência.
func (c *Controller[T, F]) beginLocked(parent context.Context) (context.Context, uint64, domain.Query[F]) {
	if c.cancel != nil {
		c.cancel()
	}
	c.seq++
	ctx, cancel := context.WithCancel(parent)
	c.cancel = cancel
	c.state.Loading = true
	return ctx, c.seq, c.state.Query
}

// run executa a busca e aplica o resultado, repetindo-a na última página
// quando o backend informa menos páginas que o índice pedido.
func (c *Controller[T, F]) run(parent, ctx context.Context, seq uint64, q domain.Query[F]) error {
	for {
		c.log.Debug("Buscando página.", map[string]interface{}{
			"list": c.cfg.Name, "seq": seq, "page": q.Page, "size": q.Size,
		})
		page, err := c.cfg.Fetch(ctx, q)

		c.mu.Lock()
		if seq != c.seq {
			c.mu.Unlock()
			c.log.Debug("Resposta obsoleta descartada.", map[string]interface{}{"list": c.cfg.Name, "seq": seq})
			return nil
		}
		if c.closed {
			c.mu.Unlock()
			return nil
		}
		// Lido antes de liberar o contexto: depois do cancel ele sempre acusa erro.
		ctxErr := ctx.Err()
		if c.cancel != nil {
			c.cancel()
			c.cancel = nil
		}

		if err != nil && c.cfg.NotFoundAsEmpty && apperror.IsNotFound(err) {
			page, err = domain.EmptyPage[T](q.Page, q.Size), nil
		}

		if err != nil {
			c.state.Loading = false
			if ctxErr != nil {
				// Cancelada pelo chamador: não é falha a exibir.
				snap := c.snapshotLocked()
				c.mu.Unlock()
				c.publish(snap)
				return ctxErr
			}
			// Mantém os itens anteriores; o usuário pode repetir com Refetch.
			c.state.Err = err
			c.state.ErrMessage = apperror.UserMessage(err, c.cfg.ErrorMessage)
			snap := c.snapshotLocked()
			c.mu.Unlock()

			c.log.Warn("Falha ao carregar a listagem.", map[string]interface{}{"list": c.cfg.Name, "error": err.Error()})
			c.publish(snap)
			return err
		}

		c.state.TotalPages = page.TotalPages
		c.state.TotalItems = page.TotalItems

		if q.Page > 0 && q.Page >= page.TotalPages {
			last := page.TotalPages - 1
			if last < 0 {
				last = 0
			}
			c.state.Query.Page = last
			after := c.state.Query
			ctx, seq, q = c.beginLocked(parent)
			snap := c.snapshotLocked()
			c.mu.Unlock()

			c.queryChanged(after)
			c.publish(snap)
			continue
		}

		items := page.Items
		if items == nil {
			items = []T{}
		}
		c.state.Items = items
		c.state.Loading = false
		c.state.Err = nil
		c.state.ErrMessage = ""
		snap := c.snapshotLocked()
		c.mu.Unlock()

		c.publish(snap)
		return nil
	}
}

func (c *Controller[T, F]) snapshotLocked() State[T, F] {
	s := c.state
	s.Items = append([]T(nil), c.state.Items...)
	return s
}

func (c *Controller[T, F]) publish(s State[T, F]) {
	c.subMu.Lock()
	subs := make([]func(State[T, F]), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.subMu.Unlock()

	for _, fn := range subs {
		fn(s)
	}
}

func (c *Controller[T, F]) queryChanged(q domain.Query[F]) {
	c.subMu.Lock()
	hooks := append([]func(domain.Query[F]){}, c.hooks...)
	c.subMu.Unlock()

	for _, fn := range hooks {
		fn(q)
	}
}
