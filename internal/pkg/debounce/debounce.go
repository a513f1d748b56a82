package debounce

import (
	"sync"
	"time"
)

// Gate adia a entrega de valores até que a entrada fique estável por delay.
// Cada Push reinicia o temporizador; ao expirar, commit recebe apenas o último valor.
// commit é chamado fora do lock, em uma goroutine do temporizador.
type Gate[V any] struct {
	mu      sync.Mutex
	delay   time.Duration
	commit  func(V)
	timer   *time.Timer
	gen     uint64
	pending bool
	value   V
	closed  bool
}

// New cria um Gate. delay <= 0 faz Push entregar de forma síncrona.
func New[V any](delay time.Duration, commit func(V)) *Gate[V] {
	return &Gate[V]{delay: delay, commit: commit}
}

// Push registra um novo valor e reinicia a espera.
func (g *Gate[V]) Push(v V) {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.stopLocked()
	g.gen++
	g.value = v
	g.pending = true

	if g.delay <= 0 {
		g.pending = false
		g.mu.Unlock()
		g.commit(v)
		return
	}

	gen := g.gen
	g.timer = time.AfterFunc(g.delay, func() { g.fire(gen) })
	g.mu.Unlock()
}

func (g *Gate[V]) fire(gen uint64) {
	g.mu.Lock()
	// Temporizador substituído por um Push/Cancel posterior.
	if g.closed || !g.pending || gen != g.gen {
		g.mu.Unlock()
		return
	}
	v := g.value
	g.pending = false
	g.timer = nil
	g.mu.Unlock()

	g.commit(v)
}

// Flush entrega imediatamente o valor pendente, se houver.
func (g *Gate[V]) Flush() {
	g.mu.Lock()
	if g.closed || !g.pending {
		g.mu.Unlock()
		return
	}
	g.stopLocked()
	g.gen++
	v := g.value
	g.pending = false
	g.mu.Unlock()

	g.commit(v)
}

// Cancel descarta o valor pendente sem entregá-lo.
func (g *Gate[V]) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stopLocked()
	g.gen++
	g.pending = false
}

// Close cancela o pendente e recusa novos Push (equivale a desmontar a tela).
func (g *Gate[V]) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stopLocked()
	g.gen++
	g.pending = false
	g.closed = true
}

// Pending indica se há um valor aguardando entrega.
func (g *Gate[V]) Pending() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending
}

func (g *Gate[V]) stopLocked() {
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
}
