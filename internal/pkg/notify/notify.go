package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"stockify/internal/pkg/logger"
)

// Kind é a severidade de um aviso.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Notice é um aviso transitório exibido ao usuário.
type Notice struct {
	ID        string
	Kind      Kind
	Message   string
	CreatedAt time.Time
}

const historyLimit = 50

// Center mantém o aviso corrente e o descarta automaticamente após ttl.
// Um novo aviso substitui o anterior; o temporizador do anterior não o afeta.
type Center struct {
	mu      sync.Mutex
	ttl     time.Duration
	current *Notice
	timer   *time.Timer
	history []Notice
	subs    []func(Notice, bool)
	logger  logger.Logger
}

// NewCenter cria o centro de avisos. ttl <= 0 desliga o descarte automático.
func NewCenter(ttl time.Duration, log logger.Logger) *Center {
	return &Center{ttl: ttl, logger: log}
}

// Success publica um aviso de sucesso.
func (c *Center) Success(msg string) Notice { return c.Post(KindSuccess, msg) }

// Error publica um aviso de erro.
func (c *Center) Error(msg string) Notice { return c.Post(KindError, msg) }

// Post publica um aviso, substituindo o corrente.
func (c *Center) Post(kind Kind, msg string) Notice {
	n := Notice{ID: uuid.NewString(), Kind: kind, Message: msg, CreatedAt: time.Now()}

	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
	}
	c.current = &n
	c.history = append(c.history, n)
	if len(c.history) > historyLimit {
		c.history = c.history[len(c.history)-historyLimit:]
	}
	if c.ttl > 0 {
		id := n.ID
		c.timer = time.AfterFunc(c.ttl, func() { c.Dismiss(id) })
	}
	subs := c.subscribersLocked()
	c.mu.Unlock()

	c.logger.Debug("Aviso publicado.", map[string]interface{}{"kind": string(kind), "message": msg})
	for _, fn := range subs {
		fn(n, true)
	}
	return n
}

// Dismiss remove o aviso com o id informado, se ainda for o corrente.
func (c *Center) Dismiss(id string) {
	c.mu.Lock()
	if c.current == nil || c.current.ID != id {
		c.mu.Unlock()
		return
	}
	n := *c.current
	c.current = nil
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	subs := c.subscribersLocked()
	c.mu.Unlock()

	for _, fn := range subs {
		fn(n, false)
	}
}

// Current devolve o aviso visível, se houver.
func (c *Center) Current() (Notice, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return Notice{}, false
	}
	return *c.current, true
}

// History devolve os últimos avisos publicados, do mais antigo ao mais recente.
func (c *Center) History() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Notice(nil), c.history...)
}

// Subscribe registra fn para ser chamada a cada publicação (visible=true) e descarte (visible=false).
func (c *Center) Subscribe(fn func(n Notice, visible bool)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

// subscribersLocked copia os assinantes; chamada com c.mu travado.
func (c *Center) subscribersLocked() []func(Notice, bool) {
	subs := make([]func(Notice, bool), len(c.subs))
	copy(subs, c.subs)
	return subs
}
