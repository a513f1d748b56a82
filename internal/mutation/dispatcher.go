package mutation

import (
	"context"
	"errors"
	"sync"

	apperror "stockify/internal/errors"
	"stockify/internal/pkg/logger"
	"stockify/internal/pkg/notify"
)

// ErrAlreadyResolved é devolvido por Confirm após Confirm ou Cancel.
var ErrAlreadyResolved = errors.New("confirmação já resolvida")

// Refetcher é uma listagem que pode ser recarregada (listing.Controller).
type Refetcher interface {
	Refetch() bool
}

// Splicer é a listagem que recebe o registro salvo.
type Splicer[T any] interface {
	Refetcher
	Upsert(item T)
}

// Remover é a listagem da qual um registro excluído é retirado.
type Remover interface {
	Refetcher
	Remove(key int64) bool
}

// Messages são os textos dos avisos de uma mutação.
type Messages struct {
	Success string
	Failure string
}

// Dispatcher executa criações, edições e exclusões de uma tela,
// publicando exatamente um aviso por resultado.
type Dispatcher struct {
	notices *notify.Center
	logger  logger.Logger

	mu     sync.Mutex
	facets map[string]func(ctx context.Context) error
}

// NewDispatcher cria o dispatcher.
func NewDispatcher(notices *notify.Center, log logger.Logger) *Dispatcher {
	return &Dispatcher{notices: notices, logger: log, facets: make(map[string]func(context.Context) error)}
}

// AddFacet registra uma atualização dependente (e.g., lista de tipos de produto)
// executada após cada mutação bem-sucedida.
func (d *Dispatcher) AddFacet(name string, refresh func(ctx context.Context) error) {
	d.mu.Lock()
	d.facets[name] = refresh
	d.mu.Unlock()
}

// Save executa action (criação ou edição). Em caso de sucesso o registro devolvido
// entra na página corrente pela chave e a listagem é recarregada.
// Erros de validação chegam com os campos em apperror.FieldErrors.
func Save[T any](ctx context.Context, d *Dispatcher, list Splicer[T], msgs Messages, action func(ctx context.Context) (T, error)) (T, error) {
	saved, err := action(ctx)
	if err != nil {
		d.fail(err, msgs.Failure)
		var zero T
		return zero, err
	}

	if list != nil {
		list.Upsert(saved)
		list.Refetch()
	}
	d.refreshFacets(ctx)
	d.notices.Success(msgs.Success)
	return saved, nil
}

// Run executa uma ação sem registro de retorno (e.g., venda), com o mesmo contrato de avisos.
func (d *Dispatcher) Run(ctx context.Context, list Refetcher, msgs Messages, action func(ctx context.Context) error) error {
	if err := action(ctx); err != nil {
		d.fail(err, msgs.Failure)
		return err
	}
	if list != nil {
		list.Refetch()
	}
	d.refreshFacets(ctx)
	d.notices.Success(msgs.Success)
	return nil
}

// RequestDelete prepara a exclusão de id. Nada é enviado antes de Confirm.
func (d *Dispatcher) RequestDelete(list Remover, id int64, name string, msgs Messages, del func(ctx context.Context, id int64) error) *Confirmation {
	return &Confirmation{ID: id, Name: name, d: d, list: list, msgs: msgs, del: del}
}

func (d *Dispatcher) fail(err error, fallback string) {
	msg := apperror.UserMessage(err, fallback)
	if apperror.IsValidation(err) {
		d.logger.Debug("Mutação recusada na validação.", map[string]interface{}{"fields": apperror.FieldErrors(err)})
	} else {
		d.logger.Error("Falha na mutação.", err)
	}
	d.notices.Error(msg)
}

func (d *Dispatcher) refreshFacets(ctx context.Context) {
	d.mu.Lock()
	facets := make(map[string]func(context.Context) error, len(d.facets))
	for k, fn := range d.facets {
		facets[k] = fn
	}
	d.mu.Unlock()

	for name, fn := range facets {
		if err := fn(ctx); err != nil {
			d.logger.Warn("Falha ao atualizar lista dependente.", map[string]interface{}{"facet": name, "error": err.Error()})
		}
	}
}

// Confirmation é o passo de confirmação de uma exclusão (o modal "Tem certeza?").
type Confirmation struct {
	ID   int64
	Name string

	d    *Dispatcher
	list Remover
	msgs Messages
	del  func(ctx context.Context, id int64) error

	mu       sync.Mutex
	resolved bool
}

// Confirm executa a exclusão. Em caso de sucesso o registro sai da página
// corrente, a listagem é recarregada e as listas dependentes atualizadas.
// Em caso de erro (inclusive 404 de um id já excluído) a listagem não é alterada.
func (c *Confirmation) Confirm(ctx context.Context) error {
	c.mu.Lock()
	if c.resolved {
		c.mu.Unlock()
		return ErrAlreadyResolved
	}
	c.resolved = true
	c.mu.Unlock()

	if err := c.del(ctx, c.ID); err != nil {
		c.d.fail(err, c.msgs.Failure)
		return err
	}

	if c.list != nil {
		c.list.Remove(c.ID)
		c.list.Refetch()
	}
	c.d.refreshFacets(ctx)
	c.d.notices.Success(c.msgs.Success)
	c.d.logger.Info("Registro excluído.", map[string]interface{}{"id": c.ID, "name": c.Name})
	return nil
}

// Cancel descarta a exclusão.
func (c *Confirmation) Cancel() {
	c.mu.Lock()
	c.resolved = true
	c.mu.Unlock()
}
