// Package screen compõe as listagens, seletores e mutações de cada tela do painel.
package screen

import (
	"context"
	"time"

	"stockify/internal/mutation"
	"stockify/internal/pkg/logger"
	"stockify/internal/pkg/notify"
)

// Deps são as dependências comuns às telas.
type Deps struct {
	Notices        *notify.Center
	Logger         logger.Logger
	PageSize       int
	Debounce       time.Duration
	TypeaheadDelay time.Duration
	// OnMutation roda após cada mutação bem-sucedida (e.g., invalidar o dashboard).
	OnMutation func(ctx context.Context) error
}

func (d Deps) logger() logger.Logger {
	if d.Logger == nil {
		return logger.Nop()
	}
	return d.Logger
}

func (d Deps) dispatcher() *mutation.Dispatcher {
	disp := mutation.NewDispatcher(d.Notices, d.logger())
	if d.OnMutation != nil {
		disp.AddFacet("dashboard", d.OnMutation)
	}
	return disp
}
