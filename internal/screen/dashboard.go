package screen

import (
	"context"
	"sync"

	"stockify/internal/service/dashboardservice"
)

type DashboardService interface {
	Load(ctx context.Context) (dashboardservice.Overview, error)
	Invalidate(ctx context.Context)
}

// Dashboard guarda o último painel carregado.
type Dashboard struct {
	svc DashboardService

	mu       sync.Mutex
	overview dashboardservice.Overview
	err      error
}

// NewDashboard monta a tela.
func NewDashboard(svc DashboardService) *Dashboard {
	return &Dashboard{svc: svc}
}

// Load carrega o painel (do cache, se ainda válido).
func (d *Dashboard) Load(ctx context.Context) (dashboardservice.Overview, error) {
	ov, err := d.svc.Load(ctx)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.err = err
	if err == nil {
		d.overview = ov
	}
	return d.overview, err
}

// Reload descarta o cache e carrega de novo.
func (d *Dashboard) Reload(ctx context.Context) (dashboardservice.Overview, error) {
	d.svc.Invalidate(ctx)
	return d.Load(ctx)
}

// Overview devolve o último painel carregado e o erro da última tentativa.
func (d *Dashboard) Overview() (dashboardservice.Overview, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.overview, d.err
}
