package expansion

import (
	"sync"

	"stockify/internal/listing"
)

// Factory cria a listagem filha de um registro pai.
type Factory[T any, F comparable] func(parentID int64) *listing.Controller[T, F]

// Manager mantém as listagens filhas (e.g., produtos de um fornecedor), uma por pai.
// Apenas um pai fica expandido por vez; recolher preserva o estado do filho
// e reexpandir recarrega a página preservada.
type Manager[T any, F comparable] struct {
	factory Factory[T, F]

	mu       sync.Mutex
	children map[int64]*listing.Controller[T, F]
	expanded int64
}

// New cria o gerenciador.
func New[T any, F comparable](factory Factory[T, F]) *Manager[T, F] {
	return &Manager[T, F]{factory: factory, children: make(map[int64]*listing.Controller[T, F])}
}

// Toggle expande o pai ou, se já expandido, o recolhe.
// Devolve true se o pai ficou expandido.
func (m *Manager[T, F]) Toggle(parentID int64) bool {
	m.mu.Lock()
	isOpen := m.expanded == parentID
	m.mu.Unlock()

	if isOpen {
		m.Collapse()
		return false
	}
	m.Expand(parentID)
	return true
}

// Expand expande o pai (recolhendo o anterior) e busca a página corrente do filho.
func (m *Manager[T, F]) Expand(parentID int64) *listing.Controller[T, F] {
	m.mu.Lock()
	child, ok := m.children[parentID]
	if !ok {
		child = m.factory(parentID)
		m.children[parentID] = child
	}
	m.expanded = parentID
	m.mu.Unlock()

	child.Refetch()
	return child
}

// Collapse recolhe o pai expandido, mantendo o estado do filho.
func (m *Manager[T, F]) Collapse() {
	m.mu.Lock()
	m.expanded = 0
	m.mu.Unlock()
}

// Child devolve a listagem filha de parentID, se já criada.
func (m *Manager[T, F]) Child(parentID int64) (*listing.Controller[T, F], bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.children[parentID]
	return c, ok
}

// Expanded devolve o pai expandido.
func (m *Manager[T, F]) Expanded() (int64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.expanded, m.expanded != 0
}

// Forget descarta a listagem filha de parentID (e.g., pai excluído),
// recolhendo-o se estiver expandido.
func (m *Manager[T, F]) Forget(parentID int64) {
	m.mu.Lock()
	child, ok := m.children[parentID]
	delete(m.children, parentID)
	if m.expanded == parentID {
		m.expanded = 0
	}
	m.mu.Unlock()

	if ok {
		child.Close()
	}
}

// Reset descarta todas as listagens filhas (mudança de página ou filtro do pai).
func (m *Manager[T, F]) Reset() {
	m.mu.Lock()
	children := m.children
	m.children = make(map[int64]*listing.Controller[T, F])
	m.expanded = 0
	m.mu.Unlock()

	for _, c := range children {
		c.Close()
	}
}

// Close encerra todas as listagens filhas.
func (m *Manager[T, F]) Close() { m.Reset() }
