package domain

import (
	"encoding/json"
	"strings"
)

// LogEntity é a entidade auditada.
type LogEntity string

const (
	EntityProduct  LogEntity = "Product"
	EntityStock    LogEntity = "Stock"
	EntitySale     LogEntity = "Sale"
	EntitySupplier LogEntity = "Supplier"
)

// OperationType é a operação registrada na auditoria.
type OperationType string

const (
	OperationCreate OperationType = "CREATE"
	OperationUpdate OperationType = "UPDATE"
	OperationDelete OperationType = "DELETE"
)

// Log é uma entrada da trilha de auditoria.
// OldValue/NewValue são snapshots JSON serializados pelo backend.
type Log struct {
	ID            int64         `json:"id"`
	Entity        LogEntity     `json:"entity"`
	EntityID      int64         `json:"entityId"`
	OperationType OperationType `json:"operationType"`
	OldValue      string        `json:"oldValue,omitempty"`
	NewValue      string        `json:"newValue,omitempty"`
	Details       string        `json:"details,omitempty"`
	Timestamp     Timestamp     `json:"timestamp"`
}

// LogFilter é o filtro da tela de auditoria. Vazio = todos.
type LogFilter struct {
	Entity        LogEntity
	OperationType OperationType
}

var entityLabels = map[LogEntity]string{
	EntitySupplier: "Fornecedor",
	EntityProduct:  "Produto",
	EntityStock:    "Estoque",
	EntitySale:     "Venda",
}

var operationLabels = map[OperationType]string{
	OperationCreate: "Criação",
	OperationUpdate: "Atualização",
	OperationDelete: "Exclusão",
}

// Label devolve o nome da entidade em português.
func (e LogEntity) Label() string {
	if l, ok := entityLabels[e]; ok {
		return l
	}
	return string(e)
}

// Label devolve o nome da operação em português.
func (o OperationType) Label() string {
	if l, ok := operationLabels[o]; ok {
		return l
	}
	return string(o)
}

// Snapshot é um valor de auditoria já interpretado.
// Quando o texto não é JSON válido, Fields fica nil e Raw guarda o texto original.
type Snapshot struct {
	Raw    string
	Fields map[string]interface{}
}

// ParseSnapshot interpreta um snapshot de forma tolerante.
func ParseSnapshot(raw string) Snapshot {
	s := Snapshot{Raw: raw}
	if strings.TrimSpace(raw) == "" {
		return s
	}
	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &fields); err == nil {
		s.Fields = fields
	}
	return s
}

// String devolve o campo como texto, ou "" se ausente.
func (s Snapshot) String(key string) string {
	if s.Fields == nil {
		return ""
	}
	if v, ok := s.Fields[key].(string); ok {
		return v
	}
	return ""
}

// ShowsNewValue indica se o novo valor deve ser exibido (toda operação exceto DELETE).
func (l Log) ShowsNewValue() bool {
	return l.OperationType != OperationDelete
}

// ShowsOldValue indica se o valor anterior deve ser exibido (UPDATE e DELETE).
func (l Log) ShowsOldValue() bool {
	return l.OperationType == OperationUpdate || l.OperationType == OperationDelete
}

// Subject devolve o nome do item afetado, extraído dos snapshots.
func (l Log) Subject() string {
	newV, oldV := ParseSnapshot(l.NewValue), ParseSnapshot(l.OldValue)
	pick := func(key, fallback string) string {
		if v := newV.String(key); v != "" {
			return v
		}
		if v := oldV.String(key); v != "" {
			return v
		}
		return fallback
	}
	switch l.Entity {
	case EntityProduct:
		return pick("name", "Produto desconhecido")
	case EntityStock:
		return pick("productName", "Produto desconhecido no estoque")
	case EntitySupplier:
		return pick("name", "Fornecedor desconhecido")
	case EntitySale:
		return pick("productName", "Produto vendido")
	default:
		return "Entidade desconhecida"
	}
}
