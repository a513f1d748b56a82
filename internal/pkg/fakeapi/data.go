package fakeapi

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"stockify/internal/domain"
)

// saleRecord guarda a venda com os dados do produto no momento da venda.
type saleRecord struct {
	domain.Sale
	ProductID    int64
	SupplierID   int64
	SupplierName string
}

// id reserva o próximo id da entidade. Chamado com s.mu travado.
func (s *Server) id(kind string) int64 {
	s.nextID[kind]++
	return s.nextID[kind]
}

// recordLocked registra uma entrada de auditoria. Chamado com s.mu travado.
func (s *Server) recordLocked(entity domain.LogEntity, entityID int64, op domain.OperationType, oldValue, newValue interface{}, details string) {
	entry := domain.Log{
		ID:            s.id("log"),
		Entity:        entity,
		EntityID:      entityID,
		OperationType: op,
		OldValue:      snapshot(oldValue),
		NewValue:      snapshot(newValue),
		Details:       details,
		Timestamp:     domain.Timestamp{Time: time.Now()},
	}
	s.logs = append(s.logs, entry)
}

func snapshot(v interface{}) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// AddSupplier cadastra um fornecedor diretamente (fixtures de teste).
func (s *Server) AddSupplier(sp domain.Supplier) domain.Supplier {
	s.mu.Lock()
	defer s.mu.Unlock()
	sp.ID = s.id("supplier")
	s.suppliers = append(s.suppliers, sp)
	return sp
}

// AddProduct cadastra um produto e sua posição de estoque com a quantidade informada.
func (s *Server) AddProduct(p domain.Product, stockQuantity int) (domain.Product, domain.Stock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sp, ok := s.supplierLocked(p.SupplierID); ok {
		p.SupplierName = sp.Name
	}
	p.ID = s.id("product")
	s.products = append(s.products, p)

	st := domain.Stock{
		ID:           s.id("stock"),
		ProductID:    p.ID,
		ProductName:  p.Name,
		SupplierID:   p.SupplierID,
		SupplierName: p.SupplierName,
		Quantity:     stockQuantity,
		Value:        p.Value,
		Available:    stockQuantity > 0,
	}
	s.stocks = append(s.stocks, st)
	return p, st
}

// Seed carrega o conjunto de dados de demonstração.
func (s *Server) Seed() {
	types := []string{"Ferragens", "Elétrica", "Tintas", "Madeiras", "Hidráulica", "Ferragens", "Ferramentas", "Construção"}
	names := []string{
		"Ferragens Silva", "Elétrica Paulista", "Tintas Brasil", "Madeireira Sul",
		"Hidráulica Norte", "Parafusos & Cia", "Distribuidora Sete", "Casa do Construtor",
	}
	for i, name := range names {
		s.AddSupplier(domain.Supplier{
			Name:        name,
			Email:       fmt.Sprintf("contato%d@fornecedor.com.br", i+1),
			CNPJ:        fmt.Sprintf("%08d0001%02d", 11222333+i, i+10),
			Phone:       fmt.Sprintf("(11) 9%04d-%04d", 8000+i, 1000+i),
			ProductType: types[i],
		})
	}

	catalog := []struct {
		name     string
		supplier int64
		value    string
		quantity int
	}{
		{"Parafuso sextavado", 6, "0.35", 2},
		{"Parafuso Philips", 1, "0.20", 4},
		{"Parafuso de madeira", 4, "0.25", 3},
		{"Parafuso auto-atarraxante", 6, "0.30", 40},
		{"Porca sextavada", 6, "0.15", 1},
		{"Arruela lisa", 1, "0.05", 0},
		{"Fio flexível 2,5mm", 2, "189.90", 12},
		{"Disjuntor 20A", 2, "24.50", 5},
		{"Tinta acrílica 18L", 3, "349.00", 7},
		{"Verniz marítimo", 3, "89.90", 0},
		{"Tábua de pinus", 4, "19.90", 30},
		{"Registro de gaveta", 5, "45.00", 9},
		{"Cimento CP II 50kg", 8, "34.90", 60},
	}
	for _, c := range catalog {
		s.AddProduct(domain.Product{
			Name: c.name, SupplierID: c.supplier,
			Value: decimal.RequireFromString(c.value), Quantity: c.quantity + 1,
		}, c.quantity)
	}
	for i := 1; i <= 12; i++ {
		s.AddProduct(domain.Product{
			Name: fmt.Sprintf("Ferramenta %02d", i), SupplierID: 7,
			Value: decimal.NewFromInt(int64(10 * i)), Quantity: i,
		}, i)
	}
}

func (s *Server) supplierLocked(id int64) (domain.Supplier, bool) {
	for _, sp := range s.suppliers {
		if sp.ID == id {
			return sp, true
		}
	}
	return domain.Supplier{}, false
}

func (s *Server) productIndexLocked(id int64) int {
	for i, p := range s.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) stockIndexLocked(id int64) int {
	for i, st := range s.stocks {
		if st.ID == id {
			return i
		}
	}
	return -1
}
