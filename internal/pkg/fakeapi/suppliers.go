package fakeapi

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"stockify/internal/domain"
)

func (s *Server) listSuppliers(w http.ResponseWriter, r *http.Request) {
	p := readPage(r)
	s.mu.Lock()
	items := s.sortedSuppliersLocked(p, func(domain.Supplier) bool { return true })
	s.mu.Unlock()
	writeHAL(w, "supplierDTOList", items, p)
}

func (s *Server) filterSuppliers(w http.ResponseWriter, r *http.Request) {
	p := readPage(r)
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	productType := r.URL.Query().Get("productType")

	s.mu.Lock()
	items := s.sortedSuppliersLocked(p, func(sp domain.Supplier) bool {
		if name != "" && !containsFold(sp.Name, name) {
			return false
		}
		return productType == "" || strings.EqualFold(sp.ProductType, productType)
	})
	s.mu.Unlock()
	writeHAL(w, "supplierDTOList", items, p)
}

func (s *Server) searchSuppliers(w http.ResponseWriter, r *http.Request) {
	p := readPage(r)
	name := strings.TrimSpace(r.URL.Query().Get("name"))

	s.mu.Lock()
	items := s.sortedSuppliersLocked(p, func(sp domain.Supplier) bool {
		return containsFold(sp.Name, name)
	})
	s.mu.Unlock()
	writeHAL(w, "supplierDTOList", items, p)
}

func (s *Server) sortedSuppliersLocked(p pageRequest, keep func(domain.Supplier) bool) []domain.Supplier {
	var out []domain.Supplier
	for _, sp := range s.suppliers {
		if keep(sp) {
			out = append(out, sp)
		}
	}
	less := func(a, b domain.Supplier) bool { return a.ID < b.ID }
	switch p.sortBy {
	case "name":
		less = func(a, b domain.Supplier) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	case "productType":
		less = func(a, b domain.Supplier) bool { return a.ProductType < b.ProductType }
	}
	sort.SliceStable(out, func(i, j int) bool {
		if p.desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

func (s *Server) productTypes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	seen := make(map[string]bool)
	types := []string{}
	for _, sp := range s.suppliers {
		if !seen[sp.ProductType] {
			seen[sp.ProductType] = true
			types = append(types, sp.ProductType)
		}
	}
	s.mu.Unlock()
	sort.Strings(types)
	writeJSON(w, http.StatusOK, types)
}

func (s *Server) getSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	sp, found := s.supplierLocked(id)
	s.mu.Unlock()
	if !found {
		writeError(w, r, http.StatusNotFound, fmt.Sprintf("Fornecedor não encontrado com o ID: %d", id))
		return
	}
	writeJSON(w, http.StatusOK, sp)
}

func (s *Server) createSupplier(w http.ResponseWriter, r *http.Request) {
	var in domain.Supplier
	if !decode(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.Name) == "" {
		writeError(w, r, http.StatusBadRequest, "O nome do fornecedor é obrigatório.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cnpjTakenLocked(in.CNPJ, 0) {
		writeError(w, r, http.StatusConflict, "Já existe um fornecedor com este CNPJ.")
		return
	}
	in.ID = s.id("supplier")
	s.suppliers = append(s.suppliers, in)
	s.recordLocked(domain.EntitySupplier, in.ID, domain.OperationCreate, nil, in, "Fornecedor criado: "+in.Name)
	writeJSON(w, http.StatusCreated, in)
}

func (s *Server) updateSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var in domain.Supplier
	if !decode(w, r, &in) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, old := range s.suppliers {
		if old.ID != id {
			continue
		}
		if s.cnpjTakenLocked(in.CNPJ, id) {
			writeError(w, r, http.StatusConflict, "Já existe um fornecedor com este CNPJ.")
			return
		}
		in.ID = id
		s.suppliers[i] = in
		// O nome do fornecedor é desnormalizado em produtos e estoque.
		for j := range s.products {
			if s.products[j].SupplierID == id {
				s.products[j].SupplierName = in.Name
			}
		}
		for j := range s.stocks {
			if s.stocks[j].SupplierID == id {
				s.stocks[j].SupplierName = in.Name
			}
		}
		s.recordLocked(domain.EntitySupplier, id, domain.OperationUpdate, old, in, "Fornecedor atualizado: "+in.Name)
		writeJSON(w, http.StatusOK, in)
		return
	}
	writeError(w, r, http.StatusNotFound, fmt.Sprintf("Fornecedor não encontrado com o ID: %d", id))
}

func (s *Server) deleteSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, old := range s.suppliers {
		if old.ID != id {
			continue
		}
		s.suppliers = append(s.suppliers[:i], s.suppliers[i+1:]...)
		s.products = without(s.products, func(p domain.Product) bool { return p.SupplierID == id })
		s.stocks = without(s.stocks, func(st domain.Stock) bool { return st.SupplierID == id })
		s.recordLocked(domain.EntitySupplier, id, domain.OperationDelete, old, nil, "Fornecedor excluído: "+old.Name)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeError(w, r, http.StatusNotFound, fmt.Sprintf("Fornecedor não encontrado com o ID: %d", id))
}

func (s *Server) cnpjTakenLocked(cnpj string, except int64) bool {
	digits := onlyDigits(cnpj)
	if digits == "" {
		return false
	}
	for _, sp := range s.suppliers {
		if sp.ID != except && onlyDigits(sp.CNPJ) == digits {
			return true
		}
	}
	return false
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, c := range s {
		if c >= '0' && c <= '9' {
			b.WriteRune(c)
		}
	}
	return b.String()
}

// without devolve items sem os elementos que casam com drop.
func without[T any](items []T, drop func(T) bool) []T {
	out := items[:0]
	for _, it := range items {
		if !drop(it) {
			out = append(out, it)
		}
	}
	return out
}
