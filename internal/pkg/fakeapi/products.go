package fakeapi

import (
	"fmt"
	"net/http"
	"strings"

	"stockify/internal/domain"
)

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	p := readPage(r)
	s.mu.Lock()
	items := s.productsLocked(func(domain.Product) bool { return true })
	s.mu.Unlock()
	writeHAL(w, "productDTOList", items, p)
}

func (s *Server) searchProducts(w http.ResponseWriter, r *http.Request) {
	p := readPage(r)
	term := strings.TrimSpace(r.URL.Query().Get("searchTerm"))
	s.mu.Lock()
	items := s.productsLocked(func(pr domain.Product) bool { return containsFold(pr.Name, term) })
	s.mu.Unlock()
	writeHAL(w, "productDTOList", items, p)
}

// productsBySupplier atende a listagem e a busca por fornecedor.
func (s *Server) productsBySupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	p := readPage(r)
	term := strings.TrimSpace(r.URL.Query().Get("searchTerm"))

	s.mu.Lock()
	_, found := s.supplierLocked(id)
	items := s.productsLocked(func(pr domain.Product) bool {
		return pr.SupplierID == id && (term == "" || containsFold(pr.Name, term))
	})
	s.mu.Unlock()
	if !found {
		writeError(w, r, http.StatusNotFound, fmt.Sprintf("Fornecedor não encontrado com o ID: %d", id))
		return
	}
	writeHAL(w, "productDTOList", items, p)
}

func (s *Server) productsLocked(keep func(domain.Product) bool) []domain.Product {
	var out []domain.Product
	for _, pr := range s.products {
		if keep(pr) {
			out = append(out, pr)
		}
	}
	return out
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	i := s.productIndexLocked(id)
	var pr domain.Product
	if i >= 0 {
		pr = s.products[i]
	}
	s.mu.Unlock()
	if i < 0 {
		writeError(w, r, http.StatusNotFound, fmt.Sprintf("Produto não encontrado com o ID: %d", id))
		return
	}
	writeJSON(w, http.StatusOK, pr)
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	var in domain.Product
	if !decode(w, r, &in) {
		return
	}
	if msg := checkProduct(in); msg != "" {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sp, found := s.supplierLocked(in.SupplierID)
	if !found {
		writeError(w, r, http.StatusNotFound, fmt.Sprintf("Fornecedor não encontrado com o ID: %d", in.SupplierID))
		return
	}
	in.ID = s.id("product")
	in.SupplierName = sp.Name
	s.products = append(s.products, in)
	s.recordLocked(domain.EntityProduct, in.ID, domain.OperationCreate, nil, in, "Produto criado: "+in.Name)
	writeJSON(w, http.StatusCreated, in)
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var in domain.Product
	if !decode(w, r, &in) {
		return
	}
	if msg := checkProduct(in); msg != "" {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.productIndexLocked(id)
	if i < 0 {
		writeError(w, r, http.StatusNotFound, fmt.Sprintf("Produto não encontrado com o ID: %d", id))
		return
	}
	sp, found := s.supplierLocked(in.SupplierID)
	if !found {
		writeError(w, r, http.StatusNotFound, fmt.Sprintf("Fornecedor não encontrado com o ID: %d", in.SupplierID))
		return
	}
	old := s.products[i]
	in.ID = id
	in.SupplierName = sp.Name
	s.products[i] = in
	for j := range s.stocks {
		if s.stocks[j].ProductID == id {
			s.stocks[j].ProductName = in.Name
			s.stocks[j].SupplierID = in.SupplierID
			s.stocks[j].SupplierName = sp.Name
		}
	}
	s.recordLocked(domain.EntityProduct, id, domain.OperationUpdate, old, in, "Produto atualizado: "+in.Name)
	writeJSON(w, http.StatusOK, in)
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.productIndexLocked(id)
	if i < 0 {
		writeError(w, r, http.StatusNotFound, fmt.Sprintf("Produto não encontrado com o ID: %d", id))
		return
	}
	old := s.products[i]
	s.products = append(s.products[:i], s.products[i+1:]...)
	s.stocks = without(s.stocks, func(st domain.Stock) bool { return st.ProductID == id })
	s.recordLocked(domain.EntityProduct, id, domain.OperationDelete, old, nil, "Produto excluído: "+old.Name)
	w.WriteHeader(http.StatusNoContent)
}

func checkProduct(p domain.Product) string {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return "O nome do produto é obrigatório."
	case !p.Value.IsPositive():
		return "O valor do produto deve ser maior que zero."
	case p.Quantity <= 0:
		return "A quantidade deve ser maior que zero."
	}
	return ""
}
