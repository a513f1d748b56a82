package fakeapi

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"stockify/internal/domain"
)

// summaryThreshold é fixo no resumo do backend, independente do limiar dos relatórios.
const summaryThreshold = 5

func (s *Server) filterStock(w http.ResponseWriter, r *http.Request) {
	p := readPage(r)
	q := r.URL.Query()
	query := strings.TrimSpace(q.Get("query"))
	supplierID := int64Param(r, "supplierId")

	minQ, hasMinQ := intParam(q.Get("minQuantity"))
	maxQ, hasMaxQ := intParam(q.Get("maxQuantity"))
	minV, hasMinV := decimalParam(q.Get("minValue"))
	maxV, hasMaxV := decimalParam(q.Get("maxValue"))

	s.mu.Lock()
	items := s.stocksLocked(func(st domain.Stock) bool {
		switch {
		case query != "" && !containsFold(st.ProductName, query) && !containsFold(st.SupplierName, query):
			return false
		case supplierID > 0 && st.SupplierID != supplierID:
			return false
		case hasMinQ && st.Quantity < minQ, hasMaxQ && st.Quantity > maxQ:
			return false
		case hasMinV && st.Value.LessThan(minV), hasMaxV && st.Value.GreaterThan(maxV):
			return false
		}
		return true
	})
	s.mu.Unlock()

	if len(items) == 0 {
		writeError(w, r, http.StatusNotFound, "Nenhum estoque encontrado com os filtros informados.")
		return
	}
	sortStocks(items, p)
	writeHAL(w, "stockDTOList", items, p)
}

func (s *Server) stockLimits(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	limits := domain.StockLimits{MaxValue: decimal.Zero}
	for _, st := range s.stocks {
		if st.Quantity > limits.MaxQuantity {
			limits.MaxQuantity = st.Quantity
		}
		if st.Value.GreaterThan(limits.MaxValue) {
			limits.MaxValue = st.Value
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, limits)
}

func (s *Server) stockSummary(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	var sum domain.StockSummary
	for _, st := range s.stocks {
		sum.TotalProducts++
		switch {
		case st.Quantity == 0:
			sum.ZeroQuantity++
		case st.Quantity < summaryThreshold:
			sum.BetweenThreshold++
		default:
			sum.AboveThreshold++
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, sum)
}

// report monta o handler de um relatório de estoque.
// Um relatório sem resultados responde 404, como o backend real.
func (s *Server) report(level domain.ReportLevel) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := readPage(r)
		threshold := atoi(r.URL.Query().Get("threshold"), summaryThreshold)
		query := strings.TrimSpace(r.URL.Query().Get("query"))
		supplierID := int64Param(r, "supplierId")

		var match func(int) bool
		var empty string
		switch level {
		case domain.ReportCritical:
			match = func(q int) bool { return q <= threshold }
			empty = "Nenhum produto com estoque crítico encontrado."
		case domain.ReportLow:
			match = func(q int) bool { return q >= 1 && q <= threshold-1 }
			empty = "Nenhum produto com estoque baixo encontrado."
		case domain.ReportAdequate:
			match = func(q int) bool { return q >= threshold }
			empty = "Nenhum produto com estoque adequado encontrado."
		default:
			match = func(q int) bool { return q == 0 }
			empty = "Nenhum produto sem estoque encontrado."
		}

		s.mu.Lock()
		items := s.stocksLocked(func(st domain.Stock) bool {
			if query != "" && !containsFold(st.ProductName, query) {
				return false
			}
			if supplierID > 0 && st.SupplierID != supplierID {
				return false
			}
			return match(st.Quantity)
		})
		s.mu.Unlock()

		if len(items) == 0 {
			writeError(w, r, http.StatusNotFound, empty)
			return
		}
		if p.sortBy == "" {
			p.sortBy = "quantity"
		}
		sortStocks(items, p)
		writeHAL(w, "stockDTOList", items, p)
	}
}

func (s *Server) stocksLocked(keep func(domain.Stock) bool) []domain.Stock {
	var out []domain.Stock
	for _, st := range s.stocks {
		if keep(st) {
			out = append(out, st)
		}
	}
	return out
}

func sortStocks(items []domain.Stock, p pageRequest) {
	var less func(a, b domain.Stock) bool
	switch p.sortBy {
	case "quantity":
		less = func(a, b domain.Stock) bool { return a.Quantity < b.Quantity }
	case "value":
		less = func(a, b domain.Stock) bool { return a.Value.LessThan(b.Value) }
	case "supplier", "supplierName":
		less = func(a, b domain.Stock) bool { return strings.ToLower(a.SupplierName) < strings.ToLower(b.SupplierName) }
	case "productName":
		less = func(a, b domain.Stock) bool { return strings.ToLower(a.ProductName) < strings.ToLower(b.ProductName) }
	default:
		less = func(a, b domain.Stock) bool { return a.ID < b.ID }
	}
	sort.SliceStable(items, func(i, j int) bool {
		if p.desc {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
}

func (s *Server) getStock(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	i := s.stockIndexLocked(id)
	var st domain.Stock
	if i >= 0 {
		st = s.stocks[i]
	}
	s.mu.Unlock()
	if i < 0 {
		writeError(w, r, http.StatusNotFound, fmt.Sprintf("Estoque não encontrado com o ID: %d", id))
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) createStock(w http.ResponseWriter, r *http.Request) {
	var in domain.Stock
	if !decode(w, r, &in) {
		return
	}
	if msg := checkStock(in); msg != "" {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	pi := s.productIndexLocked(in.ProductID)
	if pi < 0 {
		writeError(w, r, http.StatusNotFound, fmt.Sprintf("Produto não encontrado com o ID: %d", in.ProductID))
		return
	}
	// A quantidade em estoque sai da quantidade disponível do produto.
	if avail := s.products[pi].Quantity; avail < in.Quantity {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("Quantidade insuficiente do produto. Disponível: %d", avail))
		return
	}
	s.products[pi].Quantity -= in.Quantity
	in.ID = s.id("stock")
	s.fillStockLocked(&in, s.products[pi])
	s.stocks = append(s.stocks, in)
	s.recordLocked(domain.EntityStock, in.ID, domain.OperationCreate, nil, in, "Estoque criado para o produto: "+in.ProductName)
	writeJSON(w, http.StatusCreated, in)
}

func (s *Server) updateStock(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var in domain.Stock
	if !decode(w, r, &in) {
		return
	}
	if msg := checkStock(in); msg != "" {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.stockIndexLocked(id)
	if i < 0 {
		writeError(w, r, http.StatusNotFound, fmt.Sprintf("Estoque não encontrado com o ID: %d", id))
		return
	}
	pi := s.productIndexLocked(in.ProductID)
	if pi < 0 {
		writeError(w, r, http.StatusNotFound, fmt.Sprintf("Produto não encontrado com o ID: %d", in.ProductID))
		return
	}
	old := s.stocks[i]
	diff := in.Quantity - old.Quantity
	if diff > 0 && s.products[pi].Quantity < diff {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("Quantidade insuficiente do produto. Necessário: %d", diff))
		return
	}
	s.products[pi].Quantity -= diff
	in.ID = id
	s.fillStockLocked(&in, s.products[pi])
	s.stocks[i] = in
	s.recordLocked(domain.EntityStock, id, domain.OperationUpdate, old, in, "Estoque atualizado para o produto: "+in.ProductName)
	writeJSON(w, http.StatusOK, in)
}

func (s *Server) deleteStock(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.stockIndexLocked(id)
	if i < 0 {
		writeError(w, r, http.StatusNotFound, fmt.Sprintf("Estoque não encontrado com o ID: %d", id))
		return
	}
	old := s.stocks[i]
	s.stocks = append(s.stocks[:i], s.stocks[i+1:]...)
	s.recordLocked(domain.EntityStock, id, domain.OperationDelete, old, nil, "Estoque excluído do produto: "+old.ProductName)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) fillStockLocked(st *domain.Stock, p domain.Product) {
	st.ProductName = p.Name
	st.SupplierID = p.SupplierID
	st.SupplierName = p.SupplierName
	st.Available = st.Quantity > 0
}

func checkStock(st domain.Stock) string {
	switch {
	case st.ProductID <= 0:
		return "O produto é obrigatório."
	case st.Quantity < 0:
		return "A quantidade não pode ser negativa."
	case !st.Value.IsPositive():
		return "O valor deve ser maior que zero."
	}
	return ""
}

func intParam(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	return n, err == nil
}

func decimalParam(s string) (decimal.Decimal, bool) {
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	return d, err == nil
}
