package fakeapi

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"stockify/internal/domain"
)

const dateLayout = "2006-01-02"

func (s *Server) registerSale(w http.ResponseWriter, r *http.Request) {
	var in domain.Sale
	if !decode(w, r, &in) {
		return
	}
	if in.Quantity <= 0 {
		writeError(w, r, http.StatusBadRequest, "A quantidade vendida deve ser maior que zero.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.stockIndexLocked(in.StockID)
	if i < 0 {
		writeError(w, r, http.StatusNotFound, fmt.Sprintf("Estoque não encontrado com o ID: %d", in.StockID))
		return
	}
	st := &s.stocks[i]
	if in.Quantity > st.Quantity {
		writeError(w, r, http.StatusBadRequest, "Quantidade insuficiente em estoque.")
		return
	}
	st.Quantity -= in.Quantity
	st.Available = st.Quantity > 0

	rec := saleRecord{
		Sale: domain.Sale{
			ID:               s.id("sale"),
			StockID:          st.ID,
			Quantity:         in.Quantity,
			ProductName:      st.ProductName,
			StockValueAtSale: st.Value,
			SaleDate:         domain.Timestamp{Time: time.Now()},
		},
		ProductID:    st.ProductID,
		SupplierID:   st.SupplierID,
		SupplierName: st.SupplierName,
	}
	s.sales = append(s.sales, rec)
	s.recordLocked(domain.EntitySale, rec.ID, domain.OperationCreate, nil, rec.Sale,
		fmt.Sprintf("Venda registrada: %d x %s", rec.Quantity, rec.ProductName))
	writeJSON(w, http.StatusCreated, rec.Sale)
}

// listSales devolve as vendas mais recentes primeiro.
func (s *Server) listSales(w http.ResponseWriter, r *http.Request) {
	p := readPage(r)
	term := strings.TrimSpace(r.URL.Query().Get("searchTerm"))

	s.mu.Lock()
	items := []domain.Sale{}
	for i := len(s.sales) - 1; i >= 0; i-- {
		if term == "" || containsFold(s.sales[i].ProductName, term) {
			items = append(items, s.sales[i].Sale)
		}
	}
	s.mu.Unlock()
	writeSpringPage(w, items, p)
}

func (s *Server) bestSellers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	totals := make(map[string]int64)
	for _, sale := range s.sales {
		totals[sale.ProductName] += int64(sale.Quantity)
	}
	s.mu.Unlock()

	items := make([]domain.BestSellingItem, 0, len(totals))
	for name, qty := range totals {
		items = append(items, domain.BestSellingItem{ProductName: name, TotalQuantitySold: qty})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].TotalQuantitySold != items[j].TotalQuantitySold {
			return items[i].TotalQuantitySold > items[j].TotalQuantitySold
		}
		return items[i].ProductName < items[j].ProductName
	})
	writeJSON(w, http.StatusOK, items)
}

// soldItems agrega as vendas por produto e dia.
func (s *Server) soldItems(w http.ResponseWriter, r *http.Request) {
	p := readPage(r)
	q := r.URL.Query()
	query := strings.TrimSpace(q.Get("query"))
	supplierID := int64Param(r, "supplierId")
	from, to, ok := dateRange(w, r)
	if !ok {
		return
	}

	type key struct {
		product int64
		day     string
	}
	s.mu.Lock()
	groups := make(map[key]*domain.SoldItem)
	var order []key
	for _, sale := range s.sales {
		day := sale.SaleDate.Format(dateLayout)
		switch {
		case query != "" && !containsFold(sale.ProductName, query) && !containsFold(sale.SupplierName, query):
			continue
		case supplierID > 0 && sale.SupplierID != supplierID:
			continue
		case from != "" && day < from, to != "" && day > to:
			continue
		}
		k := key{sale.ProductID, day}
		it, seen := groups[k]
		if !seen {
			date, _ := time.ParseInLocation(dateLayout, day, time.Local)
			it = &domain.SoldItem{
				ProductID:        sale.ProductID,
				ProductName:      sale.ProductName,
				SupplierName:     sale.SupplierName,
				StockValueAtSale: sale.StockValueAtSale,
				SaleDate:         domain.Timestamp{Time: date},
			}
			groups[k] = it
			order = append(order, k)
		}
		it.TotalQuantitySold += int64(sale.Quantity)
	}
	s.mu.Unlock()

	items := make([]domain.SoldItem, 0, len(order))
	for _, k := range order {
		items = append(items, *groups[k])
	}
	asc := strings.EqualFold(q.Get("sortDirection"), "asc")
	sort.SliceStable(items, func(i, j int) bool {
		if asc {
			return items[i].SaleDate.Before(items[j].SaleDate.Time)
		}
		return items[i].SaleDate.After(items[j].SaleDate.Time)
	})
	writeSpringPage(w, items, p)
}

func (s *Server) groupedByDay(w http.ResponseWriter, r *http.Request) {
	from, to, ok := dateRange(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	totals := make(map[string]int64)
	for _, sale := range s.sales {
		day := sale.SaleDate.Format(dateLayout)
		if (from != "" && day < from) || (to != "" && day > to) {
			continue
		}
		totals[day] += int64(sale.Quantity)
	}
	s.mu.Unlock()

	days := make([]string, 0, len(totals))
	for d := range totals {
		days = append(days, d)
	}
	sort.Strings(days)
	items := make([]domain.DailySales, 0, len(days))
	for _, d := range days {
		date, _ := time.ParseInLocation(dateLayout, d, time.Local)
		items = append(items, domain.DailySales{SaleDate: domain.Timestamp{Time: date}, TotalQuantitySold: totals[d]})
	}
	writeJSON(w, http.StatusOK, items)
}

// dateRange lê startDate/endDate (yyyy-MM-dd); responde 400 se malformados.
func dateRange(w http.ResponseWriter, r *http.Request) (from, to string, ok bool) {
	from, to = r.URL.Query().Get("startDate"), r.URL.Query().Get("endDate")
	for _, d := range []string{from, to} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, d); err != nil {
			writeError(w, r, http.StatusBadRequest, "Data inválida. Use o formato yyyy-MM-dd.")
			return "", "", false
		}
	}
	return from, to, true
}
