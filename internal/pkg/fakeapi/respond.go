package fakeapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"stockify/internal/domain"
)

// writeJSON envia data com o status informado.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeError envia o corpo de erro no formato do backend ({status, error, message, path}).
func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, status, domain.ErrorResponse{
		Status:  status,
		Error:   http.StatusText(status),
		Message: message,
		Path:    r.URL.Path,
	})
}

// decode lê o corpo JSON; em caso de falha responde 400 e devolve false.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "Payload inválido. Verifique o formato JSON.")
		return false
	}
	return true
}

// idParam lê o {id} da rota; responde 400 se inválido.
func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, "ID inválido.")
		return 0, false
	}
	return id, true
}

type pageRequest struct {
	page, size int
	sortBy     string
	desc       bool
}

func readPage(r *http.Request) pageRequest {
	q := r.URL.Query()
	p := pageRequest{page: atoi(q.Get("page"), 0), size: atoi(q.Get("size"), 10)}
	if p.page < 0 {
		p.page = 0
	}
	if p.size <= 0 {
		p.size = 10
	}
	p.sortBy = q.Get("sortBy")
	p.desc = strings.EqualFold(q.Get("sortDirection"), "desc")
	return p
}

func atoi(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func int64Param(r *http.Request, key string) int64 {
	n, _ := strconv.ParseInt(r.URL.Query().Get(key), 10, 64)
	return n
}

// paginate recorta items para a página pedida.
func paginate[T any](items []T, p pageRequest) (page []T, totalPages int) {
	total := len(items)
	totalPages = (total + p.size - 1) / p.size
	from := p.page * p.size
	if from > total {
		from = total
	}
	to := from + p.size
	if to > total {
		to = total
	}
	return append([]T{}, items[from:to]...), totalPages
}

type halMeta struct {
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
}

// writeHAL responde no formato PagedModel do Spring HATEOAS.
// Uma página vazia não traz "_embedded", como no backend real.
func writeHAL[T any](w http.ResponseWriter, key string, all []T, p pageRequest) {
	items, pages := paginate(all, p)
	body := map[string]interface{}{
		"page": halMeta{Size: p.size, TotalElements: int64(len(all)), TotalPages: pages, Number: p.page},
	}
	if len(items) > 0 {
		body["_embedded"] = map[string]interface{}{key: items}
	}
	writeJSON(w, http.StatusOK, body)
}

// writeSpringPage responde no formato Page do Spring Data.
func writeSpringPage[T any](w http.ResponseWriter, all []T, p pageRequest) {
	items, pages := paginate(all, p)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"content":       items,
		"totalPages":    pages,
		"totalElements": len(all),
		"number":        p.page,
		"size":          p.size,
	})
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
