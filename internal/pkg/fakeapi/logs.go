package fakeapi

import (
	"net/http"
	"strings"

	"stockify/internal/domain"
)

// listLogs devolve a auditoria filtrada, mais recente primeiro.
func (s *Server) listLogs(w http.ResponseWriter, r *http.Request) {
	p := readPage(r)
	entity := r.URL.Query().Get("entity")
	op := r.URL.Query().Get("operationType")

	s.mu.Lock()
	items := s.logsLocked(func(l domain.Log) bool {
		if entity != "" && !strings.EqualFold(string(l.Entity), entity) {
			return false
		}
		return op == "" || strings.EqualFold(string(l.OperationType), op)
	})
	s.mu.Unlock()
	writeHAL(w, "logDTOList", items, p)
}

func (s *Server) recentLogs(w http.ResponseWriter, r *http.Request) {
	p := readPage(r)
	s.mu.Lock()
	items := s.logsLocked(func(domain.Log) bool { return true })
	s.mu.Unlock()
	if len(items) == 0 {
		writeError(w, r, http.StatusNotFound, "Nenhum log recente encontrado.")
		return
	}
	writeHAL(w, "logDTOList", items, p)
}

func (s *Server) logsLocked(keep func(domain.Log) bool) []domain.Log {
	var out []domain.Log
	for i := len(s.logs) - 1; i >= 0; i-- {
		if keep(s.logs[i]) {
			out = append(out, s.logs[i])
		}
	}
	return out
}
