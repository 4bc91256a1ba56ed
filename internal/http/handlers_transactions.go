package http

import (
	"net/http"
	"strconv"
	"strings"

	"tally/internal/core"
)

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTransactions(w, r)
	case http.MethodPost:
		s.createTransaction(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseTransactionFilter(w, r)
	if !ok {
		return
	}

	entries, err := s.ledger.ListTransactions(r.Context(), ownerID(r), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if entries == nil {
		entries = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// parseTransactionFilter reads the optional start/end/category/kind
// query parameters. A malformed value is a 400, never silently ignored.
func parseTransactionFilter(w http.ResponseWriter, r *http.Request) (core.TransactionFilter, bool) {
	var filter core.TransactionFilter
	query := r.URL.Query()

	if v := strings.TrimSpace(query.Get("start")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid start date")
			return filter, false
		}
		filter.Start = &d
	}
	if v := strings.TrimSpace(query.Get("end")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid end date")
			return filter, false
		}
		filter.End = &d
	}
	if v := strings.TrimSpace(query.Get("category")); v != "" {
		category := core.Category(v)
		if !category.Valid() {
			writeError(w, http.StatusBadRequest, "invalid category")
			return filter, false
		}
		filter.Category = &category
	}
	if v := strings.TrimSpace(query.Get("kind")); v != "" {
		kind := core.Kind(v)
		if !kind.Valid() {
			writeError(w, http.StatusBadRequest, "invalid kind")
			return filter, false
		}
		filter.Kind = &kind
	}
	return filter, true
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var t core.Transaction
	if !decodeBody(w, r, &t) {
		return
	}

	created, err := s.ledger.CreateTransaction(r.Context(), ownerID(r), t)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "/api/transactions/")
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodPut:
		var patch core.TransactionPatch
		if !decodeBody(w, r, &patch) {
			return
		}
		updated, err := s.ledger.UpdateTransaction(r.Context(), ownerID(r), id, patch)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		deleted, err := s.ledger.DeleteTransaction(r.Context(), ownerID(r), id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		if !deleted {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, "PUT, DELETE")
	}
}

// pathID parses the numeric id following prefix.
func pathID(w http.ResponseWriter, r *http.Request, prefix string) (int64, bool) {
	raw := strings.TrimPrefix(r.URL.Path, prefix)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusNotFound, "not found")
		return 0, false
	}
	return id, true
}
