package http

import (
	"net/http"

	"tally/internal/core"
)

func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		budgets, err := s.ledger.ListBudgets(r.Context(), ownerID(r))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		if budgets == nil {
			budgets = []core.Budget{}
		}
		writeJSON(w, http.StatusOK, budgets)
	case http.MethodPost:
		var b core.Budget
		if !decodeBody(w, r, &b) {
			return
		}
		created, err := s.ledger.CreateBudget(r.Context(), ownerID(r), b)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleBudgetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "/api/budgets/")
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodPut:
		var patch core.BudgetPatch
		if !decodeBody(w, r, &patch) {
			return
		}
		updated, err := s.ledger.UpdateBudget(r.Context(), ownerID(r), id, patch)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		deleted, err := s.ledger.DeleteBudget(r.Context(), ownerID(r), id)
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
