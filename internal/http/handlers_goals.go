package http

import (
	"net/http"
	"strings"

	"tally/internal/core"
)

func (s *Server) handleGoals(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		goals, err := s.ledger.ListGoals(r.Context(), ownerID(r))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		if goals == nil {
			goals = []core.Goal{}
		}
		writeJSON(w, http.StatusOK, goals)
	case http.MethodPost:
		var g core.Goal
		if !decodeBody(w, r, &g) {
			return
		}
		// Saved amounts start where the request says, default zero;
		// they only move through explicit add-funds calls afterwards.
		created, err := s.ledger.CreateGoal(r.Context(), ownerID(r), g)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

type addFundsRequest struct {
	Amount core.Money `json:"amount"`
}

func (s *Server) handleGoalByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/goals/")
	if fundsPath, ok := strings.CutSuffix(rest, "/funds"); ok {
		r.URL.Path = "/api/goals/" + fundsPath
		s.handleGoalFunds(w, r)
		return
	}

	id, ok := pathID(w, r, "/api/goals/")
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodPut:
		var patch core.GoalPatch
		if !decodeBody(w, r, &patch) {
			return
		}
		updated, err := s.ledger.UpdateGoal(r.Context(), ownerID(r), id, patch)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		deleted, err := s.ledger.DeleteGoal(r.Context(), ownerID(r), id)
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

func (s *Server) handleGoalFunds(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	id, ok := pathID(w, r, "/api/goals/")
	if !ok {
		return
	}

	var req addFundsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	updated, err := s.ledger.AddGoalFunds(r.Context(), ownerID(r), id, req.Amount)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
