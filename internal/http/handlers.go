package http

import (
	"net/http"
	"time"

	"tally/internal/core"
)

// handleHealth performs a basic liveness check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleProfile upserts the caller's profile. The id always comes from
// the resolved owner, never from the body.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		methodNotAllowed(w, "PUT")
		return
	}

	var profile core.OwnerProfile
	if !decodeBody(w, r, &profile) {
		return
	}
	profile.ID = ownerID(r)

	saved, err := s.ledger.UpsertOwnerProfile(r.Context(), profile)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}
