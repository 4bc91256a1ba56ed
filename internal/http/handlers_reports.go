package http

import (
	"net/http"
	"strconv"
	"strings"

	"tally/internal/core"
)

const defaultSeriesMonths = 6

// handleSummary serves the dashboard summary for the month given by the
// optional "month" parameter (2006-01), defaulting to the current one.
// The balance it reports is net of that month, not cumulative.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	asOf := core.Today()
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		month, err := core.ParseYearMonth(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid month")
			return
		}
		asOf = core.NewDate(month.Year, int(month.Month), 1)
	}

	summary, err := s.reports.DashboardSummary(r.Context(), ownerID(r), asOf)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// handleExpensesByCategory requires both range bounds.
func (s *Server) handleExpensesByCategory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	query := r.URL.Query()
	start, err := core.ParseDate(strings.TrimSpace(query.Get("start")))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid or missing start date")
		return
	}
	end, err := core.ParseDate(strings.TrimSpace(query.Get("end")))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid or missing end date")
		return
	}

	totals, err := s.reports.ExpensesByCategory(r.Context(), ownerID(r), start, end)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (s *Server) handleIncomeVsExpenses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	months := defaultSeriesMonths
	if v := strings.TrimSpace(r.URL.Query().Get("months")); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "invalid month count")
			return
		}
		months = parsed
	}

	series, err := s.reports.IncomeVsExpenses(r.Context(), ownerID(r), months)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, series)
}
