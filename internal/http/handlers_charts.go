package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"carteira/internal/core"
)

// Chart endpoints aggregate over the canonical (unfiltered) list. Results are
// cached per parameter set; any store mutation purges all three caches.

func (s *Server) handleMonthlyBalance(w http.ResponseWriter, r *http.Request) {
	months := s.chartMonths
	if v := r.URL.Query().Get("months"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 24 {
			writeJSONError(w, http.StatusBadRequest, "invalid_months", "months must be between 1 and 24")
			return
		}
		months = n
	}

	now := time.Now()
	key := fmt.Sprintf("flows:%d:%s", months, now.Format("2006-01"))
	flows, ok := s.flowCache.Get(key)
	if !ok {
		flows = core.MonthlyFlows(s.store.Transactions(), now, months)
		s.flowCache.Set(key, flows)
	}
	writeJSON(w, http.StatusOK, map[string]any{"months": flows})
}

func (s *Server) handleExpensesByCategory(w http.ResponseWriter, r *http.Request) {
	const key = "categories"
	cats, ok := s.catCache.Get(key)
	if !ok {
		cats = core.ExpensesByCategory(s.store.Transactions())
		s.catCache.Set(key, cats)
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": cats})
}

func (s *Server) handleBalanceTrend(w http.ResponseWriter, r *http.Request) {
	points := s.trendPoints
	if v := r.URL.Query().Get("points"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 365 {
			writeJSONError(w, http.StatusBadRequest, "invalid_points", "points must be between 1 and 365")
			return
		}
		points = n
	}

	key := "trend:" + strconv.Itoa(points)
	trend, ok := s.trendCache.Get(key)
	if !ok {
		trend = core.BalanceTrend(s.store.Transactions(), points)
		s.trendCache.Set(key, trend)
	}
	writeJSON(w, http.StatusOK, map[string]any{"points": trend})
}
