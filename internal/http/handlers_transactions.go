package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"carteira/internal/core"
	"carteira/internal/store"
)

// transactionRequest is the wire shape for create and update. Amount arrives
// as a decimal string ("1500,00" or "-42.50") so clients never handle cents
// arithmetic; the sign must already match the transaction type.
type transactionRequest struct {
	Type        *string `json:"type"`
	Amount      *string `json:"amount"`
	Date        *string `json:"date"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
}

type transactionListResponse struct {
	Transactions []core.Transaction `json:"transactions"`
	Total        int                `json:"total"`
	Limit        int                `json:"limit"`
	Offset       int                `json:"offset"`
}

func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Account())
}

// handleListTransactions serves the filtered, sorted view. Query params
// (search, type, category, sort_by, sort_order) replace the stored filter
// state when any is present; limit/offset paginate the result.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Has("search") || q.Has("type") || q.Has("category") || q.Has("sort_by") || q.Has("sort_order") {
		f := core.DefaultFilter()
		f.SearchTerm = sanitizeInput(q.Get("search"))
		f.Category = sanitizeInput(q.Get("category"))
		if t := q.Get("type"); t != "" {
			typ := core.TransactionType(t)
			if !typ.IsValid() {
				writeJSONError(w, http.StatusBadRequest, "invalid_type", "Unknown transaction type: "+t)
				return
			}
			f.Type = typ
		}
		if by := q.Get("sort_by"); by != "" {
			switch core.SortField(by) {
			case core.SortByDate, core.SortByAmount:
				f.SortBy = core.SortField(by)
			default:
				writeJSONError(w, http.StatusBadRequest, "invalid_sort", "Unknown sort field: "+by)
				return
			}
		}
		if ord := q.Get("sort_order"); ord != "" {
			switch core.SortOrder(ord) {
			case core.Ascending, core.Descending:
				f.SortOrder = core.SortOrder(ord)
			default:
				writeJSONError(w, http.StatusBadRequest, "invalid_sort", "Unknown sort order: "+ord)
				return
			}
		}
		s.store.SetFilter(f)
	}

	view := s.store.View()
	limit, offset := parsePage(r)
	total := len(view)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	writeJSON(w, http.StatusOK, transactionListResponse{
		Transactions: view[offset:end],
		Total:        total,
		Limit:        limit,
		Offset:       offset,
	})
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_json", "Request body is not valid JSON")
		return
	}
	tx, err := req.toTransaction(core.Transaction{Date: time.Now()})
	if err != nil {
		writeValidationError(w, err)
		return
	}
	if err := tx.Validate(); err != nil {
		writeValidationError(w, err)
		return
	}
	created := s.store.Add(tx)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, ok := s.store.GetByID(r.PathValue("id"))
	if !ok {
		writeJSONError(w, http.StatusNotFound, "not_found", "Transaction not found")
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

// handleUpdateTransaction merges the request onto the existing record and
// validates the merged result before committing, so a partial update can
// never leave an invalid transaction behind.
func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	existing, ok := s.store.GetByID(id)
	if !ok {
		writeJSONError(w, http.StatusNotFound, "not_found", "Transaction not found")
		return
	}

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_json", "Request body is not valid JSON")
		return
	}
	merged, err := req.toTransaction(existing)
	if err != nil {
		writeValidationError(w, err)
		return
	}
	if err := merged.Validate(); err != nil {
		writeValidationError(w, err)
		return
	}

	patch := store.Patch{
		Type:        &merged.Type,
		Amount:      &merged.Amount,
		Date:        &merged.Date,
		Description: &merged.Description,
		Category:    &merged.Category,
	}
	updated, ok := s.store.Update(id, patch)
	if !ok {
		writeJSONError(w, http.StatusNotFound, "not_found", "Transaction not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if !s.store.Delete(r.PathValue("id")) {
		writeJSONError(w, http.StatusNotFound, "not_found", "Transaction not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResetFilters(w http.ResponseWriter, r *http.Request) {
	s.store.ResetFilters()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.store.ResetToInitialData()
	writeJSON(w, http.StatusOK, s.store.Account())
}

// toTransaction overlays the set request fields onto base. Strings are
// sanitized; the amount is parsed from decimal notation; dates accept
// RFC 3339 or plain YYYY-MM-DD.
func (req transactionRequest) toTransaction(base core.Transaction) (core.Transaction, error) {
	if req.Type != nil {
		base.Type = core.TransactionType(strings.TrimSpace(*req.Type))
	}
	if req.Amount != nil {
		cents, err := core.ParseDecimalToCents(*req.Amount)
		if err != nil {
			return core.Transaction{}, err
		}
		base.Amount = core.Money{Cents: cents}
	}
	if req.Date != nil {
		d, err := parseDate(*req.Date)
		if err != nil {
			return core.Transaction{}, core.ErrZeroDate
		}
		base.Date = d
	}
	if req.Description != nil {
		base.Description = sanitizeInput(*req.Description)
	}
	if req.Category != nil {
		base.Category = sanitizeInput(*req.Category)
	}
	return base, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if d, err := time.Parse(time.RFC3339, s); err == nil {
		return d, nil
	}
	return time.Parse("2006-01-02", s)
}
