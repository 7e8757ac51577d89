package core

import (
	"sort"
	"strings"
)

const (
	SortByDate   SortField = "date"
	SortByAmount SortField = "amount"

	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

type (
	SortField string
	SortOrder string

	// Filter holds the full filter/sort state the pipeline runs with. Zero
	// values pass everything through: empty search matches all, empty type and
	// category filters match all.
	Filter struct {
		SearchTerm string
		Type       TransactionType
		Category   string
		SortBy     SortField
		SortOrder  SortOrder
	}
)

// DefaultFilter returns the documented defaults: no search term, no type or
// category filter, sort by date descending.
func DefaultFilter() Filter {
	return Filter{SortBy: SortByDate, SortOrder: Descending}
}

// ApplyPipeline runs the fixed composition search -> type -> category -> sort
// over txs and returns a new slice; the input is never mutated. The three
// filters are conjunctive, so only the sort position matters. Sorting is
// stable: transactions with equal keys keep their relative order.
func ApplyPipeline(txs []Transaction, f Filter) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if matchesSearch(tx, f.SearchTerm) && matchesType(tx, f.Type) && matchesCategory(tx, f.Category) {
			out = append(out, tx)
		}
	}
	sortTransactions(out, f.SortBy, f.SortOrder)
	return out
}

// matchesSearch does a case-insensitive substring match against description,
// category and type. An empty term matches everything.
func matchesSearch(tx Transaction, term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	if strings.Contains(strings.ToLower(tx.Description), term) {
		return true
	}
	if tx.Category != "" && strings.Contains(strings.ToLower(tx.Category), term) {
		return true
	}
	return strings.Contains(strings.ToLower(string(tx.Type)), term)
}

func matchesType(tx Transaction, t TransactionType) bool {
	return t == "" || tx.Type == t
}

func matchesCategory(tx Transaction, category string) bool {
	return category == "" || tx.Category == category
}

func sortTransactions(txs []Transaction, by SortField, order SortOrder) {
	less := func(a, b Transaction) bool {
		if by == SortByAmount {
			return a.Amount.Cents < b.Amount.Cents
		}
		return a.Date.Before(b.Date)
	}
	sort.SliceStable(txs, func(i, j int) bool {
		if order == Ascending {
			return less(txs[i], txs[j])
		}
		return less(txs[j], txs[i])
	})
}
