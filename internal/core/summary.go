package core

import (
	"sort"
	"time"
)

// UncategorizedLabel groups expenses that carry no category.
const UncategorizedLabel = "Sem categoria"

type (
	// MonthFlow is income vs expense for one calendar month. Expense is
	// reported as a positive magnitude.
	MonthFlow struct {
		Year    int   `json:"year"`
		Month   int   `json:"month"` // 1-12
		Income  Money `json:"income"`
		Expense Money `json:"expense"`
	}

	// CategoryAmount represents an expense magnitude aggregated by category.
	CategoryAmount struct {
		Name   string `json:"name"`
		Amount Money  `json:"amount"`
	}

	// BalancePoint is the running balance after applying a transaction.
	BalancePoint struct {
		Date    time.Time `json:"date"`
		Balance Money     `json:"balance"`
	}
)

// MonthlyFlows returns income/expense pairs for the `months` calendar months
// ending at `now`, oldest first.
func MonthlyFlows(txs []Transaction, now time.Time, months int) []MonthFlow {
	flows := make([]MonthFlow, 0, months)
	for i := months - 1; i >= 0; i-- {
		ref := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
		flow := MonthFlow{Year: ref.Year(), Month: int(ref.Month())}
		for _, tx := range txs {
			if tx.Date.Year() != ref.Year() || tx.Date.Month() != ref.Month() {
				continue
			}
			if tx.Amount.Cents > 0 {
				flow.Income.Cents += tx.Amount.Cents
			} else {
				flow.Expense.Cents += -tx.Amount.Cents
			}
		}
		flows = append(flows, flow)
	}
	return flows
}

// ExpensesByCategory aggregates outflow magnitudes per category, largest
// first. Transactions without a category fall under UncategorizedLabel.
func ExpensesByCategory(txs []Transaction) []CategoryAmount {
	sums := map[string]int64{}
	for _, tx := range txs {
		if tx.Amount.Cents >= 0 {
			continue
		}
		name := tx.Category
		if name == "" {
			name = UncategorizedLabel
		}
		sums[name] += -tx.Amount.Cents
	}
	out := make([]CategoryAmount, 0, len(sums))
	for name, cents := range sums {
		out = append(out, CategoryAmount{Name: name, Amount: Money{Cents: cents}})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// BalanceTrend replays transactions in date order and returns the cumulative
// balance after each one, keeping only the last `limit` points (0 = all).
func BalanceTrend(txs []Transaction, limit int) []BalancePoint {
	ordered := make([]Transaction, len(txs))
	copy(ordered, txs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	points := make([]BalancePoint, 0, len(ordered))
	var running int64
	for _, tx := range ordered {
		running += tx.Amount.Cents
		points = append(points, BalancePoint{Date: tx.Date, Balance: Money{Cents: running}})
	}
	if limit > 0 && len(points) > limit {
		points = points[len(points)-limit:]
	}
	return points
}
