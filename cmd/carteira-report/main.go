// Command carteira-report prints a plain-text summary of the stored data:
// account balance, monthly income/expense flows and the top expense
// categories. It opens the same backend the server uses, read-only in
// spirit: it never writes.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"

	"carteira/assets"
	"carteira/internal/backend"
	"carteira/internal/config"
	"carteira/internal/core"
	"carteira/internal/store"
)

func main() {
	months := flag.Int("months", 6, "how many calendar months to report")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}

	if err := report(cfg, *months, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "report failed:", err)
		os.Exit(1)
	}
}

func report(cfg *config.Config, months int, out io.Writer) error {
	res, err := backend.Open(backend.Config{
		Type:         backend.Type(cfg.DataBackend),
		BoltDBPath:   cfg.BoltDBPath,
		SQLiteDBPath: cfg.SQLiteDBPath,
	})
	if err != nil {
		return err
	}
	defer res.Cleanup()

	seed, err := assets.DefaultDataset()
	if err != nil {
		return err
	}
	st := store.New(res.Store, store.Seed{Account: seed.Account, Transactions: seed.Transactions})

	acc := st.Account()
	txs := st.Transactions()

	fmt.Fprintf(out, "Conta %s - %s\n", acc.AccountNumber, acc.AccountHolder)
	fmt.Fprintf(out, "Saldo: %s (%d transações)\n\n", acc.Balance, len(txs))

	fmt.Fprintln(out, "Fluxo mensal:")
	for _, flow := range core.MonthlyFlows(txs, time.Now(), months) {
		net := core.Money{Cents: flow.Income.Cents - flow.Expense.Cents}
		fmt.Fprintf(out, "  %04d-%02d  entradas %-14s saídas %-14s líquido %s\n",
			flow.Year, flow.Month, flow.Income, flow.Expense, net)
	}

	fmt.Fprintln(out, "\nDespesas por categoria:")
	for _, cat := range core.ExpensesByCategory(txs) {
		fmt.Fprintf(out, "  %-30s %s\n", cat.Name, cat.Amount)
	}
	return nil
}
