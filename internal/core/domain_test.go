package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func validDeposit() Transaction {
	return Transaction{
		Type:        Deposit,
		Amount:      Money{Cents: 10000},
		Date:        time.Now().Add(-time.Hour),
		Description: "Salário mensal",
		Category:    "Salário",
	}
}

func TestTransactionValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Transaction)
		wantErr error
	}{
		{"valid deposit", func(tx *Transaction) {}, nil},
		{"valid payment", func(tx *Transaction) {
			tx.Type = Payment
			tx.Amount.Cents = -3000
		}, nil},
		{"unknown type", func(tx *Transaction) { tx.Type = "pix" }, ErrInvalidType},
		{"negative deposit", func(tx *Transaction) { tx.Amount.Cents = -100 }, ErrAmountSign},
		{"positive withdrawal", func(tx *Transaction) {
			tx.Type = Withdrawal
			tx.Amount.Cents = 100
		}, ErrAmountSign},
		{"future date", func(tx *Transaction) { tx.Date = time.Now().Add(24 * time.Hour) }, ErrFutureDate},
		{"zero date", func(tx *Transaction) { tx.Date = time.Time{} }, ErrZeroDate},
		{"short description", func(tx *Transaction) { tx.Description = "ab" }, ErrShortDescription},
		{"whitespace description", func(tx *Transaction) { tx.Description = "  a  " }, ErrShortDescription},
		{"long description", func(tx *Transaction) { tx.Description = strings.Repeat("x", 101) }, ErrLongDescription},
		{"max description ok", func(tx *Transaction) { tx.Description = strings.Repeat("x", 100) }, nil},
		{"long category", func(tx *Transaction) { tx.Category = strings.Repeat("c", 51) }, ErrLongCategory},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := validDeposit()
			tc.mutate(&tx)
			err := tx.Validate()
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestTotalBalance(t *testing.T) {
	txs := []Transaction{
		{Amount: Money{Cents: 10000}},
		{Amount: Money{Cents: -3000}},
		{Amount: Money{Cents: -2500}},
	}
	if got := TotalBalance(txs); got.Cents != 4500 {
		t.Fatalf("TotalBalance = %d, want 4500", got.Cents)
	}
	if got := TotalBalance(nil); got.Cents != 0 {
		t.Fatalf("TotalBalance(nil) = %d, want 0", got.Cents)
	}
}
