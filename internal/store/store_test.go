package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"carteira/internal/core"
	"carteira/internal/storage"
)

func seedData() Seed {
	return Seed{
		Account: core.Account{AccountNumber: "12345-6", AccountHolder: "João Silva"},
		Transactions: []core.Transaction{
			{ID: "seed-1", Type: core.Deposit, Amount: core.Money{Cents: 50000}, Date: date(1), Description: "Salário"},
			{ID: "seed-2", Type: core.Payment, Amount: core.Money{Cents: -12000}, Date: date(3), Description: "Conta de luz", Category: "Moradia"},
		},
	}
}

func date(d int) time.Time {
	return time.Date(2025, 7, d, 10, 0, 0, 0, time.UTC)
}

func newTestStore(t *testing.T) (*Store, *storage.MemoryStore) {
	t.Helper()
	kv := storage.NewMemoryStore()
	return New(kv, seedData()), kv
}

func checkBalance(t *testing.T, s *Store) {
	t.Helper()
	var want int64
	for _, tx := range s.Transactions() {
		want += tx.Amount.Cents
	}
	if got := s.Account().Balance.Cents; got != want {
		t.Fatalf("balance invariant broken: account=%d, sum=%d", got, want)
	}
}

func TestNewLoadsSeedAndDerivesBalance(t *testing.T) {
	s, _ := newTestStore(t)
	if got := len(s.Transactions()); got != 2 {
		t.Fatalf("expected 2 seed transactions, got %d", got)
	}
	if got := s.Account().Balance.Cents; got != 38000 {
		t.Fatalf("derived balance = %d, want 38000", got)
	}
	if s.Account().AccountHolder != "João Silva" {
		t.Fatalf("account metadata lost: %+v", s.Account())
	}
}

func TestAddScenario(t *testing.T) {
	kv := storage.NewMemoryStore()
	s := New(kv, Seed{Account: core.Account{AccountNumber: "1-1"}})

	first := s.Add(core.Transaction{Type: core.Deposit, Amount: core.Money{Cents: 10000}, Date: date(1), Description: "Depósito inicial"})
	if first.ID == "" {
		t.Fatal("Add must assign an ID")
	}
	if got := s.Account().Balance.Cents; got != 10000 {
		t.Fatalf("balance after deposit = %d, want 10000", got)
	}
	if got := len(s.Transactions()); got != 1 {
		t.Fatalf("list length = %d, want 1", got)
	}

	second := s.Add(core.Transaction{Type: core.Payment, Amount: core.Money{Cents: -3000}, Date: date(2), Description: "Pagamento conta"})
	if got := s.Account().Balance.Cents; got != 7000 {
		t.Fatalf("balance after payment = %d, want 7000", got)
	}
	txs := s.Transactions()
	if len(txs) != 2 || txs[0].ID != second.ID || txs[1].ID != first.ID {
		t.Fatalf("insertion order not most-recent-first: %v, %v", txs[0].ID, txs[1].ID)
	}

	if !s.Delete(first.ID) {
		t.Fatal("delete of existing transaction reported not found")
	}
	if got := s.Account().Balance.Cents; got != -3000 {
		t.Fatalf("balance after delete = %d, want -3000", got)
	}
	if got := len(s.Transactions()); got != 1 {
		t.Fatalf("list length after delete = %d, want 1", got)
	}
	checkBalance(t, s)
}

func TestAddAssignsUniqueIDs(t *testing.T) {
	s, _ := newTestStore(t)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		tx := s.Add(core.Transaction{Type: core.Deposit, Amount: core.Money{Cents: 1}, Date: date(1), Description: "rapid add"})
		if seen[tx.ID] {
			t.Fatalf("duplicate id after %d adds: %s", i, tx.ID)
		}
		seen[tx.ID] = true
	}
}

func TestUpdateMergeSemantics(t *testing.T) {
	s, _ := newTestStore(t)

	newAmount := core.Money{Cents: -9900}
	got, ok := s.Update("seed-2", Patch{Amount: &newAmount})
	if !ok {
		t.Fatal("update reported not found")
	}
	if got.Amount.Cents != -9900 {
		t.Fatalf("amount not patched: %d", got.Amount.Cents)
	}
	// unspecified fields retained
	if got.Description != "Conta de luz" || got.Category != "Moradia" || got.Type != core.Payment {
		t.Fatalf("unpatched fields changed: %+v", got)
	}
	checkBalance(t, s)

	desc := "Conta de luz (ajustada)"
	cat := ""
	got, _ = s.Update("seed-2", Patch{Description: &desc, Category: &cat})
	if got.Description != desc || got.Category != "" {
		t.Fatalf("explicit patch fields not applied: %+v", got)
	}
}

func TestUpdateDeleteUnknownIDAreNoOps(t *testing.T) {
	s, _ := newTestStore(t)
	before := s.Transactions()

	if _, ok := s.Update("nope", Patch{}); ok {
		t.Fatal("update of unknown id reported found")
	}
	if s.Delete("nope") {
		t.Fatal("delete of unknown id reported found")
	}
	after := s.Transactions()
	if len(before) != len(after) {
		t.Fatalf("no-op mutated the list: %d -> %d", len(before), len(after))
	}
	checkBalance(t, s)
}

func TestGetByID(t *testing.T) {
	s, _ := newTestStore(t)
	tx, ok := s.GetByID("seed-1")
	if !ok || tx.Description != "Salário" {
		t.Fatalf("GetByID seed-1: ok=%v tx=%+v", ok, tx)
	}
	if _, ok := s.GetByID("missing"); ok {
		t.Fatal("GetByID of unknown id reported found")
	}
}

func TestFilterTypeScenario(t *testing.T) {
	s, _ := newTestStore(t)
	s.Add(core.Transaction{Type: core.Withdrawal, Amount: core.Money{Cents: -5000}, Date: date(5), Description: "Saque emergência"})

	s.SetFilterType(core.Withdrawal)
	view := s.View()
	if len(view) != 1 || view[0].Type != core.Withdrawal {
		t.Fatalf("saque filter: got %d items", len(view))
	}

	s.SetFilterType("")
	if got := len(s.View()); got != 3 {
		t.Fatalf("cleared filter should restore full list: got %d, want 3", got)
	}
}

func TestFilterSettersAndReset(t *testing.T) {
	s, _ := newTestStore(t)
	s.SetSearchTerm("luz")
	s.SetSortBy(core.SortByAmount)
	s.SetSortOrder(core.Ascending)
	if got := len(s.View()); got != 1 {
		t.Fatalf("search view = %d items, want 1", got)
	}

	s.ResetFilters()
	f := s.Filter()
	if f.SearchTerm != "" || f.Type != "" || f.Category != "" || f.SortBy != core.SortByDate || f.SortOrder != core.Descending {
		t.Fatalf("ResetFilters did not restore defaults: %+v", f)
	}
	if got := len(s.View()); got != 2 {
		t.Fatalf("view after reset = %d items, want 2", got)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	kv := storage.NewMemoryStore()
	s := New(kv, seedData())
	added := s.Add(core.Transaction{Type: core.Deposit, Amount: core.Money{Cents: 7700}, Date: date(9), Description: "Reembolso viagem", Category: "Viagem"})

	// fresh session over the same collaborator
	s2 := New(kv, seedData())
	txs := s2.Transactions()
	if len(txs) != 3 {
		t.Fatalf("reloaded list has %d items, want 3", len(txs))
	}
	got, ok := s2.GetByID(added.ID)
	if !ok {
		t.Fatalf("added transaction lost across sessions")
	}
	if got.Description != added.Description || got.Amount != added.Amount || !got.Date.Equal(added.Date) {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, added)
	}
	checkBalance(t, s2)
}

func TestLoadFallsBackOnCorruptBlob(t *testing.T) {
	kv := storage.NewMemoryStore()
	ctx := context.Background()
	if err := kv.Set(ctx, storage.KeyTransactions, []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	s := New(kv, seedData())
	if got := len(s.Transactions()); got != 2 {
		t.Fatalf("corrupt blob should fall back to seed: got %d items", got)
	}
	checkBalance(t, s)
}

func TestResetIdempotence(t *testing.T) {
	kv := storage.NewMemoryStore()
	s := New(kv, seedData())
	s.Add(core.Transaction{Type: core.Payment, Amount: core.Money{Cents: -100}, Date: date(2), Description: "Cafezinho"})
	s.Delete("seed-1")

	s.ResetToInitialData()
	first := s.Transactions()
	s.ResetToInitialData()
	second := s.Transactions()

	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("reset did not restore seed: %d, %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("reset not idempotent at %d: %s vs %s", i, first[i].ID, second[i].ID)
		}
	}
	// storage keys cleared
	if _, err := kv.Get(context.Background(), storage.KeyTransactions); err != storage.ErrNotFound {
		t.Fatalf("transactions key not cleared: %v", err)
	}
	if _, err := kv.Get(context.Background(), storage.KeyAccount); err != storage.ErrNotFound {
		t.Fatalf("account key not cleared: %v", err)
	}
	checkBalance(t, s)
}

func TestAddAttachment(t *testing.T) {
	s, kv := newTestStore(t)
	att := core.Attachment{
		ID:         "att-1",
		Name:       "recibo.pdf",
		URL:        "/uploads/recibo.pdf",
		Type:       "application/pdf",
		Size:       1024,
		UploadedAt: date(4),
	}
	got, ok := s.AddAttachment("seed-2", att)
	if !ok || len(got.Attachments) != 1 || got.Attachments[0].ID != "att-1" {
		t.Fatalf("attachment not appended: ok=%v %+v", ok, got.Attachments)
	}
	if _, ok := s.AddAttachment("missing", att); ok {
		t.Fatal("attachment to unknown transaction reported found")
	}

	// persisted with the owning transaction
	raw, err := kv.Get(context.Background(), storage.KeyTransactions)
	if err != nil {
		t.Fatalf("persisted blob missing: %v", err)
	}
	var txs []core.Transaction
	if err := json.Unmarshal(raw, &txs); err != nil {
		t.Fatalf("persisted blob corrupt: %v", err)
	}
	found := false
	for _, tx := range txs {
		if tx.ID == "seed-2" && len(tx.Attachments) == 1 {
			found = true
		}
	}
	if !found {
		t.Fatal("attachment not written through")
	}
}

func TestSubscribeSignalsOnChange(t *testing.T) {
	s, _ := newTestStore(t)
	ch := s.Subscribe()
	defer s.Unsubscribe(ch)

	s.Add(core.Transaction{Type: core.Deposit, Amount: core.Money{Cents: 100}, Date: date(1), Description: "Teste sinal"})
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("no signal after Add")
	}

	s.SetSearchTerm("teste")
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("no signal after filter change")
	}
}

func TestBalanceInvariantAcrossOperationSequence(t *testing.T) {
	s, _ := newTestStore(t)
	checkBalance(t, s)

	tx := s.Add(core.Transaction{Type: core.Deposit, Amount: core.Money{Cents: 31337}, Date: date(6), Description: "Venda usados"})
	checkBalance(t, s)

	amt := core.Money{Cents: 11111}
	s.Update(tx.ID, Patch{Amount: &amt})
	checkBalance(t, s)

	s.Delete("seed-1")
	checkBalance(t, s)

	s.Delete(tx.ID)
	checkBalance(t, s)

	s.ResetToInitialData()
	checkBalance(t, s)
}
