// Package store owns the canonical transaction list and account. All
// mutations go through it: each one recomputes the derived balance, reruns
// the filter/sort pipeline and writes through to the storage collaborator
// before returning.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"carteira/internal/core"
	"carteira/internal/storage"
)

// Seed is the bundled dataset restored on first run and on reset.
type Seed struct {
	Account      core.Account
	Transactions []core.Transaction
}

// Patch lists the transaction fields an update may touch. Nil fields are
// retained from the existing record (merge semantics).
type Patch struct {
	Type        *core.TransactionType
	Amount      *core.Money
	Date        *time.Time
	Description *string
	Category    *string
	Attachments *[]core.Attachment
}

func (p Patch) apply(tx core.Transaction) core.Transaction {
	if p.Type != nil {
		tx.Type = *p.Type
	}
	if p.Amount != nil {
		tx.Amount = *p.Amount
	}
	if p.Date != nil {
		tx.Date = *p.Date
	}
	if p.Description != nil {
		tx.Description = *p.Description
	}
	if p.Category != nil {
		tx.Category = *p.Category
	}
	if p.Attachments != nil {
		tx.Attachments = append([]core.Attachment(nil), (*p.Attachments)...)
	}
	return tx
}

// Store is a constructed state container; tests instantiate isolated
// instances against an in-memory KeyValue. Operations are synchronous and
// atomic from the caller's perspective.
type Store struct {
	mu   sync.Mutex
	kv   storage.KeyValue
	seed Seed

	account core.Account
	txs     []core.Transaction
	filter  core.Filter
	view    []core.Transaction

	subs []chan struct{}
}

// New loads persisted state from kv, falling back to the seed dataset when a
// key is missing or the blob does not decode. The balance is always
// recomputed from the loaded list, never trusted from storage.
func New(kv storage.KeyValue, seed Seed) *Store {
	s := &Store{kv: kv, seed: seed, filter: core.DefaultFilter()}
	s.load()
	s.refreshLocked()
	return s
}

func (s *Store) load() {
	ctx := context.Background()

	s.txs = append([]core.Transaction(nil), s.seed.Transactions...)
	raw, err := s.kv.Get(ctx, storage.KeyTransactions)
	switch {
	case err == nil:
		var txs []core.Transaction
		if uerr := json.Unmarshal(raw, &txs); uerr != nil {
			slog.Warn("Corrupt transactions blob, using bundled defaults", "error", uerr)
		} else {
			s.txs = txs
		}
	case errors.Is(err, storage.ErrNotFound):
		// first run
	default:
		slog.Warn("Failed reading transactions, using bundled defaults", "error", err)
	}

	s.account = s.seed.Account
	raw, err = s.kv.Get(ctx, storage.KeyAccount)
	switch {
	case err == nil:
		var acc core.Account
		if uerr := json.Unmarshal(raw, &acc); uerr != nil {
			slog.Warn("Corrupt account blob, using bundled defaults", "error", uerr)
		} else {
			s.account = acc
		}
	case errors.Is(err, storage.ErrNotFound):
	default:
		slog.Warn("Failed reading account, using bundled defaults", "error", err)
	}
}

// refreshLocked recomputes the balance and reruns the pipeline. Callers hold
// the mutex.
func (s *Store) refreshLocked() {
	s.account.Balance = core.TotalBalance(s.txs)
	s.view = core.ApplyPipeline(s.txs, s.filter)
}

// persistLocked writes both blobs through to the collaborator. Failures are
// logged and swallowed: the in-memory state stays authoritative and there are
// no retries.
func (s *Store) persistLocked() {
	ctx := context.Background()
	if raw, err := json.Marshal(s.txs); err != nil {
		slog.Error("Marshal transactions failed", "error", err)
	} else if err := s.kv.Set(ctx, storage.KeyTransactions, raw); err != nil {
		slog.Error("Persist transactions failed", "error", err, "count", len(s.txs))
	}
	if raw, err := json.Marshal(s.account); err != nil {
		slog.Error("Marshal account failed", "error", err)
	} else if err := s.kv.Set(ctx, storage.KeyAccount, raw); err != nil {
		slog.Error("Persist account failed", "error", err)
	}
}

func (s *Store) notify() {
	s.mu.Lock()
	subs := append([]chan struct{}(nil), s.subs...)
	s.mu.Unlock()
	for _, ch := range subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Add assigns a fresh ID, prepends the transaction (most-recent-first
// insertion order) and persists. The store performs no validation; that is
// the caller's boundary.
func (s *Store) Add(tx core.Transaction) core.Transaction {
	s.mu.Lock()
	tx.ID = uuid.NewString()
	s.txs = append([]core.Transaction{tx}, s.txs...)
	s.refreshLocked()
	s.persistLocked()
	s.mu.Unlock()

	slog.Info("Transaction added", "id", tx.ID, "type", tx.Type, "amount_cents", tx.Amount.Cents)
	s.notify()
	return tx
}

// Update merges patch into the matching record. Unknown IDs are a silent
// no-op, reported through the bool.
func (s *Store) Update(id string, patch Patch) (core.Transaction, bool) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return core.Transaction{}, false
	}
	s.txs[idx] = patch.apply(s.txs[idx])
	updated := s.txs[idx]
	s.refreshLocked()
	s.persistLocked()
	s.mu.Unlock()

	slog.Info("Transaction updated", "id", id)
	s.notify()
	return updated, true
}

// Delete removes the matching record; unknown IDs are a silent no-op.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.txs = append(s.txs[:idx], s.txs[idx+1:]...)
	s.refreshLocked()
	s.persistLocked()
	s.mu.Unlock()

	slog.Info("Transaction deleted", "id", id)
	s.notify()
	return true
}

// AddAttachment appends an already-materialized attachment record to the
// transaction. Attachments are immutable once created and live only as long
// as their owning transaction.
func (s *Store) AddAttachment(id string, att core.Attachment) (core.Transaction, bool) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return core.Transaction{}, false
	}
	s.txs[idx].Attachments = append(s.txs[idx].Attachments, att)
	updated := s.txs[idx]
	s.refreshLocked()
	s.persistLocked()
	s.mu.Unlock()

	slog.Info("Attachment added", "transaction_id", id, "attachment_id", att.ID, "size", att.Size)
	s.notify()
	return updated, true
}

// GetByID is read-only and has no side effects.
func (s *Store) GetByID(id string) (core.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return core.Transaction{}, false
	}
	return s.txs[idx], true
}

func (s *Store) indexLocked(id string) int {
	for i := range s.txs {
		if s.txs[i].ID == id {
			return i
		}
	}
	return -1
}

// ResetToInitialData discards persisted state, clears the storage keys and
// restores the bundled defaults. Filters are left untouched; the pipeline is
// reapplied over the restored list.
func (s *Store) ResetToInitialData() {
	ctx := context.Background()
	s.mu.Lock()
	if err := s.kv.Delete(ctx, storage.KeyTransactions); err != nil {
		slog.Error("Clear transactions key failed", "error", err)
	}
	if err := s.kv.Delete(ctx, storage.KeyAccount); err != nil {
		slog.Error("Clear account key failed", "error", err)
	}
	s.txs = append([]core.Transaction(nil), s.seed.Transactions...)
	s.account = s.seed.Account
	s.refreshLocked()
	s.mu.Unlock()

	slog.Info("Store reset to initial data", "transactions", len(s.seed.Transactions))
	s.notify()
}

func (s *Store) SetSearchTerm(term string) {
	s.setFilter(func(f *core.Filter) { f.SearchTerm = term })
}

func (s *Store) SetFilterType(t core.TransactionType) {
	s.setFilter(func(f *core.Filter) { f.Type = t })
}

func (s *Store) SetFilterCategory(category string) {
	s.setFilter(func(f *core.Filter) { f.Category = category })
}

func (s *Store) SetSortBy(by core.SortField) {
	s.setFilter(func(f *core.Filter) { f.SortBy = by })
}

func (s *Store) SetSortOrder(order core.SortOrder) {
	s.setFilter(func(f *core.Filter) { f.SortOrder = order })
}

// ResetFilters restores the documented defaults: no search term, no filters,
// sort by date descending.
func (s *Store) ResetFilters() {
	s.setFilter(func(f *core.Filter) { *f = core.DefaultFilter() })
}

// SetFilter replaces the whole filter state at once and reapplies the
// pipeline; used by the API layer when a request carries several params.
func (s *Store) SetFilter(f core.Filter) {
	s.setFilter(func(dst *core.Filter) { *dst = f })
}

func (s *Store) setFilter(mutate func(*core.Filter)) {
	s.mu.Lock()
	mutate(&s.filter)
	s.view = core.ApplyPipeline(s.txs, s.filter)
	s.mu.Unlock()
	s.notify()
}

// View returns a copy of the current filtered, sorted transaction view.
func (s *Store) View() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.view...)
}

// Transactions returns a copy of the canonical (unfiltered) list.
func (s *Store) Transactions() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.txs...)
}

// Account returns the account with its derived balance.
func (s *Store) Account() core.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account
}

// Filter returns the current filter state.
func (s *Store) Filter() core.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Subscribe returns a channel that receives a signal after every state
// change. Signals coalesce: a slow reader sees at least one for any burst.
func (s *Store) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel obtained from Subscribe.
func (s *Store) Unsubscribe(ch <-chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subs {
		if sub == ch {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}
