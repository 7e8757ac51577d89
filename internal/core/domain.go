package core

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	Deposit    TransactionType = "deposito"
	Transfer   TransactionType = "transferencia"
	Payment    TransactionType = "pagamento"
	Withdrawal TransactionType = "saque"
)

const (
	MinDescriptionLen = 3
	MaxDescriptionLen = 100
	MaxCategoryLen    = 50
)

type (
	TransactionType string

	Money struct {
		Cents int64 `json:"cents"`
	}

	Transaction struct {
		ID          string          `json:"id"`
		Type        TransactionType `json:"type"`
		Amount      Money           `json:"amount"`
		Date        time.Time       `json:"date"`
		Description string          `json:"description"`
		Category    string          `json:"category,omitempty"`
		Attachments []Attachment    `json:"attachments,omitempty"`
	}

	// Attachment is an already-materialized file reference owned by a
	// transaction. Immutable once created.
	Attachment struct {
		ID         string    `json:"id"`
		Name       string    `json:"name"`
		URL        string    `json:"url"`
		Type       string    `json:"type"`
		Size       int64     `json:"size"`
		UploadedAt time.Time `json:"uploaded_at"`
	}

	Account struct {
		Balance       Money  `json:"balance"`
		AccountNumber string `json:"account_number"`
		AccountHolder string `json:"account_holder"`
	}
)

var (
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrAmountSign       = errors.New("amount sign does not match transaction type")
	ErrFutureDate       = errors.New("date cannot be in the future")
	ErrZeroDate         = errors.New("date cannot be zero")
	ErrShortDescription = errors.New("description too short (min 3 characters)")
	ErrLongDescription  = errors.New("description too long (max 100 characters)")
	ErrLongCategory     = errors.New("category too long (max 50 characters)")
)

// IsValid reports whether t is one of the closed set of transaction types.
func (t TransactionType) IsValid() bool {
	switch t {
	case Deposit, Transfer, Payment, Withdrawal:
		return true
	default:
		return false
	}
}

// Validate enforces the input-boundary contract: the type is known, the amount
// sign matches the type (deposits inflow, everything else outflow), the date is
// set and not in the future, and description/category fit their length bounds.
// The store never calls this; the API layer does, before handing the
// transaction over.
func (tx Transaction) Validate() error {
	if !tx.Type.IsValid() {
		return ErrInvalidType
	}
	switch tx.Type {
	case Deposit:
		if tx.Amount.Cents <= 0 {
			return ErrAmountSign
		}
	default:
		if tx.Amount.Cents > 0 {
			return ErrAmountSign
		}
	}
	if tx.Date.IsZero() {
		return ErrZeroDate
	}
	if tx.Date.After(time.Now()) {
		return ErrFutureDate
	}
	desc := strings.TrimSpace(tx.Description)
	if utf8.RuneCountInString(desc) < MinDescriptionLen {
		return ErrShortDescription
	}
	if utf8.RuneCountInString(desc) > MaxDescriptionLen {
		return ErrLongDescription
	}
	if utf8.RuneCountInString(tx.Category) > MaxCategoryLen {
		return ErrLongCategory
	}
	return nil
}

// TotalBalance recomputes the account balance as the full sum of all
// transaction amounts. Always a complete recompute, never an incremental
// adjustment, so the balance cannot drift from the list.
func TotalBalance(txs []Transaction) Money {
	var total int64
	for _, tx := range txs {
		total += tx.Amount.Cents
	}
	return Money{Cents: total}
}
