package model

import (
	"time"

	"github.com/google/uuid"
)

// Type is the direction of money flow. Debits reduce available funds,
// credits increase them; amounts are always non-negative and direction
// is carried here, never by sign.
type Type string

const (
	TypeDebit  Type = "debit"
	TypeCredit Type = "credit"
)

// Valid reports whether t is one of the two known transaction types.
func (t Type) Valid() bool {
	return t == TypeDebit || t == TypeCredit
}

// Category is the closed set of spending categories. The set is fixed;
// anything else coming out of extraction is a validation failure, never
// coerced.
type Category string

const (
	CategoryFood          Category = "food"
	CategoryShopping      Category = "shopping"
	CategoryTransport     Category = "transport"
	CategoryEntertainment Category = "entertainment"
	CategoryBills         Category = "bills"
	CategoryHealthcare    Category = "healthcare"
	CategoryEducation     Category = "education"
	CategoryTransfer      Category = "transfer"
	CategoryOther         Category = "other"
)

// Categories lists every permitted category in a stable order.
var Categories = []Category{
	CategoryFood,
	CategoryShopping,
	CategoryTransport,
	CategoryEntertainment,
	CategoryBills,
	CategoryHealthcare,
	CategoryEducation,
	CategoryTransfer,
	CategoryOther,
}

// Valid reports whether c is one of the nine permitted categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ProtoTransaction is a transaction as produced by extraction, before
// identity and persistence timestamp are assigned.
type ProtoTransaction struct {
	Amount        float64  `json:"amount" validate:"gte=0"`
	Type          Type     `json:"type" validate:"required,oneof=debit credit"`
	Merchant      string   `json:"merchant" validate:"required"`
	Date          string   `json:"date" validate:"required"`
	AccountNumber string   `json:"accountNumber,omitempty"`
	Balance       *float64 `json:"balance,omitempty"`
	Category      Category `json:"category" validate:"required,oneof=food shopping transport entertainment bills healthcare education transfer other"`
}

// Transaction is one persisted financial event. Date is the transaction's
// own calendar date as extracted (ISO-8601, time zone rarely known);
// CreatedAt is when the record entered the store.
type Transaction struct {
	ID string `json:"id"`
	ProtoTransaction
	CreatedAt string `json:"createdAt"`
}

// New assigns a fresh unique ID and current-time CreatedAt to a validated
// proto-record. This is the only way new records come into existence;
// there is no update-in-place, correction is delete-and-reinsert.
func New(p ProtoTransaction) Transaction {
	return Transaction{
		ID:               uuid.New().String(),
		ProtoTransaction: p,
		CreatedAt:        time.Now().UTC().Format(time.RFC3339),
	}
}

// NewBatch constructs records for a whole validated batch, preserving order.
func NewBatch(protos []ProtoTransaction) []Transaction {
	records := make([]Transaction, 0, len(protos))
	for _, p := range protos {
		records = append(records, New(p))
	}
	return records
}
