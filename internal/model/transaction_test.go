package model

import (
	"testing"
	"time"
)

func TestNewAssignsIdentity(t *testing.T) {
	proto := ProtoTransaction{
		Amount:   500,
		Type:     TypeDebit,
		Merchant: "AMAZON",
		Date:     "2025-01-01",
		Category: CategoryShopping,
	}

	record := New(proto)

	if record.ID == "" {
		t.Fatal("expected non-empty ID")
	}
	if record.CreatedAt == "" {
		t.Fatal("expected non-empty CreatedAt")
	}
	if _, err := time.Parse(time.RFC3339, record.CreatedAt); err != nil {
		t.Errorf("CreatedAt %q is not RFC3339: %v", record.CreatedAt, err)
	}
	if record.Merchant != proto.Merchant || record.Amount != proto.Amount {
		t.Errorf("proto fields not carried over: %+v", record)
	}
}

func TestNewBatchUniqueIDs(t *testing.T) {
	protos := make([]ProtoTransaction, 100)
	for i := range protos {
		protos[i] = ProtoTransaction{
			Amount:   float64(i),
			Type:     TypeDebit,
			Merchant: "M",
			Date:     "2025-01-01",
			Category: CategoryOther,
		}
	}

	records := NewBatch(protos)
	if len(records) != len(protos) {
		t.Fatalf("got %d records, want %d", len(records), len(protos))
	}

	seen := make(map[string]bool, len(records))
	for i, r := range records {
		if seen[r.ID] {
			t.Fatalf("duplicate ID %q at index %d", r.ID, i)
		}
		seen[r.ID] = true
		if r.Amount != float64(i) {
			t.Errorf("batch order not preserved at index %d", i)
		}
	}
}

func TestCategoryValid(t *testing.T) {
	tests := []struct {
		category Category
		want     bool
	}{
		{CategoryFood, true},
		{CategoryTransfer, true},
		{CategoryOther, true},
		{Category("groceries"), false},
		{Category("FOOD"), false},
		{Category(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			if got := tt.category.Valid(); got != tt.want {
				t.Errorf("Valid(%q) = %v, want %v", tt.category, got, tt.want)
			}
		})
	}
}

func TestTypeValid(t *testing.T) {
	if !TypeDebit.Valid() || !TypeCredit.Valid() {
		t.Error("debit and credit must be valid")
	}
	if Type("withdrawal").Valid() {
		t.Error("unknown type must be invalid")
	}
}
