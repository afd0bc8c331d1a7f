// Package stats provides pure aggregation views over the stored transaction
// list. Nothing here mutates or persists; calling any view twice on an
// unchanged list yields identical results.
package stats

import (
	"time"

	"cloud.google.com/go/civil"

	"github.com/spendwise-app/spendwise/internal/model"
)

// dateLayouts are tried in order when parsing a record's transaction date.
// Source SMS rarely carries a time zone, so bare dates are common.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// TotalSpending sums amounts of the given direction.
func TotalSpending(txns []model.Transaction, typ model.Type) float64 {
	var total float64
	for _, t := range txns {
		if t.Type == typ {
			total += t.Amount
		}
	}
	return total
}

// SpendingByCategory sums debit amounts per category.
func SpendingByCategory(txns []model.Transaction) map[model.Category]float64 {
	byCategory := make(map[model.Category]float64)
	for _, t := range txns {
		if t.Type == model.TypeDebit {
			byCategory[t.Category] += t.Amount
		}
	}
	return byCategory
}

// SpendingByDate sums debit amounts per calendar day (YYYY-MM-DD keys).
// Records whose date cannot be parsed are skipped.
func SpendingByDate(txns []model.Transaction) map[string]float64 {
	byDate := make(map[string]float64)
	for _, t := range txns {
		if t.Type != model.TypeDebit {
			continue
		}
		parsed, ok := parseDate(t.Date)
		if !ok {
			continue
		}
		byDate[civil.DateOf(parsed).String()] += t.Amount
	}
	return byDate
}

// MonthlySpending sums debit amounts per calendar month (YYYY-MM keys).
// Records whose date cannot be parsed are skipped.
func MonthlySpending(txns []model.Transaction) map[string]float64 {
	byMonth := make(map[string]float64)
	for _, t := range txns {
		if t.Type != model.TypeDebit {
			continue
		}
		parsed, ok := parseDate(t.Date)
		if !ok {
			continue
		}
		byMonth[parsed.Format("2006-01")] += t.Amount
	}
	return byMonth
}

// FilterByDateRange keeps records whose transaction date falls within
// [start, end], preserving order. Unparseable dates are excluded.
func FilterByDateRange(txns []model.Transaction, start, end time.Time) []model.Transaction {
	var out []model.Transaction
	for _, t := range txns {
		parsed, ok := parseDate(t.Date)
		if !ok {
			continue
		}
		if !parsed.Before(start) && !parsed.After(end) {
			out = append(out, t)
		}
	}
	return out
}

// FilterByCategory keeps records of one category, preserving order.
func FilterByCategory(txns []model.Transaction, category model.Category) []model.Transaction {
	var out []model.Transaction
	for _, t := range txns {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

// TopCategory returns the category with the highest total. Totals accumulate
// in an unordered map, so ties are broken deterministically: the
// lexicographically smallest category name wins. ok is false for an empty
// map.
func TopCategory(byCategory map[model.Category]float64) (category model.Category, amount float64, ok bool) {
	for c, a := range byCategory {
		if !ok || a > amount || (a == amount && c < category) {
			category, amount, ok = c, a, true
		}
	}
	return category, amount, ok
}
