// Package billing holds the pure date/amount arithmetic shared by invoice
// generation and the renewal sweep. Everything here is side-effect free so the
// rules stay testable without a database.
package billing

import (
	"math"
	"time"
)

// DueDateOffsetDays is how long after a period opens its invoice falls due.
const DueDateOffsetDays = 7

// Period is one invoiceable slice of a subscription's lifetime.
type Period struct {
	Start   time.Time
	End     time.Time
	DueDate time.Time
}

// Periods walks from start to end in one-month steps. The final period is
// clipped to end if a full month would overshoot. Returns nil when the range
// is empty or inverted.
func Periods(start, end time.Time) []Period {
	if !start.Before(end) {
		return nil
	}

	var periods []Period
	cursor := start
	for cursor.Before(end) {
		next := cursor.AddDate(0, 1, 0)
		if next.After(end) {
			next = end
		}
		periods = append(periods, Period{
			Start:   cursor,
			End:     next,
			DueDate: cursor.AddDate(0, 0, DueDateOffsetDays),
		})
		cursor = next
	}
	return periods
}

// TaxAmount applies a flat percentage rate to a subtotal.
// rate is a percentage (e.g. 11 for 11%), not a fraction.
func TaxAmount(subtotal, rate float64) float64 {
	return Round2(subtotal * rate / 100)
}

// Round2 rounds to two decimal places, the resolution invoices are stored at.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// MinorUnits converts a price to integer minor currency units (cents),
// the representation the payment gateway expects.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
