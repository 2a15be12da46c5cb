package transaction

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("transaction not found")
	ErrInvalid  = errors.New("invalid transaction")
)

// Transaction is one financial ledger entry. TotalPrice is recorded as
// entered and may differ from the item's current unit price.
type Transaction struct {
	ID          string
	Date        time.Time // calendar date, midnight UTC
	ItemID      string    // weak reference into stock
	Quantity    int
	TotalPrice  decimal.Decimal
	Description *string
}

// DescriptionOr returns the description, or def when none was recorded.
func (t Transaction) DescriptionOr(def string) string {
	if t.Description == nil || *t.Description == "" {
		return def
	}

	return *t.Description
}

// SameDay reports whether the transaction was dated on the calendar day of ref.
func (t Transaction) SameDay(ref time.Time) bool {
	return t.Date.Format(time.DateOnly) == ref.Format(time.DateOnly)
}

// DateOnly truncates t to its calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
