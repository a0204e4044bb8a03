package transaction

import (
	"time"

	"github.com/shopspring/decimal"
	"max.ks1230/personal-ledger/internal/model/customerr"
)

const (
	DateLayout      = "2006-01-02"
	LocalDateLayout = "02.01.2006"
)

// Transaction is a single ledger record. Amount is a non-negative magnitude;
// Kind decides whether it adds to or subtracts from the balance.
type Transaction struct {
	ID          int64
	Description string
	Amount      decimal.Decimal
	Kind        Kind
	OccurredOn  time.Time
	OwnerID     int64
}

// Signed returns the amount with the sign it contributes to the balance.
func (t Transaction) Signed() decimal.Decimal {
	if t.Kind == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Day returns the calendar day of t (in t's location) at 00:00 UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate accepts yyyy-mm-dd and dd.mm.yyyy.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range []string{DateLayout, LocalDateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return Day(t), nil
		}
	}
	return time.Time{}, customerr.Validation("date", "should be yyyy-mm-dd or dd.mm.yyyy")
}
