package transaction

import (
	"strings"

	"github.com/shopspring/decimal"
	"max.ks1230/personal-ledger/internal/model/customerr"
)

// ParseAmount parses a positive exact decimal. A decimal comma is accepted in
// place of a decimal point, so "10,50" and "10.50" are the same amount.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, customerr.Validation("amount", "is empty")
	}
	if strings.Contains(s, ",") && strings.Contains(s, ".") {
		return decimal.Zero, customerr.Validation("amount", "mixes decimal comma and point")
	}
	if strings.ContainsAny(s, "eE") {
		return decimal.Zero, customerr.Validation("amount", "is not a number")
	}

	amount, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	if err != nil {
		return decimal.Zero, customerr.Validation("amount", "is not a number")
	}
	if !amount.IsPositive() {
		return decimal.Zero, customerr.Validation("amount", "must be positive")
	}
	return amount, nil
}
