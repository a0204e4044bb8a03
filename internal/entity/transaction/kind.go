package transaction

import (
	"strings"

	"max.ks1230/personal-ledger/internal/model/customerr"
)

type Kind string

const (
	Income  Kind = "INCOME"
	Expense Kind = "EXPENSE"
)

var Kinds = []Kind{Income, Expense}

func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToUpper(strings.TrimSpace(s))) {
	case Income:
		return Income, nil
	case Expense:
		return Expense, nil
	}
	return "", customerr.Validation("kind", "must be INCOME or EXPENSE")
}

func (k Kind) Valid() bool {
	return k == Income || k == Expense
}

func (k Kind) String() string {
	return string(k)
}
