package balance

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"max.ks1230/personal-ledger/internal/entity/transaction"
	"max.ks1230/personal-ledger/internal/model/auth"
)

// Totals is an immutable snapshot of a ledger. It is always derived from the
// transactions and never stored.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
}

type transactionsReader interface {
	SelectTransactions(ctx context.Context, ownerID int64, filter transaction.Filter) ([]transaction.Transaction, error)
}

type Aggregator struct {
	storage transactionsReader
}

func NewAggregator(storage transactionsReader) *Aggregator {
	return &Aggregator{storage: storage}
}

// Recompute re-scans every transaction of the session user.
func (a *Aggregator) Recompute(ctx context.Context, session auth.Session) (Totals, error) {
	if err := session.Require(); err != nil {
		return Totals{}, err
	}

	span, ctx := opentracing.StartSpanFromContext(ctx, "recomputeBalance")
	defer span.Finish()

	txs, err := a.storage.SelectTransactions(ctx, session.UserID(), transaction.Filter{})
	if err != nil {
		return Totals{}, errors.Wrap(err, "recompute balance")
	}
	return Sum(txs), nil
}

func Sum(txs []transaction.Transaction) Totals {
	income, expense := decimal.Zero, decimal.Zero
	for _, tx := range txs {
		switch tx.Kind {
		case transaction.Income:
			income = income.Add(tx.Amount)
		case transaction.Expense:
			expense = expense.Add(tx.Amount)
		}
	}
	return Totals{
		Income:  income,
		Expense: expense,
		Balance: income.Sub(expense),
	}
}
