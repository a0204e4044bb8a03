package ledger

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/personal-ledger/internal/entity/transaction"
	"max.ks1230/personal-ledger/internal/logger"
	"max.ks1230/personal-ledger/internal/model/auth"
	"max.ks1230/personal-ledger/internal/model/customerr"
)

type transactionStorage interface {
	InsertTransaction(ctx context.Context, tx transaction.Transaction) (int64, error)
	SelectTransactions(ctx context.Context, ownerID int64, filter transaction.Filter) ([]transaction.Transaction, error)
	DeleteTransactions(ctx context.Context, ownerID int64, ids []int64) (int64, error)
	DeleteAllTransactions(ctx context.Context, ownerID int64) (int64, error)
}

type config interface {
	Location() *time.Location
}

type Operation string

const (
	OpInsert Operation = "insert"
	OpDelete Operation = "delete"
	OpWipe   Operation = "wipe"
)

// Change describes a committed mutation of one user's ledger.
type Change struct {
	UserID int64
	Op     Operation
	Count  int64
}

// ChangeObserver is told about every committed mutation, after the store
// call has returned. Balances must be recomputed from the store, not from
// the Change.
type ChangeObserver interface {
	LedgerChanged(ctx context.Context, change Change)
}

// Service owns the transaction lifecycle of the authenticated user.
type Service struct {
	storage   transactionStorage
	location  *time.Location
	now       func() time.Time
	observers []ChangeObserver
}

func NewService(storage transactionStorage, config config, observers ...ChangeObserver) *Service {
	return &Service{
		storage:   storage,
		location:  config.Location(),
		now:       time.Now,
		observers: observers,
	}
}

func (s *Service) Subscribe(observer ChangeObserver) {
	s.observers = append(s.observers, observer)
}

// Insert records a transaction for the session user. The amount is validated
// before the store is touched; a zero date means today.
func (s *Service) Insert(
	ctx context.Context,
	session auth.Session,
	description, amount string,
	kind transaction.Kind,
	date time.Time,
) (id int64, err error) {
	span, ctx := startSpan(ctx, "ledgerInsert", session)
	defer func(start time.Time) { finish(span, OpInsert, start, err) }(time.Now())

	if err = session.Require(); err != nil {
		return 0, err
	}
	value, err := transaction.ParseAmount(amount)
	if err != nil {
		return 0, err
	}
	if !kind.Valid() {
		return 0, customerr.Validation("kind", "must be INCOME or EXPENSE")
	}
	if date.IsZero() {
		date = s.now().In(s.location)
	}

	id, err = s.storage.InsertTransaction(ctx, transaction.Transaction{
		Description: description,
		Amount:      value,
		Kind:        kind,
		OccurredOn:  transaction.Day(date),
		OwnerID:     session.UserID(),
	})
	if err != nil {
		return 0, errors.Wrap(err, "insert")
	}

	logger.Info("transaction inserted",
		zap.Int64("userID", session.UserID()),
		zap.Int64("transactionID", id),
		zap.String("kind", kind.String()),
	)
	s.notify(ctx, Change{UserID: session.UserID(), Op: OpInsert, Count: 1})
	return id, nil
}

func (s *Service) Query(
	ctx context.Context,
	session auth.Session,
	filter transaction.Filter,
) (txs []transaction.Transaction, err error) {
	span, ctx := startSpan(ctx, "ledgerQuery", session)
	defer func(start time.Time) { finish(span, "query", start, err) }(time.Now())

	if err = session.Require(); err != nil {
		return nil, err
	}
	if filter.Kind != nil && !filter.Kind.Valid() {
		return nil, customerr.Validation("kind", "must be INCOME or EXPENSE")
	}

	txs, err = s.storage.SelectTransactions(ctx, session.UserID(), filter)
	if err != nil {
		return nil, errors.Wrap(err, "query")
	}
	return txs, nil
}

// DeleteSelected removes all listed transactions or none. Duplicate ids are
// counted once; an empty list is a no-op.
func (s *Service) DeleteSelected(ctx context.Context, session auth.Session, ids []int64) (n int64, err error) {
	span, ctx := startSpan(ctx, "ledgerDeleteSelected", session)
	defer func(start time.Time) { finish(span, OpDelete, start, err) }(time.Now())

	if err = session.Require(); err != nil {
		return 0, err
	}
	ids = unique(ids)
	if len(ids) == 0 {
		return 0, nil
	}

	n, err = s.storage.DeleteTransactions(ctx, session.UserID(), ids)
	if err != nil {
		return 0, errors.Wrap(err, "delete selected")
	}

	logger.Info("transactions deleted", zap.Int64("userID", session.UserID()), zap.Int64s("ids", ids))
	s.notify(ctx, Change{UserID: session.UserID(), Op: OpDelete, Count: n})
	return n, nil
}

// Wipe removes every transaction of the session user. Asking for
// confirmation is the caller's job.
func (s *Service) Wipe(ctx context.Context, session auth.Session) (n int64, err error) {
	span, ctx := startSpan(ctx, "ledgerWipe", session)
	defer func(start time.Time) { finish(span, OpWipe, start, err) }(time.Now())

	if err = session.Require(); err != nil {
		return 0, err
	}

	n, err = s.storage.DeleteAllTransactions(ctx, session.UserID())
	if err != nil {
		return 0, errors.Wrap(err, "wipe")
	}

	logger.Info("ledger wiped", zap.Int64("userID", session.UserID()), zap.Int64("count", n))
	s.notify(ctx, Change{UserID: session.UserID(), Op: OpWipe, Count: n})
	return n, nil
}

func (s *Service) notify(ctx context.Context, change Change) {
	for _, o := range s.observers {
		o.LedgerChanged(ctx, change)
	}
}

func startSpan(ctx context.Context, name string, session auth.Session) (opentracing.Span, context.Context) {
	span, ctx := opentracing.StartSpanFromContext(ctx, name)
	span.SetTag("userID", session.UserID())
	return span, ctx
}

func finish(span opentracing.Span, op Operation, start time.Time, err error) {
	observeOperation(op, time.Since(start), err)
	if err != nil {
		ext.Error.Set(span, true)
	}
	span.Finish()
}

func unique(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	res := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		res = append(res, id)
	}
	return res
}
