package storage

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/personal-ledger/internal/entity/transaction"
	"max.ks1230/personal-ledger/internal/entity/user"
	"max.ks1230/personal-ledger/internal/logger"
	"max.ks1230/personal-ledger/internal/model/customerr"
)

type dialect struct {
	name              string
	placeholder       sq.PlaceholderFormat
	schema            string
	isUniqueViolation func(err error) bool
}

// SQLStorage keeps users and transactions in a relational database.
// All values reach the database as bound parameters.
type SQLStorage struct {
	db      *sql.DB
	builder sq.StatementBuilderType
	dialect dialect
}

func newSQLStorage(db *sql.DB, d dialect) (*SQLStorage, error) {
	if _, err := db.Exec(d.schema); err != nil {
		return nil, errors.Wrap(err, "init schema")
	}
	return &SQLStorage{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(d.placeholder),
		dialect: d,
	}, nil
}

func (s *SQLStorage) Close() error {
	return s.db.Close()
}

func (s *SQLStorage) CreateUser(ctx context.Context, u user.User) (int64, error) {
	query := s.builder.Insert("users").
		Columns("username", "credential").
		Values(u.Username, u.Credential).
		Suffix("RETURNING id")

	var id int64
	err := query.RunWith(s.db).QueryRowContext(ctx).Scan(&id)
	if err != nil {
		if s.dialect.isUniqueViolation(err) {
			return 0, &customerr.ConflictError{Username: u.Username}
		}
		return 0, customerr.StoreUnavailable("create user", err)
	}
	return id, nil
}

func (s *SQLStorage) GetUserByUsername(ctx context.Context, username string) (user.User, error) {
	query := s.builder.Select("id", "username", "credential").
		From("users").
		Where(sq.Eq{"username": username})

	var u user.User
	err := query.RunWith(s.db).QueryRowContext(ctx).Scan(&u.ID, &u.Username, &u.Credential)
	if errors.Is(err, sql.ErrNoRows) {
		return user.User{}, &customerr.NotFoundError{Entity: "user", ID: username}
	}
	if err != nil {
		return user.User{}, customerr.StoreUnavailable("get user", err)
	}
	return u, nil
}

func (s *SQLStorage) InsertTransaction(ctx context.Context, tx transaction.Transaction) (int64, error) {
	query := s.builder.Insert("transactions").
		Columns("description", "amount", "kind", "occurred_on", "owner_id").
		Values(tx.Description, tx.Amount, string(tx.Kind), transaction.Day(tx.OccurredOn), tx.OwnerID).
		Suffix("RETURNING id")

	var id int64
	if err := query.RunWith(s.db).QueryRowContext(ctx).Scan(&id); err != nil {
		return 0, customerr.StoreUnavailable("insert transaction", err)
	}
	return id, nil
}

func (s *SQLStorage) SelectTransactions(
	ctx context.Context,
	ownerID int64,
	filter transaction.Filter,
) ([]transaction.Transaction, error) {
	query := s.builder.Select("id", "description", "amount", "kind", "occurred_on", "owner_id").
		From("transactions").
		Where(filterPredicates(ownerID, filter)).
		OrderBy("occurred_on", "id")

	rows, err := query.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, customerr.StoreUnavailable("select transactions", err)
	}
	defer func() {
		if rowErr := rows.Close(); rowErr != nil {
			logger.Error("error closing rows", zap.Error(rowErr))
		}
	}()

	txs := make([]transaction.Transaction, 0)
	for rows.Next() {
		var (
			tx   transaction.Transaction
			kind string
		)
		err = rows.Scan(&tx.ID, &tx.Description, &tx.Amount, &kind, &tx.OccurredOn, &tx.OwnerID)
		if err != nil {
			return nil, customerr.StoreUnavailable("select transactions", err)
		}
		tx.Kind = transaction.Kind(kind)
		tx.OccurredOn = transaction.Day(tx.OccurredOn)
		txs = append(txs, tx)
	}
	if err = rows.Err(); err != nil {
		return nil, customerr.StoreUnavailable("select transactions", err)
	}
	return txs, nil
}

// DeleteTransactions removes every listed id or none of them. An id that is
// missing or owned by someone else rolls the whole batch back.
func (s *SQLStorage) DeleteTransactions(ctx context.Context, ownerID int64, ids []int64) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, customerr.StoreUnavailable("begin delete", err)
	}
	defer func() {
		txErr := tx.Rollback()
		if txErr != nil && !errors.Is(txErr, sql.ErrTxDone) {
			logger.Error("error when transaction rollback", zap.Error(txErr))
		}
	}()

	var deleted int64
	for _, id := range ids {
		res, err := s.builder.Delete("transactions").
			Where(sq.Eq{"id": id, "owner_id": ownerID}).
			RunWith(tx).
			ExecContext(ctx)
		if err != nil {
			return 0, customerr.StoreUnavailable("delete transaction", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, customerr.StoreUnavailable("delete transaction", err)
		}
		if n != 1 {
			return 0, &customerr.NotFoundError{Entity: "transaction", ID: strconv.FormatInt(id, 10)}
		}
		deleted += n
	}

	if err = tx.Commit(); err != nil {
		return 0, customerr.StoreUnavailable("commit delete", err)
	}
	return deleted, nil
}

func (s *SQLStorage) DeleteAllTransactions(ctx context.Context, ownerID int64) (int64, error) {
	res, err := s.builder.Delete("transactions").
		Where(sq.Eq{"owner_id": ownerID}).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return 0, customerr.StoreUnavailable("wipe transactions", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, customerr.StoreUnavailable("wipe transactions", err)
	}
	return n, nil
}

func filterPredicates(ownerID int64, f transaction.Filter) sq.And {
	preds := sq.And{sq.Eq{"owner_id": ownerID}}
	if f.DescriptionContains != "" {
		preds = append(preds, sq.Expr(`LOWER(description) LIKE ? ESCAPE '\'`, likePattern(f.DescriptionContains)))
	}
	if f.DateFrom != nil {
		preds = append(preds, sq.GtOrEq{"occurred_on": transaction.Day(*f.DateFrom)})
	}
	if f.DateTo != nil {
		preds = append(preds, sq.LtOrEq{"occurred_on": transaction.Day(*f.DateTo)})
	}
	if f.Kind != nil {
		preds = append(preds, sq.Eq{"kind": string(*f.Kind)})
	}
	return preds
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(substr string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(substr)) + "%"
}
