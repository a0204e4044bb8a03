package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"max.ks1230/personal-ledger/internal/entity/transaction"
	"max.ks1230/personal-ledger/internal/entity/user"
	"max.ks1230/personal-ledger/internal/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Store is the persistent store contract shared by every backend.
type Store interface {
	CreateUser(ctx context.Context, u user.User) (int64, error)
	GetUserByUsername(ctx context.Context, username string) (user.User, error)
	InsertTransaction(ctx context.Context, tx transaction.Transaction) (int64, error)
	SelectTransactions(ctx context.Context, ownerID int64, filter transaction.Filter) ([]transaction.Transaction, error)
	DeleteTransactions(ctx context.Context, ownerID int64, ids []int64) (int64, error)
	DeleteAllTransactions(ctx context.Context, ownerID int64) (int64, error)
	Close() error
}

var (
	_ Store = (*SQLStorage)(nil)
	_ Store = (*InMemStorage)(nil)
)

type config interface {
	Driver() string
	SQLitePath() string
}

// Open picks the backend named in config.
func Open(cfg config, pg postgresConfig) (Store, error) {
	logger.Info("opening storage", zap.String("driver", cfg.Driver()))

	var (
		s   *SQLStorage
		err error
	)
	switch cfg.Driver() {
	case DriverPostgres:
		s, err = NewPostgresStorage(pg)
	case DriverSQLite:
		s, err = NewSQLiteStorage(cfg.SQLitePath())
	case DriverMemory, "":
		return NewInMemStorage(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver())
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}
