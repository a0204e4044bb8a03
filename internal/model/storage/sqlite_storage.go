package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// MemoryPath opens a private in-memory SQLite database.
const MemoryPath = ":memory:"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	username   TEXT NOT NULL UNIQUE,
	credential TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	description TEXT NOT NULL DEFAULT '',
	amount      TEXT NOT NULL,
	kind        TEXT NOT NULL CHECK (kind IN ('INCOME', 'EXPENSE')),
	occurred_on DATE NOT NULL,
	owner_id    INTEGER NOT NULL REFERENCES users (id)
);

CREATE INDEX IF NOT EXISTS idx_transactions_owner_date
	ON transactions (owner_id, occurred_on);
`

var sqliteDialect = dialect{
	name:              "sqlite",
	placeholder:       sq.Question,
	schema:            sqliteSchema,
	isUniqueViolation: isSQLiteUniqueViolation,
}

// NewSQLiteStorage opens an embedded database file, creating its directory
// when needed. The pool is capped at one connection: SQLite allows a single
// writer and an in-memory database lives inside its connection.
func NewSQLiteStorage(path string) (*SQLStorage, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrap(err, "create database directory")
		}
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL", path))
	if err != nil {
		return nil, errors.Wrap(err, "cannot open database")
	}
	db.SetMaxOpenConns(1)

	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "cannot open database")
	}

	s, err := newSQLStorage(db, sqliteDialect)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func isSQLiteUniqueViolation(err error) bool {
	var liteErr sqlite3.Error
	return errors.As(err, &liteErr) && liteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
