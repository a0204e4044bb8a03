package storage

import (
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

const (
	dsnTemplate = "user=%s password=%s host=%s dbname=%s sslmode=%s"

	uniqueViolationCode = "23505"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
	id         BIGSERIAL PRIMARY KEY,
	username   TEXT NOT NULL UNIQUE,
	credential TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
	id          BIGSERIAL PRIMARY KEY,
	description TEXT NOT NULL DEFAULT '',
	amount      NUMERIC NOT NULL CHECK (amount > 0),
	kind        TEXT NOT NULL CHECK (kind IN ('INCOME', 'EXPENSE')),
	occurred_on DATE NOT NULL,
	owner_id    BIGINT NOT NULL REFERENCES users (id)
);

CREATE INDEX IF NOT EXISTS idx_transactions_owner_date
	ON transactions (owner_id, occurred_on);
`

type postgresConfig interface {
	Host() string
	Username() string
	Password() string
	Database() string
	SSLMode() string
}

var postgresDialect = dialect{
	name:              "postgres",
	placeholder:       sq.Dollar,
	schema:            postgresSchema,
	isUniqueViolation: isPostgresUniqueViolation,
}

func NewPostgresStorage(config postgresConfig) (*SQLStorage, error) {
	db, err := sql.Open("postgres", fmt.Sprintf(dsnTemplate,
		config.Username(),
		config.Password(),
		config.Host(),
		config.Database(),
		config.SSLMode()))
	if err != nil {
		return nil, errors.Wrap(err, "cannot connect to database")
	}
	if err = db.Ping(); err != nil {
		return nil, errors.Wrap(err, "cannot connect to database")
	}
	return newSQLStorage(db, postgresDialect)
}

func isPostgresUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode
}
