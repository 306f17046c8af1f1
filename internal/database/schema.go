package database

import (
	"context"
	"database/sql"
	"fmt"
)

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS bookings (
		id                CHAR(36)     NOT NULL PRIMARY KEY,
		name              VARCHAR(255) NOT NULL,
		email             VARCHAR(255) NOT NULL,
		phone             VARCHAR(50)  NOT NULL DEFAULT '',
		company           VARCHAR(255) NOT NULL DEFAULT '',
		service_type      INT          NOT NULL,
		service_name      VARCHAR(255) NOT NULL,
		service_price     INT          NOT NULL,
		preferred_date    VARCHAR(10)  NOT NULL,
		preferred_time    VARCHAR(5)   NOT NULL,
		requirements      TEXT         NOT NULL,
		payment_method_id VARCHAR(255) NOT NULL DEFAULT '',
		status            VARCHAR(50)  NOT NULL DEFAULT 'pending',
		created_at        DATETIME(6)  NOT NULL,
		updated_at        DATETIME(6)  NOT NULL,
		INDEX idx_bookings_email (email),
		INDEX idx_bookings_status (status),
		INDEX idx_bookings_created_at (created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS contacts (
		id         CHAR(36)     NOT NULL PRIMARY KEY,
		name       VARCHAR(255) NOT NULL,
		email      VARCHAR(255) NOT NULL,
		subject    VARCHAR(255) NOT NULL DEFAULT '',
		message    TEXT         NOT NULL,
		created_at DATETIME(6)  NOT NULL,
		INDEX idx_contacts_email (email),
		INDEX idx_contacts_created_at (created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS bookings (
		id                TEXT     NOT NULL PRIMARY KEY,
		name              TEXT     NOT NULL,
		email             TEXT     NOT NULL,
		phone             TEXT     NOT NULL DEFAULT '',
		company           TEXT     NOT NULL DEFAULT '',
		service_type      INTEGER  NOT NULL,
		service_name      TEXT     NOT NULL,
		service_price     INTEGER  NOT NULL,
		preferred_date    TEXT     NOT NULL,
		preferred_time    TEXT     NOT NULL,
		requirements      TEXT     NOT NULL DEFAULT '',
		payment_method_id TEXT     NOT NULL DEFAULT '',
		status            TEXT     NOT NULL DEFAULT 'pending',
		created_at        DATETIME NOT NULL,
		updated_at        DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_email ON bookings(email)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_created_at ON bookings(created_at)`,
	`CREATE TABLE IF NOT EXISTS contacts (
		id         TEXT     NOT NULL PRIMARY KEY,
		name       TEXT     NOT NULL,
		email      TEXT     NOT NULL,
		subject    TEXT     NOT NULL DEFAULT '',
		message    TEXT     NOT NULL,
		created_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_contacts_email ON contacts(email)`,
	`CREATE INDEX IF NOT EXISTS idx_contacts_created_at ON contacts(created_at)`,
}

// Migrate creates the bookings and contacts tables when they are missing.
// Statements run one at a time because the MySQL driver rejects
// multi-statement strings by default.
func Migrate(ctx context.Context, db *sql.DB, driver Driver) error {
	stmts := mysqlSchema
	if driver == DriverSQLite {
		stmts = sqliteSchema
	}
	for i, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
