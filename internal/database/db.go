package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// Driver names the SQL dialect behind a datastore URL.
type Driver string

const (
	DriverMySQL  Driver = "mysql"
	DriverSQLite Driver = "sqlite"
)

// ErrUnsupportedURL is returned for datastore URLs with an unknown scheme.
var ErrUnsupportedURL = errors.New("unsupported datastore url")

// DSN converts a datastore URL into a driver name and DSN.  Supported
// forms are mysql://user@host:port/name and sqlite://path (or
// sqlite://:memory:).  key, when set, is used as the MySQL password and
// takes precedence over one embedded in the URL.
func DSN(rawURL, key string) (Driver, string, error) {
	switch {
	case strings.HasPrefix(rawURL, "sqlite://"):
		path := strings.TrimPrefix(rawURL, "sqlite://")
		if path == "" {
			return "", "", fmt.Errorf("%w: sqlite path is empty", ErrUnsupportedURL)
		}
		if path == ":memory:" {
			return DriverSQLite, path, nil
		}
		return DriverSQLite, path + "?_pragma=busy_timeout(5000)", nil

	case strings.HasPrefix(rawURL, "mysql://"):
		u, err := url.Parse(rawURL)
		if err != nil {
			return "", "", fmt.Errorf("%w: %v", ErrUnsupportedURL, err)
		}
		name := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || name == "" {
			return "", "", fmt.Errorf("%w: mysql url needs host and database name", ErrUnsupportedURL)
		}
		cfg := mysql.NewConfig()
		cfg.Net = "tcp"
		cfg.Addr = u.Host
		cfg.DBName = name
		if u.User != nil {
			cfg.User = u.User.Username()
			if pw, ok := u.User.Password(); ok {
				cfg.Passwd = pw
			}
		}
		if key != "" {
			cfg.Passwd = key
		}
		// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
		cfg.ParseTime = true
		cfg.Loc = time.UTC
		cfg.Params = map[string]string{"charset": "utf8mb4"}
		return DriverMySQL, cfg.FormatDSN(), nil
	}
	return "", "", fmt.Errorf("%w: %q", ErrUnsupportedURL, redact(rawURL))
}

// Open connects to the datastore described by rawURL and verifies the
// connection.
func Open(ctx context.Context, rawURL, key string) (*sql.DB, Driver, error) {
	driver, dsn, err := DSN(rawURL, key)
	if err != nil {
		return nil, "", err
	}

	db, err := sql.Open(string(driver), dsn)
	if err != nil {
		return nil, "", err
	}

	// Pool settings
	switch driver {
	case DriverSQLite:
		// every extra connection to :memory: would be a separate database
		db.SetMaxOpenConns(1)
	default:
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	// Ping with timeout
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, "", err
	}
	return db, driver, nil
}

func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	return u.Redacted()
}
