package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

var ErrUnsupportedDSN = errors.New("unsupported database url")

func (d Dialect) driver() string {
	if d == DialectPostgres {
		return "postgres"
	}
	return "sqlite3"
}

func (d Dialect) placeholder() sq.PlaceholderFormat {
	if d == DialectPostgres {
		return sq.Dollar
	}
	return sq.Question
}

// ParseDSN works out which backend a connection string points at and returns
// the string the driver expects.
func ParseDSN(dsn string) (Dialect, string, error) {
	dsn = strings.TrimSpace(dsn)
	switch {
	case dsn == "":
		return "", "", fmt.Errorf("%w: empty", ErrUnsupportedDSN)
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return DialectPostgres, dsn, nil
	case isKeyValueDSN(dsn):
		return DialectPostgres, dsn, nil
	case strings.HasPrefix(dsn, "sqlite://"):
		return DialectSQLite, strings.TrimPrefix(dsn, "sqlite://"), nil
	case strings.HasPrefix(dsn, "sqlite:"):
		return DialectSQLite, strings.TrimPrefix(dsn, "sqlite:"), nil
	case strings.HasPrefix(dsn, "file:"), dsn == ":memory:", strings.HasSuffix(dsn, ".db"):
		return DialectSQLite, dsn, nil
	}
	return "", "", fmt.Errorf("%w: %q", ErrUnsupportedDSN, redact(dsn))
}

// Open connects to the database named by dsn. lib/pq defaults to
// sslmode=require, so hosted Postgres URLs work without extra parameters.
func Open(dsn string) (*sql.DB, Dialect, error) {
	dialect, driverDSN, err := ParseDSN(dsn)
	if err != nil {
		return nil, "", err
	}
	db, err := sql.Open(dialect.driver(), driverDSN)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", dialect, err)
	}
	return db, dialect, nil
}

// libpqKeys are the connection parameters lib/pq understands in key=value form.
var libpqKeys = map[string]struct{}{
	"host": {}, "hostaddr": {}, "port": {}, "dbname": {}, "user": {}, "password": {},
	"sslmode": {}, "sslcert": {}, "sslkey": {}, "sslrootcert": {}, "sslinline": {},
	"connect_timeout": {}, "application_name": {}, "fallback_application_name": {},
	"options": {}, "search_path": {}, "krbsrvname": {}, "krbspn": {},
}

// isKeyValueDSN reports whether dsn is a libpq key=value connection string:
// whitespace-separated pairs, values optionally single-quoted, at least one
// known key.
func isKeyValueDSN(dsn string) bool {
	s := dsn
	known := false
	for {
		s = strings.TrimLeft(s, " \t\n")
		if s == "" {
			return known
		}
		eq := strings.IndexByte(s, '=')
		if eq <= 0 {
			return false
		}
		key := strings.TrimSpace(s[:eq])
		if key == "" || strings.ContainsAny(key, " \t\n'") {
			return false
		}
		if _, ok := libpqKeys[key]; ok {
			known = true
		}
		s = strings.TrimLeft(s[eq+1:], " \t")
		if strings.HasPrefix(s, "'") {
			i := 1
			for ; i < len(s); i++ {
				if s[i] == '\\' {
					i++
					continue
				}
				if s[i] == '\'' {
					break
				}
			}
			if i >= len(s) {
				return false
			}
			s = s[i+1:]
			continue
		}
		if end := strings.IndexAny(s, " \t\n"); end >= 0 {
			s = s[end:]
		} else {
			s = ""
		}
	}
}

// redact keeps only a URL scheme so credentials never reach logs.
func redact(dsn string) string {
	if i := strings.Index(dsn, "://"); i > 0 && !strings.ContainsAny(dsn[:i], " =") {
		return dsn[:i+3] + "..."
	}
	return "[redacted]"
}
