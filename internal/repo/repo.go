package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/rotisserie/eris"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Repository is the operator account store used by auth.
type Repository interface {
	CreateUser(ctx context.Context, login, email, password string) (int, error)
	GetBylogin(ctx context.Context, login string) (int, string, error)
}

type Driver string

const (
	Postgres Driver = "postgres"
	SQLite   Driver = "sqlite"
)

// Store keeps operators and experiments in postgres or sqlite. Queries are
// written with ? placeholders and rebound for postgres.
type Store struct {
	db     *sql.DB
	driver Driver
}

func ParseDriver(s string) (Driver, error) {
	switch Driver(strings.ToLower(s)) {
	case Postgres, "postgresql", "pq":
		return Postgres, nil
	case SQLite, "sqlite3":
		return SQLite, nil
	}
	return "", eris.Errorf("repo: unknown driver %q", s)
}

// Open connects and checks the database.
func Open(ctx context.Context, driver Driver, dsn string) (*Store, error) {
	switch driver {
	case Postgres:
		return openPostgres(ctx, dsn)
	case SQLite:
		return openSQLite(ctx, dsn)
	}
	return nil, eris.Errorf("repo: unknown driver %q", driver)
}

func openPostgres(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = "user=postgres dbname=postgres password=password sslmode=disable"
	}
	if !strings.Contains(dsn, "sslmode=") {
		if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
			sep := "?"
			if strings.Contains(dsn, "?") {
				sep = "&"
			}
			dsn += sep + "sslmode=require"
		} else {
			dsn += " sslmode=require"
		}
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: open")
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &Store{db: db, driver: Postgres}, nil
}

func openSQLite(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	// One writer at a time keeps MAX(number)+1 serialized.
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &Store{db: db, driver: SQLite}, nil
}

// New wraps an already opened database.
func New(db *sql.DB, driver Driver) *Store {
	return &Store{db: db, driver: driver}
}

func (s *Store) Driver() Driver { return s.driver }

func (s *Store) Close() error {
	return s.db.Close()
}

// rebind rewrites ? placeholders to $n for postgres.
func (s *Store) rebind(query string) string {
	if s.driver != Postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Store) isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (s *Store) CreateUser(ctx context.Context, login, email, password string) (int, error) {
	var id int
	query := s.rebind("INSERT INTO users (login, email, password, created_at) VALUES (?, ?, ?, ?) RETURNING id")
	err := s.db.QueryRowContext(ctx, query, login, email, password, formatTime(time.Now())).Scan(&id)
	if err != nil {
		if s.isUniqueViolation(err) {
			return 0, eris.Wrapf(err, "repo: user %s exists", login)
		}
		return 0, eris.Wrap(err, "repo: create user")
	}
	return id, nil
}

// GetBylogin returns a zero id and empty hash for an unknown login.
func (s *Store) GetBylogin(ctx context.Context, login string) (int, string, error) {
	var id int
	var hash string

	query := s.rebind("SELECT id, password FROM users WHERE login = ?")
	err := s.db.QueryRowContext(ctx, query, login).Scan(&id, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, "", nil
		}
		return 0, "", eris.Wrap(err, "repo: get user")
	}
	return id, hash, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, eris.Errorf("repo: unparseable time %q", s)
}
