package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Dialect диалект SQL бэкенда
type Dialect int

const (
	// DialectSQLite SQLite через modernc.org/sqlite
	DialectSQLite Dialect = iota
	// DialectPostgres PostgreSQL через pgx
	DialectPostgres
)

// ErrUnsupportedDSN возвращается для строки подключения неизвестного вида
var ErrUnsupportedDSN = errors.New("unsupported database dsn")

// String возвращает имя диалекта
func (d Dialect) String() string {
	if d == DialectPostgres {
		return "postgres"
	}
	return "sqlite"
}

func (d Dialect) driver() string {
	if d == DialectPostgres {
		return "pgx"
	}
	return "sqlite"
}

// placeholder возвращает плейсхолдер аргумента n (с единицы)
func (d Dialect) placeholder(n int) string {
	if d == DialectPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// ParseDSN определяет диалект по строке подключения и возвращает DSN для драйвера.
// sqlite:path и file:path открываются SQLite, postgres:// и postgresql:// открываются PostgreSQL.
func ParseDSN(dsn string) (Dialect, string, error) {
	switch {
	case strings.HasPrefix(dsn, "sqlite:"):
		path := strings.TrimPrefix(strings.TrimPrefix(dsn, "sqlite:"), "//")
		if path == "" {
			return 0, "", fmt.Errorf("%w: empty sqlite path", ErrUnsupportedDSN)
		}
		return DialectSQLite, path, nil
	case strings.HasPrefix(dsn, "file:"):
		return DialectSQLite, dsn, nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return DialectPostgres, dsn, nil
	}
	return 0, "", ErrUnsupportedDSN
}

// OpenDB открывает подключение к базе данных и проверяет его
func OpenDB(ctx context.Context, dsn string) (*sql.DB, Dialect, error) {
	dialect, driverDSN, err := ParseDSN(dsn)
	if err != nil {
		return nil, 0, err
	}

	conn, err := sql.Open(dialect.driver(), driverDSN)
	if err != nil {
		return nil, 0, fmt.Errorf("open %s: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		conn.SetMaxOpenConns(1)
		if _, err := conn.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
			conn.Close()
			return nil, 0, fmt.Errorf("configure sqlite: %w", err)
		}
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, 0, fmt.Errorf("ping %s: %w", dialect, err)
	}
	return conn, dialect, nil
}
