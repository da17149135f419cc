package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tempizhere/shortlinks/internal/models"
	"go.uber.org/zap"
)

const createLinksTable = `CREATE TABLE IF NOT EXISTS links (
    code VARCHAR(16) PRIMARY KEY,
    url TEXT NOT NULL,
    created_at BIGINT NOT NULL,
    last_clicked_at BIGINT,
    clicks BIGINT NOT NULL DEFAULT 0
)`

const selectLinks = "SELECT code, url, created_at, last_clicked_at, clicks FROM links"

const deleteLinks = "DELETE FROM links"

// SQLRepository хранит снимок ссылок в таблице links.
// Временные метки хранятся в миллисекундах Unix.
type SQLRepository struct {
	db      Database
	dialect Dialect
	insert  string
	logger  *zap.Logger
}

// NewSQLRepository создаёт репозиторий и таблицу links, если её нет
func NewSQLRepository(ctx context.Context, db Database, dialect Dialect, logger *zap.Logger) (*SQLRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &SQLRepository{
		db:      db,
		dialect: dialect,
		insert:  insertQuery(dialect),
		logger:  logger,
	}
	if _, err := db.ExecContext(ctx, createLinksTable); err != nil {
		return nil, fmt.Errorf("create links table: %w", err)
	}
	return r, nil
}

func insertQuery(d Dialect) string {
	args := make([]string, 5)
	for i := range args {
		args[i] = d.placeholder(i + 1)
	}
	return "INSERT INTO links (code, url, created_at, last_clicked_at, clicks) VALUES (" +
		strings.Join(args, ", ") + ")"
}

// Load читает все записи таблицы links
func (r *SQLRepository) Load(ctx context.Context) (map[string]models.Link, error) {
	rows, err := r.db.QueryContext(ctx, selectLinks)
	if err != nil {
		return nil, fmt.Errorf("query links: %w", err)
	}
	defer rows.Close()

	links := make(map[string]models.Link)
	for rows.Next() {
		var (
			link        models.Link
			createdAt   int64
			lastClicked sql.NullInt64
		)
		if err := rows.Scan(&link.Code, &link.OriginalURL, &createdAt, &lastClicked, &link.ClickCount); err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		link.CreatedAt = fromMillis(createdAt)
		if lastClicked.Valid {
			t := fromMillis(lastClicked.Int64)
			link.LastClickedAt = &t
		}
		if link.ClickCount < 0 {
			link.ClickCount = 0
		}
		links[link.Code] = link
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read links: %w", err)
	}
	return links, nil
}

// Save заменяет содержимое таблицы снимком в одной транзакции
func (r *SQLRepository) Save(ctx context.Context, links map[string]models.Link) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, deleteLinks); err != nil {
		tx.Rollback()
		return fmt.Errorf("clear links: %w", err)
	}

	codes := make([]string, 0, len(links))
	for code := range links {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		link := links[code]
		var lastClicked sql.NullInt64
		if link.LastClickedAt != nil {
			lastClicked = sql.NullInt64{Int64: link.LastClickedAt.UnixMilli(), Valid: true}
		}
		if _, err := tx.ExecContext(ctx, r.insert, code, link.OriginalURL, link.CreatedAt.UnixMilli(), lastClicked, link.ClickCount); err != nil {
			r.logger.Error("Failed to insert link", zap.String("code", code), zap.Error(err))
			tx.Rollback()
			return fmt.Errorf("insert link %s: %w", code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// PingContext проверяет соединение с базой данных
func (r *SQLRepository) PingContext(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close закрывает соединение с базой данных
func (r *SQLRepository) Close() error {
	return r.db.Close()
}

// Dialect возвращает диалект репозитория
func (r *SQLRepository) Dialect() Dialect {
	return r.dialect
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
