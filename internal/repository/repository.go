// Package repository содержит персистентный слой хранилища ссылок:
// файловый, in-memory и SQL бэкенды, а также отложенное сохранение снимков.
package repository

//go:generate mockgen -destination=mock_database.go -package=repository github.com/tempizhere/shortlinks/internal/repository Database

import (
	"context"
	"database/sql"

	"github.com/tempizhere/shortlinks/internal/models"
)

// Persister определяет интерфейс персистентного хранилища снимков
type Persister interface {
	// Load загружает все сохранённые ссылки
	Load(ctx context.Context) (map[string]models.Link, error)
	// Save полностью заменяет сохранённое состояние снимком links
	Save(ctx context.Context, links map[string]models.Link) error
}

// Database определяет интерфейс для работы с базой данных
type Database interface {
	// PingContext проверяет соединение с базой данных
	PingContext(ctx context.Context) error
	// Close закрывает соединение с базой данных
	Close() error
	// ExecContext выполняет SQL-команду без возврата результатов
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	// QueryContext выполняет SQL-запрос и возвращает результаты
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	// BeginTx начинает новую транзакцию
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}
