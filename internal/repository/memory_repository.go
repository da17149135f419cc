package repository

import (
	"context"
	"sync"

	"github.com/tempizhere/shortlinks/internal/models"
)

// MemoryRepository хранит последний сохранённый снимок в памяти
type MemoryRepository struct {
	mu    sync.Mutex
	links map[string]models.Link
	saves int
}

// NewMemoryRepository создаёт новый экземпляр MemoryRepository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		links: make(map[string]models.Link),
	}
}

// Load возвращает копию последнего снимка
func (r *MemoryRepository) Load(_ context.Context) (map[string]models.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return copyLinks(r.links), nil
}

// Save заменяет снимок копией links
func (r *MemoryRepository) Save(_ context.Context, links map[string]models.Link) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.links = copyLinks(links)
	r.saves++
	return nil
}

// Saves возвращает количество выполненных сохранений
func (r *MemoryRepository) Saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

func copyLinks(links map[string]models.Link) map[string]models.Link {
	out := make(map[string]models.Link, len(links))
	for code, link := range links {
		out[code] = link.Clone()
	}
	return out
}
