package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tempizhere/shortlinks/internal/models"
	"go.uber.org/zap"
)

// FileRepository хранит снимок ссылок в JSON-файле, ключом записи является код
type FileRepository struct {
	filePath string
	logger   *zap.Logger
}

// NewFileRepository создаёт новый экземпляр FileRepository
func NewFileRepository(filePath string, logger *zap.Logger) *FileRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileRepository{
		filePath: filePath,
		logger:   logger,
	}
}

// Path возвращает путь к файлу хранилища
func (r *FileRepository) Path() string {
	return r.filePath
}

// Load читает файл хранилища.
// Отсутствующий или повреждённый файл даёт пустую таблицу без ошибки,
// нечитаемые записи пропускаются по одной.
func (r *FileRepository) Load(_ context.Context) (map[string]models.Link, error) {
	data, err := os.ReadFile(r.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.logger.Info("Storage file not found, starting empty", zap.String("path", r.filePath))
			return map[string]models.Link{}, nil
		}
		return nil, fmt.Errorf("read storage file: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		r.logger.Warn("Storage file is malformed, starting empty", zap.String("path", r.filePath), zap.Error(err))
		return map[string]models.Link{}, nil
	}

	links := make(map[string]models.Link, len(raw))
	for code, value := range raw {
		var s models.StoredLink
		if err := json.Unmarshal(value, &s); err != nil {
			r.logger.Warn("Skipping malformed link record",
				zap.String("path", r.filePath), zap.String("code", code), zap.Error(err))
			continue
		}
		links[code] = s.Link(code)
	}
	return links, nil
}

// Save записывает снимок во временный файл и атомарно заменяет им файл хранилища
func (r *FileRepository) Save(_ context.Context, links map[string]models.Link) error {
	stored := make(map[string]models.StoredLink, len(links))
	for code, link := range links {
		stored[code] = link.Stored()
	}
	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("encode links: %w", err)
	}

	dir := filepath.Dir(r.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.filePath)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, r.filePath); err != nil {
		return fmt.Errorf("replace storage file: %w", err)
	}
	return nil
}
