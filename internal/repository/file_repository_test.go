package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tempizhere/shortlinks/internal/models"
	"go.uber.org/zap"
)

func TestFileRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.json")
	repo := NewFileRepository(path, zap.NewNop())

	require.NoError(t, repo.Save(ctx, sampleLinks()))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleLinks(), loaded, "Load should return what was saved")

	// Повторная запись полностью заменяет содержимое
	require.NoError(t, repo.Save(ctx, map[string]models.Link{}))
	loaded, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestFileRepository_Layout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	repo := NewFileRepository(path, zap.NewNop())
	require.NoError(t, repo.Save(context.Background(), sampleLinks()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, map[string]any{
		"url":           "https://example.com/first",
		"createdAt":     "2024-03-10T08:30:15.123Z",
		"lastClickedAt": nil,
		"clicks":        float64(0),
	}, raw["abc123"])
	assert.Equal(t, "2024-03-10T10:30:15.123Z", raw["XYZ789"]["lastClickedAt"])
	assert.Contains(t, string(data), "\n  \"XYZ789\": {\n    \"url\"", "File should be indented with two spaces")
}

func TestFileRepository_Load(t *testing.T) {
	tests := []struct {
		name     string
		content  *string
		expected map[string]models.Link
	}{
		{
			name:     "missing file",
			content:  nil,
			expected: map[string]models.Link{},
		},
		{
			name:     "malformed json",
			content:  strPtr("{not json"),
			expected: map[string]models.Link{},
		},
		{
			name:     "wrong shape",
			content:  strPtr(`["a", "b"]`),
			expected: map[string]models.Link{},
		},
		{
			name:    "missing fields and unknown fields",
			content: strPtr(`{"abc123": {"url": "https://example.com", "extra": true}}`),
			expected: map[string]models.Link{
				"abc123": {Code: "abc123", OriginalURL: "https://example.com"},
			},
		},
		{
			name: "one malformed record among valid ones",
			content: strPtr(`{
				"good01": {"url": "https://example.com", "createdAt": "2024-03-10T08:30:15.123Z", "lastClickedAt": null, "clicks": 1},
				"bad001": {"url": "https://example.org", "createdAt": "2024-03-10T08:30:15.123Z", "lastClickedAt": null, "clicks": "3"},
				"bad002": "not an object"
			}`),
			expected: map[string]models.Link{
				"good01": {Code: "good01", OriginalURL: "https://example.com", CreatedAt: testTime, ClickCount: 1},
			},
		},
		{
			name:    "written by another tool",
			content: strPtr(`{"q1w2e3": {"url": "https://example.com", "createdAt": "2024-03-10T08:30:15.123Z", "lastClickedAt": null, "clicks": 3}}`),
			expected: map[string]models.Link{
				"q1w2e3": {Code: "q1w2e3", OriginalURL: "https://example.com", CreatedAt: testTime, ClickCount: 3},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "data.json")
			if tt.content != nil {
				require.NoError(t, os.WriteFile(path, []byte(*tt.content), 0644))
			}

			loaded, err := NewFileRepository(path, zap.NewNop()).Load(context.Background())
			assert.NoError(t, err, "Load should not fail on bad content")
			assert.Equal(t, tt.expected, loaded)
		})
	}
}

func TestFileRepository_NonExistentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "nested", "data.json")
	repo := NewFileRepository(path, nil)

	require.NoError(t, repo.Save(context.Background(), sampleLinks()), "Save should create missing directories")
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestFileRepository_NoTempLeftovers(t *testing.T) {
	dir := t.TempDir()
	repo := NewFileRepository(filepath.Join(dir, "data.json"), zap.NewNop())

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Save(context.Background(), sampleLinks()))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "Only the storage file should remain")
	assert.Equal(t, "data.json", entries[0].Name())
}

func TestFileRepository_SaveError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	repo := NewFileRepository(filepath.Join(blocker, "data.json"), zap.NewNop())
	assert.Error(t, repo.Save(context.Background(), sampleLinks()), "Save should fail when the parent is a file")
}

func strPtr(s string) *string { return &s }
