package repository

import (
	"time"

	"github.com/tempizhere/shortlinks/internal/models"
)

var testTime = time.Date(2024, 3, 10, 8, 30, 15, 123_000_000, time.UTC)

// sampleLinks возвращает тестовый снимок с кликнутой и некликнутой ссылкой
func sampleLinks() map[string]models.Link {
	clicked := testTime.Add(2 * time.Hour)
	return map[string]models.Link{
		"abc123": {
			Code:        "abc123",
			OriginalURL: "https://example.com/first",
			CreatedAt:   testTime,
		},
		"XYZ789": {
			Code:          "XYZ789",
			OriginalURL:   "https://example.org/second?q=1",
			CreatedAt:     testTime.Add(time.Minute),
			LastClickedAt: &clicked,
			ClickCount:    42,
		},
	}
}
