package models_test

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tempizhere/shortlinks/internal/models"
)

// ExampleLink_Stored демонстрирует преобразование записи в формат файла хранилища
func ExampleLink_Stored() {
	link := models.Link{
		Code:        "abc123",
		OriginalURL: "https://example.com/very-long-url",
		CreatedAt:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	jsonData, _ := json.Marshal(link.Stored())
	fmt.Printf("JSON запись: %s\n", jsonData)

	// Output:
	// JSON запись: {"url":"https://example.com/very-long-url","createdAt":"2024-05-01T12:00:00.000Z","lastClickedAt":null,"clicks":0}
}

// ExampleStoredLink_Link демонстрирует чтение записи, сохранённой в старом формате
func ExampleStoredLink_Link() {
	var stored models.StoredLink
	_ = json.Unmarshal([]byte(`{"url":"https://example.com","createdAt":"2024-05-01T12:00:00.000Z","lastClickedAt":"2024-05-02T08:30:00.250Z","clicks":3,"extra":true}`), &stored)

	link := stored.Link("abc123")
	fmt.Printf("Код: %s\n", link.Code)
	fmt.Printf("Переходов: %d\n", link.ClickCount)
	fmt.Printf("Последняя активность: %s\n", link.LastActivity().Format(time.RFC3339Nano))

	// Output:
	// Код: abc123
	// Переходов: 3
	// Последняя активность: 2024-05-02T08:30:00.25Z
}

// ExampleShortenResponse демонстрирует ответ на запрос сокращения ссылки
func ExampleShortenResponse() {
	resp := models.ShortenResponse{
		ShortURL:    "http://localhost:3000/abc123",
		Code:        "abc123",
		OriginalURL: "https://example.com",
	}

	jsonData, _ := json.Marshal(resp)
	fmt.Printf("JSON ответ: %s\n", jsonData)

	// Output:
	// JSON ответ: {"short_url":"http://localhost:3000/abc123","code":"abc123","original_url":"https://example.com"}
}
