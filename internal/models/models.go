// Package models содержит типы данных сервиса коротких ссылок
package models

import "time"

// TimeLayout формат временных меток в хранилище (ISO-8601, UTC, миллисекунды)
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Link представляет запись о короткой ссылке
type Link struct {
	Code          string
	OriginalURL   string
	CreatedAt     time.Time
	LastClickedAt *time.Time
	ClickCount    int64
}

// LastActivity возвращает время последнего перехода, а если переходов не было - время создания
func (l Link) LastActivity() time.Time {
	if l.LastClickedAt != nil {
		return *l.LastClickedAt
	}
	return l.CreatedAt
}

// Clone возвращает копию записи, не разделяющую указатели с оригиналом
func (l Link) Clone() Link {
	if l.LastClickedAt != nil {
		t := *l.LastClickedAt
		l.LastClickedAt = &t
	}
	return l
}

// Stored преобразует запись в формат хранилища
func (l Link) Stored() StoredLink {
	s := StoredLink{
		URL:       l.OriginalURL,
		CreatedAt: formatTime(l.CreatedAt),
		Clicks:    l.ClickCount,
	}
	if l.LastClickedAt != nil {
		v := formatTime(*l.LastClickedAt)
		s.LastClickedAt = &v
	}
	return s
}

// StoredLink представляет значение записи в файле хранилища
type StoredLink struct {
	URL           string  `json:"url"`
	CreatedAt     string  `json:"createdAt"`
	LastClickedAt *string `json:"lastClickedAt"`
	Clicks        int64   `json:"clicks"`
}

// Link восстанавливает запись из формата хранилища.
// Отсутствующие и нечитаемые временные метки превращаются в нулевые значения.
func (s StoredLink) Link(code string) Link {
	l := Link{
		Code:        code,
		OriginalURL: s.URL,
		CreatedAt:   parseTime(s.CreatedAt),
		ClickCount:  s.Clicks,
	}
	if l.ClickCount < 0 {
		l.ClickCount = 0
	}
	if s.LastClickedAt != nil && *s.LastClickedAt != "" {
		if t := parseTime(*s.LastClickedAt); !t.IsZero() {
			l.LastClickedAt = &t
		}
	}
	return l
}

// Stats содержит сводную статистику хранилища
type Stats struct {
	Links  int   `json:"links"`
	Clicks int64 `json:"clicks"`
}

// ShortenRequest тело запроса на сокращение ссылки
type ShortenRequest struct {
	URL string `json:"url"`
}

// ShortenResponse тело ответа с созданной короткой ссылкой
type ShortenResponse struct {
	ShortURL    string `json:"short_url"`
	Code        string `json:"code"`
	OriginalURL string `json:"original_url"`
}

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

func parseTime(v string) time.Time {
	if v == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
