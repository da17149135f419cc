package proto

// ShortenRequest запрос на создание короткой ссылки
type ShortenRequest struct {
	URL string `json:"url"`
}

// ShortenResponse созданная короткая ссылка
type ShortenResponse struct {
	Code        string `json:"code"`
	ShortURL    string `json:"short_url"`
	OriginalURL string `json:"original_url"`
}

// ResolveRequest запрос перехода по коду
type ResolveRequest struct {
	Code string `json:"code"`
}

// ResolveResponse результат перехода. Found равен false для неизвестного кода.
type ResolveResponse struct {
	OriginalURL string `json:"original_url,omitempty"`
	Clicks      int64  `json:"clicks"`
	Found       bool   `json:"found"`
}

// StatsRequest запрос статистики
type StatsRequest struct{}

// StatsResponse статистика хранилища
type StatsResponse struct {
	Links  int64 `json:"links"`
	Clicks int64 `json:"clicks"`
}
