// Package app содержит HTTP-обработчики сервиса коротких ссылок.
package app

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/tempizhere/shortlinks/internal/models"
	"github.com/tempizhere/shortlinks/internal/service"
	"go.uber.org/zap"
)

const maxBodySize = 1 << 20

//go:embed assets/index.html assets/404.html
var assets embed.FS

var (
	indexPage    = mustAsset("assets/index.html")
	notFoundPage = mustAsset("assets/404.html")
)

func mustAsset(name string) []byte {
	data, err := assets.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return data
}

// LinkStore определяет операции хранилища ссылок, нужные обработчикам
type LinkStore interface {
	Create(rawURL string) (models.Link, error)
	Resolve(code string) (models.Link, bool)
	Stats() models.Stats
}

// Pinger проверяет доступность хранилища
type Pinger interface {
	PingContext(ctx context.Context) error
}

// App содержит хендлеры и зависимости
type App struct {
	store   LinkStore
	pinger  Pinger
	baseURL string
	logger  *zap.Logger
}

// NewApp создаёт новое приложение.
// pinger может быть nil, если хранилище не требует проверки соединения.
// Пустой baseURL означает, что адрес короткой ссылки строится из запроса.
func NewApp(store LinkStore, pinger Pinger, baseURL string, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{store: store, pinger: pinger, baseURL: baseURL, logger: logger}
}

// HandleIndex отдаёт HTML-страницу с формой сокращения
func (a *App) HandleIndex(w http.ResponseWriter, r *http.Request) {
	a.writeHTML(w, http.StatusOK, indexPage)
}

// HandleNotFound отдаёт страницу 404
func (a *App) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	a.writeHTML(w, http.StatusNotFound, notFoundPage)
}

// HandleShorten обрабатывает POST-запросы на "/shorten"
func (a *App) HandleShorten(w http.ResponseWriter, r *http.Request) {
	var req shortenBody
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		a.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	rawURL, err := req.url()
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	link, err := a.store.Create(rawURL)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidURL), errors.Is(err, service.ErrProhibitedContent):
			a.writeError(w, http.StatusBadRequest, err.Error())
		default:
			a.logger.Error("Failed to create link", zap.String("url", rawURL), zap.Error(err))
			a.writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	a.writeJSONResponse(w, http.StatusCreated, models.ShortenResponse{
		ShortURL:    a.shortURL(r, link.Code),
		Code:        link.Code,
		OriginalURL: link.OriginalURL,
	})
}

// shortenBody тело запроса на "/shorten". Поле url может прийти значением любого JSON-типа.
type shortenBody struct {
	URL json.RawMessage `json:"url"`
}

// url возвращает строковое значение поля url.
// null, false и 0 считаются отсутствующим URL, остальные нестроковые значения - невалидным.
func (b shortenBody) url() (string, error) {
	v := string(b.URL)
	if v == "" || v == "null" || v == "false" {
		return "", nil
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil && f == 0 {
		return "", nil
	}
	if v[0] != '"' {
		return "", service.ErrInvalidURL
	}
	var s string
	if err := json.Unmarshal(b.URL, &s); err != nil {
		return "", service.ErrInvalidURL
	}
	return s, nil
}

// HandleRedirect обрабатывает GET-запросы на "/{code}"
func (a *App) HandleRedirect(w http.ResponseWriter, r *http.Request) {
	link, ok := a.store.Resolve(chi.URLParam(r, "code"))
	if !ok {
		a.HandleNotFound(w, r)
		return
	}
	http.Redirect(w, r, link.OriginalURL, http.StatusFound)
}

// HandlePing обрабатывает GET-запросы на "/ping"
func (a *App) HandlePing(w http.ResponseWriter, r *http.Request) {
	if a.pinger != nil {
		if err := a.pinger.PingContext(r.Context()); err != nil {
			a.logger.Error("Storage ping failed", zap.Error(err))
			http.Error(w, "Storage connection failed", http.StatusInternalServerError)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
}

// HandleStats обрабатывает GET-запросы на "/api/internal/stats"
func (a *App) HandleStats(w http.ResponseWriter, r *http.Request) {
	a.writeJSONResponse(w, http.StatusOK, a.store.Stats())
}

// shortURL строит адрес короткой ссылки из базового URL или из запроса
func (a *App) shortURL(r *http.Request, code string) string {
	if a.baseURL != "" {
		return a.baseURL + "/" + code
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}
	return scheme + "://" + r.Host + "/" + code
}

func (a *App) writeError(w http.ResponseWriter, status int, msg string) {
	a.writeJSONResponse(w, status, models.ErrorResponse{Error: msg})
}

// writeJSONResponse пишет JSON-ответ с проверкой ошибок
func (a *App) writeJSONResponse(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		a.logger.Error("Failed to encode JSON", zap.Error(err))
		http.Error(w, "Failed to encode JSON", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		a.logger.Warn("Failed to write response", zap.Error(err))
	}
}

func (a *App) writeHTML(w http.ResponseWriter, status int, page []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(page); err != nil {
		a.logger.Warn("Failed to write response", zap.Error(err))
	}
}
