// Package service содержит хранилище коротких ссылок: генерацию кодов,
// учёт переходов и удаление устаревших записей.
package service

import (
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/tempizhere/shortlinks/internal/metrics"
	"github.com/tempizhere/shortlinks/internal/models"
	"go.uber.org/zap"
)

const (
	// DefaultCodeLength длина генерируемого кода
	DefaultCodeLength = 6
	// MaxCodeLength максимальная длина кода при расширении после коллизий
	MaxCodeLength = 10

	attemptsPerLength = 5
)

// DefaultDenylist подстроки, при наличии которых ссылка отклоняется
var DefaultDenylist = []string{"virus", "malware", "scam"}

// validationError ошибка валидации с собственным текстом, относящаяся к более общей ошибке
type validationError struct {
	msg  string
	kind error
}

func (e *validationError) Error() string { return e.msg }

func (e *validationError) Unwrap() error { return e.kind }

var (
	// ErrInvalidURL URL не разбирается или не содержит схему и хост
	ErrInvalidURL = errors.New("invalid url")
	// ErrURLRequired URL не передан; errors.Is(err, ErrInvalidURL) для неё истинно
	ErrURLRequired = error(&validationError{msg: "url is required", kind: ErrInvalidURL})
	// ErrProhibitedContent URL содержит подстроку из списка запрещённых
	ErrProhibitedContent = errors.New("url contains prohibited content")
	// ErrCodeSpaceExhausted не удалось подобрать свободный код
	ErrCodeSpaceExhausted = errors.New("failed to generate unique code")
)

// Saver планирует отложенное сохранение снимка хранилища
type Saver interface {
	Schedule(snapshot func() map[string]models.Link)
}

// Option настраивает Service
type Option func(*Service)

// WithClock задаёт источник времени
func WithClock(c clockwork.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithGenerator задаёт генератор кодов
func WithGenerator(g CodeGenerator) Option {
	return func(s *Service) { s.gen = g }
}

// WithDenylist задаёт список запрещённых подстрок
func WithDenylist(words []string) Option {
	return func(s *Service) {
		s.denylist = make([]string, 0, len(words))
		for _, w := range words {
			if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
				s.denylist = append(s.denylist, w)
			}
		}
	}
}

// WithLogger задаёт логгер
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithCodeLength задаёт начальную длину кода
func WithCodeLength(n int) Option {
	return func(s *Service) {
		if n >= DefaultCodeLength && n <= MaxCodeLength {
			s.codeLength = n
		}
	}
}

// WithReservedCodes задаёт коды, которые не выдаются (например, совпадающие с маршрутами)
func WithReservedCodes(codes ...string) Option {
	return func(s *Service) {
		for _, c := range codes {
			s.reserved[c] = struct{}{}
		}
	}
}

// Service владеет таблицей коротких ссылок.
// Все операции выполняются под одной блокировкой.
type Service struct {
	mu         sync.Mutex
	links      map[string]*models.Link
	saver      Saver
	gen        CodeGenerator
	clock      clockwork.Clock
	denylist   []string
	reserved   map[string]struct{}
	codeLength int
	logger     *zap.Logger
}

// NewService создаёт хранилище с начальными данными, загруженными из персистентного слоя
func NewService(initial map[string]models.Link, saver Saver, opts ...Option) *Service {
	s := &Service{
		links:      make(map[string]*models.Link, len(initial)),
		saver:      saver,
		gen:        NewRandomGenerator(),
		clock:      clockwork.NewRealClock(),
		reserved:   make(map[string]struct{}),
		codeLength: DefaultCodeLength,
		logger:     zap.NewNop(),
	}
	WithDenylist(DefaultDenylist)(s)
	for _, opt := range opts {
		opt(s)
	}
	for code, link := range initial {
		l := link.Clone()
		l.Code = code
		s.links[code] = &l
	}
	metrics.Links.Set(float64(len(s.links)))
	return s
}

// Create проверяет URL, выдаёт уникальный код и сохраняет новую запись
func (s *Service) Create(rawURL string) (models.Link, error) {
	if err := s.validate(rawURL); err != nil {
		reason := metrics.ReasonInvalidURL
		if errors.Is(err, ErrProhibitedContent) {
			reason = metrics.ReasonProhibited
		}
		metrics.CreateRejected.WithLabelValues(reason).Inc()
		return models.Link{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	code, ok := s.uniqueCodeLocked()
	if !ok {
		metrics.CreateRejected.WithLabelValues(metrics.ReasonExhausted).Inc()
		s.logger.Error("Code space exhausted", zap.Int("links", len(s.links)))
		return models.Link{}, ErrCodeSpaceExhausted
	}

	link := &models.Link{
		Code:        code,
		OriginalURL: rawURL,
		CreatedAt:   s.now(),
	}
	s.links[code] = link
	s.scheduleLocked()

	metrics.LinksCreated.Inc()
	metrics.Links.Set(float64(len(s.links)))
	s.logger.Debug("Link created", zap.String("code", code), zap.String("original_url", rawURL))
	return link.Clone(), nil
}

// Resolve возвращает запись по коду и учитывает переход.
// Для неизвестного кода возвращает false и ничего не меняет.
func (s *Service) Resolve(code string) (models.Link, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	link, exists := s.links[code]
	if !exists {
		metrics.RedirectMisses.Inc()
		return models.Link{}, false
	}
	now := s.now()
	link.ClickCount++
	link.LastClickedAt = &now
	s.scheduleLocked()

	metrics.Redirects.Inc()
	return link.Clone(), true
}

// ExpireStale удаляет записи, неактивные дольше threshold, и возвращает их количество
func (s *Service) ExpireStale(now time.Time, threshold time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for code, link := range s.links {
		if now.Sub(link.LastActivity()) > threshold {
			delete(s.links, code)
			removed++
		}
	}
	if removed > 0 {
		s.scheduleLocked()
		metrics.LinksExpired.Add(float64(removed))
		metrics.Links.Set(float64(len(s.links)))
	}
	return removed
}

// Snapshot возвращает копию всех записей
func (s *Service) Snapshot() map[string]models.Link {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]models.Link, len(s.links))
	for code, link := range s.links {
		out[code] = link.Clone()
	}
	return out
}

// Stats возвращает количество записей и суммарное число переходов
func (s *Service) Stats() models.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := models.Stats{Links: len(s.links)}
	for _, link := range s.links {
		stats.Clicks += link.ClickCount
	}
	return stats
}

// Len возвращает количество записей
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.links)
}

func (s *Service) validate(rawURL string) error {
	if rawURL == "" {
		return ErrURLRequired
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return ErrInvalidURL
	}
	lower := strings.ToLower(rawURL)
	for _, word := range s.denylist {
		if strings.Contains(lower, word) {
			return ErrProhibitedContent
		}
	}
	return nil
}

// uniqueCodeLocked подбирает свободный код, расширяя длину после серии коллизий
func (s *Service) uniqueCodeLocked() (string, bool) {
	for length := s.codeLength; length <= MaxCodeLength; length++ {
		for i := 0; i < attemptsPerLength; i++ {
			code := s.gen.Generate(length)
			if len(code) < DefaultCodeLength {
				continue
			}
			if _, reserved := s.reserved[code]; reserved {
				continue
			}
			if _, exists := s.links[code]; !exists {
				return code, true
			}
		}
		if length < MaxCodeLength {
			s.logger.Warn("Code collisions, widening code", zap.Int("length", length+1))
		}
	}
	return "", false
}

func (s *Service) scheduleLocked() {
	if s.saver != nil {
		s.saver.Schedule(s.Snapshot)
	}
}

func (s *Service) now() time.Time {
	return s.clock.Now().UTC().Truncate(time.Millisecond)
}
