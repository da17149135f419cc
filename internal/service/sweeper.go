package service

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

const (
	// DefaultExpiryThreshold время неактивности, после которого ссылка удаляется
	DefaultExpiryThreshold = 72 * time.Hour
	// DefaultSweepInterval период проверки устаревших ссылок
	DefaultSweepInterval = time.Hour
)

// Expirer удаляет устаревшие записи
type Expirer interface {
	ExpireStale(now time.Time, threshold time.Duration) int
}

// Sweeper периодически удаляет устаревшие ссылки
type Sweeper struct {
	store     Expirer
	clock     clockwork.Clock
	interval  time.Duration
	threshold time.Duration
	logger    *zap.Logger
}

// NewSweeper создаёт новый Sweeper
func NewSweeper(store Expirer, clock clockwork.Clock, interval, threshold time.Duration, logger *zap.Logger) *Sweeper {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if threshold <= 0 {
		threshold = DefaultExpiryThreshold
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{
		store:     store,
		clock:     clock,
		interval:  interval,
		threshold: threshold,
		logger:    logger,
	}
}

// Run запускает периодическую очистку и блокируется до отмены контекста
func (s *Sweeper) Run(ctx context.Context) {
	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("Expiry sweeper started",
		zap.Duration("interval", s.interval),
		zap.Duration("threshold", s.threshold))

	for {
		select {
		case <-ticker.Chan():
			s.Sweep()
		case <-ctx.Done():
			s.logger.Info("Expiry sweeper stopped")
			return
		}
	}
}

// Sweep выполняет один проход очистки и возвращает количество удалённых записей
func (s *Sweeper) Sweep() int {
	removed := s.store.ExpireStale(s.clock.Now(), s.threshold)
	if removed > 0 {
		s.logger.Info("Expired stale links", zap.Int("removed", removed))
	}
	return removed
}
