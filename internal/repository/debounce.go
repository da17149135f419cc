package repository

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/tempizhere/shortlinks/internal/metrics"
	"github.com/tempizhere/shortlinks/internal/models"
	"go.uber.org/zap"
)

const (
	// DefaultSaveDebounce период тишины перед записью снимка
	DefaultSaveDebounce = 500 * time.Millisecond

	defaultWriteTimeout = 10 * time.Second
)

// DebouncedSaver откладывает сохранение до окончания периода тишины.
// Серия изменений в пределах периода даёт одну запись с последним состоянием.
type DebouncedSaver struct {
	persister Persister
	clock     clockwork.Clock
	delay     time.Duration
	logger    *zap.Logger

	mu       sync.Mutex
	timer    clockwork.Timer
	snapshot func() map[string]models.Link
	gen      uint64

	// writeMu упорядочивает записи, снимок берётся под ним
	writeMu sync.Mutex
}

// NewDebouncedSaver создаёт новый DebouncedSaver
func NewDebouncedSaver(persister Persister, clock clockwork.Clock, delay time.Duration, logger *zap.Logger) *DebouncedSaver {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if delay <= 0 {
		delay = DefaultSaveDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DebouncedSaver{
		persister: persister,
		clock:     clock,
		delay:     delay,
		logger:    logger,
	}
}

// Schedule отменяет ожидающую запись и планирует новую через период тишины.
// snapshot вызывается в момент записи.
func (d *DebouncedSaver) Schedule(snapshot func() map[string]models.Link) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.snapshot = snapshot
	d.timer = d.clock.AfterFunc(d.delay, func() { d.fire(gen) })
}

// Pending сообщает, есть ли запланированная запись
func (d *DebouncedSaver) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshot != nil
}

// Flush отменяет таймер и синхронно записывает ожидающий снимок.
// Также дожидается завершения записи, начатой таймером.
func (d *DebouncedSaver) Flush(ctx context.Context) error {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	snapshot := d.take(0, false)
	if snapshot == nil {
		return nil
	}
	return d.save(ctx, snapshot)
}

func (d *DebouncedSaver) fire(gen uint64) {
	snapshot := d.take(gen, true)
	if snapshot == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultWriteTimeout)
	defer cancel()
	_ = d.write(ctx, snapshot)
}

// take забирает ожидающий снимок. Для таймера проверяется, что он не устарел.
func (d *DebouncedSaver) take(gen uint64, fromTimer bool) func() map[string]models.Link {
	d.mu.Lock()
	defer d.mu.Unlock()

	if fromTimer && gen != d.gen {
		return nil
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	snapshot := d.snapshot
	d.snapshot = nil
	return snapshot
}

func (d *DebouncedSaver) write(ctx context.Context, snapshot func() map[string]models.Link) error {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()
	return d.save(ctx, snapshot)
}

func (d *DebouncedSaver) save(ctx context.Context, snapshot func() map[string]models.Link) error {
	links := snapshot()
	if err := d.persister.Save(ctx, links); err != nil {
		metrics.SaveFailures.Inc()
		d.logger.Error("Failed to persist links", zap.Int("links", len(links)), zap.Error(err))
		return err
	}
	metrics.Saves.Inc()
	d.logger.Debug("Links persisted", zap.Int("links", len(links)))
	return nil
}
