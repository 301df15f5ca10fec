// Package watch keeps a fetched collection fresh on a fixed interval.
package watch

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/clinic-admin-api/internal/dataview"
	"github.com/noah-isme/clinic-admin-api/pkg/apiclient"
)

// DefaultInterval is the refresh cadence used when none is configured.
const DefaultInterval = 30 * time.Second

// FetchFunc loads the full raw collection.
type FetchFunc[R any] func(ctx context.Context) ([]R, error)

// Snapshot is one applied fetch with stats recomputed from it.
type Snapshot[R any] struct {
	Records   []R
	Stats     dataview.Stats
	FetchedAt time.Time
	Sequence  uint64
}

// Options tune a Watcher.
type Options struct {
	Interval time.Duration
	// Sequenced drops responses that land after a newer one was applied.
	// Without it the last response to arrive wins.
	Sequenced bool
	Logger    *zap.Logger
	Now       func() time.Time
}

// Watcher owns one collection. Every applied fetch replaces the records and
// re-runs the aggregator over them.
type Watcher[R any] struct {
	view     *dataview.View[R]
	fetch    FetchFunc[R]
	interval time.Duration
	seq      *apiclient.Sequencer
	logger   *zap.Logger
	now      func() time.Time

	mu       sync.RWMutex
	snapshot Snapshot[R]
	ready    bool
	lastErr  error
	issued   uint64
	onUpdate []func(Snapshot[R])
}

// New builds a watcher over view.
func New[R any](view *dataview.View[R], fetch FetchFunc[R], opts Options) *Watcher[R] {
	w := &Watcher[R]{
		view:     view,
		fetch:    fetch,
		interval: opts.Interval,
		logger:   opts.Logger,
		now:      opts.Now,
	}
	if w.interval <= 0 {
		w.interval = DefaultInterval
	}
	if w.logger == nil {
		w.logger = zap.NewNop()
	}
	if w.now == nil {
		w.now = time.Now
	}
	if opts.Sequenced {
		w.seq = &apiclient.Sequencer{}
	}
	return w
}

// OnUpdate registers a callback invoked after each applied snapshot.
func (w *Watcher[R]) OnUpdate(fn func(Snapshot[R])) {
	w.mu.Lock()
	w.onUpdate = append(w.onUpdate, fn)
	w.mu.Unlock()
}

// Run fetches immediately and then on every tick until ctx is done. Ticks do
// not wait for an outstanding fetch.
func (w *Watcher[R]) Run(ctx context.Context) error {
	return Every(ctx, w.interval, func(ctx context.Context) {
		_ = w.Refresh(ctx)
	})
}

// Every calls fn at once and then on every tick until ctx is done. Each call
// runs in its own goroutine, so a slow call never delays the next tick. Every
// waits for outstanding calls before returning ctx.Err().
func Every(ctx context.Context, interval time.Duration, fn func(context.Context)) error {
	if interval <= 0 {
		interval = DefaultInterval
	}
	var wg sync.WaitGroup
	defer wg.Wait()

	launch := func() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(ctx)
		}()
	}

	launch()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			launch()
		}
	}
}

// Refresh performs one fetch and applies it. On failure the previous snapshot
// is kept and the error is returned.
func (w *Watcher[R]) Refresh(ctx context.Context) error {
	id := w.nextID()
	records, err := w.fetch(ctx)
	if err != nil {
		w.mu.Lock()
		w.lastErr = err
		w.mu.Unlock()
		w.logger.Warn("collection refresh failed", zap.String("entity", w.view.Name()), zap.Error(err))
		return err
	}
	w.apply(id, records)
	return nil
}

func (w *Watcher[R]) nextID() uint64 {
	if w.seq != nil {
		return w.seq.Next()
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.issued++
	return w.issued
}

func (w *Watcher[R]) apply(id uint64, records []R) {
	if w.seq != nil && !w.seq.Apply(id) {
		w.logger.Debug("stale response dropped", zap.String("entity", w.view.Name()), zap.Uint64("sequence", id))
		return
	}
	if records == nil {
		records = []R{}
	}
	now := w.now()
	snap := Snapshot[R]{
		Records:   records,
		Stats:     w.view.Aggregate(records, w.view.Clock(now)),
		FetchedAt: now,
		Sequence:  id,
	}

	w.mu.Lock()
	w.snapshot = snap
	w.ready = true
	w.lastErr = nil
	callbacks := append([]func(Snapshot[R]){}, w.onUpdate...)
	w.mu.Unlock()

	for _, fn := range callbacks {
		fn(snap)
	}
}

// Snapshot returns the last applied snapshot and whether one exists yet.
func (w *Watcher[R]) Snapshot() (Snapshot[R], bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.snapshot, w.ready
}

// Err returns the error of the most recent failed fetch, cleared by the next applied one.
func (w *Watcher[R]) Err() error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastErr
}

// Query runs the view over the current snapshot.
func (w *Watcher[R]) Query(q dataview.Query) dataview.Result[R] {
	snap, _ := w.Snapshot()
	return w.view.Apply(snap.Records, q, w.now())
}
