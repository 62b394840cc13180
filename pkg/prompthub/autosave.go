package prompthub

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Auto-save defaults.
const (
	DefaultSaveDebounce    = time.Second
	DefaultSaveMinInterval = 3 * time.Second
)

// SaveFunc persists the current edit state.
type SaveFunc func(ctx context.Context) error

// AutoSaveOptions configures an AutoSaver.
type AutoSaveOptions struct {
	// Debounce is the quiet period after the last change before saving.
	Debounce time.Duration
	// MinInterval is the minimum spacing between two save attempts.
	MinInterval time.Duration
	// OnError receives failed saves. Failures are not retried.
	OnError func(error)
}

// AutoSaver saves an edit session after changes settle, at most once per
// MinInterval. It is safe for concurrent use.
type AutoSaver struct {
	save     SaveFunc
	debounce time.Duration
	onError  func(error)
	limiter  *rate.Limiter

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
	closed  bool

	// saveMu keeps saves from overlapping.
	saveMu sync.Mutex
}

// NewAutoSaver creates an auto-saver for one edit session.
func NewAutoSaver(save SaveFunc, opts AutoSaveOptions) *AutoSaver {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultSaveDebounce
	}
	if opts.MinInterval <= 0 {
		opts.MinInterval = DefaultSaveMinInterval
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &AutoSaver{
		save:     save,
		debounce: opts.Debounce,
		onError:  opts.OnError,
		limiter:  rate.NewLimiter(rate.Every(opts.MinInterval), 1),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Changed records an edit and restarts the debounce window.
func (a *AutoSaver) Changed() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}
	a.pending = true
	a.schedule(a.debounce)
}

// Pending reports whether an edit is waiting to be saved.
func (a *AutoSaver) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending
}

// Flush saves immediately if an edit is pending, ignoring the debounce and
// spacing rules.
func (a *AutoSaver) Flush(ctx context.Context) error {
	a.mu.Lock()
	if !a.pending {
		a.mu.Unlock()
		return nil
	}
	a.pending = false
	if a.timer != nil {
		a.timer.Stop()
	}
	a.mu.Unlock()

	a.saveMu.Lock()
	defer a.saveMu.Unlock()
	return a.save(ctx)
}

// Close cancels any scheduled save and any save in flight.
func (a *AutoSaver) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.closed = true
	a.pending = false
	if a.timer != nil {
		a.timer.Stop()
	}
	a.cancel()
}

// schedule arms the timer. Callers hold mu.
func (a *AutoSaver) schedule(d time.Duration) {
	if a.timer == nil {
		a.timer = time.AfterFunc(d, a.fire)
		return
	}
	a.timer.Stop()
	a.timer.Reset(d)
}

func (a *AutoSaver) fire() {
	a.mu.Lock()
	if a.closed || !a.pending {
		a.mu.Unlock()
		return
	}

	now := time.Now()
	r := a.limiter.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		// Too soon after the last save; try again once the spacing allows.
		r.CancelAt(now)
		a.schedule(delay)
		a.mu.Unlock()
		return
	}
	a.pending = false
	a.mu.Unlock()

	a.saveMu.Lock()
	err := a.save(a.ctx)
	a.saveMu.Unlock()

	if err != nil && a.onError != nil {
		a.onError(err)
	}
}
