package cart

import (
	"sync"
	"time"

	"github.com/MonkyMars/gecho"
)

// GuardState is the state of a stale-cart prompt
type GuardState int

const (
	GuardUnchecked GuardState = iota
	GuardShown
	GuardDismissed
)

const (
	DefaultStaleAfter  = 24 * time.Hour
	DefaultSettleDelay = 500 * time.Millisecond
)

func (s GuardState) String() string {
	switch s {
	case GuardShown:
		return "shown"
	case GuardDismissed:
		return "dismissed"
	default:
		return "unchecked"
	}
}

// StalenessGuard decides once per mount whether a restored cart is old enough
// to offer clearing it. A cart without a last-added timestamp counts as stale.
type StalenessGuard struct {
	mu          sync.Mutex
	engine      *Engine
	logger      *gecho.Logger
	now         func() time.Time
	staleAfter  time.Duration
	settleDelay time.Duration
	onChange    func(GuardState)

	state   GuardState
	checked bool
	timer   *time.Timer
}

type GuardOption func(*StalenessGuard)

func WithStaleAfter(d time.Duration) GuardOption {
	return func(g *StalenessGuard) {
		if d > 0 {
			g.staleAfter = d
		}
	}
}

func WithSettleDelay(d time.Duration) GuardOption {
	return func(g *StalenessGuard) {
		if d >= 0 {
			g.settleDelay = d
		}
	}
}

func WithGuardClock(now func() time.Time) GuardOption {
	return func(g *StalenessGuard) {
		g.now = now
	}
}

// WithOnChange registers a callback invoked after every state transition
func WithOnChange(fn func(GuardState)) GuardOption {
	return func(g *StalenessGuard) {
		g.onChange = fn
	}
}

func NewStalenessGuard(engine *Engine, opts ...GuardOption) *StalenessGuard {
	g := &StalenessGuard{
		engine:      engine,
		logger:      engine.logger,
		now:         time.Now,
		staleAfter:  DefaultStaleAfter,
		settleDelay: DefaultSettleDelay,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Mount schedules the one-time evaluation after the settle delay
func (g *StalenessGuard) Mount() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.timer != nil || g.checked {
		return
	}
	g.timer = time.AfterFunc(g.settleDelay, func() {
		g.Evaluate()
	})
}

// Unmount cancels an evaluation that has not fired yet
func (g *StalenessGuard) Unmount() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
}

// Evaluate makes the staleness decision if it has not been made yet.
// An empty cart leaves the guard unchecked so a later call can still decide.
func (g *StalenessGuard) Evaluate() GuardState {
	g.mu.Lock()

	if g.checked {
		defer g.mu.Unlock()
		return g.state
	}

	if g.engine.IsEmpty() {
		defer g.mu.Unlock()
		g.timer = nil
		return GuardUnchecked
	}

	elapsed, known, err := g.elapsed()
	if err != nil {
		// a failed read is not a missing timestamp; decide on a later call
		defer g.mu.Unlock()
		g.timer = nil
		return GuardUnchecked
	}

	next := GuardDismissed
	if !known || elapsed >= g.staleAfter {
		next = GuardShown
	}

	g.logger.Debug("Evaluated cart staleness",
		gecho.Field("state", next.String()),
		gecho.Field("elapsed", elapsed.String()),
		gecho.Field("timestamp_known", known),
	)

	g.checked = true
	g.timer = nil
	g.state = next
	g.mu.Unlock()

	g.notify(next)
	return next
}

// Clear empties the cart and dismisses the prompt. Only acts while shown.
func (g *StalenessGuard) Clear() GuardState {
	return g.resolve(true)
}

// Continue keeps the cart and dismisses the prompt
func (g *StalenessGuard) Continue() GuardState {
	return g.resolve(false)
}

// DismissBackdrop is the same as Continue
func (g *StalenessGuard) DismissBackdrop() GuardState {
	return g.resolve(false)
}

func (g *StalenessGuard) State() GuardState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *StalenessGuard) resolve(clearCart bool) GuardState {
	g.mu.Lock()

	if g.state != GuardShown {
		defer g.mu.Unlock()
		return g.state
	}

	if clearCart {
		g.engine.ClearCart()
	}
	g.state = GuardDismissed
	g.mu.Unlock()

	g.notify(GuardDismissed)
	return GuardDismissed
}

// elapsed returns the time since the last addition. known is false when no
// usable timestamp exists.
func (g *StalenessGuard) elapsed() (time.Duration, bool, error) {
	addedAt, ok, err := g.engine.readLastItemAddedAt()
	if err != nil || !ok {
		return 0, false, err
	}
	return g.now().Sub(addedAt), true, nil
}

func (g *StalenessGuard) notify(state GuardState) {
	if g.onChange != nil {
		g.onChange(state)
	}
}
