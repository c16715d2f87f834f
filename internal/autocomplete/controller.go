package autocomplete

import (
	"context"
	"sync"
	"time"

	"onboard/internal/debug"
)

// Searcher looks up options for a query. Implementations should honour ctx.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Option, error)
}

// SearchFunc adapts a function to the Searcher interface.
type SearchFunc func(ctx context.Context, query string) ([]Option, error)

// Search implements Searcher.
func (f SearchFunc) Search(ctx context.Context, query string) ([]Option, error) {
	return f(ctx, query)
}

// Host receives the controller's notifications. Nil callbacks are skipped.
type Host struct {
	OnSelect func(value string, opt Option)
	OnClear  func()
	OnFocus  func()
	OnBlur   func()
}

// Stopper is a cancellable timer.
type Stopper interface {
	Stop() bool
}

// AfterFunc schedules f after d and returns a handle to stop it.
type AfterFunc func(d time.Duration, f func()) Stopper

func realAfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}

var logger = debug.Scope("autocomplete")

// ControllerOption customizes a Controller.
type ControllerOption func(*Controller)

// WithAfterFunc replaces the timer implementation. Tests use it to fire
// timers by hand. fn is called with the controller lock held and must not
// invoke f synchronously.
func WithAfterFunc(fn AfterFunc) ControllerOption {
	return func(c *Controller) {
		if fn != nil {
			c.afterFunc = fn
		}
	}
}

// WithFailureLogger replaces the sink for search failures.
func WithFailureLogger(fn func(format string, args ...any)) ControllerOption {
	return func(c *Controller) {
		if fn != nil {
			c.logf = fn
		}
	}
}

// Controller runs the state machine for hosts outside Bubble Tea. It is safe
// for concurrent use: timer callbacks and search completions arrive on their
// own goroutines and are serialized through one mutex. Host callbacks run
// after the lock is released, in effect order.
type Controller struct {
	mu       sync.Mutex
	state    State
	timer    Stopper
	timerGen uint64
	closed   bool

	searcher  Searcher
	host      Host
	afterFunc AfterFunc
	logf      func(format string, args ...any)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewController creates a controller seeded with the host's value.
func NewController(cfg Config, value string, searcher Searcher, host Host, opts ...ControllerOption) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		state:     New(cfg, value),
		searcher:  searcher,
		host:      host,
		afterFunc: realAfterFunc,
		logf:      logger.Logf,
		ctx:       ctx,
		cancel:    cancel,
	}
	if c.searcher == nil {
		c.searcher = SearchFunc(noSearch)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// InputChange handles a keystroke that changed the text.
func (c *Controller) InputChange(text string) { c.dispatch(InputChanged{Text: text}) }

// Focus handles the input gaining focus.
func (c *Controller) Focus() { c.dispatch(Focused{}) }

// Blur handles the input losing focus.
func (c *Controller) Blur(intoDropdown bool) { c.dispatch(Blurred{IntoDropdown: intoDropdown}) }

// Clear handles the clear affordance.
func (c *Controller) Clear() { c.dispatch(Cleared{}) }

// Select commits an option.
func (c *Controller) Select(opt Option) { c.dispatch(Selected{Option: opt}) }

// KeyDown handles a navigation key.
func (c *Controller) KeyDown(key Key) { c.dispatch(KeyPressed{Key: key}) }

// SetValue syncs the host's controlled value.
func (c *Controller) SetValue(value string) { c.dispatch(ValueSynced{Value: value}) }

// SetDisabled toggles interaction.
func (c *Controller) SetDisabled(disabled bool) { c.dispatch(DisabledSet{Disabled: disabled}) }

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.Options = append([]Option(nil), s.Options...)
	return s
}

// Close stops the pending timer, cancels in-flight searches and waits for
// their goroutines. Events after Close are ignored.
func (c *Controller) Close() {
	c.dispatch(TornDown{})
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.cancel()
	c.wg.Wait()
}

func (c *Controller) dispatch(ev Event) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	next, effects := Reduce(c.state, ev)
	c.state = next

	var notify []func()
	for _, eff := range effects {
		switch e := eff.(type) {
		case ArmTimer:
			c.armLocked(e)
		case CancelTimer:
			if c.timer != nil && c.timerGen == e.Gen {
				c.timer.Stop()
				c.timer = nil
			}
		case IssueSearch:
			c.searchAsync(e)
		case ReportFailure:
			c.logf("search %q failed: %v", e.Query, e.Err)
		case NotifySelect:
			if fn := c.host.OnSelect; fn != nil {
				value, opt := e.Value, e.Option
				notify = append(notify, func() { fn(value, opt) })
			}
		case NotifyClear:
			if fn := c.host.OnClear; fn != nil {
				notify = append(notify, fn)
			}
		case NotifyFocus:
			if fn := c.host.OnFocus; fn != nil {
				notify = append(notify, fn)
			}
		case NotifyBlur:
			if fn := c.host.OnBlur; fn != nil {
				notify = append(notify, fn)
			}
		}
	}
	c.mu.Unlock()

	for _, fn := range notify {
		fn()
	}
}

func (c *Controller) armLocked(e ArmTimer) {
	if c.timer != nil {
		c.timer.Stop()
	}
	gen := e.Gen
	c.timerGen = gen
	c.timer = c.afterFunc(e.After, func() {
		c.dispatch(TimerFired{Gen: gen})
	})
}

func (c *Controller) searchAsync(e IssueSearch) {
	c.wg.Add(1)
	go func(token uint64, query string) {
		defer c.wg.Done()
		opts, err := c.searcher.Search(c.ctx, query)
		c.dispatch(SearchResolved{Token: token, Query: query, Options: opts, Err: err})
	}(e.Token, e.Query)
}

func noSearch(context.Context, string) ([]Option, error) {
	return nil, nil
}
