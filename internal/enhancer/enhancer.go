package enhancer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Common errors
var (
	ErrUnavailable    = errors.New("semantic layer unavailable")
	ErrCapability     = errors.New("capability check failed")
	ErrModelLoad      = errors.New("model load failed")
	ErrNoProvider     = errors.New("no embedding provider configured")
	ErrEmptyText      = errors.New("text cannot be empty")
	ErrProviderFailed = errors.New("embedding provider failed")
)

// State is the lifecycle state of the semantic enhancement layer.
type State string

const (
	StateNotStarted State = "not_started"
	StateChecking   State = "checking_capability"
	StateLoading    State = "loading"
	StateReady      State = "ready"
	StateFailed     State = "failed"
	StateDisabled   State = "disabled"
)

// Notification describes an enhancement-state change for progress UIs.
type Notification struct {
	State       State
	Progress    int // 0-100
	Message     string
	Dismissible bool
}

// Config holds enhancer tuning. Zero values take the documented defaults.
type Config struct {
	// StartDelay postpones the capability check so the model load never
	// competes with initial content load. Fixed timer, not tied to any
	// other event.
	StartDelay time.Duration

	// LoadTimeout bounds the model warm-up. Expiry is handled like any
	// other load failure.
	LoadTimeout time.Duration

	// MinMemoryGB is the capability gate's memory floor.
	MinMemoryGB float64

	// Semantic matching tuning.
	SimilarityThreshold float64
	BoostMin            float64
	BoostMax            float64
}

// withDefaults fills zero fields with the documented defaults.
func (c Config) withDefaults() Config {
	if c.StartDelay <= 0 {
		c.StartDelay = 3 * time.Second
	}
	if c.LoadTimeout <= 0 {
		c.LoadTimeout = 60 * time.Second
	}
	if c.MinMemoryGB <= 0 {
		c.MinMemoryGB = MinMemoryGB
	}
	if c.SimilarityThreshold <= 0 {
		c.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if c.BoostMin <= 0 {
		c.BoostMin = DefaultBoostMin
	}
	if c.BoostMax <= 0 {
		c.BoostMax = DefaultBoostMax
	}
	return c
}

// Enhancer owns the semantic layer lifecycle:
//
//	NOT_STARTED -> CHECKING_CAPABILITY -> LOADING -> {READY | FAILED}
//	any state -> DISABLED (explicit dismissal, terminal)
//
// The capability gate runs at most once per session. Dismissal is
// advisory cancellation: in-flight work may finish, but its outcome is
// never applied: the dismissed flag is checked at every resumption
// point before a transition to READY.
type Enhancer struct {
	mu        sync.Mutex
	state     State
	progress  int
	reason    string // human-readable cause of FAILED
	dismissed bool
	started   bool

	provider Provider
	prober   Prober
	cfg      Config
	notify   func(Notification)
	log      zerolog.Logger

	timer  *time.Timer
	cancel context.CancelFunc
}

// Option configures an Enhancer.
type Option func(*Enhancer)

// WithNotifier registers a callback for state notifications. The callback
// runs on the enhancer's goroutine and must not block.
func WithNotifier(fn func(Notification)) Option {
	return func(e *Enhancer) { e.notify = fn }
}

// WithLogger sets the structured logger.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Enhancer) { e.log = log }
}

// New creates an enhancer in NOT_STARTED. Nothing happens until Start.
func New(provider Provider, prober Prober, cfg Config, opts ...Option) *Enhancer {
	if prober == nil {
		prober = RuntimeProber{}
	}
	e := &Enhancer{
		state:    StateNotStarted,
		provider: provider,
		prober:   prober,
		cfg:      cfg.withDefaults(),
		notify:   func(Notification) {},
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start schedules the capability check after the configured delay. It is
// a no-op after the first call and after dismissal.
func (e *Enhancer) Start(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started || e.dismissed {
		return
	}
	e.started = true

	runCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.timer = time.AfterFunc(e.cfg.StartDelay, func() {
		e.run(runCtx)
	})
}

// run drives CHECKING_CAPABILITY -> LOADING -> {READY | FAILED}.
func (e *Enhancer) run(ctx context.Context) {
	if !e.transition(StateChecking, 0, "checking device capability") {
		return
	}

	signals := e.prober.Probe()
	if err := checkCapability(signals, e.cfg.MinMemoryGB); err != nil {
		e.log.Info().Err(err).Msg("semantic enhancement unavailable on this device")
		e.fail(err.Error())
		return
	}

	if e.provider == nil {
		e.fail(ErrNoProvider.Error())
		return
	}

	if !e.transition(StateLoading, 0, "loading embedding model") {
		return
	}

	loadCtx, cancel := context.WithTimeout(ctx, e.cfg.LoadTimeout)
	defer cancel()

	err := e.provider.Warm(loadCtx, func(pct int) {
		e.reportProgress(pct)
	})
	if err != nil {
		e.log.Warn().Err(err).Msg("embedding model load failed")
		e.fail("model load failed: " + err.Error())
		return
	}

	// Dismissal may have landed while the load was in flight; its outcome
	// must not be applied.
	if !e.transition(StateReady, 100, "semantic search ready") {
		return
	}
	e.log.Info().Str("model", e.provider.Model()).Int("dimension", e.provider.Dimension()).
		Msg("semantic enhancement ready")
}

// transition moves to next unless the enhancer was dismissed. It reports
// whether the transition was applied.
func (e *Enhancer) transition(next State, progress int, message string) bool {
	e.mu.Lock()
	if e.dismissed {
		e.mu.Unlock()
		return false
	}
	e.state = next
	e.progress = progress
	notify := e.notify
	e.mu.Unlock()

	notify(Notification{State: next, Progress: progress, Message: message, Dismissible: next != StateFailed})
	return true
}

// fail records a FAILED state with its human-readable reason. Failure is
// expected, recoverable-by-design behavior: the system continues in
// keyword-only mode.
func (e *Enhancer) fail(reason string) {
	e.mu.Lock()
	if e.dismissed {
		e.mu.Unlock()
		return
	}
	e.state = StateFailed
	e.reason = reason
	notify := e.notify
	e.mu.Unlock()

	notify(Notification{State: StateFailed, Progress: 0, Message: reason, Dismissible: false})
}

func (e *Enhancer) reportProgress(pct int) {
	e.mu.Lock()
	if e.dismissed || e.state != StateLoading {
		e.mu.Unlock()
		return
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	e.progress = pct
	notify := e.notify
	e.mu.Unlock()

	notify(Notification{State: StateLoading, Progress: pct, Message: "loading embedding model", Dismissible: true})
}

// Dismiss permanently disables semantic enhancement for the session. It
// is valid from any state and halts in-flight loading advisorily: the
// load may still finish, but its result is dropped.
func (e *Enhancer) Dismiss() {
	e.mu.Lock()
	if e.dismissed {
		e.mu.Unlock()
		return
	}
	e.dismissed = true
	e.state = StateDisabled
	if e.timer != nil {
		e.timer.Stop()
	}
	cancel := e.cancel
	notify := e.notify
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	notify(Notification{State: StateDisabled, Progress: 0, Message: "semantic search dismissed", Dismissible: false})
}

// State returns the current lifecycle state.
func (e *Enhancer) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Ready reports whether embedding generation and similarity scoring are
// permitted.
func (e *Enhancer) Ready() bool {
	return e.State() == StateReady
}

// FailureReason returns the human-readable reason for FAILED, empty
// otherwise.
func (e *Enhancer) FailureReason() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reason
}

// Status returns the current state as a notification snapshot.
func (e *Enhancer) Status() Notification {
	e.mu.Lock()
	defer e.mu.Unlock()

	msg := ""
	switch e.state {
	case StateReady:
		msg = "semantic search ready"
	case StateFailed:
		msg = e.reason
	case StateLoading:
		msg = "loading embedding model"
	case StateChecking:
		msg = "checking device capability"
	case StateDisabled:
		msg = "semantic search dismissed"
	}
	return Notification{
		State:       e.state,
		Progress:    e.progress,
		Message:     msg,
		Dismissible: e.state == StateChecking || e.state == StateLoading,
	}
}

// Embed generates a query embedding. Outside READY it returns
// ErrUnavailable, never a panic or a provider error surface.
func (e *Enhancer) Embed(ctx context.Context, text string) ([]float32, error) {
	if !e.Ready() {
		return nil, ErrUnavailable
	}
	return e.provider.Embed(ctx, text)
}

// Threshold returns the minimum cosine similarity for a semantic match.
func (e *Enhancer) Threshold() float64 { return e.cfg.SimilarityThreshold }

// BoostFor maps a candidate similarity to its score multiplier.
func (e *Enhancer) BoostFor(similarity float64) float64 {
	return Boost(similarity, e.cfg.SimilarityThreshold, e.cfg.BoostMin, e.cfg.BoostMax)
}

// Close releases provider resources.
func (e *Enhancer) Close() error {
	e.Dismiss()
	if e.provider != nil {
		return e.provider.Close()
	}
	return nil
}
