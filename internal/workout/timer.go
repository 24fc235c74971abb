package workout

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// Phase is the state of a workout timer.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhasePreparing Phase = "preparing"
	PhaseWorking   Phase = "working"
	PhaseResting   Phase = "resting"
	PhaseFinished  Phase = "finished"
)

// Cue is an audible signal the caller should play.
type Cue int

const (
	CuePrepare Cue = iota
	CueWork
	CueRestWarning
	CueFinished
)

func (c Cue) String() string {
	switch c {
	case CuePrepare:
		return "prepare"
	case CueWork:
		return "work"
	case CueRestWarning:
		return "rest-warning"
	case CueFinished:
		return "finished"
	}
	return fmt.Sprintf("cue(%d)", int(c))
}

const (
	DefaultPrepareDuration  = 10 * time.Second
	DefaultWorkDuration     = 30 * time.Second
	DefaultFinishDisplay    = 3 * time.Second
	DefaultWarningThreshold = 10 * time.Second
	defaultTickInterval     = time.Second
)

var (
	ErrInvalidConfig  = errors.New("invalid timer config: sets and rest must be positive")
	ErrAlreadyRunning = errors.New("timer already running")
)

// Config describes one exercise session. Zero durations other than Rest
// take their defaults.
type Config struct {
	Sets             int
	Work             time.Duration
	Rest             time.Duration
	Prepare          time.Duration
	FinishDisplay    time.Duration
	WarningThreshold time.Duration
}

func (c Config) withDefaults() (Config, error) {
	if c.Sets <= 0 || c.Rest <= 0 || c.Work < 0 {
		return c, ErrInvalidConfig
	}
	if c.Work == 0 {
		c.Work = DefaultWorkDuration
	}
	if c.Prepare <= 0 {
		c.Prepare = DefaultPrepareDuration
	}
	if c.FinishDisplay <= 0 {
		c.FinishDisplay = DefaultFinishDisplay
	}
	if c.WarningThreshold <= 0 {
		c.WarningThreshold = DefaultWarningThreshold
	}
	return c, nil
}

// Handle cancels a scheduled callback. *time.Timer satisfies it.
type Handle interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Handle
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Handle {
	return time.AfterFunc(d, f)
}

// Snapshot is a read-only view of the timer.
type Snapshot struct {
	Phase      Phase
	Remaining  int
	Total      int
	CurrentSet int
	Sets       int
}

// Progress is remaining/total for the current phase, 0 when idle.
func (s Snapshot) Progress() float64 {
	if s.Total <= 0 {
		return 0
	}
	return float64(s.Remaining) / float64(s.Total)
}

// Label reads "set N of M" with N counted from 1.
func (s Snapshot) Label() string {
	if s.Phase == PhaseIdle || s.Sets == 0 {
		return ""
	}
	return fmt.Sprintf("set %d of %d", s.CurrentSet, s.Sets)
}

// Callbacks are invoked outside the timer lock, so they may call Stop.
type Callbacks struct {
	OnComplete func()
	OnStop     func()
	OnCue      func(Cue)
	OnTick     func(Snapshot)
}

// Option customizes a Timer.
type Option func(*Timer)

// WithScheduler replaces time.AfterFunc.
func WithScheduler(s Scheduler) Option {
	return func(t *Timer) { t.sched = s }
}

// WithTickInterval changes how long one countdown step lasts.
func WithTickInterval(d time.Duration) Option {
	return func(t *Timer) {
		if d > 0 {
			t.tick = d
		}
	}
}

// Timer is the phased countdown used during a workout: prepare, then
// alternating work and rest for each set, then a short finished display.
// Only one tick is ever scheduled; every phase change stops the previous
// handle and bumps the generation so a tick that already fired is ignored.
type Timer struct {
	sched Scheduler
	tick  time.Duration
	cb    Callbacks

	mu         sync.Mutex
	cfg        Config
	phase      Phase
	remaining  int
	total      int
	currentSet int
	warned     bool
	handle     Handle
	gen        uint64
}

func NewTimer(cb Callbacks, opts ...Option) *Timer {
	t := &Timer{
		sched: realScheduler{},
		tick:  defaultTickInterval,
		cb:    cb,
		phase: PhaseIdle,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start begins a session. Invalid configs leave the timer idle.
func (t *Timer) Start(cfg Config) error {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return err
	}

	t.mu.Lock()
	if t.phase != PhaseIdle {
		t.mu.Unlock()
		return ErrAlreadyRunning
	}
	t.cfg = cfg
	t.currentSet = 1
	var events []func()
	t.enterLocked(PhasePreparing, cfg.Prepare, &events)
	events = append(events, t.cueEvent(CuePrepare))
	t.mu.Unlock()

	run(events)
	return nil
}

// Stop cancels the session from any non-idle phase. It reports whether
// anything was running. OnComplete is never called by Stop.
func (t *Timer) Stop() bool {
	t.mu.Lock()
	if t.phase == PhaseIdle {
		t.mu.Unlock()
		return false
	}
	t.cancelLocked()
	t.resetLocked()
	snap := t.snapshotLocked()
	t.mu.Unlock()

	if t.cb.OnStop != nil {
		t.cb.OnStop()
	}
	if t.cb.OnTick != nil {
		t.cb.OnTick(snap)
	}
	return true
}

// Snapshot returns the current state.
func (t *Timer) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Timer) onTick(gen uint64) {
	t.mu.Lock()
	if gen != t.gen {
		t.mu.Unlock()
		return
	}

	var events []func()
	t.remaining--
	switch {
	case t.remaining > 0:
		if t.phase == PhaseResting && !t.warned && t.ticksFor(t.cfg.WarningThreshold) >= t.remaining {
			t.warned = true
			events = append(events, t.cueEvent(CueRestWarning))
		}
		t.scheduleLocked()
		events = append(events, t.tickEvent(t.snapshotLocked()))
	default:
		t.advanceLocked(&events)
	}
	t.mu.Unlock()

	run(events)
}

func (t *Timer) advanceLocked(events *[]func()) {
	switch t.phase {
	case PhasePreparing:
		t.enterLocked(PhaseWorking, t.cfg.Work, events)
		*events = append(*events, t.cueEvent(CueWork))
	case PhaseWorking:
		if t.currentSet < t.cfg.Sets {
			t.enterLocked(PhaseResting, t.cfg.Rest, events)
			return
		}
		t.enterLocked(PhaseFinished, t.cfg.FinishDisplay, events)
		*events = append(*events, t.cueEvent(CueFinished))
		if t.cb.OnComplete != nil {
			*events = append(*events, t.cb.OnComplete)
		}
	case PhaseResting:
		t.currentSet++
		t.enterLocked(PhaseWorking, t.cfg.Work, events)
		*events = append(*events, t.cueEvent(CueWork))
	case PhaseFinished:
		t.cancelLocked()
		t.resetLocked()
		*events = append(*events, t.tickEvent(t.snapshotLocked()))
	}
}

func (t *Timer) enterLocked(phase Phase, d time.Duration, events *[]func()) {
	t.cancelLocked()
	t.phase = phase
	t.total = t.ticksFor(d)
	t.remaining = t.total
	t.warned = false
	t.scheduleLocked()
	*events = append(*events, t.tickEvent(t.snapshotLocked()))
}

func (t *Timer) scheduleLocked() {
	t.cancelLocked()
	gen := t.gen
	t.handle = t.sched.AfterFunc(t.tick, func() { t.onTick(gen) })
}

func (t *Timer) cancelLocked() {
	if t.handle != nil {
		t.handle.Stop()
		t.handle = nil
	}
	t.gen++
}

func (t *Timer) resetLocked() {
	t.phase = PhaseIdle
	t.remaining = 0
	t.total = 0
	t.currentSet = 0
	t.warned = false
	t.cfg = Config{}
}

func (t *Timer) snapshotLocked() Snapshot {
	return Snapshot{
		Phase:      t.phase,
		Remaining:  t.remaining,
		Total:      t.total,
		CurrentSet: t.currentSet,
		Sets:       t.cfg.Sets,
	}
}

// ticksFor rounds d up to whole ticks, minimum one.
func (t *Timer) ticksFor(d time.Duration) int {
	n := int((d + t.tick - 1) / t.tick)
	if n < 1 {
		n = 1
	}
	return n
}

func (t *Timer) cueEvent(c Cue) func() {
	return func() {
		if t.cb.OnCue != nil {
			t.cb.OnCue(c)
		}
	}
}

func (t *Timer) tickEvent(s Snapshot) func() {
	return func() {
		if t.cb.OnTick != nil {
			t.cb.OnTick(s)
		}
	}
}

func run(events []func()) {
	for _, e := range events {
		e()
	}
}
