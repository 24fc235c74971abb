package workout

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeHandle struct {
	fn      func()
	stopped bool
	fired   bool
}

func (h *fakeHandle) Stop() bool {
	active := !h.stopped && !h.fired
	h.stopped = true
	return active
}

// fakeScheduler never fires on its own; tests call fire.
type fakeScheduler struct {
	mu      sync.Mutex
	handles []*fakeHandle
}

func (s *fakeScheduler) AfterFunc(_ time.Duration, f func()) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := &fakeHandle{fn: f}
	s.handles = append(s.handles, h)
	return h
}

func (s *fakeScheduler) active() []*fakeHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*fakeHandle
	for _, h := range s.handles {
		if !h.stopped && !h.fired {
			out = append(out, h)
		}
	}
	return out
}

// fire runs the single pending tick and reports whether there was one.
func (s *fakeScheduler) fire(t *testing.T) bool {
	pending := s.active()
	require.LessOrEqual(t, len(pending), 1, "more than one countdown scheduled")
	if len(pending) == 0 {
		return false
	}
	s.mu.Lock()
	pending[0].fired = true
	s.mu.Unlock()
	pending[0].fn()
	return true
}

type recorder struct {
	mu        sync.Mutex
	phases    []Phase
	cues      []Cue
	completed int
	stopped   int
	labels    map[Phase][]string
}

func newRecorder() *recorder {
	return &recorder{labels: map[Phase][]string{}}
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		OnComplete: func() { r.mu.Lock(); r.completed++; r.mu.Unlock() },
		OnStop:     func() { r.mu.Lock(); r.stopped++; r.mu.Unlock() },
		OnCue:      func(c Cue) { r.mu.Lock(); r.cues = append(r.cues, c); r.mu.Unlock() },
		OnTick: func(s Snapshot) {
			r.mu.Lock()
			defer r.mu.Unlock()
			if n := len(r.phases); n == 0 || r.phases[n-1] != s.Phase {
				r.phases = append(r.phases, s.Phase)
				r.labels[s.Phase] = append(r.labels[s.Phase], s.Label())
			}
		},
	}
}

func TestTimer_FullSession(t *testing.T) {
	sched := &fakeScheduler{}
	rec := newRecorder()
	timer := NewTimer(rec.callbacks(), WithScheduler(sched))

	require.NoError(t, timer.Start(Config{Sets: 3, Rest: 5 * time.Second, Work: 30 * time.Second}))

	ticks := 0
	for sched.fire(t) {
		ticks++
	}

	// 10 prepare + 3*30 work + 2*5 rest + 3 finished display
	assert.Equal(t, 10+90+10+3, ticks)
	assert.Equal(t, []Phase{
		PhasePreparing,
		PhaseWorking, PhaseResting,
		PhaseWorking, PhaseResting,
		PhaseWorking,
		PhaseFinished,
		PhaseIdle,
	}, rec.phases)
	assert.Equal(t, []string{"set 1 of 3", "set 2 of 3", "set 3 of 3"}, rec.labels[PhaseWorking])
	assert.Equal(t, 1, rec.completed)
	assert.Equal(t, 0, rec.stopped)
	assert.Equal(t, []Cue{
		CuePrepare, CueWork,
		CueRestWarning, CueWork,
		CueRestWarning, CueWork,
		CueFinished,
	}, rec.cues)
	assert.Equal(t, PhaseIdle, timer.Snapshot().Phase)
}

func TestTimer_StopCancelsPendingTick(t *testing.T) {
	for _, stopAfter := range []int{0, 5, 12, 45} {
		sched := &fakeScheduler{}
		rec := newRecorder()
		timer := NewTimer(rec.callbacks(), WithScheduler(sched))
		require.NoError(t, timer.Start(Config{Sets: 2, Rest: 5 * time.Second, Work: 30 * time.Second}))

		for i := 0; i < stopAfter; i++ {
			require.True(t, sched.fire(t))
		}
		stale := sched.active()
		require.Len(t, stale, 1)

		assert.True(t, timer.Stop())
		assert.Empty(t, sched.active())
		assert.Equal(t, 1, rec.stopped)
		assert.Equal(t, 0, rec.completed)

		// A tick that was already in flight when Stop ran is ignored.
		stale[0].fn()
		snap := timer.Snapshot()
		assert.Equal(t, PhaseIdle, snap.Phase)
		assert.Zero(t, snap.Remaining)
		assert.Empty(t, snap.Label())
		assert.False(t, timer.Stop())
	}
}

func TestTimer_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "zero sets", cfg: Config{Sets: 0, Rest: 5 * time.Second}},
		{name: "negative sets", cfg: Config{Sets: -1, Rest: 5 * time.Second}},
		{name: "zero rest", cfg: Config{Sets: 3, Rest: 0}},
		{name: "negative work", cfg: Config{Sets: 3, Rest: time.Second, Work: -time.Second}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sched := &fakeScheduler{}
			timer := NewTimer(Callbacks{}, WithScheduler(sched))
			assert.ErrorIs(t, timer.Start(tt.cfg), ErrInvalidConfig)
			assert.Empty(t, sched.handles)
			assert.Equal(t, PhaseIdle, timer.Snapshot().Phase)
		})
	}
}

func TestTimer_StartWhileRunning(t *testing.T) {
	sched := &fakeScheduler{}
	timer := NewTimer(Callbacks{}, WithScheduler(sched))
	require.NoError(t, timer.Start(Config{Sets: 1, Rest: time.Second}))
	assert.ErrorIs(t, timer.Start(Config{Sets: 1, Rest: time.Second}), ErrAlreadyRunning)
	assert.Len(t, sched.active(), 1)
}

func TestTimer_RestWarningOncePerRest(t *testing.T) {
	sched := &fakeScheduler{}
	rec := newRecorder()
	timer := NewTimer(rec.callbacks(), WithScheduler(sched))
	require.NoError(t, timer.Start(Config{Sets: 2, Rest: 20 * time.Second, Work: 5 * time.Second}))

	var warnAt []int
	for {
		before := len(rec.cues)
		if !sched.fire(t) {
			break
		}
		for _, c := range rec.cues[before:] {
			if c == CueRestWarning {
				warnAt = append(warnAt, timer.Snapshot().Remaining)
			}
		}
	}
	assert.Equal(t, []int{10}, warnAt)
}

func TestTimer_Progress(t *testing.T) {
	sched := &fakeScheduler{}
	timer := NewTimer(Callbacks{}, WithScheduler(sched))
	assert.Zero(t, timer.Snapshot().Progress())

	require.NoError(t, timer.Start(Config{Sets: 1, Rest: time.Second, Prepare: 4 * time.Second}))
	assert.Equal(t, 1.0, timer.Snapshot().Progress())
	sched.fire(t)
	assert.Equal(t, 0.75, timer.Snapshot().Progress())
	sched.fire(t)
	assert.Equal(t, 0.5, timer.Snapshot().Progress())
}

func TestTimer_CallbackMayStop(t *testing.T) {
	sched := &fakeScheduler{}
	var timer *Timer
	stopped := false
	timer = NewTimer(Callbacks{
		OnCue: func(c Cue) {
			if c == CueWork {
				timer.Stop()
			}
		},
		OnStop: func() { stopped = true },
	}, WithScheduler(sched))
	require.NoError(t, timer.Start(Config{Sets: 2, Rest: time.Second, Prepare: time.Second}))

	sched.fire(t)
	assert.True(t, stopped)
	assert.Equal(t, PhaseIdle, timer.Snapshot().Phase)
	assert.Empty(t, sched.active())
}

func TestTimer_RealClock(t *testing.T) {
	done := make(chan struct{})
	idle := make(chan struct{})
	timer := NewTimer(Callbacks{
		OnComplete: func() { close(done) },
		OnTick: func(s Snapshot) {
			if s.Phase == PhaseIdle {
				close(idle)
			}
		},
	}, WithTickInterval(time.Millisecond))

	require.NoError(t, timer.Start(Config{
		Sets:          2,
		Work:          3 * time.Millisecond,
		Rest:          2 * time.Millisecond,
		Prepare:       2 * time.Millisecond,
		FinishDisplay: 2 * time.Millisecond,
	}))

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("session did not complete")
	}
	select {
	case <-idle:
	case <-time.After(5 * time.Second):
		t.Fatal("timer did not return to idle")
	}
}
