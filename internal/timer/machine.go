// Package timer implements the focus/break state machine. Every countdown is
// derived from an absolute deadline at observation time, so time spent
// suspended between ticks is reconciled on the next observation.
package timer

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/alexanderramin/questbot/internal/domain"
)

// Outcome reports what a Tick observed.
type Outcome int

const (
	OutcomeNone Outcome = iota
	// OutcomeFocusDone means the focus interval ended and a break began.
	OutcomeFocusDone
	// OutcomeBreakDone means the break ended and the machine is idle.
	OutcomeBreakDone
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFocusDone:
		return "focus_done"
	case OutcomeBreakDone:
		return "break_done"
	default:
		return "none"
	}
}

// TickResult carries the finished interval for completion side effects.
type TickResult struct {
	Outcome   Outcome
	Anchor    domain.SubQuestRef
	StartedAt time.Time
	EndedAt   time.Time
	Activity  string
}

// State is a read-only copy of the machine.
type State struct {
	Mode       domain.TimerMode
	Paused     bool
	Deadline   time.Time
	Remaining  int
	Anchor     *domain.SubQuestRef
	Activity   string
	Generation uint64
}

// Machine is not safe for concurrent use; the engine serializes access.
type Machine struct {
	mode      domain.TimerMode
	paused    bool
	deadline  time.Time
	remaining time.Duration
	startedAt time.Time
	anchor    domain.SubQuestRef
	activity  string

	focus   time.Duration
	brk     time.Duration
	catalog []string
	rng     *rand.Rand

	generation uint64
}

// New returns an idle machine. An empty catalog falls back to the built-in
// activities; a nil rng uses a randomly seeded source.
func New(focus, brk time.Duration, catalog []string, rng *rand.Rand) *Machine {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	m := &Machine{mode: domain.TimerIdle, rng: rng}
	m.Configure(focus, brk)
	m.SetCatalog(catalog)
	return m
}

// Configure updates durations. Non-positive values are ignored. Running
// intervals keep their deadline; the new durations apply from the next start.
func (m *Machine) Configure(focus, brk time.Duration) {
	if focus > 0 {
		m.focus = focus
	}
	if brk > 0 {
		m.brk = brk
	}
}

// SetCatalog replaces the break activities. An empty catalog is replaced by
// the built-in one so a break always has an activity.
func (m *Machine) SetCatalog(catalog []string) {
	if len(catalog) == 0 {
		catalog = domain.DefaultBreakActivities
	}
	m.catalog = append([]string(nil), catalog...)
}

func (m *Machine) FocusDuration() time.Duration { return m.focus }
func (m *Machine) BreakDuration() time.Duration { return m.brk }
func (m *Machine) Mode() domain.TimerMode      { return m.mode }
func (m *Machine) Paused() bool                { return m.paused }

// Generation changes whenever the active deadline changes. Periodic ticks
// scheduled under an older generation are stale.
func (m *Machine) Generation() uint64 { return m.generation }

// Running reports whether a deadline is active and not paused.
func (m *Machine) Running() bool {
	return m.mode != domain.TimerIdle && !m.paused
}

// StartFocus begins a focus interval anchored to the selected sub-quest.
func (m *Machine) StartFocus(now time.Time, anchor domain.SubQuestRef) error {
	if m.mode != domain.TimerIdle {
		return fmt.Errorf("start focus while %s: %w", m.mode, domain.ErrInvalidTransition)
	}
	m.mode = domain.TimerFocus
	m.paused = false
	m.remaining = 0
	m.anchor = anchor
	m.activity = ""
	m.startedAt = now
	m.deadline = now.Add(m.focus)
	m.generation++
	return nil
}

// StartBreak begins a break from idle with a randomly chosen activity.
func (m *Machine) StartBreak(now time.Time) error {
	if m.mode != domain.TimerIdle {
		return fmt.Errorf("start break while %s: %w", m.mode, domain.ErrInvalidTransition)
	}
	m.startBreak(now)
	return nil
}

func (m *Machine) startBreak(now time.Time) {
	m.mode = domain.TimerBreak
	m.paused = false
	m.remaining = 0
	m.anchor = domain.SubQuestRef{}
	m.activity = m.catalog[m.rng.IntN(len(m.catalog))]
	m.startedAt = now
	m.deadline = now.Add(m.brk)
	m.generation++
}

// Pause freezes the remaining time. Pausing while already paused is a no-op.
func (m *Machine) Pause(now time.Time) error {
	if m.mode == domain.TimerIdle {
		return fmt.Errorf("pause while idle: %w", domain.ErrInvalidTransition)
	}
	if m.paused {
		return nil
	}
	m.remaining = m.until(now)
	m.deadline = time.Time{}
	m.paused = true
	m.generation++
	return nil
}

// Resume re-anchors the deadline at now + remaining.
func (m *Machine) Resume(now time.Time) error {
	if !m.paused {
		return fmt.Errorf("resume while %s not paused: %w", m.mode, domain.ErrInvalidTransition)
	}
	m.deadline = now.Add(m.remaining)
	m.remaining = 0
	m.paused = false
	m.generation++
	return nil
}

// Stop cancels any interval without completing it.
func (m *Machine) Stop() {
	m.toIdle()
}

// SkipBreak ends a break early.
func (m *Machine) SkipBreak() error {
	if m.mode != domain.TimerBreak {
		return fmt.Errorf("skip break while %s: %w", m.mode, domain.ErrInvalidTransition)
	}
	m.toIdle()
	return nil
}

func (m *Machine) toIdle() {
	m.mode = domain.TimerIdle
	m.paused = false
	m.deadline = time.Time{}
	m.remaining = 0
	m.anchor = domain.SubQuestRef{}
	m.activity = ""
	m.generation++
}

// Tick observes the deadline. When the running interval has no time left it
// transitions: focus starts a break, break returns to idle.
func (m *Machine) Tick(now time.Time) TickResult {
	if !m.Running() || m.until(now) > 0 {
		return TickResult{Outcome: OutcomeNone}
	}

	res := TickResult{Anchor: m.anchor, StartedAt: m.startedAt, EndedAt: now}
	switch m.mode {
	case domain.TimerFocus:
		res.Outcome = OutcomeFocusDone
		m.startBreak(now)
		res.Activity = m.activity
	case domain.TimerBreak:
		res.Outcome = OutcomeBreakDone
		res.Activity = m.activity
		m.toIdle()
	}
	return res
}

// Remaining returns whole seconds left, rounded up and never negative. Idle
// machines report the configured focus duration.
func (m *Machine) Remaining(now time.Time) int {
	switch {
	case m.mode == domain.TimerIdle:
		return ceilSeconds(m.focus)
	case m.paused:
		return ceilSeconds(m.remaining)
	default:
		return ceilSeconds(m.until(now))
	}
}

// State returns a copy for rendering and inspection.
func (m *Machine) State(now time.Time) State {
	s := State{
		Mode:       m.mode,
		Paused:     m.paused,
		Deadline:   m.deadline,
		Remaining:  m.Remaining(now),
		Activity:   m.activity,
		Generation: m.generation,
	}
	if m.mode == domain.TimerFocus {
		a := m.anchor
		s.Anchor = &a
	}
	return s
}

func (m *Machine) until(now time.Time) time.Duration {
	d := m.deadline.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}
