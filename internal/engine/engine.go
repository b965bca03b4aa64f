// Package engine is the single owner of session, progression, and quest
// state. Every operation is serialized through one mutex; the periodic tick
// is just another caller.
package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/alexanderramin/questbot/internal/domain"
	"github.com/alexanderramin/questbot/internal/goals"
	"github.com/alexanderramin/questbot/internal/progression"
	"github.com/alexanderramin/questbot/internal/quest"
	"github.com/alexanderramin/questbot/internal/timer"
)

// State is the persistable part of the engine.
type State struct {
	Quests   *domain.DatedQuests
	Ledger   *domain.DailyLedger
	XP       int
	Settings domain.Settings
}

// DefaultState is an empty tracker with default settings.
func DefaultState() State {
	return State{
		Quests:   domain.NewDatedQuests(),
		Ledger:   domain.NewDailyLedger(),
		Settings: domain.DefaultSettings(),
	}
}

type Engine struct {
	mu sync.Mutex

	clock    Clock
	logger   *slog.Logger
	observer UseCaseObserver
	onChange func()
	rng      *rand.Rand

	store    *quest.Store
	machine  *timer.Machine
	progress progression.State
	settings domain.Settings

	selectedDate domain.DateKey
	today        domain.DateKey
	events       []Event

	// seededOnStart is set when New stored a goal that no snapshot holds yet.
	seededOnStart bool
}

// Option configures an Engine.
type Option func(*Engine)

func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

func WithObserver(o UseCaseObserver) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

// WithRand fixes the source used to pick break activities.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithOnChange registers a hook called after any mutation of persistable
// state. It runs outside the engine lock and must not block.
func WithOnChange(fn func()) Option {
	return func(e *Engine) { e.onChange = fn }
}

// New builds an engine from restored state and seeds today's goal.
func New(st State, opts ...Option) *Engine {
	e := &Engine{
		clock:    SystemClock(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		observer: NoopUseCaseObserver{},
	}
	for _, opt := range opts {
		opt(e)
	}

	if st.Quests == nil || st.Ledger == nil {
		def := DefaultState()
		if st.Quests == nil {
			st.Quests = def.Quests
		}
		if st.Ledger == nil {
			st.Ledger = def.Ledger
		}
	}
	if len(st.Settings.BreakActivities) == 0 {
		st.Settings.BreakActivities = append([]string(nil), domain.DefaultBreakActivities...)
	}
	if err := st.Settings.Validate(); err != nil {
		e.logger.Warn("invalid settings, using defaults", "error", err)
		st.Settings = domain.DefaultSettings()
	}
	if st.XP < 0 {
		st.XP = 0
	}

	e.progress = progression.State{XP: st.XP}
	e.settings = st.Settings
	e.store = quest.NewStore(
		quest.WithState(st.Quests, st.Ledger),
		quest.WithLevel(func() int { return progression.Level(e.progress.XP) }),
	)
	e.machine = timer.New(st.Settings.PomodoroDuration(), st.Settings.BreakDuration(), st.Settings.BreakActivities, e.rng)

	now := e.clock.Now()
	e.today = domain.DateKeyFor(now)
	e.selectedDate = e.today
	e.seededOnStart = goals.EnsureGoal(e.store.Ledger(), e.today, progression.Level(e.progress.XP))
	return e
}

// SeededOnStart reports whether New generated today's goal. Callers that
// persist state should save once when it did, since no change hook fired.
func (e *Engine) SeededOnStart() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seededOnStart
}

// mutate runs fn under the lock, records telemetry, and fires the change
// hook when fn reports persistable changes. A calendar day change observed
// here seeds the new day's goal first.
func (e *Engine) mutate(name string, fields map[string]any, fn func(now time.Time) (bool, error)) error {
	start := time.Now()
	e.mu.Lock()
	now := e.clock.Now()
	rolled := e.rollDay(now)
	dirty, err := fn(now)
	dirty = dirty || rolled
	e.mu.Unlock()

	e.observer.ObserveUseCase(UseCaseEvent{
		Name:      name,
		Duration:  time.Since(start),
		Success:   err == nil,
		Err:       err,
		Dirty:     dirty,
		Fields:    fields,
		StartedAt: start,
	})
	if errors.Is(err, domain.ErrInvalidTransition) || errors.Is(err, domain.ErrNoSelection) {
		e.logger.Warn("invalid transition", "op", name, "error", err)
	}
	if dirty && e.onChange != nil {
		e.onChange()
	}
	return err
}

// ── Date navigation ──────────────────────────────────────────────────────────

// ShiftDate moves the viewed date by offset days.
func (e *Engine) ShiftDate(offset int) domain.DateKey {
	var d domain.DateKey
	_ = e.mutate("shift_date", map[string]any{"offset": offset}, func(time.Time) (bool, error) {
		e.selectedDate = e.selectedDate.AddDays(offset)
		d = e.selectedDate
		return false, nil
	})
	return d
}

// SetDate views an explicit date.
func (e *Engine) SetDate(date domain.DateKey) error {
	return e.mutate("set_date", map[string]any{"date": string(date)}, func(time.Time) (bool, error) {
		if !date.Valid() {
			return false, fmt.Errorf("set date %q: %w", date, domain.ErrInvalidDate)
		}
		e.selectedDate = date
		return false, nil
	})
}

// SelectedDate returns the date being viewed.
func (e *Engine) SelectedDate() domain.DateKey {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selectedDate
}

// ── Quest store ──────────────────────────────────────────────────────────────

// AddQuest adds a quest on the viewed date.
func (e *Engine) AddQuest(title string, estimated int) (*domain.Quest, error) {
	var q *domain.Quest
	err := e.mutate("add_quest", map[string]any{"estimated": estimated}, func(time.Time) (bool, error) {
		var err error
		q, err = e.store.AddQuest(e.selectedDate, title, estimated)
		return err == nil, err
	})
	return q, err
}

// AddSubQuest adds a sub-quest to a quest on the viewed date.
func (e *Engine) AddSubQuest(questID, title string) (*domain.SubQuest, error) {
	var sub *domain.SubQuest
	err := e.mutate("add_sub_quest", map[string]any{"quest_id": questID}, func(time.Time) (bool, error) {
		var err error
		sub, err = e.store.AddSubQuest(e.selectedDate, questID, title)
		return err == nil, err
	})
	return sub, err
}

// SelectSubQuest toggles the focus target on the viewed date. An empty
// subQuestID clears the selection.
func (e *Engine) SelectSubQuest(questID, subQuestID string) error {
	return e.mutate("select_sub_quest", map[string]any{"sub_quest_id": subQuestID}, func(time.Time) (bool, error) {
		if subQuestID == "" {
			return false, e.store.Select(nil)
		}
		return false, e.store.Select(&domain.SubQuestRef{
			Date:       e.selectedDate,
			QuestID:    questID,
			SubQuestID: subQuestID,
		})
	})
}

// Selection returns the current focus target, or nil.
func (e *Engine) Selection() *domain.SubQuestRef {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Selection()
}

// RestoreSelection re-applies a saved selection when it still resolves to an
// incomplete sub-quest. Unlike SelectSubQuest it never toggles.
func (e *Engine) RestoreSelection(ref *domain.SubQuestRef) {
	if ref == nil {
		return
	}
	_ = e.mutate("restore_selection", nil, func(time.Time) (bool, error) {
		if cur := e.store.Selection(); cur != nil && *cur == *ref {
			return false, nil
		}
		if err := e.store.Select(ref); err != nil {
			e.logger.Debug("saved selection dropped", "error", err)
		}
		return false, nil
	})
}

// ── Timer ────────────────────────────────────────────────────────────────────

// StartFocus begins a focus interval on the selected sub-quest.
func (e *Engine) StartFocus() error {
	return e.mutate("start_focus", nil, func(now time.Time) (bool, error) {
		ref := e.store.Selection()
		if ref == nil {
			return false, fmt.Errorf("start focus: %w", domain.ErrNoSelection)
		}
		_, sub := e.store.SelectedSubQuest()
		if sub == nil || sub.IsComplete {
			return false, fmt.Errorf("start focus: %w", domain.ErrNoSelection)
		}
		return false, e.machine.StartFocus(now, *ref)
	})
}

// StartBreak begins a break from idle.
func (e *Engine) StartBreak() error {
	return e.mutate("start_break", nil, func(now time.Time) (bool, error) {
		if err := e.machine.StartBreak(now); err != nil {
			return false, err
		}
		e.events = append(e.events, Event{Kind: EventBreakStarted, At: now, Activity: e.machine.State(now).Activity})
		return false, nil
	})
}

func (e *Engine) Pause() error {
	return e.mutate("pause", nil, func(now time.Time) (bool, error) {
		return false, e.machine.Pause(now)
	})
}

func (e *Engine) Resume() error {
	return e.mutate("resume", nil, func(now time.Time) (bool, error) {
		return false, e.machine.Resume(now)
	})
}

// Stop cancels the current interval. Nothing is awarded.
func (e *Engine) Stop() {
	_ = e.mutate("stop", nil, func(time.Time) (bool, error) {
		e.machine.Stop()
		return false, nil
	})
}

// SkipBreak ends a break early. Nothing is awarded.
func (e *Engine) SkipBreak() error {
	return e.mutate("skip_break", nil, func(time.Time) (bool, error) {
		return false, e.machine.SkipBreak()
	})
}

// Tick re-evaluates the deadline. A finished focus interval runs the
// completion side effect and starts the break in the same critical section.
func (e *Engine) Tick() timer.Outcome {
	var outcome timer.Outcome
	_ = e.mutate("tick", nil, func(now time.Time) (bool, error) {
		dirty := false
		res := e.machine.Tick(now)
		outcome = res.Outcome
		switch res.Outcome {
		case timer.OutcomeFocusDone:
			if e.completeFocus(now, res) {
				dirty = true
			}
			e.events = append(e.events, Event{Kind: EventBreakStarted, At: now, Activity: res.Activity})
		case timer.OutcomeBreakDone:
			e.events = append(e.events, Event{Kind: EventBreakCompleted, At: now, Activity: res.Activity})
		}
		return dirty, nil
	})
	return outcome
}

func (e *Engine) completeFocus(now time.Time, res timer.TickResult) bool {
	defer func() { _ = e.store.Select(nil) }()

	changed, err := e.store.CompleteSubQuest(res.Anchor)
	if err != nil {
		e.logger.Warn("focus target vanished", "sub_quest_id", res.Anchor.SubQuestID, "error", err)
		return false
	}
	if !changed {
		e.logger.Warn("focus target already complete", "sub_quest_id", res.Anchor.SubQuestID)
		return false
	}

	var up *progression.LevelUp
	e.progress, up = progression.Award(e.progress, progression.FocusAward)

	title := ""
	if q, err := e.store.Quest(res.Anchor.Date, res.Anchor.QuestID); err == nil {
		title = q.Title
	}
	e.events = append(e.events, Event{
		Kind:       EventFocusCompleted,
		At:         now,
		Ref:        res.Anchor,
		QuestTitle: title,
		StartedAt:  res.StartedAt,
		XPAwarded:  progression.FocusAward,
	})
	if up != nil {
		e.events = append(e.events, Event{Kind: EventLevelUp, At: now, LevelUp: up})
	}
	return true
}

// rollDay seeds the goal for a new calendar day. Returns true when it did.
func (e *Engine) rollDay(now time.Time) bool {
	d := domain.DateKeyFor(now)
	if d == e.today {
		return false
	}
	e.today = d
	return goals.EnsureGoal(e.store.Ledger(), d, progression.Level(e.progress.XP))
}

// observe runs a read under the lock after rolling the calendar day. A
// seeded goal still fires the change hook so it gets persisted.
func (e *Engine) observe(fn func(now time.Time)) {
	e.mu.Lock()
	now := e.clock.Now()
	rolled := e.rollDay(now)
	fn(now)
	e.mu.Unlock()
	if rolled && e.onChange != nil {
		e.onChange()
	}
}

// TimerGeneration identifies the current deadline. A periodic tick scheduled
// under a different generation is stale.
func (e *Engine) TimerGeneration() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.Generation()
}

// TimerRunning reports whether a deadline is counting down.
func (e *Engine) TimerRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.Running()
}

// ── Settings ─────────────────────────────────────────────────────────────────

// UpdateSettings applies raw minute inputs. Invalid fields keep their prior
// value and are reported in the returned error.
func (e *Engine) UpdateSettings(pomodoroRaw, breakRaw string) error {
	return e.mutate("update_settings", map[string]any{"pomodoro": pomodoroRaw, "break": breakRaw}, func(time.Time) (bool, error) {
		next, err := e.settings.ApplyInput(pomodoroRaw, breakRaw)
		changed := next.PomodoroMinutes != e.settings.PomodoroMinutes || next.BreakMinutes != e.settings.BreakMinutes
		e.applySettings(next)
		return changed, err
	})
}

// ResetSettings restores default durations. The activity catalog is kept.
func (e *Engine) ResetSettings() {
	_ = e.mutate("reset_settings", nil, func(time.Time) (bool, error) {
		next := e.settings
		next.PomodoroMinutes = domain.DefaultPomodoroMinutes
		next.BreakMinutes = domain.DefaultBreakMinutes
		e.applySettings(next)
		return true, nil
	})
}

// SetBreakActivities replaces the catalog. Empty catalogs are rejected.
func (e *Engine) SetBreakActivities(catalog []string) error {
	return e.mutate("set_break_activities", map[string]any{"count": len(catalog)}, func(time.Time) (bool, error) {
		if len(catalog) == 0 {
			return false, domain.ErrEmptyCatalog
		}
		next := e.settings
		next.BreakActivities = append([]string(nil), catalog...)
		e.applySettings(next)
		return false, nil
	})
}

func (e *Engine) applySettings(s domain.Settings) {
	e.settings = s
	e.machine.Configure(s.PomodoroDuration(), s.BreakDuration())
	e.machine.SetCatalog(s.BreakActivities)
}

// ── Queries ──────────────────────────────────────────────────────────────────

// Status is everything the UI renders for one frame.
type Status struct {
	Now               time.Time
	Mode              domain.TimerMode
	Paused            bool
	RemainingSeconds  int
	Activity          string
	Anchor            *domain.SubQuestRef
	Generation        uint64
	Progression       progression.View
	Today             domain.DateKey
	SelectedDate      domain.DateKey
	Quests            []*domain.Quest
	Goal              int
	Completed         int
	SessionsCompleted int
	Selection         *domain.SubQuestRef
	Settings          domain.Settings
}

// Status observes the timer against the current time.
func (e *Engine) Status() Status {
	var st Status
	e.observe(func(now time.Time) {
		st = e.status(now)
	})
	return st
}

func (e *Engine) status(now time.Time) Status {
	ts := e.machine.State(now)
	rec := e.store.Ledger().Record(e.selectedDate)
	return Status{
		Now:               now,
		Mode:              ts.Mode,
		Paused:            ts.Paused,
		RemainingSeconds:  ts.Remaining,
		Activity:          ts.Activity,
		Anchor:            ts.Anchor,
		Generation:        ts.Generation,
		Progression:       progression.Describe(e.progress.XP),
		Today:             e.today,
		SelectedDate:      e.selectedDate,
		Quests:            e.store.Quests(e.selectedDate),
		Goal:              rec.Goal,
		Completed:         rec.Completed,
		SessionsCompleted: e.store.SessionsCompletedForDate(e.selectedDate),
		Selection:         e.store.Selection(),
		Settings:          e.settings,
	}
}

// Trail returns the last days checkpoints ending today.
func (e *Engine) Trail(days int) []goals.DayProgress {
	if days <= 0 {
		return nil
	}
	var trail []goals.DayProgress
	e.observe(func(time.Time) {
		trail = goals.Trail(e.store.Ledger(), e.today.AddDays(-(days - 1)), days)
	})
	return trail
}

// Streak counts consecutive days ending today whose goal was reached.
func (e *Engine) Streak() int {
	var n int
	e.observe(func(time.Time) {
		n = goals.Streak(e.store.Ledger(), e.today)
	})
	return n
}

// DrainEvents returns and clears queued events.
func (e *Engine) DrainEvents() []Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := e.events
	e.events = nil
	return out
}

// Export deep-copies the persistable state.
func (e *Engine) Export() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.settings
	s.BreakActivities = append([]string(nil), e.settings.BreakActivities...)
	return State{
		Quests:   e.store.Dated().Clone(),
		Ledger:   e.store.Ledger().Clone(),
		XP:       e.progress.XP,
		Settings: s,
	}
}
