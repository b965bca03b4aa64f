package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/questbot/internal/cli/formatter"
	"github.com/alexanderramin/questbot/internal/domain"
	"github.com/alexanderramin/questbot/internal/engine"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

const tickInterval = time.Second

// tickMsg re-evaluates the deadline. gen is the timer generation the tick was
// scheduled under; ticks from an older generation are dropped.
type tickMsg struct{ gen uint64 }

// checkpointMsg reports a focus log write.
type checkpointMsg struct {
	n   int
	err error
}

type focusKeyMap struct {
	Toggle   key.Binding
	Break    key.Binding
	Stop     key.Binding
	Skip     key.Binding
	PrevDay  key.Binding
	NextDay  key.Binding
	Today    key.Binding
	Up       key.Binding
	Down     key.Binding
	Select   key.Binding
	AddQuest key.Binding
	AddSub   key.Binding
	Settings key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultFocusKeyMap() focusKeyMap {
	return focusKeyMap{
		Toggle:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "start/pause")),
		Break:    key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "break")),
		Stop:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop")),
		Skip:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "skip break")),
		PrevDay:  key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "prev day")),
		NextDay:  key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "next day")),
		Today:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		AddQuest: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add quest")),
		AddSub:   key.NewBinding(key.WithKeys("+"), key.WithHelp("+", "add sub-quest")),
		Settings: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "settings")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k focusKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Select, k.AddQuest, k.AddSub, k.Help, k.Quit}
}

func (k focusKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Break, k.Stop, k.Skip},
		{k.Up, k.Down, k.Select, k.PrevDay, k.NextDay, k.Today},
		{k.AddQuest, k.AddSub, k.Settings, k.Help, k.Quit},
	}
}

// cursorRow addresses one sub-quest row on the viewed date.
type cursorRow struct {
	quest *domain.Quest
	sub   domain.SubQuest
}

// focusModel is the interactive timer screen.
type focusModel struct {
	app  *App
	keys focusKeyMap
	help help.Model
	bar  progress.Model

	cursor int
	banner string
	errMsg string

	// form is an active huh prompt; onSubmit runs when it completes.
	form     *huh.Form
	onSubmit func() (string, error)

	width    int
	quitting bool
}

func newFocusModel(app *App) focusModel {
	return focusModel{
		app:  app,
		keys: defaultFocusKeyMap(),
		help: help.New(),
		bar: progress.New(
			progress.WithSolidFill(string(formatter.ColorHeader)),
			progress.WithoutPercentage(),
			progress.WithWidth(30),
		),
	}
}

func (m focusModel) Init() tea.Cmd {
	return m.scheduleTick()
}

// scheduleTick arms the next tick under the current generation. Idle and
// paused timers do not tick.
// rearmTick schedules a tick only when the deadline moved since before. A
// rejected command keeps the existing tick chain as the only one.
func (m focusModel) rearmTick(before uint64) tea.Cmd {
	if m.app.Engine.TimerGeneration() == before {
		return nil
	}
	return m.scheduleTick()
}

func (m focusModel) scheduleTick() tea.Cmd {
	if !m.app.Engine.TimerRunning() {
		return nil
	}
	gen := m.app.Engine.TimerGeneration()
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return tickMsg{gen: gen} })
}

// checkpointCmd writes finished focus intervals to the log together with a
// snapshot of the current state.
func (m focusModel) checkpointCmd(events []engine.Event) tea.Cmd {
	hasFocus := false
	for _, ev := range events {
		if ev.Kind == engine.EventFocusCompleted {
			hasFocus = true
			break
		}
	}
	if !hasFocus {
		return nil
	}
	app := m.app
	st := app.Engine.Export()
	return func() tea.Msg {
		n, err := app.FocusLog.Checkpoint(context.Background(), events, st)
		return checkpointMsg{n: n, err: err}
	}
}

func (m focusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		if msg.gen != m.app.Engine.TimerGeneration() {
			return m, nil
		}
		m.app.Engine.Tick()
		events := m.app.Engine.DrainEvents()
		m.applyEvents(events)
		m.clampCursor()
		return m, tea.Batch(m.checkpointCmd(events), m.scheduleTick())

	case checkpointMsg:
		if msg.err != nil {
			m.errMsg = "Could not save focus log: " + msg.err.Error()
			m.app.Logger.Error("focus checkpoint failed", "error", msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m focusModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.errMsg = ""
	m.clampCursor()
	eng := m.app.Engine

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Toggle):
		st := eng.Status()
		gen := eng.TimerGeneration()
		var err error
		switch {
		case st.Mode == domain.TimerIdle:
			err = eng.StartFocus()
			if err == nil {
				m.banner = ""
			}
		case st.Paused:
			err = eng.Resume()
		default:
			err = eng.Pause()
		}
		m.setErr(err)
		return m, m.rearmTick(gen)

	case key.Matches(msg, m.keys.Break):
		gen := eng.TimerGeneration()
		m.setErr(eng.StartBreak())
		m.applyEvents(eng.DrainEvents())
		return m, m.rearmTick(gen)

	case key.Matches(msg, m.keys.Stop):
		eng.Stop()
		m.banner = formatter.Dim("Stopped. Nothing was awarded.")
		return m, nil

	case key.Matches(msg, m.keys.Skip):
		if err := eng.SkipBreak(); err != nil {
			m.setErr(err)
		} else {
			m.banner = formatter.Dim("Break skipped.")
		}
		return m, nil

	case key.Matches(msg, m.keys.PrevDay):
		eng.ShiftDate(-1)
		m.cursor = 0
	case key.Matches(msg, m.keys.NextDay):
		eng.ShiftDate(1)
		m.cursor = 0
	case key.Matches(msg, m.keys.Today):
		_ = eng.SetDate(eng.Status().Today)
		m.cursor = 0

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows())-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Select):
		rows := m.rows()
		if len(rows) == 0 {
			m.errMsg = "Add a sub-quest first (+)."
			return m, nil
		}
		r := rows[m.cursor]
		m.setErr(eng.SelectSubQuest(r.quest.ID, r.sub.ID))

	case key.Matches(msg, m.keys.AddQuest):
		return m.openAddQuest()
	case key.Matches(msg, m.keys.AddSub):
		return m.openAddSubQuest()
	case key.Matches(msg, m.keys.Settings):
		return m.openSettings()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *focusModel) setErr(err error) {
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNoSelection):
		m.errMsg = "Select an open sub-quest first (enter)."
	case errors.Is(err, domain.ErrInvalidTransition):
		m.errMsg = "Not available right now."
	default:
		m.errMsg = err.Error()
	}
}

// applyEvents turns drained engine events into the banner line.
func (m *focusModel) applyEvents(events []engine.Event) {
	var parts []string
	for _, ev := range events {
		if ev.Kind == engine.EventBreakCompleted {
			parts = append(parts, formatter.Dim("Break over. Pick the next sub-quest."))
			continue
		}
		parts = append(parts, describeEvent(ev))
	}
	if len(parts) > 0 {
		m.banner = strings.Join(parts, "  ")
	}
}

// rows lists the sub-quests on the viewed date in display order.
func (m focusModel) rows() []cursorRow {
	var out []cursorRow
	for _, q := range m.app.Engine.Status().Quests {
		for _, sub := range q.SubQuests {
			out = append(out, cursorRow{quest: q, sub: sub})
		}
	}
	return out
}

func (m *focusModel) clampCursor() {
	if n := len(m.rows()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

// ── Forms ────────────────────────────────────────────────────────────────────

func (m focusModel) openForm(form *huh.Form, onSubmit func() (string, error)) (tea.Model, tea.Cmd) {
	if m.width > 0 {
		form = form.WithWidth(min(m.width, 80))
	}
	m.form = form
	m.onSubmit = onSubmit
	return m, form.Init()
}

func (m focusModel) openAddQuest() (tea.Model, tea.Cmd) {
	var title, estimate string
	eng := m.app.Engine
	return m.openForm(addQuestForm(&title, &estimate), func() (string, error) {
		n, _ := strconv.Atoi(strings.TrimSpace(estimate))
		q, err := eng.AddQuest(title, n)
		if err != nil {
			return "", err
		}
		return formatter.Success("Added quest " + q.Title), nil
	})
}

func (m focusModel) openAddSubQuest() (tea.Model, tea.Cmd) {
	q := m.subQuestTarget()
	if q == nil {
		m.errMsg = "No quest with an open slot on this day."
		return m, nil
	}
	var title string
	questID := q.ID
	eng := m.app.Engine
	return m.openForm(subQuestForm(q.Title, &title), func() (string, error) {
		sub, err := eng.AddSubQuest(questID, title)
		if err != nil {
			return "", err
		}
		return formatter.Success("Added sub-quest " + sub.Title), nil
	})
}

// subQuestTarget is the quest under the cursor when it has a free slot,
// otherwise the first quest on the viewed date that does.
func (m focusModel) subQuestTarget() *domain.Quest {
	if rows := m.rows(); m.cursor < len(rows) && rows[m.cursor].quest.SlotsRemaining() > 0 {
		return rows[m.cursor].quest
	}
	for _, q := range m.app.Engine.Status().Quests {
		if q.SlotsRemaining() > 0 {
			return q
		}
	}
	return nil
}

func (m focusModel) openSettings() (tea.Model, tea.Cmd) {
	cur := m.app.Engine.Status().Settings
	pomodoro := strconv.Itoa(cur.PomodoroMinutes)
	brk := strconv.Itoa(cur.BreakMinutes)
	eng := m.app.Engine
	return m.openForm(settingsForm(&pomodoro, &brk), func() (string, error) {
		if err := eng.UpdateSettings(pomodoro, brk); err != nil {
			return "", err
		}
		return formatter.Success("Settings saved."), nil
	})
}

// updateForm routes input to the active form. Esc cancels; ticks keep the
// timer running underneath.
func (m focusModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			m.form, m.onSubmit = nil, nil
			m.banner = formatter.Dim("Cancelled.")
			return m, nil
		}
	case tickMsg, checkpointMsg:
		form, submit := m.form, m.onSubmit
		m.form = nil
		next, cmd := m.Update(msg)
		fm := next.(focusModel)
		fm.form, fm.onSubmit = form, submit
		return fm, cmd
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateCompleted:
		submit := m.onSubmit
		m.form, m.onSubmit = nil, nil
		if submit != nil {
			banner, err := submit()
			m.setErr(err)
			if err == nil {
				m.banner = banner
			}
		}
		m.clampCursor()
		return m, nil
	case huh.StateAborted:
		m.form, m.onSubmit = nil, nil
		return m, nil
	}
	return m, cmd
}

// ── View ─────────────────────────────────────────────────────────────────────

func (m focusModel) View() string {
	if m.quitting {
		return ""
	}
	st := m.app.Engine.Status()

	var b strings.Builder
	b.WriteString(formatter.FormatProgression(st.Progression))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s  %s %s\n", formatter.DateHeading(st.SelectedDate, st.Today), formatter.Dim("Goal"), formatter.RenderGoal(st.Completed, st.Goal))
	b.WriteString(formatter.FormatTimer(st) + "\n")
	if st.Mode != domain.TimerIdle {
		b.WriteString(m.bar.ViewAs(elapsedFraction(st)) + "\n")
	}
	if sel := focusTargetLabel(st); sel != "" {
		fmt.Fprintf(&b, "%s %s\n", formatter.Dim("Focus target:"), formatter.StyleYellow.Render(sel))
	}
	b.WriteString("\n")

	if m.form != nil {
		b.WriteString(m.form.View())
		b.WriteString("\n" + formatter.Dim("esc cancel") + "\n")
		return b.String()
	}

	opts := formatter.TreeOptions{SelectedSubQuestID: selectedOn(st.Selection, st.SelectedDate)}
	if rows := m.rows(); m.cursor < len(rows) {
		opts.CursorSubQuestID = rows[m.cursor].sub.ID
	}
	b.WriteString(formatter.RenderQuestTree(st.Quests, opts))

	if m.banner != "" {
		b.WriteString("\n" + m.banner + "\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n" + formatter.StyleRed.Render(m.errMsg) + "\n")
	}
	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

// elapsedFraction is how much of the running interval has passed.
func elapsedFraction(st engine.Status) float64 {
	total := st.Settings.PomodoroMinutes * 60
	if st.Mode == domain.TimerBreak {
		total = st.Settings.BreakMinutes * 60
	}
	if total <= 0 {
		return 0
	}
	f := 1 - float64(st.RemainingSeconds)/float64(total)
	return min(max(f, 0), 1)
}

// focusTargetLabel names the anchored sub-quest while focusing, otherwise
// the selection.
func focusTargetLabel(st engine.Status) string {
	ref := st.Selection
	if st.Anchor != nil {
		ref = st.Anchor
	}
	if ref == nil {
		return ""
	}
	if ref.Date != st.SelectedDate {
		return string(ref.Date) + " (another day)"
	}
	for _, q := range st.Quests {
		if q.ID != ref.QuestID {
			continue
		}
		if sub := q.FindSubQuest(ref.SubQuestID); sub != nil {
			return q.Title + " › " + sub.Title
		}
	}
	return ""
}
