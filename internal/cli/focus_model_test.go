package cli

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/questbot/internal/domain"
	"github.com/alexanderramin/questbot/internal/engine"
	"github.com/alexanderramin/questbot/internal/teatest"
	"github.com/alexanderramin/questbot/internal/testutil"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFocusDriver(t *testing.T, app *App) *teatest.Driver {
	t.Helper()
	d := teatest.New(t, newFocusModel(app), teatest.WithSize(100, 40))
	d.DrainInit()
	return d
}

// seededFocusApp returns an app with one quest holding two sub-quests.
func seededFocusApp(t *testing.T) (*App, *testutil.FakeClock) {
	t.Helper()
	app, clock := testApp(t)
	q, err := app.Engine.AddQuest("Write", 2)
	require.NoError(t, err)
	_, err = app.Engine.AddSubQuest(q.ID, "Outline")
	require.NoError(t, err)
	_, err = app.Engine.AddSubQuest(q.ID, "Draft")
	require.NoError(t, err)
	return app, clock
}

func TestFocusModel_InitialView(t *testing.T) {
	app, _ := testApp(t)
	d := newFocusDriver(t, app)

	d.AssertViewContains("Level 1")
	d.AssertViewContains("2025-06-15 (Today)")
	d.AssertViewContains("No quests for this day.")
	d.AssertViewContains("IDLE")
}

func TestFocusModel_StartRequiresSelection(t *testing.T) {
	app, _ := seededFocusApp(t)
	d := newFocusDriver(t, app)

	d.PressSpace()
	d.AssertViewContains("Select an open sub-quest first")
	assert.Equal(t, domain.TimerIdle, app.Engine.Status().Mode)
}

func TestFocusModel_SelectStartAndComplete(t *testing.T) {
	app, clock := seededFocusApp(t)
	d := newFocusDriver(t, app)

	d.PressKey('j')
	d.PressEnter()
	d.AssertViewContains("Focus target: Write › Draft")

	d.PressSpace()
	require.Equal(t, domain.TimerFocus, app.Engine.Status().Mode)
	d.AssertViewContains("25:00")

	clock.Advance(10 * time.Minute)
	d.Send(tickMsg{gen: app.Engine.TimerGeneration()})
	d.AssertViewContains("15:00")

	clock.Advance(15 * time.Minute)
	d.Send(tickMsg{gen: app.Engine.TimerGeneration()})

	st := app.Engine.Status()
	assert.Equal(t, domain.TimerBreak, st.Mode)
	assert.Equal(t, 250, st.Progression.XP)
	assert.Nil(t, st.Selection)
	d.AssertViewContains("Write done. +250 XP")
	d.AssertViewContains("Break time: ")
}

func TestFocusModel_StaleTickIsDropped(t *testing.T) {
	app, clock := seededFocusApp(t)
	d := newFocusDriver(t, app)
	d.PressEnter()
	d.PressSpace()

	stale := app.Engine.TimerGeneration()
	d.PressSpace() // pause
	require.True(t, app.Engine.Status().Paused)

	clock.Advance(time.Hour)
	d.Send(tickMsg{gen: stale})

	st := app.Engine.Status()
	assert.Equal(t, domain.TimerFocus, st.Mode)
	assert.Equal(t, 0, st.Progression.XP)
	d.AssertViewContains("paused")

	d.PressSpace() // resume
	assert.False(t, app.Engine.Status().Paused)
	assert.Equal(t, 25*60, app.Engine.Status().RemainingSeconds)
}

func TestFocusModel_RejectedCommandArmsNoTick(t *testing.T) {
	app, _ := seededFocusApp(t)
	q := app.Engine.Status().Quests[0]
	require.NoError(t, app.Engine.SelectSubQuest(q.ID, q.SubQuests[0].ID))
	require.NoError(t, app.Engine.StartFocus())
	gen := app.Engine.TimerGeneration()

	var model tea.Model = newFocusModel(app)
	breakKey := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}}
	for i := 0; i < 3; i++ {
		var cmd tea.Cmd
		model, cmd = model.Update(breakKey)
		assert.Nil(t, cmd, "rejected break must not start another tick chain")
	}
	assert.Equal(t, gen, app.Engine.TimerGeneration())
	assert.Equal(t, domain.TimerFocus, app.Engine.Status().Mode)
	assert.Contains(t, plain(model.View()), "Not available right now.")

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.Nil(t, cmd, "pausing stops the countdown")
	require.True(t, app.Engine.Status().Paused)

	_, cmd = model.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.NotNil(t, cmd, "resuming moves the deadline")
}

func TestFocusModel_StopAndSkip(t *testing.T) {
	app, _ := seededFocusApp(t)
	d := newFocusDriver(t, app)
	d.PressEnter()
	d.PressSpace()

	d.PressKey('x')
	assert.Equal(t, domain.TimerIdle, app.Engine.Status().Mode)
	d.AssertViewContains("Nothing was awarded.")

	d.PressKey('b')
	require.Equal(t, domain.TimerBreak, app.Engine.Status().Mode)
	d.AssertViewContains("Break time: ")

	d.PressKey('n')
	assert.Equal(t, domain.TimerIdle, app.Engine.Status().Mode)
	d.AssertViewContains("Break skipped.")

	d.PressKey('n')
	d.AssertViewContains("Not available right now.")
}

func TestFocusModel_DateNavigation(t *testing.T) {
	app, _ := seededFocusApp(t)
	d := newFocusDriver(t, app)

	d.PressKey('l')
	d.AssertViewContains("2025-06-16 (Tomorrow)")
	d.AssertViewContains("No quests for this day.")

	d.PressKey('h')
	d.PressKey('h')
	d.AssertViewContains("2025-06-14 (Yesterday)")

	d.PressKey('t')
	d.AssertViewContains("1. Write")
}

func TestFocusModel_AddQuestFormCancels(t *testing.T) {
	app, _ := testApp(t)
	d := newFocusDriver(t, app)

	d.PressKey('a')
	d.AssertViewContains("Estimated sessions")
	d.AssertViewContains("esc cancel")

	d.PressEsc()
	d.AssertViewContains("Cancelled.")
	assert.Empty(t, app.Engine.Status().Quests)
}

func TestFocusModel_AddSubQuestNeedsOpenSlot(t *testing.T) {
	app, _ := seededFocusApp(t)
	d := newFocusDriver(t, app)

	d.PressKey('+')
	d.AssertViewContains("No quest with an open slot on this day.")
}

func TestFocusModel_TicksContinueUnderForm(t *testing.T) {
	app, clock := seededFocusApp(t)
	d := newFocusDriver(t, app)
	d.PressEnter()
	d.PressSpace()

	d.PressKey('s')
	d.AssertViewContains("Focus minutes")

	clock.Advance(25 * time.Minute)
	d.Send(tickMsg{gen: app.Engine.TimerGeneration()})
	assert.Equal(t, domain.TimerBreak, app.Engine.Status().Mode)
	d.AssertViewContains("Focus minutes")
}

func TestFocusModel_Quit(t *testing.T) {
	app, _ := testApp(t)
	d := newFocusDriver(t, app)

	d.PressKey('q')
	assert.True(t, d.Quitting)
}

func TestFocusModel_CheckpointCmdWritesLog(t *testing.T) {
	app, clock := seededFocusApp(t)
	q := app.Engine.Status().Quests[0]
	require.NoError(t, app.Engine.SelectSubQuest(q.ID, q.SubQuests[0].ID))
	require.NoError(t, app.Engine.StartFocus())
	clock.Advance(25 * time.Minute)
	app.Engine.Tick()
	events := app.Engine.DrainEvents()

	m := newFocusModel(app)
	cmd := m.checkpointCmd(events)
	require.NotNil(t, cmd)
	msg, ok := cmd().(checkpointMsg)
	require.True(t, ok)
	require.NoError(t, msg.err)
	assert.Equal(t, 1, msg.n)

	logs, err := app.FocusLog.ListByDate(context.Background(), "2025-06-15")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, q.SubQuests[0].ID, logs[0].SubQuestID)

	assert.Nil(t, m.checkpointCmd([]engine.Event{{Kind: engine.EventBreakCompleted}}))
}
