package cli

import (
	"bytes"
	"context"
	"database/sql"
	"path/filepath"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/alexanderramin/questbot/internal/config"
	"github.com/alexanderramin/questbot/internal/domain"
	"github.com/alexanderramin/questbot/internal/engine"
	"github.com/alexanderramin/questbot/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 6, 15, 9, 0, 0, 0, time.Local)

var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func plain(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	dir := t.TempDir()
	cfg.DBPath = filepath.Join(dir, "questbot.db")
	cfg.ActivitiesFile = filepath.Join(dir, "activities.yaml")
	cfg.SaveDebounce = time.Hour
	return cfg
}

// newAppOn wires an App over database with a fake clock at t0.
func newAppOn(t *testing.T, database *sql.DB, clock *testutil.FakeClock) *App {
	t.Helper()
	app := NewApp(database, testConfig(t), nil, nil, engine.WithClock(clock))
	t.Cleanup(func() { _ = app.Close() })
	return app
}

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) (*App, *testutil.FakeClock) {
	t.Helper()
	clock := testutil.NewFakeClock(t0)
	return newAppOn(t, testutil.NewTestDB(t), clock), clock
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return plain(buf.String()), err
}

// seedQuest adds a quest with sub-quests through the CLI.
func seedQuest(t *testing.T, app *App, title string, estimate string, subs ...string) {
	t.Helper()
	_, err := executeCmd(t, app, "quest", "add", title, "-e", estimate)
	require.NoError(t, err)
	n := len(app.Engine.Status().Quests)
	for _, s := range subs {
		_, err := executeCmd(t, app, "subquest", "add", strconv.Itoa(n), s)
		require.NoError(t, err)
	}
}

// --- Root command ---

func TestRootCmd_NonInteractivePrintsStatus(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app)
	require.NoError(t, err)
	assert.Contains(t, out, "QuestBot")
	assert.Contains(t, out, "Level 1")
	assert.Contains(t, out, "2025-06-15 (Today)")
	assert.Contains(t, out, "0/3")
	assert.Contains(t, out, "25:00")
}

// --- Quests ---

func TestQuestAdd_AndList(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "quest", "add", "Write", "chapter", "-e", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Added quest Write chapter (3 session(s)) on 2025-06-15")

	out, err = executeCmd(t, app, "quest", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "1. Write chapter")
	assert.Contains(t, out, "3 open slot(s)")
}

func TestQuestAdd_NonInteractiveRequiresTitle(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "quest", "add")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title is required")
}

func TestQuestAdd_RejectsNonPositiveEstimate(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "quest", "add", "Nope", "-e", "0")
	require.ErrorIs(t, err, domain.ErrInvalidEstimate)
	assert.Empty(t, app.Engine.Status().Quests)
}

func TestSubQuestAdd_StopsAtCapacity(t *testing.T) {
	app, _ := testApp(t)
	seedQuest(t, app, "Read", "1", "Chapter 1")

	_, err := executeCmd(t, app, "subquest", "add", "1", "Chapter 2")
	require.ErrorIs(t, err, domain.ErrCapacityReached)

	q := app.Engine.Status().Quests[0]
	assert.Len(t, q.SubQuests, 1)
}

func TestSubQuestAdd_UnknownQuest(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "subquest", "add", "3", "Orphan")
	require.ErrorIs(t, err, domain.ErrQuestNotFound)
}

// --- Selection ---

func TestSubQuestSelect_TogglesAndClears(t *testing.T) {
	app, _ := testApp(t)
	seedQuest(t, app, "Write", "2", "Outline", "Draft")

	out, err := executeCmd(t, app, "subquest", "select", "1", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Focus target: Write › Draft")

	out, err = executeCmd(t, app, "subquest", "select", "1", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Deselected Draft.")
	assert.Nil(t, app.Engine.Selection())

	_, err = executeCmd(t, app, "subquest", "select", "1", "1")
	require.NoError(t, err)
	require.NotNil(t, app.Engine.Selection())

	out, err = executeCmd(t, app, "subquest", "select", "--clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Focus target cleared.")
	assert.Nil(t, app.Engine.Selection())
}

func TestSession_SurvivesRestart(t *testing.T) {
	database := testutil.NewTestDB(t)
	clock := testutil.NewFakeClock(t0)

	first := newAppOn(t, database, clock)
	seedQuest(t, first, "Write", "2", "Outline")
	_, err := executeCmd(t, first, "subquest", "select", "1", "1")
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second := newAppOn(t, database, clock)
	out, err := executeCmd(t, second, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "1. Write")
	assert.Contains(t, out, "Focus target: Write › Outline")
}

func TestStatus_PersistsSeededGoalForNextDay(t *testing.T) {
	database := testutil.NewTestDB(t)
	clock := testutil.NewFakeClock(t0)

	first := newAppOn(t, database, clock)
	_, err := executeCmd(t, first, "status")
	require.NoError(t, err)
	require.NoError(t, first.Close())

	clock.Advance(24 * time.Hour)
	second := newAppOn(t, database, clock)
	ledger := second.Engine.Export().Ledger
	require.True(t, ledger.HasGoal("2025-06-15"))
	assert.Equal(t, domain.DailyRecord{Goal: 3}, ledger.Record("2025-06-15"))
	assert.Equal(t, 2, ledger.Record("2025-06-16").Goal, "missed day damps the next goal")
}

// --- Date navigation ---

func TestDateCmd_ScopesQuestCommands(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "date", "next")
	require.NoError(t, err)
	assert.Contains(t, out, "2025-06-16 (Tomorrow)")

	seedQuest(t, app, "Tomorrow's quest", "1")

	out, err = executeCmd(t, app, "date", "today")
	require.NoError(t, err)
	assert.Contains(t, out, "2025-06-15 (Today)")

	out, err = executeCmd(t, app, "quest", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No quests for this day.")

	out, err = executeCmd(t, app, "date", "set", "2025-06-16")
	require.NoError(t, err)
	assert.Contains(t, out, "2025-06-16")
	out, err = executeCmd(t, app, "quest", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Tomorrow's quest")
}

func TestDateCmd_RejectsMalformedDate(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "date", "set", "2025-13-40")
	require.ErrorIs(t, err, domain.ErrInvalidDate)
	assert.Equal(t, domain.DateKey("2025-06-15"), app.Engine.SelectedDate())
}

// --- Settings ---

func TestSettingsSet_KeepsPriorValueForInvalidField(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "settings", "set", "--pomodoro", "50", "--break", "abc")
	require.ErrorIs(t, err, domain.ErrInvalidDuration)
	assert.Contains(t, out, "Focus: 50 min")
	assert.Contains(t, out, "Break: 5 min")

	s := app.Engine.Status().Settings
	assert.Equal(t, 50, s.PomodoroMinutes)
	assert.Equal(t, 5, s.BreakMinutes)
}

func TestSettingsSet_NonInteractiveNeedsFlags(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "settings", "set")
	require.Error(t, err)
}

func TestSettingsReset(t *testing.T) {
	app, _ := testApp(t)
	_, err := executeCmd(t, app, "settings", "set", "--pomodoro", "45", "--break", "15")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "settings", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Settings reset.")
	assert.Contains(t, out, "Focus: 25 min")
	assert.Contains(t, out, "Break: 5 min")
}

func TestSettingsActivitiesSet_WritesCatalogFile(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "settings", "activities", "set", "Stretch", "Walk")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved 2 break activities")

	got, err := config.LoadActivities(app.Config.ActivitiesFile)
	require.NoError(t, err)
	assert.Equal(t, []string{"Stretch", "Walk"}, got)
	assert.Equal(t, []string{"Stretch", "Walk"}, app.Engine.Status().Settings.BreakActivities)

	out, err = executeCmd(t, app, "settings", "activities")
	require.NoError(t, err)
	assert.Contains(t, out, " 1. Stretch")
	assert.Contains(t, out, " 2. Walk")
}

// --- Trail and history ---

func TestTrailCmd(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "trail", "--days", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "2025-06-13")
	assert.Contains(t, out, "2025-06-15")
	assert.NotContains(t, out, "2025-06-12")
	assert.Contains(t, out, "Current streak: 0 day(s)")

	_, err = executeCmd(t, app, "trail", "--days", "0")
	require.Error(t, err)
}

// --- Focus ---

func TestFocusCmd_RequiresSelection(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "focus")
	require.ErrorIs(t, err, domain.ErrNoSelection)
	assert.Equal(t, domain.TimerIdle, app.Engine.Status().Mode)
}

func TestHeadlessFocus_FullCycleLogsSession(t *testing.T) {
	app, clock := testApp(t)
	seedQuest(t, app, "Write", "1", "Outline")
	_, err := executeCmd(t, app, "subquest", "select", "1", "1")
	require.NoError(t, err)
	require.NoError(t, app.Engine.StartFocus())

	ticks := make(chan time.Time)
	done := make(chan error, 1)
	out := new(bytes.Buffer)
	go func() {
		done <- runHeadlessFocus(context.Background(), app, out, ticks, false)
	}()

	clock.Advance(25 * time.Minute)
	ticks <- clock.Now()
	// A second tick at the same instant returns only after the first was handled.
	ticks <- clock.Now()
	clock.Advance(5 * time.Minute)
	ticks <- clock.Now()
	require.NoError(t, <-done)

	text := plain(out.String())
	assert.Contains(t, text, "Write done. +250 XP")
	assert.Contains(t, text, "Break time: ")
	assert.Contains(t, text, "Break over.")

	st := app.Engine.Status()
	assert.Equal(t, domain.TimerIdle, st.Mode)
	assert.Equal(t, 250, st.Progression.XP)
	assert.Equal(t, 1, st.Completed)

	logs, err := app.FocusLog.ListByDate(context.Background(), "2025-06-15")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "Write", logs[0].QuestTitle)

	hist, err := executeCmd(t, app, "history", "--days", "1")
	require.NoError(t, err)
	assert.Contains(t, hist, "Write")
}

func TestHeadlessFocus_NoBreakExitsAfterFocus(t *testing.T) {
	app, clock := testApp(t)
	seedQuest(t, app, "Write", "1", "Outline")
	_, err := executeCmd(t, app, "subquest", "select", "1", "1")
	require.NoError(t, err)
	require.NoError(t, app.Engine.StartFocus())

	clock.Advance(25 * time.Minute)
	ticks := make(chan time.Time, 1)
	ticks <- clock.Now()

	require.NoError(t, runHeadlessFocus(context.Background(), app, new(bytes.Buffer), ticks, true))
	st := app.Engine.Status()
	assert.Equal(t, domain.TimerIdle, st.Mode)
	assert.Equal(t, 250, st.Progression.XP)
}

func TestHeadlessFocus_CancelStopsWithoutAward(t *testing.T) {
	app, _ := testApp(t)
	seedQuest(t, app, "Write", "1", "Outline")
	_, err := executeCmd(t, app, "subquest", "select", "1", "1")
	require.NoError(t, err)
	require.NoError(t, app.Engine.StartFocus())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := new(bytes.Buffer)
	require.NoError(t, runHeadlessFocus(ctx, app, out, nil, false))

	assert.Contains(t, plain(out.String()), "Nothing was awarded.")
	st := app.Engine.Status()
	assert.Equal(t, domain.TimerIdle, st.Mode)
	assert.Equal(t, 0, st.Progression.XP)
}
