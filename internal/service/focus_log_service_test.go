package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/questbot/internal/db"
	"github.com/alexanderramin/questbot/internal/domain"
	"github.com/alexanderramin/questbot/internal/engine"
	"github.com/alexanderramin/questbot/internal/repository"
	"github.com/alexanderramin/questbot/internal/snapshot"
	"github.com/alexanderramin/questbot/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepos(t *testing.T) (repository.FocusSessionRepo, *repository.SQLiteKVRepo, db.UnitOfWork, *testutil.FakeClock) {
	t.Helper()
	database := testutil.NewTestDB(t)
	return repository.NewSQLiteFocusSessionRepo(database),
		repository.NewSQLiteKVRepo(database),
		testutil.NewTestUoW(database),
		testutil.NewFakeClock(time.Date(2025, 6, 15, 9, 0, 0, 0, time.Local))
}

func focusEvent(date domain.DateKey, title string, start time.Time) engine.Event {
	return engine.Event{
		Kind:       engine.EventFocusCompleted,
		At:         start.Add(25 * time.Minute),
		Ref:        domain.SubQuestRef{Date: date, QuestID: "q-" + title, SubQuestID: "s-" + title},
		QuestTitle: title,
		StartedAt:  start,
		XPAwarded:  250,
	}
}

func TestCheckpoint_RecordsFocusCompletionsAndSnapshot(t *testing.T) {
	sessions, kv, uow, clock := setupRepos(t)
	svc := NewFocusLogService(sessions, uow)
	ctx := context.Background()

	st := engine.DefaultState()
	st.XP = 250
	events := []engine.Event{
		focusEvent("2025-06-15", "Write report", clock.Now()),
		{Kind: engine.EventBreakStarted, Activity: "10 Push-ups"},
	}

	n, err := svc.Checkpoint(ctx, events, st)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	logs, err := svc.ListByDate(ctx, "2025-06-15")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "Write report", logs[0].QuestTitle)
	assert.Equal(t, "s-Write report", logs[0].SubQuestID)
	assert.Equal(t, 25, logs[0].Minutes())
	assert.Equal(t, 250, logs[0].XPAwarded)

	raw, err := kv.Get(ctx, snapshot.StateKey)
	require.NoError(t, err)
	restored, err := snapshot.Decode(raw, nil)
	require.NoError(t, err)
	assert.Equal(t, 250, restored.XP)
}

func TestCheckpoint_RollsBackOnFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	sessions := repository.NewSQLiteFocusSessionRepo(database)
	boom := errors.New("disk full")
	uow := &testutil.FailingWriteUoW{DB: database, Table: "kv_store", FailOn: 1, Err: boom}
	svc := NewFocusLogService(sessions, uow)
	ctx := context.Background()

	start := time.Date(2025, 6, 15, 9, 0, 0, 0, time.Local)
	_, err := svc.Checkpoint(ctx, []engine.Event{focusEvent("2025-06-15", "A", start)}, engine.DefaultState())
	require.ErrorIs(t, err, boom)

	logs, err := svc.ListByDate(ctx, "2025-06-15")
	require.NoError(t, err)
	assert.Empty(t, logs)

	_, err = repository.NewSQLiteKVRepo(database).Get(ctx, snapshot.StateKey)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSummarize_FillsEmptyDays(t *testing.T) {
	sessions, _, uow, clock := setupRepos(t)
	svc := NewFocusLogService(sessions, uow)
	ctx := context.Background()

	today := domain.DateKeyFor(clock.Now())
	yesterday := today.AddDays(-1)
	events := []engine.Event{
		focusEvent(yesterday, "A", yesterday.Time().Add(9*time.Hour)),
		focusEvent(today, "B", today.Time().Add(8*time.Hour)),
		focusEvent(today, "C", today.Time().Add(9*time.Hour)),
		focusEvent(today.AddDays(-10), "old", today.AddDays(-10).Time().Add(9*time.Hour)),
	}
	_, err := svc.Checkpoint(ctx, events, engine.DefaultState())
	require.NoError(t, err)

	sum, err := svc.Summarize(ctx, today, 3)
	require.NoError(t, err)
	require.Len(t, sum, 3)
	assert.Equal(t, DaySummary{Date: today.AddDays(-2)}, sum[0])
	assert.Equal(t, DaySummary{Date: yesterday, Sessions: 1, Minutes: 25, XP: 250}, sum[1])
	assert.Equal(t, DaySummary{Date: today, Sessions: 2, Minutes: 50, XP: 500}, sum[2])
}

func TestSummarize_NonPositiveDays(t *testing.T) {
	sessions, _, uow, _ := setupRepos(t)
	sum, err := NewFocusLogService(sessions, uow).Summarize(context.Background(), "2025-06-15", 0)
	require.NoError(t, err)
	assert.Nil(t, sum)
}
