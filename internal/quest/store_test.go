package quest

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/alexanderramin/questbot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const day = domain.DateKey("2025-06-15")

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestStore(opts ...Option) *Store {
	return NewStore(append([]Option{WithIDGenerator(seqIDs())}, opts...)...)
}

func TestAddQuest_Valid(t *testing.T) {
	s := newTestStore()
	q, err := s.AddQuest(day, "  Write report ", 3)
	require.NoError(t, err)
	assert.Equal(t, "Write report", q.Title)
	assert.Equal(t, 3, q.Estimated)
	assert.Equal(t, 0, q.Completed)
	assert.Empty(t, q.SubQuests)

	quests := s.Quests(day)
	require.Len(t, quests, 1)
	assert.Equal(t, q.ID, quests[0].ID)
}

func TestAddQuest_Rejections(t *testing.T) {
	s := newTestStore()

	_, err := s.AddQuest(day, "   ", 3)
	assert.ErrorIs(t, err, domain.ErrEmptyTitle)

	_, err = s.AddQuest(day, "Read", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidEstimate)

	_, err = s.AddQuest(day, "Read", -2)
	assert.ErrorIs(t, err, domain.ErrInvalidEstimate)

	_, err = s.AddQuest("2025-13-01", "Read", 2)
	assert.ErrorIs(t, err, domain.ErrInvalidDate)

	assert.Empty(t, s.Quests(day))
	assert.False(t, s.Ledger().HasGoal(day), "rejected adds must not seed a goal")
}

func TestAddQuest_PreservesOrderPerDate(t *testing.T) {
	s := newTestStore()
	for _, title := range []string{"A", "B", "C"} {
		_, err := s.AddQuest(day, title, 1)
		require.NoError(t, err)
	}
	_, err := s.AddQuest(day.AddDays(1), "Tomorrow", 1)
	require.NoError(t, err)

	var titles []string
	for _, q := range s.Quests(day) {
		titles = append(titles, q.Title)
	}
	assert.Equal(t, []string{"A", "B", "C"}, titles)
	assert.Equal(t, []domain.DateKey{day, day.AddDays(1)}, s.Dated().Dates())
}

func TestAddQuest_SeedsGoalFromLevel(t *testing.T) {
	s := newTestStore(WithLevel(func() int { return 4 }))
	_, err := s.AddQuest(day, "Read", 2)
	require.NoError(t, err)
	assert.Equal(t, 5, s.Ledger().Record(day).Goal)

	// An existing goal is kept.
	s.Ledger().SetGoal(day, 9)
	_, err = s.AddQuest(day, "Write", 2)
	require.NoError(t, err)
	assert.Equal(t, 9, s.Ledger().Record(day).Goal)
}

func TestAddSubQuest_CapacityReached(t *testing.T) {
	s := newTestStore()
	q, err := s.AddQuest(day, "Write report", 2)
	require.NoError(t, err)

	_, err = s.AddSubQuest(day, q.ID, "Outline")
	require.NoError(t, err)
	_, err = s.AddSubQuest(day, q.ID, "Draft")
	require.NoError(t, err)

	_, err = s.AddSubQuest(day, q.ID, "Polish")
	assert.ErrorIs(t, err, domain.ErrCapacityReached)

	got, err := s.Quest(day, q.ID)
	require.NoError(t, err)
	assert.Len(t, got.SubQuests, 2)
}

func TestAddSubQuest_Rejections(t *testing.T) {
	s := newTestStore()
	q, err := s.AddQuest(day, "Write", 2)
	require.NoError(t, err)

	_, err = s.AddSubQuest(day, q.ID, "")
	assert.ErrorIs(t, err, domain.ErrEmptyTitle)

	_, err = s.AddSubQuest(day, "missing", "x")
	assert.ErrorIs(t, err, domain.ErrQuestNotFound)

	_, err = s.AddSubQuest(day.AddDays(1), q.ID, "x")
	assert.ErrorIs(t, err, domain.ErrQuestNotFound, "quests are scoped to their date")
}

// TestAddSubQuest_Invariants_NeverExceedsEstimate property-tests the capacity bound.
func TestAddSubQuest_Invariants_NeverExceedsEstimate(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 100; trial++ {
		s := newTestStore()
		estimate := rng.Intn(6) + 1
		q, err := s.AddQuest(day, "Quest", estimate)
		require.NoError(t, err)

		attempts := rng.Intn(15)
		for i := 0; i < attempts; i++ {
			title := "sub"
			if rng.Intn(4) == 0 {
				title = ""
			}
			_, _ = s.AddSubQuest(day, q.ID, title)
		}

		got, err := s.Quest(day, q.ID)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(got.SubQuests), got.Estimated, "trial %d", trial)
	}
}

func TestCompleteSubQuest_CountsBothCounters(t *testing.T) {
	s := newTestStore()
	q, _ := s.AddQuest(day, "Write", 3)
	sub, err := s.AddSubQuest(day, q.ID, "Outline")
	require.NoError(t, err)

	ref := domain.SubQuestRef{Date: day, QuestID: q.ID, SubQuestID: sub.ID}
	require.NoError(t, s.Select(&ref))

	changed, err := s.CompleteSubQuest(ref)
	require.NoError(t, err)
	assert.True(t, changed)

	got, _ := s.Quest(day, q.ID)
	assert.Equal(t, 1, got.Completed)
	assert.True(t, got.SubQuests[0].IsComplete)
	assert.False(t, got.IsComplete)
	assert.Equal(t, 1, s.Ledger().Record(day).Completed)
	assert.Equal(t, 1, s.SessionsCompletedForDate(day))
	assert.Nil(t, s.Selection(), "completing the selected sub-quest clears the selection")
}

func TestCompleteSubQuest_Idempotent(t *testing.T) {
	s := newTestStore()
	q, _ := s.AddQuest(day, "Write", 3)
	sub, _ := s.AddSubQuest(day, q.ID, "Outline")
	ref := domain.SubQuestRef{Date: day, QuestID: q.ID, SubQuestID: sub.ID}

	_, err := s.CompleteSubQuest(ref)
	require.NoError(t, err)
	changed, err := s.CompleteSubQuest(ref)
	require.NoError(t, err)
	assert.False(t, changed)

	got, _ := s.Quest(day, q.ID)
	assert.Equal(t, 1, got.Completed)
	assert.Equal(t, 1, s.Ledger().Record(day).Completed)
}

func TestCompleteSubQuest_MarksQuestCompleteAtEstimate(t *testing.T) {
	s := newTestStore()
	q, _ := s.AddQuest(day, "Write", 1)
	sub, _ := s.AddSubQuest(day, q.ID, "Only")

	_, err := s.CompleteSubQuest(domain.SubQuestRef{Date: day, QuestID: q.ID, SubQuestID: sub.ID})
	require.NoError(t, err)

	got, _ := s.Quest(day, q.ID)
	assert.True(t, got.IsComplete)
}

func TestCompleteSubQuest_Unknown(t *testing.T) {
	s := newTestStore()
	q, _ := s.AddQuest(day, "Write", 1)

	_, err := s.CompleteSubQuest(domain.SubQuestRef{Date: day, QuestID: "nope", SubQuestID: "x"})
	assert.ErrorIs(t, err, domain.ErrQuestNotFound)

	_, err = s.CompleteSubQuest(domain.SubQuestRef{Date: day, QuestID: q.ID, SubQuestID: "x"})
	assert.ErrorIs(t, err, domain.ErrSubQuestNotFound)
}

func TestSelect_Toggle(t *testing.T) {
	s := newTestStore()
	q, _ := s.AddQuest(day, "Write", 2)
	a, _ := s.AddSubQuest(day, q.ID, "A")
	b, _ := s.AddSubQuest(day, q.ID, "B")
	refA := domain.SubQuestRef{Date: day, QuestID: q.ID, SubQuestID: a.ID}
	refB := domain.SubQuestRef{Date: day, QuestID: q.ID, SubQuestID: b.ID}

	require.NoError(t, s.Select(&refA))
	assert.Equal(t, &refA, s.Selection())

	require.NoError(t, s.Select(&refB))
	assert.Equal(t, &refB, s.Selection())

	require.NoError(t, s.Select(&refB))
	assert.Nil(t, s.Selection(), "selecting the current target deselects it")

	require.NoError(t, s.Select(&refA))
	require.NoError(t, s.Select(nil))
	assert.Nil(t, s.Selection())
}

func TestSelect_RejectsCompleted(t *testing.T) {
	s := newTestStore()
	q, _ := s.AddQuest(day, "Write", 2)
	a, _ := s.AddSubQuest(day, q.ID, "A")
	ref := domain.SubQuestRef{Date: day, QuestID: q.ID, SubQuestID: a.ID}
	_, err := s.CompleteSubQuest(ref)
	require.NoError(t, err)

	err = s.Select(&ref)
	assert.ErrorIs(t, err, domain.ErrSubQuestComplete)
	assert.Nil(t, s.Selection())
}

func TestQuests_ReturnsCopies(t *testing.T) {
	s := newTestStore()
	q, _ := s.AddQuest(day, "Write", 2)
	_, _ = s.AddSubQuest(day, q.ID, "A")

	list := s.Quests(day)
	list[0].Title = "mutated"
	list[0].SubQuests[0].IsComplete = true

	got, _ := s.Quest(day, q.ID)
	assert.Equal(t, "Write", got.Title)
	assert.False(t, got.SubQuests[0].IsComplete)
}
