// Package quest owns the date-keyed quest hierarchy, the per-date goal
// ledger, and the focus-target selection.
package quest

import (
	"fmt"

	"github.com/alexanderramin/questbot/internal/domain"
	"github.com/alexanderramin/questbot/internal/goals"
	"github.com/google/uuid"
)

// Store is not safe for concurrent use; the engine serializes access.
type Store struct {
	quests    *domain.DatedQuests
	ledger    *domain.DailyLedger
	selection *domain.SubQuestRef

	newID func() string
	level func() int
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator overrides uuid-based IDs.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithLevel supplies the current level used when seeding goals.
func WithLevel(fn func() int) Option {
	return func(s *Store) { s.level = fn }
}

// WithState restores a previously saved hierarchy and ledger.
func WithState(quests *domain.DatedQuests, ledger *domain.DailyLedger) Option {
	return func(s *Store) {
		if quests != nil {
			s.quests = quests
		}
		if ledger != nil {
			s.ledger = ledger
		}
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		quests: domain.NewDatedQuests(),
		ledger: domain.NewDailyLedger(),
		newID:  func() string { return uuid.New().String() },
		level:  func() int { return 1 },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddQuest appends a new quest on date and seeds the date's goal if absent.
func (s *Store) AddQuest(date domain.DateKey, title string, estimated int) (*domain.Quest, error) {
	if !date.Valid() {
		return nil, fmt.Errorf("adding quest: %w", domain.ErrInvalidDate)
	}
	q, err := domain.NewQuest(s.newID(), title, estimated)
	if err != nil {
		return nil, fmt.Errorf("adding quest: %w", err)
	}
	s.quests.Append(date, q)
	goals.EnsureGoal(s.ledger, date, s.level())
	return q.Clone(), nil
}

// AddSubQuest appends a sub-quest while the quest has a free slot.
func (s *Store) AddSubQuest(date domain.DateKey, questID, title string) (*domain.SubQuest, error) {
	q := s.quests.Find(date, questID)
	if q == nil {
		return nil, fmt.Errorf("adding sub-quest to %s: %w", questID, domain.ErrQuestNotFound)
	}
	sub, err := q.AddSubQuest(s.newID(), title)
	if err != nil {
		return nil, fmt.Errorf("adding sub-quest: %w", err)
	}
	c := *sub
	return &c, nil
}

// CompleteSubQuest marks the sub-quest complete, counts one finished session
// on both the quest and the date's ledger, and clears a selection pointing at
// it. Returns false without touching counters when it was already complete.
func (s *Store) CompleteSubQuest(ref domain.SubQuestRef) (bool, error) {
	q := s.quests.Find(ref.Date, ref.QuestID)
	if q == nil {
		return false, fmt.Errorf("completing sub-quest: %w", domain.ErrQuestNotFound)
	}
	changed, err := q.CompleteSubQuest(ref.SubQuestID)
	if err != nil {
		return false, fmt.Errorf("completing sub-quest: %w", err)
	}
	if s.selection != nil && s.selection.SubQuestID == ref.SubQuestID {
		s.selection = nil
	}
	if !changed {
		return false, nil
	}
	s.ledger.IncrementCompleted(ref.Date)
	return true, nil
}

// Select toggles the focus target. nil clears it; selecting the current
// target deselects it; completed sub-quests cannot be selected.
func (s *Store) Select(ref *domain.SubQuestRef) error {
	if ref == nil {
		s.selection = nil
		return nil
	}
	sub, err := s.lookup(*ref)
	if err != nil {
		return err
	}
	if sub.IsComplete {
		return fmt.Errorf("selecting %q: %w", sub.Title, domain.ErrSubQuestComplete)
	}
	if s.selection != nil && *s.selection == *ref {
		s.selection = nil
		return nil
	}
	r := *ref
	s.selection = &r
	return nil
}

// Selection returns the current focus target, or nil.
func (s *Store) Selection() *domain.SubQuestRef {
	if s.selection == nil {
		return nil
	}
	r := *s.selection
	return &r
}

// SelectedSubQuest resolves the selection. Returns nil when nothing is
// selected or the target no longer resolves.
func (s *Store) SelectedSubQuest() (*domain.Quest, *domain.SubQuest) {
	if s.selection == nil {
		return nil, nil
	}
	q := s.quests.Find(s.selection.Date, s.selection.QuestID)
	if q == nil {
		return nil, nil
	}
	return q, q.FindSubQuest(s.selection.SubQuestID)
}

// Quests returns deep copies of date's quests in insertion order.
func (s *Store) Quests(date domain.DateKey) []*domain.Quest {
	src := s.quests.Get(date)
	out := make([]*domain.Quest, 0, len(src))
	for _, q := range src {
		out = append(out, q.Clone())
	}
	return out
}

// Quest returns a copy of one quest.
func (s *Store) Quest(date domain.DateKey, questID string) (*domain.Quest, error) {
	q := s.quests.Find(date, questID)
	if q == nil {
		return nil, fmt.Errorf("quest %s: %w", questID, domain.ErrQuestNotFound)
	}
	return q.Clone(), nil
}

// SessionsCompletedForDate sums quest-level completed counters for date.
func (s *Store) SessionsCompletedForDate(date domain.DateKey) int {
	total := 0
	for _, q := range s.quests.Get(date) {
		total += q.Completed
	}
	return total
}

// Ledger exposes the per-date goal/completed records.
func (s *Store) Ledger() *domain.DailyLedger {
	return s.ledger
}

// Dated exposes the hierarchy for snapshotting.
func (s *Store) Dated() *domain.DatedQuests {
	return s.quests
}

func (s *Store) lookup(ref domain.SubQuestRef) (*domain.SubQuest, error) {
	q := s.quests.Find(ref.Date, ref.QuestID)
	if q == nil {
		return nil, fmt.Errorf("quest %s: %w", ref.QuestID, domain.ErrQuestNotFound)
	}
	sub := q.FindSubQuest(ref.SubQuestID)
	if sub == nil {
		return nil, fmt.Errorf("sub-quest %s: %w", ref.SubQuestID, domain.ErrSubQuestNotFound)
	}
	return sub, nil
}
