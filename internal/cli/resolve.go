package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/questbot/internal/domain"
)

// resolveQuest finds a quest on the viewed date by:
//   - a 1-based position as shown by "quest list"
//   - a full ID or an unambiguous ID prefix
func resolveQuest(quests []*domain.Quest, input string) (*domain.Quest, error) {
	if n, err := strconv.Atoi(input); err == nil {
		if n < 1 || n > len(quests) {
			return nil, fmt.Errorf("quest #%d: %w (%d quest(s) on this day)", n, domain.ErrQuestNotFound, len(quests))
		}
		return quests[n-1], nil
	}

	var match *domain.Quest
	for _, q := range quests {
		if q.ID == input {
			return q, nil
		}
		if strings.HasPrefix(q.ID, input) {
			if match != nil {
				return nil, fmt.Errorf("quest prefix %q is ambiguous", input)
			}
			match = q
		}
	}
	if match == nil {
		return nil, fmt.Errorf("quest %q: %w", input, domain.ErrQuestNotFound)
	}
	return match, nil
}

// resolveSubQuest finds a sub-quest in q by 1-based position or ID prefix.
func resolveSubQuest(q *domain.Quest, input string) (*domain.SubQuest, error) {
	if n, err := strconv.Atoi(input); err == nil {
		if n < 1 || n > len(q.SubQuests) {
			return nil, fmt.Errorf("sub-quest #%d of %q: %w", n, q.Title, domain.ErrSubQuestNotFound)
		}
		return &q.SubQuests[n-1], nil
	}
	var match *domain.SubQuest
	for i := range q.SubQuests {
		sub := &q.SubQuests[i]
		if sub.ID == input {
			return sub, nil
		}
		if strings.HasPrefix(sub.ID, input) {
			if match != nil {
				return nil, fmt.Errorf("sub-quest prefix %q is ambiguous", input)
			}
			match = sub
		}
	}
	if match == nil {
		return nil, fmt.Errorf("sub-quest %q: %w", input, domain.ErrSubQuestNotFound)
	}
	return match, nil
}
