package progression

const (
	// XPPerLevel is the experience needed to advance one level.
	XPPerLevel = 1000
	// FocusAward is the experience granted per finished focus interval.
	FocusAward = 250
)

// State is the persisted progression counter. Level and tier are derived.
type State struct {
	XP int
}

// Level returns floor(xp / XPPerLevel) + 1. Negative xp is treated as zero.
func Level(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/XPPerLevel + 1
}

// LevelProgress returns the experience earned within the current level.
func LevelProgress(xp int) int {
	if xp < 0 {
		return 0
	}
	return xp % XPPerLevel
}

// ProgressFraction returns LevelProgress as a fraction in [0, 1).
func ProgressFraction(xp int) float64 {
	return float64(LevelProgress(xp)) / XPPerLevel
}

// XPToNextLevel returns how much experience is left before the next level.
func XPToNextLevel(xp int) int {
	return XPPerLevel - LevelProgress(xp)
}

// LevelUp describes a level boundary crossed by a single award. A jump over
// several boundaries yields one LevelUp spanning From..To.
type LevelUp struct {
	From int
	To   int
}

// Levels returns how many levels the award crossed.
func (l LevelUp) Levels() int {
	return l.To - l.From
}

// Award adds amount to the state and reports a level-up when the new level is
// higher than the level before this award. Detection compares against
// xp-amount so it stays correct for any award size.
func Award(s State, amount int) (State, *LevelUp) {
	if amount <= 0 {
		return s, nil
	}
	s.XP += amount
	before := Level(s.XP - amount)
	after := Level(s.XP)
	if after > before {
		return s, &LevelUp{From: before, To: after}
	}
	return s, nil
}
