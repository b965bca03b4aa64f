package progression

// Tier is the cosmetic animal shown for a level.
type Tier struct {
	Level       int
	Emoji       string
	Name        string
	Description string
}

// Tiers is ordered by level; the last entry is the final evolution.
var Tiers = []Tier{
	{1, "🐛", "Caterpillar", "Just starting your journey!"},
	{2, "🐜", "Ant", "Building discipline!"},
	{3, "🐝", "Bee", "Buzzing with productivity!"},
	{4, "🐸", "Frog", "Leaping to new heights!"},
	{5, "🐢", "Turtle", "Steady and persistent!"},
	{6, "🐰", "Rabbit", "Quick and efficient!"},
	{7, "🐺", "Wolf", "Focused and determined!"},
	{8, "🐅", "Tiger", "Powerful and precise!"},
	{9, "🦅", "Eagle", "Soaring above challenges!"},
	{10, "🦖", "T-Rex", "The ultimate focus master!"},
}

// TierIndex returns clamp(level-1, 0, len(Tiers)-1).
func TierIndex(level int) int {
	i := level - 1
	if i < 0 {
		return 0
	}
	if i > len(Tiers)-1 {
		return len(Tiers) - 1
	}
	return i
}

// TierFor returns the tier for level. Past the table the tier stops advancing.
func TierFor(level int) Tier {
	return Tiers[TierIndex(level)]
}

// NextTier returns the tier reached at the next level and whether one exists.
func NextTier(level int) (Tier, bool) {
	if TierIndex(level) >= len(Tiers)-1 {
		return Tiers[len(Tiers)-1], false
	}
	return Tiers[TierIndex(level)+1], true
}

// View is the derived progression summary rendered by the UI.
type View struct {
	XP            int
	Level         int
	LevelProgress int
	XPToNext      int
	Tier          Tier
	Next          *Tier
}

// Describe derives the full view from xp.
func Describe(xp int) View {
	level := Level(xp)
	v := View{
		XP:            xp,
		Level:         level,
		LevelProgress: LevelProgress(xp),
		XPToNext:      XPToNextLevel(xp),
		Tier:          TierFor(level),
	}
	if next, ok := NextTier(level); ok {
		v.Next = &next
	}
	return v
}
