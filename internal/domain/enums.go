package domain

type TimerMode string

const (
	TimerIdle  TimerMode = "idle"
	TimerFocus TimerMode = "focus"
	TimerBreak TimerMode = "break"
)

// ValidTimerModes is the canonical set of accepted timer mode strings.
var ValidTimerModes = map[string]bool{
	"idle": true, "focus": true, "break": true,
}
