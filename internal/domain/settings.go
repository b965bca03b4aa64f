package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultPomodoroMinutes = 25
	DefaultBreakMinutes    = 5
)

// DefaultBreakActivities is the built-in catalog of break suggestions.
var DefaultBreakActivities = []string{
	"20 Jumping Jacks", "10 Push-ups", "15 Squats", "30-sec Plank",
	"15 Lunges (each leg)", "20 High Knees", "10 Burpees", "30-sec Wall Sit",
}

// Settings are the user-adjustable timer options.
type Settings struct {
	PomodoroMinutes int
	BreakMinutes    int
	BreakActivities []string
}

func DefaultSettings() Settings {
	return Settings{
		PomodoroMinutes: DefaultPomodoroMinutes,
		BreakMinutes:    DefaultBreakMinutes,
		BreakActivities: append([]string(nil), DefaultBreakActivities...),
	}
}

func (s Settings) PomodoroDuration() time.Duration {
	return time.Duration(s.PomodoroMinutes) * time.Minute
}

func (s Settings) BreakDuration() time.Duration {
	return time.Duration(s.BreakMinutes) * time.Minute
}

// Validate checks every field.
func (s Settings) Validate() error {
	if s.PomodoroMinutes <= 0 {
		return fmt.Errorf("pomodoro %d: %w", s.PomodoroMinutes, ErrInvalidDuration)
	}
	if s.BreakMinutes <= 0 {
		return fmt.Errorf("break %d: %w", s.BreakMinutes, ErrInvalidDuration)
	}
	if len(s.BreakActivities) == 0 {
		return ErrEmptyCatalog
	}
	return nil
}

// ParseMinutes parses raw user input as a positive whole number of minutes.
func ParseMinutes(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%q: %w", raw, ErrInvalidDuration)
	}
	return n, nil
}

// ApplyInput updates each duration whose raw input parses as a positive
// integer; invalid fields keep their prior value. Returns one error per
// rejected field, joined.
func (s Settings) ApplyInput(pomodoroRaw, breakRaw string) (Settings, error) {
	var errs []error
	if pomodoroRaw != "" {
		if n, err := ParseMinutes(pomodoroRaw); err == nil {
			s.PomodoroMinutes = n
		} else {
			errs = append(errs, fmt.Errorf("pomodoro: %w", err))
		}
	}
	if breakRaw != "" {
		if n, err := ParseMinutes(breakRaw); err == nil {
			s.BreakMinutes = n
		} else {
			errs = append(errs, fmt.Errorf("break: %w", err))
		}
	}
	return s, joinErrs(errs)
}
