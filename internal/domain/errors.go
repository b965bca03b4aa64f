package domain

import "errors"

// Validation rejections. The operation leaves state unchanged.
var (
	ErrEmptyTitle       = errors.New("title is required")
	ErrInvalidEstimate  = errors.New("estimate must be a positive integer")
	ErrCapacityReached  = errors.New("sub-quest capacity reached")
	ErrInvalidDate      = errors.New("invalid date (expected YYYY-MM-DD)")
	ErrInvalidDuration  = errors.New("duration must be a positive number of minutes")
	ErrEmptyCatalog     = errors.New("break activity catalog is empty")
	ErrSubQuestComplete = errors.New("sub-quest already complete")
	ErrQuestNotFound    = errors.New("quest not found")
	ErrSubQuestNotFound = errors.New("sub-quest not found")
)

// Invalid timer transitions. Logged as warnings, never fatal.
var (
	ErrInvalidTransition = errors.New("invalid timer transition")
	ErrNoSelection       = errors.New("no sub-quest selected")
)
