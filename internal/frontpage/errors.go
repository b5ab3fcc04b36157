package frontpage

import "errors"

var (
	// ErrEmptyPool is returned when a lead is requested from zero candidates.
	// Callers guarantee a non-empty pool, so this signals a programming error.
	ErrEmptyPool = errors.New("frontpage: empty candidate pool")

	// ErrNoTopic is returned when an event carries no topics at all.
	ErrNoTopic = errors.New("frontpage: event has no topics")
)
