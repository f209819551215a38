package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParams rejects a game configuration before any computation runs.
	ErrInvalidParams = errors.New("invalid game parameters")

	// ErrDomain marks a probability-model call outside its preconditions. The
	// recurrence short-circuits out-of-range classes to zero, so hitting this
	// error means a defect in the caller, not a recoverable condition.
	ErrDomain = errors.New("probability model domain violation")
)

// GameParams describes one game configuration: a card of CardSize numbers
// tracked against a drum of DrumSize numbers drawn without replacement.
type GameParams struct {
	CardSize int `json:"card_size"`
	DrumSize int `json:"drum_size"`
}

// Validate checks 0 <= CardSize <= DrumSize and DrumSize > 0.
func (p GameParams) Validate() error {
	if p.CardSize < 0 {
		return fmt.Errorf("%w: card size %d is negative", ErrInvalidParams, p.CardSize)
	}
	if p.DrumSize <= 0 {
		return fmt.Errorf("%w: drum size %d must be positive", ErrInvalidParams, p.DrumSize)
	}
	if p.CardSize > p.DrumSize {
		return fmt.Errorf("%w: card size %d exceeds drum size %d",
			ErrInvalidParams, p.CardSize, p.DrumSize)
	}
	return nil
}

func (p GameParams) String() string {
	return fmt.Sprintf("card=%d drum=%d", p.CardSize, p.DrumSize)
}
