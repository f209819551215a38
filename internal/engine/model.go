package engine

import "fmt"

// hitProbability returns the chance that the next draw lands on the card,
// given t draws already made and k hits accumulated so far:
//
//	p = (cardSize - k) / (drumSize - t)
//
// t counts draws already completed before the step being evaluated, so the
// denominator stays strictly positive for every reachable state.
func hitProbability(p GameParams, t, k int) (float64, error) {
	if k < 0 || k > p.CardSize {
		return 0, fmt.Errorf("%w: class %d outside [0, %d]", ErrDomain, k, p.CardSize)
	}
	if t < 0 || t >= p.DrumSize {
		return 0, fmt.Errorf("%w: time %d outside [0, %d)", ErrDomain, t, p.DrumSize)
	}
	return float64(p.CardSize-k) / float64(p.DrumSize-t), nil
}
