package engine

import "fmt"

// Recurrence evaluates the fraction of cards sitting in each hit class as the
// drum empties. The naive recursive definition
//
//	f(t, k) = f(t-1, k-1)*p(t-1, k-1) + f(t-1, k)*(1 - p(t-1, k))
//
// branches twice per level and is exponential in t, so the table is filled
// bottom-up in increasing t instead: each cell depends only on two cells of
// the previous row, giving O(drumSize*cardSize) work total. Every Recurrence
// owns its table; nothing is shared across game configurations.
type Recurrence struct {
	params GameParams

	// rows[t][k] = fraction of cards with k hits after t draws, t in [0, drumSize].
	rows [][]float64
}

// NewRecurrence validates params and fills the full table.
func NewRecurrence(params GameParams) (*Recurrence, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	r := &Recurrence{params: params}
	if err := r.fill(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Recurrence) Params() GameParams {
	return r.params
}

func (r *Recurrence) fill() error {
	c, d := r.params.CardSize, r.params.DrumSize

	rows := make([][]float64, d+1)
	for t := range rows {
		rows[t] = make([]float64, c+1)
	}

	// All cards start with zero hits.
	rows[0][0] = 1

	for t := 1; t <= d; t++ {
		for k := 0; k <= c; k++ {
			var f float64

			// Advance term: fraction one class lower that hits on this draw.
			// A k-1 below zero has no mass and must never reach the model.
			if k > 0 {
				p, err := hitProbability(r.params, t-1, k-1)
				if err != nil {
					return err
				}
				f += rows[t-1][k-1] * p
			}

			// Stay term: fraction already in this class that misses.
			p, err := hitProbability(r.params, t-1, k)
			if err != nil {
				return err
			}
			f += rows[t-1][k] * (1 - p)

			rows[t][k] = f
		}
	}

	r.rows = rows
	return nil
}

// FractionInClass returns the fraction of cards with exactly k hits after t
// draws. Classes outside [0, cardSize] hold no mass and yield exactly 0.
func (r *Recurrence) FractionInClass(t, k int) (float64, error) {
	if t < 0 || t > r.params.DrumSize {
		return 0, fmt.Errorf("%w: time %d outside [0, %d]", ErrDomain, t, r.params.DrumSize)
	}
	if k < 0 || k > r.params.CardSize {
		return 0, nil
	}
	return r.rows[t][k], nil
}
