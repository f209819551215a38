package engine

import "fmt"

// Row holds the class distribution after Time draws. Classes[k] is the
// fraction of cards holding exactly k hits; the entries sum to 1.
type Row struct {
	Time    int       `json:"time"`
	Classes []float64 `json:"classes"`
}

// DistributionTable is the full evolution of the class distribution, one row
// per draw, Time running 1..drumSize in order.
type DistributionTable struct {
	Params GameParams `json:"params"`
	Rows   []Row      `json:"rows"`
}

// BuildTable computes the distribution table for one game configuration.
// Invalid parameters are rejected before any computation starts.
func BuildTable(params GameParams) (*DistributionTable, error) {
	rec, err := NewRecurrence(params)
	if err != nil {
		return nil, err
	}

	table := &DistributionTable{
		Params: params,
		Rows:   make([]Row, 0, params.DrumSize),
	}
	for t := 1; t <= params.DrumSize; t++ {
		classes := make([]float64, params.CardSize+1)
		for k := 0; k <= params.CardSize; k++ {
			f, err := rec.FractionInClass(t, k)
			if err != nil {
				return nil, fmt.Errorf("fraction at t=%d k=%d: %w", t, k, err)
			}
			classes[k] = f
		}
		table.Rows = append(table.Rows, Row{Time: t, Classes: classes})
	}
	return table, nil
}
