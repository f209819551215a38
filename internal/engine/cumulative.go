package engine

// CumulativeTable maps each (time, class) to the probability of having
// accumulated at least that many hits by that draw. Entries are non-increasing
// in the class index for a fixed time.
type CumulativeTable struct {
	Params GameParams `json:"params"`
	Rows   []Row      `json:"rows"`
}

// CumulativeAtLeast derives the at-least-k probabilities from a distribution
// table by a right-to-left running sum over each row.
func CumulativeAtLeast(table *DistributionTable) *CumulativeTable {
	out := &CumulativeTable{
		Params: table.Params,
		Rows:   make([]Row, 0, len(table.Rows)),
	}
	for _, row := range table.Rows {
		classes := make([]float64, len(row.Classes))
		sum := 0.0
		for k := len(row.Classes) - 1; k >= 0; k-- {
			sum += row.Classes[k]
			classes[k] = sum
		}
		out.Rows = append(out.Rows, Row{Time: row.Time, Classes: classes})
	}
	return out
}
