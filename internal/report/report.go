package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/lottolab/tombola-analytics/internal/combin"
	"github.com/lottolab/tombola-analytics/internal/engine"
)

// roundPlaces keeps CSV output readable without losing anything meaningful;
// the engine's accumulated error is orders of magnitude below this.
const roundPlaces = 12

// Record is one long-form observation, the shape plotting tools expect.
type Record struct {
	Time     int     `json:"time"`
	Class    int     `json:"class"`
	Fraction float64 `json:"fraction"`
}

// Flatten reshapes a wide distribution table into long-form records, row
// order preserved, classes ascending within each time step.
func Flatten(table *engine.DistributionTable) []Record {
	return FlattenRows(table.Rows)
}

// FlattenRows is Flatten for any time-by-class row set, cumulative tables
// included.
func FlattenRows(rows []engine.Row) []Record {
	return lo.FlatMap(rows, func(row engine.Row, _ int) []Record {
		return lo.Map(row.Classes, func(f float64, k int) Record {
			return Record{Time: row.Time, Class: k, Fraction: f}
		})
	})
}

// WriteCSV renders the long form with a header line.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "class", "fraction"}); err != nil {
		return err
	}
	for _, r := range records {
		frac := decimal.NewFromFloat(r.Fraction).Round(roundPlaces).String()
		err := cw.Write([]string{
			strconv.Itoa(r.Time),
			strconv.Itoa(r.Class),
			frac,
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// FirstReach returns the earliest draw at which the probability of holding at
// least class hits meets the threshold, and false if no draw ever does.
func FirstReach(cum *engine.CumulativeTable, class int, threshold float64) (int, bool) {
	if class < 0 || class > cum.Params.CardSize {
		return 0, false
	}
	for _, row := range cum.Rows {
		if row.Classes[class] >= threshold {
			return row.Time, true
		}
	}
	return 0, false
}

// ExpectedClass returns the mean hit count per draw, one value per table row.
func ExpectedClass(table *engine.DistributionTable) []float64 {
	return lo.Map(table.Rows, func(row engine.Row, _ int) float64 {
		mean := 0.0
		for k, f := range row.Classes {
			mean += float64(k) * f
		}
		return mean
	})
}

// Overview carries the closed-form counts for one game configuration.
type Overview struct {
	Params        engine.GameParams
	CardChoices   decimal.Decimal // distinct cards the drum admits
	DrawOrderings decimal.Decimal // complete draw sequences of the drum
}

// BuildOverview computes the combinatorial backdrop for a game.
func BuildOverview(params engine.GameParams) (Overview, error) {
	if err := params.Validate(); err != nil {
		return Overview{}, err
	}
	cards, err := combin.CardSelections(params.DrumSize, params.CardSize)
	if err != nil {
		return Overview{}, fmt.Errorf("card selections: %w", err)
	}
	orders, err := combin.DrawSequences(params.DrumSize)
	if err != nil {
		return Overview{}, fmt.Errorf("draw sequences: %w", err)
	}
	return Overview{
		Params:        params,
		CardChoices:   combin.AsDecimal(cards),
		DrawOrderings: combin.AsDecimal(orders),
	}, nil
}
