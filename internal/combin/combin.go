package combin

import (
	"errors"
	"math/big"

	"github.com/shopspring/decimal"
)

// Counting helpers for the closed-form side of the analysis: how many draw
// orders a drum admits and how many distinct cards can be formed. Values grow
// far past uint64 (90! has 139 digits), so everything is exact big.Int.

var ErrNegativeInput = errors.New("combinatorial inputs must be non-negative")

// DrawSequences counts the possible complete draw orderings of an n-number
// drum, i.e. n!.
func DrawSequences(n int) (*big.Int, error) {
	if n < 0 {
		return nil, ErrNegativeInput
	}
	return new(big.Int).MulRange(1, int64(max(n, 1))), nil
}

// CardSelections counts the distinct cards of size k that an n-number drum
// admits, i.e. the binomial coefficient C(n, k). Choosing more numbers than
// the drum holds yields zero.
func CardSelections(n, k int) (*big.Int, error) {
	if n < 0 || k < 0 {
		return nil, ErrNegativeInput
	}
	if k > n {
		return big.NewInt(0), nil
	}
	return new(big.Int).Binomial(int64(n), int64(k)), nil
}

// AsDecimal renders an exact count as a decimal for report output.
func AsDecimal(n *big.Int) decimal.Decimal {
	return decimal.NewFromBigInt(n, 0)
}
