package aline

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/phonalign/internal/grid"
)

// Matrix is a read-only view of a filled DP matrix, attached to a Result
// when WithMatrix(true) is set. Rows index source prefixes (0..m),
// columns target prefixes (0..n).
type Matrix struct {
	d *grid.Dense[cell]
}

// Rows returns m+1.
func (x *Matrix) Rows() int { return x.d.Rows() }

// Cols returns n+1.
func (x *Matrix) Cols() int { return x.d.Cols() }

// Score returns the best cumulative score of cell (i,j).
func (x *Matrix) Score(i, j int) (float64, error) {
	c, err := x.d.At(i, j)
	if err != nil {
		return 0, fmt.Errorf("aline: %w", err)
	}

	return c.score, nil
}

// Moves returns the tied operations entering cell (i,j), in backtrace
// order. Substitution stands for both Match and Substitution. Cell (0,0)
// has none.
func (x *Matrix) Moves(i, j int) ([]Op, error) {
	c, err := x.d.At(i, j)
	if err != nil {
		return nil, fmt.Errorf("aline: %w", err)
	}
	var ops []Op
	for mv := moveSub; mv < numMoves; mv++ {
		if c.moves&mv.bit() != 0 {
			ops = append(ops, mv.op())
		}
	}

	return ops, nil
}

// String renders the scores row by row.
func (x *Matrix) String() string {
	var sb strings.Builder
	for i := 0; i < x.d.Rows(); i++ {
		for j := 0; j < x.d.Cols(); j++ {
			if j > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%7.2f", x.d.Ref(i, j).score)
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}
