package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/grove-ml/grove/internal/parallel"
)

// MatMul returns d @ o.
//
// Dimension mismatches panic: callers are expected to have validated shapes
// already (the nn package reports them as DimensionError before reaching
// this level).
func (d *Dense) MatMul(o *Dense) *Dense {
	if d.cols != o.rows {
		panic(fmt.Sprintf("tensor: MatMul %dx%d by %dx%d", d.rows, d.cols, o.rows, o.cols))
	}
	out := New(d.rows, o.cols)
	out.view().Mul(d.view(), o.view())
	return out
}

// MatMulT returns d @ o.T.
func (d *Dense) MatMulT(o *Dense) *Dense {
	if d.cols != o.cols {
		panic(fmt.Sprintf("tensor: MatMulT %dx%d by %dx%d", d.rows, d.cols, o.rows, o.cols))
	}
	out := New(d.rows, o.rows)
	out.view().Mul(d.view(), o.view().T())
	return out
}

// TMatMul returns d.T @ o.
func (d *Dense) TMatMul(o *Dense) *Dense {
	if d.rows != o.rows {
		panic(fmt.Sprintf("tensor: TMatMul %dx%d by %dx%d", d.rows, d.cols, o.rows, o.cols))
	}
	out := New(d.cols, o.cols)
	out.view().Mul(d.view().T(), o.view())
	return out
}

// AddRow adds vec to every row in place. len(vec) must equal Cols.
func (d *Dense) AddRow(vec []float64) {
	if len(vec) != d.cols {
		panic(fmt.Sprintf("tensor: AddRow vector length %d, want %d", len(vec), d.cols))
	}
	for r := 0; r < d.rows; r++ {
		floats.Add(d.Row(r), vec)
	}
}

// Sub subtracts o element-wise in place.
func (d *Dense) Sub(o *Dense) {
	if d.rows != o.rows || d.cols != o.cols {
		panic(fmt.Sprintf("tensor: Sub %dx%d by %dx%d", d.rows, d.cols, o.rows, o.cols))
	}
	floats.Sub(d.data, o.data)
}

// Scale multiplies every element by c in place.
func (d *Dense) Scale(c float64) {
	floats.Scale(c, d.data)
}

// AddScaled adds c*o element-wise in place.
func (d *Dense) AddScaled(c float64, o *Dense) {
	if d.rows != o.rows || d.cols != o.cols {
		panic(fmt.Sprintf("tensor: AddScaled %dx%d by %dx%d", d.rows, d.cols, o.rows, o.cols))
	}
	floats.AddScaled(d.data, c, o.data)
}

// ColSums returns the per-column sums across all rows.
func (d *Dense) ColSums() []float64 {
	sums := make([]float64, d.cols)
	for r := 0; r < d.rows; r++ {
		floats.Add(sums, d.Row(r))
	}
	return sums
}

// OneNorm returns the sum of absolute values of all elements.
func (d *Dense) OneNorm() float64 {
	return floats.Norm(d.data, 1)
}

// ApplyRows runs f once per row. Rows are processed in parallel when the
// matrix is tall enough; f receives the row index and the live row subslice
// and must only touch its own row, which keeps results identical to a
// sequential pass.
func (d *Dense) ApplyRows(f func(r int, row []float64)) {
	parallel.ForRows(d.rows, func(r int) {
		f(r, d.Row(r))
	})
}
