// Package tensor provides dense float64 matrices for the Grove ML library.
//
// A Dense matrix is row-major and owns its backing slice. Matrix products
// delegate to gonum's BLAS-backed mat package through zero-copy views over
// the backing data; element-wise arithmetic and norms use gonum/floats.
package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Dense is a row-major matrix of float64 values.
type Dense struct {
	rows, cols int
	data       []float64
}

// New creates a zero-valued rows×cols matrix.
func New(rows, cols int) *Dense {
	if rows < 1 || cols < 1 {
		panic(fmt.Sprintf("tensor: invalid dimensions %dx%d", rows, cols))
	}
	return &Dense{
		rows: rows,
		cols: cols,
		data: make([]float64, rows*cols),
	}
}

// FromSlice creates a rows×cols matrix copying data (row-major order).
func FromSlice(data []float64, rows, cols int) (*Dense, error) {
	if rows*cols != len(data) {
		return nil, fmt.Errorf("tensor: shape %dx%d requires %d elements, got %d",
			rows, cols, rows*cols, len(data))
	}
	d := New(rows, cols)
	copy(d.data, data)
	return d, nil
}

// FromRows creates a matrix from per-row slices. All rows must share the same
// length.
func FromRows(rows [][]float64) (*Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("tensor: empty row set")
	}
	cols := len(rows[0])
	d := New(len(rows), cols)
	for r, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("tensor: row %d has %d elements, want %d", r, len(row), cols)
		}
		copy(d.Row(r), row)
	}
	return d, nil
}

// Rows returns the number of rows.
func (d *Dense) Rows() int { return d.rows }

// Cols returns the number of columns.
func (d *Dense) Cols() int { return d.cols }

// At returns the element at row r, column c.
func (d *Dense) At(r, c int) float64 { return d.data[r*d.cols+c] }

// Set stores v at row r, column c.
func (d *Dense) Set(r, c int, v float64) { d.data[r*d.cols+c] = v }

// Data returns the backing slice (row-major). Mutations are visible to the
// matrix.
func (d *Dense) Data() []float64 { return d.data }

// Row returns row r as a subslice of the backing data.
func (d *Dense) Row(r int) []float64 {
	return d.data[r*d.cols : (r+1)*d.cols]
}

// Clone returns a deep copy.
func (d *Dense) Clone() *Dense {
	out := New(d.rows, d.cols)
	copy(out.data, d.data)
	return out
}

// view wraps the backing slice as a gonum matrix without copying.
func (d *Dense) view() *mat.Dense {
	return mat.NewDense(d.rows, d.cols, d.data)
}
