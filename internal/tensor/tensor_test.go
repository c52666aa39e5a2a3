package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromSlice_LengthValidation(t *testing.T) {
	_, err := FromSlice([]float64{1, 2, 3}, 2, 2)
	require.Error(t, err)

	d, err := FromSlice([]float64{1, 2, 3, 4}, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Rows())
	assert.Equal(t, 2, d.Cols())
	assert.Equal(t, 4.0, d.At(1, 1))
}

func TestFromRows_RaggedRows(t *testing.T) {
	_, err := FromRows([][]float64{{1, 2}, {3}})
	require.Error(t, err)

	_, err = FromRows(nil)
	require.Error(t, err)
}

func TestMatMul(t *testing.T) {
	a, _ := FromSlice([]float64{1, 2, 3, 4, 5, 6}, 2, 3)
	b, _ := FromSlice([]float64{7, 8, 9, 10, 11, 12}, 3, 2)

	c := a.MatMul(b)

	require.Equal(t, 2, c.Rows())
	require.Equal(t, 2, c.Cols())
	assert.InDelta(t, 58.0, c.At(0, 0), 1e-12)
	assert.InDelta(t, 64.0, c.At(0, 1), 1e-12)
	assert.InDelta(t, 139.0, c.At(1, 0), 1e-12)
	assert.InDelta(t, 154.0, c.At(1, 1), 1e-12)
}

func TestMatMulT(t *testing.T) {
	// x (2x3) @ w.T where w is (2x3): result 2x2.
	x, _ := FromSlice([]float64{1, 0, 2, 0, 1, 1}, 2, 3)
	w, _ := FromSlice([]float64{1, 1, 1, 2, 0, 1}, 2, 3)

	out := x.MatMulT(w)

	require.Equal(t, 2, out.Rows())
	require.Equal(t, 2, out.Cols())
	assert.InDelta(t, 3.0, out.At(0, 0), 1e-12) // 1+0+2
	assert.InDelta(t, 4.0, out.At(0, 1), 1e-12) // 2+0+2
	assert.InDelta(t, 2.0, out.At(1, 0), 1e-12) // 0+1+1
	assert.InDelta(t, 1.0, out.At(1, 1), 1e-12) // 0+0+1
}

func TestTMatMul(t *testing.T) {
	// a.T (3x2) @ b (3x2)? No: a is 3x2, a.T @ b needs b with 3 rows.
	a, _ := FromSlice([]float64{1, 2, 3, 4, 5, 6}, 3, 2)
	b, _ := FromSlice([]float64{1, 0, 0, 1, 1, 1}, 3, 2)

	out := a.TMatMul(b)

	require.Equal(t, 2, out.Rows())
	require.Equal(t, 2, out.Cols())
	assert.InDelta(t, 1*1+3*0+5*1, out.At(0, 0), 1e-12)
	assert.InDelta(t, 1*0+3*1+5*1, out.At(0, 1), 1e-12)
	assert.InDelta(t, 2*1+4*0+6*1, out.At(1, 0), 1e-12)
	assert.InDelta(t, 2*0+4*1+6*1, out.At(1, 1), 1e-12)
}

func TestAddRow(t *testing.T) {
	d, _ := FromSlice([]float64{1, 2, 3, 4}, 2, 2)
	d.AddRow([]float64{10, 20})

	assert.Equal(t, 11.0, d.At(0, 0))
	assert.Equal(t, 22.0, d.At(0, 1))
	assert.Equal(t, 13.0, d.At(1, 0))
	assert.Equal(t, 24.0, d.At(1, 1))
}

func TestSubAndScale(t *testing.T) {
	a, _ := FromSlice([]float64{5, 5, 5, 5}, 2, 2)
	b, _ := FromSlice([]float64{1, 2, 3, 4}, 2, 2)

	a.Sub(b)
	assert.Equal(t, []float64{4, 3, 2, 1}, a.Data())

	a.Scale(2)
	assert.Equal(t, []float64{8, 6, 4, 2}, a.Data())
}

func TestAddScaled(t *testing.T) {
	a, _ := FromSlice([]float64{1, 1}, 1, 2)
	b, _ := FromSlice([]float64{2, 4}, 1, 2)

	a.AddScaled(0.5, b)
	assert.Equal(t, []float64{2, 3}, a.Data())
}

func TestColSumsAndOneNorm(t *testing.T) {
	d, _ := FromSlice([]float64{1, -2, 3, 4}, 2, 2)

	sums := d.ColSums()
	assert.Equal(t, []float64{4, 2}, sums)

	assert.InDelta(t, 10.0, d.OneNorm(), 1e-12)
}

func TestApplyRows_MatchesSequential(t *testing.T) {
	// Tall enough to trigger the parallel path.
	const rows, cols = 300, 4

	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = float64(i%17) - 8
	}

	seq, err := FromSlice(data, rows, cols)
	require.NoError(t, err)
	par := seq.Clone()

	scale := func(row []float64) {
		for i := range row {
			row[i] = row[i]*0.25 + 1
		}
	}

	for r := 0; r < rows; r++ {
		scale(seq.Row(r))
	}
	par.ApplyRows(func(_ int, row []float64) {
		scale(row)
	})

	assert.Equal(t, seq.Data(), par.Data())
}

func TestClone_Independent(t *testing.T) {
	a, _ := FromSlice([]float64{1, 2}, 1, 2)
	b := a.Clone()
	b.Set(0, 0, 9)

	assert.Equal(t, 1.0, a.At(0, 0))
	assert.Equal(t, 9.0, b.At(0, 0))
}
