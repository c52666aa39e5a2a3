package nn

import (
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/grove-ml/grove/internal/tensor"
)

// Linear is a fully connected hidden layer with a pointwise activation.
//
// Performs y = act(x @ W.T + b) where:
//   - x is the input batch with shape [samples, in]
//   - W is the weight matrix with shape [out, in]
//   - b is the bias vector with length out
//
// The layer caches x and the pre-activation z = x @ W.T + b during Forward;
// Backward consumes the cache and releases it.
type Linear struct {
	in, out int
	act     Activation

	weights *tensor.Dense // [out, in]
	bias    []float64     // [out]

	input  *tensor.Dense // cached last input
	preact *tensor.Dense // cached last pre-activation
}

// NewLinear creates a hidden layer transforming in features to out features.
// Weights are zero until Initialize seeds them.
func NewLinear(in, out int, act Activation) *Linear {
	return &Linear{
		in:      in,
		out:     out,
		act:     act,
		weights: tensor.New(out, in),
		bias:    make([]float64, out),
	}
}

// Width returns the output dimensionality.
func (l *Linear) Width() int { return l.out }

// InWidth returns the expected input dimensionality.
func (l *Linear) InWidth() int { return l.in }

// Initialize seeds the weights with Xavier initialization and zeroes the
// bias.
func (l *Linear) Initialize(rng *rand.Rand) {
	l.weights = Xavier(rng, l.in, l.out)
	for i := range l.bias {
		l.bias[i] = 0
	}
}

// Weights returns the live weight matrix.
func (l *Linear) Weights() *tensor.Dense { return l.weights }

// Bias returns the live bias vector.
func (l *Linear) Bias() []float64 { return l.bias }

// ParamCount returns the number of trainable scalars.
func (l *Linear) ParamCount() int { return l.out*l.in + l.out }

// Forward computes act(input @ W.T + b) and caches the state needed by
// Backward.
func (l *Linear) Forward(input *tensor.Dense) (*tensor.Dense, error) {
	if input.Cols() != l.in {
		return nil, &DimensionError{Op: "Linear.Forward", Got: input.Cols(), Want: l.in}
	}

	z := input.MatMulT(l.weights)
	z.AddRow(l.bias)

	a := z.Clone()
	a.ApplyRows(func(_ int, row []float64) {
		for i := range row {
			row[i] = l.act.apply(row[i])
		}
	})

	l.input = input
	l.preact = z
	return a, nil
}

// Backward chains the upstream gradient through the activation and the
// linear transform:
//
//	dZ = upstream ⊙ act'(z)
//	dW = dZ.T @ x
//	db = column sums of dZ
//	downstream = dZ @ W
func (l *Linear) Backward(upstream *tensor.Dense) (*tensor.Dense, *Gradient, error) {
	if l.input == nil {
		return nil, nil, &StateError{Op: "Linear.Backward", Reason: "no cached forward pass"}
	}
	if upstream.Cols() != l.out {
		return nil, nil, &DimensionError{Op: "Linear.Backward", Got: upstream.Cols(), Want: l.out}
	}
	if upstream.Rows() != l.input.Rows() {
		return nil, nil, &DimensionError{Op: "Linear.Backward", Got: upstream.Rows(), Want: l.input.Rows()}
	}

	dz := upstream.Clone()
	dz.ApplyRows(func(r int, row []float64) {
		pre := l.preact.Row(r)
		for i := range row {
			row[i] *= l.act.derivative(pre[i])
		}
	})

	grad := &Gradient{
		Weights: dz.TMatMul(l.input),
		Bias:    dz.ColSums(),
	}
	downstream := dz.MatMul(l.weights)

	l.input = nil
	l.preact = nil
	return downstream, grad, nil
}

// ApplyDelta subtracts the given deltas from the parameters in place.
func (l *Linear) ApplyDelta(dw *tensor.Dense, db []float64) {
	l.weights.Sub(dw)
	floats.Sub(l.bias, db)
}
