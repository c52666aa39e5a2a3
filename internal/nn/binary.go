package nn

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/grove-ml/grove/internal/tensor"
)

// Binary is a terminal layer with a single logistic unit for two-class
// problems. Output index 0 is the negative class, index 1 the positive
// class; the layer's activation is P(positive).
type Binary struct {
	in      int
	classes []string // [negative, positive]
	alpha   float64

	weights *tensor.Dense // [1, in]
	bias    []float64     // [1]

	input *tensor.Dense
	probs *tensor.Dense // [samples, 1], P(positive) per sample
}

// NewBinary creates a binary output layer mapping negative to output 0 and
// positive to output 1.
func NewBinary(in int, negative, positive string, alpha float64) *Binary {
	return &Binary{
		in:      in,
		classes: []string{negative, positive},
		alpha:   alpha,
		weights: tensor.New(1, in),
		bias:    make([]float64, 1),
	}
}

// Width returns 1: the layer emits a single probability per sample.
func (l *Binary) Width() int { return 1 }

// InWidth returns the expected input dimensionality.
func (l *Binary) InWidth() int { return l.in }

// Classes returns [negative, positive].
func (l *Binary) Classes() []string { return l.classes }

// Initialize seeds the weights with Xavier initialization and zeroes the
// bias.
func (l *Binary) Initialize(rng *rand.Rand) {
	l.weights = Xavier(rng, l.in, 1)
	l.bias[0] = 0
}

// Weights returns the live weight matrix.
func (l *Binary) Weights() *tensor.Dense { return l.weights }

// Bias returns the live bias vector.
func (l *Binary) Bias() []float64 { return l.bias }

// ParamCount returns the number of trainable scalars.
func (l *Binary) ParamCount() int { return l.in + 1 }

// Forward computes sigmoid(input @ w.T + b) and caches the state needed by
// ComputeGradient.
func (l *Binary) Forward(input *tensor.Dense) (*tensor.Dense, error) {
	if input.Cols() != l.in {
		return nil, &DimensionError{Op: "Binary.Forward", Got: input.Cols(), Want: l.in}
	}

	z := input.MatMulT(l.weights)
	z.AddRow(l.bias)
	z.ApplyRows(func(_ int, row []float64) {
		row[0] = sigmoid(row[0])
	})

	l.input = input
	l.probs = z
	return z, nil
}

// ComputeGradient produces the logistic-loss gradient against the true
// labels, averaged over the batch, with the L2 term on the weight gradient
// only. Semantics mirror Softmax.ComputeGradient.
func (l *Binary) ComputeGradient(labels []string) (*tensor.Dense, *Gradient, error) {
	if l.probs == nil {
		return nil, nil, &StateError{Op: "Binary.ComputeGradient", Reason: "no cached forward pass"}
	}
	if len(labels) != l.probs.Rows() {
		return nil, nil, &DimensionError{Op: "Binary.ComputeGradient", Got: len(labels), Want: l.probs.Rows()}
	}

	dz := l.probs.Clone()
	for r, label := range labels {
		switch label {
		case l.classes[1]:
			dz.Set(r, 0, dz.At(r, 0)-1)
		case l.classes[0]:
			// p − 0
		default:
			return nil, nil, &DimensionError{
				Op:     "Binary.ComputeGradient",
				Detail: fmt.Sprintf("label %q is not in the class mapping", label),
			}
		}
	}
	dz.Scale(1 / float64(dz.Rows()))

	gw := dz.TMatMul(l.input)
	if l.alpha != 0 {
		gw.AddScaled(l.alpha, l.weights)
	}
	grad := &Gradient{Weights: gw, Bias: dz.ColSums()}
	downstream := dz.MatMul(l.weights)

	l.input = nil
	l.probs = nil
	return downstream, grad, nil
}

// Backward reports a StateError: the output layer's gradient comes from
// ComputeGradient, which needs the true labels.
func (l *Binary) Backward(*tensor.Dense) (*tensor.Dense, *Gradient, error) {
	return nil, nil, &StateError{Op: "Binary.Backward", Reason: "output layers backpropagate via ComputeGradient"}
}

// ApplyDelta subtracts the given deltas from the parameters in place.
func (l *Binary) ApplyDelta(dw *tensor.Dense, db []float64) {
	l.weights.Sub(dw)
	floats.Sub(l.bias, db)
}
