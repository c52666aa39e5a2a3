package nn

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/grove-ml/grove/internal/tensor"
)

// Softmax is a terminal layer computing one probability distribution over K
// classes per sample: activations = softmax(x @ W.T + b).
//
// The layer owns the fixed class→index mapping. ComputeGradient produces the
// cross-entropy gradient (predicted − one-hot true), averaged over the
// batch, with an L2 penalty alpha*W added to the weight gradient only,
// never to the bias.
type Softmax struct {
	in      int
	classes []string
	index   map[string]int
	alpha   float64

	weights *tensor.Dense // [K, in]
	bias    []float64     // [K]

	input *tensor.Dense // cached last input
	probs *tensor.Dense // cached last activations
}

// NewSoftmax creates a softmax output layer over the given classes, in
// output-index order. alpha is the L2 weight-decay coefficient.
func NewSoftmax(in int, classes []string, alpha float64) *Softmax {
	index := make(map[string]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}
	return &Softmax{
		in:      in,
		classes: classes,
		index:   index,
		alpha:   alpha,
		weights: tensor.New(len(classes), in),
		bias:    make([]float64, len(classes)),
	}
}

// Width returns the number of classes.
func (l *Softmax) Width() int { return len(l.classes) }

// InWidth returns the expected input dimensionality.
func (l *Softmax) InWidth() int { return l.in }

// Classes returns the class labels in output-index order.
func (l *Softmax) Classes() []string { return l.classes }

// Initialize seeds the weights with Xavier initialization and zeroes the
// bias.
func (l *Softmax) Initialize(rng *rand.Rand) {
	l.weights = Xavier(rng, l.in, len(l.classes))
	for i := range l.bias {
		l.bias[i] = 0
	}
}

// Weights returns the live weight matrix.
func (l *Softmax) Weights() *tensor.Dense { return l.weights }

// Bias returns the live bias vector.
func (l *Softmax) Bias() []float64 { return l.bias }

// ParamCount returns the number of trainable scalars.
func (l *Softmax) ParamCount() int { return len(l.classes)*l.in + len(l.classes) }

// Forward computes softmax(input @ W.T + b) row-wise and caches the input
// and activations for ComputeGradient.
//
// The softmax is evaluated in shifted form, exp(z - max(z)) / sum, so large
// logits cannot overflow.
func (l *Softmax) Forward(input *tensor.Dense) (*tensor.Dense, error) {
	if input.Cols() != l.in {
		return nil, &DimensionError{Op: "Softmax.Forward", Got: input.Cols(), Want: l.in}
	}

	z := input.MatMulT(l.weights)
	z.AddRow(l.bias)
	z.ApplyRows(func(_ int, row []float64) {
		softmaxRow(row)
	})

	l.input = input
	l.probs = z
	return z, nil
}

// softmaxRow rewrites row in place as a probability distribution.
func softmaxRow(row []float64) {
	m := floats.Max(row)
	sum := 0.0
	for i, v := range row {
		e := math.Exp(v - m)
		row[i] = e
		sum += e
	}
	floats.Scale(1/sum, row)
}

// ComputeGradient turns the cached activations and the true labels into the
// layer's parameter gradient and the gradient for the preceding layer:
//
//	dZ = (probs − onehot(labels)) / batch
//	dW = dZ.T @ x + alpha * W
//	db = column sums of dZ
//	downstream = dZ @ W
//
// A labels slice whose length differs from the fed batch, or a label outside
// the class mapping, fails with a *DimensionError. Calling without a
// preceding Forward fails with a *StateError.
func (l *Softmax) ComputeGradient(labels []string) (*tensor.Dense, *Gradient, error) {
	if l.probs == nil {
		return nil, nil, &StateError{Op: "Softmax.ComputeGradient", Reason: "no cached forward pass"}
	}
	if len(labels) != l.probs.Rows() {
		return nil, nil, &DimensionError{Op: "Softmax.ComputeGradient", Got: len(labels), Want: l.probs.Rows()}
	}

	dz := l.probs.Clone()
	for r, label := range labels {
		k, ok := l.index[label]
		if !ok {
			return nil, nil, &DimensionError{
				Op:     "Softmax.ComputeGradient",
				Detail: fmt.Sprintf("label %q is not in the class mapping", label),
			}
		}
		dz.Set(r, k, dz.At(r, k)-1)
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
func (l *Softmax) Backward(*tensor.Dense) (*tensor.Dense, *Gradient, error) {
	return nil, nil, &StateError{Op: "Softmax.Backward", Reason: "output layers backpropagate via ComputeGradient"}
}

// ApplyDelta subtracts the given deltas from the parameters in place.
func (l *Softmax) ApplyDelta(dw *tensor.Dense, db []float64) {
	l.weights.Sub(dw)
	floats.Sub(l.bias, db)
}
