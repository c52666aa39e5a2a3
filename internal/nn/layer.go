// Package nn implements the neural network core of the Grove ML library.
//
// This package provides the building blocks for feed-forward classifiers:
//   - Layer interface: uniform contract for all network stages
//   - Input: passthrough entry layer
//   - Linear: parametric hidden layer with a pointwise activation
//   - Softmax, Binary: terminal layers producing class probabilities
//   - Network: ordered layer composition with feed / backpropagate passes
//
// Layers cache the forward-pass state they need for the backward pass and
// release it once consumed, so one feed pairs with at most one backward.
package nn

import (
	"math"
	"math/rand"

	"github.com/grove-ml/grove/internal/tensor"
)

// Layer is one stage of a feed-forward network.
//
// Forward computes the layer's activations for a batch of inputs, one sample
// per row. An input whose width does not match the layer's expectation fails
// with a *DimensionError.
type Layer interface {
	// Width returns the layer's output dimensionality.
	Width() int

	// Forward computes activations for input (samples×features).
	Forward(input *tensor.Dense) (*tensor.Dense, error)
}

// Parametric is a layer with trainable parameters.
type Parametric interface {
	Layer

	// InWidth returns the input dimensionality the layer expects.
	InWidth() int

	// Initialize seeds the weight matrix from rng (Xavier uniform) and
	// zeroes the bias. Called exactly once by Network.Initialize.
	Initialize(rng *rand.Rand)

	// Weights returns the live weight matrix (Width×InWidth).
	Weights() *tensor.Dense

	// Bias returns the live bias vector (length Width).
	Bias() []float64

	// ParamCount returns the total number of trainable scalars.
	ParamCount() int

	// Backward consumes the cached forward state and the gradient flowing
	// from the next layer, returning the gradient to pass to the previous
	// layer and this layer's parameter gradient. Fails with a *StateError
	// when no forward pass is cached.
	Backward(upstream *tensor.Dense) (*tensor.Dense, *Gradient, error)

	// ApplyDelta subtracts a parameter delta in place: weight -= dw,
	// bias -= db.
	ApplyDelta(dw *tensor.Dense, db []float64)
}

// Output is the terminal layer of a network. It owns the fixed mapping from
// class label to output index and turns true labels into the loss gradient.
type Output interface {
	Parametric

	// Classes returns the class labels in output-index order.
	Classes() []string

	// ComputeGradient combines the loss derivative at the cached
	// activations with the layer's regularization term. It returns the
	// gradient to propagate into the preceding layer and this layer's
	// parameter gradient, then releases the cached forward state.
	ComputeGradient(labels []string) (*tensor.Dense, *Gradient, error)
}

// Gradient holds one parametric layer's parameter gradients for a single
// training step. It is produced by backpropagation, consumed by the
// optimizer, and then discarded.
type Gradient struct {
	Weights *tensor.Dense // Same shape as the layer's weight matrix.
	Bias    []float64     // Same length as the layer's bias vector.
}

// Activation selects the pointwise nonlinearity of a hidden layer.
type Activation int

const (
	ReLU Activation = iota
	Sigmoid
	Tanh
)

func (a Activation) apply(z float64) float64 {
	switch a {
	case ReLU:
		return math.Max(0, z)
	case Sigmoid:
		return sigmoid(z)
	default:
		return math.Tanh(z)
	}
}

// derivative evaluates the activation's derivative at pre-activation z.
func (a Activation) derivative(z float64) float64 {
	switch a {
	case ReLU:
		if z > 0 {
			return 1
		}
		return 0
	case Sigmoid:
		s := sigmoid(z)
		return s * (1 - s)
	default:
		t := math.Tanh(z)
		return 1 - t*t
	}
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
