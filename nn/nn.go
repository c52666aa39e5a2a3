// Copyright 2026 Grove ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn exposes Grove's neural network layers and networks.
package nn

import (
	"github.com/grove-ml/grove/internal/nn"
)

// Layer is one stage of a feed-forward network.
type Layer = nn.Layer

// Parametric is a layer with trainable parameters.
type Parametric = nn.Parametric

// Output is the terminal layer of a network.
type Output = nn.Output

// Gradient holds one parametric layer's gradients for a single step.
type Gradient = nn.Gradient

// Network is an ordered composition of layers.
type Network = nn.Network

// DimensionError reports mismatched input dimensions.
type DimensionError = nn.DimensionError

// StateError reports an operation attempted in the wrong lifecycle state.
type StateError = nn.StateError

// Activation selects the pointwise nonlinearity of a hidden layer.
type Activation = nn.Activation

// Available activations.
const (
	ReLU    = nn.ReLU
	Sigmoid = nn.Sigmoid
	Tanh    = nn.Tanh
)

// Layers

// Input is the passthrough entry layer of a network.
type Input = nn.Input

// NewInput creates an Input layer expecting width features per sample.
func NewInput(width int) *Input {
	return nn.NewInput(width)
}

// Linear is a fully connected hidden layer with a pointwise activation.
type Linear = nn.Linear

// NewLinear creates a hidden layer transforming in features to out features.
func NewLinear(in, out int, act Activation) *Linear {
	return nn.NewLinear(in, out, act)
}

// Softmax is a terminal layer producing one probability distribution over K
// classes per sample.
type Softmax = nn.Softmax

// NewSoftmax creates a softmax output layer over the given classes.
//
// Example:
//
//	net, err := nn.NewNetwork(
//	    nn.NewInput(4),
//	    nn.NewSoftmax(4, []string{"setosa", "versicolor", "virginica"}, 1e-4),
//	)
func NewSoftmax(in int, classes []string, alpha float64) *Softmax {
	return nn.NewSoftmax(in, classes, alpha)
}

// Binary is a terminal layer with a single logistic unit for two-class
// problems.
type Binary = nn.Binary

// NewBinary creates a binary output layer mapping negative to output 0 and
// positive to output 1.
func NewBinary(in int, negative, positive string, alpha float64) *Binary {
	return nn.NewBinary(in, negative, positive, alpha)
}

// NewNetwork composes layers into a network, validating width chaining.
func NewNetwork(layers ...Layer) (*Network, error) {
	return nn.NewNetwork(layers...)
}
