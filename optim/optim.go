// Copyright 2026 Grove ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim exposes Grove's optimization algorithms.
package optim

import (
	"github.com/grove-ml/grove/internal/optim"
)

// Optimizer is the stateful update rule mapping gradients to parameter
// deltas.
type Optimizer = optim.Optimizer

// Step is a transient bundle of parameter deltas produced by one optimizer
// step.
type Step = optim.Step

// Adam (Adaptive Moment Estimation)

// Adam implements the Adam update rule.
type Adam = optim.Adam

// AdamConfig holds Adam hyperparameters; zero values select the defaults.
type AdamConfig = optim.AdamConfig

// NewAdam creates an Adam optimizer.
//
// Example:
//
//	opt := optim.NewAdam(optim.AdamConfig{LR: 0.01})
//	for i, layer := range net.Parametric() {
//	    opt.Initialize(i, layer)
//	}
func NewAdam(config AdamConfig) *Adam {
	return optim.NewAdam(config)
}

// SGD (Stochastic Gradient Descent)

// SGD implements stochastic gradient descent with optional momentum.
type SGD = optim.SGD

// SGDConfig holds SGD hyperparameters.
type SGDConfig = optim.SGDConfig

// NewSGD creates an SGD optimizer.
func NewSGD(config SGDConfig) *SGD {
	return optim.NewSGD(config)
}
