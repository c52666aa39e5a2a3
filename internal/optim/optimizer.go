// Package optim implements optimization algorithms for training networks.
//
// An Optimizer maps the gradients produced by backpropagation to parameter
// deltas, carrying per-layer auxiliary state (momentum, moment estimates)
// across steps. State is keyed by the layer's position in the network's
// parametric sequence, a stable index, so no identity-based lookup is
// needed.
//
// The usual cycle is:
//
//	opt := optim.NewAdam(optim.AdamConfig{})
//	for i, layer := range net.Parametric() {
//	    opt.Initialize(i, layer)
//	}
//	// per batch:
//	net.Feed(samples)
//	net.Backpropagate(labels)
//	step, _ := opt.Step(net.Gradients())
//	step.Apply(net.Parametric())
package optim

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/grove-ml/grove/internal/nn"
	"github.com/grove-ml/grove/internal/tensor"
)

// Optimizer is the stateful update rule mapping gradients to parameter
// deltas.
type Optimizer interface {
	// Initialize allocates zero-valued auxiliary state for the layer at
	// the given parametric index. It must be called exactly once per
	// layer before any Step that touches that layer's gradient; a second
	// call for the same index fails with a *nn.StateError.
	Initialize(index int, layer nn.Parametric) error

	// Step consumes one backpropagation result (gradients keyed by
	// parametric index), updates the per-layer state, and produces the
	// parameter deltas. It does not mutate any layer; applying the
	// returned Step does.
	Step(grads map[int]*nn.Gradient) (*Step, error)

	// LearningRate returns the current learning rate.
	LearningRate() float64
}

// delta is one layer's parameter delta within a step.
type delta struct {
	weights *tensor.Dense
	bias    []float64
}

// Step is a transient bundle of parameter deltas produced by one optimizer
// step. It is applied once and discarded.
type Step struct {
	deltas  map[int]delta
	oneNorm float64
}

// OneNorm returns the total L1 norm of all deltas across all layers. The
// training loop accumulates it per epoch as its convergence signal.
func (s *Step) OneNorm() float64 { return s.oneNorm }

// Apply mutates each layer's weights and biases in place:
// weight -= delta. layers must be the network's parametric sequence in
// forward order.
func (s *Step) Apply(layers []nn.Parametric) error {
	for _, index := range sortedIndexes(s.deltas) {
		if index < 0 || index >= len(layers) {
			return fmt.Errorf("optim: delta for layer %d, network has %d parametric layers", index, len(layers))
		}
		d := s.deltas[index]
		layers[index].ApplyDelta(d.weights, d.bias)
	}
	return nil
}

// sortedIndexes returns the map keys in ascending order so that every pass
// over per-layer state is deterministic.
func sortedIndexes[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// normOf accumulates the L1 norm of one layer's delta.
func normOf(d delta) float64 {
	return d.weights.OneNorm() + floats.Norm(d.bias, 1)
}
