package optim

import (
	"fmt"

	"github.com/grove-ml/grove/internal/nn"
	"github.com/grove-ml/grove/internal/tensor"
)

// SGD implements stochastic gradient descent with optional momentum:
//
//	v = momentum * v + grad
//	delta = lr * v
type SGD struct {
	lr       float64
	momentum float64

	state map[int]*sgdState
}

// sgdState holds the velocity buffers of one parametric layer.
type sgdState struct {
	vWeights *tensor.Dense
	vBias    []float64
}

// SGDConfig holds SGD hyperparameters. A zero LR selects the default 0.01;
// momentum defaults to 0 (plain gradient descent).
type SGDConfig struct {
	LR       float64
	Momentum float64
}

// NewSGD creates an SGD optimizer.
func NewSGD(config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}
	return &SGD{
		lr:       config.LR,
		momentum: config.Momentum,
		state:    make(map[int]*sgdState),
	}
}

// Initialize allocates zero-valued velocity buffers sized to the layer's
// parameters.
func (s *SGD) Initialize(index int, layer nn.Parametric) error {
	if _, ok := s.state[index]; ok {
		return &nn.StateError{Op: "SGD.Initialize", Reason: fmt.Sprintf("layer %d is already initialized", index)}
	}
	w := layer.Weights()
	s.state[index] = &sgdState{
		vWeights: tensor.New(w.Rows(), w.Cols()),
		vBias:    make([]float64, len(layer.Bias())),
	}
	return nil
}

// Step produces deltas for every layer with a pending gradient.
func (s *SGD) Step(grads map[int]*nn.Gradient) (*Step, error) {
	step := &Step{deltas: make(map[int]delta, len(grads))}
	for _, index := range sortedIndexes(grads) {
		st, ok := s.state[index]
		if !ok {
			return nil, &nn.StateError{Op: "SGD.Step", Reason: fmt.Sprintf("layer %d was never initialized", index)}
		}
		g := grads[index]

		d := delta{
			weights: tensor.New(g.Weights.Rows(), g.Weights.Cols()),
			bias:    make([]float64, len(g.Bias)),
		}
		s.update(st.vWeights.Data(), g.Weights.Data(), d.weights.Data())
		s.update(st.vBias, g.Bias, d.bias)

		step.deltas[index] = d
		step.oneNorm += normOf(d)
	}
	return step, nil
}

// update runs the momentum rule over one flat parameter block.
func (s *SGD) update(v, grad, out []float64) {
	for i, g := range grad {
		v[i] = s.momentum*v[i] + g
		out[i] = s.lr * v[i]
	}
}

// LearningRate returns the configured learning rate.
func (s *SGD) LearningRate() float64 { return s.lr }
