package optim

import (
	"fmt"
	"math"

	"github.com/grove-ml/grove/internal/nn"
	"github.com/grove-ml/grove/internal/tensor"
)

// Adam implements the Adam (Adaptive Moment Estimation) update rule.
//
// Per parameter it maintains exponential moving averages of the gradient
// (first moment) and the squared gradient (second moment), corrects both
// for their zero initialization, and produces
//
//	delta = lr * m_hat / (sqrt(v_hat) + eps)
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014).
type Adam struct {
	lr    float64
	beta1 float64
	beta2 float64
	eps   float64

	t     int // timestep for bias correction
	state map[int]*adamState
}

// adamState holds the moment accumulators of one parametric layer.
type adamState struct {
	mWeights *tensor.Dense
	vWeights *tensor.Dense
	mBias    []float64
	vBias    []float64
}

// AdamConfig holds Adam hyperparameters. Zero values select the defaults
// lr=0.001, beta1=0.9, beta2=0.999, eps=1e-8.
type AdamConfig struct {
	LR    float64
	Beta1 float64
	Beta2 float64
	Eps   float64
}

// NewAdam creates an Adam optimizer with no per-layer state; Initialize
// allocates state per parametric layer before the first Step.
func NewAdam(config AdamConfig) *Adam {
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Beta1 == 0 {
		config.Beta1 = 0.9
	}
	if config.Beta2 == 0 {
		config.Beta2 = 0.999
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}
	return &Adam{
		lr:    config.LR,
		beta1: config.Beta1,
		beta2: config.Beta2,
		eps:   config.Eps,
		state: make(map[int]*adamState),
	}
}

// Initialize allocates zero-valued first and second moment accumulators
// sized to the layer's parameters.
func (a *Adam) Initialize(index int, layer nn.Parametric) error {
	if _, ok := a.state[index]; ok {
		return &nn.StateError{Op: "Adam.Initialize", Reason: fmt.Sprintf("layer %d is already initialized", index)}
	}
	w := layer.Weights()
	a.state[index] = &adamState{
		mWeights: tensor.New(w.Rows(), w.Cols()),
		vWeights: tensor.New(w.Rows(), w.Cols()),
		mBias:    make([]float64, len(layer.Bias())),
		vBias:    make([]float64, len(layer.Bias())),
	}
	return nil
}

// Step advances the timestep once for the whole batch and produces deltas
// for every layer with a pending gradient. Layers are processed in index
// order so the accumulated norm is deterministic.
func (a *Adam) Step(grads map[int]*nn.Gradient) (*Step, error) {
	a.t++

	// 1 - beta^t, shared by every layer this step.
	c1 := 1 - math.Pow(a.beta1, float64(a.t))
	c2 := 1 - math.Pow(a.beta2, float64(a.t))

	step := &Step{deltas: make(map[int]delta, len(grads))}
	for _, index := range sortedIndexes(grads) {
		st, ok := a.state[index]
		if !ok {
			return nil, &nn.StateError{Op: "Adam.Step", Reason: fmt.Sprintf("layer %d was never initialized", index)}
		}
		g := grads[index]

		d := delta{
			weights: tensor.New(g.Weights.Rows(), g.Weights.Cols()),
			bias:    make([]float64, len(g.Bias)),
		}
		a.update(st.mWeights.Data(), st.vWeights.Data(), g.Weights.Data(), d.weights.Data(), c1, c2)
		a.update(st.mBias, st.vBias, g.Bias, d.bias, c1, c2)

		step.deltas[index] = d
		step.oneNorm += normOf(d)
	}
	return step, nil
}

// update runs the element-wise Adam rule over one flat parameter block.
func (a *Adam) update(m, v, grad, out []float64, c1, c2 float64) {
	for i, g := range grad {
		m[i] = a.beta1*m[i] + (1-a.beta1)*g
		v[i] = a.beta2*v[i] + (1-a.beta2)*g*g

		mHat := m[i] / c1
		vHat := v[i] / c2

		out[i] = a.lr * mHat / (math.Sqrt(vHat) + a.eps)
	}
}

// LearningRate returns the configured learning rate.
func (a *Adam) LearningRate() float64 { return a.lr }

// Timestep returns the number of steps taken so far.
func (a *Adam) Timestep() int { return a.t }
