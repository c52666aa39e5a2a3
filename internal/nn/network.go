package nn

import (
	"math/rand"

	"github.com/grove-ml/grove/internal/tensor"
)

// Network is an ordered composition of layers: one Input, zero or more
// hidden Linear layers, and one Output. It orchestrates the feed-forward
// and backpropagation passes; it never mutates weights itself, that is the
// optimizer's job.
//
// A Network is owned by a single estimator and is not safe for concurrent
// use.
type Network struct {
	layers      []Layer
	parametric  []Parametric
	output      Output
	initialized bool

	fed   bool
	grads map[int]*Gradient // pending per-parametric-layer gradients
}

// NewNetwork composes layers into a network, validating that the first
// layer is an Input, the last is an Output, every layer in between is
// Parametric, and each layer's output width feeds the next layer's input
// width.
func NewNetwork(layers ...Layer) (*Network, error) {
	if len(layers) < 2 {
		return nil, &StateError{Op: "NewNetwork", Reason: "a network needs at least an input and an output layer"}
	}
	if _, ok := layers[0].(*Input); !ok {
		return nil, &StateError{Op: "NewNetwork", Reason: "first layer must be an Input"}
	}

	n := &Network{layers: layers}
	prev := layers[0].Width()
	for _, layer := range layers[1:] {
		p, ok := layer.(Parametric)
		if !ok {
			return nil, &StateError{Op: "NewNetwork", Reason: "layers after the input must be parametric"}
		}
		if p.InWidth() != prev {
			return nil, &DimensionError{Op: "NewNetwork", Got: p.InWidth(), Want: prev}
		}
		prev = p.Width()
		n.parametric = append(n.parametric, p)
	}

	out, ok := layers[len(layers)-1].(Output)
	if !ok {
		return nil, &StateError{Op: "NewNetwork", Reason: "last layer must be an output layer"}
	}
	n.output = out
	return n, nil
}

// Initialize randomly seeds every parametric layer's weights. It must be
// called exactly once, before any optimizer initialization or training; a
// second call fails with a *StateError.
func (n *Network) Initialize(rng *rand.Rand) error {
	if n.initialized {
		return &StateError{Op: "Network.Initialize", Reason: "network is already initialized"}
	}
	for _, p := range n.parametric {
		p.Initialize(rng)
	}
	n.initialized = true
	return nil
}

// Parametric returns the layers with trainable parameters in forward order.
// The position in this slice is the stable index the optimizer keys its
// per-layer state by.
func (n *Network) Parametric() []Parametric { return n.parametric }

// Output returns the terminal layer.
func (n *Network) Output() Output { return n.output }

// Feed runs the forward pass over a batch of samples (one per row) and
// returns the final activations. The intermediate state each layer needs
// for backpropagation is retained until Backpropagate consumes it.
func (n *Network) Feed(samples *tensor.Dense) (*tensor.Dense, error) {
	activations := samples
	for _, layer := range n.layers {
		var err error
		activations, err = layer.Forward(activations)
		if err != nil {
			n.fed = false
			return nil, err
		}
	}
	n.fed = true
	return activations, nil
}

// Backpropagate computes the gradient of every parametric layer in reverse
// order, against the true labels of the batch most recently passed to Feed.
// It requires a prior Feed in the same logical step and fails with a
// *StateError otherwise. Gradients are stored for the next optimizer step;
// weights are not touched.
func (n *Network) Backpropagate(labels []string) error {
	if !n.fed {
		return &StateError{Op: "Network.Backpropagate", Reason: "backpropagation requires a preceding feed"}
	}
	n.fed = false

	grads := make(map[int]*Gradient, len(n.parametric))

	last := len(n.parametric) - 1
	downstream, grad, err := n.output.ComputeGradient(labels)
	if err != nil {
		return err
	}
	grads[last] = grad

	for i := last - 1; i >= 0; i-- {
		downstream, grad, err = n.parametric[i].Backward(downstream)
		if err != nil {
			return err
		}
		grads[i] = grad
	}

	n.grads = grads
	return nil
}

// Gradients hands the pending per-layer gradients (keyed by parametric
// index) to the caller and clears them. Returns nil when no backpropagation
// result is pending.
func (n *Network) Gradients() map[int]*Gradient {
	g := n.grads
	n.grads = nil
	return g
}
