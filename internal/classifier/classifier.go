// Package classifier implements the softmax classifier estimator: the
// convergence-controlled training loop over a feed-forward network and
// inference via argmax over class probabilities.
package classifier

import (
	"errors"
	"math"
	"math/rand"

	"github.com/grove-ml/grove/internal/dataset"
	"github.com/grove-ml/grove/internal/nn"
	"github.com/grove-ml/grove/internal/optim"
	"github.com/grove-ml/grove/internal/tensor"
)

// ErrNoLabels is returned by Fit for a dataset without class labels.
var ErrNoLabels = errors.New("classifier: dataset has no labels")

// Classifier is a softmax (multinomial logistic regression) estimator,
// optionally with hidden layers.
//
// Lifecycle: untrained → (Fit) → trained. A fresh network is built per Fit
// call; retraining replaces it. Inference before a successful Fit fails
// with a *nn.StateError. A Classifier is owned by one goroutine; no
// concurrent use is supported.
type Classifier struct {
	cfg Config

	net       *nn.Network
	outcomes  []string
	trained   bool
	epochsRun int
}

// New validates cfg and constructs an untrained classifier. Every
// hyperparameter violation is reported here, as a *ConfigError, never
// later during training. A nil Optimizer factory defaults to Adam.
func New(cfg Config) (*Classifier, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Optimizer == nil {
		cfg.Optimizer = func() optim.Optimizer { return optim.NewAdam(optim.AdamConfig{}) }
	}
	return &Classifier{cfg: cfg}, nil
}

// Trained reports whether a Fit call has completed successfully.
func (c *Classifier) Trained() bool { return c.trained }

// EpochsRun returns the number of epochs the last successful Fit performed.
func (c *Classifier) EpochsRun() int { return c.epochsRun }

// Outcomes returns the class labels the classifier was trained on, in
// enumeration order, or nil before training.
func (c *Classifier) Outcomes() []string { return c.outcomes }

// Fit trains the classifier on a labeled dataset.
//
// It builds a fresh network sized to the dataset's feature count and
// outcome set, then iterates epochs of shuffled mini-batches: feed →
// backpropagate → optimizer step → apply update. The epoch's accumulated
// step norm is the convergence signal: when its change from the previous
// epoch drops below Threshold, training stops early; otherwise it stops
// after Epochs passes.
//
// Any failure aborts the whole call and leaves the estimator exactly as it
// was; no partially applied epoch survives into an observable state.
func (c *Classifier) Fit(ds *dataset.Dataset) error {
	if !ds.Labeled() {
		return ErrNoLabels
	}
	outcomes := append([]string(nil), ds.Outcomes()...)

	rng := rand.New(rand.NewSource(c.cfg.Seed))

	net, err := c.buildNetwork(ds.Features(), outcomes)
	if err != nil {
		return err
	}
	if err := net.Initialize(rng); err != nil {
		return err
	}

	opt := c.cfg.Optimizer()
	for i, layer := range net.Parametric() {
		if err := opt.Initialize(i, layer); err != nil {
			return err
		}
	}

	previous := math.Inf(1)
	epochs := 0
	for epoch := 1; epoch <= c.cfg.Epochs; epoch++ {
		change, err := c.runEpoch(net, opt, ds.Randomize(rng))
		if err != nil {
			return err
		}
		epochs = epoch

		if math.Abs(change-previous) < c.cfg.Threshold {
			break
		}
		previous = change
	}

	c.net = net
	c.outcomes = outcomes
	c.trained = true
	c.epochsRun = epochs
	return nil
}

// buildNetwork assembles Input → hidden Linear layers → Softmax for one
// training run.
func (c *Classifier) buildNetwork(features int, outcomes []string) (*nn.Network, error) {
	layers := []nn.Layer{nn.NewInput(features)}
	prev := features
	for _, width := range c.cfg.Hidden {
		layers = append(layers, nn.NewLinear(prev, width, nn.ReLU))
		prev = width
	}
	layers = append(layers, nn.NewSoftmax(prev, outcomes, c.cfg.Alpha))
	return nn.NewNetwork(layers...)
}

// runEpoch processes one shuffled pass in sequential batches and returns
// the accumulated step norm.
func (c *Classifier) runEpoch(net *nn.Network, opt optim.Optimizer, shuffled *dataset.Dataset) (float64, error) {
	change := 0.0
	for batch := range shuffled.Batches(c.cfg.BatchSize) {
		if _, err := net.Feed(batch.Matrix()); err != nil {
			return 0, err
		}
		if err := net.Backpropagate(batch.Labels()); err != nil {
			return 0, err
		}
		step, err := opt.Step(net.Gradients())
		if err != nil {
			return 0, err
		}
		if err := step.Apply(net.Parametric()); err != nil {
			return 0, err
		}
		change += step.OneNorm()
	}
	return change, nil
}

// Proba returns one class→probability distribution per input sample, in
// input order. Each distribution sums to 1 within floating-point tolerance.
// Fails with a *nn.StateError before training.
func (c *Classifier) Proba(samples [][]float64) ([]map[string]float64, error) {
	activations, err := c.feed(samples)
	if err != nil {
		return nil, err
	}

	out := make([]map[string]float64, activations.Rows())
	for r := range out {
		dist := make(map[string]float64, len(c.outcomes))
		for k, class := range c.outcomes {
			dist[class] = activations.At(r, k)
		}
		out[r] = dist
	}
	return out, nil
}

// Predict returns the most probable class per input sample, in input order.
// Exact ties are broken by the outcome enumeration order: the
// first-encountered class wins.
func (c *Classifier) Predict(samples [][]float64) ([]string, error) {
	activations, err := c.feed(samples)
	if err != nil {
		return nil, err
	}

	labels := make([]string, activations.Rows())
	for r := range labels {
		best := 0
		for k := 1; k < len(c.outcomes); k++ {
			if activations.At(r, k) > activations.At(r, best) {
				best = k
			}
		}
		labels[r] = c.outcomes[best]
	}
	return labels, nil
}

// feed runs a forward-only pass for inference.
func (c *Classifier) feed(samples [][]float64) (*tensor.Dense, error) {
	if !c.trained {
		return nil, &nn.StateError{Op: "Classifier", Reason: "estimator is not trained"}
	}
	m, err := tensor.FromRows(samples)
	if err != nil {
		return nil, &nn.DimensionError{Op: "Classifier", Detail: err.Error()}
	}
	return c.net.Feed(m)
}
