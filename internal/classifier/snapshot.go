package classifier

import (
	"fmt"

	"github.com/grove-ml/grove/internal/nn"
)

// LayerSnapshot captures one parametric layer's parameters.
type LayerSnapshot struct {
	In      int
	Out     int
	Weights []float64 // row-major Out×In
	Bias    []float64 // length Out
}

// Snapshot is a verbatim copy of a trained classifier's network: enough to
// reconstruct it for inference elsewhere. Persistence lives in
// internal/persist; this type is the exchange format.
type Snapshot struct {
	Features int
	Outcomes []string
	Alpha    float64
	Hidden   []int
	Layers   []LayerSnapshot
}

// Snapshot copies the trained parameters out of the classifier. Fails with
// a *nn.StateError before training.
func (c *Classifier) Snapshot() (*Snapshot, error) {
	if !c.trained {
		return nil, &nn.StateError{Op: "Classifier.Snapshot", Reason: "estimator is not trained"}
	}

	parametric := c.net.Parametric()
	s := &Snapshot{
		Features: parametric[0].InWidth(),
		Outcomes: append([]string(nil), c.outcomes...),
		Alpha:    c.cfg.Alpha,
		Hidden:   append([]int(nil), c.cfg.Hidden...),
		Layers:   make([]LayerSnapshot, len(parametric)),
	}
	for i, p := range parametric {
		s.Layers[i] = LayerSnapshot{
			In:      p.InWidth(),
			Out:     p.Width(),
			Weights: append([]float64(nil), p.Weights().Data()...),
			Bias:    append([]float64(nil), p.Bias()...),
		}
	}
	return s, nil
}

// FromSnapshot reconstructs a trained classifier from a snapshot. The
// result supports Proba and Predict immediately.
func FromSnapshot(s *Snapshot) (*Classifier, error) {
	if s.Features < 1 {
		return nil, fmt.Errorf("classifier: snapshot declares %d features", s.Features)
	}
	if len(s.Outcomes) == 0 {
		return nil, fmt.Errorf("classifier: snapshot has no outcome labels")
	}

	cfg := DefaultConfig()
	cfg.Alpha = s.Alpha
	cfg.Hidden = append([]int(nil), s.Hidden...)

	c, err := New(cfg)
	if err != nil {
		return nil, err
	}

	net, err := c.buildNetwork(s.Features, s.Outcomes)
	if err != nil {
		return nil, err
	}

	parametric := net.Parametric()
	if len(parametric) != len(s.Layers) {
		return nil, fmt.Errorf("classifier: snapshot has %d layers, network has %d", len(s.Layers), len(parametric))
	}
	for i, p := range parametric {
		ls := s.Layers[i]
		if p.Width() != ls.Out || p.InWidth() != ls.In {
			return nil, fmt.Errorf("classifier: snapshot layer %d is %dx%d, network expects %dx%d",
				i, ls.Out, ls.In, p.Width(), p.InWidth())
		}
		if len(ls.Weights) != ls.Out*ls.In || len(ls.Bias) != ls.Out {
			return nil, fmt.Errorf("classifier: snapshot layer %d has malformed parameters", i)
		}
		copy(p.Weights().Data(), ls.Weights)
		copy(p.Bias(), ls.Bias)
	}

	c.net = net
	c.outcomes = append([]string(nil), s.Outcomes...)
	c.trained = true
	return c, nil
}
