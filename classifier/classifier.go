// Copyright 2026 Grove ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package classifier exposes Grove's softmax classifier estimator.
//
// Example:
//
//	ds, _ := dataset.New(samples, labels)
//
//	cfg := classifier.DefaultConfig()
//	cfg.Seed = 42
//	clf, err := classifier.New(cfg)
//	if err != nil {
//	    return err
//	}
//	if err := clf.Fit(ds); err != nil {
//	    return err
//	}
//	predicted, err := clf.Predict(heldOut)
package classifier

import (
	"github.com/grove-ml/grove/internal/classifier"
)

// Classifier is a softmax classifier estimator, optionally with hidden
// layers.
type Classifier = classifier.Classifier

// Config holds the estimator's construction-time hyperparameters.
type Config = classifier.Config

// ConfigError reports an invalid constructor argument.
type ConfigError = classifier.ConfigError

// Snapshot is a verbatim copy of a trained classifier's network.
type Snapshot = classifier.Snapshot

// LayerSnapshot captures one parametric layer's parameters.
type LayerSnapshot = classifier.LayerSnapshot

// ErrNoLabels is returned by Fit for a dataset without class labels.
var ErrNoLabels = classifier.ErrNoLabels

// DefaultConfig returns the stock configuration: batches of 32, mild L2
// decay, train until convergence with Adam.
func DefaultConfig() Config {
	return classifier.DefaultConfig()
}

// New validates cfg and constructs an untrained classifier.
func New(cfg Config) (*Classifier, error) {
	return classifier.New(cfg)
}

// FromSnapshot reconstructs a trained classifier from a snapshot.
func FromSnapshot(s *Snapshot) (*Classifier, error) {
	return classifier.FromSnapshot(s)
}
