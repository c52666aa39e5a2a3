// Copyright 2026 Grove ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package dataset exposes Grove's in-memory training-data collaborator.
package dataset

import (
	"github.com/grove-ml/grove/internal/dataset"
)

// Dataset is an ordered sequence of fixed-width feature vectors, optionally
// paired with class labels.
type Dataset = dataset.Dataset

// New builds a dataset from per-sample feature vectors and, optionally,
// labels (pass nil for unlabeled data).
func New(samples [][]float64, labels []string) (*Dataset, error) {
	return dataset.New(samples, labels)
}
