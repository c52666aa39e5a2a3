// Copyright 2026 Grove ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor exposes Grove's dense float64 matrix type.
package tensor

import (
	"github.com/grove-ml/grove/internal/tensor"
)

// Dense is a row-major matrix of float64 values.
type Dense = tensor.Dense

// New creates a zero-valued rows×cols matrix.
func New(rows, cols int) *Dense {
	return tensor.New(rows, cols)
}

// FromSlice creates a rows×cols matrix copying data (row-major order).
func FromSlice(data []float64, rows, cols int) (*Dense, error) {
	return tensor.FromSlice(data, rows, cols)
}

// FromRows creates a matrix from per-row slices.
func FromRows(rows [][]float64) (*Dense, error) {
	return tensor.FromRows(rows)
}
