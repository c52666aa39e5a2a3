// Copyright 2026 Grove ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package persist exposes saving and loading of trained classifiers.
package persist

import (
	"io"

	"github.com/grove-ml/grove/classifier"
	"github.com/grove-ml/grove/internal/persist"
)

// Common errors.
var (
	ErrBadMagic           = persist.ErrBadMagic
	ErrUnsupportedVersion = persist.ErrUnsupportedVersion
	ErrChecksumMismatch   = persist.ErrChecksumMismatch
	ErrMalformedSnapshot  = persist.ErrMalformedSnapshot
)

// Save writes a trained classifier to w.
func Save(w io.Writer, c *classifier.Classifier) error {
	return persist.Save(w, c)
}

// Load reads a classifier written by Save and reconstructs it.
func Load(r io.Reader) (*classifier.Classifier, error) {
	return persist.Load(r)
}
