// Package dataset provides the in-memory training-data collaborator for the
// Grove ML library.
package dataset

import (
	"fmt"
	"iter"
	"math/rand"

	"github.com/grove-ml/grove/internal/tensor"
)

// Dataset is an ordered sequence of fixed-width feature vectors, optionally
// paired with class labels. All samples share the same feature
// dimensionality; the outcome set is the labels in first-encountered order,
// fixed at construction.
type Dataset struct {
	samples  [][]float64
	labels   []string // nil for unlabeled data
	width    int
	outcomes []string
}

// New builds a dataset from per-sample feature vectors and, optionally,
// labels (pass nil for unlabeled data). It validates that the set is
// non-empty, every sample has the same width, and the label count matches
// the sample count.
func New(samples [][]float64, labels []string) (*Dataset, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("dataset: no samples")
	}
	width := len(samples[0])
	if width == 0 {
		return nil, fmt.Errorf("dataset: samples have no features")
	}
	for i, s := range samples {
		if len(s) != width {
			return nil, fmt.Errorf("dataset: sample %d has %d features, want %d", i, len(s), width)
		}
	}
	if labels != nil && len(labels) != len(samples) {
		return nil, fmt.Errorf("dataset: %d labels for %d samples", len(labels), len(samples))
	}

	d := &Dataset{samples: samples, labels: labels, width: width}
	if labels != nil {
		seen := make(map[string]bool)
		for _, l := range labels {
			if !seen[l] {
				seen[l] = true
				d.outcomes = append(d.outcomes, l)
			}
		}
	}
	return d, nil
}

// Len returns the number of samples.
func (d *Dataset) Len() int { return len(d.samples) }

// Features returns the feature dimensionality.
func (d *Dataset) Features() int { return d.width }

// Sample returns the feature vector of sample i.
func (d *Dataset) Sample(i int) []float64 { return d.samples[i] }

// Label returns the class label of sample i. Only valid for labeled data.
func (d *Dataset) Label(i int) string { return d.labels[i] }

// Labels returns the label sequence, or nil for unlabeled data.
func (d *Dataset) Labels() []string { return d.labels }

// Labeled reports whether the dataset carries class labels.
func (d *Dataset) Labeled() bool { return d.labels != nil }

// Outcomes returns the set of possible class labels in the order they were
// first encountered. That enumeration order is part of the prediction
// contract: it fixes the output-index mapping and breaks probability ties.
func (d *Dataset) Outcomes() []string { return d.outcomes }

// Randomize returns a reshuffled copy drawing its permutation from rng. The
// receiver is left untouched; the copy shares the underlying feature
// vectors.
func (d *Dataset) Randomize(rng *rand.Rand) *Dataset {
	perm := rng.Perm(len(d.samples))

	samples := make([][]float64, len(d.samples))
	var labels []string
	if d.labels != nil {
		labels = make([]string, len(d.labels))
	}
	for to, from := range perm {
		samples[to] = d.samples[from]
		if labels != nil {
			labels[to] = d.labels[from]
		}
	}

	return &Dataset{samples: samples, labels: labels, width: d.width, outcomes: d.outcomes}
}

// Batches returns a lazy, restartable sequence of contiguous sub-datasets
// of the given size; the final batch may be shorter. Ranging over the
// result again restarts from the first batch.
func (d *Dataset) Batches(size int) iter.Seq[*Dataset] {
	if size < 1 {
		panic(fmt.Sprintf("dataset: batch size %d", size))
	}
	return func(yield func(*Dataset) bool) {
		for start := 0; start < len(d.samples); start += size {
			end := min(start+size, len(d.samples))
			batch := &Dataset{
				samples:  d.samples[start:end],
				width:    d.width,
				outcomes: d.outcomes,
			}
			if d.labels != nil {
				batch.labels = d.labels[start:end]
			}
			if !yield(batch) {
				return
			}
		}
	}
}

// Matrix copies the samples into a Len×Features dense matrix, one sample
// per row.
func (d *Dataset) Matrix() *tensor.Dense {
	m, err := tensor.FromRows(d.samples)
	if err != nil {
		// New validated uniform widths already.
		panic(err)
	}
	return m
}
