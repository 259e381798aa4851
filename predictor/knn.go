// Package predictor holds concrete congestion-penalty models. The core only
// depends on the narrow Predict contract; models are loaded here and
// injected at simulation start.
package predictor

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"

	"github.com/lumenfoundry/eon-simulator/model"
)

// windowSize is the flattened predictor input width: three 5-element feature
// vectors.
const windowSize = 3 * model.NumNodeFeatures

// KNN is a k-nearest-neighbours regressor over a normalized training set of
// flattened snapshot windows. Predictions are the mean target of the k
// nearest rows by Euclidean distance. The model is immutable once loaded and
// safe to call from anywhere.
type KNN struct {
	k        int
	features [][]float64
	targets  []float64
}

// LoadKNN reads a training CSV: a header row, then windowSize feature
// columns followed by one target column per row.
func LoadKNN(path string, k int) (*KNN, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("predictor: %w", err)
	}
	defer file.Close()
	return ReadKNN(file, k)
}

// ReadKNN parses the training set from r. See LoadKNN for the format.
func ReadKNN(r io.Reader, k int) (*KNN, error) {
	if k <= 0 {
		return nil, fmt.Errorf("predictor: k must be positive, got %d", k)
	}

	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("predictor: parse training set: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("predictor: training set has no data rows")
	}

	// First row is the header.
	rows := records[1:]
	if len(rows) < k {
		return nil, fmt.Errorf("predictor: %d training rows, need at least k=%d", len(rows), k)
	}

	m := &KNN{
		k:        k,
		features: make([][]float64, 0, len(rows)),
		targets:  make([]float64, 0, len(rows)),
	}
	for i, row := range rows {
		if len(row) != windowSize+1 {
			return nil, fmt.Errorf("predictor: row %d has %d columns, want %d", i+2, len(row), windowSize+1)
		}
		features := make([]float64, windowSize)
		for j := 0; j < windowSize; j++ {
			features[j], err = strconv.ParseFloat(row[j], 64)
			if err != nil {
				return nil, fmt.Errorf("predictor: row %d column %d: %w", i+2, j+1, err)
			}
		}
		target, err := strconv.ParseFloat(row[windowSize], 64)
		if err != nil {
			return nil, fmt.Errorf("predictor: row %d target: %w", i+2, err)
		}
		m.features = append(m.features, features)
		m.targets = append(m.targets, target)
	}
	return m, nil
}

// Predict returns the mean target of the k training rows nearest to the
// flattened window.
func (m *KNN) Predict(window [3][model.NumNodeFeatures]float64) float64 {
	x := make([]float64, 0, windowSize)
	for _, vec := range window {
		x = append(x, vec[:]...)
	}

	type scored struct {
		dist   float64
		target float64
	}
	scoredRows := make([]scored, len(m.features))
	for i, f := range m.features {
		scoredRows[i] = scored{dist: floats.Distance(x, f, 2), target: m.targets[i]}
	}
	sort.Slice(scoredRows, func(i, j int) bool { return scoredRows[i].dist < scoredRows[j].dist })

	sum := 0.0
	for i := 0; i < m.k; i++ {
		sum += scoredRows[i].target
	}
	return sum / float64(m.k)
}
