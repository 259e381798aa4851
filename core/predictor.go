package core

import "github.com/lumenfoundry/eon-simulator/model"

// Predictor maps a window of node feature snapshots to a congestion penalty
// score. Implementations are stateless pure functions; the concrete
// regression model is loaded and owned outside the core and injected at
// simulation start.
//
// The window holds the latest, 5th-latest, and 10th-latest feature vectors
// for one node, in that order.
type Predictor interface {
	Predict(window [3][model.NumNodeFeatures]float64) float64
}
