package model

// NumNodeFeatures is the width of a node feature vector.
const NumNodeFeatures = 5

// NodeSnapshot captures the spectrum state of a node's outgoing links at one
// time step, aggregated into a fixed feature vector. Feature order:
// mean occupancy, max occupancy, min largest-free-block, mean fragmentation,
// max fragmentation.
type NodeSnapshot struct {
	Time     int
	Features [NumNodeFeatures]float64
}
