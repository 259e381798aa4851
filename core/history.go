package core

import "github.com/lumenfoundry/eon-simulator/model"

// historyDepth is how many snapshots are retained per node.
const historyDepth = 10

// windowOffsets selects the latest, 5th-latest, and 10th-latest snapshots
// (1-based from the newest) for the predictor window.
var windowOffsets = [3]int{1, 5, 10}

// SnapshotHistory keeps a bounded rolling history of feature snapshots per
// node: a fixed ring of historyDepth entries, oldest overwritten on push.
type SnapshotHistory struct {
	byNode map[int]*nodeRing
}

type nodeRing struct {
	buf   [historyDepth]model.NodeSnapshot
	next  int
	count int
}

// NewSnapshotHistory returns an empty history.
func NewSnapshotHistory() *SnapshotHistory {
	return &SnapshotHistory{byNode: make(map[int]*nodeRing)}
}

// Push appends a snapshot for a node, evicting the oldest once the ring is
// full.
func (h *SnapshotHistory) Push(node int, snap model.NodeSnapshot) {
	ring, ok := h.byNode[node]
	if !ok {
		ring = &nodeRing{}
		h.byNode[node] = ring
	}
	ring.buf[ring.next] = snap
	ring.next = (ring.next + 1) % historyDepth
	if ring.count < historyDepth {
		ring.count++
	}
}

// Len returns how many snapshots are currently held for a node.
func (h *SnapshotHistory) Len(node int) int {
	if ring, ok := h.byNode[node]; ok {
		return ring.count
	}
	return 0
}

// Latest returns the most recent snapshot for a node.
func (h *SnapshotHistory) Latest(node int) (model.NodeSnapshot, bool) {
	ring, ok := h.byNode[node]
	if !ok || ring.count == 0 {
		return model.NodeSnapshot{}, false
	}
	return ring.nthLatest(1), true
}

// Window extracts the predictor input for a node: the latest, 5th-latest,
// and 10th-latest feature vectors. ok is false until the node has a full
// history of historyDepth snapshots; callers treat that as penalty zero and
// do not consult the predictor.
func (h *SnapshotHistory) Window(node int) ([3][model.NumNodeFeatures]float64, bool) {
	var window [3][model.NumNodeFeatures]float64

	ring, ok := h.byNode[node]
	if !ok || ring.count < historyDepth {
		return window, false
	}
	for i, back := range windowOffsets {
		window[i] = ring.nthLatest(back).Features
	}
	return window, true
}

// nthLatest returns the snapshot n positions back from the newest (n=1 is
// the newest). Caller guarantees n <= count.
func (r *nodeRing) nthLatest(n int) model.NodeSnapshot {
	idx := (r.next - n + historyDepth) % historyDepth
	return r.buf[idx]
}
