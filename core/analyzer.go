package core

import (
	"context"

	"github.com/lumenfoundry/eon-simulator/internal/logging"
	"github.com/lumenfoundry/eon-simulator/model"
	"github.com/lumenfoundry/eon-simulator/topology"
)

// SpectrumAnalyzer derives occupancy and fragmentation features from a
// SpectrumManager's grid. All methods are read-only queries; the step loop
// only calls them between expiry and arrivals, so every snapshot reflects a
// single consistent grid state.
type SpectrumAnalyzer struct {
	sm   *SpectrumManager
	topo *topology.Topology
	log  logging.Logger
}

// NewSpectrumAnalyzer wires an analyzer over a manager's grid.
func NewSpectrumAnalyzer(sm *SpectrumManager, topo *topology.Topology, log logging.Logger) *SpectrumAnalyzer {
	if log == nil {
		log = logging.Noop()
	}
	return &SpectrumAnalyzer{sm: sm, topo: topo, log: log}
}

// LinkOccupancy returns the occupied fraction (0.0-1.0) of link u->v.
func (a *SpectrumAnalyzer) LinkOccupancy(u, v int) float64 {
	link, ok := a.sm.link(u, v)
	if !ok {
		a.log.Critical(context.Background(), "occupancy query on non-existent link",
			logging.Int("from", u), logging.Int("to", v))
		return 0.0
	}
	occupied := 0
	for _, s := range link {
		if s == SlotOccupied {
			occupied++
		}
	}
	return float64(occupied) / float64(NSlots)
}

// LargestFreeBlock returns the length of the longest run of consecutive free
// slots on link u->v.
func (a *SpectrumAnalyzer) LargestFreeBlock(u, v int) int {
	link, ok := a.sm.link(u, v)
	if !ok {
		a.log.Critical(context.Background(), "free-block query on non-existent link",
			logging.Int("from", u), logging.Int("to", v))
		return 0
	}

	maxBlock, current := 0, 0
	for _, s := range link {
		if s == SlotFree {
			current++
			if current > maxBlock {
				maxBlock = current
			}
		} else {
			current = 0
		}
	}
	return maxBlock
}

// FragmentationIndex returns 1 - largestFreeBlock/totalFree for link u->v.
// A fully occupied link is maximally fragmented by convention (exactly 1.0).
func (a *SpectrumAnalyzer) FragmentationIndex(u, v int) float64 {
	link, ok := a.sm.link(u, v)
	if !ok {
		a.log.Critical(context.Background(), "fragmentation query on non-existent link",
			logging.Int("from", u), logging.Int("to", v))
		return 0.0
	}

	totalFree := 0
	for _, s := range link {
		if s == SlotFree {
			totalFree++
		}
	}
	if totalFree == 0 {
		return 1.0
	}
	return 1.0 - float64(a.LargestFreeBlock(u, v))/float64(totalFree)
}

// NodeFeatureSnapshot aggregates the outgoing-link features of a node into
// the fixed 5-element vector: mean occupancy, max occupancy, min largest
// free block, mean fragmentation, max fragmentation. A node without outgoing
// links yields a zero vector and a logged anomaly.
func (a *SpectrumAnalyzer) NodeFeatureSnapshot(t, node int) model.NodeSnapshot {
	neighbours, err := a.topo.Neighbours(node)
	if err != nil || len(neighbours) == 0 {
		a.log.Critical(context.Background(), "node has no outgoing links",
			logging.Int("node", node))
		return model.NodeSnapshot{Time: t}
	}

	var (
		occSum, occMax   float64
		fragSum, fragMax float64
		minBlock         = NSlots + 1
	)
	for _, v := range neighbours {
		occ := a.LinkOccupancy(node, v)
		lfb := a.LargestFreeBlock(node, v)
		frag := a.FragmentationIndex(node, v)

		occSum += occ
		if occ > occMax {
			occMax = occ
		}
		if lfb < minBlock {
			minBlock = lfb
		}
		fragSum += frag
		if frag > fragMax {
			fragMax = frag
		}
	}

	n := float64(len(neighbours))
	return model.NodeSnapshot{
		Time: t,
		Features: [model.NumNodeFeatures]float64{
			occSum / n,
			occMax,
			float64(minBlock),
			fragSum / n,
			fragMax,
		},
	}
}
