package core

import (
	"context"

	"github.com/lumenfoundry/eon-simulator/internal/logging"
	"github.com/lumenfoundry/eon-simulator/model"
	"github.com/lumenfoundry/eon-simulator/topology"
)

// NSlots is the number of 12.5GHz frequency slots on every link.
const NSlots = 320

// SlotState marks one frequency slot on one link.
type SlotState uint8

const (
	SlotFree SlotState = iota
	SlotOccupied
)

// SpectrumManager owns the per-link slot occupancy grid. The grid is a dense
// node-by-node array of optional slot arrays: grid[u][v] is nil exactly when
// no link u->v exists. One SpectrumManager belongs to exactly one simulation
// run; find-first-fit followed by reserve is a single logical critical
// section, which the single-threaded step loop guarantees by construction.
type SpectrumManager struct {
	grid   [][][]SlotState
	nextID int64
	log    logging.Logger
}

// NewSpectrumManager builds an all-free grid matching the topology's links.
func NewSpectrumManager(topo *topology.Topology, log logging.Logger) *SpectrumManager {
	if log == nil {
		log = logging.Noop()
	}

	n := topo.NumNodes()
	grid := make([][][]SlotState, n)
	for u := 0; u < n; u++ {
		grid[u] = make([][]SlotState, n)
		for v := 0; v < n; v++ {
			// Distance cannot fail here: u and v are in range.
			d, _ := topo.Distance(u, v)
			if d > 0 {
				grid[u][v] = make([]SlotState, NSlots)
			}
		}
	}

	return &SpectrumManager{grid: grid, log: log}
}

// FindFirstFit returns the lowest start offset at which nSlots consecutive
// slots are free on every link of the path, or ok=false when the request
// cannot fit. A path crossing a non-existent link never fits.
func (sm *SpectrumManager) FindFirstFit(path []int, nSlots int) (int, bool) {
	if nSlots <= 0 || nSlots > NSlots {
		return 0, false
	}

	links := make([][]SlotState, 0, len(path)-1)
	for i := 0; i+1 < len(path); i++ {
		link, ok := sm.link(path[i], path[i+1])
		if !ok {
			return 0, false
		}
		links = append(links, link)
	}

	lastStart := NSlots - nSlots
	for start := 0; start <= lastStart; start++ {
		ok := true
		for _, link := range links {
			for s := start; s < start+nSlots; s++ {
				if link[s] != SlotFree {
					ok = false
					break
				}
			}
			if !ok {
				break
			}
		}
		if ok {
			return start, true
		}
	}

	return 0, false
}

// Reserve marks the slot range occupied on every link of the path and returns
// the allocation needed to release it later. It must only be called right
// after a successful FindFirstFit with the same arguments; no re-validation
// is performed.
func (sm *SpectrumManager) Reserve(path []int, startSlot, nSlots int) model.Allocation {
	sm.nextID++

	for i := 0; i+1 < len(path); i++ {
		link, _ := sm.link(path[i], path[i+1])
		for s := startSlot; s < startSlot+nSlots; s++ {
			link[s] = SlotOccupied
		}
	}

	return model.Allocation{
		ID:        sm.nextID,
		Path:      append([]int(nil), path...),
		StartSlot: startSlot,
		NSlots:    nSlots,
	}
}

// Release marks the allocation's slot range free on every link of its path.
// A link that no longer exists is logged as an anomaly and skipped; the
// remaining links are still freed.
func (sm *SpectrumManager) Release(alloc model.Allocation) {
	for i := 0; i+1 < len(alloc.Path); i++ {
		u, v := alloc.Path[i], alloc.Path[i+1]
		link, ok := sm.link(u, v)
		if !ok {
			sm.log.Critical(context.Background(), "release on non-existent link",
				logging.Int("from", u), logging.Int("to", v),
				logging.Int64("allocation_id", alloc.ID))
			continue
		}
		for s := alloc.StartSlot; s < alloc.StartSlot+alloc.NSlots; s++ {
			link[s] = SlotFree
		}
	}
}

// FreeSlotsOnLink counts free slots on one link. Debug helper; a missing
// link reports zero.
func (sm *SpectrumManager) FreeSlotsOnLink(u, v int) int {
	link, ok := sm.link(u, v)
	if !ok {
		return 0
	}
	free := 0
	for _, s := range link {
		if s == SlotFree {
			free++
		}
	}
	return free
}

func (sm *SpectrumManager) link(u, v int) ([]SlotState, bool) {
	if u < 0 || u >= len(sm.grid) || v < 0 || v >= len(sm.grid) {
		return nil, false
	}
	link := sm.grid[u][v]
	if link == nil {
		return nil, false
	}
	return link, true
}
