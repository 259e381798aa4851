package core

import (
	"math"
	"testing"
)

func TestFragmentationBoundaries(t *testing.T) {
	topo := testTopology(t, triangleYAML)
	sm := NewSpectrumManager(topo, nil)
	an := NewSpectrumAnalyzer(sm, topo, nil)

	if frag := an.FragmentationIndex(0, 1); frag != 0.0 {
		t.Fatalf("fully free link fragmentation = %v, want 0.0", frag)
	}
	if occ := an.LinkOccupancy(0, 1); occ != 0.0 {
		t.Fatalf("fully free link occupancy = %v, want 0.0", occ)
	}

	sm.Reserve([]int{0, 1}, 0, NSlots)
	if frag := an.FragmentationIndex(0, 1); frag != 1.0 {
		t.Fatalf("fully occupied link fragmentation = %v, want exactly 1.0", frag)
	}
	if occ := an.LinkOccupancy(0, 1); occ != 1.0 {
		t.Fatalf("fully occupied link occupancy = %v, want 1.0", occ)
	}
}

func TestLargestFreeBlockScansRuns(t *testing.T) {
	topo := testTopology(t, triangleYAML)
	sm := NewSpectrumManager(topo, nil)
	an := NewSpectrumAnalyzer(sm, topo, nil)

	if lfb := an.LargestFreeBlock(0, 1); lfb != NSlots {
		t.Fatalf("free link largest block = %d, want %d", lfb, NSlots)
	}

	// Occupy [0,4) and [8,12): the head gap is 4 slots, the tail run is
	// NSlots-12.
	sm.Reserve([]int{0, 1}, 0, 4)
	sm.Reserve([]int{0, 1}, 8, 4)
	if lfb := an.LargestFreeBlock(0, 1); lfb != NSlots-12 {
		t.Fatalf("largest block = %d, want %d", lfb, NSlots-12)
	}

	totalFree := float64(NSlots - 8)
	wantFrag := 1.0 - float64(NSlots-12)/totalFree
	if frag := an.FragmentationIndex(0, 1); math.Abs(frag-wantFrag) > 1e-12 {
		t.Fatalf("fragmentation = %v, want %v", frag, wantFrag)
	}
}

func TestNodeFeatureSnapshotAggregatesOutgoingLinks(t *testing.T) {
	topo := testTopology(t, triangleYAML)
	sm := NewSpectrumManager(topo, nil)
	an := NewSpectrumAnalyzer(sm, topo, nil)

	// Node 0 has outgoing links to 1 and 2. Half-fill 0->1.
	sm.Reserve([]int{0, 1}, 0, NSlots/2)

	snap := an.NodeFeatureSnapshot(7, 0)
	if snap.Time != 7 {
		t.Fatalf("snapshot time = %d, want 7", snap.Time)
	}

	f := snap.Features
	if f[0] != 0.25 {
		t.Fatalf("mean occupancy = %v, want 0.25", f[0])
	}
	if f[1] != 0.5 {
		t.Fatalf("max occupancy = %v, want 0.5", f[1])
	}
	if f[2] != float64(NSlots/2) {
		t.Fatalf("min largest free block = %v, want %d", f[2], NSlots/2)
	}
	// One contiguous free run per link, so fragmentation stays zero.
	if f[3] != 0.0 || f[4] != 0.0 {
		t.Fatalf("fragmentation = %v/%v, want 0/0", f[3], f[4])
	}
}

func TestNodeFeatureSnapshotIsolatedNode(t *testing.T) {
	topo := testTopology(t, triangleYAML)
	sm := NewSpectrumManager(topo, nil)
	an := NewSpectrumAnalyzer(sm, topo, nil)

	snap := an.NodeFeatureSnapshot(0, 3)
	for i, f := range snap.Features {
		if f != 0.0 {
			t.Fatalf("feature %d = %v for node without outgoing links, want 0", i, f)
		}
	}
}
