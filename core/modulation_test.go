package core

import "testing"

func TestChooseModulationReachBoundary(t *testing.T) {
	// At 4000 km only BPSK (6300) reaches among the lower schemes; QPSK's
	// 3500 falls short, so 80 Gbps costs ceil(80/50)*3 = 6 BPSK slots.
	mod, slots, ok := ChooseModulation(4000, 80)
	if !ok {
		t.Fatal("expected a modulation at 4000 km")
	}
	if mod.Name != "BPSK" || slots != 6 {
		t.Fatalf("got %s/%d slots, want BPSK/6", mod.Name, slots)
	}

	// At 3400 km QPSK reaches too and wins with ceil(80/100)*3 = 3.
	mod, slots, ok = ChooseModulation(3400, 80)
	if !ok {
		t.Fatal("expected a modulation at 3400 km")
	}
	if mod.Name != "QPSK" || slots != 3 {
		t.Fatalf("got %s/%d slots, want QPSK/3", mod.Name, slots)
	}
}

func TestChooseModulationNoReach(t *testing.T) {
	if _, _, ok := ChooseModulation(7000, 10); ok {
		t.Fatal("no modulation reaches 7000 km; expected none")
	}
}

func TestChooseModulationTiePrefersHigherBitrate(t *testing.T) {
	// At 500 km everything reaches. 100 Gbps needs 3 slots on QPSK,
	// 16QAM and 32QAM alike; the densest scheme must win.
	mod, slots, ok := ChooseModulation(500, 100)
	if !ok {
		t.Fatal("expected a modulation at 500 km")
	}
	if mod.Name != "32QAM" || slots != 3 {
		t.Fatalf("got %s/%d slots, want 32QAM/3", mod.Name, slots)
	}
}
