package traffic

import (
	"testing"
)

func TestGenerateRoundTripsThroughLoader(t *testing.T) {
	dir := t.TempDir()
	cfg := GenerateConfig{
		Dir:          dir,
		Scenario:     "synthetic",
		Iterations:   20,
		Nodes:        6,
		Lambda:       4,
		MeanGbps:     100,
		MeanDuration: 5,
		Seed:         42,
	}
	if err := Generate(cfg, nil); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	// The loader validates every request, so a clean load proves the
	// generated scenario is well-formed.
	traffic, err := Load(dir, "synthetic", cfg.Iterations, cfg.Nodes, nil)
	if err != nil {
		t.Fatalf("generated scenario failed to load: %v", err)
	}

	total := 0
	for _, step := range traffic {
		total += len(step)
	}
	if total == 0 {
		t.Fatal("generated scenario contains no requests")
	}
}

func TestGenerateIsDeterministicPerSeed(t *testing.T) {
	count := func(seed uint64) int {
		dir := t.TempDir()
		cfg := GenerateConfig{
			Dir: dir, Scenario: "s", Iterations: 10, Nodes: 4,
			Lambda: 3, MeanGbps: 80, MeanDuration: 4, Seed: seed,
		}
		if err := Generate(cfg, nil); err != nil {
			t.Fatalf("Generate returned error: %v", err)
		}
		traffic, err := Load(dir, "s", 10, 4, nil)
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		total := 0
		for _, step := range traffic {
			total += len(step)
		}
		return total
	}

	if count(7) != count(7) {
		t.Fatal("same seed produced different scenarios")
	}
}

func TestGenerateRejectsBadConfig(t *testing.T) {
	cases := []GenerateConfig{
		{Dir: "x", Scenario: "s", Iterations: 0, Nodes: 4, Lambda: 1, MeanGbps: 1, MeanDuration: 1},
		{Dir: "x", Scenario: "s", Iterations: 5, Nodes: 1, Lambda: 1, MeanGbps: 1, MeanDuration: 1},
		{Dir: "x", Scenario: "s", Iterations: 5, Nodes: 4, Lambda: 0, MeanGbps: 1, MeanDuration: 1},
		{Dir: "x", Scenario: "s", Iterations: 5, Nodes: 4, Lambda: 1, MeanGbps: 0, MeanDuration: 1},
		{Dir: "x", Scenario: "s", Iterations: 5, Nodes: 4, Lambda: 1, MeanGbps: 1, MeanDuration: 0},
	}
	for i, cfg := range cases {
		if err := Generate(cfg, nil); err == nil {
			t.Fatalf("case %d: expected config error", i)
		}
	}
}
