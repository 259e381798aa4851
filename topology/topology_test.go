package topology

import (
	"testing"
)

const triangleYAML = `
cities:
  - { name: A, country: X }
  - { name: B, country: X }
  - { name: C, country: Y }
links:
  - { a: A, b: B, km: 10 }
  - { a: B, b: C, km: 10 }
  - { a: A, b: C, km: 30 }
`

func TestDefaultTopology(t *testing.T) {
	topo, err := Default(nil)
	if err != nil {
		t.Fatalf("Default returned error: %v", err)
	}
	if topo.NumNodes() != 28 {
		t.Fatalf("expected 28 nodes, got %d", topo.NumNodes())
	}

	// Amsterdam (0) - Brussels (6) and the reverse direction.
	d, err := topo.Distance(0, 6)
	if err != nil {
		t.Fatalf("Distance returned error: %v", err)
	}
	if d != 210 {
		t.Fatalf("Amsterdam-Brussels distance = %d, want 210", d)
	}
	back, _ := topo.Distance(6, 0)
	if back != d {
		t.Fatalf("bundled dataset should be symmetric: %d vs %d", d, back)
	}

	self, _ := topo.Distance(5, 5)
	if self != 0 {
		t.Fatalf("distance[i][i] = %d, want 0", self)
	}

	name, _ := topo.CityName(0)
	if name != "Amsterdam" {
		t.Fatalf("CityName(0) = %q, want Amsterdam", name)
	}
	if id, ok := topo.CityID("amsterdam"); !ok || id != 0 {
		t.Fatalf("CityID(amsterdam) = %d,%v, want 0,true", id, ok)
	}

	// Every node must have at least one outgoing link.
	for u := 0; u < topo.NumNodes(); u++ {
		nbrs, err := topo.Neighbours(u)
		if err != nil {
			t.Fatalf("Neighbours(%d): %v", u, err)
		}
		if len(nbrs) == 0 {
			t.Fatalf("node %d is isolated", u)
		}
		for i := 1; i < len(nbrs); i++ {
			if nbrs[i-1] >= nbrs[i] {
				t.Fatalf("Neighbours(%d) not sorted ascending: %v", u, nbrs)
			}
		}
	}
}

func TestDistanceOutOfRange(t *testing.T) {
	topo, err := FromYAML([]byte(triangleYAML), nil)
	if err != nil {
		t.Fatalf("FromYAML returned error: %v", err)
	}

	if _, err := topo.Distance(-1, 0); err == nil {
		t.Fatal("expected error for negative index")
	}
	if _, err := topo.Distance(0, 3); err == nil {
		t.Fatal("expected error for index past the node count")
	}
}

func TestPathLengthSumsLinkDistances(t *testing.T) {
	topo, err := FromYAML([]byte(triangleYAML), nil)
	if err != nil {
		t.Fatalf("FromYAML returned error: %v", err)
	}

	length, err := topo.PathLength([]int{0, 1, 2})
	if err != nil {
		t.Fatalf("PathLength returned error: %v", err)
	}
	if length != 20 {
		t.Fatalf("PathLength = %d, want 20 (sum, not max hop)", length)
	}

	if _, err := topo.PathLength([]int{0, 9}); err == nil {
		t.Fatal("expected error for out-of-range node in path")
	}
}

func TestFromYAMLRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"unknown city in link", `
cities:
  - { name: A, country: X }
links:
  - { a: A, b: Nowhere, km: 5 }
`},
		{"self loop", `
cities:
  - { name: A, country: X }
links:
  - { a: A, b: A, km: 5 }
`},
		{"non-positive distance", `
cities:
  - { name: A, country: X }
  - { name: B, country: X }
links:
  - { a: A, b: B, km: 0 }
`},
		{"duplicate link", `
cities:
  - { name: A, country: X }
  - { name: B, country: X }
links:
  - { a: A, b: B, km: 5 }
  - { a: B, b: A, km: 7 }
`},
		{"duplicate city", `
cities:
  - { name: A, country: X }
  - { name: a, country: Y }
`},
		{"no cities", `links: []`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := FromYAML([]byte(tc.yaml), nil); err == nil {
				t.Fatal("expected decode error")
			}
		})
	}
}
