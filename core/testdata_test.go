package core

import (
	"testing"

	"github.com/lumenfoundry/eon-simulator/topology"
)

// triangleYAML is the canonical routing fixture: the two-hop route A-B-C
// (cost 20) beats the direct A-C link (cost 30). D is isolated.
const triangleYAML = `
cities:
  - { name: A, country: X }
  - { name: B, country: X }
  - { name: C, country: Y }
  - { name: D, country: Y }
links:
  - { a: A, b: B, km: 10 }
  - { a: B, b: C, km: 10 }
  - { a: A, b: C, km: 30 }
`

func testTopology(t *testing.T, yaml string) *topology.Topology {
	t.Helper()
	topo, err := topology.FromYAML([]byte(yaml), nil)
	if err != nil {
		t.Fatalf("test topology failed to load: %v", err)
	}
	return topo
}
