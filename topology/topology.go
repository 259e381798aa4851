// Package topology holds the static physical network: the distance matrix,
// per-node neighbour lists, and city metadata. A Topology is read-only for
// the lifetime of a run.
package topology

import (
	"context"
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lumenfoundry/eon-simulator/internal/logging"
)

//go:embed data/network.yaml
var defaultNetworkYAML []byte

// City is the metadata attached to a node index.
type City struct {
	Name    string `yaml:"name"`
	Country string `yaml:"country"`
}

type networkYAML struct {
	Cities []City     `yaml:"cities"`
	Links  []linkYAML `yaml:"links"`
}

type linkYAML struct {
	A  string `yaml:"a"`
	B  string `yaml:"b"`
	Km int    `yaml:"km"`
}

// Topology is the immutable physical network. distances[u][v] == 0 means no
// link from u to v; links are unidirectional, though the bundled dataset is
// symmetric because each fiber entry is materialised in both directions.
type Topology struct {
	cities     []City
	distances  [][]int
	neighbours [][]int
	log        logging.Logger
}

// Default decodes the embedded 28-node European network.
func Default(log logging.Logger) (*Topology, error) {
	return FromYAML(defaultNetworkYAML, log)
}

// FromYAML decodes a topology description: a city list and a fiber link
// table keyed by city name. Each link entry yields both unidirectional
// directions.
func FromYAML(data []byte, log logging.Logger) (*Topology, error) {
	if log == nil {
		log = logging.Noop()
	}

	var payload networkYAML
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("topology: decode failed: %w", err)
	}
	if len(payload.Cities) == 0 {
		return nil, fmt.Errorf("topology: no cities defined")
	}

	idByName := make(map[string]int, len(payload.Cities))
	for i, c := range payload.Cities {
		if c.Name == "" {
			return nil, fmt.Errorf("topology: city %d has no name", i)
		}
		key := strings.ToLower(c.Name)
		if _, dup := idByName[key]; dup {
			return nil, fmt.Errorf("topology: duplicate city %q", c.Name)
		}
		idByName[key] = i
	}

	n := len(payload.Cities)
	distances := make([][]int, n)
	for i := range distances {
		distances[i] = make([]int, n)
	}

	for _, l := range payload.Links {
		a, okA := idByName[strings.ToLower(l.A)]
		b, okB := idByName[strings.ToLower(l.B)]
		if !okA || !okB {
			return nil, fmt.Errorf("topology: link %q-%q references unknown city", l.A, l.B)
		}
		if a == b {
			return nil, fmt.Errorf("topology: link %q-%q is a self loop", l.A, l.B)
		}
		if l.Km <= 0 {
			return nil, fmt.Errorf("topology: link %q-%q has non-positive distance %d", l.A, l.B, l.Km)
		}
		if distances[a][b] != 0 {
			return nil, fmt.Errorf("topology: duplicate link %q-%q", l.A, l.B)
		}
		distances[a][b] = l.Km
		distances[b][a] = l.Km
	}

	neighbours := make([][]int, n)
	for u := 0; u < n; u++ {
		for v := 0; v < n; v++ {
			if distances[u][v] > 0 {
				neighbours[u] = append(neighbours[u], v)
			}
		}
		sort.Ints(neighbours[u])
	}

	return &Topology{
		cities:     payload.Cities,
		distances:  distances,
		neighbours: neighbours,
		log:        log,
	}, nil
}

// NumNodes returns the node count.
func (t *Topology) NumNodes() int { return len(t.cities) }

// Distance returns the link distance from u to v in km. A zero result means
// no link exists. Out-of-range indices are an error, never clamped.
func (t *Topology) Distance(u, v int) (int, error) {
	if err := t.checkNode(u); err != nil {
		return 0, err
	}
	if err := t.checkNode(v); err != nil {
		return 0, err
	}
	return t.distances[u][v], nil
}

// Neighbours returns the nodes reachable over one outgoing link of u, in
// ascending order. The returned slice must not be modified.
func (t *Topology) Neighbours(u int) ([]int, error) {
	if err := t.checkNode(u); err != nil {
		return nil, err
	}
	return t.neighbours[u], nil
}

// CityName returns the name attached to a node index.
func (t *Topology) CityName(u int) (string, error) {
	if err := t.checkNode(u); err != nil {
		return "", err
	}
	return t.cities[u].Name, nil
}

// Country returns the country attached to a node index.
func (t *Topology) Country(u int) (string, error) {
	if err := t.checkNode(u); err != nil {
		return "", err
	}
	return t.cities[u].Country, nil
}

// CityID resolves a city name (case-insensitive) to its node index.
func (t *Topology) CityID(name string) (int, bool) {
	want := strings.ToLower(name)
	for i, c := range t.cities {
		if strings.ToLower(c.Name) == want {
			return i, true
		}
	}
	return 0, false
}

// PathLength sums the link distances along a node path. This is the physical
// length that determines optical reach. A zero-distance edge inside a path
// should be impossible for a routed path; it is logged as an anomaly and
// contributes nothing to the sum.
func (t *Topology) PathLength(path []int) (int, error) {
	total := 0
	for i := 0; i+1 < len(path); i++ {
		d, err := t.Distance(path[i], path[i+1])
		if err != nil {
			return 0, err
		}
		if d == 0 {
			t.log.Critical(context.Background(), "zero-distance edge inside path",
				logging.Int("from", path[i]), logging.Int("to", path[i+1]))
			continue
		}
		total += d
	}
	return total, nil
}

func (t *Topology) checkNode(u int) error {
	if u < 0 || u >= len(t.cities) {
		return fmt.Errorf("topology: node index %d out of range [0,%d)", u, len(t.cities))
	}
	return nil
}
