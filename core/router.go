package core

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/lumenfoundry/eon-simulator/topology"
)

// ErrUnreachable reports that no path exists between two in-range nodes. It
// is an expected admission outcome, not a fault: callers block the request
// and move on.
var ErrUnreachable = errors.New("destination unreachable")

// Router computes shortest paths over the topology. The distance matrix is
// converted once into a weighted directed graph; the penalty-weighted mode
// derives a reweighted graph from the same matrix.
//
// Edge cost in penalty mode is distance * (1 + gamma*penalty[u]) for the
// edge leaving node u, so routes are discouraged from transiting nodes the
// predictor expects to congest.
type Router struct {
	topo *topology.Topology
	g    *simple.WeightedDirectedGraph
}

// NewRouter builds the unweighted (pure distance) routing graph.
func NewRouter(topo *topology.Topology) *Router {
	return &Router{topo: topo, g: buildGraph(topo, nil, 0)}
}

// WithPenalties returns a router over the same topology whose edge costs are
// inflated by the given per-node penalties. Nodes absent from the map carry
// penalty zero. The receiver is not modified; the derived router is meant to
// be built once per step and reused for every request in that step.
func (r *Router) WithPenalties(penalties map[int]float64, gamma float64) *Router {
	if len(penalties) == 0 || gamma == 0 {
		return r
	}
	return &Router{topo: r.topo, g: buildGraph(r.topo, penalties, gamma)}
}

// Route returns the cheapest node path from start to end, endpoints
// inclusive. Out-of-range endpoints are an error that aborts the run;
// ErrUnreachable is an ordinary blocked outcome. Equal-cost ties resolve
// deterministically but callers must not rely on a particular tie order.
func (r *Router) Route(start, end int) ([]int, error) {
	n := r.topo.NumNodes()
	if start < 0 || start >= n || end < 0 || end >= n {
		return nil, fmt.Errorf("route: node index out of range: start=%d end=%d nodes=%d", start, end, n)
	}

	shortest := path.DijkstraFrom(simple.Node(int64(start)), r.g)
	nodes, weight := shortest.To(int64(end))
	if len(nodes) == 0 || math.IsInf(weight, 1) {
		return nil, ErrUnreachable
	}

	out := make([]int, len(nodes))
	for i, nd := range nodes {
		out[i] = int(nd.ID())
	}
	return out, nil
}

func buildGraph(topo *topology.Topology, penalties map[int]float64, gamma float64) *simple.WeightedDirectedGraph {
	g := simple.NewWeightedDirectedGraph(0, math.Inf(1))

	n := topo.NumNodes()
	for u := 0; u < n; u++ {
		// Isolated nodes must still exist in the graph so routing to
		// them reports unreachable rather than unknown.
		if g.Node(int64(u)) == nil {
			g.AddNode(simple.Node(int64(u)))
		}
	}

	for u := 0; u < n; u++ {
		factor := 1.0
		if penalties != nil {
			factor = 1.0 + gamma*penalties[u]
		}
		for v := 0; v < n; v++ {
			d, _ := topo.Distance(u, v)
			if d == 0 {
				continue
			}
			g.SetWeightedEdge(simple.WeightedEdge{
				F: simple.Node(int64(u)),
				T: simple.Node(int64(v)),
				W: float64(d) * factor,
			})
		}
	}
	return g
}
