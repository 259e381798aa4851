package model

import "fmt"

// Request is a single bandwidth demand arriving at a given time step.
// Requests are built and validated by the traffic loader and never mutated
// afterwards; the simulation core assumes every request it sees is valid.
type Request struct {
	// Start and End are node indices into the topology.
	Start int
	End   int
	// SizeGbps is the requested bandwidth.
	SizeGbps float64
	// Duration is the number of time steps the allocation is held once
	// admitted.
	Duration int
	// ArrivalTime is the step index the request arrives in. It is implied
	// by the traffic file the request was read from.
	ArrivalTime int
}

// Validate checks all field invariants against the run's node count and
// iteration count. It returns a descriptive error for the first violation
// found.
func (r Request) Validate(nNodes, nIterations int) error {
	if r.Start < 0 || r.Start >= nNodes {
		return fmt.Errorf("request: start must be in [0,%d), got %d", nNodes, r.Start)
	}
	if r.End < 0 || r.End >= nNodes {
		return fmt.Errorf("request: end must be in [0,%d), got %d", nNodes, r.End)
	}
	if r.Start == r.End {
		return fmt.Errorf("request: start and end must differ, both are %d", r.Start)
	}
	if r.SizeGbps <= 0 {
		return fmt.Errorf("request: size_gbps must be > 0, got %g", r.SizeGbps)
	}
	if r.Duration <= 0 {
		return fmt.Errorf("request: duration must be > 0, got %d", r.Duration)
	}
	if r.ArrivalTime < 0 || r.ArrivalTime >= nIterations {
		return fmt.Errorf("request: arrival_time must be in [0,%d), got %d", nIterations, r.ArrivalTime)
	}
	return nil
}
