package main

import (
	"context"
	"flag"
	"os"

	"github.com/lumenfoundry/eon-simulator/core"
	"github.com/lumenfoundry/eon-simulator/internal/logging"
	"github.com/lumenfoundry/eon-simulator/topology"
	"github.com/lumenfoundry/eon-simulator/traffic"
)

func main() {
	out := flag.String("out", "traffic_data", "directory to write the scenario folder into")
	scenario := flag.String("scenario", "synthetic_0", "name of the scenario folder")
	iterations := flag.Int("iterations", core.DefaultIterations, "number of step files to write")
	lambda := flag.Float64("lambda", 8, "mean arrivals per step")
	meanGbps := flag.Float64("mean-gbps", 120, "mean requested bandwidth in Gbps")
	meanDuration := flag.Float64("mean-duration", 40, "mean holding time in steps")
	seed := flag.Uint64("seed", 1, "random seed")

	flag.Parse()

	log := logging.NewFromEnv()
	ctx := context.Background()

	topo, err := topology.Default(log)
	if err != nil {
		log.Error(ctx, "topology load failed", logging.String("error", err.Error()))
		os.Exit(1)
	}

	err = traffic.Generate(traffic.GenerateConfig{
		Dir:          *out,
		Scenario:     *scenario,
		Iterations:   *iterations,
		Nodes:        topo.NumNodes(),
		Lambda:       *lambda,
		MeanGbps:     *meanGbps,
		MeanDuration: *meanDuration,
		Seed:         *seed,
	}, log)
	if err != nil {
		log.Error(ctx, "generation failed", logging.String("error", err.Error()))
		os.Exit(1)
	}
}
