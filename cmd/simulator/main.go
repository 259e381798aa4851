package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/lumenfoundry/eon-simulator/core"
	"github.com/lumenfoundry/eon-simulator/internal/logging"
	"github.com/lumenfoundry/eon-simulator/internal/observability"
	"github.com/lumenfoundry/eon-simulator/predictor"
	"github.com/lumenfoundry/eon-simulator/topology"
	"github.com/lumenfoundry/eon-simulator/traffic"
)

func main() {
	dataDir := flag.String("data-dir", "traffic_data", "directory holding scenario folders")
	scenario := flag.String("scenario", "70000_0", "scenario folder to simulate")
	iterations := flag.Int("iterations", core.DefaultIterations, "number of time steps")
	predictive := flag.Bool("predictive", false, "use penalty-weighted routing fed by the predictor")
	gamma := flag.Float64("gamma", core.DefaultGamma, "penalty weight for predictive routing")
	modelPath := flag.String("model", "", "training CSV for the KNN predictor (required with -predictive)")
	knnK := flag.Int("knn-k", 5, "neighbour count for the KNN predictor")
	snapshotCSV := flag.String("snapshot-csv", "", "append node feature snapshots to this CSV file")
	metricsListen := flag.String("metrics-listen", "", "serve Prometheus metrics on this address (e.g. :9090)")

	flag.Parse()

	log := logging.NewFromEnv()
	ctx := context.Background()

	shutdown, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "tracing init failed", logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(ctx, shutdown, log)

	topo, err := topology.Default(log)
	if err != nil {
		log.Error(ctx, "topology load failed", logging.String("error", err.Error()))
		os.Exit(1)
	}

	requests, err := traffic.Load(*dataDir, *scenario, *iterations, topo.NumNodes(), log)
	if err != nil {
		log.Error(ctx, "traffic load failed", logging.String("error", err.Error()))
		os.Exit(1)
	}

	collector, err := observability.NewSimCollector(nil)
	if err != nil {
		log.Error(ctx, "metrics init failed", logging.String("error", err.Error()))
		os.Exit(1)
	}
	if *metricsListen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		go func() {
			if err := http.ListenAndServe(*metricsListen, mux); err != nil {
				log.Error(ctx, "metrics server stopped", logging.String("error", err.Error()))
			}
		}()
		log.Info(ctx, "serving metrics", logging.String("addr", *metricsListen))
	}

	cfg := core.Config{
		Scenario:   *scenario,
		Iterations: *iterations,
		Predictive: *predictive,
		Gamma:      *gamma,
		Logger:     log,
		Collector:  collector,
	}

	if *predictive {
		if *modelPath == "" {
			log.Error(ctx, "predictive mode requires -model")
			os.Exit(1)
		}
		knn, err := predictor.LoadKNN(*modelPath, *knnK)
		if err != nil {
			log.Error(ctx, "predictor load failed", logging.String("error", err.Error()))
			os.Exit(1)
		}
		cfg.Predictor = knn
	}

	if *snapshotCSV != "" {
		writer, err := core.NewCSVSnapshotWriter(*snapshotCSV, log)
		if err != nil {
			log.Error(ctx, "snapshot writer init failed", logging.String("error", err.Error()))
			os.Exit(1)
		}
		defer writer.Close()
		cfg.SnapshotSink = writer
	}

	sim, err := core.NewSimulator(topo, cfg)
	if err != nil {
		log.Error(ctx, "simulator init failed", logging.String("error", err.Error()))
		os.Exit(1)
	}

	result, err := sim.Run(ctx, requests)
	if err != nil {
		log.Error(ctx, "simulation aborted", logging.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Println("Simulation finished")
	fmt.Printf("Total requests: %d\n", result.Total)
	fmt.Printf("Accepted: %d\n", result.Accepted)
	fmt.Printf("Blocked: %d\n", result.Blocked)
	fmt.Printf("Blocking ratio: %.4f\n", result.BlockingRatio)
	fmt.Printf("Elapsed time: %.3f s\n", result.Elapsed.Seconds())
}
