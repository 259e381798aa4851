package traffic

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/lumenfoundry/eon-simulator/internal/logging"
)

// GenerateConfig controls synthetic scenario generation.
type GenerateConfig struct {
	Dir      string
	Scenario string
	// Iterations is the number of step files to write.
	Iterations int
	// Nodes is the topology node count; endpoints are drawn uniformly.
	Nodes int
	// Lambda is the mean number of arrivals per step (Poisson).
	Lambda float64
	// MeanGbps is the mean requested bandwidth (exponential, floored at
	// half a slot's worth).
	MeanGbps float64
	// MeanDuration is the mean holding time in steps (exponential,
	// floored at 1).
	MeanDuration float64
	Seed         uint64
}

// Generate writes a synthetic scenario folder in the loader's format:
// Poisson arrivals per step, uniform distinct endpoints, exponential
// bandwidth and holding times.
func Generate(cfg GenerateConfig, log logging.Logger) error {
	if log == nil {
		log = logging.Noop()
	}
	if cfg.Iterations <= 0 || cfg.Nodes < 2 {
		return fmt.Errorf("traffic: generate needs iterations > 0 and at least 2 nodes")
	}
	if cfg.Lambda <= 0 || cfg.MeanGbps <= 0 || cfg.MeanDuration <= 0 {
		return fmt.Errorf("traffic: generate needs positive lambda, mean-gbps and mean-duration")
	}

	scenarioDir := filepath.Join(cfg.Dir, cfg.Scenario)
	if err := os.MkdirAll(scenarioDir, 0o755); err != nil {
		return fmt.Errorf("traffic: create %s: %w", scenarioDir, err)
	}

	src := rand.NewSource(cfg.Seed)
	uniform := rand.New(src)
	arrivals := distuv.Poisson{Lambda: cfg.Lambda, Src: src}
	bandwidth := distuv.Exponential{Rate: 1 / cfg.MeanGbps, Src: src}
	holding := distuv.Exponential{Rate: 1 / cfg.MeanDuration, Src: src}

	total := 0
	for t := 0; t < cfg.Iterations; t++ {
		path := filepath.Join(scenarioDir, fmt.Sprintf("%d.txt", t))
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("traffic: create %s: %w", path, err)
		}

		w := bufio.NewWriter(file)
		n := int(arrivals.Rand())
		for i := 0; i < n; i++ {
			start := uniform.Intn(cfg.Nodes)
			end := uniform.Intn(cfg.Nodes - 1)
			if end >= start {
				end++
			}

			size := bandwidth.Rand()
			if size < 12.5 {
				size = 12.5
			}
			duration := int(holding.Rand())
			if duration < 1 {
				duration = 1
			}
			if duration > cfg.Iterations-t {
				duration = cfg.Iterations - t
			}

			fmt.Fprintf(w, "%d %d %.1f %d\n", start, end, size, duration)
		}
		total += n

		if err := w.Flush(); err != nil {
			file.Close()
			return fmt.Errorf("traffic: write %s: %w", path, err)
		}
		if err := file.Close(); err != nil {
			return fmt.Errorf("traffic: close %s: %w", path, err)
		}
	}

	log.Info(context.Background(), "scenario generated",
		logging.String("dir", scenarioDir),
		logging.Int("steps", cfg.Iterations),
		logging.Int("requests", total),
		logging.String("generated_at", time.Now().Format(time.RFC3339)))
	return nil
}
