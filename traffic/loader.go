// Package traffic reads and writes scenario folders: one whitespace-separated
// text file per time step, each line one request.
package traffic

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/lumenfoundry/eon-simulator/internal/logging"
	"github.com/lumenfoundry/eon-simulator/model"
)

// Load reads a scenario folder: <dir>/<scenario>/<i>.txt for every step i in
// [0, iterations). Each line is `start dest bandwidth_gbps duration`. Every
// request is validated before the core sees it; a missing file or malformed
// line is a hard error.
func Load(dir, scenario string, iterations int, nNodes int, log logging.Logger) ([][]model.Request, error) {
	if log == nil {
		log = logging.Noop()
	}
	ctx := context.Background()

	scenarioDir := filepath.Join(dir, scenario)
	if _, err := os.Stat(scenarioDir); err != nil {
		return nil, fmt.Errorf("traffic: scenario directory %s: %w", scenarioDir, err)
	}

	log.Info(ctx, "reading traffic", logging.String("dir", scenarioDir),
		logging.Int("iterations", iterations))
	start := time.Now()

	traffic := make([][]model.Request, iterations)
	count := 0
	for i := 0; i < iterations; i++ {
		requests, err := readStepFile(filepath.Join(scenarioDir, fmt.Sprintf("%d.txt", i)), i, nNodes, iterations)
		if err != nil {
			return nil, err
		}
		traffic[i] = requests
		count += len(requests)
	}

	log.Info(ctx, "traffic loaded",
		logging.Int("requests", count),
		logging.String("elapsed", time.Since(start).String()))
	return traffic, nil
}

func readStepFile(path string, step, nNodes, iterations int) ([]model.Request, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("traffic: %w", err)
	}
	defer file.Close()

	var requests []model.Request
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		req, err := parseLine(line, step)
		if err != nil {
			return nil, fmt.Errorf("traffic: %s:%d: %w", path, lineNo, err)
		}
		if err := req.Validate(nNodes, iterations); err != nil {
			return nil, fmt.Errorf("traffic: %s:%d: %w", path, lineNo, err)
		}
		requests = append(requests, req)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("traffic: read %s: %w", path, err)
	}
	return requests, nil
}

func parseLine(line string, step int) (model.Request, error) {
	fields := strings.Fields(line)
	if len(fields) != 4 {
		return model.Request{}, fmt.Errorf("expected 4 fields, got %d", len(fields))
	}

	start, err := strconv.Atoi(fields[0])
	if err != nil {
		return model.Request{}, fmt.Errorf("bad start node %q", fields[0])
	}
	end, err := strconv.Atoi(fields[1])
	if err != nil {
		return model.Request{}, fmt.Errorf("bad dest node %q", fields[1])
	}
	size, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return model.Request{}, fmt.Errorf("bad bandwidth %q", fields[2])
	}
	duration, err := strconv.Atoi(fields[3])
	if err != nil {
		return model.Request{}, fmt.Errorf("bad duration %q", fields[3])
	}

	return model.Request{
		Start:       start,
		End:         end,
		SizeGbps:    size,
		Duration:    duration,
		ArrivalTime: step,
	}, nil
}
