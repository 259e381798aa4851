package core

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/lumenfoundry/eon-simulator/internal/logging"
	"github.com/lumenfoundry/eon-simulator/model"
)

// SnapshotSink receives every node feature snapshot the simulator takes.
// Used for offline training-set generation; the core never reads the data
// back within the same run.
type SnapshotSink interface {
	SaveSnapshot(node int, snap model.NodeSnapshot)
}

var csvHeader = []string{
	"time",
	"node",
	"mean_occupancy",
	"max_occupancy",
	"min_largest_free_block",
	"mean_fragmentation",
	"max_fragmentation",
}

// CSVSnapshotWriter appends node feature snapshots to a CSV file. The file
// stays open for the writer's lifetime; the header is written only when the
// file is created.
type CSVSnapshotWriter struct {
	path string
	file *os.File
	w    *csv.Writer
	log  logging.Logger
}

// NewCSVSnapshotWriter opens (or creates) the CSV file at path, creating
// parent directories as needed.
func NewCSVSnapshotWriter(path string, log logging.Logger) (*CSVSnapshotWriter, error) {
	if log == nil {
		log = logging.Noop()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("snapshot csv: create directory: %w", err)
		}
	}

	_, statErr := os.Stat(path)
	newFile := os.IsNotExist(statErr)

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("snapshot csv: open %s: %w", path, err)
	}

	sw := &CSVSnapshotWriter{path: path, file: file, w: csv.NewWriter(file), log: log}
	if newFile {
		if err := sw.w.Write(csvHeader); err != nil {
			file.Close()
			return nil, fmt.Errorf("snapshot csv: write header: %w", err)
		}
		sw.w.Flush()
	}
	return sw, nil
}

// SaveSnapshot appends one row. Write failures are logged, not propagated;
// losing a training row must not disturb the run.
func (sw *CSVSnapshotWriter) SaveSnapshot(node int, snap model.NodeSnapshot) {
	row := make([]string, 0, len(csvHeader))
	row = append(row, strconv.Itoa(snap.Time), strconv.Itoa(node))
	for _, f := range snap.Features {
		row = append(row, strconv.FormatFloat(f, 'f', 4, 64))
	}

	if err := sw.w.Write(row); err != nil {
		sw.log.Error(context.Background(), "snapshot write failed",
			logging.String("path", sw.path), logging.String("error", err.Error()))
		return
	}
	sw.w.Flush()
	if err := sw.w.Error(); err != nil {
		sw.log.Error(context.Background(), "snapshot flush failed",
			logging.String("path", sw.path), logging.String("error", err.Error()))
	}
}

// Close flushes buffered rows and closes the file.
func (sw *CSVSnapshotWriter) Close() error {
	sw.w.Flush()
	if err := sw.w.Error(); err != nil {
		sw.file.Close()
		return err
	}
	return sw.file.Close()
}
