package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestCriticalLevelIsLabelled(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Output: &buf})

	log.Critical(context.Background(), "anomaly detected", Int("node", 3))

	out := buf.String()
	if !strings.Contains(out, "CRITICAL") {
		t.Fatalf("critical log missing CRITICAL label: %s", out)
	}
	if !strings.Contains(out, "anomaly detected") || !strings.Contains(out, "node=3") {
		t.Fatalf("critical log missing message or fields: %s", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "error", Output: &buf})

	ctx := context.Background()
	log.Debug(ctx, "debug line")
	log.Info(ctx, "info line")
	log.Error(ctx, "error line")
	log.Critical(ctx, "critical line")

	out := buf.String()
	if strings.Contains(out, "debug line") || strings.Contains(out, "info line") {
		t.Fatalf("low-severity lines leaked through error level: %s", out)
	}
	if !strings.Contains(out, "error line") || !strings.Contains(out, "critical line") {
		t.Fatalf("high-severity lines dropped: %s", out)
	}
}

func TestCriticalLevelFiltersErrors(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "critical", Output: &buf})

	ctx := context.Background()
	log.Error(ctx, "error line")
	log.Critical(ctx, "critical line")

	out := buf.String()
	if strings.Contains(out, "error line") {
		t.Fatalf("error leaked through critical level: %s", out)
	}
	if !strings.Contains(out, "critical line") {
		t.Fatalf("critical line dropped: %s", out)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Format: "json", Output: &buf})

	log.Info(context.Background(), "hello", String("k", "v"))

	out := buf.String()
	if !strings.Contains(out, `"msg":"hello"`) || !strings.Contains(out, `"k":"v"`) {
		t.Fatalf("unexpected json output: %s", out)
	}
}

func TestWithAttachesFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Output: &buf}).With(String("component", "spectrum"))

	log.Info(context.Background(), "ready")

	if !strings.Contains(buf.String(), "component=spectrum") {
		t.Fatalf("With fields missing: %s", buf.String())
	}
}

func TestNoopDropsEverything(t *testing.T) {
	log := Noop()
	log.Critical(context.Background(), "nothing")
	log.With(String("a", "b")).Info(context.Background(), "nothing")
}
