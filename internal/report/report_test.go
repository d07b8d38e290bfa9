package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/timeodds/internal/model"
	"github.com/verte-zerg/timeodds/internal/timecount"
)

func TestProbability(t *testing.T) {
	p, ok := Probability(14400, 32400000)
	if !ok {
		t.Fatalf("expected probability")
	}
	if got := formatPercent(p); got != "0.044444%" {
		t.Fatalf("unexpected percent: %s", got)
	}
	if _, ok := Probability(0, 0); ok {
		t.Fatalf("expected no probability for empty total")
	}
}

func TestRenderResult(t *testing.T) {
	var buf bytes.Buffer
	err := RenderResult(&buf, model.Summary{
		Digits: "[1 2 3 4 5 6 7 8]",
		Valid:  14400,
		Total:  32400000,
	})
	if err != nil {
		t.Fatalf("RenderResult failed: %v", err)
	}
	want := "Total valid times using digits [1 2 3 4 5 6 7 8] at most once: 14,400\n" +
		"Total possible times within the specified ranges: 32,400,000\n" +
		"Probability: 0.044444%\n"
	if buf.String() != want {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestRenderResultNoTimes(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderResult(&buf, model.Summary{Digits: "[]"}); err != nil {
		t.Fatalf("RenderResult failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No possible times within the specified ranges.") {
		t.Fatalf("expected no possible times line, got:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "Probability") {
		t.Fatalf("did not expect probability line")
	}
}

func TestRenderResultEstimate(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderResult(&buf, model.Summary{Digits: "[0 1]", Valid: 5, Total: 1000, Estimate: true}); err != nil {
		t.Fatalf("RenderResult failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Sampled valid times") || !strings.Contains(out, "Samples drawn: 1,000") {
		t.Fatalf("unexpected estimate output:\n%s", out)
	}
	if !strings.Contains(out, "Probability: 0.500000%") {
		t.Fatalf("unexpected probability:\n%s", out)
	}
}

func TestRenderByHour(t *testing.T) {
	var buf bytes.Buffer
	rows := []timecount.HourCount{
		{Hour: 1, Result: timecount.Result{Valid: 10, Total: 100}},
		{Hour: 2, Result: timecount.Result{Valid: 0, Total: 100}},
	}
	if err := RenderByHour(&buf, rows); err != nil {
		t.Fatalf("RenderByHour failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d:\n%s", len(lines), buf.String())
	}
	if lines[0] != "Per-Hour" {
		t.Fatalf("unexpected title: %q", lines[0])
	}
	if !strings.Contains(lines[2], "10.000000%") {
		t.Fatalf("unexpected first row: %q", lines[2])
	}
	if lines[4] != "Valid by hour: [@ ]" {
		t.Fatalf("unexpected sparkline: %q", lines[4])
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline(nil); got != "" {
		t.Fatalf("expected empty sparkline, got %q", got)
	}
	if got := Sparkline([]float64{3, 3, 3}); got != "+++" {
		t.Fatalf("unexpected flat sparkline: %q", got)
	}
	if got := Sparkline([]float64{0, 9}); got != " @" {
		t.Fatalf("unexpected sparkline: %q", got)
	}
}
