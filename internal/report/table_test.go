package report

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Hour", "Valid", "Probability"}
	rows := [][]string{
		{"1", "1,600", "0.044444%"},
		{"12", "0", "-"},
	}
	rightAlign := map[int]bool{0: true, 1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Hour Valid Probability" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "   1 1,600   0.044444%" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "  12     0           -" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableLeftAlignTrimsTrailing(t *testing.T) {
	lines := formatTable([]string{"Mode", "Digits"}, [][]string{{"count", "[1 2]"}}, nil)
	if lines[0] != "Mode  Digits" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "count [1 2]" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
}

func TestFormatTableEmpty(t *testing.T) {
	if lines := formatTable(nil, nil, nil); lines != nil {
		t.Fatalf("expected nil, got %v", lines)
	}
}
