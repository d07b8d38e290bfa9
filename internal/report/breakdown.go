package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/timeodds/internal/timecount"
)

const sparkChars = " .:-=+*#%@"

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderByHour prints a per-hour table followed by a sparkline of valid counts.
func RenderByHour(w io.Writer, rows []timecount.HourCount) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No hours to break down.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Per-Hour"); err != nil {
		return err
	}
	headers := []string{"Hour", "Valid", "Total", "Probability"}
	tableRows := make([][]string, 0, len(rows))
	counts := make([]float64, 0, len(rows))
	for _, row := range rows {
		prob := "-"
		if p, ok := Probability(row.Valid, row.Total); ok {
			prob = formatPercent(p)
		}
		tableRows = append(tableRows, []string{
			strconv.Itoa(row.Hour),
			humanize.Comma(row.Valid),
			humanize.Comma(row.Total),
			prob,
		})
		counts = append(counts, float64(row.Valid))
	}
	rightAlign := map[int]bool{0: true, 1: true, 2: true, 3: true}
	for _, line := range formatTable(headers, tableRows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Valid by hour: [%s]\n", Sparkline(counts))
	return err
}
