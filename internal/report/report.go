// Package report renders counting results.
package report

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/timeodds/internal/model"
)

// Probability returns valid/total. ok is false when total is zero.
func Probability(valid, total int64) (p float64, ok bool) {
	if total <= 0 {
		return 0, false
	}
	return float64(valid) / float64(total), true
}

// RenderResult prints the valid count, the total count and the probability.
func RenderResult(w io.Writer, s model.Summary) error {
	validLabel := fmt.Sprintf("Total valid times using digits %s at most once", s.Digits)
	totalLabel := "Total possible times within the specified ranges"
	if s.Estimate {
		validLabel = fmt.Sprintf("Sampled valid times using digits %s at most once", s.Digits)
		totalLabel = "Samples drawn"
	}
	if _, err := fmt.Fprintf(w, "%s: %s\n", validLabel, humanize.Comma(s.Valid)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s: %s\n", totalLabel, humanize.Comma(s.Total)); err != nil {
		return err
	}
	p, ok := Probability(s.Valid, s.Total)
	if !ok {
		_, err := fmt.Fprintln(w, "No possible times within the specified ranges.")
		return err
	}
	_, err := fmt.Fprintf(w, "Probability: %s\n", formatPercent(p))
	return err
}

func formatPercent(p float64) string {
	return fmt.Sprintf("%.6f%%", p*100)
}
