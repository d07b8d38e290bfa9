package timecount

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Range is a half-open interval [Start, Stop) of component values.
type Range struct {
	Start int
	Stop  int
}

// Inclusive returns the range covering lo through hi.
func Inclusive(lo, hi int) Range {
	return Range{Start: lo, Stop: hi + 1}
}

// Single returns the range holding only v.
func Single(v int) Range {
	return Range{Start: v, Stop: v + 1}
}

// Len returns the number of values in the range.
func (r Range) Len() int {
	if r.Stop <= r.Start {
		return 0
	}
	return r.Stop - r.Start
}

// Last returns the largest value in the range. It is only meaningful for non-empty ranges.
func (r Range) Last() int {
	return r.Stop - 1
}

func (r Range) String() string {
	if r.Len() == 0 {
		return "empty"
	}
	if r.Len() == 1 {
		return strconv.Itoa(r.Start)
	}
	return fmt.Sprintf("%d-%d", r.Start, r.Last())
}

// ParseRange parses "lo-hi" (both inclusive) or a single value "n".
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Range{}, fmt.Errorf("range must not be empty")
	}
	lo, hi, found := strings.Cut(s, "-")
	if !found {
		v, err := strconv.Atoi(s)
		if err != nil {
			return Range{}, fmt.Errorf("invalid range %q: %w", s, err)
		}
		if v == math.MaxInt {
			return Range{}, fmt.Errorf("%w: range value %d", ErrOverflow, v)
		}
		return Single(v), nil
	}
	start, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return Range{}, fmt.Errorf("invalid range start %q: %w", lo, err)
	}
	end, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return Range{}, fmt.Errorf("invalid range end %q: %w", hi, err)
	}
	if end < start {
		return Range{}, fmt.Errorf("invalid range %q: end before start", s)
	}
	if end == math.MaxInt {
		return Range{}, fmt.Errorf("%w: range end %d", ErrOverflow, end)
	}
	return Inclusive(start, end), nil
}
