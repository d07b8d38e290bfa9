package timecount

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// DigitSet is a set of decimal digits stored as a bitmask.
type DigitSet uint16

const allDigits DigitSet = 1<<10 - 1

// AllDigits returns the set {0..9}.
func AllDigits() DigitSet {
	return allDigits
}

// NewDigitSet builds a set from the given digits.
func NewDigitSet(digits ...int) (DigitSet, error) {
	var set DigitSet
	for _, d := range digits {
		if d < 0 || d > 9 {
			return 0, fmt.Errorf("%w: %d", ErrDigit, d)
		}
		set |= 1 << d
	}
	return set, nil
}

// DigitRange returns the set of digits lo through hi. Out-of-range bounds are clamped.
func DigitRange(lo, hi int) DigitSet {
	var set DigitSet
	for d := max(lo, 0); d <= min(hi, 9); d++ {
		set |= 1 << d
	}
	return set
}

// Has reports whether d is in the set.
func (s DigitSet) Has(d int) bool {
	if d < 0 || d > 9 {
		return false
	}
	return s&(1<<d) != 0
}

// Len returns the number of digits in the set.
func (s DigitSet) Len() int {
	return bits.OnesCount16(uint16(s & allDigits))
}

// Digits returns the members in ascending order.
func (s DigitSet) Digits() []int {
	out := make([]int, 0, s.Len())
	for d := 0; d <= 9; d++ {
		if s.Has(d) {
			out = append(out, d)
		}
	}
	return out
}

func (s DigitSet) String() string {
	digits := s.Digits()
	parts := make([]string, len(digits))
	for i, d := range digits {
		parts[i] = strconv.Itoa(d)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// ParseDigitSet parses a digit list. Accepted forms: "12345678", "1-8",
// "0,2,4", "0-3,7" and "none" for the empty set.
func ParseDigitSet(s string) (DigitSet, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("digit set must not be empty (use \"none\" for no digits)")
	}
	if strings.EqualFold(s, "none") {
		return 0, nil
	}
	var set DigitSet
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if lo, hi, found := strings.Cut(part, "-"); found {
			start, err := parseDigit(lo)
			if err != nil {
				return 0, err
			}
			end, err := parseDigit(hi)
			if err != nil {
				return 0, err
			}
			if end < start {
				return 0, fmt.Errorf("invalid digit range %q: end before start", part)
			}
			set |= DigitRange(start, end)
			continue
		}
		for _, r := range part {
			d, err := parseDigit(string(r))
			if err != nil {
				return 0, err
			}
			set |= 1 << d
		}
	}
	return set, nil
}

func parseDigit(s string) (int, error) {
	s = strings.TrimSpace(s)
	d, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid digit %q: %w", s, err)
	}
	if d < 0 || d > 9 {
		return 0, fmt.Errorf("%w: %d", ErrDigit, d)
	}
	return d, nil
}
