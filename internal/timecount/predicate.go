package timecount

import "fmt"

const (
	// ClockWidth is the fixed width of the minute and second components.
	ClockWidth = 2
	// MaxWidth bounds the configurable hour and millisecond widths.
	MaxWidth = 9
)

// Tuple is one hour:minute:second.millisecond value.
type Tuple struct {
	Hour   int
	Minute int
	Second int
	Millis int
}

// Layout holds the zero-padding widths of the hour and millisecond components.
type Layout struct {
	HourWidth   int
	MillisWidth int
}

// DefaultLayout renders hours with one digit and milliseconds with three.
func DefaultLayout() Layout {
	return Layout{HourWidth: 1, MillisWidth: 3}
}

// Len returns the length of the rendered digit sequence.
func (l Layout) Len() int {
	return l.HourWidth + ClockWidth + ClockWidth + l.MillisWidth
}

// Validate checks that both widths are within [1, MaxWidth].
func (l Layout) Validate() error {
	if l.HourWidth < 1 || l.HourWidth > MaxWidth {
		return fmt.Errorf("%w: hour width %d", ErrWidth, l.HourWidth)
	}
	if l.MillisWidth < 1 || l.MillisWidth > MaxWidth {
		return fmt.Errorf("%w: millisecond width %d", ErrWidth, l.MillisWidth)
	}
	return nil
}

// Valid reports whether every digit of the zero-padded rendering of t is in
// digits and no digit occurs twice. Component values must fit their widths.
func Valid(t Tuple, digits DigitSet, l Layout) bool {
	var seen DigitSet
	return takeDigits(t.Hour, l.HourWidth, digits, &seen) &&
		takeDigits(t.Minute, ClockWidth, digits, &seen) &&
		takeDigits(t.Second, ClockWidth, digits, &seen) &&
		takeDigits(t.Millis, l.MillisWidth, digits, &seen)
}

// takeDigits walks the width low-order digits of v, padding zeros included.
func takeDigits(v, width int, digits DigitSet, seen *DigitSet) bool {
	if v < 0 {
		return false
	}
	for i := 0; i < width; i++ {
		bit := DigitSet(1) << (v % 10)
		if digits&bit == 0 || *seen&bit != 0 {
			return false
		}
		*seen |= bit
		v /= 10
	}
	return true
}

// Render returns the concatenated zero-padded digit sequence of t.
func Render(t Tuple, l Layout) string {
	return fmt.Sprintf("%0*d%02d%02d%0*d", l.HourWidth, t.Hour, t.Minute, t.Second, l.MillisWidth, t.Millis)
}

// Format returns t as h:mm:ss.SSS using the layout widths.
func Format(t Tuple, l Layout) string {
	return fmt.Sprintf("%0*d:%02d:%02d.%0*d", l.HourWidth, t.Hour, t.Minute, t.Second, l.MillisWidth, t.Millis)
}

func fits(v, width int) bool {
	limit := 1
	for i := 0; i < width; i++ {
		limit *= 10
	}
	return v < limit
}
