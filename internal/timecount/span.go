package timecount

import (
	"fmt"
	"iter"
	"time"
)

const (
	msPerSecond = 1000
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
)

// Span walks every millisecond offset in [From, To) and splits it into
// hours, minutes, seconds and milliseconds.
type Span struct {
	From   time.Duration
	To     time.Duration
	Digits DigitSet
	Layout Layout
}

func (s Span) fromMs() int64 {
	return s.From.Milliseconds()
}

// Len returns the number of whole milliseconds in the span.
func (s Span) Len() int64 {
	n := s.To.Milliseconds() - s.fromMs()
	if n < 0 {
		return 0
	}
	return n
}

// Validate rejects empty or negative spans and hours wider than the hour width.
// Milliseconds always reach three digits, so the millisecond width must be at least 3.
func (s Span) Validate() error {
	if err := s.Layout.Validate(); err != nil {
		return err
	}
	if s.Digits&^allDigits != 0 {
		return fmt.Errorf("%w: set %016b", ErrDigit, uint16(s.Digits))
	}
	if s.From < 0 {
		return fmt.Errorf("%w: span start %s", ErrNegative, s.From)
	}
	if s.Len() == 0 {
		return fmt.Errorf("%w: span [%s, %s)", ErrEmptyRange, s.From, s.To)
	}
	if lastHour := int((s.To.Milliseconds() - 1) / msPerHour); !fits(lastHour, s.Layout.HourWidth) {
		return fmt.Errorf("%w: hour %d needs more than %d digits", ErrOverflow, lastHour, s.Layout.HourWidth)
	}
	if !fits(msPerSecond-1, s.Layout.MillisWidth) {
		return fmt.Errorf("%w: milliseconds need at least 3 digits, width is %d", ErrOverflow, s.Layout.MillisWidth)
	}
	return nil
}

// At returns the tuple for the i-th millisecond after From.
func (s Span) At(i int64) Tuple {
	return splitMillis(s.fromMs() + i)
}

// Slice yields tuples [lo, hi) of the span.
func (s Span) Slice(lo, hi int64) iter.Seq[Tuple] {
	return func(yield func(Tuple) bool) {
		for i := max(lo, 0); i < min(hi, s.Len()); i++ {
			if !yield(s.At(i)) {
				return
			}
		}
	}
}

func splitMillis(ms int64) Tuple {
	return Tuple{
		Hour:   int(ms / msPerHour),
		Minute: int(ms % msPerHour / msPerMinute),
		Second: int(ms % msPerMinute / msPerSecond),
		Millis: int(ms % msPerSecond),
	}
}
