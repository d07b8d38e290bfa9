package timecount

import (
	"fmt"
	"iter"
	"math"
	"math/bits"
)

// Domain is a finite set of tuples addressable by index.
type Domain interface {
	// Len returns the number of tuples.
	Len() int64
	// At returns the tuple at index i, 0 <= i < Len().
	At(i int64) Tuple
	// Slice yields the tuples with indexes in [lo, hi) in index order.
	Slice(lo, hi int64) iter.Seq[Tuple]
}

// Params is the Cartesian product of four component ranges together with
// the digit set and layout used to judge each tuple.
type Params struct {
	Hours   Range
	Minutes Range
	Seconds Range
	Millis  Range
	Digits  DigitSet
	Layout  Layout
}

// DefaultParams covers 1:00:00.000 through 9:59:59.999 with digits 1 to 8.
func DefaultParams() Params {
	return Params{
		Hours:   Inclusive(1, 9),
		Minutes: Inclusive(0, 59),
		Seconds: Inclusive(0, 59),
		Millis:  Inclusive(0, 999),
		Digits:  DigitRange(1, 8),
		Layout:  DefaultLayout(),
	}
}

// Validate rejects empty ranges, negative values, bad widths and values that
// would not fit their zero-padded width.
func (p Params) Validate() error {
	if err := p.Layout.Validate(); err != nil {
		return err
	}
	if p.Digits&^allDigits != 0 {
		return fmt.Errorf("%w: set %016b", ErrDigit, uint16(p.Digits))
	}
	components := []struct {
		name  string
		r     Range
		width int
	}{
		{"hour", p.Hours, p.Layout.HourWidth},
		{"minute", p.Minutes, ClockWidth},
		{"second", p.Seconds, ClockWidth},
		{"millisecond", p.Millis, p.Layout.MillisWidth},
	}
	for _, c := range components {
		if c.r.Len() == 0 {
			return fmt.Errorf("%w: %s range [%d, %d)", ErrEmptyRange, c.name, c.r.Start, c.r.Stop)
		}
		if c.r.Start < 0 {
			return fmt.Errorf("%w: %s %d", ErrNegative, c.name, c.r.Start)
		}
		if !fits(c.r.Last(), c.width) {
			return fmt.Errorf("%w: %s %d needs more than %d digits", ErrOverflow, c.name, c.r.Last(), c.width)
		}
	}
	if _, ok := productLen(p.Hours, p.Minutes, p.Seconds, p.Millis); !ok {
		return fmt.Errorf("%w: total count of %s x %s x %s x %s exceeds int64", ErrOverflow, p.Hours, p.Minutes, p.Seconds, p.Millis)
	}
	return nil
}

// productLen multiplies the range lengths. ok is false when the product does not fit an int64.
func productLen(ranges ...Range) (n int64, ok bool) {
	var acc uint64 = 1
	for _, r := range ranges {
		hi, lo := bits.Mul64(acc, uint64(r.Len()))
		if hi != 0 || lo > math.MaxInt64 {
			return 0, false
		}
		acc = lo
	}
	return int64(acc), true
}

// Len returns the product of the four range lengths.
func (p Params) Len() int64 {
	return int64(p.Hours.Len()) * int64(p.Minutes.Len()) * int64(p.Seconds.Len()) * int64(p.Millis.Len())
}

// At decodes a row-major index, hour outermost and millisecond innermost.
func (p Params) At(i int64) Tuple {
	var t Tuple
	n := int64(p.Millis.Len())
	t.Millis = p.Millis.Start + int(i%n)
	i /= n
	n = int64(p.Seconds.Len())
	t.Second = p.Seconds.Start + int(i%n)
	i /= n
	n = int64(p.Minutes.Len())
	t.Minute = p.Minutes.Start + int(i%n)
	i /= n
	t.Hour = p.Hours.Start + int(i)
	return t
}

// Slice yields tuples [lo, hi) by stepping an odometer instead of decoding every index.
func (p Params) Slice(lo, hi int64) iter.Seq[Tuple] {
	return func(yield func(Tuple) bool) {
		start, end := max(lo, 0), min(hi, p.Len())
		if start >= end {
			return
		}
		t := p.At(start)
		for i := start; i < end; i++ {
			if !yield(t) {
				return
			}
			p.step(&t)
		}
	}
}

// Tuples yields the whole product. Each call starts a fresh sequence.
func (p Params) Tuples() iter.Seq[Tuple] {
	return p.Slice(0, p.Len())
}

func (p Params) step(t *Tuple) {
	t.Millis++
	if t.Millis < p.Millis.Stop {
		return
	}
	t.Millis = p.Millis.Start
	t.Second++
	if t.Second < p.Seconds.Stop {
		return
	}
	t.Second = p.Seconds.Start
	t.Minute++
	if t.Minute < p.Minutes.Stop {
		return
	}
	t.Minute = p.Minutes.Start
	t.Hour++
}

// ValidTuples validates p and returns the sequence of tuples that pass Valid.
func (p Params) ValidTuples() (iter.Seq[Tuple], error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return func(yield func(Tuple) bool) {
		for t := range p.Tuples() {
			if Valid(t, p.Digits, p.Layout) && !yield(t) {
				return
			}
		}
	}, nil
}
