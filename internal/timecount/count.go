package timecount

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultBatchSize is the number of tuples a worker takes per batch.
const DefaultBatchSize = 1 << 14

// Result holds the number of valid tuples and the size of the domain.
type Result struct {
	Valid int64
	Total int64
}

// Progress observes how many tuples have been evaluated. It must not block.
type Progress interface {
	Add(n int64)
}

// Options selects the counting strategy.
type Options struct {
	// Workers is the pool size; zero or less means runtime.NumCPU().
	Workers int
	// BatchSize is the number of tuples per batch; zero or less means DefaultBatchSize.
	BatchSize int64
	// Sequential counts on the calling goroutine.
	Sequential bool
	// Progress, when set, receives an Add call after every batch.
	Progress Progress
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.NumCPU()
}

func (o Options) batchSize() int64 {
	if o.BatchSize > 0 {
		return o.BatchSize
	}
	return DefaultBatchSize
}

// Count evaluates Valid for every tuple of d. Callers validate d beforehand.
// A cancelled ctx stops the run between batches and returns ctx.Err().
func Count(ctx context.Context, d Domain, digits DigitSet, l Layout, opts Options) (Result, error) {
	res := Result{Total: d.Len()}
	if res.Total == 0 {
		return res, nil
	}
	// Fewer allowed digits than positions leaves nothing to find.
	if digits.Len() < l.Len() {
		advance(opts.Progress, res.Total)
		return res, nil
	}

	size := opts.batchSize()
	batches := (res.Total + size - 1) / size
	workers := int64(opts.workers())
	if workers > batches {
		workers = batches
	}

	var err error
	if opts.Sequential || workers <= 1 {
		res.Valid, err = countSequential(ctx, d, digits, l, size, opts.Progress)
	} else {
		res.Valid, err = countParallel(ctx, d, digits, l, int(workers), size, opts.Progress)
	}
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

// Count validates p and counts its valid tuples.
func (p Params) Count(ctx context.Context, opts Options) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	return Count(ctx, p, p.Digits, p.Layout, opts)
}

// Count validates s and counts its valid tuples.
func (s Span) Count(ctx context.Context, opts Options) (Result, error) {
	if err := s.Validate(); err != nil {
		return Result{}, err
	}
	return Count(ctx, s, s.Digits, s.Layout, opts)
}

// ComputeValidTimes counts the valid times of the product of the four ranges
// using all CPUs. It returns the valid count and the total count.
func ComputeValidTimes(hours, minutes, seconds, millis Range, digits DigitSet, hourWidth, msWidth int) (int64, int64, error) {
	p := Params{
		Hours:   hours,
		Minutes: minutes,
		Seconds: seconds,
		Millis:  millis,
		Digits:  digits,
		Layout:  Layout{HourWidth: hourWidth, MillisWidth: msWidth},
	}
	res, err := p.Count(context.Background(), Options{})
	if err != nil {
		return 0, 0, err
	}
	return res.Valid, res.Total, nil
}

// HourCount is the result restricted to one hour value.
type HourCount struct {
	Hour int
	Result
}

// ByHour counts p once per hour value.
func ByHour(ctx context.Context, p Params, opts Options) ([]HourCount, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	out := make([]HourCount, 0, p.Hours.Len())
	for h := p.Hours.Start; h < p.Hours.Stop; h++ {
		q := p
		q.Hours = Single(h)
		res, err := Count(ctx, q, q.Digits, q.Layout, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, HourCount{Hour: h, Result: res})
	}
	return out, nil
}

type batch struct {
	lo int64
	hi int64
}

func countSequential(ctx context.Context, d Domain, digits DigitSet, l Layout, size int64, progress Progress) (int64, error) {
	var valid int64
	total := d.Len()
	for lo := int64(0); lo < total; lo += size {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		hi := min(lo+size, total)
		valid += countSlice(d, batch{lo: lo, hi: hi}, digits, l)
		advance(progress, hi-lo)
	}
	return valid, nil
}

// countParallel feeds batches through a channel to a fixed pool. Each worker
// sums into its own slot and the slots are added once after Wait.
func countParallel(ctx context.Context, d Domain, digits DigitSet, l Layout, workers int, size int64, progress Progress) (int64, error) {
	total := d.Len()
	queue := make(chan batch, workers)
	partials := make([]int64, workers)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(queue)
		for lo := int64(0); lo < total; lo += size {
			select {
			case queue <- batch{lo: lo, hi: min(lo+size, total)}:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			var local int64
			for b := range queue {
				if err := gctx.Err(); err != nil {
					return err
				}
				local += countSlice(d, b, digits, l)
				advance(progress, b.hi-b.lo)
			}
			partials[w] = local
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	var valid int64
	for _, p := range partials {
		valid += p
	}
	return valid, nil
}

func countSlice(d Domain, b batch, digits DigitSet, l Layout) int64 {
	var n int64
	for t := range d.Slice(b.lo, b.hi) {
		if Valid(t, digits, l) {
			n++
		}
	}
	return n
}

func advance(p Progress, n int64) {
	if p != nil && n > 0 {
		p.Add(n)
	}
}
