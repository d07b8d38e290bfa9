package timecount

import (
	"context"
	"math/rand"
	"time"
)

const sampleCheckEvery = 1 << 12

// Sample draws n uniform tuples from d and reports how many are valid.
// The Result total is n, so Valid/Total estimates the probability over d.
// A nil rnd is seeded with the current time.
func Sample(ctx context.Context, d Domain, digits DigitSet, l Layout, n int64, rnd *rand.Rand, progress Progress) (Result, error) {
	res := Result{Total: n}
	size := d.Len()
	if n <= 0 || size == 0 {
		return Result{}, nil
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	for i := int64(0); i < n; i++ {
		if i%sampleCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
			if i > 0 {
				advance(progress, sampleCheckEvery)
			}
		}
		if Valid(d.At(rnd.Int63n(size)), digits, l) {
			res.Valid++
		}
	}
	advance(progress, n-(n-1)/sampleCheckEvery*sampleCheckEvery)
	return res, nil
}

// Sample validates s and estimates its probability from n random draws.
func (s Span) Sample(ctx context.Context, n int64, rnd *rand.Rand, progress Progress) (Result, error) {
	if err := s.Validate(); err != nil {
		return Result{}, err
	}
	return Sample(ctx, s, s.Digits, s.Layout, n, rnd, progress)
}

// Sample validates p and estimates its probability from n random draws.
func (p Params) Sample(ctx context.Context, n int64, rnd *rand.Rand, progress Progress) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	return Sample(ctx, p, p.Digits, p.Layout, n, rnd, progress)
}
