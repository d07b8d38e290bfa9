package timecount

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDigitSet(t *testing.T) {
	tests := []struct {
		in   string
		want []int
	}{
		{"12345678", []int{1, 2, 3, 4, 5, 6, 7, 8}},
		{"1-8", []int{1, 2, 3, 4, 5, 6, 7, 8}},
		{"0,2,4", []int{0, 2, 4}},
		{"0-3,7", []int{0, 1, 2, 3, 7}},
		{"9 , 9", []int{9}},
		{"none", []int{}},
	}
	for _, tc := range tests {
		set, err := ParseDigitSet(tc.in)
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, set.Digits(), tc.in)
	}
}

func TestParseDigitSetErrors(t *testing.T) {
	for _, in := range []string{"", "a", "3-1", "1-x", "0-10"} {
		_, err := ParseDigitSet(in)
		require.Error(t, err, in)
	}
}

func TestNewDigitSet(t *testing.T) {
	set, err := NewDigitSet(0, 9, 9)
	require.NoError(t, err)
	require.Equal(t, 2, set.Len())
	require.True(t, set.Has(0))
	require.True(t, set.Has(9))
	require.False(t, set.Has(5))
	require.False(t, set.Has(10))

	_, err = NewDigitSet(10)
	require.ErrorIs(t, err, ErrDigit)
}

func TestDigitSetString(t *testing.T) {
	require.Equal(t, "[1 2 3 4 5 6 7 8]", DigitRange(1, 8).String())
	require.Equal(t, "[]", DigitSet(0).String())
	require.Equal(t, 10, AllDigits().Len())
}

func TestParseRange(t *testing.T) {
	r, err := ParseRange("1-9")
	require.NoError(t, err)
	require.Equal(t, Inclusive(1, 9), r)
	require.Equal(t, 9, r.Len())
	require.Equal(t, "1-9", r.String())

	r, err = ParseRange(" 7 ")
	require.NoError(t, err)
	require.Equal(t, Single(7), r)
	require.Equal(t, "7", r.String())

	for _, in := range []string{"", "x", "9-1", "1-", "-"} {
		_, err := ParseRange(in)
		require.Error(t, err, in)
	}
	require.Equal(t, 0, Range{Start: 5, Stop: 5}.Len())
	require.Equal(t, "empty", Range{Start: 5, Stop: 2}.String())
}

func TestParseRangeRejectsMaxInt(t *testing.T) {
	_, err := ParseRange("0-9223372036854775807")
	require.ErrorIs(t, err, ErrOverflow)
	_, err = ParseRange("9223372036854775807")
	require.ErrorIs(t, err, ErrOverflow)
}
