// Package timecount counts time values whose zero-padded digits are unique.
package timecount

import "errors"

// Configuration errors returned by Validate. They are wrapped with details, use errors.Is.
var (
	ErrEmptyRange = errors.New("range is empty")
	ErrNegative   = errors.New("value is negative")
	ErrWidth      = errors.New("width out of bounds")
	ErrOverflow   = errors.New("value does not fit width")
	ErrDigit      = errors.New("digit out of bounds")
)
