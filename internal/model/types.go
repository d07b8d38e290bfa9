// Package model defines shared data structures.
package model

import "time"

// Config defines count settings as given on the command line or in the config file.
type Config struct {
	Hours       string
	Minutes     string
	Seconds     string
	Millis      string
	Digits      string
	HourWidth   int
	MillisWidth int
	Workers     int
	BatchSize   int64
	Sequential  bool
	Progress    bool
	ByHour      bool
	LogLevel    string
}

// SpanConfig defines settings for walking a duration span.
type SpanConfig struct {
	From    time.Duration
	To      time.Duration
	Samples int64
	Seed    int64
}

// Summary describes a finished run for reporting.
type Summary struct {
	Mode     string
	Digits   string
	Valid    int64
	Total    int64
	Workers  int
	Elapsed  time.Duration
	Estimate bool
}
