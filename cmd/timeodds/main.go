// Package main provides the CLI entrypoint for timeodds.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/timeodds/internal/config"
	"github.com/verte-zerg/timeodds/internal/logging"
	"github.com/verte-zerg/timeodds/internal/model"
	"github.com/verte-zerg/timeodds/internal/progressui"
	"github.com/verte-zerg/timeodds/internal/report"
	"github.com/verte-zerg/timeodds/internal/timecount"
)

const (
	defaultHours       = "1-9"
	defaultMinutes     = "0-59"
	defaultSeconds     = "0-59"
	defaultMillis      = "0-999"
	defaultDigits      = "1-8"
	defaultSpanDigits  = "0-9"
	defaultHourWidth   = 1
	defaultMillisWidth = 3
	defaultLogLevel    = "info"
	defaultSpanTo      = 2 * time.Hour
	defaultSamples     = 1000000
)

var (
	countCfg = model.Config{}
	spanCfg  = model.SpanConfig{}

	listLimit int
	// digitsSet reports whether --digits or the config file chose the digit set.
	digitsSet bool

	logger = zerolog.Nop()
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "timeodds",
		Short:             "Count times whose digits are all distinct",
		SilenceUsage:      true,
		SilenceErrors:     false,
		PersistentPreRunE: loadConfig,
		RunE:              runCountCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&countCfg.Hours, "hours", defaultHours, "hour range, inclusive (e.g. 1-9)")
	flags.StringVar(&countCfg.Minutes, "minutes", defaultMinutes, "minute range, inclusive")
	flags.StringVar(&countCfg.Seconds, "seconds", defaultSeconds, "second range, inclusive")
	flags.StringVar(&countCfg.Millis, "millis", defaultMillis, "millisecond range, inclusive")
	flags.StringVar(&countCfg.Digits, "digits", defaultDigits, "allowed digits (e.g. 12345678, 1-8, 0,2,4 or none; span and sample default to 0-9)")
	flags.IntVar(&countCfg.HourWidth, "hour-width", defaultHourWidth, "zero-padded width of the hour")
	flags.IntVar(&countCfg.MillisWidth, "ms-width", defaultMillisWidth, "zero-padded width of the millisecond")
	flags.IntVar(&countCfg.Workers, "workers", 0, "worker count (default: number of CPUs)")
	flags.Int64Var(&countCfg.BatchSize, "batch-size", timecount.DefaultBatchSize, "tuples per worker batch")
	flags.BoolVar(&countCfg.Sequential, "sequential", false, "count on a single goroutine")
	flags.BoolVar(&countCfg.Progress, "progress", true, "show a progress bar when stderr is a terminal")
	flags.StringVar(&countCfg.LogLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error, off)")
	rootCmd.Flags().BoolVar(&countCfg.ByHour, "by-hour", false, "also print a per-hour breakdown")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newSpanCmd())
	rootCmd.AddCommand(newSampleCmd())

	return rootCmd
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	c := fileCfg.Count
	applyConfig(cmd, "hours", &countCfg.Hours, c.Hours)
	applyConfig(cmd, "minutes", &countCfg.Minutes, c.Minutes)
	applyConfig(cmd, "seconds", &countCfg.Seconds, c.Seconds)
	applyConfig(cmd, "millis", &countCfg.Millis, c.Millis)
	applyConfig(cmd, "digits", &countCfg.Digits, c.Digits)
	applyConfig(cmd, "hour-width", &countCfg.HourWidth, c.HourWidth)
	applyConfig(cmd, "ms-width", &countCfg.MillisWidth, c.MillisWidth)
	applyConfig(cmd, "workers", &countCfg.Workers, c.Workers)
	applyConfig(cmd, "batch-size", &countCfg.BatchSize, c.BatchSize)
	applyConfig(cmd, "sequential", &countCfg.Sequential, c.Sequential)
	applyConfig(cmd, "progress", &countCfg.Progress, c.Progress)
	applyConfig(cmd, "log-level", &countCfg.LogLevel, fileCfg.Log.Level)
	digitsSet = cmd.Flags().Changed("digits") || c.Digits != nil

	logger = logging.Stderr(countCfg.LogLevel)
	return validateConfig(countCfg)
}

func runCountCmd(cmd *cobra.Command, _ []string) error {
	p, err := buildParams(countCfg)
	if err != nil {
		return err
	}
	opts := countOptions(countCfg)
	logWorkers(opts)

	start := time.Now()
	var res timecount.Result
	err = runWithProgress(cmd.Context(), "Counting valid times", p.Len(), func(ctx context.Context, progress timecount.Progress) error {
		o := opts
		o.Progress = progress
		var err error
		res, err = p.Count(ctx, o)
		return err
	})
	if err != nil {
		return countError(err)
	}
	summary := model.Summary{
		Mode:    "count",
		Digits:  p.Digits.String(),
		Valid:   res.Valid,
		Total:   res.Total,
		Workers: effectiveWorkers(opts),
		Elapsed: time.Since(start),
	}
	logSummary(summary)

	out := cmd.OutOrStdout()
	if err := report.RenderResult(out, summary); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if !countCfg.ByHour {
		return nil
	}
	rows, err := timecount.ByHour(cmd.Context(), p, opts)
	if err != nil {
		return countError(err)
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := report.RenderByHour(out, rows); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print every valid time in the ranges",
		Args:  cobra.NoArgs,
		RunE:  runListCmd,
	}
	cmd.Flags().IntVar(&listLimit, "limit", 0, "stop after N times (0 prints all)")
	return cmd
}

func runListCmd(cmd *cobra.Command, _ []string) error {
	if listLimit < 0 {
		return fmt.Errorf("--limit must be >= 0")
	}
	p, err := buildParams(countCfg)
	if err != nil {
		return err
	}
	seq, err := p.ValidTuples()
	if err != nil {
		return err
	}
	w := bufio.NewWriter(cmd.OutOrStdout())
	printed := 0
	for t := range seq {
		if err := cmd.Context().Err(); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, timecount.Format(t, p.Layout)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		printed++
		if listLimit > 0 && printed >= listLimit {
			break
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	logger.Debug().Int("printed", printed).Msg("list finished")
	return nil
}

func newSpanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "span",
		Short: "Count valid times over every millisecond of a duration span",
		Args:  cobra.NoArgs,
		RunE:  runSpanCmd,
	}
	addSpanFlags(cmd)
	return cmd
}

// spanCountConfig is countCfg with the digit set widened to 0-9 unless the
// user picked one.
func spanCountConfig() model.Config {
	cfg := countCfg
	if !digitsSet {
		cfg.Digits = defaultSpanDigits
	}
	return cfg
}

func runSpanCmd(cmd *cobra.Command, _ []string) error {
	s, err := buildSpan(spanCountConfig(), spanCfg)
	if err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return countError(err)
	}
	opts := countOptions(countCfg)
	logWorkers(opts)

	start := time.Now()
	var res timecount.Result
	err = runWithProgress(cmd.Context(), "Walking span", s.Len(), func(ctx context.Context, progress timecount.Progress) error {
		o := opts
		o.Progress = progress
		var err error
		res, err = s.Count(ctx, o)
		return err
	})
	if err != nil {
		return countError(err)
	}
	summary := model.Summary{
		Mode:    "span",
		Digits:  s.Digits.String(),
		Valid:   res.Valid,
		Total:   res.Total,
		Workers: effectiveWorkers(opts),
		Elapsed: time.Since(start),
	}
	logSummary(summary)
	if err := report.RenderResult(cmd.OutOrStdout(), summary); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newSampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Estimate the probability by drawing random times from a span",
		Args:  cobra.NoArgs,
		RunE:  runSampleCmd,
	}
	addSpanFlags(cmd)
	cmd.Flags().Int64Var(&spanCfg.Samples, "n", defaultSamples, "number of random draws")
	cmd.Flags().Int64Var(&spanCfg.Seed, "seed", 0, "random seed (default: current time)")
	return cmd
}

func runSampleCmd(cmd *cobra.Command, _ []string) error {
	if spanCfg.Samples <= 0 {
		return fmt.Errorf("--n must be > 0")
	}
	s, err := buildSpan(spanCountConfig(), spanCfg)
	if err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return countError(err)
	}
	seed := spanCfg.Seed
	if !cmd.Flags().Changed("seed") {
		seed = time.Now().UnixNano()
	}
	logger.Debug().Int64("seed", seed).Msg("sampling")
	rnd := rand.New(rand.NewSource(seed))

	start := time.Now()
	var res timecount.Result
	err = runWithProgress(cmd.Context(), "Sampling", spanCfg.Samples, func(ctx context.Context, progress timecount.Progress) error {
		var err error
		res, err = s.Sample(ctx, spanCfg.Samples, rnd, progress)
		return err
	})
	if err != nil {
		return countError(err)
	}
	summary := model.Summary{
		Mode:     "sample",
		Digits:   s.Digits.String(),
		Valid:    res.Valid,
		Total:    res.Total,
		Workers:  1,
		Elapsed:  time.Since(start),
		Estimate: true,
	}
	logSummary(summary)
	if err := report.RenderResult(cmd.OutOrStdout(), summary); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func addSpanFlags(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&spanCfg.From, "from", 0, "span start, inclusive (e.g. 1h)")
	cmd.Flags().DurationVar(&spanCfg.To, "to", defaultSpanTo, "span end, exclusive (e.g. 2h)")
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		// The editor must open even when the current file does not parse.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE:              runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		logger.Info().Str("path", path).Msg("wrote default config")
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// runWithProgress runs fn, showing a progress bar when enabled and stderr is a terminal.
func runWithProgress(ctx context.Context, title string, total int64, fn func(ctx context.Context, progress timecount.Progress) error) error {
	if !countCfg.Progress || !logging.IsTerminal(os.Stderr) {
		return fn(ctx, nil)
	}
	return progressui.Run(ctx, title, total, func(ctx context.Context, tracker *progressui.Tracker) error {
		return fn(ctx, tracker)
	})
}

func buildParams(cfg model.Config) (timecount.Params, error) {
	var p timecount.Params
	ranges := []struct {
		flag   string
		value  string
		target *timecount.Range
	}{
		{"--hours", cfg.Hours, &p.Hours},
		{"--minutes", cfg.Minutes, &p.Minutes},
		{"--seconds", cfg.Seconds, &p.Seconds},
		{"--millis", cfg.Millis, &p.Millis},
	}
	for _, r := range ranges {
		parsed, err := timecount.ParseRange(r.value)
		if err != nil {
			return timecount.Params{}, fmt.Errorf("invalid %s value: %w", r.flag, err)
		}
		*r.target = parsed
	}
	digits, err := timecount.ParseDigitSet(cfg.Digits)
	if err != nil {
		return timecount.Params{}, fmt.Errorf("invalid --digits value: %w", err)
	}
	p.Digits = digits
	p.Layout = timecount.Layout{HourWidth: cfg.HourWidth, MillisWidth: cfg.MillisWidth}
	if err := p.Validate(); err != nil {
		return timecount.Params{}, countError(err)
	}
	return p, nil
}

func buildSpan(cfg model.Config, sc model.SpanConfig) (timecount.Span, error) {
	digits, err := timecount.ParseDigitSet(cfg.Digits)
	if err != nil {
		return timecount.Span{}, fmt.Errorf("invalid --digits value: %w", err)
	}
	return timecount.Span{
		From:   sc.From,
		To:     sc.To,
		Digits: digits,
		Layout: timecount.Layout{HourWidth: cfg.HourWidth, MillisWidth: cfg.MillisWidth},
	}, nil
}

func countOptions(cfg model.Config) timecount.Options {
	return timecount.Options{
		Workers:    cfg.Workers,
		BatchSize:  cfg.BatchSize,
		Sequential: cfg.Sequential,
	}
}

func effectiveWorkers(opts timecount.Options) int {
	if opts.Sequential {
		return 1
	}
	if opts.Workers > 0 {
		return opts.Workers
	}
	return runtime.NumCPU()
}

// countError adds a hint to configuration errors and passes others through.
func countError(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("interrupted")
	case errors.Is(err, timecount.ErrOverflow):
		return fmt.Errorf("%w (widen --hour-width/--ms-width or shrink the range)", err)
	case errors.Is(err, timecount.ErrEmptyRange), errors.Is(err, timecount.ErrNegative),
		errors.Is(err, timecount.ErrWidth), errors.Is(err, timecount.ErrDigit):
		return fmt.Errorf("invalid configuration: %w", err)
	default:
		return err
	}
}

func logWorkers(opts timecount.Options) {
	logger.Info().
		Int("workers", effectiveWorkers(opts)).
		Int64("batch_size", opts.BatchSize).
		Bool("sequential", opts.Sequential).
		Msg("starting count")
}

func logSummary(s model.Summary) {
	logger.Info().
		Str("mode", s.Mode).
		Int64("valid", s.Valid).
		Int64("total", s.Total).
		Int("workers", s.Workers).
		Dur("elapsed", s.Elapsed).
		Msg("finished")
}

func applyConfig[T any](cmd *cobra.Command, name string, target, value *T) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# timeodds configuration
# Uncomment a value to enable it. CLI flags override config values.

[count]
# hours = %q          # Hour range, inclusive
# minutes = %q       # Minute range, inclusive
# seconds = %q       # Second range, inclusive
# millis = %q       # Millisecond range, inclusive
# digits = %q         # Allowed digits
# hour-width = %d          # Zero-padded hour width
# ms-width = %d            # Zero-padded millisecond width
# workers = 0             # Worker count (0 = number of CPUs)
# batch-size = %d      # Tuples per worker batch
# sequential = false      # Count on a single goroutine
# progress = true         # Progress bar on terminals

[log]
# level = %q          # debug, info, warn, error, off
`,
		defaultHours,
		defaultMinutes,
		defaultSeconds,
		defaultMillis,
		defaultDigits,
		defaultHourWidth,
		defaultMillisWidth,
		timecount.DefaultBatchSize,
		defaultLogLevel,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Workers < 0 {
		return fmt.Errorf("--workers must be >= 0")
	}
	if cfg.BatchSize <= 0 {
		return fmt.Errorf("--batch-size must be > 0")
	}
	if cfg.HourWidth < 1 || cfg.HourWidth > timecount.MaxWidth {
		return fmt.Errorf("--hour-width must be between 1 and %d", timecount.MaxWidth)
	}
	if cfg.MillisWidth < 1 || cfg.MillisWidth > timecount.MaxWidth {
		return fmt.Errorf("--ms-width must be between 1 and %d", timecount.MaxWidth)
	}
	return nil
}
