package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/timeodds/internal/config"
	"github.com/verte-zerg/timeodds/internal/model"
	"github.com/verte-zerg/timeodds/internal/timecount"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--progress=false", "--log-level=off"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCountCommand(t *testing.T) {
	out, err := execute(t, "--hours", "1", "--minutes", "23", "--seconds", "45", "--millis", "0-999")
	require.NoError(t, err)
	require.Contains(t, out, "Total valid times using digits [1 2 3 4 5 6 7 8] at most once: 6\n")
	require.Contains(t, out, "Total possible times within the specified ranges: 1,000\n")
	require.Contains(t, out, "Probability: 0.600000%\n")
}

func TestCountCommandByHour(t *testing.T) {
	out, err := execute(t, "--hours", "1-2", "--minutes", "23", "--seconds", "45", "--digits", "0-9", "--sequential", "--by-hour")
	require.NoError(t, err)
	require.Contains(t, out, "Per-Hour")
	require.Contains(t, out, "Valid by hour:")
}

func TestCountCommandRejectsOverflow(t *testing.T) {
	_, err := execute(t, "--hours", "0-10")
	require.Error(t, err)
	require.True(t, errors.Is(err, timecount.ErrOverflow))
}

func TestListCommand(t *testing.T) {
	out, err := execute(t, "list", "--hours", "1", "--minutes", "23", "--seconds", "45", "--limit", "2")
	require.NoError(t, err)
	require.Equal(t, "1:23:45.678\n1:23:45.687\n", out)
}

func TestSpanCommand(t *testing.T) {
	out, err := execute(t, "span", "--from", "1h23m", "--to", "1h24m", "--digits", "0-9", "--workers", "2")
	require.NoError(t, err)
	require.Contains(t, out, ": 1,080\n")
	require.Contains(t, out, ": 60,000\n")
}

func TestSpanCommandDefaultsToAllDigits(t *testing.T) {
	out, err := execute(t, "span", "--from", "1h23m", "--to", "1h24m")
	require.NoError(t, err)
	require.Contains(t, out, ": 1,080\n")

	out, err = execute(t, "span", "--from", "1h23m", "--to", "1h24m", "--digits", "1-8")
	require.NoError(t, err)
	require.NotContains(t, out, ": 1,080\n")
}

func TestSampleCommand(t *testing.T) {
	out, err := execute(t, "sample", "--n", "1000", "--seed", "3", "--digits", "none")
	require.NoError(t, err)
	require.Contains(t, out, "Samples drawn: 1,000\n")
	require.Contains(t, out, "Probability: 0.000000%\n")

	_, err = execute(t, "sample", "--n", "0")
	require.Error(t, err)
}

func TestConfigFileFeedsFlags(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	path := config.DefaultConfigPath()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("[count]\nhours = \"1\"\nminutes = \"23\"\nseconds = \"45\"\ndigits = \"0-9\"\n"), 0o644))

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--progress=false", "--log-level=off", "--digits", "1-8"})
	require.NoError(t, cmd.Execute())
	require.Equal(t, "1", countCfg.Hours)
	require.Equal(t, "1-8", countCfg.Digits)
	require.Contains(t, out.String(), "at most once: 6\n")
}

func TestConfigCommandIgnoresBrokenFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("EDITOR", "true")
	path := config.DefaultConfigPath()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("[count]\nhourz = \"1\"\n"), 0o644))

	run := func(args ...string) error {
		cmd := newRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(args)
		return cmd.Execute()
	}
	require.ErrorContains(t, run("--progress=false", "--log-level=off"), "failed to load config")
	require.NoError(t, run("config"))
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	var cfg config.FileConfig
	_, err := toml.Decode(defaultConfigTemplate(), &cfg)
	require.NoError(t, err)
	require.Nil(t, cfg.Count.Hours)

	uncommented := strings.ReplaceAll(defaultConfigTemplate(), "# hours", "hours")
	_, err = toml.Decode(uncommented, &cfg)
	require.NoError(t, err)
	require.NotNil(t, cfg.Count.Hours)
	require.Equal(t, defaultHours, *cfg.Count.Hours)
}

func TestValidateConfig(t *testing.T) {
	valid := model.Config{BatchSize: 1, HourWidth: 1, MillisWidth: 3}
	require.NoError(t, validateConfig(valid))

	bad := valid
	bad.Workers = -1
	require.Error(t, validateConfig(bad))
	bad = valid
	bad.BatchSize = 0
	require.Error(t, validateConfig(bad))
	bad = valid
	bad.MillisWidth = 10
	require.Error(t, validateConfig(bad))
}
