package main

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"testing"

	"github.com/seedtabs/qrcoder/config"
	"github.com/seedtabs/qrcoder/constant"
	"github.com/seedtabs/qrcoder/domain/label"
	appLogger "github.com/seedtabs/qrcoder/infrastructure/logger"
	"github.com/seedtabs/qrcoder/infrastructure/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("LEDGER_PATH", "")
	t.Setenv("LOG_LEVEL", "INFO")
	t.Setenv("FONT_PATH", "")
	t.Setenv("BASE_URL", "http://app.seedtabs.com")
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestRun_Batch(t *testing.T) {
	isolateEnv(t)
	dir := filepath.Join(t.TempDir(), "labels")

	err := run([]string{"--type", "sample", "--start", "100", "--count", "5", "--dir", dir}, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Equal(t, []string{"100.png", "101.png", "102.png", "103.png", "104.png"}, listDir(t, dir))

	f, err := os.Open(filepath.Join(dir, "102.png"))
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 111, cfg.Width)
	assert.Equal(t, 125, cfg.Height)
}

func TestRun_BatchUnlabeled(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()

	err := run([]string{"--type", "normal", "--start", "1", "--count", "2", "--dir", dir, "--unlabeled"}, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Equal(t, []string{"1.jpg", "2.jpg"}, listDir(t, dir))
}

func TestRun_ZeroCount(t *testing.T) {
	isolateEnv(t)
	dir := filepath.Join(t.TempDir(), "empty")

	err := run([]string{"--type", "sample", "--start", "1", "--count", "0", "--dir", dir}, &bytes.Buffer{})

	require.NoError(t, err)
	assert.DirExists(t, dir)
	assert.Empty(t, listDir(t, dir))
}

func TestRun_NonEmptyDirectory(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep"), 0o644))

	err := run([]string{"--type", "sample", "--start", "1", "--count", "3", "--dir", dir}, &bytes.Buffer{})

	require.Error(t, err)
	assert.ErrorIs(t, err, output.ErrDirNotEmpty)
	assert.Equal(t, exitOutputDir, exitCode(err))
	assert.Equal(t, []string{"notes.txt"}, listDir(t, dir))
}

func TestRejectOutputDir_LogsAtDebugOnly(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), nil, 0o644))
	_, prepareErr := output.Prepare(dir)
	require.Error(t, prepareErr)

	err := rejectOutputDir(appLogger.NewWithCore(core), dir, prepareErr)

	assert.Equal(t, exitOutputDir, exitCode(err))
	assert.ErrorIs(t, err, output.ErrDirNotEmpty)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, constant.ErrCodeDirNotEmpty, entries[0].ContextMap()[constant.LogErrorCodeKey])
	assert.Empty(t, logs.FilterLevelExact(zapcore.ErrorLevel).All())
}

func TestRun_DirIsFile(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "labels")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	err := run([]string{"--type", "sample", "--start", "1", "--count", "1", "--dir", path}, &bytes.Buffer{})

	assert.Equal(t, exitOutputDir, exitCode(err))
}

func TestRun_UsageErrors(t *testing.T) {
	isolateEnv(t)
	dir := filepath.Join(t.TempDir(), "never")

	tests := [][]string{
		{},
		{"--type", "sample", "--count", "1", "--dir", dir},
		{"--type", "bulk", "--start", "1", "--count", "1", "--dir", dir},
		{"--type", "sample", "--start", "1", "--count", "-2", "--dir", dir},
		{"--type", "sample", "--start", "1", "--count", "1", "--dir", dir, "--font", filepath.Join(dir, "missing.ttf")},
		{"--type", "sample", "--start", strconv.Itoa(math.MaxInt - 1), "--count", "5", "--dir", dir},
		{"serve", "--port", "0"},
	}

	for i, args := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			usage := &bytes.Buffer{}

			err := run(args, usage)

			require.Error(t, err)
			assert.Equal(t, exitUsage, exitCode(err))
			assert.NoDirExists(t, dir)
		})
	}
}

func TestRun_Help(t *testing.T) {
	isolateEnv(t)
	usage := &bytes.Buffer{}

	err := run([]string{"--help"}, usage)

	assert.NoError(t, err)
	assert.Contains(t, usage.String(), "--count")
}

func TestRun_LedgerInsideOutputDirectory(t *testing.T) {
	isolateEnv(t)
	dir := filepath.Join(t.TempDir(), "labels")

	err := run([]string{"--type", "sample", "--start", "1", "--count", "1", "--dir", dir, "--ledger", filepath.Join(dir, "ledger.db")}, &bytes.Buffer{})

	assert.ErrorIs(t, err, output.ErrLedgerInOutputDir)
	assert.Equal(t, exitUsage, exitCode(err))
	assert.NoDirExists(t, dir)
}

func TestRun_WithLedger(t *testing.T) {
	isolateEnv(t)
	root := t.TempDir()
	ledger := filepath.Join(root, "ledger.db")

	for i, dir := range []string{"first", "second"} {
		err := run([]string{
			"--type", "sample", "--start", strconv.Itoa(10 + i), "--count", "2",
			"--dir", filepath.Join(root, dir), "--ledger", ledger,
		}, &bytes.Buffer{})
		require.NoError(t, err)
	}

	assert.FileExists(t, ledger)
	assert.Equal(t, []string{"11.png", "12.png"}, listDir(t, filepath.Join(root, "second")))
}

func TestRun_LedgerOpenFailure(t *testing.T) {
	isolateEnv(t)
	root := t.TempDir()

	err := run([]string{
		"--type", "sample", "--start", "1", "--count", "1",
		"--dir", filepath.Join(root, "out"), "--ledger", filepath.Join(root, "missing", "ledger.db"),
	}, &bytes.Buffer{})

	assert.Equal(t, exitLedger, exitCode(err))
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("%w: missing", config.ErrUsage), exitUsage},
		{label.ErrInvalidPackageType, exitUsage},
		{label.ErrInvalidCount, exitUsage},
		{label.ErrInvalidRange, exitUsage},
		{output.ErrLedgerInOutputDir, exitUsage},
		{fmt.Errorf("prepare: %w", output.ErrNotDirectory), exitOutputDir},
		{output.ErrDirNotEmpty, exitOutputDir},
		{fmt.Errorf("code 7: %w", label.ErrCapacityExceeded), exitCapacity},
		{fmt.Errorf("code 7: %w", label.ErrWriteFailed), exitWrite},
		{withExit(exitLedger, errors.New("locked")), exitLedger},
		{withExit(exitUsage, output.ErrDirNotEmpty), exitUsage},
		{errors.New("boom"), exitUnexpected},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.code, exitCode(tt.err), tt.err.Error())
	}
	assert.NoError(t, withExit(exitUsage, nil))
}
