package output

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/seedtabs/qrcoder/constant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepare_CreatesMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "labels", "batch-1")

	created, err := Prepare(dir)

	require.NoError(t, err)
	assert.True(t, created)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestPrepare_AcceptsEmptyDirectory(t *testing.T) {
	dir := t.TempDir()

	created, err := Prepare(dir)

	require.NoError(t, err)
	assert.False(t, created)
}

func TestPrepare_RejectsNonEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "100.png"), []byte("x"), 0o644))

	created, err := Prepare(dir)

	assert.ErrorIs(t, err, ErrDirNotEmpty)
	assert.Contains(t, err.Error(), dir)
	assert.False(t, created)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestPrepare_RejectsHiddenFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".keep"), nil, 0o644))

	_, err := Prepare(dir)

	assert.ErrorIs(t, err, ErrDirNotEmpty)
}

func TestPrepare_RejectsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := Prepare(path)

	assert.ErrorIs(t, err, ErrNotDirectory)
}

func TestCheckOutside(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "out")

	assert.NoError(t, CheckOutside(dir, ""))
	assert.NoError(t, CheckOutside(dir, filepath.Join(root, "ledger.db")))
	assert.NoError(t, CheckOutside(dir, filepath.Join(root, "out-ledger.db")))
	assert.NoError(t, CheckOutside(dir, filepath.Join(root, "..", "ledger.db")))

	assert.ErrorIs(t, CheckOutside(dir, filepath.Join(dir, "ledger.db")), ErrLedgerInOutputDir)
	assert.ErrorIs(t, CheckOutside(dir, filepath.Join(dir, "nested", "ledger.db")), ErrLedgerInOutputDir)
	assert.ErrorIs(t, CheckOutside(dir, dir), ErrLedgerInOutputDir)
}

func TestErrorCode(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, notDir := Prepare(file)
	assert.Equal(t, constant.ErrCodeNotDir, ErrorCode(notDir))

	_, createErr := Prepare(filepath.Join(file, "child"))
	assert.Error(t, createErr)

	nonEmpty := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(nonEmpty, "a.png"), nil, 0o644))
	_, notEmpty := Prepare(nonEmpty)
	assert.Equal(t, constant.ErrCodeDirNotEmpty, ErrorCode(notEmpty))

	assert.Equal(t, constant.ErrCodeDirCreate, ErrorCode(&fs.PathError{Op: "mkdir", Path: "x", Err: fs.ErrPermission}))
	assert.Equal(t, constant.ErrCodeDirStat, ErrorCode(&fs.PathError{Op: "stat", Path: "x", Err: fs.ErrPermission}))
}
