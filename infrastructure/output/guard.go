package output

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/seedtabs/qrcoder/constant"
)

var (
	ErrNotDirectory      = errors.New(constant.ErrNotDirectory)
	ErrDirNotEmpty       = errors.New(constant.ErrDirNotEmpty)
	ErrLedgerInOutputDir = errors.New(constant.ErrLedgerInOutputDir)
)

// Prepare makes sure dir can receive a fresh batch: it is created when
// missing, and must otherwise be an empty directory. created reports
// whether Prepare made the directory.
func Prepare(dir string) (created bool, err error) {
	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("create %s: %w", dir, err)
		}
		return true, nil
	case err != nil:
		return false, fmt.Errorf("stat %s: %w", dir, err)
	case !info.IsDir():
		return false, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	empty, err := isEmpty(dir)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", dir, err)
	}
	if !empty {
		return false, fmt.Errorf("%w: %s", ErrDirNotEmpty, dir)
	}
	return false, nil
}

// ErrorCode maps a Prepare failure onto the error code it is logged with
func ErrorCode(err error) string {
	var pathErr *fs.PathError
	switch {
	case errors.Is(err, ErrNotDirectory):
		return constant.ErrCodeNotDir
	case errors.Is(err, ErrDirNotEmpty):
		return constant.ErrCodeDirNotEmpty
	case errors.As(err, &pathErr) && pathErr.Op == "mkdir":
		return constant.ErrCodeDirCreate
	}
	return constant.ErrCodeDirStat
}

func isEmpty(dir string) (bool, error) {
	f, err := os.Open(dir)
	if err != nil {
		return false, err
	}
	defer f.Close()

	_, err = f.Readdirnames(1)
	if errors.Is(err, io.EOF) {
		return true, nil
	}
	return false, err
}

// CheckOutside rejects a path that would land inside dir, so the output
// directory only ever holds label images.
func CheckOutside(dir, path string) error {
	if path == "" {
		return nil
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return nil
	}
	if rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))) {
		return fmt.Errorf("%w: %s", ErrLedgerInOutputDir, path)
	}
	return nil
}
