package clone

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pluginkit/plugclone/internal/logging"
	"github.com/pluginkit/plugclone/internal/platform"
	"go.uber.org/zap"
)

// copyTree recursively copies src into dst, which must not exist yet.
// Directories and regular files keep their permission bits, symlinks are
// recreated, and other special files are skipped.
func copyTree(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !srcInfo.IsDir() {
		return fmt.Errorf("%s is not a directory", src)
	}

	// Mkdir, not MkdirAll: an existing dst must fail here.
	if err := os.Mkdir(dst, srcInfo.Mode().Perm()|0700); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		switch {
		case entry.Type()&os.ModeSymlink != 0:
			if err := platform.CopySymlink(srcPath, dstPath); err != nil {
				return err
			}
		case entry.IsDir():
			if err := copyTree(srcPath, dstPath); err != nil {
				return err
			}
		case entry.Type().IsRegular():
			if err := copyFile(srcPath, dstPath); err != nil {
				return err
			}
		default:
			logging.L().Debug("skipping special file", zap.String("path", srcPath))
		}
	}

	// Restore the exact source mode now that the directory is populated.
	return platform.Chmod(dst, srcInfo.Mode().Perm())
}

// copyFile copies a single file from src to dst, preserving permissions.
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	return os.WriteFile(dst, data, srcInfo.Mode().Perm())
}

// within reports whether path lies inside (or is) dir. Both must be absolute
// and clean.
func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !filepath.IsAbs(rel) && !startsWithParent(rel))
}

func startsWithParent(rel string) bool {
	return len(rel) >= 3 && rel[:2] == ".." && os.IsPathSeparator(rel[2])
}
