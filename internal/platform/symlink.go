package platform

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
)

// CopySymlink recreates the symlink at src as dst, pointing at the same
// (possibly relative) target. Relative targets keep their meaning inside a
// copied tree.
//
// On Windows, where symlink creation needs developer mode, a failed link is
// replaced by a copy of the file the link resolves to.
func CopySymlink(src, dst string) error {
	target, err := os.Readlink(src)
	if err != nil {
		return fmt.Errorf("reading symlink %s: %w", src, err)
	}

	err = os.Symlink(target, dst)
	if err == nil || runtime.GOOS != "windows" {
		return err
	}

	resolved := target
	if !filepath.IsAbs(target) {
		resolved = filepath.Join(filepath.Dir(src), target)
	}
	if copyErr := copyRegular(resolved, dst); copyErr != nil {
		return fmt.Errorf("symlink fallback (copy) failed: %w", copyErr)
	}
	return nil
}

// IsSymlink reports whether path is itself a symbolic link.
func IsSymlink(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeSymlink != 0
}

func copyRegular(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
