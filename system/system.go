// Package system provides host and file helpers for scripts.
package system

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Host returns the hostname, or "" if it cannot be determined.
func Host() string {
	h, err := os.Hostname()
	if err != nil {
		return ""
	}
	return h
}

// OnHost reports whether the current hostname equals name.
func OnHost(name string) bool { return Host() == name }

// HomeDir returns the user's home directory without a trailing slash,
// or "" if it cannot be determined.
func HomeDir() string {
	h, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return strings.TrimRight(h, "/")
}

// TempFileName returns a clock-based temporary file name of the form
// dir/base_YYYYMMDD-HHMMSS.micros.ext. Empty arguments default to the
// home directory, ".tmpfile" and "tmp". The file is not created.
func TempFileName(dir, base, ext string) string {
	if dir == "" {
		dir = HomeDir()
	}
	if base == "" {
		base = ".tmpfile"
	}
	if ext == "" {
		ext = "tmp"
	}
	now := time.Now()
	return filepath.Join(dir, fmt.Sprintf("%s_%s.%06d.%s",
		base, now.Format("20060102-150405"), now.Nanosecond()/1000, ext))
}

// TailFile writes the last n lines of src to dst.
func TailFile(src, dst string, n int) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("tail %s: %w", src, err)
	}

	lines := strings.SplitAfter(string(data), "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if n < len(lines) {
		lines = lines[len(lines)-n:]
	}

	if err := os.WriteFile(dst, []byte(strings.Join(lines, "")), 0o644); err != nil {
		return fmt.Errorf("tail %s: %w", src, err)
	}
	return nil
}

// StringInFile reports whether the file at path contains s. The whole
// file is read; fine for small files or incidental use.
func StringInFile(path, s string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	return strings.Contains(string(data), s), nil
}

// StringInFileGrep reports whether the file at path contains s by
// running grep, which is faster for large files or repeated calls.
func StringInFileGrep(path, s string) (bool, error) {
	err := exec.Command("grep", "-c", "--", s, path).Run()
	if err == nil {
		return true, nil
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) && ee.ExitCode() == 1 {
		return false, nil // grep found no match
	}
	return false, fmt.Errorf("grep %s: %w", path, err)
}
