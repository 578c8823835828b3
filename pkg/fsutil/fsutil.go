// Package fsutil provides the file helpers tokenedit needs: reading input
// from a file or stdin, and writing files atomically.
package fsutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// StdinPath is the path that selects standard input.
const StdinPath = "-"

var (
	// ErrNotFound is returned when a file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrIsDirectory is returned when a directory is given where a file is expected.
	ErrIsDirectory = errors.New("is a directory")
)

// ReadInput reads path, or stdin when path is empty or StdinPath.
func ReadInput(ctx context.Context, path string, stdin io.Reader) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("read input: %w", ctx.Err())
	default:
	}

	if path == "" || path == StdinPath {
		content, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return content, nil
	}

	stat, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return content, nil
}

// Exists reports whether path names an existing regular file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
