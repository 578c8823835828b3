package fsutil

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultFileMode is the permission mode for newly written files.
const DefaultFileMode os.FileMode = 0644

// WriteAtomic replaces path with content. See WriteAtomicFunc.
func WriteAtomic(ctx context.Context, path string, content []byte, mode os.FileMode) error {
	return WriteAtomicFunc(ctx, path, mode, func(w io.Writer) error {
		_, err := w.Write(content)
		return err
	})
}

// WriteAtomicFunc streams fill into a temp file beside path and renames it
// into place once fill and the flush succeed. Readers see the old file or the
// new one, never a mix.
//
// A zero mode keeps the mode of an existing file, or DefaultFileMode for a
// new one. On any error path is left as it was.
func WriteAtomicFunc(ctx context.Context, path string, mode os.FileMode, fill func(io.Writer) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("write atomic: %w", err)
	}

	mode, err := targetMode(path, mode)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if err := fillTemp(tmp, mode, fill); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

func targetMode(path string, mode os.FileMode) (os.FileMode, error) {
	if mode != 0 {
		return mode, nil
	}

	info, err := os.Stat(path)
	switch {
	case err == nil:
		return info.Mode().Perm(), nil
	case errors.Is(err, fs.ErrNotExist):
		return DefaultFileMode, nil
	default:
		return 0, fmt.Errorf("stat %s: %w", path, err)
	}
}

// fillTemp writes, syncs and closes tmp.
func fillTemp(tmp *os.File, mode os.FileMode, fill func(io.Writer) error) error {
	buf := bufio.NewWriter(tmp)
	if err := fill(buf); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("flush temp file: %w", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return nil
}
