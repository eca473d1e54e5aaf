// Package export writes captured surfaces to disk.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fogleman/gg"
	"github.com/gofrs/flock"

	"webshot/pkg/surface"
)

// LockTimeout bounds how long SavePNG waits for another writer.
const LockTimeout = 5 * time.Second

// DefaultMode is the permission of newly created output files.
const DefaultMode os.FileMode = 0o644

// ErrLocked is returned when the output stays locked by another writer.
var ErrLocked = errors.New("output file is locked")

// SavePNG encodes s as PNG and replaces path with it. Writers of the same
// path are serialised through an exclusive lock on path+".lock", which is
// left in place. The image goes to a temporary name first so readers never
// see a partial file.
func SavePNG(ctx context.Context, path string, s *surface.Surface) error {
	lockCtx, cancel := context.WithTimeout(ctx, LockTimeout)
	defer cancel()

	fileLock := flock.New(path + ".lock")
	locked, err := fileLock.TryLockContext(lockCtx, 50*time.Millisecond)
	if err != nil || !locked {
		fileLock.Close()
		if err == nil || (ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded)) {
			return fmt.Errorf("%w: %s", ErrLocked, path)
		}
		return fmt.Errorf("locking %s: %w", path, err)
	}
	defer fileLock.Unlock() //nolint:errcheck

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	err = tmp.Chmod(outputMode(path))
	tmp.Close()
	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting mode of %s: %w", path, err)
	}

	if err := gg.SavePNG(tmpPath, s.RGBA()); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing %s: %w", path, err)
	}

	slog.Info("export: saved", "path", path, "width", s.Width, "height", s.Height, "format", s.Format)
	return nil
}

// outputMode keeps the permissions of an existing output file.
func outputMode(path string) os.FileMode {
	if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
		return info.Mode().Perm()
	}
	return DefaultMode
}
