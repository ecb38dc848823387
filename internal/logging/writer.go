package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
)

// RotatingWriter implements io.Writer with size-based rotation.
// tscheck.log -> tscheck.log.1 -> ... -> tscheck.log.<maxFiles>, oldest dropped.
// Overlapping runs share the file; rotation holds <path>.lock so only one
// process shifts the backups.
type RotatingWriter struct {
	path     string
	maxSize  int64
	maxFiles int
	lock     *flock.Flock

	mu      sync.Mutex
	file    *os.File
	written int64
}

// NewRotatingWriter creates a new rotating log writer.
// maxSizeMB is the maximum size in megabytes before rotation.
// maxFiles is the maximum number of rotated files to keep.
func NewRotatingWriter(path string, maxSizeMB, maxFiles int) (*RotatingWriter, error) {
	w := &RotatingWriter{
		path:     path,
		maxSize:  int64(maxSizeMB) * 1024 * 1024,
		maxFiles: maxFiles,
		lock:     flock.New(path + ".lock"),
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	if err := w.openFile(); err != nil {
		return nil, err
	}

	return w, nil
}

// Write implements io.Writer, rotating first when p would exceed maxSize.
// Each record is synced so a crashed hook still leaves its log behind.
func (w *RotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.written > 0 && w.written+int64(len(p)) > w.maxSize {
		if err := w.rotateShared(int64(len(p))); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "log rotation failed: %v\n", err)
		}
	}
	if w.file == nil {
		return 0, fmt.Errorf("log file %s is closed", w.path)
	}

	n, err := w.file.Write(p)
	w.written += int64(n)
	if err == nil {
		_ = w.file.Sync()
	}
	return n, err
}

// Close closes the underlying file.
func (w *RotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	_ = w.lock.Close()
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

// Sync flushes the file to disk.
func (w *RotatingWriter) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file != nil {
		return w.file.Sync()
	}
	return nil
}

func (w *RotatingWriter) openFile() error {
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to stat log file: %w", err)
	}

	w.file = f
	w.written = info.Size()
	return nil
}

// rotateShared rotates under the cross-process lock. When another process
// already rotated, the new file is reopened and rotated only if next still
// does not fit.
func (w *RotatingWriter) rotateShared(next int64) error {
	if w.file == nil {
		return nil
	}
	if err := w.lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock log file: %w", err)
	}
	defer func() { _ = w.lock.Unlock() }()

	if w.isCurrent() {
		if info, err := w.file.Stat(); err == nil {
			w.written = info.Size()
		}
	} else {
		_ = w.file.Close()
		w.file = nil
		if err := w.openFile(); err != nil {
			return err
		}
	}

	if w.written == 0 || w.written+next <= w.maxSize {
		return nil
	}
	return w.rotate()
}

// isCurrent reports whether the open descriptor is still the file at path.
func (w *RotatingWriter) isCurrent() bool {
	current, err := os.Stat(w.path)
	if err != nil {
		return false
	}
	open, err := w.file.Stat()
	if err != nil {
		return false
	}
	return os.SameFile(open, current)
}

// rotate shifts every backup up by one, dropping the one past maxFiles.
func (w *RotatingWriter) rotate() error {
	if w.file != nil {
		if err := w.file.Close(); err != nil {
			return fmt.Errorf("failed to close log file: %w", err)
		}
		w.file = nil
	}

	if w.maxFiles > 0 {
		_ = os.Remove(w.backupPath(w.maxFiles))
		for i := w.maxFiles - 1; i >= 1; i-- {
			_ = os.Rename(w.backupPath(i), w.backupPath(i+1))
		}
		if err := os.Rename(w.path, w.backupPath(1)); err != nil && !os.IsNotExist(err) {
			if openErr := w.openFile(); openErr != nil {
				return openErr
			}
			return fmt.Errorf("failed to rotate log file: %w", err)
		}
	} else {
		_ = os.Remove(w.path)
	}

	return w.openFile()
}

func (w *RotatingWriter) backupPath(n int) string {
	return fmt.Sprintf("%s.%d", w.path, n)
}
