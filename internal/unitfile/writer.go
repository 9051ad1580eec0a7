//go:build linux

// Package unitfile creates and deletes systemd unit files.
//
// Writes refuse to follow symbolic links: the target is opened with
// O_NOFOLLOW in the same syscall that creates it, so there is no window
// between a link check and the open for an attacker to swap a symlink in.
// The refuse-to-follow open flag is a Linux guarantee; the package does not
// build elsewhere.
package unitfile

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// FileMode is the permission applied to every unit file, independent of the
// process umask.
const FileMode = 0o644

// ErrSymlink is returned when the write target is an existing symbolic link.
var ErrSymlink = errors.New("unitfile: target is a symbolic link")

// Writer creates and deletes unit files on the local filesystem. The zero
// value is ready to use; it holds no state between calls.
type Writer struct{}

// NewWriter returns a Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Write creates or truncates path and writes content with mode 0644. An
// existing symlink at path fails with ErrSymlink. Either the full content
// lands on disk or the error reports which step failed; the single
// open-write-close sequence leaves no separately observable partial state
// beyond what a crashed write would.
func (w *Writer) Write(path string, content []byte) error {
	fd, err := unix.Open(path, unix.O_WRONLY|unix.O_CREAT|unix.O_TRUNC|unix.O_NOFOLLOW|unix.O_CLOEXEC, FileMode)
	if err != nil {
		// Opening a symlink with O_NOFOLLOW fails with ELOOP.
		if errors.Is(err, unix.ELOOP) {
			return fmt.Errorf("%w: %s", ErrSymlink, path)
		}
		return fmt.Errorf("unitfile: open %s: %w", path, err)
	}
	f := os.NewFile(uintptr(fd), path)

	if _, err := f.Write(content); err != nil {
		f.Close()
		return fmt.Errorf("unitfile: write %s: %w", path, err)
	}
	// O_CREAT honors the umask; force the final mode on the open handle.
	if err := unix.Fchmod(fd, FileMode); err != nil {
		f.Close()
		return fmt.Errorf("unitfile: chmod %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("unitfile: sync %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("unitfile: close %s: %w", path, err)
	}
	return nil
}

// Remove deletes path. A missing file counts as success: remove is
// idempotent. Any other failure propagates to the caller.
func (w *Writer) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("unitfile: remove %s: %w", path, err)
	}
	return nil
}
