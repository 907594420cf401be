// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package atomic provides durable, all-or-nothing file writes: content is
// written to a sibling temporary file and only replaces the target once
// every byte has been flushed and synced.
package atomic

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vaultstream/fileengine/log"
)

// Writer accumulates writes to a temporary file next to the target path.
// Call Commit to atomically publish the content as filename, or Abort to
// discard it. Either call removes the temporary file; an unclosed Writer
// leaks its temporary file, so callers must always reach one of the two,
// typically via a deferred Abort that becomes a no-op after Commit.
//
// Unlike a one-shot io.Reader-to-file copy, this exposes an io.Writer so a
// chunked encryptor can flush one frame at a time without buffering the
// whole output (spec §4.D "Memory bound").
type Writer struct {
	f        *os.File
	bio      *bufio.Writer
	tmpPath  string
	destPath string
	done     bool
}

// NewWriter creates the temporary file backing filename's eventual content.
func NewWriter(filename string) (*Writer, error) {
	dir, file := filepath.Split(filename)
	dir = filepath.Clean(dir)

	f, err := os.CreateTemp(dir, file)
	if err != nil {
		return nil, fmt.Errorf("unable to create the temporary file: %w", err)
	}

	return &Writer{
		f:        f,
		bio:      bufio.NewWriter(f),
		tmpPath:  f.Name(),
		destPath: filename,
	}, nil
}

// Write implements io.Writer against the buffered temporary file.
func (w *Writer) Write(p []byte) (int, error) {
	return w.bio.Write(p)
}

// Commit flushes, syncs and renames the temporary file onto the destination
// path, making the write durable and visible atomically.
func (w *Writer) Commit() error {
	if w.done {
		return errors.New("writer already finalized")
	}
	w.done = true
	defer w.removeTemp()

	if err := w.bio.Flush(); err != nil {
		return fmt.Errorf("unable to flush buffered writer: %w", err)
	}
	if err := w.f.Sync(); err != nil {
		return fmt.Errorf("unable to sync file content: %w", err)
	}
	if err := w.f.Close(); err != nil {
		return fmt.Errorf("unable to close the temporary file: %w", err)
	}

	if err := syncDir(filepath.Dir(w.tmpPath)); err != nil {
		return fmt.Errorf("unable to sync directory: %w", err)
	}

	if err := os.Rename(w.tmpPath, w.destPath); err != nil {
		return fmt.Errorf("unable to replace %q with the temporary file: %w", w.destPath, err)
	}

	// Renamed: nothing left at tmpPath to remove.
	w.tmpPath = ""

	return nil
}

// Abort discards the temporary file without touching the destination path.
// Calling it after a successful Commit is a no-op.
func (w *Writer) Abort() {
	if w.done {
		return
	}
	w.done = true
	_ = w.f.Close()
	w.removeTemp()
}

func (w *Writer) removeTemp() {
	if w.tmpPath == "" {
		return
	}
	if err := os.Remove(w.tmpPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Error(err).Messagef("unable to remove temporary file %q", w.tmpPath)
	}
}

// -----------------------------------------------------------------------------

// syncDir fsyncs the directory handle so that the directory entries it holds
// are durable. Commit calls it on the temporary file's directory before the
// rename; the rename itself is not followed by a directory sync.
func syncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("unable to open the target directory %q: %w", dir, err)
	}

	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("unable to sync directory %q: %w", dir, err)
	}

	return f.Close()
}
