// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package licenser

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"go.astrophena.name/applylicense/logger"
)

// Marker is the string whose presence anywhere in a file means the file
// already carries a license header.
const Marker = "SPDX-License-Identifier"

// HasMarker reports whether content contains [Marker].
func HasMarker(content []byte) bool {
	return bytes.Contains(content, []byte(Marker))
}

// Outcome is the result of [Apply] on a single file.
type Outcome int

const (
	// Unchanged means the file already contained the marker.
	Unchanged Outcome = iota
	// Licensed means the header was prepended.
	Licensed
	// WouldLicense means the file lacks the marker, but it was not changed
	// because of a dry run.
	WouldLicense
)

func (o Outcome) String() string {
	switch o {
	case Unchanged:
		return "unchanged"
	case Licensed:
		return "licensed"
	case WouldLicense:
		return "would license"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// FileError records a failure to process a file.
type FileError struct {
	Path string
	Op   string // "read" or "write"
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// Replaced in tests.
var (
	readFile  = os.ReadFile
	writeFile = replaceFile
	chmod     = os.Chmod
)

const modeBits = fs.ModePerm | fs.ModeSetuid | fs.ModeSetgid | fs.ModeSticky

// replaceFile atomically replaces the content of path with data. A symbolic
// link is resolved first, so the file it points to is replaced and the link
// stays.
//
// A file that cannot be opened for writing is not replaced, even though its
// directory would allow the rename. After the rename, the mode of the old file
// is restored; failing that, the file is still replaced and a warning is
// logged.
func replaceFile(ctx context.Context, path string, data []byte) error {
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(target, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	fi, err := f.Stat()
	f.Close()
	if err != nil {
		return err
	}
	if err := atomic.WriteFile(target, bytes.NewReader(data)); err != nil {
		return err
	}
	if err := chmod(target, fi.Mode()&modeBits); err != nil {
		logger.Warn(ctx, "failed to restore file mode", slog.String("path", path), slog.Any("err", err))
	}
	return nil
}

// Apply prepends header, followed by an empty line, to the file at path,
// unless the file already contains [Marker].
//
// The new content replaces the file atomically: the file either keeps its
// old content or has the new one, even if the process dies mid-write.
// If dryRun is true, the file is never written.
func Apply(ctx context.Context, path, header string, dryRun bool) (Outcome, error) {
	content, err := readFile(path)
	if err != nil {
		return Unchanged, &FileError{Path: path, Op: "read", Err: err}
	}
	if HasMarker(content) {
		return Unchanged, nil
	}
	if dryRun {
		return WouldLicense, nil
	}

	var buf bytes.Buffer
	buf.Grow(len(header) + 2 + len(content))
	buf.WriteString(header)
	buf.WriteString("\n\n")
	buf.Write(content)

	if err := writeFile(ctx, path, buf.Bytes()); err != nil {
		return Unchanged, &FileError{Path: path, Op: "write", Err: err}
	}
	return Licensed, nil
}
