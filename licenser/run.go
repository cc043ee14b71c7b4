// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package licenser adds license headers to the files of a source tree.
//
// A file gets a header when its suffix is one of the target [Extensions] and
// it does not contain [Marker] anywhere. The header is prepended as plain
// text, followed by an empty line; comment syntax is up to the template.
package licenser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.astrophena.name/applylicense/logger"
)

// Options configure [Run].
type Options struct {
	// Root is the directory to walk. Empty means the working directory.
	Root string
	// Header is the rendered header prepended to files.
	Header string
	// Extensions selects the files to process.
	Extensions Extensions
	// Exclude lists glob patterns of paths to skip, relative to Root.
	Exclude []string
	// DryRun reports files lacking a header without changing them.
	DryRun bool
	// FailFast stops the run at the first file that cannot be processed.
	// Otherwise failures are logged and the run goes on.
	FailFast bool
}

// Summary describes a finished run.
type Summary struct {
	Scanned   int // files with a target extension
	Licensed  int // files that received a header
	Unchanged int // files that already had one
	Failed    int // files or directories that could not be processed

	// Missing lists the files that lacked a header, whether or not they were
	// changed.
	Missing []string
}

// Run walks opts.Root and applies opts.Header to every candidate file.
//
// Files are processed one at a time. The context is checked between files;
// files processed before cancellation stay modified.
//
// If some files failed and FailFast is not set, Run processes all other
// files and returns an error joining every failure.
func Run(ctx context.Context, opts Options) (Summary, error) {
	root := opts.Root
	if root == "" {
		root = "."
	}

	var (
		sum  Summary
		errs []error
	)
	for path, err := range Candidates(root, opts.Extensions, opts.Exclude) {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		var outcome Outcome
		if err == nil {
			sum.Scanned++
			outcome, err = Apply(ctx, path, opts.Header, opts.DryRun)
		}
		if err != nil {
			sum.Failed++
			logger.Error(ctx, "failed to process file", slog.String("path", path), slog.Any("err", err))
			if opts.FailFast {
				return sum, err
			}
			errs = append(errs, err)
			continue
		}

		switch outcome {
		case Unchanged:
			sum.Unchanged++
			logger.Debug(ctx, "already licensed", slog.String("path", path))
		case Licensed:
			sum.Licensed++
			sum.Missing = append(sum.Missing, path)
			logger.Info(ctx, "added license header", slog.String("path", path))
		case WouldLicense:
			sum.Missing = append(sum.Missing, path)
			logger.Info(ctx, "would add license header", slog.String("path", path))
		}
	}

	logger.Info(ctx, "done",
		slog.Int("scanned", sum.Scanned),
		slog.Int("licensed", sum.Licensed),
		slog.Int("unchanged", sum.Unchanged),
		slog.Int("failed", sum.Failed),
	)

	if sum.Failed > 0 {
		return sum, fmt.Errorf("failed to process %d paths: %w", sum.Failed, errors.Join(errs...))
	}
	return sum, nil
}
