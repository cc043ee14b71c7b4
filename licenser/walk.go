// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package licenser

import (
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Extensions is a set of file suffixes, such as ".rs".
type Extensions map[string]struct{}

// NewExtensions returns a set holding exts.
func NewExtensions(exts ...string) Extensions {
	e := make(Extensions, len(exts))
	for _, ext := range exts {
		e[ext] = struct{}{}
	}
	return e
}

// Match reports whether the suffix of name is in the set.
func (e Extensions) Match(name string) bool {
	s := Suffix(name)
	if s == "" {
		return false
	}
	_, ok := e[s]
	return ok
}

// Suffix returns the extension of the final element of path, including the
// dot. Dot files without another dot (".bashrc") and names ending in a dot
// have no suffix.
func Suffix(path string) string {
	name := filepath.Base(path)
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return ""
	}
	return name[i:]
}

// ValidatePatterns returns an error wrapping [doublestar.ErrBadPattern] for
// the first malformed pattern in patterns.
func ValidatePatterns(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("exclude pattern %q: %w", p, doublestar.ErrBadPattern)
		}
	}
	return nil
}

// Candidates returns an iterator over the files under root whose suffix is in
// exts.
//
// Paths matching one of the exclude patterns (doublestar globs, matched
// against the slash-separated path relative to root) are skipped; an excluded
// directory is not descended into. A symbolic link is yielded when it points
// to a regular file; a dangling link is yielded with its error. Links to
// directories are not followed.
//
// Errors are yielded with the path they relate to. A directory that cannot be
// read is skipped and the walk continues. An invalid pattern is yielded with
// root before anything is walked, and nothing else is yielded.
func Candidates(root string, exts Extensions, exclude []string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if err := ValidatePatterns(exclude); err != nil {
			yield(root, err)
			return
		}
		filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if !yield(path, err) {
					return filepath.SkipAll
				}
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if path != root && isExcluded(root, path, exclude) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !exts.Match(d.Name()) {
				return nil
			}
			switch typ := d.Type(); {
			case typ.IsRegular():
			case typ&fs.ModeSymlink != 0:
				fi, err := os.Stat(path)
				if err != nil {
					if !yield(path, err) {
						return filepath.SkipAll
					}
					return nil
				}
				if !fi.Mode().IsRegular() {
					return nil
				}
			default:
				return nil
			}
			if !yield(path, nil) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// isExcluded expects patterns checked by [ValidatePatterns].
func isExcluded(root, path string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, p := range patterns {
		if doublestar.MatchUnvalidated(p, rel) {
			return true
		}
	}
	return false
}
