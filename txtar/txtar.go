// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package txtar implements a trivial text-based file archive format,
// and helpers to move archives between memory and directory trees.
//
// The format is described in [golang.org/x/tools/txtar]. Archives are used
// to describe fixture trees in tests:
//
//	comment
//	-- a.rs --
//	fn main() {}
//	-- tools/license_header.j2 --
//	// SPDX-License-Identifier: {{ spdx_expressions|join:" OR " }}
package txtar

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/tools/txtar"
)

// An Archive is a collection of files.
type Archive = txtar.Archive

// A File is a single file in an archive.
type File = txtar.File

// Parse parses the serialized form of an Archive.
// The returned Archive holds slices of data.
func Parse(data []byte) *Archive { return txtar.Parse(data) }

// Format returns the serialized form of an Archive.
func Format(a *Archive) []byte { return txtar.Format(a) }

// ParseFile parses the named file as an archive.
func ParseFile(file string) (*Archive, error) { return txtar.ParseFile(file) }

// Extract writes the files of a to dir, creating directories as needed.
// File names must be local: absolute names or names escaping dir are
// rejected.
func Extract(a *Archive, dir string) error {
	for _, f := range a.Files {
		name := filepath.FromSlash(f.Name)
		if !filepath.IsLocal(name) {
			return fmt.Errorf("txtar: file name %q is not local", f.Name)
		}
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, f.Data, 0o644); err != nil {
			return err
		}
	}
	return nil
}

// FromDir builds an archive from the regular files under dir. File names are
// slash-separated and relative to dir, in lexical walk order.
func FromDir(dir string) (*Archive, error) {
	a := new(Archive)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		a.Files = append(a.Files, File{Name: filepath.ToSlash(rel), Data: data})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}
