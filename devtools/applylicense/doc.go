// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Applylicense adds a license header to source files that lack one.

Usage:

	applylicense [flags] [dir]

It recursively walks dir (the current directory by default) and, for every
file with one of the target extensions, checks whether the file contains the
string "SPDX-License-Identifier" anywhere. If it does not, the rendered header
followed by an empty line is prepended to the file. Files are replaced
atomically. Running the tool again changes nothing, as long as the header
contains the marker.

The header is rendered from a template, tools/license_header.j2 by default,
read relative to the current directory. The template uses Django/Jinja-style
syntax (see https://github.com/flosch/pongo2) and can refer to these
variables:

  - project_name, version, repo_url: strings.
  - copyright_lines: a list of strings.
  - spdx_expressions: a list of SPDX license expressions.

For example:

	{% for line in copyright_lines %}// {{ line }}
	{% endfor %}// SPDX-License-Identifier: {{ spdx_expressions|join:" OR " }}

Filter arguments follow a colon, as in join:" OR " above. Jinja templates
that call filters with parentheses, such as join(" OR "), fail to parse and
must be rewritten in this form.

The variables, the template path, the target extensions and exclusions come
from built-in defaults, which a YAML file passed with -config overrides key
by key:

	project_name: Widget
	version: 1.2.0
	repo_url: https://example.com/widget
	copyright_lines:
	  - Copyright 2026 Widget Inc.
	spdx_expressions: [Apache-2.0]
	template: tools/license_header.j2
	extensions: [.c, .cpp, .h, .hpp, .rs]
	exclude: [vendor, "gen/**"]

Exclusions are glob patterns matched against paths relative to dir; "**"
matches any number of directories. A malformed pattern is an error reported
before any file is changed.

Symbolic links to files with a target extension are followed and the file
they point to gets the header; the link itself is kept. Linked directories
are not walked.

A file that cannot be read or written, including one without write
permission, is reported and skipped; the tool exits with a non-zero status at
the end if any file failed. Use -failfast to stop at the first failure
instead. With -check, nothing is changed and the files lacking a header are
printed, one per line; the exit status is non-zero if there are any.
*/
package main

import (
	_ "embed"

	"go.astrophena.name/applylicense/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
