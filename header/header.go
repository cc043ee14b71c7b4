// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package header renders license headers from Jinja-style templates.
//
// Templates are rendered with [pongo2], so the usual Django/Jinja tags work:
//
//	{% for line in copyright_lines %}// {{ line }}
//	{% endfor %}// SPDX-License-Identifier: {{ spdx_expressions|join:" OR " }}
//
// Filter arguments follow pongo2's syntax (join:", "), not Jinja's call
// syntax (join(", ")).
//
// The variables available to a template are the fields of [Config]:
// project_name, version, repo_url, copyright_lines and spdx_expressions.
// Unknown variables render as empty strings. Output is not HTML-escaped.
package header

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/flosch/pongo2/v6"
)

// DefaultPath is where the header template is looked up, relative to the
// working directory.
const DefaultPath = "tools/license_header.j2"

// Config is the data a header is rendered from.
type Config struct {
	ProjectName     string   `yaml:"project_name"`
	Version         string   `yaml:"version"`
	RepoURL         string   `yaml:"repo_url"`
	CopyrightLines  []string `yaml:"copyright_lines"`
	SPDXExpressions []string `yaml:"spdx_expressions"`
}

func (c Config) context() pongo2.Context {
	return pongo2.Context{
		"project_name":     c.ProjectName,
		"version":          c.Version,
		"repo_url":         c.RepoURL,
		"copyright_lines":  c.CopyrightLines,
		"spdx_expressions": c.SPDXExpressions,
	}
}

// ErrMissingTemplate is returned by [Load] when the template file does not
// exist.
var ErrMissingTemplate = errors.New("header template not found")

// TemplateError reports a template that could not be parsed or executed.
type TemplateError struct {
	Name string // file name of the template
	Err  error  // usually a *pongo2.Error with line and column
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("header template %s: %v", e.Name, e.Err)
}

func (e *TemplateError) Unwrap() error { return e.Err }

// Template is a parsed header template.
type Template struct {
	name string
	tpl  *pongo2.Template
}

// set is private so that templates never see globals or filters registered
// by other users of pongo2's default set.
var set = pongo2.NewSet("applylicense", pongo2.MustNewLocalFileSystemLoader(""))

// Load reads and parses the template file at path.
func Load(path string) (*Template, error) {
	src, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingTemplate, path)
	}
	if err != nil {
		return nil, err
	}
	return Parse(path, string(src))
}

// Parse parses src as a template. name is used in error messages.
//
// A single trailing newline is removed from src, so the rendered header
// never ends with a line break of its own.
func Parse(name, src string) (*Template, error) {
	if s, ok := strings.CutSuffix(src, "\r\n"); ok {
		src = s
	} else {
		src = strings.TrimSuffix(src, "\n")
	}
	tpl, err := set.FromString("{% autoescape off %}" + src + "{% endautoescape %}")
	if err != nil {
		return nil, &TemplateError{Name: name, Err: err}
	}
	return &Template{name: name, tpl: tpl}, nil
}

// Name returns the name the template was parsed with.
func (t *Template) Name() string { return t.name }

// Render renders the template with cfg.
func (t *Template) Render(cfg Config) (string, error) {
	out, err := t.tpl.Execute(cfg.context())
	if err != nil {
		return "", &TemplateError{Name: t.name, Err: err}
	}
	return out, nil
}
