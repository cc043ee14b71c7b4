// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"bytes"
	"context"
	"flag"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"go.astrophena.name/applylicense/cli"
	"go.astrophena.name/applylicense/cli/clitest"
	"go.astrophena.name/applylicense/header"
	"go.astrophena.name/applylicense/testutil"
	"go.astrophena.name/applylicense/txtar"
)

var update = flag.Bool("update", false, "update golden files")

// argsFrom returns the arguments listed on the "args:" line of an archive
// comment.
func argsFrom(comment []byte) []string {
	for line := range strings.Lines(string(comment)) {
		if rest, ok := strings.CutPrefix(line, "args:"); ok {
			return strings.Fields(rest)
		}
	}
	return nil
}

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errb bytes.Buffer
	env := &cli.Env{
		Args:   args,
		Getenv: func(string) string { return "" },
		Stdin:  strings.NewReader(""),
		Stdout: &out,
		Stderr: &errb,
	}
	err = cli.Run(cli.WithEnv(context.Background(), env), new(app))
	return out.String(), errb.String(), err
}

// TestGolden extracts each testdata/*.txtar archive into a temporary
// directory, runs the tool there with the arguments from the archive comment
// and compares the resulting tree with the .golden file.
func TestGolden(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	testutil.RunGolden(t, filepath.Join(wd, "testdata", "*.txtar"), func(t *testing.T, match string) []byte {
		ar, err := txtar.ParseFile(match)
		if err != nil {
			t.Fatal(err)
		}
		dir := t.TempDir()
		testutil.ExtractTxtar(t, ar, dir)
		t.Chdir(dir)

		if _, stderr, err := run(t, argsFrom(ar.Comment)...); err != nil {
			t.Fatalf("run failed: %v\n%s", err, stderr)
		}
		return testutil.BuildTxtar(t, dir)
	}, *update)
}

func TestIdempotent(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	testutil.Run(t, filepath.Join(wd, "testdata", "*.txtar"), func(t *testing.T, match string) {
		ar, err := txtar.ParseFile(match)
		if err != nil {
			t.Fatal(err)
		}
		dir := t.TempDir()
		testutil.ExtractTxtar(t, ar, dir)
		t.Chdir(dir)

		args := argsFrom(ar.Comment)
		if _, _, err := run(t, args...); err != nil {
			t.Fatal(err)
		}
		once := testutil.BuildTxtar(t, dir)
		if _, _, err := run(t, args...); err != nil {
			t.Fatal(err)
		}
		testutil.AssertEqual(t, string(testutil.BuildTxtar(t, dir)), string(once))
	})
}

const tree = `
-- a.rs --
fn main() {}
-- b.py --
print(1)
-- c.cpp --
// SPDX-License-Identifier: MIT
-- sub/d.h --
int d;
-- tools/license_header.j2 --
// SPDX-License-Identifier: {{ spdx_expressions|join:" OR " }}
-- tools/plain.j2 --
// {{ project_name }}
-- tools/bad.j2 --
{% for line in copyright_lines %}
-- bad.yaml --
unknown: 1
-- badexclude.yaml --
exclude: [vendor, "sub/["]
`

const untouched = "fn main() {}\n"

func fileEquals(path, want string) func(*testing.T, *app) {
	return func(t *testing.T, _ *app) {
		t.Helper()
		testutil.AssertEqual(t, testutil.ReadFile(t, filepath.FromSlash(path)), want)
	}
}

func TestRun(t *testing.T) {
	setup := func(t *testing.T) *app {
		dir := t.TempDir()
		testutil.ExtractTxtar(t, txtar.Parse([]byte(tree)), dir)
		t.Chdir(dir)
		return new(app)
	}

	clitest.Run(t, setup, map[string]clitest.Case[*app]{
		"defaults": {
			WantInStderr: "added license header path=a.rs",
			CheckFunc:    fileEquals("a.rs", "// SPDX-License-Identifier: MIT\n\nfn main() {}\n"),
		},
		"subdirectory": {
			Args:      []string{"sub"},
			CheckFunc: fileEquals("sub/d.h", "// SPDX-License-Identifier: MIT\n\nint d;\n"),
		},
		"subdirectory leaves the rest": {
			Args:      []string{"sub"},
			CheckFunc: fileEquals("a.rs", untouched),
		},
		"verbose logs skipped files": {
			Args:         []string{"-v"},
			WantInStderr: "already licensed path=c.cpp",
		},
		"dry run": {
			Args:         []string{"-dry"},
			WantInStderr: "would add license header path=a.rs",
			CheckFunc:    fileEquals("a.rs", untouched),
		},
		"check lists missing headers": {
			Args:         []string{"-check"},
			WantErr:      errMissingHeader,
			WantInStdout: "a.rs\n" + filepath.Join("sub", "d.h") + "\n",
			CheckFunc:    fileEquals("a.rs", untouched),
		},
		"custom template": {
			Args:      []string{"-template", "tools/plain.j2"},
			CheckFunc: fileEquals("a.rs", "// KubuCore\n\nfn main() {}\n"),
		},
		"missing template": {
			Args:      []string{"-template", "tools/nope.j2"},
			WantErr:   header.ErrMissingTemplate,
			CheckFunc: fileEquals("a.rs", untouched),
		},
		"invalid template": {
			Args:        []string{"-template", "tools/bad.j2"},
			WantErrType: &header.TemplateError{},
			CheckFunc:   fileEquals("a.rs", untouched),
		},
		"invalid config": {
			Args:        []string{"-config", "bad.yaml"},
			WantErrType: &yaml.TypeError{},
			CheckFunc:   fileEquals("a.rs", untouched),
		},
		"invalid exclude pattern": {
			Args:      []string{"-config", "badexclude.yaml"},
			WantErr:   doublestar.ErrBadPattern,
			CheckFunc: fileEquals("a.rs", untouched),
		},
		"missing config": {
			Args:    []string{"-config", "nope.yaml"},
			WantErr: fs.ErrNotExist,
		},
		"too many arguments": {
			Args:    []string{"a", "b"},
			WantErr: cli.ErrInvalidArgs,
		},
	})
}

func TestCheckClean(t *testing.T) {
	dir := t.TempDir()
	testutil.ExtractTxtar(t, txtar.Parse([]byte(tree)), dir)
	t.Chdir(dir)

	if _, _, err := run(t); err != nil {
		t.Fatal(err)
	}
	stdout, _, err := run(t, "-check")
	if err != nil {
		t.Fatalf("-check after a run: %v", err)
	}
	testutil.AssertEqual(t, stdout, "")
}

func TestHelpShowsDoc(t *testing.T) {
	_, stderr, err := run(t, "-h")
	if err == nil {
		t.Fatal("want an error for -h")
	}
	for _, want := range []string{"Applylicense adds a license header", "-check", "-config", `join(" OR ")`} {
		if !strings.Contains(stderr, want) {
			t.Errorf("help output must contain %q, got:\n%s", want, stderr)
		}
	}
}
