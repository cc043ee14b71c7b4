// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package clitest runs table-driven tests against a [cli.App].
package clitest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"go.astrophena.name/applylicense/cli"
)

// Case describes a single invocation of an application and its expected
// outcome.
type Case[A cli.App] struct {
	// Args are the command-line arguments, without the program name.
	Args []string
	// Stdin is the standard input. If nil, it is empty.
	Stdin io.Reader
	// Env holds environment variables visible through Env.Getenv.
	Env map[string]string

	// WantErr, if not nil, must match the returned error with errors.Is.
	WantErr error
	// WantErrType, if not nil, must match the returned error with errors.As
	// against a value of the same type.
	WantErrType error
	// WantNothingPrinted requires empty standard output and error.
	WantNothingPrinted bool
	// WantInStdout must be a substring of standard output.
	WantInStdout string
	// WantInStderr must be a substring of standard error.
	WantInStderr string
	// CheckFunc, if set, is called with the application after it ran.
	CheckFunc func(*testing.T, A)
}

// Run runs each case as a subtest. setup is called once per case to create
// a fresh application.
func Run[A cli.App](t *testing.T, setup func(*testing.T) A, cases map[string]Case[A]) {
	t.Helper()
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			app := setup(t)

			var stdout, stderr bytes.Buffer
			stdin := tc.Stdin
			if stdin == nil {
				stdin = strings.NewReader("")
			}
			env := &cli.Env{
				Args:   tc.Args,
				Getenv: func(key string) string { return tc.Env[key] },
				Stdin:  stdin,
				Stdout: &stdout,
				Stderr: &stderr,
			}

			err := cli.Run(cli.WithEnv(context.Background(), env), app)
			checkErr(t, err, tc.WantErr, tc.WantErrType)

			if tc.WantNothingPrinted && (stdout.Len() > 0 || stderr.Len() > 0) {
				t.Errorf("want nothing printed, got stdout %q and stderr %q", stdout.String(), stderr.String())
			}
			if tc.WantInStdout != "" && !strings.Contains(stdout.String(), tc.WantInStdout) {
				t.Errorf("stdout must contain %q, got: %q", tc.WantInStdout, stdout.String())
			}
			if tc.WantInStderr != "" && !strings.Contains(stderr.String(), tc.WantInStderr) {
				t.Errorf("stderr must contain %q, got: %q", tc.WantInStderr, stderr.String())
			}
			if tc.CheckFunc != nil {
				tc.CheckFunc(t, app)
			}
		})
	}
}

func checkErr(t *testing.T, err, want, wantType error) {
	t.Helper()
	switch {
	case want != nil:
		if !errors.Is(err, want) {
			t.Fatalf("want error %v, got %v", want, err)
		}
	case wantType != nil:
		target := reflect.New(reflect.TypeOf(wantType))
		if !errors.As(err, target.Interface()) {
			t.Fatalf("want error of type %T, got %v", wantType, err)
		}
	case err != nil:
		t.Fatalf("unexpected error: %v", err)
	}
}
