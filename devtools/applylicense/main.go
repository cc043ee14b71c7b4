// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"go.astrophena.name/applylicense/cli"
	"go.astrophena.name/applylicense/config"
	"go.astrophena.name/applylicense/header"
	"go.astrophena.name/applylicense/licenser"
)

func main() { cli.Main(new(app)) }

var errMissingHeader = errors.New("license header missing")

type app struct {
	configFile string
	template   string
	dry        bool
	check      bool
	failFast   bool
}

func (a *app) Flags(fs *flag.FlagSet) {
	fs.StringVar(&a.configFile, "config", "", "Read settings from YAML `file` instead of using the built-in defaults.")
	fs.StringVar(&a.template, "template", "", "Read the header template from `file`, overriding the settings.")
	fs.BoolVar(&a.dry, "dry", false, "Print the files that would have a license header added, without making changes.")
	fs.BoolVar(&a.check, "check", false, "Print the files lacking a license header to stdout without making changes, and fail if there are any.")
	fs.BoolVar(&a.failFast, "failfast", false, "Stop at the first file that cannot be processed.")
}

func (a *app) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)

	root := "."
	switch len(env.Args) {
	case 0:
	case 1:
		root = env.Args[0]
	default:
		return fmt.Errorf("%w: at most one directory can be given", cli.ErrInvalidArgs)
	}

	cfg := config.Default()
	if a.configFile != "" {
		var err error
		cfg, err = config.Load(a.configFile)
		if err != nil {
			return err
		}
	}
	if a.template != "" {
		cfg.Template = a.template
	}

	// Render once, before touching any file: a template error leaves the
	// tree as it was.
	tpl, err := header.Load(cfg.Template)
	if err != nil {
		return err
	}
	hdr, err := tpl.Render(cfg.Header)
	if err != nil {
		return err
	}

	sum, err := licenser.Run(ctx, licenser.Options{
		Root:       root,
		Header:     hdr,
		Extensions: licenser.NewExtensions(cfg.Extensions...),
		Exclude:    cfg.Exclude,
		DryRun:     a.dry || a.check,
		FailFast:   a.failFast,
	})
	if a.check {
		for _, path := range sum.Missing {
			fmt.Fprintln(env.Stdout, path)
		}
	}
	if err != nil {
		return err
	}
	if a.check && len(sum.Missing) > 0 {
		return fmt.Errorf("%w in %d files", errMissingHeader, len(sum.Missing))
	}
	return nil
}
