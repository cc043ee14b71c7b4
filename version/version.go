// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package version reports build information of the running binary.
package version

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
)

// Info describes a build.
type Info struct {
	Name      string // command name
	Module    string // main module path
	Version   string // main module version, "(devel)" for local builds
	Commit    string // VCS revision, if known
	Modified  bool   // whether the working tree had local changes
	GoVersion string
}

// String returns a human-readable, newline-terminated description of the build.
func (i Info) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s", i.Name, i.Version)
	if i.Commit != "" {
		fmt.Fprintf(&sb, " (%s", i.Commit)
		if i.Modified {
			sb.WriteString(", modified")
		}
		sb.WriteString(")")
	}
	fmt.Fprintf(&sb, "\nbuilt with %s\n", i.GoVersion)
	return sb.String()
}

// CmdName returns the base name of the current binary, without the ".exe"
// suffix on Windows.
func CmdName() string {
	name := filepath.Base(os.Args[0])
	return strings.TrimSuffix(name, ".exe")
}

// Version returns the build information of the running binary.
func Version() Info {
	info := Info{
		Name:      CmdName(),
		Version:   "(devel)",
		GoVersion: runtime.Version(),
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.Module = bi.Main.Path
	if bi.Main.Version != "" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Commit = s.Value
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}
