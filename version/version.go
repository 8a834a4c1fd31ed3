// Copyright 2026 The Flatbank Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The version package adds an informative version string to the bank's
// commands. It reads the version control stamps the go command records
// in binaries built from a checkout.
package version // import "flatbank.io/version"

import (
	"fmt"
	"runtime/debug"
	"time"
)

// These are set at init from the build information, if any.
var (
	BuildTime = time.Time{}
	GitSHA    = ""
	Modified  = false
)

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	fromSettings(info.Settings)
}

func fromSettings(settings []debug.BuildSetting) {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			GitSHA = s.Value
		case "vcs.time":
			if t, err := time.Parse(time.RFC3339, s.Value); err == nil {
				BuildTime = t
			}
		case "vcs.modified":
			Modified = s.Value == "true"
		}
	}
}

// Version returns a newline-terminated string describing the current
// version of the build.
func Version() string {
	if GitSHA == "" {
		return "devel\n"
	}
	str := fmt.Sprintf("Build time: %s\n", BuildTime.In(time.UTC).Format(time.Stamp+" 2006 UTC"))
	str += fmt.Sprintf("Git hash:   %s", GitSHA)
	if Modified {
		str += " (modified)"
	}
	return str + "\n"
}
