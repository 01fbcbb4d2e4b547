// Package misc keeps small helpers which do not belong anywhere else.
package misc

import (
	"runtime/debug"
	"sync"
)

const appName = "pubnav"

// GetAppName returns short program name to be used in logs and help output.
func GetAppName() string {
	return appName
}

var buildInfo = sync.OnceValue(func() *debug.BuildInfo {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}
	return bi
})

// GetVersion returns module version recorded during the build.
func GetVersion() string {
	bi := buildInfo()
	if bi == nil || len(bi.Main.Version) == 0 {
		return "unknown"
	}
	return bi.Main.Version
}

// GetGitHash returns VCS revision recorded during the build.
func GetGitHash() string {
	bi := buildInfo()
	if bi == nil {
		return "unknown"
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return "unknown"
}
