package version

import (
	"fmt"
	"runtime/debug"
	"strings"
)

var (
	// Version is the release version, "dev" for local builds.
	Version = "dev"
	// Commit is the VCS revision.
	Commit = ""
	// BuildTime is the RFC 3339 build timestamp.
	BuildTime = ""
)

// Info describes the running binary.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
	GoVersion string `json:"go_version"`
	Dirty     bool   `json:"dirty"`
}

// Get returns the build info, falling back to embedded VCS settings for
// fields not set at link time.
func Get() Info {
	info := Info{Version: Version, Commit: Commit, BuildTime: BuildTime}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = bi.GoVersion
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.BuildTime == "" {
				info.BuildTime = s.Value
			}
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		}
	}
	if len(info.Commit) > 7 {
		info.Commit = info.Commit[:7]
	}
	return info
}

// IsRelease reports whether this is a tagged, clean build.
func (i Info) IsRelease() bool {
	return i.Version != "dev" && !i.Dirty && !strings.Contains(i.Version, "dirty")
}

// String renders e.g. "1.2.0 (abc1234, built 2026-01-02T03:04:05Z, go1.26.0)".
func (i Info) String() string {
	var details []string
	if i.Commit != "" {
		c := i.Commit
		if i.Dirty {
			c += "-dirty"
		}
		details = append(details, c)
	}
	if i.BuildTime != "" {
		details = append(details, "built "+i.BuildTime)
	}
	if i.GoVersion != "" {
		details = append(details, i.GoVersion)
	}
	if len(details) == 0 {
		return i.Version
	}
	return fmt.Sprintf("%s (%s)", i.Version, strings.Join(details, ", "))
}

// UserAgent returns the product token sent by clients, e.g. "webframe/1.2.0".
func UserAgent() string {
	return "webframe/" + Version
}
