package version

import (
	"runtime/debug"
)

var (
	// These variables are set at build time using -ldflags.
	Version = "dev"
	Commit  = ""
)

// Info describes the running build.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Dirty   bool   `json:"dirty"`
}

// Get returns version information, filling missing fields from the VCS
// metadata the toolchain embeds into the binary.
func Get() Info {
	info := Info{
		Version: Version,
		Commit:  Commit,
	}

	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range buildInfo.Settings {
			switch setting.Key {
			case "vcs.revision":
				if info.Commit == "" {
					info.Commit = setting.Value
					if len(info.Commit) > 7 {
						info.Commit = info.Commit[:7]
					}
				}
			case "vcs.modified":
				info.Dirty = setting.Value == "true"
			}
		}
	}

	return info
}

// String returns a short human-readable version string.
func (i Info) String() string {
	s := i.Version
	if i.Commit != "" {
		s += "-" + i.Commit
	}
	if i.Dirty {
		s += "-dirty"
	}
	return s
}
