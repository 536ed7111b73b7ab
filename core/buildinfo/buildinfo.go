// Package buildinfo carries version metadata stamped at link time:
//
//	-X 'github.com/m3rciful/tourbot/core/buildinfo.Version=v1.2.3'
//	-X 'github.com/m3rciful/tourbot/core/buildinfo.Commit=abcdef0'
//	-X 'github.com/m3rciful/tourbot/core/buildinfo.Date=2025-08-30T12:00:00Z'
//
// Unstamped builds fall back to the VCS data embedded by the go command.
package buildinfo

import "runtime/debug"

var (
	// Version is the release tag of the build.
	Version = "dev"
	// Commit is the VCS revision of the build.
	Commit = "local"
	// Date is the build or commit time in RFC3339.
	Date = ""
)

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	fromVCS(info.Settings)
}

// fromVCS fills Commit and Date from vcs.* settings unless they were stamped.
func fromVCS(settings []debug.BuildSetting) {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if Commit == "local" && s.Value != "" {
				Commit = s.Value[:min(len(s.Value), 12)]
			}
		case "vcs.time":
			if Date == "" {
				Date = s.Value
			}
		}
	}
}
