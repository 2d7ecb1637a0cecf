// Package version holds build metadata injected via -ldflags.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set with -ldflags "-X github.com/doeshing/alex-go/internal/version.Version=...".
var (
	Version   = "dev"
	Commit    = ""
	BuildDate = ""
)

// Info is the resolved build metadata of the running binary.
type Info struct {
	Version   string
	Commit    string
	BuildDate string
	Modified  bool
	GoVersion string
	Platform  string
}

// Get merges the ldflags values with the VCS stamp the Go toolchain embeds,
// so `go install` builds still report a commit.
func Get() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info = withBuildSettings(info, bi.Settings)
		if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
	}
	return info
}

func withBuildSettings(info Info, settings []debug.BuildSetting) Info {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.BuildDate == "" {
				info.BuildDate = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// ShortCommit trims the revision to 12 characters.
func (i Info) ShortCommit() string {
	if len(i.Commit) > 12 {
		return i.Commit[:12]
	}
	return i.Commit
}

// String renders the one-line form, e.g.
// "alex v0.3.1 (3f2a9c1d0b7e, 2026-01-03T10:00:00Z) go1.25.3 linux/amd64".
func (i Info) String() string {
	meta := ""
	switch {
	case i.Commit != "" && i.BuildDate != "":
		meta = fmt.Sprintf(" (%s, %s)", i.ShortCommit(), i.BuildDate)
	case i.Commit != "":
		meta = fmt.Sprintf(" (%s)", i.ShortCommit())
	case i.BuildDate != "":
		meta = fmt.Sprintf(" (%s)", i.BuildDate)
	}
	dirty := ""
	if i.Modified {
		dirty = "+dirty"
	}
	return fmt.Sprintf("alex %s%s%s %s %s", i.Version, dirty, meta, i.GoVersion, i.Platform)
}
