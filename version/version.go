// Package version reports build metadata of the putflow binary.
package version

import (
	"cmp"
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Set via -ldflags "-X go.jacobcolvin.com/putflow/version.Version=...".
var (
	Version   string
	Branch    string
	BuildDate string
)

// Info is the build metadata of the running binary.
type Info struct {
	Version   string `json:"version"`
	Revision  string `json:"revision"`
	Branch    string `json:"branch,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the build metadata. Without ldflags the version falls back to
// the main module version recorded by the Go toolchain.
func Get() Info {
	info := Info{
		Version:   Version,
		Revision:  "unknown",
		Branch:    Branch,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		info.Version = cmp.Or(info.Version, "dev")

		return info
	}

	if info.Version == "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}

	info.Version = cmp.Or(info.Version, "dev")

	dirty := false

	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Revision = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}

	if dirty {
		info.Revision += "-dirty"
	}

	return info
}

// String formats i as a short multi-line report.
func (i Info) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "putflow %s\n", i.Version)
	fmt.Fprintf(&sb, "  revision: %s\n", i.Revision)

	if i.Branch != "" {
		fmt.Fprintf(&sb, "  branch:   %s\n", i.Branch)
	}

	if i.BuildDate != "" {
		fmt.Fprintf(&sb, "  built:    %s\n", i.BuildDate)
	}

	fmt.Fprintf(&sb, "  go:       %s %s\n", i.GoVersion, i.Platform)

	return sb.String()
}
