// Package version reports build metadata for the keymapdoc binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// Name is the binary name shown in version output.
const Name = "keymapdoc"

// Set at build time with -ldflags "-X github.com/conneroisu/keymapdoc/internal/version.Version=...".
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// BuildInfo contains version and build information.
type BuildInfo struct {
	Version   string    `json:"version" yaml:"version"`
	GitCommit string    `json:"git_commit" yaml:"git_commit"`
	BuildTime time.Time `json:"build_time,omitzero" yaml:"build_time,omitempty"`
	GoVersion string    `json:"go_version" yaml:"go_version"`
	Platform  string    `json:"platform" yaml:"platform"`
	Dirty     bool      `json:"dirty,omitempty" yaml:"dirty,omitempty"`
}

// Get assembles build information from the linker variables, falling back
// to the VCS settings the Go toolchain embeds.
func Get() BuildInfo {
	return resolve(Version, GitCommit, BuildTime, vcsSettings())
}

func vcsSettings() map[string]string {
	settings := make(map[string]string)
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return settings
	}
	for _, s := range info.Settings {
		settings[s.Key] = s.Value
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		settings["main.version"] = v
	}
	return settings
}

func resolve(version, commit, built string, vcs map[string]string) BuildInfo {
	if commit == "" || commit == "unknown" {
		commit = vcs["vcs.revision"]
		if commit == "" {
			commit = "unknown"
		}
	}

	if version == "" || version == "dev" {
		switch {
		case vcs["main.version"] != "":
			version = vcs["main.version"]
		case len(commit) >= 7 && commit != "unknown":
			version = "dev-" + commit[:7]
		default:
			version = "dev"
		}
	}

	if built == "" || built == "unknown" {
		built = vcs["vcs.time"]
	}

	return BuildInfo{
		Version:   version,
		GitCommit: commit,
		BuildTime: parseTime(built),
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		Dirty:     vcs["vcs.modified"] == "true",
	}
}

// IsRelease reports whether the version is a tagged release.
func (b BuildInfo) IsRelease() bool {
	return b.Version != "dev" && !strings.HasPrefix(b.Version, "dev-")
}

// Short is the one-line form, e.g. "keymapdoc v1.2.0 (abc1234)".
func (b BuildInfo) Short() string {
	var sb strings.Builder
	sb.WriteString(Name + " " + b.Version)
	if b.IsRelease() && len(b.GitCommit) >= 7 && b.GitCommit != "unknown" {
		fmt.Fprintf(&sb, " (%s)", b.GitCommit[:7])
	}
	if b.Dirty {
		sb.WriteString(" (dirty)")
	}
	return sb.String()
}

// Detailed lists every known field on its own line.
func (b BuildInfo) Detailed() string {
	lines := []string{"Version: " + b.Version}
	if b.GitCommit != "unknown" {
		lines = append(lines, "Commit: "+b.GitCommit)
	}
	if !b.BuildTime.IsZero() {
		lines = append(lines, "Built: "+b.BuildTime.Format(time.RFC3339))
	}
	lines = append(lines, "Go: "+b.GoVersion, "Platform: "+b.Platform)
	return strings.Join(lines, "\n")
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// parseTime returns the zero time for anything unparseable.
func parseTime(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
