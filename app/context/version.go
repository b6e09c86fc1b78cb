package context

import (
	"fmt"
	"runtime/debug"
)

// VersionInfo describes the build of the running binary.
type VersionInfo struct {
	Semantic  string
	Commit    string
	GoVersion string
	Modified  bool
}

// GetVersion returns the version of the running binary from its embedded build
// information.
func GetVersion() *VersionInfo {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return &VersionInfo{Semantic: "(devel)"}
	}

	vi := &VersionInfo{Semantic: bi.Main.Version, GoVersion: bi.GoVersion}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			vi.Commit = s.Value
		case "vcs.modified":
			vi.Modified = s.Value == "true"
		}
	}
	if vi.Semantic == "" {
		vi.Semantic = "(devel)"
	}

	return vi
}

func (vi *VersionInfo) String() string {
	commit := vi.Commit
	if len(commit) > 12 {
		commit = commit[:12]
	}
	if vi.Modified {
		commit += "-dirty"
	}
	switch {
	case vi.GoVersion == "":
		return vi.Semantic
	case commit == "":
		return fmt.Sprintf("%s (%s)", vi.Semantic, vi.GoVersion)
	}

	return fmt.Sprintf("%s (commit %s, %s)", vi.Semantic, commit, vi.GoVersion)
}
