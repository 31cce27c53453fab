package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func saveAndRestore() func() {
	origVersion, origCommit := Version, GitCommit
	return func() {
		Version = origVersion
		GitCommit = origCommit
	}
}

func TestFromBuildInfo(t *testing.T) {
	defer saveAndRestore()()
	Version, GitCommit = "dev", ""

	bi := &debug.BuildInfo{
		GoVersion: "go1.26.0",
		Main:      debug.Module{Version: "v1.4.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.modified", Value: "true"},
		},
	}
	info := fromBuildInfo(bi, true)
	if info.Version != "v1.4.0" {
		t.Errorf("expected module version, got %q", info.Version)
	}
	if info.GitCommit != "0123456" {
		t.Errorf("expected short commit, got %q", info.GitCommit)
	}
	if !info.Dirty || info.GoVersion != "go1.26.0" {
		t.Errorf("unexpected info %+v", info)
	}
	if info.String() != "v1.4.0-0123456-dirty" {
		t.Errorf("unexpected string %q", info.String())
	}
}

func TestFromBuildInfo_LinkerWins(t *testing.T) {
	defer saveAndRestore()()
	Version, GitCommit = "2.0.0", "abc"

	bi := &debug.BuildInfo{
		Main:     debug.Module{Version: "v1.4.0"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "fff"}},
	}
	if got := fromBuildInfo(bi, true).String(); got != "2.0.0-abc" {
		t.Errorf("expected linker values, got %q", got)
	}
}

func TestFromBuildInfo_Missing(t *testing.T) {
	defer saveAndRestore()()
	Version, GitCommit = "dev", ""
	info := fromBuildInfo(nil, false)
	if info.String() != "dev" {
		t.Errorf("expected dev, got %q", info.String())
	}
}

func TestUserAgent(t *testing.T) {
	if ua := UserAgent(); !strings.HasPrefix(ua, "bridge/") {
		t.Errorf("unexpected user agent %q", ua)
	}
}
