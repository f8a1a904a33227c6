package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func setVars(t *testing.T, v, c, d string) {
	t.Helper()
	oldV, oldC, oldD := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = oldV, oldC, oldD })
	Version, Commit, Date = v, c, d
}

func TestFromBuildInfo(t *testing.T) {
	setVars(t, "dev", "none", "unknown")

	fromBuildInfo(&debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	})

	if Version != "v0.3.1" || Commit != "abc123" || Date != "2026-01-02T03:04:05Z" {
		t.Errorf("got %s %s %s", Version, Commit, Date)
	}
}

func TestFromBuildInfoKeepsLdflags(t *testing.T) {
	setVars(t, "v1.0.0", "deadbeef", "yesterday")

	fromBuildInfo(&debug.BuildInfo{
		Main:     debug.Module{Version: "v0.3.1"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc123"}},
	})

	if Version != "v1.0.0" || Commit != "deadbeef" || Date != "yesterday" {
		t.Errorf("ldflags values should win, got %s %s %s", Version, Commit, Date)
	}
}

func TestFromBuildInfoDevel(t *testing.T) {
	setVars(t, "dev", "none", "unknown")
	fromBuildInfo(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	if Version != "dev" {
		t.Errorf("(devel) should not replace dev, got %s", Version)
	}
}

func TestTemplate(t *testing.T) {
	setVars(t, "v2.0.0", "c0ffee", "today")

	if got := Template(); !strings.HasPrefix(got, "{{.Name}} version v2.0.0\n") {
		t.Errorf("Template() = %q", got)
	}
	if got := String(); got != "version: v2.0.0\ncommit: c0ffee\nbuilt: today" {
		t.Errorf("String() = %q", got)
	}
}
